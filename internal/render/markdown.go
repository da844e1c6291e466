package render

import (
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/kolah/oasdoc/internal/resolve"
	"github.com/kolah/oasdoc/internal/spec"
	"github.com/kolah/oasdoc/internal/templates"
	embeddedtmpl "github.com/kolah/oasdoc/templates"
)

// DefaultMaxExampleLength bounds pretty-printed example payloads in the
// rendered document.
const DefaultMaxExampleLength = 150

// Generator renders Markdown API documentation from a spec through the
// template engine. Construct one per generation run.
type Generator struct {
	engine templates.Engine
	maxLen int
}

// NewGenerator builds a Generator. customDir overrides embedded templates
// when non-empty; maxExampleLen <= 0 falls back to the default.
func NewGenerator(customDir string, maxExampleLen int) (*Generator, error) {
	if maxExampleLen <= 0 {
		maxExampleLen = DefaultMaxExampleLength
	}

	funcs := template.FuncMap{
		"formatExample": func(v any) string { return FormatExample(v, maxExampleLen) },
		"safeReplace":   SafeReplace,
		"inline":        func(v any) string { return fmt.Sprintf("%v", v) },
		"lower":         strings.ToLower,
		"inc":           func(i int) int { return i + 1 },
	}

	engine, err := templates.NewEngine(embeddedtmpl.FS, customDir, funcs)
	if err != nil {
		return nil, fmt.Errorf("creating template engine: %w", err)
	}

	return &Generator{engine: engine, maxLen: maxExampleLen}, nil
}

type documentData struct {
	Title          string
	Version        string
	Description    string
	TagGroups      []tagGroup
	SchemasSection string
}

type tagGroup struct {
	Tag       string
	Endpoints []endpointData
}

type endpointData struct {
	Path            string
	Method          string
	Summary         string
	Description     string
	OperationID     string
	Deprecated      bool
	ParametersTable string
	RequestBody     string
	Responses       string
	Security        string
}

// Generate renders the full Markdown document. When filter is non-empty only
// matching endpoints are included; unless includeAllSchemas is set, the
// schemas section is scoped to the transitive closure of rendered endpoints.
func (g *Generator) Generate(s *spec.Spec, filter *spec.EndpointFilter, includeAllSchemas bool) (string, error) {
	resolver := resolve.New(s)
	collector := resolve.NewCollector(s, resolver)

	var used map[string]bool
	if !includeAllSchemas {
		used = make(map[string]bool)
	}

	groups := make(map[string][]endpointData)
	for _, endpoint := range spec.ListAll(s) {
		if filter != nil && filter.Len() > 0 && !filter.Matches(endpoint.Method, endpoint.Path) {
			continue
		}

		data, err := g.endpointData(endpoint, resolver)
		if err != nil {
			return "", err
		}
		for _, tag := range endpoint.Tags {
			groups[tag] = append(groups[tag], data)
		}

		if used != nil {
			for name := range collector.Collect(endpoint) {
				used[name] = true
			}
		}
	}

	schemasSection, err := g.schemasSection(s, resolver, used)
	if err != nil {
		return "", err
	}

	doc := documentData{
		Title:          s.Title(),
		Version:        s.Version(),
		Description:    s.Description(),
		SchemasSection: schemasSection,
	}

	tags := make([]string, 0, len(groups))
	for tag := range groups {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		doc.TagGroups = append(doc.TagGroups, tagGroup{Tag: tag, Endpoints: groups[tag]})
	}

	return g.engine.Execute("markdown/base.md.tmpl", doc)
}

func (g *Generator) endpointData(endpoint spec.Endpoint, resolver *resolve.Resolver) (endpointData, error) {
	operation := endpoint.Operation

	parametersTable, err := g.parametersTable(operation, resolver)
	if err != nil {
		return endpointData{}, fmt.Errorf("rendering parameters for %s %s: %w", endpoint.Method, endpoint.Path, err)
	}
	requestBody, err := g.requestBody(operation, resolver)
	if err != nil {
		return endpointData{}, fmt.Errorf("rendering request body for %s %s: %w", endpoint.Method, endpoint.Path, err)
	}
	responses, err := g.responses(operation, resolver)
	if err != nil {
		return endpointData{}, fmt.Errorf("rendering responses for %s %s: %w", endpoint.Method, endpoint.Path, err)
	}

	operationID, _ := operation["operationId"].(string)
	description, _ := operation["description"].(string)

	return endpointData{
		Path:            endpoint.Path,
		Method:          endpoint.Method,
		Summary:         endpoint.Summary(),
		Description:     description,
		OperationID:     operationID,
		Deprecated:      endpoint.Deprecated(),
		ParametersTable: parametersTable,
		RequestBody:     requestBody,
		Responses:       responses,
		Security:        formatSecurity(operation),
	}, nil
}

type parameterData struct {
	Name        string
	Type        string
	In          string
	Required    string
	Description string
	Format      string
	Examples    []Example
}

type parametersTableData struct {
	Parameters  []parameterData
	HasExamples bool
}

func (g *Generator) parametersTable(operation map[string]any, resolver *resolve.Resolver) (string, error) {
	rawParams, _ := operation["parameters"].([]any)
	if len(rawParams) == 0 {
		return "", nil
	}

	data := parametersTableData{}
	for _, raw := range rawParams {
		param, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		resolved := resolver.ProcessSchema(param).(map[string]any)

		p := parameterData{
			Name:        stringKey(resolved, "name"),
			In:          stringKey(resolved, "in"),
			Required:    checkbox(boolKey(resolved, "required")),
			Description: FormatDescription(resolved),
			Examples:    ExtractExamples(resolved),
		}
		if schema, ok := resolved["schema"].(map[string]any); ok {
			p.Type = FormatType(schema)
			p.Format = stringKey(schema, "format")
		}
		if len(p.Examples) > 0 {
			data.HasExamples = true
		}
		data.Parameters = append(data.Parameters, p)
	}

	return g.engine.Execute("markdown/parameters_table.md.tmpl", data)
}

type mediaContentData struct {
	ContentType string
	SchemaRef   string
	SchemaTitle string
	SchemaType  string
	Properties  []propertyData
	Examples    []Example
}

type propertyData struct {
	Name        string
	Type        string
	Required    string
	Description string
	Format      string
	Examples    []Example
}

type requestBodyData struct {
	Description string
	Content     []mediaContentData
}

func (g *Generator) requestBody(operation map[string]any, resolver *resolve.Resolver) (string, error) {
	body, ok := operation["requestBody"].(map[string]any)
	if !ok || len(body) == 0 {
		return "", nil
	}

	data := requestBodyData{Description: stringKey(body, "description")}

	content, _ := body["content"].(map[string]any)
	for _, contentType := range sortedMapKeys(content) {
		media, ok := content[contentType].(map[string]any)
		if !ok {
			continue
		}
		mc := mediaContentData{ContentType: contentType}

		if rawSchema, ok := media["schema"].(map[string]any); ok && len(rawSchema) > 0 {
			processed, _ := resolver.ProcessSchema(rawSchema).(map[string]any)

			if ref, ok := rawSchema["$ref"].(string); ok {
				mc.SchemaRef = ref[strings.LastIndex(ref, "/")+1:]
				if target := resolver.Resolve(ref); len(target) > 0 {
					mc.SchemaTitle = stringKey(target, "title")
				}
			} else if processed != nil {
				mc.SchemaType = FormatType(processed)
			}

			if processed != nil && stringKey(processed, "type") == "object" {
				mc.Properties = g.properties(processed, resolver)
			}
		}

		mc.Examples = ExtractExamples(media)
		data.Content = append(data.Content, mc)
	}

	return g.engine.Execute("markdown/request_body.md.tmpl", data)
}

type responseData struct {
	Code        string
	Description string
	Content     []mediaContentData
}

func (g *Generator) responses(operation map[string]any, resolver *resolve.Resolver) (string, error) {
	responses, ok := operation["responses"].(map[string]any)
	if !ok || len(responses) == 0 {
		return "", nil
	}

	var data []responseData
	for _, code := range sortedMapKeys(responses) {
		response, ok := responses[code].(map[string]any)
		if !ok {
			continue
		}
		rd := responseData{Code: code, Description: stringKey(response, "description")}

		content, _ := response["content"].(map[string]any)
		for _, contentType := range sortedMapKeys(content) {
			media, ok := content[contentType].(map[string]any)
			if !ok {
				continue
			}
			mc := mediaContentData{ContentType: contentType}

			if schema, ok := media["schema"].(map[string]any); ok && len(schema) > 0 {
				if ref, ok := schema["$ref"].(string); ok {
					mc.SchemaRef = ref[strings.LastIndex(ref, "/")+1:]
					if target := resolver.Resolve(ref); len(target) > 0 {
						mc.SchemaTitle = stringKey(target, "title")
					}
				} else if processed, ok := resolver.ProcessSchema(schema).(map[string]any); ok {
					mc.SchemaType = FormatType(processed)
				}
			}

			mc.Examples = ExtractExamples(media)
			rd.Content = append(rd.Content, mc)
		}

		data = append(data, rd)
	}

	return g.engine.Execute("markdown/responses.md.tmpl", map[string]any{"Responses": data})
}

// formatSecurity renders the security requirements block inline; the wording
// is part of the verifier's search contract.
func formatSecurity(operation map[string]any) string {
	security, ok := operation["security"].([]any)
	if !ok || len(security) == 0 {
		return ""
	}

	var items []string
	for _, raw := range security {
		requirement, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		for _, scheme := range sortedMapKeys(requirement) {
			scopes := scopeList(requirement[scheme])
			if len(scopes) > 0 {
				items = append(items, fmt.Sprintf("**%s** (scopes: %s)", scheme, strings.Join(scopes, ", ")))
			} else {
				items = append(items, fmt.Sprintf("**%s**", scheme))
			}
		}
	}
	if len(items) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n**Security requirements:**\n\n")
	for _, item := range items {
		b.WriteString("- " + item + "\n")
	}
	return b.String()
}

func scopeList(raw any) []string {
	values, _ := raw.([]any)
	var scopes []string
	for _, v := range values {
		if s, ok := v.(string); ok {
			scopes = append(scopes, s)
		}
	}
	return scopes
}

type schemaData struct {
	Name        string
	Title       string
	Type        string
	Description string
	Required    []string
	Properties  []propertyData
	Example     any
}

func (g *Generator) schemasSection(s *spec.Spec, resolver *resolve.Resolver, used map[string]bool) (string, error) {
	if len(s.Schemas) == 0 {
		return "", nil
	}

	var data []schemaData
	for _, name := range s.SchemaNames() {
		if used != nil && !used[name] {
			continue
		}
		definition, ok := s.Schemas[name].(map[string]any)
		if !ok {
			continue
		}
		processed, ok := resolver.ProcessSchema(definition).(map[string]any)
		if !ok {
			continue
		}

		schemaType := stringKey(processed, "type")
		if schemaType == "" {
			schemaType = "object"
		}

		data = append(data, schemaData{
			Name:        name,
			Title:       stringKey(processed, "title"),
			Type:        schemaType,
			Description: stringKey(processed, "description"),
			Required:    requiredFields(processed),
			Properties:  g.properties(processed, resolver),
			Example:     processed["example"],
		})
	}
	if len(data) == 0 {
		return "", nil
	}

	return g.engine.Execute("markdown/schemas.md.tmpl", map[string]any{"Schemas": data})
}

func (g *Generator) properties(schema map[string]any, resolver *resolve.Resolver) []propertyData {
	properties, ok := schema["properties"].(map[string]any)
	if !ok {
		return nil
	}
	required := make(map[string]bool)
	for _, name := range requiredFields(schema) {
		required[name] = true
	}

	var result []propertyData
	for _, name := range sortedMapKeys(properties) {
		prop, ok := resolver.ProcessSchema(properties[name]).(map[string]any)
		if !ok {
			continue
		}
		result = append(result, propertyData{
			Name:        name,
			Type:        FormatType(prop),
			Required:    checkbox(required[name]),
			Description: FormatDescription(prop),
			Format:      stringKey(prop, "format"),
			Examples:    ExtractExamples(prop),
		})
	}
	return result
}

func requiredFields(schema map[string]any) []string {
	raw, _ := schema["required"].([]any)
	var fields []string
	for _, v := range raw {
		if s, ok := v.(string); ok {
			fields = append(fields, s)
		}
	}
	return fields
}

func checkbox(b bool) string {
	if b {
		return "✅"
	}
	return "❌"
}

func stringKey(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}

func boolKey(m map[string]any, key string) bool {
	v, _ := m[key].(bool)
	return v
}

func sortedMapKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
