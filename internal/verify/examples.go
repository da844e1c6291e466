package verify

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/kolah/oasdoc/internal/spec"
)

// specExample is one example declared in the spec, with the dictionary key it
// was declared under and the summary the renderer may have used as a label.
type specExample struct {
	Name    string
	Summary string
	Value   any
}

func namedExample(name string, data any) specExample {
	if obj, ok := data.(map[string]any); ok {
		if value, hasValue := obj["value"]; hasValue {
			summary := name
			if s, ok := obj["summary"].(string); ok && s != "" {
				summary = s
			}
			return specExample{Name: name, Summary: summary, Value: value}
		}
	}
	return specExample{Name: name, Summary: name, Value: data}
}

// responseExamples extracts declared examples per response code.
func responseExamples(operation map[string]any) map[string][]specExample {
	examples := make(map[string][]specExample)

	responses, _ := operation["responses"].(map[string]any)
	for code, rawResponse := range responses {
		response, ok := rawResponse.(map[string]any)
		if !ok {
			continue
		}
		var codeExamples []specExample
		content, _ := response["content"].(map[string]any)
		for _, mediaType := range sortedKeys(content) {
			media, ok := content[mediaType].(map[string]any)
			if !ok {
				continue
			}
			declared, ok := media["examples"].(map[string]any)
			if !ok {
				continue
			}
			for _, name := range sortedKeys(declared) {
				codeExamples = append(codeExamples, namedExample(name, declared[name]))
			}
		}
		if len(codeExamples) > 0 {
			examples[code] = codeExamples
		}
	}

	return examples
}

func (v *Verifier) checkResponseExamples(endpoint spec.Endpoint, markdown string, missing *MissingItems, issues []Issue) []Issue {
	declared := responseExamples(endpoint.Operation)
	labels := markdownResponseLabels(markdown, endpoint)

	for _, code := range sortedKeys(declared) {
		codeLabels := labels[code]
		values := markdownExampleValues(markdown, endpoint, code)

		for _, example := range declared[code] {
			if exampleDocumented(example, codeLabels, values) {
				continue
			}
			missing.ResponseExamples = append(missing.ResponseExamples, MissingExample{
				Code:  code,
				Name:  example.Name,
				Value: example.Value,
			})
			issues = append(issues, Issue{
				Type:     "missing_response_example",
				Severity: SeverityMedium,
				Message:  fmt.Sprintf("Response %s example %q missing from Markdown", code, example.Name),
			})
		}
	}

	return issues
}

func exampleDocumented(example specExample, labels []string, values []any) bool {
	for _, label := range labels {
		if label == example.Name || label == example.Summary {
			return true
		}
	}
	for _, value := range values {
		if reflect.DeepEqual(example.Value, value) {
			return true
		}
	}
	// Dict values also match through canonical JSON, or by containment in a
	// non-JSON code block.
	if obj, ok := example.Value.(map[string]any); ok {
		canonical := compactJSON(obj)
		for _, value := range values {
			switch mdValue := value.(type) {
			case map[string]any:
				if compactJSON(mdValue) == canonical {
					return true
				}
			case string:
				if strings.Contains(mdValue, canonical) {
					return true
				}
			}
		}
	}
	return false
}

// markdownResponseLabels finds every "Code NNN" block in the endpoint's
// section and collects the bold labels that precede its example blocks.
func markdownResponseLabels(markdown string, endpoint spec.Endpoint) map[string][]string {
	labels := make(map[string][]string)
	section := endpointSection(markdown, endpoint)
	if section == "" {
		return labels
	}

	for _, loc := range responseCodeRe.FindAllStringSubmatchIndex(section, -1) {
		code := section[loc[2]:loc[3]]
		codeSection := window(section[loc[0]:], responseWindow)
		var names []string
		for _, m := range exampleLabelRe.FindAllStringSubmatch(codeSection, -1) {
			names = append(names, m[1])
		}
		labels[code] = names
	}

	return labels
}

// markdownExampleValues parses the JSON code blocks under one response code;
// blocks that fail to parse are kept as raw strings for containment matching.
func markdownExampleValues(markdown string, endpoint spec.Endpoint, code string) []any {
	var values []any
	section := endpointSection(markdown, endpoint)
	if section == "" {
		return values
	}

	codeRe := regexp.MustCompile(`######\s*\*\*Code\s+` + regexp.QuoteMeta(code) + `:\*\*`)
	loc := codeRe.FindStringIndex(section)
	if loc == nil {
		return values
	}

	codeSection := window(section[loc[0]:], valueWindow)
	for _, m := range jsonBlockRe.FindAllStringSubmatch(codeSection, -1) {
		block := strings.TrimSpace(m[1])
		var parsed any
		if err := json.Unmarshal([]byte(block), &parsed); err != nil {
			values = append(values, block)
			continue
		}
		values = append(values, parsed)
	}

	return values
}

// parameterExamples extracts declared examples per parameter name, nested
// schema examples first, then the parameter's own.
func parameterExamples(operation map[string]any) map[string][]any {
	examples := make(map[string][]any)

	parameters, _ := operation["parameters"].([]any)
	for _, rawParam := range parameters {
		param, ok := rawParam.(map[string]any)
		if !ok {
			continue
		}
		name, _ := param["name"].(string)
		var paramExamples []any

		if schema, ok := param["schema"].(map[string]any); ok {
			paramExamples = append(paramExamples, declaredExampleValues(schema)...)
			if value, ok := schema["example"]; ok {
				paramExamples = append(paramExamples, value)
			}
		}

		paramExamples = append(paramExamples, declaredExampleValues(param)...)
		if value, ok := param["example"]; ok {
			paramExamples = append(paramExamples, value)
		}

		if len(paramExamples) > 0 {
			examples[name] = paramExamples
		}
	}

	return examples
}

// declaredExampleValues flattens a node's `examples` list or map to values.
func declaredExampleValues(node map[string]any) []any {
	switch declared := node["examples"].(type) {
	case []any:
		return declared
	case map[string]any:
		var values []any
		for _, name := range sortedKeys(declared) {
			values = append(values, declared[name])
		}
		return values
	}
	return nil
}

func (v *Verifier) checkParameterExamples(endpoint spec.Endpoint, markdown string, missing *MissingItems, issues []Issue) []Issue {
	declared := parameterExamples(endpoint.Operation)
	documented := markdownParameterExamples(markdown, endpoint)

	for _, name := range sortedKeys(declared) {
		for _, example := range declared[name] {
			if containsRendered(documented[name], example) {
				continue
			}
			missing.ParameterExamples = append(missing.ParameterExamples, MissingParameterExample{
				Parameter: name,
				Example:   example,
			})
			issues = append(issues, Issue{
				Type:     "missing_parameter_example",
				Severity: SeverityLow,
				Message:  fmt.Sprintf("Parameter %q example missing from Markdown", name),
			})
		}
	}

	return issues
}

func containsRendered(documented []string, example any) bool {
	rendered := fmt.Sprintf("%v", example)
	for _, d := range documented {
		if d == rendered {
			return true
		}
	}
	return false
}

// markdownParameterExamples reads the "Parameter examples" subsection.
func markdownParameterExamples(markdown string, endpoint spec.Endpoint) map[string][]string {
	examples := make(map[string][]string)
	section := endpointSection(markdown, endpoint)
	if section == "" {
		return examples
	}

	head := window(section, parameterWindow)
	for _, m := range paramExamplesRe.FindAllStringSubmatch(head, -1) {
		examples[m[1]] = append(examples[m[1]], m[2])
	}

	return examples
}

// requestBodyExamples extracts named examples under the request body's media
// types; a bare `example` is recorded under the name "default".
func requestBodyExamples(operation map[string]any) map[string]any {
	examples := make(map[string]any)

	body, _ := operation["requestBody"].(map[string]any)
	content, _ := body["content"].(map[string]any)
	for _, mediaType := range sortedKeys(content) {
		media, ok := content[mediaType].(map[string]any)
		if !ok {
			continue
		}
		if declared, ok := media["examples"].(map[string]any); ok {
			for _, name := range sortedKeys(declared) {
				if obj, ok := declared[name].(map[string]any); ok {
					if value, hasValue := obj["value"]; hasValue {
						examples[name] = value
						continue
					}
				}
				examples[name] = declared[name]
			}
		}
		if value, ok := media["example"]; ok {
			examples["default"] = value
		}
	}

	return examples
}

func (v *Verifier) checkRequestBodyExamples(endpoint spec.Endpoint, markdown string, missing *MissingItems, issues []Issue) []Issue {
	declared := requestBodyExamples(endpoint.Operation)
	labels := markdownBodyLabels(markdown, endpoint)

	for _, name := range sortedKeys(declared) {
		if labels[name] {
			continue
		}
		missing.RequestBodyExamples = append(missing.RequestBodyExamples, MissingExample{
			Name:  name,
			Value: declared[name],
		})
		issues = append(issues, Issue{
			Type:     "missing_request_body_example",
			Severity: SeverityMedium,
			Message:  fmt.Sprintf("Request body example %q missing from Markdown", name),
		})
	}

	return issues
}

// markdownBodyLabels collects every bold label in a broad window after the
// endpoint heading.
func markdownBodyLabels(markdown string, endpoint spec.Endpoint) map[string]bool {
	labels := make(map[string]bool)
	section := endpointSection(markdown, endpoint)
	if section == "" {
		return labels
	}

	head := window(section, requestBodyWindow)
	for _, m := range exampleLabelRe.FindAllStringSubmatch(head, -1) {
		labels[m[1]] = true
	}

	return labels
}

func summarize(issues []Issue) string {
	if len(issues) == 0 {
		return NoLossMessage
	}

	counts := map[Severity]int{}
	for _, issue := range issues {
		counts[issue.Severity]++
	}

	var parts []string
	if counts[SeverityHigh] > 0 {
		parts = append(parts, fmt.Sprintf("🔴 high: %d", counts[SeverityHigh]))
	}
	if counts[SeverityMedium] > 0 {
		parts = append(parts, fmt.Sprintf("🟡 medium: %d", counts[SeverityMedium]))
	}
	if counts[SeverityLow] > 0 {
		parts = append(parts, fmt.Sprintf("🟢 low: %d", counts[SeverityLow]))
	}

	return fmt.Sprintf("Found %d issues (%s)", len(issues), strings.Join(parts, ", "))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
