// Package render turns resolved spec nodes into display strings and renders
// the Markdown document and report formats.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kolah/oasdoc/internal/resolve"
)

const schemaRefPrefix = "#/components/schemas/"

var primitiveTypes = map[string]bool{
	"string":  true,
	"integer": true,
	"number":  true,
	"boolean": true,
}

func refLink(ref string) string {
	name := ref[strings.LastIndex(ref, "/")+1:]
	return fmt.Sprintf("[%s](#%s)", name, strings.ToLower(name))
}

// FormatType renders a schema node's type in the documentation notation:
// schema links for references, object<string, X> for maps, combinator
// notation for allOf/anyOf/oneOf, array<T> for arrays.
func FormatType(schema map[string]any) string {
	if ref, ok := schema[resolve.OriginalRefKey].(string); ok {
		if strings.HasPrefix(ref, schemaRefPrefix) {
			return refLink(ref)
		}
	}

	if ref, ok := schema["$ref"].(string); ok {
		return refLink(ref)
	}

	if additional, ok := schema["additionalProperties"]; ok {
		if obj, ok := additional.(map[string]any); ok {
			return fmt.Sprintf("object<string, %s>", FormatType(obj))
		}
		return "object"
	}

	if branches, ok := schema["anyOf"].([]any); ok {
		return formatCombinator("anyOf", branches, " , ")
	}
	if branches, ok := schema["oneOf"].([]any); ok {
		return formatCombinator("oneOf", branches, " , ")
	}
	if branches, ok := schema["allOf"].([]any); ok {
		return formatCombinator("allOf", branches, " & ")
	}

	schemaType, _ := schema["type"].(string)

	if schemaType == "array" {
		if items, ok := schema["items"].(map[string]any); ok {
			return formatArrayType(items)
		}
	}

	if schemaType == "object" {
		if _, ok := schema["properties"]; ok {
			return "object"
		}
	}

	if schemaType == "" {
		return "object"
	}
	return schemaType
}

func formatCombinator(kind string, branches []any, sep string) string {
	types := make([]string, 0, len(branches))
	for _, branch := range branches {
		obj, _ := branch.(map[string]any)
		types = append(types, FormatType(obj))
	}
	return fmt.Sprintf("%s<%s>", kind, strings.Join(types, sep))
}

func formatArrayType(items map[string]any) string {
	baseType := "object"
	if t, ok := items["type"].(string); ok {
		baseType = t
	} else if ref, ok := items[resolve.OriginalRefKey].(string); ok {
		baseType = refLink(ref)
	} else if ref, ok := items["$ref"].(string); ok {
		baseType = refLink(ref)
	}

	if primitiveTypes[baseType] {
		return fmt.Sprintf("array<%s>", baseType)
	}
	return fmt.Sprintf("array<%s>", FormatType(items))
}

// FormatDescription extracts a node's description, falling back to its title.
func FormatDescription(node map[string]any) string {
	if desc, ok := node["description"].(string); ok && desc != "" {
		return desc
	}
	if title, ok := node["title"].(string); ok {
		return title
	}
	return ""
}

// SafeReplace makes a description safe for a Markdown table cell.
func SafeReplace(s string) string {
	s = strings.ReplaceAll(s, "\n", "<br>")
	return strings.ReplaceAll(s, "  - ", "<br>- ")
}

// Example is one labelled example payload extracted from a spec node.
type Example struct {
	Label string
	Value any
}

// ExtractExamples gathers every example a node declares: the singular
// `example`, each entry of `examples` (keyed entries labelled by summary or
// key, list entries positionally), then the same again for a nested `schema`
// carried by parameter-like nodes.
func ExtractExamples(node map[string]any) []Example {
	examples := extractNodeExamples(node)

	if schema, ok := node["schema"].(map[string]any); ok {
		examples = append(examples, extractNodeExamples(schema)...)
	}

	return examples
}

func extractNodeExamples(node map[string]any) []Example {
	var examples []Example

	if value, ok := node["example"]; ok {
		examples = append(examples, Example{Label: "Example", Value: value})
	}

	switch declared := node["examples"].(type) {
	case map[string]any:
		// Keyed examples are ordered by key: the decoded document no longer
		// carries source order.
		for _, name := range sortedMapKeys(declared) {
			examples = append(examples, keyedExample(name, declared[name]))
		}
	case []any:
		for i, value := range declared {
			examples = append(examples, Example{
				Label: fmt.Sprintf("Example %d", i+1),
				Value: value,
			})
		}
	}

	return examples
}

func keyedExample(name string, data any) Example {
	if obj, ok := data.(map[string]any); ok {
		if value, ok := obj["value"]; ok {
			label := name
			if summary, ok := obj["summary"].(string); ok && summary != "" {
				label = summary
			}
			return Example{Label: label, Value: value}
		}
	}
	return Example{Label: name, Value: data}
}

// FormatExample renders an example payload for display. Structured values
// pretty-print as JSON and truncate at maxLen with a trailing ellipsis.
func FormatExample(value any, maxLen int) string {
	if value == nil {
		return ""
	}

	switch value.(type) {
	case map[string]any, []any:
		data, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		s := string(data)
		if len(s) > maxLen {
			return s[:maxLen] + "..."
		}
		return s
	}

	return fmt.Sprintf("%v", value)
}
