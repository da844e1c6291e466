package resolve

import (
	"sort"
	"strings"

	"github.com/kolah/oasdoc/internal/spec"
)

// combinators and structural keys get dedicated handling in collectNode; the
// generic walk skips them to avoid visiting a subtree twice.
var handledKeys = map[string]bool{
	"$ref":                 true,
	"allOf":                true,
	"anyOf":                true,
	"oneOf":                true,
	"properties":           true,
	"items":                true,
	"additionalProperties": true,
}

// Collector computes the transitive closure of named schemas reachable from
// an operation's parameters, request body and responses.
type Collector struct {
	spec     *spec.Spec
	resolver *Resolver
}

// NewCollector returns a Collector sharing the given resolver's cache.
func NewCollector(s *spec.Spec, r *Resolver) *Collector {
	return &Collector{spec: s, resolver: r}
}

// Collect returns the set of schema names the endpoint reaches. A name is
// added before its body is walked, so cyclic schema graphs terminate.
func (c *Collector) Collect(endpoint spec.Endpoint) map[string]bool {
	collected := make(map[string]bool)

	if parameters, ok := endpoint.Operation["parameters"].([]any); ok {
		for _, param := range parameters {
			c.collectNode(param, collected)
		}
	}

	if body, ok := endpoint.Operation["requestBody"]; ok {
		c.collectNode(body, collected)
	}

	if responses, ok := endpoint.Operation["responses"].(map[string]any); ok {
		for _, response := range responses {
			c.collectNode(response, collected)
		}
	}

	return collected
}

// CollectNames returns Collect's result as a sorted slice.
func (c *Collector) CollectNames(endpoint spec.Endpoint) []string {
	collected := c.Collect(endpoint)
	names := make([]string, 0, len(collected))
	for name := range collected {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Collector) collectNode(node any, collected map[string]bool) {
	switch n := node.(type) {
	case map[string]any:
		if ref, ok := n["$ref"].(string); ok && strings.HasPrefix(ref, schemaRefPrefix) {
			name := lastSegment(ref)
			if !collected[name] {
				collected[name] = true
				if body := c.resolver.Resolve(ref); len(body) > 0 {
					c.collectNode(body, collected)
				}
			}
		}

		for _, key := range []string{"allOf", "anyOf", "oneOf"} {
			if branches, ok := n[key].([]any); ok {
				for _, branch := range branches {
					c.collectNode(branch, collected)
				}
			}
		}

		if properties, ok := n["properties"].(map[string]any); ok {
			for _, prop := range properties {
				c.collectNode(prop, collected)
			}
		}

		if items, ok := n["items"]; ok {
			c.collectNode(items, collected)
		}

		if additional, ok := n["additionalProperties"].(map[string]any); ok {
			c.collectNode(additional, collected)
		}

		for key, value := range n {
			if handledKeys[key] {
				continue
			}
			c.collectNode(value, collected)
		}

	case []any:
		for _, item := range n {
			c.collectNode(item, collected)
		}
	}
}
