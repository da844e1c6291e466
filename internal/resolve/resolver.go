// Package resolve implements $ref resolution, schema expansion and transitive
// schema collection over a raw OpenAPI document.
package resolve

import (
	"strings"

	"github.com/kolah/oasdoc/internal/spec"
)

// maxDepth bounds recursion over cyclic or deeply nested schema graphs. The
// resolver and the schema processor share the same ceiling.
const maxDepth = 10

const (
	schemaRefPrefix    = "#/components/schemas/"
	parameterRefPrefix = "#/components/parameters/"
)

// Resolver resolves $ref strings against a spec and caches results by the
// exact reference string. Missing or cyclic references resolve to an empty
// object, never an error: documentation generation must complete on an
// imperfect spec. Not safe for concurrent use.
type Resolver struct {
	spec  *spec.Spec
	cache map[string]map[string]any
}

// New returns a Resolver with an empty cache.
func New(s *spec.Spec) *Resolver {
	return &Resolver{
		spec:  s,
		cache: make(map[string]map[string]any),
	}
}

// Resolve resolves a reference string to its target object. The result is an
// empty (non-nil) map for anything that cannot be resolved.
func (r *Resolver) Resolve(ref string) map[string]any {
	return r.resolveAt(ref, 0)
}

func (r *Resolver) resolveAt(ref string, depth int) map[string]any {
	// Runaway guard. Deliberately not cached under ref: only literal
	// resolutions below enter the cache.
	if depth > maxDepth {
		return map[string]any{}
	}

	if cached, ok := r.cache[ref]; ok {
		return cached
	}

	if strings.HasPrefix(ref, parameterRefPrefix) {
		resolved := r.componentParameter(lastSegment(ref))
		r.cache[ref] = resolved
		return resolved
	}

	if strings.HasPrefix(ref, schemaRefPrefix) {
		schema, _ := r.spec.Schemas[lastSegment(ref)].(map[string]any)
		if schema == nil {
			schema = map[string]any{}
		}
		// A bare {"$ref": ...} alias gets one extra hop.
		if nested, ok := schema["$ref"].(string); ok {
			resolved := r.resolveAt(nested, depth+1)
			r.cache[ref] = resolved
			return resolved
		}
		r.cache[ref] = schema
		return schema
	}

	if strings.HasPrefix(ref, "#") {
		if resolved, ok := r.walkPointer(ref); ok {
			r.cache[ref] = resolved
			return resolved
		}
	}

	empty := map[string]any{}
	r.cache[ref] = empty
	return empty
}

func (r *Resolver) componentParameter(name string) map[string]any {
	components, _ := r.spec.Raw["components"].(map[string]any)
	parameters, _ := components["parameters"].(map[string]any)
	resolved, _ := parameters[name].(map[string]any)
	if resolved == nil {
		return map[string]any{}
	}
	return resolved
}

// walkPointer walks an arbitrary JSON pointer key by key. Missing segments
// stop the walk early; the partial result counts as long as the walk moved
// off the document root. Non-object results coerce to an empty object.
func (r *Resolver) walkPointer(ref string) (map[string]any, bool) {
	var current any = r.spec.Raw
	moved := false
	for _, part := range strings.Split(ref, "/")[1:] {
		obj, ok := current.(map[string]any)
		if !ok {
			break
		}
		next, ok := obj[part]
		if !ok {
			break
		}
		current = next
		moved = true
	}
	if !moved {
		return nil, false
	}

	obj, ok := current.(map[string]any)
	if !ok {
		return map[string]any{}, true
	}
	return obj, true
}

// ClearCache drops every cached resolution.
func (r *Resolver) ClearCache() {
	clear(r.cache)
}

// CacheLen returns the number of cached references.
func (r *Resolver) CacheLen() int {
	return len(r.cache)
}

// lastSegment returns the part of a reference after the final slash.
func lastSegment(ref string) string {
	return ref[strings.LastIndex(ref, "/")+1:]
}
