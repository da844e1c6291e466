package spec

import (
	"sort"
	"strings"
)

// DefaultTag groups operations that declare no tags of their own.
const DefaultTag = "Untagged"

// Endpoint is one (path, method) pair of a spec. Method is always upper-case
// and Operation is the raw operation subtree, shared with the Spec.
type Endpoint struct {
	Path      string
	Method    string
	Operation map[string]any
	Tags      []string
}

// NewEndpoint builds an Endpoint, upper-casing the method and extracting the
// operation's tags. Operations without tags get the single DefaultTag.
func NewEndpoint(path, method string, operation map[string]any) Endpoint {
	return Endpoint{
		Path:      path,
		Method:    strings.ToUpper(method),
		Operation: operation,
		Tags:      operationTags(operation),
	}
}

func operationTags(operation map[string]any) []string {
	raw, ok := operation["tags"].([]any)
	if !ok {
		return []string{DefaultTag}
	}
	var tags []string
	for _, t := range raw {
		if s, ok := t.(string); ok {
			tags = append(tags, s)
		}
	}
	if len(tags) == 0 {
		return []string{DefaultTag}
	}
	return tags
}

// Summary returns the operation summary, or "".
func (e Endpoint) Summary() string {
	return stringField(e.Operation, "summary")
}

// Deprecated reports whether the operation is flagged deprecated.
func (e Endpoint) Deprecated() bool {
	v, _ := e.Operation["deprecated"].(bool)
	return v
}

type filterKey struct {
	method string
	path   string
}

// EndpointFilter is a set of (method, path) pairs. Methods are upper-cased
// at construction; Matches tolerates a trailing slash on either side.
type EndpointFilter struct {
	entries map[filterKey]struct{}
}

// MethodPath is one entry of an endpoints filter.
type MethodPath struct {
	Method string
	Path   string
}

// NewEndpointFilter builds a filter from (method, path) pairs.
func NewEndpointFilter(pairs []MethodPath) *EndpointFilter {
	entries := make(map[filterKey]struct{}, len(pairs))
	for _, p := range pairs {
		entries[filterKey{strings.ToUpper(p.Method), p.Path}] = struct{}{}
	}
	return &EndpointFilter{entries: entries}
}

// EmptyFilter returns a filter that matches nothing.
func EmptyFilter() *EndpointFilter {
	return &EndpointFilter{entries: make(map[filterKey]struct{})}
}

// Len returns the number of registered pairs.
func (f *EndpointFilter) Len() int {
	return len(f.entries)
}

// Matches reports whether (method, path) is registered, comparing the method
// case-insensitively and tolerating a trailing slash on the stored or the
// queried path.
func (f *EndpointFilter) Matches(method, path string) bool {
	m := strings.ToUpper(method)
	p := strings.TrimRight(path, "/")

	if _, ok := f.entries[filterKey{m, p}]; ok {
		return true
	}
	_, ok := f.entries[filterKey{m, p + "/"}]
	return ok
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
