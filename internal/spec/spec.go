package spec

// Spec is an immutable view over a decoded OpenAPI document. The derived
// maps are pure projections of Raw and must never be mutated independently.
type Spec struct {
	Raw     map[string]any
	Paths   map[string]map[string]any
	Schemas map[string]any
	Info    map[string]any
}

// FromMap builds a Spec from a decoded OpenAPI document. Path items that are
// not objects are skipped; missing sections project to empty maps.
func FromMap(raw map[string]any) *Spec {
	s := &Spec{
		Raw:     raw,
		Paths:   make(map[string]map[string]any),
		Schemas: make(map[string]any),
		Info:    make(map[string]any),
	}

	if paths, ok := raw["paths"].(map[string]any); ok {
		for path, item := range paths {
			if methods, ok := item.(map[string]any); ok {
				s.Paths[path] = methods
			}
		}
	}

	if components, ok := raw["components"].(map[string]any); ok {
		if schemas, ok := components["schemas"].(map[string]any); ok {
			s.Schemas = schemas
		}
	}

	if info, ok := raw["info"].(map[string]any); ok {
		s.Info = info
	}

	return s
}

func (s *Spec) Title() string       { return stringField(s.Info, "title") }
func (s *Spec) Version() string     { return stringField(s.Info, "version") }
func (s *Spec) Description() string { return stringField(s.Info, "description") }

// SchemaNames returns the names of all component schemas, sorted.
func (s *Spec) SchemaNames() []string {
	return sortedKeys(s.Schemas)
}

// Schema is a named component schema definition.
type Schema struct {
	Name       string
	Definition map[string]any
}

func stringField(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}
