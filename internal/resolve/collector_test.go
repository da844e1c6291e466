package resolve

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kolah/oasdoc/internal/spec"
)

func collectorSpec() *spec.Spec {
	return spec.FromMap(map[string]any{
		"components": map[string]any{
			"schemas": map[string]any{
				"Pet": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"owner": map[string]any{"$ref": "#/components/schemas/Owner"},
						"tags": map[string]any{
							"type":  "array",
							"items": map[string]any{"$ref": "#/components/schemas/Tag"},
						},
					},
				},
				"Owner": map[string]any{"type": "object"},
				"Tag":   map[string]any{"type": "string"},
				"Error": map[string]any{"type": "object"},
				"Page": map[string]any{
					"allOf": []any{
						map[string]any{"$ref": "#/components/schemas/Pet"},
					},
				},
			},
		},
	})
}

func newTestCollector(s *spec.Spec) *Collector {
	return NewCollector(s, New(s))
}

func TestCollectFromResponses(t *testing.T) {
	s := collectorSpec()
	c := newTestCollector(s)

	endpoint := spec.NewEndpoint("/pets", "get", map[string]any{
		"responses": map[string]any{
			"200": map[string]any{
				"content": map[string]any{
					"application/json": map[string]any{
						"schema": map[string]any{"$ref": "#/components/schemas/Pet"},
					},
				},
			},
			"404": map[string]any{
				"content": map[string]any{
					"application/json": map[string]any{
						"schema": map[string]any{"$ref": "#/components/schemas/Error"},
					},
				},
			},
		},
	})

	require.Equal(t, []string{"Error", "Owner", "Pet", "Tag"}, c.CollectNames(endpoint))
}

func TestCollectFromParametersAndBody(t *testing.T) {
	s := collectorSpec()
	c := newTestCollector(s)

	endpoint := spec.NewEndpoint("/pets", "post", map[string]any{
		"parameters": []any{
			map[string]any{
				"name":   "tag",
				"in":     "query",
				"schema": map[string]any{"$ref": "#/components/schemas/Tag"},
			},
		},
		"requestBody": map[string]any{
			"content": map[string]any{
				"application/json": map[string]any{
					"schema": map[string]any{"$ref": "#/components/schemas/Owner"},
				},
			},
		},
	})

	require.Equal(t, []string{"Owner", "Tag"}, c.CollectNames(endpoint))
}

func TestCollectThroughCombinator(t *testing.T) {
	s := collectorSpec()
	c := newTestCollector(s)

	endpoint := spec.NewEndpoint("/pages", "get", map[string]any{
		"responses": map[string]any{
			"200": map[string]any{
				"content": map[string]any{
					"application/json": map[string]any{
						"schema": map[string]any{"$ref": "#/components/schemas/Page"},
					},
				},
			},
		},
	})

	require.Equal(t, []string{"Owner", "Page", "Pet", "Tag"}, c.CollectNames(endpoint))
}

func TestCollectCyclicSchemas(t *testing.T) {
	s := spec.FromMap(map[string]any{
		"components": map[string]any{
			"schemas": map[string]any{
				"A": map[string]any{
					"properties": map[string]any{
						"b": map[string]any{"$ref": "#/components/schemas/B"},
					},
				},
				"B": map[string]any{
					"properties": map[string]any{
						"a": map[string]any{"$ref": "#/components/schemas/A"},
					},
				},
			},
		},
	})
	c := newTestCollector(s)

	endpoint := spec.NewEndpoint("/cycle", "get", map[string]any{
		"responses": map[string]any{
			"200": map[string]any{
				"content": map[string]any{
					"application/json": map[string]any{
						"schema": map[string]any{"$ref": "#/components/schemas/A"},
					},
				},
			},
		},
	})

	require.Equal(t, []string{"A", "B"}, c.CollectNames(endpoint))
}

func TestCollectNothing(t *testing.T) {
	c := newTestCollector(collectorSpec())

	endpoint := spec.NewEndpoint("/plain", "get", map[string]any{
		"responses": map[string]any{
			"204": map[string]any{"description": "no content"},
		},
	})

	require.Empty(t, c.CollectNames(endpoint))
}
