package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kolah/oasdoc/internal/spec"
)

func statsEndpoints() []spec.Endpoint {
	return []spec.Endpoint{
		spec.NewEndpoint("/api/v1/pets", "get", map[string]any{
			"summary": "List pets",
			"tags":    []any{"pets"},
		}),
		spec.NewEndpoint("/api/v1/pets", "post", map[string]any{
			"tags": []any{"pets"},
		}),
		spec.NewEndpoint("/v2/orders", "get", map[string]any{
			"deprecated": true,
		}),
		spec.NewEndpoint("/health", "get", map[string]any{
			"summary": "Health check",
		}),
	}
}

func TestCalculateStats(t *testing.T) {
	stats := CalculateStats(statsEndpoints())

	require.Equal(t, 4, stats.Total)
	require.Equal(t, 3, stats.UniquePaths)
	require.Equal(t, 2, stats.WithSummary)
	require.InDelta(t, 50.0, stats.SummaryPercent, 0.01)
	require.Equal(t, 2, stats.WithoutTags)
	require.Equal(t, 1, stats.Deprecated)

	require.Equal(t, map[string]int{"GET": 3, "POST": 1}, stats.Methods)
	require.Equal(t, map[string]int{"v1": 2, "v2": 1, "unversioned": 1}, stats.Versions)
	require.Equal(t, map[string]int{"pets": 2, spec.DefaultTag: 2}, stats.Tags)
}

func TestCalculateStatsEmpty(t *testing.T) {
	stats := CalculateStats(nil)

	require.Equal(t, 0, stats.Total)
	require.Zero(t, stats.SummaryPercent)
}

func TestExtractVersion(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "/api/v1/pets", want: "v1"},
		{path: "/api/v12/pets", want: "v12"},
		{path: "/v3/orders", want: "v3"},
		{path: "/pets", want: "unversioned"},
		{path: "/vault/items", want: "unversioned"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			require.Equal(t, tt.want, extractVersion(tt.path))
		})
	}
}

func TestFormatStats(t *testing.T) {
	out := FormatStats(CalculateStats(statsEndpoints()))

	require.Contains(t, out, "📊 API statistics")
	require.Contains(t, out, "Total endpoints: 4")
	require.Contains(t, out, "Unique paths: 3")
	require.Contains(t, out, "Deprecated endpoints: 1")
	require.Contains(t, out, "HTTP method distribution:")
	require.Contains(t, out, "GET")
	require.Contains(t, out, "API version distribution:")
	require.Contains(t, out, "Tag distribution:")
	require.Contains(t, out, "pets")
}
