package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kolah/oasdoc/internal/spec"
)

const yamlSpec = `
openapi: 3.0.3
info:
  title: Petstore
  version: 1.0.0
paths:
  /pets:
    get:
      summary: List pets
      responses:
        200:
          description: OK
components:
  schemas:
    Pet:
      type: object
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadSpecYAML(t *testing.T) {
	path := writeTemp(t, "api.yaml", yamlSpec)

	result, err := LoadSpec(path)
	require.NoError(t, err)

	require.Equal(t, "Petstore", result.Spec.Title())
	require.Contains(t, result.Spec.Paths, "/pets")
	require.Equal(t, []string{"Pet"}, result.Spec.SchemaNames())

	// Unquoted response codes decode as integers and are normalized back.
	get := result.Spec.Paths["/pets"]["get"].(map[string]any)
	responses := get["responses"].(map[string]any)
	require.Contains(t, responses, "200")

	require.Equal(t, "3.0.3", result.Version)
	require.NotEmpty(t, result.Warnings)
}

func TestLoadSpecJSON(t *testing.T) {
	path := writeTemp(t, "api.json", `{
		"openapi": "3.1.0",
		"info": {"title": "Petstore", "version": "1.0.0"},
		"paths": {"/pets": {"get": {"responses": {"200": {"description": "OK"}}}}}
	}`)

	result, err := LoadSpec(path)
	require.NoError(t, err)

	require.Equal(t, "Petstore", result.Spec.Title())
	require.Equal(t, "3.1.0", result.Version)
	require.Empty(t, result.Warnings)
}

func TestLoadSpecNotFound(t *testing.T) {
	_, err := LoadSpec(filepath.Join(t.TempDir(), "missing.yaml"))

	var notFound *spec.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestLoadSpecMalformed(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "bad json", file: "api.json", content: `{"openapi": `},
		{name: "bad yaml", file: "api.yaml", content: "openapi: [unclosed"},
		{name: "scalar root", file: "api.yaml", content: "just a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, tt.file, tt.content)

			_, err := LoadSpec(path)
			var malformed *spec.MalformedSpecError
			require.ErrorAs(t, err, &malformed)
		})
	}
}

func TestLoadSpecFollowsSymlink(t *testing.T) {
	target := writeTemp(t, "api.yaml", yamlSpec)
	link := filepath.Join(t.TempDir(), "link.yaml")
	require.NoError(t, os.Symlink(target, link))

	result, err := LoadSpec(link)
	require.NoError(t, err)
	require.Equal(t, "Petstore", result.Spec.Title())
}

func TestLoadEndpointsFilter(t *testing.T) {
	path := writeTemp(t, "endpoints.txt", `
# ordering endpoints
GET /pets
post /orders/

malformed-line
DELETE  /pets/{id}   trailing junk is ignored
`)

	filter, err := LoadEndpointsFilter(path)
	require.NoError(t, err)

	require.Equal(t, 3, filter.Len())
	require.True(t, filter.Matches("GET", "/pets"))
	require.True(t, filter.Matches("POST", "/orders"))
	require.True(t, filter.Matches("DELETE", "/pets/{id}"))
	require.False(t, filter.Matches("GET", "/orders"))
}

func TestLoadEndpointsFilterEmptyPath(t *testing.T) {
	filter, err := LoadEndpointsFilter("")
	require.NoError(t, err)
	require.Equal(t, 0, filter.Len())
}

func TestLoadEndpointsFilterNotFound(t *testing.T) {
	_, err := LoadEndpointsFilter(filepath.Join(t.TempDir(), "missing.txt"))

	var notFound *spec.NotFoundError
	require.ErrorAs(t, err, &notFound)
}
