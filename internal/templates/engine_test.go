package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"text/template"

	"github.com/stretchr/testify/require"

	embeddedtmpl "github.com/kolah/oasdoc/templates"
)

func noopFuncs() template.FuncMap {
	return template.FuncMap{
		"formatExample": func(v any) string { return "" },
		"safeReplace":   func(s string) string { return s },
		"inline":        func(v any) string { return "" },
		"lower":         strings.ToLower,
		"inc":           func(i int) int { return i + 1 },
	}
}

func TestNewEngineLoadsEmbeddedTemplates(t *testing.T) {
	engine, err := NewEngine(embeddedtmpl.FS, "", noopFuncs())
	require.NoError(t, err)

	out, err := engine.Execute("markdown/base.md.tmpl", map[string]any{
		"Title":   "Petstore",
		"Version": "1.0.0",
	})
	require.NoError(t, err)
	require.Contains(t, out, "# Petstore")
	require.Contains(t, out, "**Version:** 1.0.0")
}

func TestExecuteUnknownTemplate(t *testing.T) {
	engine, err := NewEngine(embeddedtmpl.FS, "", noopFuncs())
	require.NoError(t, err)

	_, err = engine.Execute("markdown/nope.md.tmpl", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "template not found")
}

func TestCustomDirOverridesEmbedded(t *testing.T) {
	customDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(customDir, "markdown"), 0755))
	override := filepath.Join(customDir, "markdown", "base.md.tmpl")
	require.NoError(t, os.WriteFile(override, []byte("CUSTOM {{ .Title }}"), 0644))

	engine, err := NewEngine(embeddedtmpl.FS, customDir, noopFuncs())
	require.NoError(t, err)

	out, err := engine.Execute("markdown/base.md.tmpl", map[string]any{"Title": "Petstore"})
	require.NoError(t, err)
	require.Equal(t, "CUSTOM Petstore", out)
}

func TestCustomDirMissingIsIgnored(t *testing.T) {
	engine, err := NewEngine(embeddedtmpl.FS, filepath.Join(t.TempDir(), "absent"), noopFuncs())
	require.NoError(t, err)

	_, err = engine.Execute("markdown/base.md.tmpl", map[string]any{"Title": "x", "Version": "y"})
	require.NoError(t, err)
}
