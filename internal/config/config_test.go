package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errContains string
	}{
		{
			name:    "valid config",
			config:  Config{Spec: "spec.yaml"},
			wantErr: false,
		},
		{
			name: "full config",
			config: Config{
				Spec:       "spec.yaml",
				Output:     "api.md",
				Endpoints:  "endpoints.txt",
				AllSchemas: true,
				Templates:  TemplateConfig{Dir: "./tmpl"},
				Markdown:   MarkdownConfig{MaxExampleLength: 300},
			},
			wantErr: false,
		},
		{
			name:        "missing spec",
			config:      Config{Output: "api.md"},
			wantErr:     true,
			errContains: "spec file is required",
		},
		{
			name: "negative example length",
			config: Config{
				Spec:     "spec.yaml",
				Markdown: MarkdownConfig{MaxExampleLength: -1},
			},
			wantErr:     true,
			errContains: "max example length",
		},
		{
			name: "zero example length is valid",
			config: Config{
				Spec:     "spec.yaml",
				Markdown: MarkdownConfig{MaxExampleLength: 0},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					require.Contains(t, err.Error(), tt.errContains)
				}
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()

	configContent := `
spec: api.yaml
output: docs/api.md
all-schemas: true
templates:
  dir: ./tmpl
markdown:
  max-example-length: 250
`
	configPath := filepath.Join(tmpDir, DefaultFile)
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	// Change to temp dir so oasdoc.yaml is found
	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	cmd := &cobra.Command{}
	BindGenerateFlags(cmd)

	cfg, err := Load(cmd)
	require.NoError(t, err)

	require.Equal(t, "api.yaml", cfg.Spec)
	require.Equal(t, "docs/api.md", cfg.Output)
	require.True(t, cfg.AllSchemas)
	require.Equal(t, "./tmpl", cfg.Templates.Dir)
	require.Equal(t, 250, cfg.Markdown.MaxExampleLength)
}

func TestLoadFlagsOverrideFile(t *testing.T) {
	tmpDir := t.TempDir()

	configContent := `
spec: api.yaml
output: docs/api.md
markdown:
  max-example-length: 250
`
	configPath := filepath.Join(tmpDir, DefaultFile)
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	cmd := &cobra.Command{}
	BindGenerateFlags(cmd)

	cmd.Flags().Set("output", "other.md")
	cmd.Flags().Set("max-example-length", "100")

	cfg, err := Load(cmd)
	require.NoError(t, err)

	require.Equal(t, "api.yaml", cfg.Spec)
	require.Equal(t, "other.md", cfg.Output)
	require.Equal(t, 100, cfg.Markdown.MaxExampleLength)
}

func TestLoadWithExplicitConfigPath(t *testing.T) {
	tmpDir := t.TempDir()

	configContent := `
spec: custom.yaml
endpoints: custom-endpoints.txt
`
	configPath := filepath.Join(tmpDir, "custom-config.yaml")
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cmd := &cobra.Command{}
	BindGenerateFlags(cmd)
	cmd.Flags().Set("config", configPath)

	cfg, err := Load(cmd)
	require.NoError(t, err)

	require.Equal(t, "custom.yaml", cfg.Spec)
	require.Equal(t, "custom-endpoints.txt", cfg.Endpoints)
}

func TestLoadMissingSpec(t *testing.T) {
	oldWd, _ := os.Getwd()
	os.Chdir(t.TempDir())
	defer os.Chdir(oldWd)

	cmd := &cobra.Command{}
	BindGenerateFlags(cmd)

	_, err := Load(cmd)
	require.Error(t, err)
	require.Contains(t, err.Error(), "spec file is required")
}

func TestBuildFlagsMap(t *testing.T) {
	cmd := &cobra.Command{}
	BindGenerateFlags(cmd)

	cmd.Flags().Set("spec", "test.yaml")
	cmd.Flags().Set("endpoints", "eps.txt")
	cmd.Flags().Set("templates", "./custom")
	cmd.Flags().Set("all-schemas", "true")

	m := buildFlagsMap(cmd)

	require.Equal(t, "test.yaml", m["spec"])
	require.Equal(t, "eps.txt", m["endpoints"])
	require.Equal(t, "./custom", m["templates.dir"])
	require.Equal(t, true, m["all-schemas"])
}
