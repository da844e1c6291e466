// Package config loads generation settings from an optional YAML file with
// command-line flags layered on top.
package config

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

// DefaultFile is picked up from the working directory when no --config is
// given.
const DefaultFile = "oasdoc.yaml"

type Config struct {
	Spec       string         `koanf:"spec"`
	Output     string         `koanf:"output"`
	Endpoints  string         `koanf:"endpoints"`
	AllSchemas bool           `koanf:"all-schemas"`
	Templates  TemplateConfig `koanf:"templates"`
	Markdown   MarkdownConfig `koanf:"markdown"`
}

type TemplateConfig struct {
	Dir string `koanf:"dir"`
}

type MarkdownConfig struct {
	MaxExampleLength int `koanf:"max-example-length"`
}

// BindGenerateFlags registers the flags the generate command shares with the
// config file.
func BindGenerateFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.StringP("config", "c", "", "Config file path (default: oasdoc.yaml)")
	flags.StringP("spec", "s", "", "OpenAPI spec file path")
	flags.StringP("output", "o", "", "Output file path (default: stdout)")
	flags.StringP("endpoints", "e", "", "Endpoints filter file path")
	flags.Bool("all-schemas", false, "Document every schema, not only referenced ones")
	flags.String("templates", "", "Custom templates directory")
	flags.Int("max-example-length", 0, "Truncation limit for rendered examples")
}

// Load merges the config file (explicit, or oasdoc.yaml when present) with
// flag overrides and validates the result.
func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	configFile, _ := cmd.Flags().GetString("config")
	if configFile == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			configFile = DefaultFile
		}
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	flagsMap := buildFlagsMap(cmd)
	if len(flagsMap) > 0 {
		if err := k.Load(confmap.Provider(flagsMap, "."), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func buildFlagsMap(cmd *cobra.Command) map[string]any {
	m := make(map[string]any)
	flags := cmd.Flags()

	setString := func(name, key string) {
		if v, err := flags.GetString(name); err == nil && v != "" {
			m[key] = v
		}
	}

	setString("spec", "spec")
	setString("output", "output")
	setString("endpoints", "endpoints")
	setString("templates", "templates.dir")

	if flags.Changed("all-schemas") {
		v, _ := flags.GetBool("all-schemas")
		m["all-schemas"] = v
	}
	if flags.Changed("max-example-length") {
		v, _ := flags.GetInt("max-example-length")
		m["markdown.max-example-length"] = v
	}

	return m
}

func (c *Config) Validate() error {
	if c.Spec == "" {
		return fmt.Errorf("spec file is required")
	}
	if c.Markdown.MaxExampleLength < 0 {
		return fmt.Errorf("max example length must not be negative: %d", c.Markdown.MaxExampleLength)
	}
	return nil
}
