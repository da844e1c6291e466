package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kolah/oasdoc/internal/config"
	"github.com/kolah/oasdoc/internal/loader"
	"github.com/kolah/oasdoc/internal/render"
	"github.com/kolah/oasdoc/internal/spec"
)

func GenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate Markdown documentation from an OpenAPI spec",
		RunE:  runGenerate,
	}

	config.BindGenerateFlags(cmd)

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}

	result, err := loadSpec(cmd, cfg.Spec)
	if err != nil {
		return err
	}

	filter, err := loader.LoadEndpointsFilter(cfg.Endpoints)
	if err != nil {
		// A missing filter file degrades to full output.
		var notFound *spec.NotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
		cmd.PrintErrf("Warning: endpoints file %s not found, documenting everything\n", cfg.Endpoints)
		filter = spec.EmptyFilter()
	}

	generator, err := render.NewGenerator(cfg.Templates.Dir, cfg.Markdown.MaxExampleLength)
	if err != nil {
		return err
	}

	markdown, err := generator.Generate(result.Spec, filter, cfg.AllSchemas)
	if err != nil {
		return fmt.Errorf("generating documentation: %w", err)
	}

	return writeOutput(cmd, cfg.Output, markdown)
}
