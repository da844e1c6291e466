package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kolah/oasdoc/internal/spec"
)

func SchemaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Show a component schema as JSON",
		RunE:  runSchema,
	}

	flags := cmd.Flags()
	flags.StringP("spec", "s", "", "OpenAPI spec file path")
	flags.StringP("name", "n", "", "Schema name")
	cmd.MarkFlagRequired("spec")
	cmd.MarkFlagRequired("name")

	return cmd
}

func runSchema(cmd *cobra.Command, args []string) error {
	specPath, _ := cmd.Flags().GetString("spec")
	name, _ := cmd.Flags().GetString("name")

	result, err := loadSpec(cmd, specPath)
	if err != nil {
		return err
	}

	definition, ok := result.Spec.Schemas[name]
	if !ok {
		return &spec.SchemaNotFoundError{Name: name, Available: result.Spec.SchemaNames()}
	}

	data, err := json.MarshalIndent(definition, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding schema: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
