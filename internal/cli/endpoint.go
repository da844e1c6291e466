package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kolah/oasdoc/internal/resolve"
	"github.com/kolah/oasdoc/internal/spec"
)

func EndpointCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "endpoint",
		Short: "Show a single operation as JSON",
		RunE:  runEndpoint,
	}

	flags := cmd.Flags()
	flags.StringP("spec", "s", "", "OpenAPI spec file path")
	flags.StringP("path", "p", "", "Endpoint path")
	flags.StringP("method", "m", "", "HTTP method")
	flags.Bool("expand-schemas", false, "Include the schemas the operation references")
	cmd.MarkFlagRequired("spec")
	cmd.MarkFlagRequired("path")
	cmd.MarkFlagRequired("method")

	return cmd
}

func runEndpoint(cmd *cobra.Command, args []string) error {
	specPath, _ := cmd.Flags().GetString("spec")
	path, _ := cmd.Flags().GetString("path")
	method, _ := cmd.Flags().GetString("method")
	expand, _ := cmd.Flags().GetBool("expand-schemas")

	result, err := loadSpec(cmd, specPath)
	if err != nil {
		return err
	}

	endpoint, err := spec.Find(result.Spec, path, method)
	if err != nil {
		return err
	}

	output := map[string]any{
		"path":      endpoint.Path,
		"method":    endpoint.Method,
		"operation": endpoint.Operation,
	}

	if expand {
		resolver := resolve.New(result.Spec)
		collector := resolve.NewCollector(result.Spec, resolver)
		schemas := make(map[string]any)
		for _, name := range collector.CollectNames(endpoint) {
			schemas[name] = result.Spec.Schemas[name]
		}
		output["schemas"] = schemas
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding endpoint: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
