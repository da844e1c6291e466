package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kolah/oasdoc/internal/render"
	"github.com/kolah/oasdoc/internal/spec"
)

func ErrorsReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "errors-report",
		Short: "Report the 4xx/5xx response codes every endpoint declares",
		RunE:  runErrorsReport,
	}

	flags := cmd.Flags()
	flags.StringP("spec", "s", "", "OpenAPI spec file path")
	flags.String("format", "text", "Output format: text, csv, md")
	flags.StringP("output", "o", "", "Output file path (default: stdout)")
	cmd.MarkFlagRequired("spec")

	return cmd
}

func runErrorsReport(cmd *cobra.Command, args []string) error {
	specPath, _ := cmd.Flags().GetString("spec")
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")

	result, err := loadSpec(cmd, specPath)
	if err != nil {
		return err
	}

	report := render.BuildErrorsReport(spec.ListAll(result.Spec))

	var content string
	switch format {
	case "text":
		content = render.FormatErrorsReport(report)
	case "csv":
		content = render.FormatErrorsReportCSV(report)
	case "md":
		content = render.FormatErrorsReportMarkdown(report)
	default:
		return fmt.Errorf("invalid format: %s (valid: text, csv, md)", format)
	}

	return writeOutput(cmd, outputPath, content)
}
