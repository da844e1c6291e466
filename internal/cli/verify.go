package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kolah/oasdoc/internal/spec"
	"github.com/kolah/oasdoc/internal/verify"
)

func VerifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check generated Markdown for information loss",
		RunE:  runVerify,
	}

	flags := cmd.Flags()
	flags.StringP("spec", "s", "", "OpenAPI spec file path")
	flags.StringP("markdown", "m", "", "Markdown file to verify")
	flags.StringP("path", "p", "", "Verify a single endpoint path")
	flags.String("method", "", "HTTP method for --path")
	flags.StringP("output", "o", "", "Write the JSON report to a file")
	cmd.MarkFlagRequired("spec")
	cmd.MarkFlagRequired("markdown")

	return cmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	specPath, _ := cmd.Flags().GetString("spec")
	markdownPath, _ := cmd.Flags().GetString("markdown")
	path, _ := cmd.Flags().GetString("path")
	method, _ := cmd.Flags().GetString("method")
	outputPath, _ := cmd.Flags().GetString("output")

	result, err := loadSpec(cmd, specPath)
	if err != nil {
		return err
	}

	markdown, err := os.ReadFile(markdownPath)
	if err != nil {
		return fmt.Errorf("reading markdown file: %w", err)
	}

	verifier := verify.New()

	var report verify.Report
	if path != "" {
		if method == "" {
			return fmt.Errorf("--method is required with --path")
		}
		endpoint, err := spec.Find(result.Spec, path, method)
		if err != nil {
			return err
		}
		report = verifier.VerifyAll([]spec.Endpoint{endpoint}, string(markdown), nil)
	} else {
		report = verifier.VerifyAll(spec.ListAll(result.Spec), string(markdown), nil)
	}

	cmd.Println(formatReport(report))

	if outputPath != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", outputPath, err)
		}
		cmd.PrintErrf("Written: %s\n", outputPath)
	}

	return nil
}

func formatReport(report verify.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Verified %d endpoints: %d with issues, %d issues total\n",
		report.TotalEndpoints, report.EndpointsWithIssues, report.TotalIssues)

	for _, r := range report.Results {
		fmt.Fprintf(&b, "\n%s: %s\n", r.Endpoint, r.Summary)
		for _, issue := range r.Issues {
			fmt.Fprintf(&b, "  - [%s] %s\n", issue.Severity, issue.Message)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
