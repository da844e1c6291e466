package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kolah/oasdoc/internal/render"
	"github.com/kolah/oasdoc/internal/spec"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every endpoint of a spec",
		RunE:  runList,
	}

	flags := cmd.Flags()
	flags.StringP("spec", "s", "", "OpenAPI spec file path")
	flags.StringP("output", "o", "", "Output file path (default: stdout)")
	flags.Bool("summary", false, "Include operation summaries")
	flags.Bool("group-by-tags", false, "Group endpoints by tag")
	flags.Bool("stats", false, "Append the API statistics block")
	cmd.MarkFlagRequired("spec")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	specPath, _ := cmd.Flags().GetString("spec")
	outputPath, _ := cmd.Flags().GetString("output")
	withSummary, _ := cmd.Flags().GetBool("summary")
	groupByTags, _ := cmd.Flags().GetBool("group-by-tags")
	withStats, _ := cmd.Flags().GetBool("stats")

	result, err := loadSpec(cmd, specPath)
	if err != nil {
		return err
	}

	endpoints := spec.ListAll(result.Spec)

	var sections []string
	if groupByTags {
		sections = append(sections, formatGrouped(endpoints, withSummary))
	} else {
		sections = append(sections, formatFlat(endpoints, withSummary))
	}
	if withStats {
		sections = append(sections, render.FormatStats(render.CalculateStats(endpoints)))
	}

	return writeOutput(cmd, outputPath, strings.Join(sections, "\n\n"))
}

func formatFlat(endpoints []spec.Endpoint, withSummary bool) string {
	lines := make([]string, 0, len(endpoints))
	for _, e := range endpoints {
		lines = append(lines, endpointLine(e, withSummary))
	}
	return strings.Join(lines, "\n")
}

func formatGrouped(endpoints []spec.Endpoint, withSummary bool) string {
	groups := make(map[string][]spec.Endpoint)
	for _, e := range endpoints {
		for _, tag := range e.Tags {
			groups[tag] = append(groups[tag], e)
		}
	}

	tags := make([]string, 0, len(groups))
	for tag := range groups {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	var b strings.Builder
	for i, tag := range tags {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s:\n", tag)
		for _, e := range groups[tag] {
			b.WriteString("  " + endpointLine(e, withSummary) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func endpointLine(e spec.Endpoint, withSummary bool) string {
	line := fmt.Sprintf("%-7s %s", e.Method, e.Path)
	if withSummary {
		if summary := e.Summary(); summary != "" {
			line += " - " + summary
		}
	}
	return line
}
