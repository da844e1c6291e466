package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kolah/oasdoc/internal/spec"
)

// ErrorsReportEntry lists the 4xx/5xx response codes one endpoint declares.
type ErrorsReportEntry struct {
	Path       string   `json:"path"`
	Method     string   `json:"method"`
	ErrorCodes []string `json:"error_codes"`
}

// BuildErrorsReport extracts the error response codes of every endpoint.
// Range keys (4XX, 5XX) count; "default" and non-error codes do not.
func BuildErrorsReport(endpoints []spec.Endpoint) []ErrorsReportEntry {
	report := make([]ErrorsReportEntry, 0, len(endpoints))
	for _, e := range endpoints {
		report = append(report, ErrorsReportEntry{
			Path:       e.Path,
			Method:     e.Method,
			ErrorCodes: errorCodes(e.Operation),
		})
	}
	return report
}

func errorCodes(operation map[string]any) []string {
	responses, _ := operation["responses"].(map[string]any)
	var codes []string
	for code := range responses {
		upper := strings.ToUpper(code)
		if upper == "4XX" || upper == "5XX" {
			codes = append(codes, upper)
			continue
		}
		if len(code) == 3 && (code[0] == '4' || code[0] == '5') && isDigits(code) {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return codes
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatErrorsReport renders the plain-text report.
func FormatErrorsReport(report []ErrorsReportEntry) string {
	if len(report) == 0 {
		return "No endpoints found."
	}

	divider := strings.Repeat("-", 60)
	var withErrors, withoutErrors []ErrorsReportEntry
	for _, entry := range report {
		if len(entry.ErrorCodes) > 0 {
			withErrors = append(withErrors, entry)
		} else {
			withoutErrors = append(withoutErrors, entry)
		}
	}

	var b strings.Builder
	b.WriteString("Endpoint error codes report\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	if len(withErrors) > 0 {
		fmt.Fprintf(&b, "Endpoints with error codes (%d):\n%s\n", len(withErrors), divider)
		for _, entry := range withErrors {
			fmt.Fprintf(&b, "%-6s %-40s [%s]\n", entry.Method, entry.Path, strings.Join(entry.ErrorCodes, ", "))
		}
		b.WriteString("\n")
	}

	if len(withoutErrors) > 0 {
		fmt.Fprintf(&b, "Endpoints without error codes (%d):\n%s\n", len(withoutErrors), divider)
		for _, entry := range withoutErrors {
			fmt.Fprintf(&b, "%-6s %s\n", entry.Method, entry.Path)
		}
		b.WriteString("\n")
	}

	unique := make(map[string]bool)
	totalCodes := 0
	for _, entry := range report {
		totalCodes += len(entry.ErrorCodes)
		for _, code := range entry.ErrorCodes {
			unique[code] = true
		}
	}

	b.WriteString("Statistics:\n" + divider + "\n")
	fmt.Fprintf(&b, "Total endpoints: %d\n", len(report))
	fmt.Fprintf(&b, "Endpoints with errors: %d\n", len(withErrors))
	fmt.Fprintf(&b, "Endpoints without errors: %d\n", len(withoutErrors))
	fmt.Fprintf(&b, "Total error codes: %d\n", totalCodes)
	fmt.Fprintf(&b, "Unique error codes: %d\n", len(unique))
	if len(unique) > 0 {
		codes := make([]string, 0, len(unique))
		for code := range unique {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		fmt.Fprintf(&b, "Codes: %s\n", strings.Join(codes, ", "))
	}

	return strings.TrimRight(b.String(), "\n")
}

// FormatErrorsReportCSV renders the report as CSV, codes joined with ";".
func FormatErrorsReportCSV(report []ErrorsReportEntry) string {
	lines := []string{"method,path,error_codes"}
	for _, entry := range report {
		lines = append(lines, fmt.Sprintf("%s,%s,%s", entry.Method, entry.Path, strings.Join(entry.ErrorCodes, ";")))
	}
	return strings.Join(lines, "\n")
}

// FormatErrorsReportMarkdown renders the report as a Markdown table.
func FormatErrorsReportMarkdown(report []ErrorsReportEntry) string {
	if len(report) == 0 {
		return "# Endpoint error codes report\n\nNo endpoints found."
	}

	var b strings.Builder
	b.WriteString("# Endpoint error codes report\n\n")
	b.WriteString("| Method | Path | Error codes |\n")
	b.WriteString("|--------|------|-------------|\n")
	for _, entry := range report {
		codes := "—"
		if len(entry.ErrorCodes) > 0 {
			codes = strings.Join(entry.ErrorCodes, ", ")
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", entry.Method, entry.Path, codes)
	}
	return strings.TrimRight(b.String(), "\n")
}
