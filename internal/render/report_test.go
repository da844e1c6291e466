package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kolah/oasdoc/internal/spec"
)

func reportEndpoints() []spec.Endpoint {
	return []spec.Endpoint{
		spec.NewEndpoint("/pets", "get", map[string]any{
			"responses": map[string]any{
				"200":     map[string]any{},
				"404":     map[string]any{},
				"500":     map[string]any{},
				"default": map[string]any{},
			},
		}),
		spec.NewEndpoint("/pets", "post", map[string]any{
			"responses": map[string]any{
				"201": map[string]any{},
				"4xx": map[string]any{},
				"5XX": map[string]any{},
			},
		}),
		spec.NewEndpoint("/health", "get", map[string]any{
			"responses": map[string]any{"200": map[string]any{}},
		}),
	}
}

func TestBuildErrorsReport(t *testing.T) {
	report := BuildErrorsReport(reportEndpoints())

	require.Len(t, report, 3)
	require.Equal(t, []string{"404", "500"}, report[0].ErrorCodes)
	require.Equal(t, []string{"4XX", "5XX"}, report[1].ErrorCodes)
	require.Empty(t, report[2].ErrorCodes)
}

func TestFormatErrorsReport(t *testing.T) {
	out := FormatErrorsReport(BuildErrorsReport(reportEndpoints()))

	require.Contains(t, out, "Endpoints with error codes (2):")
	require.Contains(t, out, "Endpoints without error codes (1):")
	require.Contains(t, out, "[404, 500]")
	require.Contains(t, out, "Total endpoints: 3")
	require.Contains(t, out, "Unique error codes: 4")
	require.Contains(t, out, "Codes: 404, 4XX, 500, 5XX")
}

func TestFormatErrorsReportEmpty(t *testing.T) {
	require.Equal(t, "No endpoints found.", FormatErrorsReport(nil))
}

func TestFormatErrorsReportCSV(t *testing.T) {
	out := FormatErrorsReportCSV(BuildErrorsReport(reportEndpoints()))

	lines := strings.Split(out, "\n")
	require.Equal(t, "method,path,error_codes", lines[0])
	require.Equal(t, "GET,/pets,404;500", lines[1])
	require.Equal(t, "POST,/pets,4XX;5XX", lines[2])
	require.Equal(t, "GET,/health,", lines[3])
}

func TestFormatErrorsReportMarkdown(t *testing.T) {
	out := FormatErrorsReportMarkdown(BuildErrorsReport(reportEndpoints()))

	require.Contains(t, out, "| Method | Path | Error codes |")
	require.Contains(t, out, "| GET | /pets | 404, 500 |")
	require.Contains(t, out, "| GET | /health | — |")
}
