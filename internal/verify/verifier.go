// Package verify cross-references an operation's semantic content against
// rendered Markdown documentation and reports coverage gaps. Matching is
// heuristic by design: a regression signal, not a proof of fidelity.
package verify

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/kolah/oasdoc/internal/spec"
)

// Severity grades a detected documentation gap.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Issue is a single discrepancy between the spec and the rendered document.
type Issue struct {
	Type     string   `json:"type"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// MissingExample records an example that could not be located.
type MissingExample struct {
	Code  string `json:"code,omitempty"`
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// MissingParameterExample records a parameter example that could not be located.
type MissingParameterExample struct {
	Parameter string `json:"parameter"`
	Example   any    `json:"example"`
}

// MissingItems collects everything an endpoint's documentation lost.
type MissingItems struct {
	Security            []any                     `json:"security"`
	ResponseExamples    []MissingExample          `json:"response_examples"`
	ParameterExamples   []MissingParameterExample `json:"parameter_examples"`
	RequestBodyExamples []MissingExample          `json:"request_body_examples"`
	Deprecated          bool                      `json:"deprecated"`
	OperationID         bool                      `json:"operation_id"`
	Description         bool                      `json:"description"`
}

// Result is the verification outcome for one endpoint.
type Result struct {
	Endpoint   string       `json:"endpoint"`
	HasIssues  bool         `json:"has_issues"`
	IssueCount int          `json:"issues_count"`
	Issues     []Issue      `json:"issues"`
	Missing    MissingItems `json:"missing_items"`
	Summary    string       `json:"summary"`
}

// Report aggregates verification results over a set of endpoints.
type Report struct {
	TotalEndpoints      int      `json:"total_endpoints"`
	EndpointsWithIssues int      `json:"endpoints_with_issues"`
	TotalIssues         int      `json:"total_issues"`
	Results             []Result `json:"results"`
}

// NoLossMessage is the summary for a clean verification.
const NoLossMessage = "✅ No information loss detected"

// Window sizes, in bytes after the endpoint heading, searched by each check.
// Deprecation markers sit right under the heading; example blocks can be far
// below it.
const (
	securityWindow     = 2000
	securityWideWindow = 3000
	deprecatedWindow   = 500
	responseWindow     = 2000
	valueWindow        = 3000
	parameterWindow    = 3000
	requestBodyWindow  = 5000
)

var (
	responseCodeRe  = regexp.MustCompile(`######\s*\*\*Code\s+(\d+):\*\*`)
	exampleLabelRe  = regexp.MustCompile(`\*\*([^*]+):\*\*`)
	jsonBlockRe     = regexp.MustCompile("(?s)```json\\s*\n(.*?)\n```")
	paramExamplesRe = regexp.MustCompile("#### Parameter examples\\s*\\*\\*([^*]+)\\*\\*\\s*\\*\\*Example\\s+\\d+:\\*\\*\\s*`([^`]+)`")
)

var securityKeywords = []string{"security", "authorization", "authentication"}

// Verifier checks rendered Markdown for information loss against the spec.
type Verifier struct{}

// New returns a Verifier.
func New() *Verifier {
	return &Verifier{}
}

// VerifyEndpoint checks the rendered document for the endpoint's security
// requirements, deprecation marker, operationId, description and declared
// examples, and reports everything it cannot locate.
func (v *Verifier) VerifyEndpoint(endpoint spec.Endpoint, markdown string) Result {
	operation := endpoint.Operation
	var issues []Issue
	missing := MissingItems{}

	if security, ok := operation["security"].([]any); ok && len(security) > 0 {
		if !v.securityDocumented(markdown, endpoint) {
			missing.Security = security
			issues = append(issues, Issue{
				Type:     "missing_security",
				Severity: SeverityHigh,
				Message:  fmt.Sprintf("Security requirements missing from Markdown: %s", compactJSON(security)),
			})
		}
	}

	if endpoint.Deprecated() {
		if !v.deprecatedDocumented(markdown, endpoint) {
			missing.Deprecated = true
			issues = append(issues, Issue{
				Type:     "missing_deprecated",
				Severity: SeverityMedium,
				Message:  "Deprecated status not shown in Markdown",
			})
		}
	}

	if operationID, ok := operation["operationId"].(string); ok {
		if !strings.Contains(markdown, operationID) {
			missing.OperationID = true
			issues = append(issues, Issue{
				Type:     "missing_operation_id",
				Severity: SeverityLow,
				Message:  fmt.Sprintf("OperationId not found in Markdown: %s", operationID),
			})
		}
	}

	if description, ok := operation["description"].(string); ok && description != "" {
		if !v.descriptionDocumented(markdown, description) {
			missing.Description = true
			issues = append(issues, Issue{
				Type:     "missing_description",
				Severity: SeverityMedium,
				Message:  "Extended description missing from Markdown",
			})
		}
	}

	issues = v.checkResponseExamples(endpoint, markdown, &missing, issues)
	issues = v.checkParameterExamples(endpoint, markdown, &missing, issues)
	issues = v.checkRequestBodyExamples(endpoint, markdown, &missing, issues)

	return Result{
		Endpoint:   fmt.Sprintf("%s %s", endpoint.Method, endpoint.Path),
		HasIssues:  len(issues) > 0,
		IssueCount: len(issues),
		Issues:     issues,
		Missing:    missing,
		Summary:    summarize(issues),
	}
}

// VerifyAll runs VerifyEndpoint over every endpoint, restricted by the
// filter when one is given.
func (v *Verifier) VerifyAll(endpoints []spec.Endpoint, markdown string, filter *spec.EndpointFilter) Report {
	report := Report{Results: []Result{}}
	for _, endpoint := range endpoints {
		if filter != nil && filter.Len() > 0 && !filter.Matches(endpoint.Method, endpoint.Path) {
			continue
		}
		result := v.VerifyEndpoint(endpoint, markdown)
		report.Results = append(report.Results, result)
		report.TotalEndpoints++
		report.TotalIssues += result.IssueCount
		if result.HasIssues {
			report.EndpointsWithIssues++
		}
	}
	return report
}

// endpointSection returns the document from the endpoint's heading onward,
// or "" when the heading is absent.
func endpointSection(markdown string, endpoint spec.Endpoint) string {
	pattern := regexp.MustCompile(`###\s*` + "`" + endpoint.Method + "`" + `\s+` + regexp.QuoteMeta(endpoint.Path))
	loc := pattern.FindStringIndex(markdown)
	if loc == nil {
		return ""
	}
	return markdown[loc[0]:]
}

func window(s string, size int) string {
	if len(s) > size {
		return s[:size]
	}
	return s
}

func (v *Verifier) securityDocumented(markdown string, endpoint spec.Endpoint) bool {
	section := endpointSection(markdown, endpoint)
	if section == "" {
		return false
	}
	lower := strings.ToLower(window(section, securityWindow))
	for _, keyword := range securityKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	// Second, wider pass looks for the requirements block alone.
	wide := strings.ToLower(window(section, securityWideWindow))
	return strings.Contains(wide, "security")
}

func (v *Verifier) deprecatedDocumented(markdown string, endpoint spec.Endpoint) bool {
	section := endpointSection(markdown, endpoint)
	if section == "" {
		return false
	}
	head := window(section, deprecatedWindow)
	return strings.Contains(strings.ToLower(head), "deprecated") || strings.Contains(head, "⚠")
}

func (v *Verifier) descriptionDocumented(markdown, description string) bool {
	snippet := description
	if len(snippet) > 50 {
		snippet = snippet[:50]
	}
	snippet = strings.TrimSpace(snippet)
	if snippet == "" {
		return true
	}
	return strings.Contains(strings.ToLower(markdown), strings.ToLower(snippet))
}

func compactJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
