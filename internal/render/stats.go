package render

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/kolah/oasdoc/internal/spec"
)

// Stats summarizes an API's endpoint inventory.
type Stats struct {
	Total             int
	UniquePaths       int
	WithSummary       int
	SummaryPercent    float64
	WithoutTags       int
	WithoutTagsPct    float64
	Deprecated        int
	DeprecatedPercent float64
	Methods           map[string]int
	Versions          map[string]int
	Tags              map[string]int
}

const noVersionLabel = "unversioned"

var (
	apiVersionRe  = regexp.MustCompile(`/api/(v\d+)/`)
	pathVersionRe = regexp.MustCompile(`/(v\d+)/`)
)

// CalculateStats computes endpoint statistics for the list command.
func CalculateStats(endpoints []spec.Endpoint) Stats {
	stats := Stats{
		Total:    len(endpoints),
		Methods:  make(map[string]int),
		Versions: make(map[string]int),
		Tags:     make(map[string]int),
	}

	paths := make(map[string]bool)
	for _, e := range endpoints {
		paths[e.Path] = true
		stats.Methods[e.Method]++
		stats.Versions[extractVersion(e.Path)]++

		if e.Summary() != "" {
			stats.WithSummary++
		}
		if e.Deprecated() {
			stats.Deprecated++
		}

		// Untagged operations carry the DefaultTag sentinel.
		if len(e.Tags) == 1 && e.Tags[0] == spec.DefaultTag {
			stats.WithoutTags++
			stats.Tags[spec.DefaultTag]++
			continue
		}
		for _, tag := range e.Tags {
			stats.Tags[tag]++
		}
	}
	stats.UniquePaths = len(paths)

	if stats.Total > 0 {
		stats.SummaryPercent = percent(stats.WithSummary, stats.Total)
		stats.WithoutTagsPct = percent(stats.WithoutTags, stats.Total)
		stats.DeprecatedPercent = percent(stats.Deprecated, stats.Total)
	}

	return stats
}

func extractVersion(path string) string {
	if m := apiVersionRe.FindStringSubmatch(path); m != nil {
		return m[1]
	}
	if m := pathVersionRe.FindStringSubmatch(path); m != nil {
		return m[1]
	}
	return noVersionLabel
}

func percent(count, total int) float64 {
	return float64(count) / float64(total) * 100
}

const maxBarLength = 50

// FormatStats renders the statistics block shown by `list --stats`.
func FormatStats(stats Stats) string {
	var b strings.Builder

	b.WriteString("📊 API statistics\n\n")
	b.WriteString("Overview:\n\n")
	fmt.Fprintf(&b, "  Total endpoints: %d\n", stats.Total)
	fmt.Fprintf(&b, "  Unique paths: %d\n", stats.UniquePaths)
	fmt.Fprintf(&b, "  Endpoints with summary: %d (%.1f%%)\n", stats.WithSummary, stats.SummaryPercent)
	fmt.Fprintf(&b, "  Endpoints without tags: %d (%.1f%%)\n", stats.WithoutTags, stats.WithoutTagsPct)
	if stats.Deprecated > 0 {
		fmt.Fprintf(&b, "  Deprecated endpoints: %d (%.1f%%)\n", stats.Deprecated, stats.DeprecatedPercent)
	}

	writeDistribution(&b, "HTTP method distribution:", stats.Methods, stats.Total, 6)
	writeDistribution(&b, "API version distribution:", stats.Versions, stats.Total, 12)
	writeTagDistribution(&b, stats.Tags, stats.Total)

	return strings.TrimRight(b.String(), "\n")
}

func writeDistribution(b *strings.Builder, header string, counts map[string]int, total, width int) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s\n\n", header)
	for _, entry := range sortByCount(counts) {
		pct := percent(entry.count, total)
		bar := strings.Repeat("█", entry.count*maxBarLength/total)
		fmt.Fprintf(b, "  %-*s %3d  %s  %5.1f%%\n", width, entry.key, entry.count, bar, pct)
	}
}

func writeTagDistribution(b *strings.Builder, tags map[string]int, total int) {
	if len(tags) == 0 {
		return
	}
	b.WriteString("\nTag distribution:\n\n")

	sorted := sortByCount(tags)
	const maxTagsToShow = 10
	shown := sorted
	if len(shown) > maxTagsToShow {
		shown = shown[:maxTagsToShow]
	}
	for _, entry := range shown {
		fmt.Fprintf(b, "  %-20s %3d  (%5.1f%%)\n", entry.key, entry.count, percent(entry.count, total))
	}
	if rest := len(sorted) - len(shown); rest > 0 {
		fmt.Fprintf(b, "  ... (%d more tags)\n", rest)
	}
}

type countEntry struct {
	key   string
	count int
}

func sortByCount(counts map[string]int) []countEntry {
	entries := make([]countEntry, 0, len(counts))
	for k, c := range counts {
		entries = append(entries, countEntry{k, c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})
	return entries
}
