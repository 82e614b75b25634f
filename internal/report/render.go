package report

import (
	"fmt"
	"sort"
	"strings"
)

const banner = "============================================================"

// Render generates the human-readable console version of the findings.
func Render(findings Findings) string {
	var b strings.Builder

	b.WriteString(banner + "\n")
	b.WriteString("DATA ANALYSIS FINDINGS\n")
	b.WriteString(banner + "\n")
	fmt.Fprintf(&b, "\nTotal Messages: %d\n", findings.TotalMessages)

	b.WriteString("\n--- Statistics ---\n")
	stats := findings.Statistics
	fmt.Fprintf(&b, "Total unique fields: %d\n", stats.TotalFields)
	fmt.Fprintf(&b, "Unique members found: %d\n", stats.UniqueMembersFound)

	if len(stats.FieldFrequency) > 0 {
		b.WriteString("\nField frequency (top 10):\n")
		for _, fc := range topFields(stats.FieldFrequency, 10) {
			fmt.Fprintf(&b, "  %s: %d\n", fc.name, fc.count)
		}
	}

	b.WriteString("\n--- Anomalies ---\n")
	if len(findings.Anomalies) > 0 {
		for _, a := range findings.Anomalies {
			fmt.Fprintf(&b, "  [!] %s\n", a)
		}
	} else {
		b.WriteString("  OK: no major anomalies detected\n")
	}

	b.WriteString("\n--- Inconsistencies ---\n")
	if len(findings.Inconsistencies) > 0 {
		for _, inc := range findings.Inconsistencies {
			fmt.Fprintf(&b, "  [!] %s\n", inc)
		}
	} else {
		b.WriteString("  OK: no major inconsistencies detected\n")
	}

	b.WriteString("\n" + banner + "\n")
	return b.String()
}

type fieldCount struct {
	name  string
	count int
}

// topFields returns the n most frequent fields, count descending with name
// as the tiebreaker so output is stable.
func topFields(freq map[string]int, n int) []fieldCount {
	out := make([]fieldCount, 0, len(freq))
	for name, count := range freq {
		out = append(out, fieldCount{name, count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].name < out[j].name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
