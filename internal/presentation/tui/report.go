package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/twoway/pkg/domain"
)

// ReportMarkdown formats a batch report as a markdown table with a summary line.
func ReportMarkdown(name string, report domain.Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", name)
	sb.WriteString("| Word | Verdict | Steps | Error |\n")
	sb.WriteString("|------|---------|-------|-------|\n")
	for _, e := range report.Entries {
		word := e.Word
		if word == "" {
			word = "ε"
		}
		fmt.Fprintf(&sb, "| `%s` | %s | %d | %s |\n",
			word, verdictLabel(e.Outcome.Verdict), e.Outcome.Steps, strings.ReplaceAll(e.Error, "|", "\\|"))
	}
	fmt.Fprintf(&sb, "\n**%d accepted**, **%d rejected**, **%d failed** of %d words.\n",
		report.Accepted, report.Rejected, report.Failed, len(report.Entries))
	return sb.String()
}

func verdictLabel(v domain.Verdict) string {
	switch v {
	case domain.VerdictAccepted:
		return "✅ accepted"
	case domain.VerdictRejected:
		return "❌ rejected"
	}
	return "⚠️ error"
}
