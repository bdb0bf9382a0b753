package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/reliefkit/kbcat/internal/core/domain"
)

var (
	// headerStyle for section headers.
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	// dimStyle for muted metadata text.
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// okStyle for success counters.
	okStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// warnStyle for fallback and failure counters.
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	// summaryBoxStyle frames the run summary.
	summaryBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)
)

// renderRunSummary formats a sync run for terminal output.
func renderRunSummary(run *domain.SyncRun) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Sync (%s)", run.Mode)))
	b.WriteString("\n")
	b.WriteString(okStyle.Render(fmt.Sprintf("%d resolved", run.Resolved)))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %d unchanged  %d removed", run.Skipped, run.Removed)))
	if run.Fallbacks > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("  %d via fallback", run.Fallbacks)))
	}
	if run.Failed > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("  %d failed", run.Failed)))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d entries in %s", run.Entries, run.Duration().Round(10*time.Millisecond))))

	return summaryBoxStyle.Render(b.String())
}
