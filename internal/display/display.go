// Package display provides terminal formatting for phishdash output.
package display

import (
	"fmt"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dkathe/phishdash/internal/types"
	"github.com/dkathe/phishdash/internal/view"
)

var (
	// Styles
	Muted    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	Dim      = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
	Bold     = lipgloss.NewStyle().Bold(true)
	Success  = lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a"))
	ErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626"))

	ThreatStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626"))
	SafeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a"))
	UnknownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#d97706"))

	ScoreGreen  = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	ScoreYellow = lipgloss.NewStyle().Foreground(lipgloss.Color("#eab308"))
	ScoreRed    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
)

// VerdictBadge returns a styled label for a verdict.
func VerdictBadge(verdict string) string {
	switch verdict {
	case types.VerdictPhishing:
		return ThreatStyle.Render("POTENTIAL THREAT")
	case types.VerdictUnknown:
		return UnknownStyle.Render("UNKNOWN")
	default:
		return SafeStyle.Render("SAFE")
	}
}

// ScoreBar renders the security score with a proportional bar, colored by
// the dashboard's thresholds.
func ScoreBar(score float64, width int) string {
	if width < 10 {
		width = 10
	}
	style := ScoreRed
	if score > 70 {
		style = ScoreGreen
	} else if score > 40 {
		style = ScoreYellow
	}

	filled := int(score / 100 * float64(width))
	if filled > width {
		filled = width
	}
	bar := style.Render(strings.Repeat("█", filled)) + Muted.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %s", bar, Bold.Render(fmt.Sprintf("%d/100", int(score+0.5))))
}

// Histogram renders hourly activity buckets as labeled bars.
func Histogram(buckets []types.ActivityBucket) string {
	if len(buckets) == 0 {
		return Muted.Render("  no pattern data available")
	}
	max := 0
	for _, b := range buckets {
		if b.Count > max {
			max = b.Count
		}
	}
	var sb strings.Builder
	for _, b := range buckets {
		barLen := b.Count * 24 / max
		if barLen < 1 {
			barLen = 1
		}
		sb.WriteString(fmt.Sprintf("  %02d:00 %s %d\n",
			b.Hour, Dim.Render(strings.Repeat("▇", barLen)), b.Count))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// EmailCard renders one scored email for the result list.
func EmailCard(s types.ScoredEmail) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  %s  %s\n", Bold.Render(Truncate(s.Email.Sender, 48)), VerdictBadge(s.Verdict())))
	sb.WriteString(fmt.Sprintf("  %s\n", Dim.Render(TimeAgo(s.Email.Date))))
	sb.WriteString(fmt.Sprintf("  %s\n", Truncate(s.Email.Subject, 76)))
	sb.WriteString(fmt.Sprintf("  %s\n", Muted.Render(Truncate(oneLine(s.Email.Snippet), 76))))
	return sb.String()
}

// PageLine renders the pagination control row: first, last, current±1,
// ellipsis elsewhere.
func PageLine(current, total int) string {
	if total <= 1 {
		return ""
	}
	parts := make([]string, 0, total)
	for _, n := range view.PageNumbers(current, total) {
		switch {
		case n == view.Ellipsis:
			parts = append(parts, Muted.Render("..."))
		case n == current:
			parts = append(parts, Bold.Render(fmt.Sprintf("[%d]", n)))
		default:
			parts = append(parts, fmt.Sprintf(" %d ", n))
		}
	}
	return "  " + strings.Join(parts, " ")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TimeAgo formats a Date header as a relative time. Unparseable dates are
// shown as-is.
func TimeAgo(date string) string {
	if date == "" {
		return ""
	}
	t, err := mail.ParseDate(date)
	if err != nil {
		return date
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

// Truncate shortens a string to maxLen, adding ellipsis if needed.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// SuccessMsg prints a green checkmark + message.
func SuccessMsg(format string, args ...any) {
	fmt.Println(Success.Render("✓") + " " + fmt.Sprintf(format, args...))
}

// ErrorMsg prints a red X + message to stderr.
func ErrorMsg(format string, args ...any) {
	fmt.Fprintln(os.Stderr, ErrStyle.Render("✗")+" "+fmt.Sprintf(format, args...))
}

// Header prints a section header.
func Header(title string) {
	fmt.Println(Bold.Render(title))
}
