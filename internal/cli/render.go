package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"sitless/internal/core/progress"
	"sitless/internal/storage"
)

const barWidth = 16

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4285F4"))
	headerStyle = lipgloss.NewStyle().Bold(true)
	goalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#34A853"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

func renderStats(days []string, summaries []storage.DaySummary, goal int) string {
	byDate := make(map[string]storage.DaySummary, len(summaries))
	for _, summary := range summaries {
		byDate[summary.Date] = summary
	}

	var out strings.Builder
	out.WriteString(titleStyle.Render(fmt.Sprintf("Sessions, last %d days", len(days))))
	out.WriteString("\n\n")
	out.WriteString(headerStyle.Render(fmt.Sprintf("%-10s  %8s  %-*s  %7s  %7s", "Date", "Sessions", barWidth, "Goal", "Sitting", "Moving")))
	out.WriteString("\n")

	total := 0
	reached := 0
	for _, day := range days {
		summary := byDate[day]
		total += summary.Sessions
		row := fmt.Sprintf("%-10s  %8d  %s  %7s  %7s",
			day,
			summary.Sessions,
			goalBar(summary.Sessions, goal),
			formatHours(summary.SittingDuration),
			formatHours(summary.ActivityDuration),
		)
		switch {
		case goal > 0 && summary.Sessions >= goal:
			reached++
			row = goalStyle.Render(row)
		case summary.Sessions == 0:
			row = dimStyle.Render(row)
		}
		out.WriteString(row)
		out.WriteString("\n")
	}

	out.WriteString("\n")
	out.WriteString(fmt.Sprintf("Total: %d sessions, goal of %d reached on %d of %d days\n", total, goal, reached, len(days)))
	return out.String()
}

func renderToday(today progress.DailyProgress, goal int, sessions []storage.SessionRecord) string {
	var out strings.Builder
	out.WriteString(titleStyle.Render("Today " + today.Date))
	out.WriteString("\n\n")

	line := fmt.Sprintf("%d of %d sessions  %s", today.SessionsCompleted, goal, goalBar(today.SessionsCompleted, goal))
	if goal > 0 && today.SessionsCompleted >= goal {
		line = goalStyle.Render(line + "  goal reached")
	}
	out.WriteString(line)
	out.WriteString("\n")

	if len(sessions) == 0 {
		out.WriteString(dimStyle.Render("No sessions completed yet."))
		out.WriteString("\n")
		return out.String()
	}

	out.WriteString("\n")
	for _, record := range sessions {
		out.WriteString(fmt.Sprintf("  %s  cycle %d  sat %s, moved %s\n",
			record.CompletedAt.Local().Format("15:04"),
			record.Cycle,
			formatMinutes(record.SittingDuration),
			formatMinutes(record.ActivityDuration),
		))
	}
	return out.String()
}

// goalBar draws done/goal as a fixed-width bar.
func goalBar(done, goal int) string {
	if goal <= 0 {
		return strings.Repeat("░", barWidth)
	}
	filled := done * barWidth / goal
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func formatHours(duration time.Duration) string {
	if duration <= 0 {
		return "-"
	}
	hours := int(duration.Hours())
	minutes := int(duration.Minutes()) % 60
	return fmt.Sprintf("%dh%02dm", hours, minutes)
}

func formatMinutes(duration time.Duration) string {
	return fmt.Sprintf("%dm", int(duration.Minutes()))
}
