package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hrcadm/sleeptracker/internal"
	"github.com/hrcadm/sleeptracker/internal/service"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9CA3AF"))

	goodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	fairStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F7DC6F")).
			Bold(true)

	poorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(1, 2)
)

func qualityStyle(q float64) lipgloss.Style {
	switch {
	case q >= 4:
		return goodStyle
	case q >= 3:
		return fairStyle
	default:
		return poorStyle
	}
}

func stars(quality int) string {
	if quality < 0 {
		quality = 0
	}
	if quality > 5 {
		quality = 5
	}
	return strings.Repeat("★", quality) + strings.Repeat("☆", 5-quality)
}

func bar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func renderEntries(entries []internal.SleepEntry) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s  %s  %s-%s  %-7s  %s  %-9s  %s\n",
			e.ID, e.Date, e.Bedtime, e.WakeTime, service.FormatDuration(e.Duration),
			qualityStyle(float64(e.Quality)).Render(stars(e.Quality)), e.Mood, e.Notes)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderSummary(s service.Summary) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Sleep summary") + "\n\n")

	if s.LastEntry != nil {
		fmt.Fprintf(&b, "%s %s (%s-%s) %s\n", labelStyle.Render("Last night:"),
			service.FormatDuration(s.LastEntry.Duration), s.LastEntry.Bedtime, s.LastEntry.WakeTime, stars(s.LastEntry.Quality))
	} else {
		fmt.Fprintf(&b, "%s no entries yet\n", labelStyle.Render("Last night:"))
	}
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(fmt.Sprintf("Avg quality (%d):", s.Window)),
		qualityStyle(s.AverageQuality).Render(fmt.Sprintf("%.1f/5", s.AverageQuality)))
	fmt.Fprintf(&b, "%s %.1fh\n", labelStyle.Render(fmt.Sprintf("Avg duration (%d):", s.Window)), s.AverageDuration)
	fmt.Fprintf(&b, "%s %s %.0f%% of %gh\n", labelStyle.Render("Goal:"),
		bar(s.GoalProgress.Percent, 20), s.GoalProgress.Percent, s.GoalProgress.Goal.TargetDuration)
	fmt.Fprintf(&b, "%s %d/%d nights\n", labelStyle.Render("Goal met:"), s.GoalProgress.MetDays, s.GoalProgress.TotalDays)
	fmt.Fprintf(&b, "%s %d days", labelStyle.Render("Streak:"), s.Streak)

	return boxStyle.Render(b.String())
}

func renderTrend(points []service.TrendPoint) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Last 7 days") + "\n\n")
	for _, p := range points {
		fmt.Fprintf(&b, "%s  %s %4.1fh  %s\n", p.Date, bar(p.Duration/12*100, 24), p.Duration, stars(p.Quality))
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}
