package teaui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/moodlog/pkg/mood/viewmodel"
	"tableflip.dev/moodlog/pkg/runner/tea/internal/theme"
)

const (
	chartHeight = 8
	columnWidth = 7
)

// renderBars draws the distribution as vertical columns with the count on
// top and the mood word underneath.
func renderBars(t theme.ChartTheme, bars []viewmodel.Bar) string {
	title := t.Title.Render("Mood Distribution")
	if len(bars) == 0 {
		return title + "\n" + t.Faint.Italic(true).Render("No mood data yet")
	}
	top := viewmodel.MaxCount(bars)
	cols := make([]string, 0, len(bars))
	for _, b := range bars {
		h := 0
		if top > 0 {
			h = int(math.Round(float64(b.Count) / float64(top) * chartHeight))
		}
		if h == 0 && b.Count > 0 {
			h = 1
		}
		lines := make([]string, 0, chartHeight+2)
		lines = append(lines, fmt.Sprintf("%d", b.Count))
		for i := chartHeight; i > 0; i-- {
			if i <= h {
				lines = append(lines, "███")
			} else {
				lines = append(lines, "   ")
			}
		}
		col := lipgloss.NewStyle().Foreground(lipgloss.Color(b.Color)).Render(strings.Join(lines, "\n"))
		label := lipgloss.NewStyle().Width(columnWidth).Align(lipgloss.Center).Render(b.Label)
		cols = append(cols, lipgloss.JoinVertical(lipgloss.Center,
			lipgloss.NewStyle().Width(columnWidth).Align(lipgloss.Center).Render(col), label))
	}
	return title + "\n" + lipgloss.JoinHorizontal(lipgloss.Bottom, cols...)
}

// renderTrend draws one row per day with the average level as a bar.
func renderTrend(t theme.ChartTheme, points []viewmodel.TrendPoint) string {
	title := t.Title.Render("Weekly Mood Trend")
	if !viewmodel.HasTrendData(points) {
		return title + "\n" + t.Faint.Italic(true).Render("No entries in the last 7 days")
	}
	rows := make([]string, 0, len(points))
	for _, p := range points {
		if p.Count == 0 {
			rows = append(rows, fmt.Sprintf("%-4s %s", p.Label, t.Faint.Render("·")))
			continue
		}
		n := int(math.Round(p.Average * 4))
		bar := t.Trend.Render(strings.Repeat("▇", n))
		rows = append(rows, fmt.Sprintf("%-4s %s %.1f", p.Label, bar, p.Average))
	}
	return title + "\n" + strings.Join(rows, "\n")
}
