package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/lachiem1/pragati/internal/growth"
	"github.com/lachiem1/pragati/internal/money"
	"github.com/lachiem1/pragati/internal/tracker"
)

var (
	coral  = lipgloss.Color("#F47A60")
	yellow = lipgloss.Color("#FFD54A")
	green  = lipgloss.Color("#5CCB76")
	red    = lipgloss.Color("#F15B5B")
	sky    = lipgloss.Color("#87CEEB")
	muted  = lipgloss.Color("#8D88A8")
)

func renderTitle() string {
	raw := []string{
		"█▀█ █▀█ ▄▀█ █▀▀ ▄▀█ ▀█▀ █",
		"█▀▀ █▀▄ █▀█ █▄█ █▀█  █  █",
	}
	// Alternates coral/yellow per letter.
	segments := [][2]int{{0, 3}, {4, 7}, {8, 11}, {12, 15}, {16, 19}, {20, 23}, {24, 25}}
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		runes := []rune(line)
		var b strings.Builder
		for i, ch := range runes {
			color := coral
			if segmentForIndex(i, segments)%2 == 1 {
				color = yellow
			}
			b.WriteString(lipgloss.NewStyle().Foreground(color).Bold(true).Render(string(ch)))
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

func segmentForIndex(index int, segments [][2]int) int {
	for i, seg := range segments {
		if index >= seg[0] && index < seg[1] {
			return i
		}
	}
	return 0
}

func stateBadge(s tracker.State) string {
	color := muted
	switch s {
	case tracker.StateRunning:
		color = green
	case tracker.StateCompleted:
		color = yellow
	case tracker.StateConfigured:
		color = sky
	}
	label := lipgloss.NewStyle().Foreground(sky).Bold(true).Render("status: ")
	return label + lipgloss.NewStyle().Foreground(color).Bold(true).Render(s.String())
}

func renderCounter(amount float64, width int) string {
	text := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Bold(true).
		Padding(0, 2).
		Render(money.Format(amount))
	box := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(green).
		Render(text)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, box)
}

func renderSummary(snap tracker.Snapshot) string {
	label := lipgloss.NewStyle().Foreground(muted)
	value := lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB")).Bold(true)
	pair := func(k, v string) string { return label.Render(k+" ") + value.Render(v) }

	rec := snap.Record
	return strings.Join([]string{
		pair("principal", money.Format(rec.Principal)),
		pair("rate", strconv.FormatFloat(rec.AnnualRatePercent, 'f', -1, 64)+"%"),
		pair("years", strconv.FormatFloat(rec.Years, 'f', -1, 64)),
		pair("target", money.Format(snap.FinalAmount)),
		pair("per second", money.Format(snap.PerSecondRate)),
	}, "   ")
}

// renderChart draws one horizontal bar per point, scaled between principal
// and final. The point at the live amount is highlighted.
func renderChart(points []growth.ChartPoint, snap tracker.Snapshot, width int) string {
	if len(points) == 0 {
		return lipgloss.NewStyle().Foreground(muted).Render("no chart data")
	}

	labelWidth := 0
	for _, p := range points {
		labelWidth = max(labelWidth, len(p.Label))
	}
	valueWidth := utf8.RuneCountInString(money.Format(snap.FinalAmount))
	barWidth := max(10, width-labelWidth-valueWidth-4)

	lo, hi := snap.Record.Principal, snap.FinalAmount
	span := hi - lo
	rows := make([]string, 0, len(points))
	for _, p := range points {
		frac := 0.0
		if span > 0 {
			frac = (p.Value - lo) / span
		}
		n := 1 + int(math.Round(math.Max(0, math.Min(1, frac))*float64(barWidth-1)))

		barStyle := lipgloss.NewStyle().Foreground(coral)
		labelStyle := lipgloss.NewStyle().Foreground(muted)
		if p.Month > 0 && p.Value == snap.CurrentAmount {
			barStyle = lipgloss.NewStyle().Foreground(green).Bold(true)
			labelStyle = lipgloss.NewStyle().Foreground(green).Bold(true)
		}
		row := labelStyle.Render(fmt.Sprintf("%-*s", labelWidth, p.Label)) + "  " +
			barStyle.Render(strings.Repeat("█", n)) + strings.Repeat(" ", barWidth-n) + "  " +
			fmt.Sprintf("%*s", valueWidth, money.Format(p.Value))
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

func renderTable(rows []growth.ProjectionRow) string {
	if len(rows) == 0 {
		return lipgloss.NewStyle().Foreground(muted).Render("no projection data")
	}

	header := lipgloss.NewStyle().Foreground(sky).Bold(true)
	lines := []string{header.Render(fmt.Sprintf("%-12s %6s %18s %9s", "Date", "Year", "Amount", "Growth"))}
	for _, r := range rows {
		growthText := "-"
		if r.Year > 0 {
			growthText = fmt.Sprintf("%.2f%%", r.GrowthPercent)
		}
		lines = append(lines, fmt.Sprintf(
			"%-12s %6s %18s %9s",
			r.Date,
			strconv.FormatFloat(r.Year, 'f', -1, 64),
			money.Format(r.Amount),
			growthText,
		))
	}
	return strings.Join(lines, "\n")
}

func renderHelpOverlay(body string, maxWidth int) string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5FA8FF")).
		Bold(true).
		Render("Keys")
	footer := lipgloss.NewStyle().
		Foreground(yellow).
		Bold(true).
		Render("Esc to close")

	content := strings.Join([]string{title, "", body, "", footer}, "\n")
	panelWidth := max(36, min(maxWidth-6, 64))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#6CBFE6")).
		Padding(1, 2).
		Width(panelWidth).
		Render(content)
}
