package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/lachiem1/pragati/internal/growth"
	"github.com/lachiem1/pragati/internal/money"
	"github.com/lachiem1/pragati/internal/tracker"
)

func printStatus(w io.Writer, snap tracker.Snapshot) {
	cyan := color.New(color.FgCyan, color.Bold)
	bold := color.New(color.Bold)

	state := color.New(color.FgBlue, color.Bold)
	switch snap.State {
	case tracker.StateRunning:
		state = color.New(color.FgGreen, color.Bold)
	case tracker.StateCompleted:
		state = color.New(color.FgYellow, color.Bold)
	}

	rec := snap.Record
	cyan.Fprintln(w, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	cyan.Fprintln(w, "PRAGATI")
	cyan.Fprintln(w, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Fprint(w, "Status:     ")
	state.Fprintln(w, snap.State.String())
	fmt.Fprint(w, "Current:    ")
	bold.Fprintln(w, money.Format(snap.CurrentAmount))
	fmt.Fprintf(w, "Target:     %s\n", money.Format(snap.FinalAmount))
	fmt.Fprintf(w, "Progress:   %.4f%%\n", snap.PercentComplete)
	fmt.Fprintf(w, "Elapsed:    %s of %s\n", snap.ElapsedFormatted, growth.FormatDuration(snap.TotalSeconds))
	fmt.Fprintf(w, "Principal:  %s\n", money.Format(rec.Principal))
	fmt.Fprintf(w, "Rate:       %s%% a year\n", strconv.FormatFloat(rec.AnnualRatePercent, 'f', -1, 64))
	fmt.Fprintf(w, "Years:      %s\n", strconv.FormatFloat(rec.Years, 'f', -1, 64))
	fmt.Fprintf(w, "Per second: %s%.6f\n", money.Glyph, snap.PerSecondRate)
}

func printTable(w io.Writer, rows []growth.ProjectionRow) {
	if len(rows) == 0 {
		color.New(color.FgYellow).Fprintln(w, "No projection data.")
		return
	}

	header := color.New(color.FgCyan, color.Bold)
	header.Fprintf(w, "%-12s %6s %18s %9s\n", "Date", "Year", "Amount", "Growth")
	for _, r := range rows {
		growthText := "-"
		if r.Year > 0 {
			growthText = fmt.Sprintf("%.2f%%", r.GrowthPercent)
		}
		fmt.Fprintf(w, "%-12s %6s %18s %9s\n",
			r.Date,
			strconv.FormatFloat(r.Year, 'f', -1, 64),
			money.Format(r.Amount),
			growthText,
		)
	}
}

func printFeedback(w io.Writer, text string) {
	color.New(color.FgGreen).Fprintln(w, text)
}

func printGoal(w io.Writer) {
	color.New(color.FgGreen, color.Bold).Fprintln(w, "Congratulations! You've reached your financial goal!")
}
