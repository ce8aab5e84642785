package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/lachiem1/pragati/internal/growth"
	"github.com/lachiem1/pragati/internal/tracker"
	"github.com/rs/zerolog"
)

func TestRenderTableRows(t *testing.T) {
	rows := []growth.ProjectionRow{
		{Date: "01 Mar 2026", Year: 0, Amount: 100000},
		{Date: "01 Mar 2027", Year: 1, Amount: 112682.50, GrowthPercent: 12.6825},
		{Date: "01 Sep 2027", Year: 1.5, Amount: 119615.71, GrowthPercent: 19.6157},
	}

	lines := strings.Split(renderTable(rows), "\n")
	if len(lines) != len(rows)+1 {
		t.Fatalf("renderTable() produced %d lines, want %d", len(lines), len(rows)+1)
	}
	if !strings.Contains(lines[1], "-") || strings.Contains(lines[1], "%") {
		t.Fatalf("starting row should show no growth: %q", lines[1])
	}
	if !strings.Contains(lines[2], "₹1,12,682.50") || !strings.Contains(lines[2], "12.68%") {
		t.Fatalf("year one row = %q", lines[2])
	}
	if !strings.Contains(lines[3], "1.5") {
		t.Fatalf("closing row should show fractional year: %q", lines[3])
	}
}

func TestRenderTableEmpty(t *testing.T) {
	if got := renderTable(nil); !strings.Contains(got, "no projection data") {
		t.Fatalf("renderTable(nil) = %q", got)
	}
}

func TestRenderChartScalesBars(t *testing.T) {
	clock := &testClock{now: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)}
	tr := tracker.New(&memStore{}, zerolog.Nop(), tracker.Options{Clock: clock, ChartPoints: 4})
	snap := tr.Resume(t.Context(), tracker.DefaultRecord(), clock.now)

	out := renderChart(snap.Chart, snap, 80)
	lines := strings.Split(out, "\n")
	if len(lines) != len(snap.Chart) {
		t.Fatalf("renderChart() produced %d lines, want %d", len(lines), len(snap.Chart))
	}
	first := strings.Count(lines[0], "█")
	last := strings.Count(lines[len(lines)-1], "█")
	if first != 1 {
		t.Fatalf("principal bar width = %d, want 1", first)
	}
	if last <= first {
		t.Fatalf("final bar width = %d, want wider than %d", last, first)
	}
	if !strings.Contains(lines[0], "Start") {
		t.Fatalf("first row = %q, want Start label", lines[0])
	}
}

func TestRenderChartEmpty(t *testing.T) {
	if got := renderChart(nil, tracker.Snapshot{}, 80); !strings.Contains(got, "no chart data") {
		t.Fatalf("renderChart(nil) = %q", got)
	}
}
