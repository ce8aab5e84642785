package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/lachiem1/pragati/internal/growth"
	"github.com/lachiem1/pragati/internal/tracker"
	"gopkg.in/yaml.v3"
)

// statusReport is the machine-readable form of `status`.
type statusReport struct {
	State             string                `json:"state" yaml:"state"`
	Running           bool                  `json:"running" yaml:"running"`
	StartedAt         *time.Time            `json:"startedAt,omitempty" yaml:"startedAt,omitempty"`
	SavedAt           *time.Time            `json:"savedAt,omitempty" yaml:"savedAt,omitempty"`
	Principal         float64               `json:"principal" yaml:"principal"`
	AnnualRatePercent float64               `json:"annualRatePercent" yaml:"annualRatePercent"`
	Years             float64               `json:"years" yaml:"years"`
	CurrentAmount     float64               `json:"currentAmount" yaml:"currentAmount"`
	FinalAmount       float64               `json:"finalAmount" yaml:"finalAmount"`
	PerSecondRate     float64               `json:"perSecondRate" yaml:"perSecondRate"`
	PercentComplete   float64               `json:"percentComplete" yaml:"percentComplete"`
	ElapsedSeconds    float64               `json:"elapsedSeconds" yaml:"elapsedSeconds"`
	TotalSeconds      float64               `json:"totalSeconds" yaml:"totalSeconds"`
	Elapsed           string                `json:"elapsed" yaml:"elapsed"`
	Projection        []projectionRowReport `json:"projection" yaml:"projection"`
}

type projectionRowReport struct {
	Date          string  `json:"date" yaml:"date"`
	Year          float64 `json:"year" yaml:"year"`
	Amount        float64 `json:"amount" yaml:"amount"`
	GrowthPercent float64 `json:"growthPercent" yaml:"growthPercent"`
}

func newStatusReport(snap tracker.Snapshot) statusReport {
	rec := snap.Record
	r := statusReport{
		State:             snap.State.String(),
		Running:           snap.Running,
		Principal:         rec.Principal,
		AnnualRatePercent: rec.AnnualRatePercent,
		Years:             rec.Years,
		CurrentAmount:     snap.CurrentAmount,
		FinalAmount:       snap.FinalAmount,
		PerSecondRate:     snap.PerSecondRate,
		PercentComplete:   snap.PercentComplete,
		ElapsedSeconds:    snap.ElapsedSeconds,
		TotalSeconds:      snap.TotalSeconds,
		Elapsed:           snap.ElapsedFormatted,
		Projection:        projectionReport(snap.Table),
	}
	if start, ok := rec.StartTime(); ok {
		start = start.UTC()
		r.StartedAt = &start
	}
	return r
}

func projectionReport(rows []growth.ProjectionRow) []projectionRowReport {
	out := make([]projectionRowReport, 0, len(rows))
	for _, row := range rows {
		out = append(out, projectionRowReport{
			Date:          row.Date,
			Year:          row.Year,
			Amount:        row.Amount,
			GrowthPercent: row.GrowthPercent,
		})
	}
	return out
}

func writeReport(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
