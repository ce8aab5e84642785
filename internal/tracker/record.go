package tracker

import (
	"errors"
	"math"
	"time"

	"github.com/lachiem1/pragati/internal/growth"
)

const (
	DefaultPrincipal         = 100000
	DefaultAnnualRatePercent = 12
	DefaultYears             = 5
)

// Record is the single flat unit the tracker persists. Field names are part
// of the stored JSON format.
type Record struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annualRatePercent"`
	Years             float64 `json:"years"`
	Running           bool    `json:"running"`
	StartEpochMillis  *int64  `json:"startEpochMillis"`
	CurrentAmount     float64 `json:"currentAmount"`
}

func DefaultRecord() Record {
	return Record{
		Principal:         DefaultPrincipal,
		AnnualRatePercent: DefaultAnnualRatePercent,
		Years:             DefaultYears,
		CurrentAmount:     DefaultPrincipal,
	}
}

// Validate reports records that cannot be resumed: bad or overflowing
// parameters, a running record without a start instant, or a non-finite amount.
func (r Record) Validate() error {
	if _, err := growth.FinalAmount(r.Principal, r.AnnualRatePercent, r.Years); err != nil {
		return err
	}
	if r.Running && r.StartEpochMillis == nil {
		return errors.New("running record has no startEpochMillis")
	}
	if math.IsNaN(r.CurrentAmount) || math.IsInf(r.CurrentAmount, 0) || r.CurrentAmount < 0 {
		return errors.New("currentAmount is not a finite non-negative number")
	}
	return nil
}

func (r Record) StartTime() (time.Time, bool) {
	if r.StartEpochMillis == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*r.StartEpochMillis), true
}
