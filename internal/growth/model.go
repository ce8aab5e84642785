// Package growth holds the compounding math behind the tracker: final amounts,
// the linear per-second accrual rate, elapsed-time helpers and the chart and
// projection samples derived from them. Everything here is pure.
package growth

import "math"

// SecondsPerYear uses a fixed 365-day year; leap days are never counted.
const SecondsPerYear = 365 * 24 * 60 * 60

// MaxYears bounds the horizon. The projection table has a row per year.
const MaxYears = 1000

// ReasonOverflow marks parameters whose compounded amount is not a finite
// float64.
const ReasonOverflow = "compounded amount overflows"

const (
	FieldPrincipal = "principal"
	FieldRate      = "annualRatePercent"
	FieldYears     = "years"
)

// Params are the three user inputs of a run.
type Params struct {
	Principal         float64
	AnnualRatePercent float64
	Years             float64
}

// Validate checks every field in declaration order and reports the first bad one.
func (p Params) Validate() error {
	if err := requirePositive(FieldPrincipal, p.Principal); err != nil {
		return err
	}
	if err := requirePositive(FieldRate, p.AnnualRatePercent); err != nil {
		return err
	}
	return requireHorizon(p.Years)
}

// FinalAmount compounds principal annually at ratePercent for years. A result
// that overflows is reported against years.
func FinalAmount(principal, ratePercent, years float64) (float64, error) {
	p := Params{Principal: principal, AnnualRatePercent: ratePercent, Years: years}
	if err := p.Validate(); err != nil {
		return 0, err
	}
	final := principal * math.Pow(1+ratePercent/100, years)
	if math.IsInf(final, 0) || math.IsNaN(final) {
		return 0, &InvalidParameterError{Field: FieldYears, Value: years, Reason: ReasonOverflow}
	}
	return final, nil
}

// TotalSeconds is the length of a run of the given years.
func TotalSeconds(years float64) float64 {
	return years * SecondsPerYear
}

// PerSecondRate is the constant increment that walks principal up to final in
// exactly TotalSeconds(years). The live counter meets the compound curve only
// at both ends.
func PerSecondRate(principal, final, years float64) float64 {
	total := TotalSeconds(years)
	if total <= 0 {
		return 0
	}
	return (final - principal) / total
}

// CompoundAnnualGrowthRate is the constant yearly rate (as a fraction) that
// turns startAmount into endAmount over years.
func CompoundAnnualGrowthRate(startAmount, endAmount, years float64) (float64, error) {
	if err := requirePositive("startAmount", startAmount); err != nil {
		return 0, err
	}
	if err := requirePositive(FieldYears, years); err != nil {
		return 0, err
	}
	return math.Pow(endAmount/startAmount, 1/years) - 1, nil
}
