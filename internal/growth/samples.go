package growth

import (
	"iter"
	"math"
	"strconv"
	"time"
)

// DefaultChartPoints is the number of grid points after "Start".
const DefaultChartPoints = 12

const dateLayout = "02/01/2006"

// ChartPoint is one sample of the trajectory; Month is the simulated month index.
type ChartPoint struct {
	Label string
	Month float64
	Value float64
}

// ProjectionRow is one line of the year-by-year table.
type ProjectionRow struct {
	Date          string
	Year          float64
	Amount        float64
	GrowthPercent float64
}

// ChartSeries samples the compound curve from principal to final on an even
// month grid. The live amount is spliced in at its implied month when it has
// moved past principal, so the chart shows where the counter sits today.
// The returned sequence is pure: ranging over it twice yields the same points.
func ChartSeries(principal, final, years, current float64, pointCount int) (iter.Seq[ChartPoint], error) {
	if err := requirePositive(FieldPrincipal, principal); err != nil {
		return nil, err
	}
	if err := requirePositive(FieldYears, years); err != nil {
		return nil, err
	}
	if pointCount <= 0 {
		pointCount = DefaultChartPoints
	}

	totalMonths := years * 12
	monthlyFactor := math.Pow(final/principal, 1/totalMonths)
	valueAt := func(month float64) float64 {
		return principal * math.Pow(monthlyFactor, month)
	}

	currentMonth := -1.0
	if current > principal && final > principal {
		progress := (current - principal) / (final - principal)
		currentMonth = math.Floor(math.Min(progress, 1) * totalMonths)
	}

	return func(yield func(ChartPoint) bool) {
		if !yield(ChartPoint{Label: "Start", Month: 0, Value: principal}) {
			return
		}
		last := 0.0
		currentDone := currentMonth <= 0

		emit := func(p ChartPoint) bool {
			if p.Month <= last {
				return true
			}
			last = p.Month
			return yield(p)
		}

		for i := 1; i <= pointCount; i++ {
			month := math.Floor(float64(i) * totalMonths / float64(pointCount))
			if !currentDone && currentMonth <= month {
				currentDone = true
				if currentMonth < month {
					if !emit(ChartPoint{Label: monthLabel(currentMonth), Month: currentMonth, Value: current}) {
						return
					}
				}
			}
			if !emit(ChartPoint{Label: monthLabel(month), Month: month, Value: valueAt(month)}) {
				return
			}
		}

		if !currentDone {
			if !emit(ChartPoint{Label: monthLabel(currentMonth), Month: currentMonth, Value: current}) {
				return
			}
		}

		if math.Mod(totalMonths, float64(pointCount)) != 0 && last < totalMonths {
			emit(ChartPoint{Label: monthLabel(totalMonths), Month: totalMonths, Value: final})
		}
	}, nil
}

func monthLabel(month float64) string {
	return "Month " + strconv.FormatFloat(month, 'f', -1, 64)
}

// ProjectionTable lists the amount at every whole year from 0 to years using
// the constant annual growth rate between principal and final. A fractional
// horizon gets one closing row at years. Dates step in 365-day years from today.
func ProjectionTable(principal, final, years float64, today time.Time) (iter.Seq[ProjectionRow], error) {
	if err := requireHorizon(years); err != nil {
		return nil, err
	}
	rate, err := CompoundAnnualGrowthRate(principal, final, years)
	if err != nil {
		return nil, err
	}

	whole := int(math.Floor(years))
	last := whole
	if float64(whole) < years {
		last++
	}

	return func(yield func(ProjectionRow) bool) {
		prev := 0.0
		for i := 0; i <= last; i++ {
			y := float64(i)
			if i > whole {
				y = years
			}
			amount := principal * math.Pow(1+rate, y)
			if y == years {
				amount = final
			}
			row := ProjectionRow{
				Date:   offsetYears(today, y).Format(dateLayout),
				Year:   y,
				Amount: amount,
			}
			if i > 0 {
				row.GrowthPercent = (amount/prev - 1) * 100
			}
			prev = amount
			if !yield(row) {
				return
			}
		}
	}, nil
}

// offsetYears moves t forward by 365-day years, whole days first so long
// horizons do not overflow time.Duration.
func offsetYears(t time.Time, years float64) time.Time {
	days := years * 365
	whole := math.Floor(days)
	return t.AddDate(0, 0, int(whole)).Add(time.Duration((days - whole) * float64(24*time.Hour)))
}
