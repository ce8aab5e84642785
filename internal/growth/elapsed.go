package growth

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// ElapsedSeconds is never negative; a start in the future counts as zero.
func ElapsedSeconds(start, now time.Time) float64 {
	d := now.Sub(start)
	if d <= 0 {
		return 0
	}
	return d.Seconds()
}

// PercentComplete caps at 100.
func PercentComplete(elapsedSeconds, totalSeconds float64) (float64, error) {
	if err := requirePositive("totalSeconds", totalSeconds); err != nil {
		return 0, err
	}
	return math.Min(elapsedSeconds/totalSeconds*100, 100), nil
}

// FormatDuration renders seconds as "1d 0h 5m 30s". Leading zero units are
// dropped, but once a unit is printed every smaller unit follows it.
func FormatDuration(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	total := int64(math.Floor(seconds))

	days := total / 86400
	total -= days * 86400
	hours := total / 3600
	total -= hours * 3600
	minutes := total / 60
	secs := total - minutes*60

	parts := make([]string, 0, 4)
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if days > 0 || hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if days > 0 || hours > 0 || minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", secs))
	return strings.Join(parts, " ")
}
