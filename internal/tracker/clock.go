package tracker

import "time"

// Clock dates the projection table. Accrual always uses the instants passed
// to Start, Recompute and Resume.
type Clock interface {
	Now() time.Time
}

// RealClock provides actual system time.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}
