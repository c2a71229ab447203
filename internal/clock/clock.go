// Package clock provides the injectable "today" provider spec.md §6 calls
// for, so S1's daily-count date and S2's AVT timestamp can be pinned in
// tests without a wall-clock race.
package clock

import "time"

// Clock is the single source of "now" the pipeline consults.
type Clock interface {
	Now() time.Time
}

// System is the production Clock, backed by time.Now.
type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// Fixed is a test Clock that always returns the same instant.
type Fixed struct {
	At time.Time
}

func (f Fixed) Now() time.Time { return f.At }

// Day formats a Clock's current instant as the YYYY-MM-DD key DailyCount rows
// are partitioned by.
func Day(c Clock) string {
	return c.Now().Format("2006-01-02")
}
