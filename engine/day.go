package engine

import (
	"time"
)

// =============================================================================
// DAY - Calendar-date abstraction (streak comparisons are date-based)
// =============================================================================

// Day is a calendar date in the device's local zone. Streak transitions
// compare the date component of events, never the clock time, so a Day
// deliberately cannot carry hours or minutes.
type Day struct {
	Year  int
	Month time.Month
	DayOfMonth int
}

// Constructors
func NewDay(year int, month time.Month, day int) Day {
	return Day{Year: year, Month: month, DayOfMonth: day}
}

// DayOf truncates a timestamp to its local calendar date.
func DayOf(t time.Time) Day {
	return Day{Year: t.Year(), Month: t.Month(), DayOfMonth: t.Day()}
}

// Comparison
func (d Day) Equal(other Day) bool  { return d == other }
func (d Day) Before(other Day) bool { return d.time().Before(other.time()) }
func (d Day) After(other Day) bool  { return d.time().After(other.time()) }
func (d Day) IsZero() bool          { return d == Day{} }

func (d Day) time() time.Time {
	return time.Date(d.Year, d.Month, d.DayOfMonth, 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d Day) AddDays(n int) Day { return DayOf(d.time().AddDate(0, 0, n)) }

// DaysBetween returns the signed number of calendar days from 'from' to 'to'.
func DaysBetween(from, to Day) int {
	return int(to.time().Sub(from.time()).Hours() / 24)
}

// ISOWeek returns the ISO 8601 year and week number for the day.
func (d Day) ISOWeek() (int, int) { return d.time().ISOWeek() }

func (d Day) String() string { return d.time().Format("2006-01-02") }

// =============================================================================
// CLOCK - Injected so tests can pin "now"
// =============================================================================

// Clock supplies the current time. The engine classifies events against
// the device's local clock; no trusted-server synchronization is claimed.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock pins time for tests.
type FixedClock struct {
	Current time.Time
}

func (c *FixedClock) Now() time.Time    { return c.Current }
func (c *FixedClock) Set(t time.Time)   { c.Current = t }
func (c *FixedClock) Advance(d time.Duration) { c.Current = c.Current.Add(d) }
