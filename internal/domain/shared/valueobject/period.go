package valueobject

import (
	"errors"
	"fmt"
	"time"
)

// DefaultDueDay is the day of month on which dues fall due
const DefaultDueDay = 15

var (
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
	ErrInvalidYear  = errors.New("year must be between 2000 and 2100")
	ErrInvalidDay   = errors.New("due day must be between 1 and 28")
)

// Period identifies a billing month
type Period struct {
	month int
	year  int
}

// NewPeriod creates a billing period
func NewPeriod(month, year int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, ErrInvalidMonth
	}
	if year < 2000 || year > 2100 {
		return Period{}, ErrInvalidYear
	}
	return Period{month: month, year: year}, nil
}

// Month returns the month (1-12)
func (p Period) Month() int {
	return p.month
}

// Year returns the year
func (p Period) Year() int {
	return p.year
}

// DueDate returns the calendar date on which the period falls due.
// The day is capped at 28 so every month has it.
func (p Period) DueDate(day int) (time.Time, error) {
	if day < 1 || day > 28 {
		return time.Time{}, ErrInvalidDay
	}
	return time.Date(p.year, time.Month(p.month), day, 0, 0, 0, 0, time.UTC), nil
}

// DefaultDescription returns the label used when a due has none, e.g. "03/2025 Aidatı"
func (p Period) DefaultDescription() string {
	return fmt.Sprintf("%02d/%d Aidatı", p.month, p.year)
}

// String returns YYYY-MM
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.year, p.month)
}

// Prev returns the preceding month
func (p Period) Prev() Period {
	if p.month == 1 {
		return Period{month: 12, year: p.year - 1}
	}
	return Period{month: p.month - 1, year: p.year}
}

// PeriodOf returns the period containing t
func PeriodOf(t time.Time) Period {
	return Period{month: int(t.Month()), year: t.Year()}
}

// DaysBetween counts whole calendar days from a to b, ignoring time of day.
// Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}
