package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidCalendarInput is returned when the (year, month) pair does not
// name a real calendar month.
var ErrInvalidCalendarInput = errors.New("invalid calendar input")

// Day is one day of the target month, annotated for the solver
type Day struct {
	Ordinal  int          `json:"ordinal"` // 1-based position in the month
	Date     time.Time    `json:"date"`
	Weekday  time.Weekday `json:"weekday"`
	IsSunday bool         `json:"is_sunday"`
}

// BuildMonth expands (year, month) into the ordered sequence of days of that
// month, first through last, each tagged with its weekday and Sunday flag.
func BuildMonth(year, month int) ([]Day, error) {
	if year < 1 || year > 9999 {
		return nil, fmt.Errorf("%w: year %d out of range", ErrInvalidCalendarInput, year)
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month %d out of range", ErrInvalidCalendarInput, month)
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	// Day 0 of the next month is the last day of this one
	count := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()

	days := make([]Day, count)
	for i := 0; i < count; i++ {
		date := first.AddDate(0, 0, i)
		days[i] = Day{
			Ordinal:  i + 1,
			Date:     date,
			Weekday:  date.Weekday(),
			IsSunday: date.Weekday() == time.Sunday,
		}
	}
	return days, nil
}
