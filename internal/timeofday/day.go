package timeofday

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDayName is returned when text does not name a day of the week.
var ErrInvalidDayName = errors.New("invalid day name")

// Day is a day of the week, Monday=1 through Sunday=7.
type Day int

// Days of the week.
const (
	Monday Day = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayNames = [...]string{
	Monday:    "monday",
	Tuesday:   "tuesday",
	Wednesday: "wednesday",
	Thursday:  "thursday",
	Friday:    "friday",
	Saturday:  "saturday",
	Sunday:    "sunday",
}

// ParseDay converts a weekday name to its Day. Matching ignores case and
// surrounding whitespace.
func ParseDay(text string) (Day, error) {
	name := strings.ToLower(strings.TrimSpace(text))
	for d := Monday; d <= Sunday; d++ {
		if dayNames[d] == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDayName, text)
}

// Valid reports whether d is in [Monday, Sunday].
func (d Day) Valid() bool {
	return d >= Monday && d <= Sunday
}

// String returns the lowercase English name of the day.
func (d Day) String() string {
	if !d.Valid() {
		return fmt.Sprintf("day(%d)", int(d))
	}
	return dayNames[d]
}

// Weekday converts d to the standard library's Sunday-first numbering.
func (d Day) Weekday() time.Weekday {
	return time.Weekday(int(d) % 7)
}

// DayOf converts a time.Weekday to a Day.
func DayOf(w time.Weekday) Day {
	if w == time.Sunday {
		return Sunday
	}
	return Day(w)
}
