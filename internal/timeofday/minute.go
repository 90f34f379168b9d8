package timeofday

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTimeFormat is returned when text is not a 12-hour "HH:MM AM/PM" time.
var ErrInvalidTimeFormat = errors.New("invalid time format")

// Minute is a number of minutes after local midnight, in [0, 1439].
type Minute int

const (
	// MinutesPerDay is the number of minutes in a day.
	MinutesPerDay = 24 * 60

	// Midnight is the first minute of the day.
	Midnight Minute = 0

	// LastMinute is the last minute of the day (11:59 PM).
	LastMinute Minute = MinutesPerDay - 1

	// EndOfDay is the exclusive end of the day. It is only valid as the end
	// of an interval, never as a meeting time.
	EndOfDay Minute = MinutesPerDay
)

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s+([AaPp][Mm])$`)

// ParseMinute converts "HH:MM AM" or "HH:MM PM" text to a Minute.
// The hour may be written with one or two digits and must be in 1..12;
// 12 AM is midnight and 12 PM is noon.
func ParseMinute(text string) (Minute, error) {
	parts := clockPattern.FindStringSubmatch(strings.TrimSpace(text))
	if parts == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, text)
	}

	hour, _ := strconv.Atoi(parts[1])
	minute, _ := strconv.Atoi(parts[2])
	if hour < 1 || hour > 12 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, text)
	}

	hour %= 12
	if strings.EqualFold(parts[3], "PM") {
		hour += 12
	}
	return Clock(hour, minute), nil
}

// Clock returns the Minute for a 24-hour hour and minute.
func Clock(hour, minute int) Minute {
	return Minute(hour*60 + minute)
}

// MinuteOf returns the minute of the day of t in t's location.
func MinuteOf(t time.Time) Minute {
	return Clock(t.Hour(), t.Minute())
}

// Valid reports whether m is in [0, 1439].
func (m Minute) Valid() bool {
	return m >= Midnight && m <= LastMinute
}

// Hour returns the 24-hour hour of m.
func (m Minute) Hour() int {
	return int(m) / 60
}

// String formats m as "HH:MM AM" or "HH:MM PM". EndOfDay reads as the
// following midnight.
func (m Minute) String() string {
	if m == EndOfDay {
		return "12:00 AM"
	}
	if !m.Valid() {
		return fmt.Sprintf("minute(%d)", int(m))
	}

	hour, minute := m.Hour(), int(m)%60
	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%02d:%02d %s", hour, minute, meridiem)
}
