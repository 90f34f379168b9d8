package schedule

import (
	"errors"
	"fmt"

	"github.com/teemow/optimeet/internal/timeofday"
)

// ErrInvalidMeeting is returned for meetings whose day or span is out of range.
var ErrInvalidMeeting = errors.New("invalid meeting")

// Placeholder meetings sit in the last two minutes of the week so they sort
// after every real meeting of the contact.
const (
	PlaceholderDay   = timeofday.Sunday
	PlaceholderStart = timeofday.LastMinute - 1
	PlaceholderEnd   = timeofday.LastMinute
)

// Meeting is a busy period of the principal with one contact.
type Meeting struct {
	// ID is assigned by the Calendar when the meeting is inserted.
	ID string

	Day     timeofday.Day
	Start   timeofday.Minute
	End     timeofday.Minute
	Contact string
	Notes   string
	Agenda  string

	// Artificial marks placeholder meetings that do not correspond to a real
	// calendar event.
	Artificial bool
}

// Validate checks the day and span of m.
func (m Meeting) Validate() error {
	if !m.Day.Valid() {
		return fmt.Errorf("%w: day %d out of range", ErrInvalidMeeting, int(m.Day))
	}
	if !m.Start.Valid() || !m.End.Valid() {
		return fmt.Errorf("%w: span %d-%d out of range", ErrInvalidMeeting, int(m.Start), int(m.End))
	}
	if m.Start >= m.End {
		return fmt.Errorf("%w: start %s is not before end %s", ErrInvalidMeeting, m.Start, m.End)
	}
	return nil
}

// Overlaps reports whether m and other share any minute on the same day.
// Spans are half-open, so meetings that only touch at an endpoint do not
// overlap.
func (m Meeting) Overlaps(other Meeting) bool {
	if m.Day != other.Day {
		return false
	}
	return m.Start < other.End && other.Start < m.End
}

// Interval returns the minute span of m.
func (m Meeting) Interval() Interval {
	return Interval{Start: m.Start, End: m.End}
}

// String renders m as "tuesday 09:00 AM-10:00 AM with Marcos".
func (m Meeting) String() string {
	return fmt.Sprintf("%s %s-%s with %s", m.Day, m.Start, m.End, m.Contact)
}

// SameSpan reports whether a and b cover the same minutes, regardless of day
// or contact.
func SameSpan(a, b Meeting) bool {
	return a.Start == b.Start && a.End == b.End
}

// after orders meetings by (day, start).
func after(a, b Meeting) bool {
	if a.Day != b.Day {
		return a.Day > b.Day
	}
	return a.Start > b.Start
}
