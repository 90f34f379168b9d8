package availability

import (
	"context"
	"time"

	"github.com/teemow/optimeet/internal/schedule"
	"github.com/teemow/optimeet/internal/timeofday"
)

// TimeRange is a [Start, End) span of wall-clock time.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Duration returns End - Start.
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// String renders r like "Tuesday, March 04 from 09:00 AM to 10:00 AM".
func (r TimeRange) String() string {
	return Describe(r)
}

// Describe renders a slot for people: the weekday and date of its start
// followed by the start and end times.
func Describe(r TimeRange) string {
	return r.Start.Format("Monday, January 02 from 03:04 PM") + " to " + r.End.Format("03:04 PM")
}

// BusySource reports the busy time of one calendar.
type BusySource interface {
	// Busy returns the busy ranges intersecting [from, to). Ranges may
	// overlap each other and extend past the query bounds.
	Busy(ctx context.Context, from, to time.Time) ([]TimeRange, error)
}

// BusySourceFunc adapts a function to BusySource.
type BusySourceFunc func(ctx context.Context, from, to time.Time) ([]TimeRange, error)

// Busy calls f.
func (f BusySourceFunc) Busy(ctx context.Context, from, to time.Time) ([]TimeRange, error) {
	return f(ctx, from, to)
}

// MergedSource reports the union of the busy time of several sources.
// The first failing source fails the query.
type MergedSource []BusySource

// Busy implements BusySource.
func (m MergedSource) Busy(ctx context.Context, from, to time.Time) ([]TimeRange, error) {
	var out []TimeRange
	for _, src := range m {
		if src == nil {
			continue
		}
		busy, err := src.Busy(ctx, from, to)
		if err != nil {
			return nil, err
		}
		out = append(out, busy...)
	}
	return out, nil
}

// CalendarSource exposes a weekly schedule.Calendar as a BusySource. Each
// meeting repeats on its weekday in every week of the query; placeholder
// meetings are never busy.
type CalendarSource struct {
	Calendar *schedule.Calendar
	Location *time.Location
}

// Busy implements BusySource.
func (s CalendarSource) Busy(ctx context.Context, from, to time.Time) ([]TimeRange, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loc := s.Location
	if loc == nil {
		loc = time.Local
	}

	var out []TimeRange
	for day := startOfDay(from.In(loc)); day.Before(to); day = day.AddDate(0, 0, 1) {
		for _, b := range s.Calendar.BusyOn(timeofday.DayOf(day.Weekday())) {
			r := TimeRange{Start: atMinute(day, b.Start), End: atMinute(day, b.End)}
			if r.End.After(from) && r.Start.Before(to) {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func atMinute(day time.Time, m timeofday.Minute) time.Time {
	y, mo, d := day.Date()
	return time.Date(y, mo, d, 0, int(m), 0, 0, day.Location())
}
