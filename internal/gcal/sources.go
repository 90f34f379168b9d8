package gcal

import (
	"context"
	"time"

	"github.com/teemow/optimeet/internal/availability"
)

// EventsSource reports the principal's busy time from the events on their
// calendar. Cancelled and transparent ("show as available") events are not
// busy.
type EventsSource struct {
	Client     *Client
	CalendarID string
}

// Busy implements availability.BusySource.
func (s EventsSource) Busy(ctx context.Context, from, to time.Time) ([]availability.TimeRange, error) {
	calendarID := s.CalendarID
	if calendarID == "" {
		calendarID = s.Client.CalendarID()
	}

	events, err := s.Client.ListEvents(ctx, calendarID, from, to, "")
	if err != nil {
		return nil, err
	}

	busy := make([]availability.TimeRange, 0, len(events))
	for _, e := range events {
		if e.Status == "cancelled" || e.Start.IsZero() || e.End.IsZero() {
			continue
		}
		busy = append(busy, availability.TimeRange{Start: e.Start, End: e.End})
	}
	return busy, nil
}

// FreeBusySource reports a contact's busy time through a free/busy query,
// which works for calendars whose events the principal cannot read.
type FreeBusySource struct {
	Client     *Client
	CalendarID string
}

// Busy implements availability.BusySource.
func (s FreeBusySource) Busy(ctx context.Context, from, to time.Time) ([]availability.TimeRange, error) {
	busy, err := s.Client.QueryFreeBusy(ctx, from, to, s.CalendarID)
	if err != nil {
		return nil, err
	}
	return busy[s.CalendarID], nil
}
