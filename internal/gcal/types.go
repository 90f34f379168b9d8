package gcal

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

// Event is the part of a calendar event optimeet works with.
type Event struct {
	ID          string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	AllDay      bool
	Status      string
	Attendees   []string
	MeetLink    string
}

// EventInput describes an event to create.
type EventInput struct {
	Summary   string
	Agenda    string
	Start     time.Time
	End       time.Time
	Attendees []string

	// WithMeet requests a Google Meet conference for the event.
	WithMeet bool
}

func toEvent(e *calendar.Event, loc *time.Location) Event {
	if e == nil {
		return Event{}
	}

	out := Event{
		ID:          e.Id,
		Summary:     e.Summary,
		Description: e.Description,
		Status:      e.Status,
	}
	out.Start, out.AllDay = parseEventTime(e.Start, loc)
	out.End, _ = parseEventTime(e.End, loc)

	for _, a := range e.Attendees {
		out.Attendees = append(out.Attendees, a.Email)
	}
	if e.ConferenceData != nil {
		for _, ep := range e.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" {
				out.MeetLink = ep.Uri
				break
			}
		}
	}
	if out.MeetLink == "" {
		out.MeetLink = e.HangoutLink
	}
	return out
}

// parseEventTime reads a timed or all-day event boundary. All-day dates are
// midnight in loc.
func parseEventTime(dt *calendar.EventDateTime, loc *time.Location) (time.Time, bool) {
	if dt == nil {
		return time.Time{}, false
	}
	if dt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, dt.DateTime); err == nil {
			return t.In(loc), false
		}
		return time.Time{}, false
	}
	if dt.Date != "" {
		if t, err := time.ParseInLocation(time.DateOnly, dt.Date, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
