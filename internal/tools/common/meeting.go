package common

import "github.com/teemow/optimeet/internal/schedule"

// MeetingView is the JSON shape of a meeting in tool results.
type MeetingView struct {
	ID          string `json:"id"`
	Day         string `json:"day"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Contact     string `json:"contact"`
	Notes       string `json:"notes,omitempty"`
	Agenda      string `json:"agenda,omitempty"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

// NewMeetingView converts a meeting for output.
func NewMeetingView(m schedule.Meeting) MeetingView {
	return MeetingView{
		ID:          m.ID,
		Day:         m.Day.String(),
		StartTime:   m.Start.String(),
		EndTime:     m.End.String(),
		Contact:     m.Contact,
		Notes:       m.Notes,
		Agenda:      m.Agenda,
		Placeholder: m.Artificial,
	}
}
