package gcal

import (
	"context"
	"time"

	"github.com/teemow/optimeet/internal/contacts"
)

// DefaultLookback is how far back RemoteNotes looks for a previous meeting.
const DefaultLookback = 30 * 24 * time.Hour

// RemoteNotes stores notes in the description of the most recent past event
// with a contact.
type RemoteNotes struct {
	Client   *Client
	Lookback time.Duration
	Now      func() time.Time
}

// NewRemoteNotes creates a RemoteNotes with the default lookback.
func NewRemoteNotes(client *Client) *RemoteNotes {
	return &RemoteNotes{Client: client, Lookback: DefaultLookback, Now: time.Now}
}

// PreviousMeeting returns the latest event that started in the lookback
// window and mentions the contact's address.
func (r *RemoteNotes) PreviousMeeting(ctx context.Context, contact contacts.Contact) (*Event, bool, error) {
	address := contact.Address()
	if address == "" {
		return nil, false, nil
	}

	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}
	lookback := r.Lookback
	if lookback <= 0 {
		lookback = DefaultLookback
	}

	events, err := r.Client.ListEvents(ctx, r.Client.CalendarID(), now.Add(-lookback), now, address)
	if err != nil {
		return nil, false, err
	}
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Status != "cancelled" {
			return &events[i], true, nil
		}
	}
	return nil, false, nil
}

// WriteNotes appends to (or overwrites) the notes of the previous meeting
// with contact and returns the resulting notes. ok is false when there is no
// previous meeting.
func (r *RemoteNotes) WriteNotes(ctx context.Context, contact contacts.Contact, text string, overwrite bool) (string, bool, error) {
	event, ok, err := r.PreviousMeeting(ctx, contact)
	if err != nil || !ok {
		return "", false, err
	}

	edit := func(description string) string { return AppendNotes(description, text) }
	if overwrite {
		edit = func(description string) string { return OverwriteNotes(description, text) }
	}

	updated, err := r.Client.UpdateDescription(ctx, event.ID, edit)
	if err != nil {
		return "", false, err
	}
	notes, _ := ExtractNotes(updated.Description)
	return notes, true, nil
}

// ReadNotes returns the notes of the previous meeting with contact. ok is
// false when there is no previous meeting or it has no notes section.
func (r *RemoteNotes) ReadNotes(ctx context.Context, contact contacts.Contact) (string, bool, error) {
	event, ok, err := r.PreviousMeeting(ctx, contact)
	if err != nil || !ok {
		return "", false, err
	}
	notes, ok := ExtractNotes(event.Description)
	return notes, ok, nil
}
