// Package notebook records notes and agendas against a contact's meetings.
//
// Notes for a contact go to the first of these that exists:
//
//  1. the previous calendar event with the contact, when a RemoteNotes sink
//     is configured and the contact is in the directory;
//  2. the latest booked meeting with the contact in the local calendar;
//  3. the notes store, mirrored onto a placeholder meeting so the contact's
//     notes surface through the calendar like any other meeting.
package notebook

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/teemow/optimeet/internal/contacts"
	"github.com/teemow/optimeet/internal/logging"
	"github.com/teemow/optimeet/internal/schedule"
)

// Source says where an entry's notes live.
type Source string

const (
	SourceCalendarEvent Source = "calendar_event"
	SourceMeeting       Source = "meeting"
	SourcePlaceholder   Source = "placeholder"
)

// Entry is the notes state of one contact after a read or write.
type Entry struct {
	Contact string            `json:"contact"`
	Notes   string            `json:"notes"`
	Agenda  string            `json:"agenda,omitempty"`
	Source  Source            `json:"source"`
	Meeting *schedule.Meeting `json:"-"`
}

// RemoteNotes keeps notes outside the process, typically in the description
// of the previous calendar event with a contact. ok is false when the sink
// has nowhere to put notes for the contact.
type RemoteNotes interface {
	WriteNotes(ctx context.Context, contact contacts.Contact, text string, overwrite bool) (notes string, ok bool, err error)
	ReadNotes(ctx context.Context, contact contacts.Contact) (notes string, ok bool, err error)
}

// Config configures a Service.
type Config struct {
	Calendar  *schedule.Calendar
	Directory *contacts.Directory
	Notes     *contacts.Notes
	Remote    RemoteNotes
	Logger    *slog.Logger
}

// Service is the notes entry point. It is safe for concurrent use.
type Service struct {
	calendar  *schedule.Calendar
	directory *contacts.Directory
	notes     *contacts.Notes
	remote    RemoteNotes
	logger    *slog.Logger

	// mu makes the store-then-mirror sequence atomic.
	mu sync.Mutex
}

// New creates a Service. A calendar is required; a nil notes store is
// replaced by an empty one.
func New(config Config) (*Service, error) {
	if config.Calendar == nil {
		return nil, fmt.Errorf("calendar is required")
	}
	s := &Service{
		calendar:  config.Calendar,
		directory: config.Directory,
		notes:     config.Notes,
		remote:    config.Remote,
		logger:    logging.WithOperation(config.Logger, "notebook"),
	}
	if s.notes == nil {
		s.notes = contacts.NewNotes()
	}
	return s, nil
}

// resolve maps a free-text contact query to a directory contact. When the
// directory has no match the trimmed query is used as the contact name.
func (s *Service) resolve(query string) (contacts.Contact, bool) {
	query = strings.TrimSpace(query)
	if s.directory != nil {
		if c, ok := s.directory.Match(query); ok {
			return c, true
		}
	}
	return contacts.Contact{Name: query}, false
}

// RecordNotes stores text as notes for the contact matching query,
// appending to existing notes unless overwrite is set.
func (s *Service) RecordNotes(ctx context.Context, query, text string, overwrite bool) (Entry, error) {
	contact, known := s.resolve(query)
	if contact.Name == "" {
		return Entry{}, fmt.Errorf("contact is required")
	}
	logger := s.logger.With(logging.Contact(contact.Name))

	if s.remote != nil && known {
		notes, ok, err := s.remote.WriteNotes(ctx, contact, text, overwrite)
		if err != nil {
			logger.Warn("remote notes write failed", logging.Err(err))
			return Entry{}, fmt.Errorf("failed to write notes for %s: %w", contact.Name, err)
		}
		if ok {
			logger.Debug("notes written to calendar event")
			return Entry{Contact: contact.Name, Notes: notes, Source: SourceCalendarEvent}, nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := s.calendar.FindBookedMeeting(contact.Name); ok {
		m.Notes = combine(m.Notes, text, overwrite)
		s.calendar.SetNotes(m.ID, m.Notes)
		logger.Debug("notes written to booked meeting", logging.Slot(m))
		return Entry{Contact: m.Contact, Notes: m.Notes, Agenda: m.Agenda, Source: SourceMeeting, Meeting: &m}, nil
	}

	stored := s.notes.Store(contact.Name, text, overwrite)
	m, ok := s.calendar.FindContactMeeting(contact.Name)
	if ok && m.Artificial && m.Contact == contact.Name {
		s.calendar.SetNotes(m.ID, stored)
		m.Notes = stored
	} else {
		m = s.calendar.AddArtificialMeetingNotes(contact.Name, stored)
	}
	logger.Debug("notes written to placeholder meeting")
	return Entry{Contact: contact.Name, Notes: stored, Source: SourcePlaceholder, Meeting: &m}, nil
}

// Notes returns the notes for the contact matching query using the same
// precedence as RecordNotes.
func (s *Service) Notes(ctx context.Context, query string) (Entry, bool, error) {
	contact, known := s.resolve(query)
	if contact.Name == "" {
		return Entry{}, false, nil
	}

	if s.remote != nil && known {
		notes, ok, err := s.remote.ReadNotes(ctx, contact)
		if err != nil {
			s.logger.Warn("remote notes read failed", logging.Contact(contact.Name), logging.Err(err))
			return Entry{}, false, fmt.Errorf("failed to read notes for %s: %w", contact.Name, err)
		}
		if ok {
			return Entry{Contact: contact.Name, Notes: notes, Source: SourceCalendarEvent}, true, nil
		}
	}

	if m, ok := s.calendar.FindBookedMeeting(contact.Name); ok {
		return Entry{Contact: m.Contact, Notes: m.Notes, Agenda: m.Agenda, Source: SourceMeeting, Meeting: &m}, true, nil
	}
	if notes, ok := s.notes.Get(contact.Name); ok {
		return Entry{Contact: contact.Name, Notes: notes, Source: SourcePlaceholder}, true, nil
	}
	return Entry{}, false, nil
}

// SetAgenda sets the agenda of the latest booked meeting with the contact
// matching query. ok is false when there is no such meeting.
func (s *Service) SetAgenda(query, agenda string) (Entry, bool) {
	contact, _ := s.resolve(query)

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.calendar.FindBookedMeeting(contact.Name)
	if !ok || !s.calendar.SetAgenda(m.ID, agenda) {
		return Entry{}, false
	}
	m.Agenda = agenda
	return Entry{Contact: m.Contact, Notes: m.Notes, Agenda: m.Agenda, Source: SourceMeeting, Meeting: &m}, true
}

func combine(existing, text string, overwrite bool) string {
	if overwrite || existing == "" {
		return text
	}
	return existing + contacts.NoteSeparator + text
}
