package schedule

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/teemow/optimeet/internal/fuzzy"
	"github.com/teemow/optimeet/internal/timeofday"
)

// ErrConflictingMeeting is returned by Book when the new meeting overlaps an
// existing one.
var ErrConflictingMeeting = errors.New("meeting conflicts with an existing meeting")

// Calendar is the principal's ordered list of meetings.
// It is safe for concurrent use.
type Calendar struct {
	mu       sync.RWMutex
	meetings []*Meeting
}

// NewCalendar returns an empty calendar.
func NewCalendar() *Calendar {
	return &Calendar{}
}

// Book adds m unless it overlaps an existing meeting.
func (c *Calendar) Book(m Meeting) (Meeting, error) {
	if err := m.Validate(); err != nil {
		return Meeting{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, existing := range c.meetings {
		if existing.Overlaps(m) {
			return Meeting{}, fmt.Errorf("%w: %s overlaps %s", ErrConflictingMeeting, m, existing)
		}
	}
	return c.insertLocked(m), nil
}

// Record adds m without checking for overlaps. Placeholder meetings for
// different contacts are allowed to share the same slot.
func (c *Calendar) Record(m Meeting) (Meeting, error) {
	if err := m.Validate(); err != nil {
		return Meeting{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.insertLocked(m), nil
}

func (c *Calendar) insertLocked(m Meeting) Meeting {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	stored := m
	c.meetings = append(c.meetings, &stored)
	return stored
}

// Meeting returns the first meeting on day that starts at start.
func (c *Calendar) Meeting(day timeofday.Day, start timeofday.Minute) (Meeting, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if m := c.findLocked(day, start); m != nil {
		return *m, true
	}
	return Meeting{}, false
}

// SetMeetingNotes overwrites the notes of the meeting on day starting at
// start. It reports whether such a meeting exists.
func (c *Calendar) SetMeetingNotes(day timeofday.Day, start timeofday.Minute, notes string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.findLocked(day, start)
	if m == nil {
		return false
	}
	m.Notes = notes
	return true
}

// SetMeetingAgenda overwrites the agenda of the meeting on day starting at
// start. It reports whether such a meeting exists.
func (c *Calendar) SetMeetingAgenda(day timeofday.Day, start timeofday.Minute, agenda string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.findLocked(day, start)
	if m == nil {
		return false
	}
	m.Agenda = agenda
	return true
}

// SetNotes overwrites the notes of the meeting with the given ID.
func (c *Calendar) SetNotes(id, notes string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.byIDLocked(id)
	if m == nil {
		return false
	}
	m.Notes = notes
	return true
}

// SetAgenda overwrites the agenda of the meeting with the given ID.
func (c *Calendar) SetAgenda(id, agenda string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.byIDLocked(id)
	if m == nil {
		return false
	}
	m.Agenda = agenda
	return true
}

// FindContactMeeting resolves query against the contacts in the calendar and
// returns the latest meeting, by (day, start), with the resolved contact.
// Placeholder meetings are included.
func (c *Calendar) FindContactMeeting(query string) (Meeting, bool) {
	return c.latestWith(query, true)
}

// FindBookedMeeting is like FindContactMeeting but ignores placeholder
// meetings.
func (c *Calendar) FindBookedMeeting(query string) (Meeting, bool) {
	return c.latestWith(query, false)
}

func (c *Calendar) latestWith(query string, includeArtificial bool) (Meeting, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	contact, ok := fuzzy.BestMatch(query, c.contactsLocked(), fuzzy.DefaultCutoff)
	if !ok {
		return Meeting{}, false
	}

	var latest *Meeting
	for _, m := range c.meetings {
		if m.Contact != contact || (m.Artificial && !includeArtificial) {
			continue
		}
		if latest == nil || after(*m, *latest) {
			latest = m
		}
	}
	if latest == nil {
		return Meeting{}, false
	}
	return *latest, true
}

// AddArtificialMeetingNotes records a placeholder meeting on Sunday
// 11:58 PM-11:59 PM that carries notes for contact.
func (c *Calendar) AddArtificialMeetingNotes(contact, notes string) Meeting {
	m, _ := c.Record(Meeting{
		Day:        PlaceholderDay,
		Start:      PlaceholderStart,
		End:        PlaceholderEnd,
		Contact:    contact,
		Notes:      notes,
		Artificial: true,
	})
	return m
}

// Meetings returns a copy of all meetings in insertion order.
func (c *Calendar) Meetings() []Meeting {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Meeting, 0, len(c.meetings))
	for _, m := range c.meetings {
		out = append(out, *m)
	}
	return out
}

// MeetingsOn returns the meetings on day sorted by start time.
func (c *Calendar) MeetingsOn(day timeofday.Day) []Meeting {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Meeting
	for _, m := range c.meetings {
		if m.Day == day {
			out = append(out, *m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// BusyOn returns the spans of the real meetings on day. Placeholder meetings
// never block time.
func (c *Calendar) BusyOn(day timeofday.Day) []Interval {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Interval
	for _, m := range c.meetings {
		if m.Day == day && !m.Artificial {
			out = append(out, m.Interval())
		}
	}
	return out
}

// Contacts returns the distinct contact names in the calendar, sorted.
func (c *Calendar) Contacts() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.contactsLocked()
}

// Len returns the number of meetings.
func (c *Calendar) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.meetings)
}

func (c *Calendar) contactsLocked() []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range c.meetings {
		if !seen[m.Contact] {
			seen[m.Contact] = true
			names = append(names, m.Contact)
		}
	}
	sort.Strings(names)
	return names
}

func (c *Calendar) findLocked(day timeofday.Day, start timeofday.Minute) *Meeting {
	for _, m := range c.meetings {
		if m.Day == day && m.Start == start {
			return m
		}
	}
	return nil
}

func (c *Calendar) byIDLocked(id string) *Meeting {
	for _, m := range c.meetings {
		if m.ID == id {
			return m
		}
	}
	return nil
}
