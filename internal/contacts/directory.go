package contacts

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/teemow/optimeet/internal/fuzzy"
)

// ErrInvalidDirectory is returned for directory files without a principal or
// with duplicate names.
var ErrInvalidDirectory = errors.New("invalid contact directory")

// Contact is a person with a calendar.
type Contact struct {
	Name       string `json:"name"`
	CalendarID string `json:"calendar_id"`
	Email      string `json:"email,omitempty"`
}

// Address returns the e-mail address of c, falling back to its calendar ID,
// which for Google calendars is the primary address.
func (c Contact) Address() string {
	if c.Email != "" {
		return c.Email
	}
	return c.CalendarID
}

// Directory maps contact names to calendars. It is immutable after creation
// and safe for concurrent use.
type Directory struct {
	principal Contact
	byName    map[string]Contact
	names     []string
}

// NewDirectory creates a directory for principal and others. Later contacts
// with an existing name replace earlier ones.
func NewDirectory(principal Contact, others ...Contact) *Directory {
	d := &Directory{principal: principal, byName: make(map[string]Contact, len(others))}
	for _, c := range others {
		if _, exists := d.byName[c.Name]; !exists {
			d.names = append(d.names, c.Name)
		}
		d.byName[c.Name] = c
	}
	sort.Strings(d.names)
	return d
}

// Principal returns the owner of the directory.
func (d *Directory) Principal() Contact {
	return d.principal
}

// Lookup returns the contact with exactly the given name.
func (d *Directory) Lookup(name string) (Contact, bool) {
	c, ok := d.byName[name]
	return c, ok
}

// Resolve returns the contact whose name best matches query, or the
// principal when no name is similar enough.
func (d *Directory) Resolve(query string) Contact {
	if c, ok := d.Match(query); ok {
		return c
	}
	return d.principal
}

// Match is like Resolve but reports whether a contact matched instead of
// falling back to the principal.
func (d *Directory) Match(query string) (Contact, bool) {
	name, ok := fuzzy.BestMatch(strings.TrimSpace(query), d.names, fuzzy.DefaultCutoff)
	if !ok {
		return Contact{}, false
	}
	return d.byName[name], true
}

// Names returns the contact names in sorted order.
func (d *Directory) Names() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Contacts returns all contacts sorted by name. The principal is not
// included.
func (d *Directory) Contacts() []Contact {
	out := make([]Contact, 0, len(d.names))
	for _, name := range d.names {
		out = append(out, d.byName[name])
	}
	return out
}

type directoryFile struct {
	Principal Contact   `json:"principal"`
	Contacts  []Contact `json:"contacts"`
}

// LoadDirectory reads a JSON directory file of the form
//
//	{"principal": {"name": "Me", "calendar_id": "primary"},
//	 "contacts": [{"name": "Marcos", "calendar_id": "marcos@example.com"}]}
func LoadDirectory(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read contacts file: %w", err)
	}
	return ParseDirectory(data)
}

// ParseDirectory parses the JSON form read by LoadDirectory.
func ParseDirectory(data []byte) (*Directory, error) {
	var file directoryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse contacts file: %w", err)
	}

	if file.Principal.CalendarID == "" {
		return nil, fmt.Errorf("%w: principal needs a calendar_id", ErrInvalidDirectory)
	}
	if file.Principal.Name == "" {
		file.Principal.Name = "me"
	}

	seen := make(map[string]bool, len(file.Contacts))
	for i, c := range file.Contacts {
		if c.Name == "" || c.CalendarID == "" {
			return nil, fmt.Errorf("%w: contact %d needs name and calendar_id", ErrInvalidDirectory, i)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("%w: duplicate contact %q", ErrInvalidDirectory, c.Name)
		}
		seen[c.Name] = true
	}
	return NewDirectory(file.Principal, file.Contacts...), nil
}
