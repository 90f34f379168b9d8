package contacts

import "sync"

// NoteSeparator joins appended notes.
const NoteSeparator = ". "

// Notes is a per-contact text store. It is safe for concurrent use.
type Notes struct {
	mu    sync.Mutex
	notes map[string]string
}

// NewNotes returns an empty store.
func NewNotes() *Notes {
	return &Notes{notes: make(map[string]string)}
}

// Store saves text for contact and returns the resulting notes. With
// overwrite, or when nothing is stored yet, text replaces the notes;
// otherwise it is appended after NoteSeparator.
func (n *Notes) Store(contact, text string, overwrite bool) string {
	n.mu.Lock()
	defer n.mu.Unlock()

	current, exists := n.notes[contact]
	if overwrite || !exists || current == "" {
		current = text
	} else {
		current += NoteSeparator + text
	}
	n.notes[contact] = current
	return current
}

// Get returns the notes for contact.
func (n *Notes) Get(contact string) (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	text, ok := n.notes[contact]
	return text, ok
}

// Len returns the number of contacts with notes.
func (n *Notes) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.notes)
}
