package gcal

import "strings"

const (
	// AgendaHeader starts the description of events optimeet creates.
	AgendaHeader = "Agenda:"

	// NotesHeader starts the notes section of a description.
	NotesHeader = "Optinotes:"
)

// Spacer separates the agenda from the notes section.
var Spacer = strings.Repeat("#", 35)

// AgendaDescription renders the description of a new event.
func AgendaDescription(agenda string) string {
	return AgendaHeader + "\n" + agenda
}

// AppendNotes adds notes to a description, opening a notes section below the
// spacer when there is none yet.
func AppendNotes(description, notes string) string {
	if strings.Contains(description, NotesHeader) {
		return description + "\n" + notes
	}
	return description + "\n\n" + Spacer + "\n\n" + NotesHeader + "\n" + notes
}

// OverwriteNotes replaces the notes section of a description, keeping
// whatever is above the spacer.
func OverwriteNotes(description, notes string) string {
	head, _, _ := strings.Cut(description, Spacer)
	head = strings.TrimRight(head, "\n")

	section := Spacer + "\n\n" + NotesHeader + "\n" + notes
	if head == "" {
		return section
	}
	return head + "\n\n" + section
}

// ExtractNotes returns the notes section of a description.
func ExtractNotes(description string) (string, bool) {
	_, notes, found := strings.Cut(description, NotesHeader)
	if !found {
		return "", false
	}
	return strings.TrimSpace(notes), true
}

// ExtractAgenda returns the agenda above the spacer, without its header.
func ExtractAgenda(description string) string {
	head, _, _ := strings.Cut(description, Spacer)
	head = strings.TrimSpace(head)
	return strings.TrimSpace(strings.TrimPrefix(head, AgendaHeader))
}
