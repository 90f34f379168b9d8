// Package contacts holds the people the principal schedules with and the
// free-text notes kept about them when no meeting exists to carry the notes.
//
// Names given by users are resolved approximately: "Mrcs" finds "Marcos".
// Unresolvable names fall back to the principal so that a lookup always
// produces a calendar to query.
package contacts
