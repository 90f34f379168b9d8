// Package schedule holds the principal's in-memory calendar and the
// minute-of-day free-slot engine.
//
// A Meeting occupies [Start, End) minutes on one day of the week. The Calendar
// offers two insertion policies: Book rejects meetings that overlap an
// existing one, Record accepts anything and is used for placeholder meetings
// that only exist to carry notes for a contact.
//
// FreeSlots enumerates every fixed-length slot left free by a set of busy
// intervals inside a working window, in chronological order, so callers can
// ask for "the 3rd free 30 minute slot" with FindFreeSlot.
package schedule
