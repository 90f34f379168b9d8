// Package availability finds meeting slots that are free for the principal
// and a set of contacts at once.
//
// Busy time comes from BusySource implementations: the local calendar
// (CalendarSource), or Google Calendar event lists and free/busy queries
// (see package gcal). A Finder collects busy ranges from all sources,
// converts them to per-day minute intervals and runs the slot engine of
// package schedule over each day.
//
// Two search modes exist:
//
//   - FindOnDay searches a single date, named either by weekday in the
//     current Monday-based week or by calendar date.
//   - FindSoonest searches from tomorrow 00:00 over the next eight days and
//     returns the first free slot.
package availability
