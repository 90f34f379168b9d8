// Package gcal connects optimeet to Google Calendar.
//
// Client wraps the Calendar v3 API with tracing and metrics. On top of it:
//
//   - EventsSource and FreeBusySource report busy time for the slot finder:
//     the principal's calendar through its event list, contacts' calendars
//     through free/busy queries.
//   - RemoteNotes keeps meeting notes in the description of the most recent
//     event with a contact, below an agenda and a "#" spacer line:
//
//	Agenda:
//	quarterly numbers
//
//	###################################
//
//	Optinotes:
//	send the deck
package gcal
