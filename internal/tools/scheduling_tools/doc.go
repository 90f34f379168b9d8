// Package scheduling_tools provides the MCP tools that find free meeting
// slots and book meetings on the principal's calendar.
//
// Slot searches merge the principal's busy time with that of the named
// contacts. find_meeting_slot searches one day; quick_schedule searches the
// days after today. book_meeting records the meeting locally and, when a
// Google Calendar is connected, creates the event with a Meet link.
package scheduling_tools
