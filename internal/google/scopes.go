package google

import (
	calendar "google.golang.org/api/calendar/v3"
)

// CalendarScopes are the OAuth scopes the calendar adapter needs: reading
// events and free/busy, and creating and updating events.
var CalendarScopes = []string{
	calendar.CalendarScope,
}
