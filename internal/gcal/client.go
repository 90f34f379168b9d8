package gcal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/teemow/optimeet/internal/availability"
	"github.com/teemow/optimeet/internal/google"
	"github.com/teemow/optimeet/internal/instrumentation"
	"github.com/teemow/optimeet/internal/logging"
)

// Recorder receives Calendar API call outcomes.
type Recorder interface {
	RecordCalendarOperation(ctx context.Context, operation, status string, duration time.Duration)
}

// Config configures a Client.
type Config struct {
	// CalendarID is the principal's calendar. Empty means "primary".
	CalendarID string

	// Location is used for query and event time zones. Nil means time.Local.
	Location *time.Location

	Logger   *slog.Logger
	Recorder Recorder
}

// Client is a traced, metered Google Calendar client bound to the
// principal's calendar.
type Client struct {
	svc        *calendar.Service
	calendarID string
	loc        *time.Location
	zone       string
	logger     *slog.Logger
	recorder   Recorder
}

// NewClient creates a Client authenticated through provider.
func NewClient(ctx context.Context, provider google.TokenProvider, config Config) (*Client, error) {
	if provider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	ts, err := provider.TokenSource(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token: %w", err)
	}

	return NewClientWithOptions(ctx, config, option.WithHTTPClient(google.NewHTTPClient(ctx, ts)))
}

// NewClientWithOptions creates a Client from raw API client options.
func NewClientWithOptions(ctx context.Context, config Config, opts ...option.ClientOption) (*Client, error) {
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	c := &Client{
		svc:        svc,
		calendarID: config.CalendarID,
		loc:        config.Location,
		logger:     logging.WithOperation(config.Logger, "gcal"),
		recorder:   config.Recorder,
	}
	if c.calendarID == "" {
		c.calendarID = "primary"
	}
	if c.loc == nil {
		c.loc = time.Local
	}
	c.zone = zoneName(c.loc)
	return c, nil
}

// zoneName is the IANA name sent as timeZone. time.Local is named "Local",
// which the API rejects, so it maps to "" and the calendar's own zone applies.
func zoneName(loc *time.Location) string {
	if loc == time.Local || loc.String() == "Local" {
		return ""
	}
	return loc.String()
}

// CalendarID returns the principal's calendar ID.
func (c *Client) CalendarID() string {
	return c.calendarID
}

// observe runs fn inside a client span and records its outcome.
func (c *Client) observe(ctx context.Context, operation, calendarID string, fn func(context.Context) error) error {
	ctx, span := instrumentation.StartCalendarSpan(ctx, operation,
		attribute.String(instrumentation.SpanAttrCalendar, logging.Hash("calendar", calendarID)))
	defer span.End()

	start := time.Now()
	err := fn(ctx)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
		instrumentation.SetSpanError(span, err)
		c.logger.Warn("calendar call failed", logging.Operation(operation), logging.Calendar(calendarID), logging.Err(err))
	} else {
		instrumentation.SetSpanSuccess(span)
	}
	if c.recorder != nil {
		c.recorder.RecordCalendarOperation(ctx, operation, status, time.Since(start))
	}
	return err
}

// ListEvents returns the single (expanded) events of calendarID that
// intersect [from, to), ordered by start time. A zero to means no upper
// bound. query filters on free text such as an attendee address.
func (c *Client) ListEvents(ctx context.Context, calendarID string, from, to time.Time, query string) ([]Event, error) {
	var events []Event
	err := c.observe(ctx, instrumentation.OperationList, calendarID, func(ctx context.Context) error {
		call := c.svc.Events.List(calendarID).
			TimeMin(from.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime")
		if c.zone != "" {
			call = call.TimeZone(c.zone)
		}
		if !to.IsZero() {
			call = call.TimeMax(to.Format(time.RFC3339))
		}
		if query != "" {
			call = call.Q(query)
		}

		return call.Pages(ctx, func(page *calendar.Events) error {
			for _, item := range page.Items {
				events = append(events, toEvent(item, c.loc))
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// QueryFreeBusy returns the busy ranges of each calendar in [from, to).
// Calendars the API reports errors for are returned as an error.
func (c *Client) QueryFreeBusy(ctx context.Context, from, to time.Time, calendarIDs ...string) (map[string][]availability.TimeRange, error) {
	items := make([]*calendar.FreeBusyRequestItem, len(calendarIDs))
	for i, id := range calendarIDs {
		items[i] = &calendar.FreeBusyRequestItem{Id: id}
	}

	busy := make(map[string][]availability.TimeRange, len(calendarIDs))
	err := c.observe(ctx, instrumentation.OperationFreeBusy, c.calendarID, func(ctx context.Context) error {
		result, err := c.svc.Freebusy.Query(&calendar.FreeBusyRequest{
			TimeMin:  from.Format(time.RFC3339),
			TimeMax:  to.Format(time.RFC3339),
			TimeZone: c.zone,
			Items:    items,
		}).Context(ctx).Do()
		if err != nil {
			return err
		}

		for id, cal := range result.Calendars {
			if len(cal.Errors) > 0 {
				return fmt.Errorf("calendar %s: %s", logging.Hash("calendar", id), cal.Errors[0].Reason)
			}
			for _, b := range cal.Busy {
				start, err := time.Parse(time.RFC3339, b.Start)
				if err != nil {
					return fmt.Errorf("invalid busy start %q: %w", b.Start, err)
				}
				end, err := time.Parse(time.RFC3339, b.End)
				if err != nil {
					return fmt.Errorf("invalid busy end %q: %w", b.End, err)
				}
				busy[id] = append(busy[id], availability.TimeRange{Start: start.In(c.loc), End: end.In(c.loc)})
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query free/busy: %w", err)
	}
	return busy, nil
}

// CreateEvent creates an event on the principal's calendar. The description
// carries the agenda.
func (c *Client) CreateEvent(ctx context.Context, input EventInput) (*Event, error) {
	event := &calendar.Event{
		Summary:     input.Summary,
		Description: AgendaDescription(input.Agenda),
		Start: &calendar.EventDateTime{
			DateTime: input.Start.Format(time.RFC3339),
			TimeZone: c.zone,
		},
		End: &calendar.EventDateTime{
			DateTime: input.End.Format(time.RFC3339),
			TimeZone: c.zone,
		},
	}
	for _, email := range input.Attendees {
		if email != "" {
			event.Attendees = append(event.Attendees, &calendar.EventAttendee{Email: email})
		}
	}

	call := c.svc.Events.Insert(c.calendarID, event)
	if input.WithMeet {
		event.ConferenceData = &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId:             uuid.NewString(),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{Type: "hangoutsMeet"},
			},
		}
		call = call.ConferenceDataVersion(1)
	}

	var created Event
	err := c.observe(ctx, instrumentation.OperationInsert, c.calendarID, func(ctx context.Context) error {
		result, err := call.Context(ctx).Do()
		if err != nil {
			return err
		}
		created = toEvent(result, c.loc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return &created, nil
}

// GetEvent fetches an event from the principal's calendar.
func (c *Client) GetEvent(ctx context.Context, eventID string) (*Event, error) {
	var event Event
	err := c.observe(ctx, instrumentation.OperationGet, c.calendarID, func(ctx context.Context) error {
		result, err := c.svc.Events.Get(c.calendarID, eventID).Context(ctx).Do()
		if err != nil {
			return err
		}
		event = toEvent(result, c.loc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &event, nil
}

// UpdateDescription rewrites the description of an event with edit applied
// to the current description.
func (c *Client) UpdateDescription(ctx context.Context, eventID string, edit func(string) string) (*Event, error) {
	var updated Event
	err := c.observe(ctx, instrumentation.OperationUpdate, c.calendarID, func(ctx context.Context) error {
		existing, err := c.svc.Events.Get(c.calendarID, eventID).Context(ctx).Do()
		if err != nil {
			return err
		}
		existing.Description = edit(existing.Description)

		result, err := c.svc.Events.Update(c.calendarID, eventID, existing).Context(ctx).Do()
		if err != nil {
			return err
		}
		updated = toEvent(result, c.loc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return &updated, nil
}
