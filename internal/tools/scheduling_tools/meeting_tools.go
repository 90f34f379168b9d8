package scheduling_tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/optimeet/internal/availability"
	"github.com/teemow/optimeet/internal/gcal"
	"github.com/teemow/optimeet/internal/logging"
	"github.com/teemow/optimeet/internal/schedule"
	"github.com/teemow/optimeet/internal/server"
	"github.com/teemow/optimeet/internal/timeofday"
	"github.com/teemow/optimeet/internal/tools/common"
)

// BookingResult is the result of book_meeting.
type BookingResult struct {
	Success  bool               `json:"success"`
	Meeting  common.MeetingView `json:"meeting"`
	Start    string             `json:"start"`
	End      string             `json:"end"`
	EventID  string             `json:"event_id,omitempty"`
	MeetLink string             `json:"meet_link,omitempty"`
}

// MeetingResult is the result of get_meeting.
type MeetingResult struct {
	Success bool                `json:"success"`
	Found   bool                `json:"found"`
	Meeting *common.MeetingView `json:"meeting,omitempty"`
}

// MeetingListResult is the result of list_meetings.
type MeetingListResult struct {
	Success  bool                 `json:"success"`
	Count    int                  `json:"count"`
	Meetings []common.MeetingView `json:"meetings"`
}

func registerMeetingTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listTool := mcp.NewTool("list_meetings",
		mcp.WithDescription("List the meetings on the user's calendar"),
		mcp.WithString("day",
			mcp.Description("Only list meetings on this weekday (e.g. 'monday')"),
		),
		mcp.WithBoolean("includePlaceholders",
			mcp.Description("Include placeholder meetings that only carry notes (default: false)"),
		),
	)
	s.AddTool(listTool, common.InstrumentedToolHandler("list_meetings", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListMeetings(ctx, request, sc)
	}))

	getTool := mcp.NewTool("get_meeting",
		mcp.WithDescription("Get a meeting by its day and start time, or the latest meeting with a contact"),
		mcp.WithString("day",
			mcp.Description("Weekday of the meeting (e.g. 'tuesday')"),
		),
		mcp.WithString("start_time",
			mcp.Description("Start time of the meeting (e.g. '09:00 AM')"),
		),
		mcp.WithString("contact",
			mcp.Description("Contact name; used when day and start_time are not given"),
		),
	)
	s.AddTool(getTool, common.InstrumentedToolHandler("get_meeting", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetMeeting(ctx, request, sc)
	}))

	if !readOnly {
		bookTool := mcp.NewTool("book_meeting",
			mcp.WithDescription("Book a meeting with one or more contacts. Fails if it overlaps an existing meeting."),
			mcp.WithString("contacts",
				mcp.Required(),
				mcp.Description("Comma-separated contact names"),
			),
			mcp.WithString("start",
				mcp.Description("Start time in RFC3339 format (e.g. a start returned by find_meeting_slot)"),
			),
			mcp.WithString("day",
				mcp.Description("Weekday of the current week; used with start_time when start is not given"),
			),
			mcp.WithString("start_time",
				mcp.Description("Start time such as '09:00 AM'; used with day"),
			),
			mcp.WithNumber("duration",
				mcp.Description("Meeting length in minutes (default: 60)"),
			),
			mcp.WithString("title",
				mcp.Description("Event title (default: 'Meeting with <contacts>')"),
			),
			mcp.WithString("agenda",
				mcp.Description("Meeting agenda"),
			),
			mcp.WithBoolean("addGoogleMeet",
				mcp.Description("Add a Google Meet link when Google Calendar is connected (default: true)"),
			),
		)
		s.AddTool(bookTool, common.InstrumentedToolHandler("book_meeting", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleBookMeeting(ctx, request, sc)
		}))
	}

	return nil
}

func handleListMeetings(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	var meetings []schedule.Meeting
	if dayText := common.StringArg(args, "day"); dayText != "" {
		day, err := timeofday.ParseDay(dayText)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		meetings = sc.Calendar().MeetingsOn(day)
	} else {
		meetings = sc.Calendar().Meetings()
	}

	includePlaceholders := common.BoolArg(args, "includePlaceholders", false)
	result := MeetingListResult{Success: true, Meetings: []common.MeetingView{}}
	for _, m := range meetings {
		if m.Artificial && !includePlaceholders {
			continue
		}
		result.Meetings = append(result.Meetings, common.NewMeetingView(m))
	}
	result.Count = len(result.Meetings)
	return common.JSONResult(result)
}

func handleGetMeeting(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	var m schedule.Meeting
	var found bool
	if contact := common.StringArg(args, "contact"); contact != "" && common.StringArg(args, "day") == "" {
		m, found = sc.Calendar().FindContactMeeting(contact)
	} else {
		day, start, err := common.DayAndStartArgs(args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		m, found = sc.Calendar().Meeting(day, start)
	}

	result := MeetingResult{Success: true, Found: found}
	if found {
		view := common.NewMeetingView(m)
		result.Meeting = &view
	}
	return common.JSONResult(result)
}

func handleBookMeeting(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	logger := logging.WithTool(sc.Logger(), "book_meeting")

	queries, err := common.StringListArg(args, "contacts")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(queries) == 0 {
		return mcp.NewToolResultError("contacts is required"), nil
	}

	minutes, err := common.IntArg(args, "duration", int(availability.DefaultDuration/time.Minute))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if minutes <= 0 {
		return mcp.NewToolResultError("duration must be positive"), nil
	}

	start, err := bookingStart(args, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	end := start.Add(time.Duration(minutes) * time.Minute)
	if !sameDay(start, end) && timeofday.MinuteOf(end) != 0 {
		return mcp.NewToolResultError("meeting must end on the day it starts"), nil
	}

	var names, attendees []string
	for _, q := range queries {
		if c, ok := sc.Directory().Match(q); ok {
			names = append(names, c.Name)
			attendees = append(attendees, c.Address())
		} else {
			names = append(names, q)
		}
	}

	agenda := common.StringArg(args, "agenda")
	endMinute := timeofday.MinuteOf(end)
	if endMinute == 0 {
		endMinute = timeofday.LastMinute
	}
	booked, err := sc.Calendar().Book(schedule.Meeting{
		Day:     timeofday.DayOf(start.Weekday()),
		Start:   timeofday.MinuteOf(start),
		End:     endMinute,
		Contact: contactLabel(names),
		Agenda:  agenda,
	})
	if err != nil {
		if errors.Is(err, schedule.ErrConflictingMeeting) {
			return mcp.NewToolResultError(fmt.Sprintf("Cannot book meeting: %v", err)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Invalid meeting: %v", err)), nil
	}
	if err := sc.Persist(); err != nil {
		logger.Warn("meeting booked but not persisted", logging.Err(err))
	}

	result := BookingResult{
		Success: true,
		Meeting: common.NewMeetingView(booked),
		Start:   start.Format(time.RFC3339),
		End:     end.Format(time.RFC3339),
	}

	if client := sc.Google(); client != nil {
		title := common.StringArg(args, "title")
		if title == "" {
			title = "Meeting with " + contactLabel(names)
		}
		event, err := client.CreateEvent(ctx, gcal.EventInput{
			Summary:   title,
			Agenda:    agenda,
			Start:     start,
			End:       end,
			Attendees: attendees,
			WithMeet:  common.BoolArg(args, "addGoogleMeet", true),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Meeting %s was booked locally but the Google Calendar event could not be created: %v", booked, err)), nil
		}
		result.EventID = event.ID
		result.MeetLink = event.MeetLink
	}

	logger.Info("meeting booked", logging.Slot(booked), logging.Contact(booked.Contact))
	return common.JSONResult(result)
}

// bookingStart reads the meeting start from "start" or from "day" and
// "start_time".
func bookingStart(args map[string]any, sc *server.ServerContext) (time.Time, error) {
	if s := common.StringArg(args, "start"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("start must be RFC3339: %w", err)
		}
		return t.In(sc.Location()), nil
	}

	day, minute, err := common.DayAndStartArgs(args)
	if err != nil {
		return time.Time{}, fmt.Errorf("start, or day and start_time, is required")
	}
	date := sc.Finder().DateFor(day)
	return date.Add(time.Duration(minute) * time.Minute), nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
