package notes_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/optimeet/internal/logging"
	"github.com/teemow/optimeet/internal/notebook"
	"github.com/teemow/optimeet/internal/server"
	"github.com/teemow/optimeet/internal/timeofday"
	"github.com/teemow/optimeet/internal/tools/common"
)

// NotesResult is the result of the notes and agenda tools.
type NotesResult struct {
	Success bool                `json:"success"`
	Found   bool                `json:"found"`
	Updated bool                `json:"updated,omitempty"`
	Contact string              `json:"contact,omitempty"`
	Notes   string              `json:"notes,omitempty"`
	Agenda  string              `json:"agenda,omitempty"`
	Source  notebook.Source     `json:"source,omitempty"`
	Meeting *common.MeetingView `json:"meeting,omitempty"`
}

func newNotesResult(entry notebook.Entry, found bool) NotesResult {
	r := NotesResult{Success: true, Found: found}
	if !found {
		return r
	}
	r.Contact = entry.Contact
	r.Notes = entry.Notes
	r.Agenda = entry.Agenda
	r.Source = entry.Source
	if entry.Meeting != nil {
		view := common.NewMeetingView(*entry.Meeting)
		r.Meeting = &view
	}
	return r
}

// RegisterNotesTools registers the notes tools. The write tools are skipped
// when readOnly is set.
func RegisterNotesTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	getNotesTool := mcp.NewTool("get_notes",
		mcp.WithDescription("Get the notes from the latest meeting with one or more contacts"),
		mcp.WithString("contacts",
			mcp.Required(),
			mcp.Description("Contact name, or a comma-separated list of names"),
		),
	)
	s.AddTool(getNotesTool, common.InstrumentedToolHandler("get_notes", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetNotes(ctx, request, sc)
	}))

	if readOnly {
		return nil
	}

	recordTool := mcp.NewTool("record_notes",
		mcp.WithDescription("Record notes for the latest meeting with a contact. Notes are appended unless overwrite is set."),
		mcp.WithString("contact",
			mcp.Required(),
			mcp.Description("Contact name"),
		),
		mcp.WithString("notes",
			mcp.Required(),
			mcp.Description("Note text"),
		),
		mcp.WithBoolean("overwrite",
			mcp.Description("Replace existing notes instead of appending (default: false)"),
		),
	)
	s.AddTool(recordTool, common.InstrumentedToolHandler("record_notes", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleRecordNotes(ctx, request, sc)
	}))

	agendaTool := mcp.NewTool("set_meeting_agenda",
		mcp.WithDescription("Set the agenda of a meeting, given either a contact or a day and start time"),
		mcp.WithString("agenda",
			mcp.Required(),
			mcp.Description("Agenda text"),
		),
		mcp.WithString("contact",
			mcp.Description("Contact name; the latest booked meeting with them is updated"),
		),
		mcp.WithString("day",
			mcp.Description("Weekday of the meeting (e.g. 'tuesday')"),
		),
		mcp.WithString("start_time",
			mcp.Description("Start time of the meeting (e.g. '09:00 AM')"),
		),
	)
	s.AddTool(agendaTool, common.InstrumentedToolHandler("set_meeting_agenda", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSetMeetingAgenda(ctx, request, sc)
	}))

	meetingNotesTool := mcp.NewTool("set_meeting_notes",
		mcp.WithDescription("Replace the notes of the meeting at a day and start time"),
		mcp.WithString("day",
			mcp.Required(),
			mcp.Description("Weekday of the meeting (e.g. 'tuesday')"),
		),
		mcp.WithString("start_time",
			mcp.Required(),
			mcp.Description("Start time of the meeting (e.g. '09:00 AM')"),
		),
		mcp.WithString("notes",
			mcp.Required(),
			mcp.Description("Note text"),
		),
	)
	s.AddTool(meetingNotesTool, common.InstrumentedToolHandler("set_meeting_notes", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSetMeetingNotes(ctx, request, sc)
	}))

	return nil
}

func handleGetNotes(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	names, err := common.StringListArg(args, "contacts")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(names) == 0 {
		if c := common.StringArg(args, "contact"); c != "" {
			names = []string{c}
		}
	}
	if len(names) == 0 {
		return mcp.NewToolResultError("contacts is required"), nil
	}

	if len(names) == 1 {
		entry, found, err := sc.Notebook().Notes(ctx, names[0])
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get notes: %v", err)), nil
		}
		return common.JSONResult(newNotesResult(entry, found))
	}

	batch := common.ProcessContacts(names, func(name string) (any, error) {
		entry, found, err := sc.Notebook().Notes(ctx, name)
		if err != nil {
			return nil, err
		}
		return newNotesResult(entry, found), nil
	})
	return common.JSONResult(batch)
}

func handleRecordNotes(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	contact := common.ContactFromArgs(args)
	if contact == "" {
		return mcp.NewToolResultError("contact is required"), nil
	}
	text := common.StringArg(args, "notes")
	if text == "" {
		return mcp.NewToolResultError("notes is required"), nil
	}

	entry, err := sc.Notebook().RecordNotes(ctx, contact, text, common.BoolArg(args, "overwrite", false))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to record notes: %v", err)), nil
	}
	if entry.Source != notebook.SourceCalendarEvent {
		persist(sc, "record_notes")
	}

	result := newNotesResult(entry, true)
	result.Updated = true
	return common.JSONResult(result)
}

func handleSetMeetingAgenda(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	agenda := common.StringArg(args, "agenda")
	if agenda == "" {
		return mcp.NewToolResultError("agenda is required"), nil
	}

	if contact := common.StringArg(args, "contact"); contact != "" {
		entry, ok := sc.Notebook().SetAgenda(contact, agenda)
		if ok {
			persist(sc, "set_meeting_agenda")
		}
		result := newNotesResult(entry, ok)
		result.Updated = ok
		return common.JSONResult(result)
	}

	day, start, err := common.DayAndStartArgs(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !sc.Calendar().SetMeetingAgenda(day, start, agenda) {
		return common.JSONResult(NotesResult{Success: true})
	}
	persist(sc, "set_meeting_agenda")
	return meetingResult(sc, day, start)
}

func handleSetMeetingNotes(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	day, start, err := common.DayAndStartArgs(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	notes := common.StringArg(args, "notes")
	if notes == "" {
		return mcp.NewToolResultError("notes is required"), nil
	}

	if !sc.Calendar().SetMeetingNotes(day, start, notes) {
		return common.JSONResult(NotesResult{Success: true})
	}
	persist(sc, "set_meeting_notes")
	return meetingResult(sc, day, start)
}

func meetingResult(sc *server.ServerContext, day timeofday.Day, start timeofday.Minute) (*mcp.CallToolResult, error) {
	m, ok := sc.Calendar().Meeting(day, start)
	if !ok {
		return common.JSONResult(NotesResult{Success: true})
	}
	view := common.NewMeetingView(m)
	return common.JSONResult(NotesResult{
		Success: true,
		Found:   true,
		Updated: true,
		Contact: m.Contact,
		Notes:   m.Notes,
		Agenda:  m.Agenda,
		Source:  notebook.SourceMeeting,
		Meeting: &view,
	})
}

// persist saves the calendar file. The in-memory change stands even when the
// write fails.
func persist(sc *server.ServerContext, tool string) {
	if err := sc.Persist(); err != nil {
		logging.WithTool(sc.Logger(), tool).Warn("calendar change not persisted", logging.Err(err))
	}
}
