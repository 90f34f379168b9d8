package scheduling_tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/optimeet/internal/availability"
	"github.com/teemow/optimeet/internal/server"
	"github.com/teemow/optimeet/internal/timeofday"
	"github.com/teemow/optimeet/internal/tools/common"
)

// SlotResult is the result of a slot search.
type SlotResult struct {
	Success     bool     `json:"success"`
	Found       bool     `json:"found"`
	Mode        string   `json:"mode"`
	Contacts    []string `json:"contacts,omitempty"`
	Day         string   `json:"day,omitempty"`
	Start       string   `json:"start,omitempty"`
	End         string   `json:"end,omitempty"`
	StartTime   string   `json:"start_time,omitempty"`
	EndTime     string   `json:"end_time,omitempty"`
	Description string   `json:"description,omitempty"`
	Message     string   `json:"message,omitempty"`
}

func newSlotResult(mode string, contacts []string, slot availability.TimeRange, found bool) SlotResult {
	r := SlotResult{Success: true, Found: found, Mode: mode, Contacts: contacts}
	if !found {
		r.Message = "No slot available"
		return r
	}
	r.Day = timeofday.DayOf(slot.Start.Weekday()).String()
	r.Start = slot.Start.Format(time.RFC3339)
	r.End = slot.End.Format(time.RFC3339)
	r.StartTime = timeofday.MinuteOf(slot.Start).String()
	r.EndTime = timeofday.MinuteOf(slot.End).String()
	r.Description = availability.Describe(slot)
	return r
}

var searchParams = []mcp.ToolOption{
	mcp.WithString("contacts",
		mcp.Description("Comma-separated contact names to meet with. Names are matched approximately against the contact directory."),
	),
	mcp.WithNumber("duration",
		mcp.Description("Meeting length in minutes (default: 60)"),
	),
	mcp.WithNumber("order",
		mcp.Description("Which free slot to return, 1 for the first (default: 1)"),
	),
	mcp.WithNumber("earliest_hour",
		mcp.Description("Earliest hour a meeting may start, 0-23 (default: 9)"),
	),
	mcp.WithNumber("latest_hour",
		mcp.Description("Hour by which the meeting must end, 1-24 (default: 17)"),
	),
}

func registerSlotTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	findOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Find a free meeting slot on one day for the user and the given contacts"),
		mcp.WithString("day",
			mcp.Description("Weekday name (e.g. 'tuesday'); resolves to that day of the current week"),
		),
		mcp.WithString("date",
			mcp.Description("Date in YYYY-MM-DD format; takes precedence over day"),
		),
	}, searchParams...)
	s.AddTool(mcp.NewTool("find_meeting_slot", findOpts...),
		common.InstrumentedToolHandler("find_meeting_slot", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleFindMeetingSlot(ctx, request, sc)
		}))

	quickOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Find the soonest free meeting slot in the next 8 days, starting tomorrow"),
	}, searchParams...)
	s.AddTool(mcp.NewTool("quick_schedule", quickOpts...),
		common.InstrumentedToolHandler("quick_schedule", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleQuickSchedule(ctx, request, sc)
		}))

	return nil
}

func handleFindMeetingSlot(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	req, err := requestFromArgs(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	day, date, ok, err := dayFromArgs(args, sc.Location())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		return mcp.NewToolResultError("day or date is required"), nil
	}

	slot, found, err := sc.Finder().FindOnDay(ctx, availability.DayRequest{Request: req, Day: day, Date: date})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to find a meeting slot: %v", err)), nil
	}
	return common.JSONResult(newSlotResult(availability.ModeDay, req.Contacts, slot, found))
}

func handleQuickSchedule(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	req, err := requestFromArgs(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	slot, found, err := sc.Finder().FindSoonest(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to find a meeting slot: %v", err)), nil
	}
	return common.JSONResult(newSlotResult(availability.ModeSoonest, req.Contacts, slot, found))
}
