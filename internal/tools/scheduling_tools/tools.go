package scheduling_tools

import (
	"fmt"
	"strings"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/optimeet/internal/availability"
	"github.com/teemow/optimeet/internal/server"
	"github.com/teemow/optimeet/internal/timeofday"
	"github.com/teemow/optimeet/internal/tools/common"
)

// RegisterSchedulingTools registers the slot and meeting tools. book_meeting
// is only registered when readOnly is false.
func RegisterSchedulingTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if err := registerSlotTools(s, sc); err != nil {
		return fmt.Errorf("failed to register slot tools: %w", err)
	}
	if err := registerMeetingTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register meeting tools: %w", err)
	}
	return nil
}

// requestFromArgs reads the search parameters shared by the slot tools.
// Range checks are left to the finder.
func requestFromArgs(args map[string]any) (availability.Request, error) {
	var req availability.Request
	var err error

	if req.Contacts, err = common.StringListArg(args, "contacts"); err != nil {
		return req, err
	}

	minutes, err := common.IntArg(args, "duration", int(availability.DefaultDuration/time.Minute))
	if err != nil {
		return req, err
	}
	req.Duration = time.Duration(minutes) * time.Minute

	if req.Order, err = common.IntArg(args, "order", 1); err != nil {
		return req, err
	}
	if req.EarliestHour, err = common.IntArg(args, "earliest_hour", availability.DefaultEarliestHour); err != nil {
		return req, err
	}
	if req.EarliestHour == 0 {
		req.EarliestHour = availability.Midnight
	}
	if req.LatestHour, err = common.IntArg(args, "latest_hour", availability.DefaultLatestHour); err != nil {
		return req, err
	}
	return req, nil
}

// dayFromArgs reads the "day" and "date" arguments. ok is false when
// neither is set.
func dayFromArgs(args map[string]any, loc *time.Location) (day timeofday.Day, date time.Time, ok bool, err error) {
	if s := common.StringArg(args, "day"); s != "" {
		if day, err = timeofday.ParseDay(s); err != nil {
			return 0, time.Time{}, false, err
		}
		ok = true
	}
	if s := common.StringArg(args, "date"); s != "" {
		if date, err = time.ParseInLocation(time.DateOnly, s, loc); err != nil {
			return 0, time.Time{}, false, fmt.Errorf("date must be YYYY-MM-DD: %w", err)
		}
		ok = true
	}
	return day, date, ok, nil
}

// contactLabel names the meeting counterpart in the local calendar.
func contactLabel(names []string) string {
	return strings.Join(names, ", ")
}
