package notes_tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/optimeet/internal/contacts"
	"github.com/teemow/optimeet/internal/notebook"
	"github.com/teemow/optimeet/internal/schedule"
	"github.com/teemow/optimeet/internal/server"
	"github.com/teemow/optimeet/internal/timeofday"
	"github.com/teemow/optimeet/internal/tools/common"
)

func setup(t *testing.T, cal *schedule.Calendar, readOnly bool) (*mcpserver.MCPServer, *server.ServerContext) {
	t.Helper()
	if cal == nil {
		cal = schedule.NewCalendar()
	}
	dir := contacts.NewDirectory(contacts.Contact{Name: "me"},
		contacts.Contact{Name: "Marcos"}, contacts.Contact{Name: "Huy"})
	sc, err := server.NewServerContext(context.Background(), server.Config{
		Calendar:     cal,
		CalendarFile: filepath.Join(t.TempDir(), "calendar.txt"),
		Directory:    dir,
		Location:     time.UTC,
		Now:          func() time.Time { return time.Date(2024, time.March, 6, 10, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	s := mcpserver.NewMCPServer("test", "1.0.0", mcpserver.WithToolCapabilities(false))
	require.NoError(t, RegisterNotesTools(s, sc, readOnly))
	return s, sc
}

func call(t *testing.T, s *mcpserver.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool, ok := s.ListTools()[name]
	require.True(t, ok, "tool %s not registered", name)

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	result, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	return result
}

func text(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	c, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return c.Text
}

func decode[T any](t *testing.T, result *mcp.CallToolResult) T {
	t.Helper()
	require.False(t, result.IsError, text(t, result))
	var v T
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &v))
	return v
}

func TestRegisterNotesTools_ReadOnly(t *testing.T) {
	s, _ := setup(t, nil, true)
	tools := s.ListTools()
	assert.Len(t, tools, 1)
	assert.Contains(t, tools, "get_notes")
}

func TestRecordAndGetNotes_Placeholder(t *testing.T) {
	s, sc := setup(t, nil, false)

	r := decode[NotesResult](t, call(t, s, "record_notes", map[string]any{"contact": "marcos", "notes": "likes tea"}))
	assert.True(t, r.Updated)
	assert.Equal(t, "Marcos", r.Contact)
	assert.Equal(t, notebook.SourcePlaceholder, r.Source)
	require.NotNil(t, r.Meeting)
	assert.True(t, r.Meeting.Placeholder)

	decode[NotesResult](t, call(t, s, "record_notes", map[string]any{"contact": "Marcos", "notes": "has a dog"}))

	got := decode[NotesResult](t, call(t, s, "get_notes", map[string]any{"contacts": "Marcos"}))
	assert.True(t, got.Found)
	assert.Equal(t, "likes tea. has a dog", got.Notes)

	decode[NotesResult](t, call(t, s, "record_notes", map[string]any{"contact": "Marcos", "notes": "fresh", "overwrite": true}))
	got = decode[NotesResult](t, call(t, s, "get_notes", map[string]any{"contacts": "Marcos"}))
	assert.Equal(t, "fresh", got.Notes)

	assert.Equal(t, 1, sc.Calendar().Len())
}

func TestRecordNotes_PersistsCalendar(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "calendar.txt")
	cal := schedule.NewCalendar()
	_, err := cal.Book(schedule.Meeting{Day: timeofday.Tuesday, Start: timeofday.Clock(9, 0), End: timeofday.Clock(10, 0), Contact: "Huy"})
	require.NoError(t, err)

	sc, err := server.NewServerContext(context.Background(), server.Config{
		Calendar:     cal,
		CalendarFile: path,
		Directory:    contacts.NewDirectory(contacts.Contact{Name: "me"}, contacts.Contact{Name: "Huy"}),
		Location:     time.UTC,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	s := mcpserver.NewMCPServer("test", "1.0.0")
	require.NoError(t, RegisterNotesTools(s, sc, false))

	r := decode[NotesResult](t, call(t, s, "record_notes", map[string]any{"contact": "huy", "notes": "ship it"}))
	assert.Equal(t, notebook.SourceMeeting, r.Source)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ship it")
}

func TestRecordNotes_Validation(t *testing.T) {
	s, _ := setup(t, nil, false)

	result := call(t, s, "record_notes", map[string]any{"notes": "x"})
	assert.True(t, result.IsError)

	result = call(t, s, "record_notes", map[string]any{"contact": "Marcos"})
	assert.True(t, result.IsError)
}

func TestGetNotes(t *testing.T) {
	s, _ := setup(t, nil, false)
	decode[NotesResult](t, call(t, s, "record_notes", map[string]any{"contact": "Huy", "notes": "vegetarian"}))

	t.Run("not found", func(t *testing.T) {
		r := decode[NotesResult](t, call(t, s, "get_notes", map[string]any{"contacts": "Marcos"}))
		assert.True(t, r.Success)
		assert.False(t, r.Found)
	})

	t.Run("batch", func(t *testing.T) {
		br := decode[common.BatchResult](t, call(t, s, "get_notes", map[string]any{"contacts": []any{"Huy", "Marcos"}}))
		assert.True(t, br.Success)
		assert.Equal(t, 2, br.Total)
		require.Len(t, br.Results, 2)
		first, ok := br.Results[0].Result.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "vegetarian", first["notes"])
	})

	t.Run("missing contacts", func(t *testing.T) {
		assert.True(t, call(t, s, "get_notes", map[string]any{}).IsError)
	})
}

func TestSetMeetingAgenda(t *testing.T) {
	cal := schedule.NewCalendar()
	_, err := cal.Book(schedule.Meeting{Day: timeofday.Monday, Start: timeofday.Clock(9, 0), End: timeofday.Clock(10, 0), Contact: "Marcos"})
	require.NoError(t, err)
	s, sc := setup(t, cal, false)

	r := decode[NotesResult](t, call(t, s, "set_meeting_agenda", map[string]any{"contact": "marcos", "agenda": "budget"}))
	assert.True(t, r.Updated)
	assert.Equal(t, "budget", r.Agenda)

	r = decode[NotesResult](t, call(t, s, "set_meeting_agenda", map[string]any{"day": "monday", "start_time": "09:00 AM", "agenda": "hiring"}))
	assert.True(t, r.Found)
	assert.Equal(t, "hiring", r.Agenda)

	m, ok := sc.Calendar().Meeting(timeofday.Monday, timeofday.Clock(9, 0))
	require.True(t, ok)
	assert.Equal(t, "hiring", m.Agenda)

	r = decode[NotesResult](t, call(t, s, "set_meeting_agenda", map[string]any{"contact": "Huy", "agenda": "x"}))
	assert.False(t, r.Updated)
	assert.False(t, r.Found)

	r = decode[NotesResult](t, call(t, s, "set_meeting_agenda", map[string]any{"day": "friday", "start_time": "09:00 AM", "agenda": "x"}))
	assert.False(t, r.Found)

	assert.True(t, call(t, s, "set_meeting_agenda", map[string]any{"agenda": "x"}).IsError)
	assert.True(t, call(t, s, "set_meeting_agenda", map[string]any{"contact": "Marcos"}).IsError)
}

func TestSetMeetingNotes(t *testing.T) {
	cal := schedule.NewCalendar()
	_, err := cal.Book(schedule.Meeting{Day: timeofday.Monday, Start: timeofday.Clock(9, 0), End: timeofday.Clock(10, 0), Contact: "Marcos", Notes: "old"})
	require.NoError(t, err)
	s, _ := setup(t, cal, false)

	r := decode[NotesResult](t, call(t, s, "set_meeting_notes", map[string]any{"day": "monday", "start_time": "9:00 AM", "notes": "new"}))
	assert.True(t, r.Found)
	assert.Equal(t, "new", r.Notes)
	assert.Equal(t, "Marcos", r.Contact)

	r = decode[NotesResult](t, call(t, s, "set_meeting_notes", map[string]any{"day": "tuesday", "start_time": "09:00 AM", "notes": "new"}))
	assert.False(t, r.Found)

	assert.True(t, call(t, s, "set_meeting_notes", map[string]any{"day": "someday", "start_time": "09:00 AM", "notes": "x"}).IsError)
}
