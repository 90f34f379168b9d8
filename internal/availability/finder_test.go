package availability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/optimeet/internal/contacts"
	"github.com/teemow/optimeet/internal/schedule"
	"github.com/teemow/optimeet/internal/timeofday"
)

// Wednesday, 2024-03-06.
var testNow = time.Date(2024, time.March, 6, 10, 0, 0, 0, time.UTC)

func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.March, day, hour, minute, 0, 0, time.UTC)
}

type fakeSource struct {
	busy []TimeRange
	err  error

	mu    sync.Mutex
	calls int
}

func (s *fakeSource) Busy(_ context.Context, from, to time.Time) ([]TimeRange, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.busy, s.err
}

type fakeRecorder struct {
	mu       sync.Mutex
	searches []string
}

func (r *fakeRecorder) RecordSlotSearch(_ context.Context, mode, status string, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searches = append(r.searches, mode+":"+status)
}

func newTestFinder(t *testing.T, principal BusySource, contactBusy map[string]BusySource, recorder Recorder) *Finder {
	t.Helper()

	dir := contacts.NewDirectory(
		contacts.Contact{Name: "User", CalendarID: "primary"},
		contacts.Contact{Name: "Marcos", CalendarID: "marcos@example.com"},
		contacts.Contact{Name: "Harry", CalendarID: "harry@example.com"},
		contacts.Contact{Name: "Blake", CalendarID: "blake@example.com"},
	)
	f, err := NewFinder(Config{
		Principal: principal,
		Directory: dir,
		ContactSource: func(c contacts.Contact) BusySource {
			return contactBusy[c.Name]
		},
		Location: time.UTC,
		Now:      func() time.Time { return testNow },
		Recorder: recorder,
	})
	require.NoError(t, err)
	return f
}

func TestNewFinder_RequiresPrincipal(t *testing.T) {
	_, err := NewFinder(Config{})
	assert.Error(t, err)
}

func TestFinder_DateFor(t *testing.T) {
	f := newTestFinder(t, &fakeSource{}, nil, nil)

	assert.Equal(t, at(4, 0, 0), f.DateFor(timeofday.Monday))
	assert.Equal(t, at(6, 0, 0), f.DateFor(timeofday.Wednesday))
	assert.Equal(t, at(10, 0, 0), f.DateFor(timeofday.Sunday))
}

func TestFinder_FindOnDay(t *testing.T) {
	principal := &fakeSource{busy: []TimeRange{
		{Start: at(5, 9, 0), End: at(5, 10, 0)},
		{Start: at(5, 11, 0), End: at(5, 12, 0)},
	}}
	marcos := &fakeSource{busy: []TimeRange{
		{Start: at(5, 9, 30), End: at(5, 10, 30)},
	}}
	f := newTestFinder(t, principal, map[string]BusySource{"Marcos": marcos}, nil)

	tests := []struct {
		name   string
		order  int
		want   TimeRange
		wantOK bool
	}{
		{name: "first", order: 1, want: TimeRange{Start: at(5, 8, 0), End: at(5, 8, 30)}, wantOK: true},
		{name: "coalesced busy blocks", order: 3, want: TimeRange{Start: at(5, 10, 30), End: at(5, 11, 0)}, wantOK: true},
		{name: "after lunch", order: 4, want: TimeRange{Start: at(5, 12, 0), End: at(5, 12, 30)}, wantOK: true},
		{name: "no slot", order: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := f.FindOnDay(context.Background(), DayRequest{
				Request: Request{
					Contacts:     []string{"Mrcs"},
					Duration:     30 * time.Minute,
					Order:        tt.order,
					EarliestHour: 8,
					LatestHour:   17,
				},
				Day: timeofday.Tuesday,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFinder_FindOnDay_Defaults(t *testing.T) {
	f := newTestFinder(t, &fakeSource{}, nil, nil)

	got, ok, err := f.FindOnDay(context.Background(), DayRequest{Day: timeofday.Friday})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, TimeRange{Start: at(8, 9, 0), End: at(8, 10, 0)}, got)
}

func TestFinder_FindOnDay_HourDefaultsApplyIndependently(t *testing.T) {
	f := newTestFinder(t, &fakeSource{}, nil, nil)

	tests := []struct {
		name     string
		earliest int
		latest   int
		want     TimeRange
	}{
		{name: "latest only", latest: 12, want: TimeRange{Start: at(8, 9, 0), End: at(8, 10, 0)}},
		{name: "earliest only", earliest: 10, want: TimeRange{Start: at(8, 10, 0), End: at(8, 11, 0)}},
		{name: "from midnight", earliest: Midnight, latest: 12, want: TimeRange{Start: at(8, 0, 0), End: at(8, 1, 0)}},
		{name: "last hour of the day", earliest: 23, latest: 24, want: TimeRange{Start: at(8, 23, 0), End: at(9, 0, 0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := f.FindOnDay(context.Background(), DayRequest{
				Request: Request{EarliestHour: tt.earliest, LatestHour: tt.latest},
				Day:     timeofday.Friday,
			})
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFinder_FindOnDay_DateWinsOverDay(t *testing.T) {
	f := newTestFinder(t, &fakeSource{}, nil, nil)

	got, ok, err := f.FindOnDay(context.Background(), DayRequest{
		Day:  timeofday.Monday,
		Date: time.Date(2024, time.April, 2, 15, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, time.April, 2, 9, 0, 0, 0, time.UTC), got.Start)
}

func TestFinder_FindOnDay_PartialMinutesBlock(t *testing.T) {
	principal := &fakeSource{busy: []TimeRange{
		{Start: at(5, 8, 59).Add(30 * time.Second), End: at(5, 9, 0).Add(10 * time.Second)},
	}}
	f := newTestFinder(t, principal, nil, nil)

	got, ok, err := f.FindOnDay(context.Background(), DayRequest{
		Request: Request{Duration: 30 * time.Minute},
		Day:     timeofday.Tuesday,
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, at(5, 9, 1), got.Start)
}

func TestFinder_UnknownContactsFallBackToPrincipal(t *testing.T) {
	principal := &fakeSource{}
	harry := &fakeSource{}
	f := newTestFinder(t, principal, map[string]BusySource{"Harry": harry}, nil)

	_, ok, err := f.FindOnDay(context.Background(), DayRequest{
		Request: Request{Contacts: []string{"Zzyzx", "User"}},
		Day:     timeofday.Monday,
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, principal.calls)
	assert.Equal(t, 0, harry.calls)
}

func TestFinder_ContactWithoutSourceIsFree(t *testing.T) {
	f := newTestFinder(t, &fakeSource{}, map[string]BusySource{}, nil)

	got, ok, err := f.FindOnDay(context.Background(), DayRequest{
		Request: Request{Contacts: []string{"Blake"}},
		Day:     timeofday.Monday,
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, at(4, 9, 0), got.Start)
}

func TestFinder_SourceError(t *testing.T) {
	boom := errors.New("calendar unavailable")
	recorder := &fakeRecorder{}
	f := newTestFinder(t, &fakeSource{}, map[string]BusySource{"Harry": &fakeSource{err: boom}}, recorder)

	_, ok, err := f.FindOnDay(context.Background(), DayRequest{
		Request: Request{Contacts: []string{"Harry"}},
		Day:     timeofday.Monday,
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, ok)
	assert.Equal(t, []string{"day:error"}, recorder.searches)
}

func TestFinder_FindSoonest(t *testing.T) {
	principal := &fakeSource{busy: []TimeRange{
		// Tomorrow is fully booked during working hours.
		{Start: at(7, 9, 0), End: at(7, 17, 0)},
		{Start: at(8, 9, 0), End: at(8, 9, 45)},
	}}
	recorder := &fakeRecorder{}
	f := newTestFinder(t, principal, nil, recorder)

	got, ok, err := f.FindSoonest(context.Background(), Request{})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, TimeRange{Start: at(8, 9, 45), End: at(8, 10, 45)}, got)
	assert.Equal(t, []string{"soonest:success"}, recorder.searches)
}

func TestFinder_FindSoonest_StaysInsideHours(t *testing.T) {
	principal := &fakeSource{busy: []TimeRange{
		{Start: at(7, 10, 0), End: at(7, 22, 0)},
		{Start: at(9, 6, 0), End: at(9, 13, 15)},
	}}
	f := newTestFinder(t, principal, nil, nil)

	for order := 1; order <= 60; order++ {
		got, ok, err := f.FindSoonest(context.Background(), Request{Duration: 45 * time.Minute, Order: order})
		require.NoError(t, err)
		if !ok {
			break
		}
		startMinute := timeofday.MinuteOf(got.Start)
		endMinute := timeofday.MinuteOf(got.End)
		assert.GreaterOrEqual(t, startMinute, timeofday.Clock(9, 0), "order %d starts at %s", order, got)
		assert.LessOrEqual(t, endMinute, timeofday.Clock(17, 0), "order %d ends at %s", order, got)
		assert.True(t, got.Start.After(at(7, 0, 0)) || got.Start.Equal(at(7, 0, 0)))
		assert.True(t, got.End.Before(at(15, 0, 0)))
	}
}

func TestFinder_FindSoonest_NotFound(t *testing.T) {
	recorder := &fakeRecorder{}
	f := newTestFinder(t, &fakeSource{busy: []TimeRange{{Start: at(1, 0, 0), End: at(30, 0, 0)}}}, nil, recorder)

	_, ok, err := f.FindSoonest(context.Background(), Request{})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"soonest:not_found"}, recorder.searches)
}

func TestFinder_InvalidRequests(t *testing.T) {
	f := newTestFinder(t, &fakeSource{}, nil, nil)

	tests := []struct {
		name string
		req  DayRequest
	}{
		{name: "no day", req: DayRequest{}},
		{name: "sub-minute duration", req: DayRequest{Request: Request{Duration: time.Second}, Day: timeofday.Monday}},
		{name: "negative order", req: DayRequest{Request: Request{Order: -1}, Day: timeofday.Monday}},
		{name: "inverted hours", req: DayRequest{Request: Request{EarliestHour: 17, LatestHour: 9}, Day: timeofday.Monday}},
		{name: "hour past midnight", req: DayRequest{Request: Request{EarliestHour: 9, LatestHour: 25}, Day: timeofday.Monday}},
		{name: "latest before default earliest", req: DayRequest{Request: Request{LatestHour: 8}, Day: timeofday.Monday}},
		{name: "negative earliest", req: DayRequest{Request: Request{EarliestHour: -2}, Day: timeofday.Monday}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.FindOnDay(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestBusyOn(t *testing.T) {
	day := at(5, 0, 0)
	busy := []TimeRange{
		{Start: at(4, 22, 0), End: at(5, 1, 0)},
		{Start: at(5, 9, 0).Add(15 * time.Second), End: at(5, 9, 29).Add(time.Second)},
		{Start: at(5, 23, 0), End: at(6, 2, 0)},
		{Start: at(6, 9, 0), End: at(6, 10, 0)},
	}

	assert.Equal(t, []schedule.Interval{
		{Start: 0, End: 60},
		{Start: 540, End: 570},
		{Start: 1380, End: 1440},
	}, busyOn(day, busy))
}

func TestCalendarSource(t *testing.T) {
	cal := schedule.NewCalendar()
	_, err := cal.Book(schedule.Meeting{Day: timeofday.Tuesday, Start: 540, End: 600, Contact: "Marcos"})
	require.NoError(t, err)
	cal.AddArtificialMeetingNotes("Harry", "placeholder")

	src := CalendarSource{Calendar: cal, Location: time.UTC}
	busy, err := src.Busy(context.Background(), at(4, 0, 0), at(18, 0, 0))
	require.NoError(t, err)

	assert.Equal(t, []TimeRange{
		{Start: at(5, 9, 0), End: at(5, 10, 0)},
		{Start: at(12, 9, 0), End: at(12, 10, 0)},
	}, busy)

	busy, err = src.Busy(context.Background(), at(5, 9, 30), at(5, 12, 0))
	require.NoError(t, err)
	assert.Len(t, busy, 1)
}

func TestCalendarSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CalendarSource{Calendar: schedule.NewCalendar()}.Busy(ctx, at(4, 0, 0), at(5, 0, 0))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFinder_WithCalendarSource(t *testing.T) {
	cal := schedule.NewCalendar()
	_, err := cal.Book(schedule.Meeting{Day: timeofday.Thursday, Start: 540, End: 660, Contact: "Blake"})
	require.NoError(t, err)

	f := newTestFinder(t, CalendarSource{Calendar: cal, Location: time.UTC}, nil, nil)
	got, ok, err := f.FindSoonest(context.Background(), Request{})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, at(7, 11, 0), got.Start)
}

func TestDescribe(t *testing.T) {
	r := TimeRange{
		Start: time.Date(2006, time.January, 2, 15, 4, 0, 0, time.UTC),
		End:   time.Date(2006, time.January, 2, 16, 4, 0, 0, time.UTC),
	}
	assert.Equal(t, "Monday, January 02 from 03:04 PM to 04:04 PM", Describe(r))
	assert.Equal(t, Describe(r), r.String())
	assert.Equal(t, time.Hour, r.Duration())
}

func TestMergedSource(t *testing.T) {
	a := &fakeSource{busy: []TimeRange{{Start: at(7, 9, 0), End: at(7, 10, 0)}}}
	b := &fakeSource{busy: []TimeRange{{Start: at(7, 13, 0), End: at(7, 14, 0)}}}

	busy, err := MergedSource{a, nil, b}.Busy(context.Background(), at(7, 0, 0), at(8, 0, 0))
	require.NoError(t, err)
	assert.Len(t, busy, 2)

	boom := errors.New("boom")
	_, err = MergedSource{a, &fakeSource{err: boom}}.Busy(context.Background(), at(7, 0, 0), at(8, 0, 0))
	assert.ErrorIs(t, err, boom)
}
