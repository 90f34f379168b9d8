package availability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/teemow/optimeet/internal/contacts"
	"github.com/teemow/optimeet/internal/logging"
	"github.com/teemow/optimeet/internal/schedule"
	"github.com/teemow/optimeet/internal/timeofday"
)

// Defaults applied to zero request fields.
const (
	DefaultEarliestHour = 9
	DefaultLatestHour   = 17
	DefaultDuration     = 60 * time.Minute

	// Midnight is the EarliestHour for a window opening at 00:00, since a
	// zero EarliestHour means DefaultEarliestHour.
	Midnight = -1

	// SoonestDays is the number of days FindSoonest searches, starting
	// tomorrow.
	SoonestDays = 8
)

// Search modes reported to the Recorder.
const (
	ModeDay     = "day"
	ModeSoonest = "soonest"
)

// ErrInvalidRequest is returned for requests with out-of-range fields.
var ErrInvalidRequest = errors.New("invalid slot request")

// Request describes the meeting to place.
type Request struct {
	// Contacts are names as typed by the user. Each is resolved against the
	// directory; names that do not resolve fall back to the principal.
	Contacts []string

	// Duration of the meeting, rounded down to whole minutes. Zero means
	// DefaultDuration.
	Duration time.Duration

	// Order selects the n-th free slot, 1-based. Zero means the first.
	Order int

	// EarliestHour and LatestHour bound the part of each day that may be
	// used. Each defaults on its own when zero: EarliestHour to 9 and
	// LatestHour to 17. Use Midnight to start at 00:00. A LatestHour of 24
	// is the end of the day.
	EarliestHour int
	LatestHour   int
}

// DayRequest is a Request restricted to one date. Date wins over Day when
// both are set.
type DayRequest struct {
	Request

	Day  timeofday.Day
	Date time.Time
}

// Recorder receives slot search outcomes.
type Recorder interface {
	RecordSlotSearch(ctx context.Context, mode, status string, candidates int)
}

// Config configures a Finder.
type Config struct {
	// Principal is the busy source of the calendar owner. Required.
	Principal BusySource

	// Directory resolves contact names. Nil means no contacts.
	Directory *contacts.Directory

	// ContactSource returns the busy source of a contact's calendar, or nil
	// when the calendar is unknown. Nil means contacts are always free.
	ContactSource func(contacts.Contact) BusySource

	// Location is the time zone days are computed in. Nil means time.Local.
	Location *time.Location

	// Now returns the current time. Nil means time.Now.
	Now func() time.Time

	Logger   *slog.Logger
	Recorder Recorder
}

// Finder searches for slots that are free on every involved calendar.
// It is safe for concurrent use.
type Finder struct {
	principal     BusySource
	directory     *contacts.Directory
	contactSource func(contacts.Contact) BusySource
	loc           *time.Location
	now           func() time.Time
	logger        *slog.Logger
	recorder      Recorder
}

// NewFinder creates a Finder from config.
func NewFinder(config Config) (*Finder, error) {
	if config.Principal == nil {
		return nil, fmt.Errorf("principal busy source is required")
	}

	f := &Finder{
		principal:     config.Principal,
		directory:     config.Directory,
		contactSource: config.ContactSource,
		loc:           config.Location,
		now:           config.Now,
		logger:        logging.OrDefault(config.Logger),
		recorder:      config.Recorder,
	}
	if f.loc == nil {
		f.loc = time.Local
	}
	if f.now == nil {
		f.now = time.Now
	}
	return f, nil
}

// Location returns the time zone the finder computes days in.
func (f *Finder) Location() *time.Location {
	return f.loc
}

// DateFor returns the date of day in the Monday-based week containing now.
func (f *Finder) DateFor(day timeofday.Day) time.Time {
	today := startOfDay(f.now().In(f.loc))
	offset := int(day) - int(timeofday.DayOf(today.Weekday()))
	return today.AddDate(0, 0, offset)
}

// FindOnDay returns the Order-th free slot on the requested date. The
// boolean is false when there are fewer free slots than Order.
func (f *Finder) FindOnDay(ctx context.Context, req DayRequest) (TimeRange, bool, error) {
	params, err := req.Request.normalize()
	if err != nil {
		return TimeRange{}, false, err
	}

	var day time.Time
	switch {
	case !req.Date.IsZero():
		y, m, d := req.Date.Date()
		day = time.Date(y, m, d, 0, 0, 0, 0, f.loc)
	case req.Day.Valid():
		day = f.DateFor(req.Day)
	default:
		return TimeRange{}, false, fmt.Errorf("%w: a weekday or a date is required", ErrInvalidRequest)
	}

	return f.search(ctx, ModeDay, params, day, 1)
}

// FindSoonest returns the Order-th free slot between tomorrow 00:00 and
// SoonestDays days later, with each day limited to the requested hours.
func (f *Finder) FindSoonest(ctx context.Context, req Request) (TimeRange, bool, error) {
	params, err := req.normalize()
	if err != nil {
		return TimeRange{}, false, err
	}

	tomorrow := startOfDay(f.now().In(f.loc)).AddDate(0, 0, 1)
	return f.search(ctx, ModeSoonest, params, tomorrow, SoonestDays)
}

func (f *Finder) search(ctx context.Context, mode string, params searchParams, first time.Time, days int) (TimeRange, bool, error) {
	logger := logging.WithOperation(f.logger, "availability."+mode)

	from, to := first, first.AddDate(0, 0, days)
	busy, err := f.collectBusy(ctx, params.contacts, from, to)
	if err != nil {
		f.record(ctx, mode, logging.StatusError, 0)
		return TimeRange{}, false, err
	}

	window := schedule.HoursWindow(params.earliestHour, params.latestHour)
	candidates := 0
	remaining := params.order
	for day := first; day.Before(to); day = day.AddDate(0, 0, 1) {
		slots := schedule.FreeSlots(busyOn(day, busy), params.minutes, window)
		candidates += len(slots)
		if remaining <= len(slots) {
			slot := slots[remaining-1]
			result := TimeRange{Start: atMinute(day, slot.Start), End: atMinute(day, slot.End)}
			logger.Debug("slot found", logging.Slot(result), logging.Day(day.Format(time.DateOnly)))
			f.record(ctx, mode, logging.StatusSuccess, candidates)
			return result, true, nil
		}
		remaining -= len(slots)
	}

	logger.Debug("no slot available",
		slog.Int("order", params.order),
		slog.Int("candidates", candidates))
	f.record(ctx, mode, logging.StatusNotFound, candidates)
	return TimeRange{}, false, nil
}

// collectBusy queries the principal and every resolved contact concurrently
// and concatenates their busy ranges.
func (f *Finder) collectBusy(ctx context.Context, queries []string, from, to time.Time) ([]TimeRange, error) {
	sources := map[string]BusySource{"principal": f.principal}
	for _, c := range f.resolve(queries) {
		src := f.source(c)
		if src == nil {
			f.logger.Debug("contact calendar unknown, treating as free", logging.Contact(c.Name))
			continue
		}
		sources[c.Name] = src
	}

	var (
		mu  sync.Mutex
		all []TimeRange
	)
	g, gctx := errgroup.WithContext(ctx)
	for name, src := range sources {
		g.Go(func() error {
			busy, err := src.Busy(gctx, from, to)
			if err != nil {
				f.logger.Warn("busy source failed", logging.Contact(name), logging.Err(err))
				return fmt.Errorf("failed to get busy time for %s: %w", name, err)
			}
			mu.Lock()
			all = append(all, busy...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return all, nil
}

// resolve maps user-typed names to distinct contacts other than the
// principal.
func (f *Finder) resolve(queries []string) []contacts.Contact {
	if f.directory == nil {
		return nil
	}

	principal := f.directory.Principal()
	seen := make(map[string]bool)
	var out []contacts.Contact
	for _, q := range queries {
		c := f.directory.Resolve(q)
		if c.Name == principal.Name || seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		out = append(out, c)
	}
	return out
}

func (f *Finder) source(c contacts.Contact) BusySource {
	if f.contactSource == nil {
		return nil
	}
	return f.contactSource(c)
}

func (f *Finder) record(ctx context.Context, mode, status string, candidates int) {
	if f.recorder != nil {
		f.recorder.RecordSlotSearch(ctx, mode, status, candidates)
	}
}

// busyOn converts the ranges intersecting day into minute intervals of that
// day. Partial minutes count as busy.
func busyOn(day time.Time, busy []TimeRange) []schedule.Interval {
	next := day.AddDate(0, 0, 1)

	var out []schedule.Interval
	for _, r := range busy {
		if !r.End.After(day) || !r.Start.Before(next) {
			continue
		}
		start := timeofday.Midnight
		if r.Start.After(day) {
			start = minuteFloor(r.Start.In(day.Location()))
		}
		end := timeofday.Minute(timeofday.MinutesPerDay)
		if r.End.Before(next) {
			end = minuteCeil(r.End.In(day.Location()))
		}
		out = append(out, schedule.Interval{Start: start, End: end})
	}
	return out
}

func minuteFloor(t time.Time) timeofday.Minute {
	return timeofday.MinuteOf(t)
}

func minuteCeil(t time.Time) timeofday.Minute {
	m := timeofday.MinuteOf(t)
	if t.Second() != 0 || t.Nanosecond() != 0 {
		m++
	}
	return m
}

type searchParams struct {
	contacts     []string
	minutes      int
	order        int
	earliestHour int
	latestHour   int
}

func (r Request) normalize() (searchParams, error) {
	p := searchParams{
		contacts:     r.Contacts,
		minutes:      int(r.Duration / time.Minute),
		order:        r.Order,
		earliestHour: r.EarliestHour,
		latestHour:   r.LatestHour,
	}
	if r.Duration == 0 {
		p.minutes = int(DefaultDuration / time.Minute)
	}
	if p.order == 0 {
		p.order = 1
	}
	switch p.earliestHour {
	case 0:
		p.earliestHour = DefaultEarliestHour
	case Midnight:
		p.earliestHour = 0
	}
	if p.latestHour == 0 {
		p.latestHour = DefaultLatestHour
	}

	switch {
	case p.minutes < 1:
		return p, fmt.Errorf("%w: duration must be at least one minute", ErrInvalidRequest)
	case p.order < 1:
		return p, fmt.Errorf("%w: order must be positive", ErrInvalidRequest)
	case p.earliestHour < 0 || p.latestHour > 24 || p.earliestHour >= p.latestHour:
		return p, fmt.Errorf("%w: hours %d-%d", ErrInvalidRequest, p.earliestHour, p.latestHour)
	}
	return p, nil
}
