package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/teemow/optimeet/internal/availability"
	"github.com/teemow/optimeet/internal/contacts"
	"github.com/teemow/optimeet/internal/gcal"
	"github.com/teemow/optimeet/internal/instrumentation"
	"github.com/teemow/optimeet/internal/logging"
	"github.com/teemow/optimeet/internal/notebook"
	"github.com/teemow/optimeet/internal/schedule"
)

// Config holds the dependencies of a ServerContext. Everything except the
// context is optional.
type Config struct {
	Calendar *schedule.Calendar

	// CalendarFile is where Persist writes the calendar. Empty disables
	// persistence.
	CalendarFile string

	Directory *contacts.Directory
	Notes     *contacts.Notes

	// Google connects the principal's Google Calendar. When nil, busy time
	// comes from the local calendar only and contacts are treated as free.
	Google *gcal.Client

	Location *time.Location
	Now      func() time.Time
	ReadOnly bool

	Logger      *slog.Logger
	Metrics     *instrumentation.Metrics
	AuditLogger *instrumentation.AuditLogger
}

// ServerContext holds the shared state of the MCP server: the calendar, the
// contact directory and the services built on them.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	calendar     *schedule.Calendar
	calendarFile string
	directory    *contacts.Directory
	notebook     *notebook.Service
	finder       *availability.Finder
	google       *gcal.Client
	loc          *time.Location
	readOnly     bool

	logger      *slog.Logger
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger

	mu       sync.RWMutex
	saveMu   sync.Mutex
	shutdown bool
}

// NewServerContext wires the services described by config.
func NewServerContext(ctx context.Context, config Config) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:          shutdownCtx,
		cancel:       cancel,
		calendar:     config.Calendar,
		calendarFile: config.CalendarFile,
		directory:    config.Directory,
		google:       config.Google,
		loc:          config.Location,
		readOnly:     config.ReadOnly,
		logger:       logging.OrDefault(config.Logger),
		metrics:      config.Metrics,
		auditLogger:  config.AuditLogger,
	}
	if sc.calendar == nil {
		sc.calendar = schedule.NewCalendar()
	}
	if sc.directory == nil {
		sc.directory = contacts.NewDirectory(contacts.Contact{Name: "me"})
	}
	if sc.loc == nil {
		sc.loc = time.Local
	}
	if sc.metrics == nil {
		sc.metrics = &instrumentation.Metrics{}
	}

	principal := availability.MergedSource{
		availability.CalendarSource{Calendar: sc.calendar, Location: sc.loc},
	}
	var contactSource func(contacts.Contact) availability.BusySource
	var remote notebook.RemoteNotes
	if sc.google != nil {
		principal = append(principal, gcal.EventsSource{Client: sc.google})
		contactSource = func(c contacts.Contact) availability.BusySource {
			if c.CalendarID == "" {
				return nil
			}
			return gcal.FreeBusySource{Client: sc.google, CalendarID: c.CalendarID}
		}
		remote = gcal.NewRemoteNotes(sc.google)
	}

	finder, err := availability.NewFinder(availability.Config{
		Principal:     principal,
		Directory:     sc.directory,
		ContactSource: contactSource,
		Location:      sc.loc,
		Now:           config.Now,
		Logger:        sc.logger,
		Recorder:      sc.metrics,
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create slot finder: %w", err)
	}
	sc.finder = finder

	nb, err := notebook.New(notebook.Config{
		Calendar:  sc.calendar,
		Directory: sc.directory,
		Notes:     config.Notes,
		Remote:    remote,
		Logger:    sc.logger,
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create notebook: %w", err)
	}
	sc.notebook = nb

	return sc, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

func (sc *ServerContext) Calendar() *schedule.Calendar { return sc.calendar }
func (sc *ServerContext) Directory() *contacts.Directory { return sc.directory }
func (sc *ServerContext) Notebook() *notebook.Service { return sc.notebook }
func (sc *ServerContext) Finder() *availability.Finder { return sc.finder }
func (sc *ServerContext) Location() *time.Location { return sc.loc }
func (sc *ServerContext) Logger() *slog.Logger { return sc.logger }
func (sc *ServerContext) Metrics() *instrumentation.Metrics { return sc.metrics }
func (sc *ServerContext) ReadOnly() bool { return sc.readOnly }

// Google returns the Google Calendar client, or nil when none is connected.
func (sc *ServerContext) Google() *gcal.Client {
	return sc.google
}

// AuditLogger returns the audit logger. It may be nil.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	return sc.auditLogger
}

// CalendarFile returns the path Persist writes to, or "" when persistence is
// disabled.
func (sc *ServerContext) CalendarFile() string { return sc.calendarFile }

// Persist writes the calendar to the configured calendar file.
func (sc *ServerContext) Persist() error {
	if sc.calendarFile == "" {
		return nil
	}

	sc.saveMu.Lock()
	defer sc.saveMu.Unlock()
	if err := schedule.SaveFile(sc.calendarFile, sc.calendar); err != nil {
		sc.logger.Error("failed to persist calendar", logging.Err(err))
		return err
	}
	return nil
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
