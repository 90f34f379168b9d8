package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/optimeet/internal/contacts"
	"github.com/teemow/optimeet/internal/gcal"
	"github.com/teemow/optimeet/internal/google"
	"github.com/teemow/optimeet/internal/instrumentation"
	"github.com/teemow/optimeet/internal/logging"
	"github.com/teemow/optimeet/internal/schedule"
	"github.com/teemow/optimeet/internal/server"
)

// sourceOptions holds the flags that select calendars, contacts and the
// Google account.
type sourceOptions struct {
	calendarFile       string
	contactsFile       string
	timezone           string
	googleTokenFile    string
	googleClientID     string
	googleClientSecret string
	googleCalendarID   string
}

// sourceEnv maps flags to the environment variables that back them.
var sourceEnv = map[string]string{
	"calendar-file":        "OPTIMEET_CALENDAR_FILE",
	"contacts-file":        "OPTIMEET_CONTACTS_FILE",
	"timezone":             "OPTIMEET_TIMEZONE",
	"google-token-file":    "GOOGLE_TOKEN_FILE",
	"google-client-id":     "GOOGLE_CLIENT_ID",
	"google-client-secret": "GOOGLE_CLIENT_SECRET",
	"google-calendar-id":   "GOOGLE_CALENDAR_ID",
}

func (o *sourceOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.calendarFile, "calendar-file", "", "Pipe-delimited meeting records (day|start|end|contact|notes|agenda, a leading ~ marks a placeholder). Can also use OPTIMEET_CALENDAR_FILE env var.")
	cmd.Flags().StringVar(&o.contactsFile, "contacts-file", "", "JSON contact directory. Can also use OPTIMEET_CONTACTS_FILE env var.")
	cmd.Flags().StringVar(&o.timezone, "timezone", "", "IANA time zone for days and hours (default: local). Can also use OPTIMEET_TIMEZONE env var.")
	cmd.Flags().StringVar(&o.googleTokenFile, "google-token-file", "", "Google OAuth token file; enables Google Calendar. Can also use GOOGLE_TOKEN_FILE env var.")
	cmd.Flags().StringVar(&o.googleClientID, "google-client-id", "", "Google OAuth Client ID for token refresh. Can also use GOOGLE_CLIENT_ID env var.")
	cmd.Flags().StringVar(&o.googleClientSecret, "google-client-secret", "", "Google OAuth Client Secret for token refresh. Can also use GOOGLE_CLIENT_SECRET env var.")
	cmd.Flags().StringVar(&o.googleCalendarID, "google-calendar-id", "primary", "Google Calendar of the user. Can also use GOOGLE_CALENDAR_ID env var.")
}

// applyEnv fills every flag that was not set on the command line from its
// environment variable.
func applyEnv(cmd *cobra.Command, env map[string]string) error {
	for flag, key := range env {
		if cmd.Flags().Changed(flag) {
			continue
		}
		if value, ok := os.LookupEnv(key); ok && value != "" {
			if err := cmd.Flags().Set(flag, value); err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
		}
	}
	return nil
}

// serverConfig loads the calendar, the contacts and, when a token file is
// configured, the Google Calendar client.
func (o *sourceOptions) serverConfig(ctx context.Context, logger *slog.Logger, metrics *instrumentation.Metrics) (server.Config, error) {
	cfg := server.Config{CalendarFile: o.calendarFile, Logger: logger, Metrics: metrics}

	cfg.Location = time.Local
	if o.timezone != "" {
		loc, err := time.LoadLocation(o.timezone)
		if err != nil {
			return cfg, fmt.Errorf("invalid timezone %q: %w", o.timezone, err)
		}
		cfg.Location = loc
	}

	cal, err := loadCalendar(o.calendarFile, logger)
	if err != nil {
		return cfg, err
	}
	cfg.Calendar = cal
	cfg.Notes = placeholderNotes(cal)

	if o.contactsFile != "" {
		dir, err := contacts.LoadDirectory(o.contactsFile)
		if err != nil {
			return cfg, err
		}
		cfg.Directory = dir
	}

	if o.googleTokenFile != "" {
		provider := google.NewFileTokenProvider(o.googleTokenFile, google.OAuthConfig(o.googleClientID, o.googleClientSecret))
		provider.Logger = logger
		if !provider.HasToken() {
			return cfg, fmt.Errorf("%w at %s", google.ErrNoToken, o.googleTokenFile)
		}

		gcfg := gcal.Config{CalendarID: o.googleCalendarID, Location: cfg.Location, Logger: logger}
		if metrics != nil {
			gcfg.Recorder = metrics
		}
		client, err := gcal.NewClient(ctx, provider, gcfg)
		if err != nil {
			return cfg, err
		}
		cfg.Google = client
		logger.Info("Google Calendar enabled", logging.Calendar(client.CalendarID()))
	}

	return cfg, nil
}

// loadCalendar reads the calendar file. A missing file yields an empty
// calendar that is created on the first write.
func loadCalendar(path string, logger *slog.Logger) (*schedule.Calendar, error) {
	if path == "" {
		return schedule.NewCalendar(), nil
	}
	cal, err := schedule.LoadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Info("calendar file not found, starting with an empty calendar", slog.String("path", path))
		return schedule.NewCalendar(), nil
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("calendar loaded", slog.Int("meetings", cal.Len()))
	return cal, nil
}

// placeholderNotes seeds the notes store from placeholder meetings so notes
// recorded before a restart keep accumulating.
func placeholderNotes(cal *schedule.Calendar) *contacts.Notes {
	notes := contacts.NewNotes()
	for _, m := range cal.Meetings() {
		if m.Artificial && strings.TrimSpace(m.Notes) != "" {
			notes.Store(m.Contact, m.Notes, true)
		}
	}
	return notes
}
