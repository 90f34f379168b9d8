package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/optimeet/internal/availability"
	"github.com/teemow/optimeet/internal/server"
	"github.com/teemow/optimeet/internal/timeofday"
)

// slotOptions holds the flags of the slot command.
type slotOptions struct {
	sources sourceOptions

	contacts     []string
	day          string
	date         string
	soonest      bool
	duration     int
	order        int
	earliestHour int
	latestHour   int
	debug        bool
}

func newSlotCmd() *cobra.Command {
	var opts slotOptions

	cmd := &cobra.Command{
		Use:   "slot",
		Short: "Find a free meeting slot",
		Long: `Find a meeting slot that is free for you and the given contacts.

Either search one day with --day or --date, or the soonest slot over the
next days with --soonest.`,
		Example: `  optimeet slot --day tuesday --contacts marcos,huy
  optimeet slot --soonest --duration 30 --earliest-hour 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyEnv(cmd, sourceEnv); err != nil {
				return err
			}
			return runSlot(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	opts.sources.addFlags(cmd)
	cmd.Flags().StringSliceVar(&opts.contacts, "contacts", nil, "Contacts to meet with (comma-separated)")
	cmd.Flags().StringVar(&opts.day, "day", "", "Weekday of the current week (e.g. tuesday)")
	cmd.Flags().StringVar(&opts.date, "date", "", "Date in YYYY-MM-DD format; takes precedence over --day")
	cmd.Flags().BoolVar(&opts.soonest, "soonest", false, "Search the soonest slot starting tomorrow")
	cmd.Flags().IntVar(&opts.duration, "duration", int(availability.DefaultDuration/time.Minute), "Meeting length in minutes")
	cmd.Flags().IntVar(&opts.order, "order", 1, "Which free slot to return, 1 for the first")
	cmd.Flags().IntVar(&opts.earliestHour, "earliest-hour", availability.DefaultEarliestHour, "Earliest hour a meeting may start")
	cmd.Flags().IntVar(&opts.latestHour, "latest-hour", availability.DefaultLatestHour, "Hour by which the meeting must end")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	cmd.MarkFlagsMutuallyExclusive("soonest", "day")
	cmd.MarkFlagsMutuallyExclusive("soonest", "date")

	return cmd
}

func runSlot(ctx context.Context, out io.Writer, opts slotOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if !opts.soonest && opts.day == "" && opts.date == "" {
		return fmt.Errorf("one of --day, --date or --soonest is required")
	}

	logger := newLogger(opts.debug)
	cfg, err := opts.sources.serverConfig(ctx, logger, nil)
	if err != nil {
		return err
	}
	cfg.ReadOnly = true

	sc, err := server.NewServerContext(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() { _ = sc.Shutdown() }()

	slot, found, err := findSlot(ctx, sc, opts)
	if err != nil {
		return err
	}
	if !found {
		_, err = fmt.Fprintln(out, "No slot available")
		return err
	}
	_, err = fmt.Fprintln(out, availability.Describe(slot))
	return err
}

func findSlot(ctx context.Context, sc *server.ServerContext, opts slotOptions) (availability.TimeRange, bool, error) {
	req := availability.Request{
		Contacts:     opts.contacts,
		Duration:     time.Duration(opts.duration) * time.Minute,
		Order:        opts.order,
		EarliestHour: opts.earliestHour,
		LatestHour:   opts.latestHour,
	}
	if req.EarliestHour == 0 {
		req.EarliestHour = availability.Midnight
	}
	if opts.soonest {
		return sc.Finder().FindSoonest(ctx, req)
	}

	dayReq := availability.DayRequest{Request: req}
	if opts.date != "" {
		date, err := time.ParseInLocation(time.DateOnly, opts.date, sc.Location())
		if err != nil {
			return availability.TimeRange{}, false, fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
		}
		dayReq.Date = date
	} else {
		day, err := timeofday.ParseDay(opts.day)
		if err != nil {
			return availability.TimeRange{}, false, err
		}
		dayReq.Day = day
	}
	return sc.Finder().FindOnDay(ctx, dayReq)
}
