package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-almanac/internal/ephem"
	"github.com/litescript/ls-almanac/internal/report"
	"github.com/litescript/ls-almanac/internal/server"
	"github.com/litescript/ls-almanac/internal/state"
	"github.com/litescript/ls-almanac/internal/ui"
)

// defaultBodies are tracked besides the Sun and Moon unless --body is given.
var defaultBodies = []string{"Mercury", "Venus", "Mars", "Jupiter", "Saturn"}

// newManager builds a state manager for the configured site. A fixed
// --date or --time pins the clock to that instant.
func (o *options) newManager(bodies []string) (*state.Manager, func() time.Time, error) {
	if len(bodies) == 0 {
		bodies = defaultBodies
	}
	for _, b := range bodies {
		if !o.provider.Available(b) {
			return nil, nil, fmt.Errorf("track %q: %w", b, ephem.ErrUnknownBody)
		}
	}

	cfg := state.DefaultConfig()
	cfg.RefreshInterval = o.cfg.RefreshInterval.Duration
	cfg.Site = state.Site{
		Observer: o.observer(),
		Zone:     o.zone(),
		Solver:   o.cfg.Solver,
		Twilight: o.cfg.TwilightType(),
		Bodies:   bodies,
	}

	clock := o.now
	if o.date != "" || o.clock != "" {
		jd, err := o.instant()
		if err != nil {
			return nil, nil, err
		}
		fixed := jd.Time()
		clock = func() time.Time { return fixed }
	}
	return state.NewManager(cfg, o.provider, o.log), clock, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

type almanacFlags struct {
	json   bool
	watch  time.Duration
	events bool
	bodies []string
}

func newAlmanacCmd(o *options) *cobra.Command {
	var f almanacFlags
	cmd := &cobra.Command{
		Use:   "almanac",
		Short: "Print the almanac summary, optionally repeating",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlmanac(cmd, o, f)
		},
	}
	cmd.Flags().BoolVar(&f.json, "json", false, "write a JSON snapshot instead of the table")
	cmd.Flags().DurationVar(&f.watch, "watch", 0, "repeat at this interval (e.g. 30s)")
	cmd.Flags().BoolVar(&f.events, "events", false, "append the event log")
	cmd.Flags().StringSliceVarP(&f.bodies, "body", "b", nil, "bodies to track besides the Sun and Moon")
	return cmd
}

// runAlmanac handles the headless summary, once or on a watch interval.
func runAlmanac(cmd *cobra.Command, o *options, f almanacFlags) error {
	mgr, clock, err := o.newManager(f.bodies)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	outputOnce := func() error {
		if err := mgr.Refresh(clock()); err != nil {
			return err
		}
		snap := mgr.Snapshot()
		if f.json {
			return report.ExportSnapshot(snap).WriteJSON(w)
		}
		report.WriteSummaryTable(w, snap)
		if f.events {
			fmt.Fprintln(w)
			report.WriteEvents(w, snap.Events, 10)
		}
		return nil
	}

	if f.watch <= 0 {
		return outputOnce()
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	if err := outputOnce(); err != nil {
		o.log.Error("almanac: %v", err)
	}
	ticker := time.NewTicker(f.watch)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !f.json {
				fmt.Fprintln(w)
			}
			if err := outputOnce(); err != nil {
				o.log.Error("almanac: %v", err)
			}
		}
	}
}

func newServeCmd(o *options) *cobra.Command {
	var addr string
	var bodies []string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the almanac over HTTP with a websocket stream and metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, clock, err := o.newManager(bodies)
			if err != nil {
				return err
			}
			scfg := server.Config{
				Addr:           o.cfg.Server.Addr,
				RatePerSecond:  o.cfg.Server.RatePerSecond,
				Burst:          o.cfg.Server.Burst,
				StreamInterval: o.cfg.Server.StreamInterval.Duration,
			}
			if cmd.Flags().Changed("addr") {
				scfg.Addr = addr
			}
			srv, err := server.New(scfg, mgr, o.provider, o.log)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			go func() {
				_ = mgr.Run(ctx, clock)
			}()

			err = srv.ListenAndServe(ctx)
			if errors.Is(err, context.Canceled) {
				o.log.Info("server stopped")
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringSliceVarP(&bodies, "body", "b", nil, "bodies to track besides the Sun and Moon")
	return cmd
}

func newTUICmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, o)
		},
	}
}

// runTUI runs the refresh loop in the background and feeds each snapshot
// to the UI through a subscription.
func runTUI(cmd *cobra.Command, o *options) error {
	mgr, clock, err := o.newManager(nil)
	if err != nil {
		return err
	}

	// The UI owns the terminal; keep log lines off it.
	o.log.SetOutput(io.Discard)

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	updates, unsubscribe := mgr.Subscribe(1)
	defer unsubscribe()
	go func() {
		_ = mgr.Run(ctx, clock)
	}()

	model := ui.New(mgr, o.provider).WithUpdates(updates)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}
