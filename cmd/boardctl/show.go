package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"github.com/samirrijal/trmnl-departures/internal/adapters/entur"
	"github.com/samirrijal/trmnl-departures/internal/core/board"
	"github.com/samirrijal/trmnl-departures/internal/core/usecases"
	"github.com/samirrijal/trmnl-departures/internal/pkg/config"
	"github.com/samirrijal/trmnl-departures/internal/pkg/logging"
)

type showOptions struct {
	stop              string
	exclude           string
	excludeUnassigned bool
	minutes           int
	lead              int
	limit             int
	json              bool
	verbose           bool
}

func newShowCmd() *cobra.Command {
	var opts showOptions

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Fetch and print the departure board once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load("trmnl-boardctl")
			if err != nil {
				return err
			}

			level := cfg.Log.Level
			if opts.verbose {
				level = "debug"
			}
			logging.SetupWriter(os.Stderr, level, "text")

			if !cmd.Flags().Changed("lead") {
				opts.lead = cfg.Board.LeadMinutes
			}
			return runShow(cmd.Context(), cfg, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.stop, "stop", "", "NSR stop place id (default from config)")
	f.StringVar(&opts.exclude, "exclude", "", "comma-separated platforms to hide")
	f.BoolVar(&opts.excludeUnassigned, "exclude-unassigned", false, "hide departures without a platform")
	f.IntVar(&opts.minutes, "minutes", 0, "look-ahead window in minutes (default from config)")
	f.IntVar(&opts.lead, "lead", 0, "minutes between now and the start of the window (default from config)")
	f.IntVar(&opts.limit, "limit", 0, "maximum departures to request (default from config)")
	f.BoolVar(&opts.json, "json", false, "print the board document as JSON")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log each group at debug level")
	return cmd
}

func runShow(ctx context.Context, cfg *config.Config, opts showOptions) error {
	if opts.minutes < 0 || opts.minutes > cfg.Board.MaxWindow {
		return fmt.Errorf("--minutes must be between 1 and %d", cfg.Board.MaxWindow)
	}
	if opts.limit < 0 || opts.limit > cfg.Board.MaxFetchLimit {
		return fmt.Errorf("--limit must be between 1 and %d", cfg.Board.MaxFetchLimit)
	}

	client, err := entur.NewClient(entur.Config{
		URL:        cfg.Entur.URL,
		ClientName: cfg.Entur.ClientName,
		Contact:    cfg.Entur.Contact,
		Timeout:    time.Duration(cfg.Entur.Timeout) * time.Second,
	})
	if err != nil {
		return err
	}

	svc := usecases.NewBoardService(client, nil, usecases.BoardDefaults{
		StopID:        cfg.Board.DefaultStop,
		WindowMinutes: cfg.Board.WindowMinutes,
		LeadMinutes:   cfg.Board.LeadMinutes,
		FetchLimit:    cfg.Board.FetchLimit,
	})
	req := usecases.BoardRequest{
		StopID:            opts.stop,
		ExcludePlatforms:  opts.exclude,
		ExcludeUnassigned: opts.excludeUnassigned,
		WindowMinutes:     opts.minutes,
		LeadMinutes:       opts.lead,
		FetchLimit:        opts.limit,
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Server.RequestTimeout)*time.Second)
	defer cancel()

	var res *board.Result
	build := func(ctx context.Context) error {
		var err error
		res, err = svc.Build(ctx, req)
		return err
	}
	if opts.json || opts.verbose {
		err = build(ctx)
	} else {
		err = withSpinner(ctx, fetchSpinner, build)
	}
	if err != nil {
		return err
	}
	if res == nil {
		return errors.New("no board was built")
	}

	if opts.json {
		out, err := json.MarshalIndent(res.Document, "", "  ")
		if err != nil {
			return fmt.Errorf("encode board: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}
	renderBoard(os.Stdout, res)
	return nil
}

func fetchSpinner(ctx context.Context) error {
	return spinner.New().
		Title("Fetching departures...").
		Context(ctx).
		Run()
}

// withSpinner runs work while spin animates. The spinner stops when work
// returns; if the spinner exits first (interrupt), work is canceled and
// waited for. Results written by work are safe to read once this returns.
func withSpinner(ctx context.Context, spin, work func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	spinCtx, stopSpin := context.WithCancel(ctx)
	defer stopSpin()

	done := make(chan error, 1)
	go func() {
		err := work(ctx)
		stopSpin()
		done <- err
	}()

	if err := spin(spinCtx); err != nil && spinCtx.Err() == nil {
		cancel()
		<-done
		return fmt.Errorf("fetch interrupted: %w", err)
	}
	return <-done
}
