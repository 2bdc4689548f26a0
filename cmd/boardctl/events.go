package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	natsadapter "github.com/samirrijal/trmnl-departures/internal/adapters/nats"
	"github.com/samirrijal/trmnl-departures/internal/core/domain"
	"github.com/samirrijal/trmnl-departures/internal/pkg/config"
	"github.com/samirrijal/trmnl-departures/internal/pkg/logging"
)

func newEventsCmd() *cobra.Command {
	var stop string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Follow boards served by the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load("trmnl-boardctl")
			if err != nil {
				return err
			}
			logging.SetupWriter(os.Stderr, cfg.Log.Level, "text")
			if cfg.NATS.URL == "" {
				return fmt.Errorf("nats.url is not configured (set TRMNL_NATS_URL)")
			}

			sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
			if err != nil {
				return err
			}
			defer sub.Close()

			ctx, stopSignals := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stopSignals()

			err = sub.SubscribeBoardServed(ctx, stop, func(ctx context.Context, ev *domain.BoardServed) error {
				fmt.Println(formatEvent(ev))
				return nil
			})
			if err != nil {
				return err
			}
			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().StringVar(&stop, "stop", "", "only follow this stop place id")
	return cmd
}

func formatEvent(ev *domain.BoardServed) string {
	return fmt.Sprintf("%s %s %s  %d/%d departures in %d groups  %.0fms",
		platStyle.Render(ev.BuiltAt.Format("15:04:05")),
		lineStyle.Render(ev.StopName),
		platStyle.Render(ev.StopID),
		ev.NumShown, ev.NumDepartures, ev.NumGroups,
		ev.Duration*1000,
	)
}
