// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

// Command headliner operates a Headliner deployment: it registers readers,
// publishes articles, serves personalized feeds and records reactions
// against the configured document store, and runs the background worker
// that turns domain events into notifications.
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

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/headliner/internal/app"
	"github.com/tomtom215/headliner/internal/config"
	"github.com/tomtom215/headliner/internal/logging"
	"github.com/tomtom215/headliner/internal/supervisor"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type globals struct {
	configPath string
}

func rootCmd() *cobra.Command {
	g := &globals{}
	cmd := &cobra.Command{
		Use:           "headliner",
		Short:         "News personalization and reader progression",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "config file (YAML); defaults to CONFIG_PATH or headliner.yaml")

	cmd.AddCommand(
		seedCmd(g),
		registerCmd(g),
		publishCmd(g),
		loginCmd(g),
		recommendCmd(g),
		reactCmd(g, "like"),
		reactCmd(g, "dislike"),
		searchCmd(g),
		achievementsCmd(g),
		leaderboardCmd(g),
		notificationsCmd(g),
		workerCmd(g),
	)
	return cmd
}

func (g *globals) load() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if g.configPath != "" {
		cfg, err = config.LoadFile(g.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})
	return cfg, nil
}

// withApp builds the application, runs its event router for the duration of
// fn so published events reach their consumers, then shuts everything down.
func (g *globals) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	a, err := app.New(ctx, cfg, logging.Logger())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			logging.Warn().Err(cerr).Msg("shutdown failed")
		}
	}()

	routerCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- a.Router().Run(routerCtx) }()
	defer func() {
		cancel()
		<-done
	}()

	select {
	case <-a.Router().Running():
	case err := <-done:
		return fmt.Errorf("event router: %w", err)
	case <-time.After(30 * time.Second):
		return errors.New("event router did not start")
	}
	return fn(ctx, a)
}

func printJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func workerCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the notification consumers and the metrics endpoint until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			a, err := app.New(ctx, cfg, logging.Logger())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if err := a.Seed(ctx); err != nil {
				return fmt.Errorf("seed achievements: %w", err)
			}

			tree := supervisor.Build(a, logging.Logger(), supervisor.DefaultTreeConfig())
			logging.Info().
				Str("store", cfg.Store.Backend).
				Str("events", cfg.Events.Backend).
				Bool("metrics", cfg.Metrics.Enabled).
				Str("metrics_addr", cfg.Metrics.Addr).
				Msg("starting worker")

			err = tree.Serve(ctx)
			if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
				for _, svc := range unstopped {
					logging.Warn().Str("service", svc.Name).Msg("service failed to stop")
				}
			}
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			logging.Info().Msg("worker stopped")
			return nil
		},
	}
}
