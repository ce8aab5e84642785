package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lachiem1/pragati/internal/metrics"
	"github.com/lachiem1/pragati/internal/money"
	"github.com/lachiem1/pragati/internal/scheduler"
	"github.com/lachiem1/pragati/internal/systemd"
	"github.com/lachiem1/pragati/internal/tracker"
	"github.com/spf13/cobra"
)

var watchExitOnGoal bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the run caught up without a terminal UI",
	Long: `Recompute the run on every tick interval, persist it and publish it as
Prometheus gauges when metrics.listen_addr is set or systemd passes a socket
named "metrics". Suitable for a Type=notify unit with WatchdogSec=. Stops on
SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchExitOnGoal, "exit-on-goal", false, "Exit once the goal is reached")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, runService)
	if err != nil {
		return err
	}
	defer a.Close()

	logger := a.logger
	logger.Info().
		Str("version", version).
		Str("state", a.snap.State.String()).
		Dur("tick_interval", a.cfg.Tracker.TickInterval).
		Msg("Starting watch")
	if !a.snap.Running {
		logger.Warn().Msg("Run is not started; values will stay frozen until `pragati start`")
	}

	metrics.Observe(a.snap)
	sdListener, activated, err := systemd.MetricsListener()
	if err != nil {
		return err
	}
	if addr := a.cfg.Metrics.ListenAddr; addr != "" || activated {
		metricsServer := metrics.NewServer(addr, logger)
		if activated {
			logger.Info().Msg("Using systemd socket for metrics")
			metricsServer.SetListener(sdListener)
		}
		if err := metricsServer.Start(); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer func() {
			if err := metricsServer.Stop(); err != nil {
				logger.Error().Err(err).Msg("Error stopping metrics server")
			}
		}()
		logger.Info().Msgf("Metrics: http://%s/metrics", metricsServer.Addr())
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runner := scheduler.New(logger, context.WithoutCancel(ctx))
	job := scheduler.RecomputeJob(a.tracker, a.clock, func(snap tracker.Snapshot, took time.Duration) {
		metrics.Observe(snap)
		metrics.ObserveTick(took)
		if err := systemd.NotifyWatchdog(); err != nil {
			logger.Warn().Err(err).Msg("Failed to send systemd watchdog ping")
		}
		_ = systemd.Status(fmt.Sprintf("%s %s (%.4f%%)", snap.State, money.Format(snap.CurrentAmount), snap.PercentComplete))
		if snap.GoalReached && watchExitOnGoal {
			cancel()
		}
	})
	if _, err := runner.Add(scheduler.Every(a.cfg.Tracker.TickInterval), job); err != nil {
		return fmt.Errorf("schedule recompute: %w", err)
	}
	runner.Start()

	if err := systemd.NotifyReady(); err != nil {
		logger.Warn().Err(err).Msg("Failed to send systemd ready notification")
	} else {
		logger.Debug().Msg("Sent systemd ready notification")
	}

	<-ctx.Done()
	logger.Info().Msg("Shutdown requested, stopping watch")
	if err := systemd.NotifyStopping(); err != nil {
		logger.Warn().Err(err).Msg("Failed to send systemd stopping notification")
	}
	runner.Stop()

	final := a.tracker.Snapshot()
	logger.Info().
		Str("state", final.State.String()).
		Float64("current_amount", final.CurrentAmount).
		Msg("Watch stopped")
	return nil
}
