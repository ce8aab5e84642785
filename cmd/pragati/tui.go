package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lachiem1/pragati/internal/metrics"
	"github.com/lachiem1/pragati/internal/tracker"
	"github.com/lachiem1/pragati/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive tracker",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), runInteractive)
	if err != nil {
		return err
	}
	defer a.Close()

	a.logger.Info().Str("version", version).Str("state", a.snap.State.String()).Msg("Starting TUI")

	var observe func(tracker.Snapshot)
	if addr := a.cfg.Metrics.ListenAddr; addr != "" {
		metricsServer := metrics.NewServer(addr, a.logger)
		if err := metricsServer.Start(); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer func() {
			if err := metricsServer.Stop(); err != nil {
				a.logger.Error().Err(err).Msg("Error stopping metrics server")
			}
		}()
		metrics.Observe(a.snap)
		observe = metrics.Observe
	}

	p := tea.NewProgram(tui.New(tui.Options{
		Tracker:      a.tracker,
		Clock:        a.clock,
		TickInterval: a.cfg.Tracker.TickInterval,
		Logger:       a.logger,
		Observe:      observe,
	}), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
