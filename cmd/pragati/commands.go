package main

import (
	"errors"
	"fmt"

	"github.com/lachiem1/pragati/internal/money"
	"github.com/lachiem1/pragati/internal/tracker"
	"github.com/spf13/cobra"
)

var (
	statusOutput string

	configurePrincipal string
	configureRate      float64
	configureYears     float64
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Set the principal, annual rate and years",
	Long: `Replace the run parameters. The counter goes back to the new principal and
any running timer stops. Flags that are not given keep their stored value.`,
	Example: `  pragati configure --principal "₹2,50,000" --rate 9.5 --years 10
  pragati configure --years 3`,
	Args: cobra.NoArgs,
	RunE: runConfigure,
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the timer from the principal",
	Args:  cobra.NoArgs,
	RunE:  runStart,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the timer and freeze the counter",
	Args:  cobra.NoArgs,
	RunE:  runStop,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Put the counter back to the principal",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current amount and progress",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Show the yearly projection table",
	Args:  cobra.NoArgs,
	RunE:  runTable,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the stored run and return to the defaults",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", "text", "Output format: text, json or yaml")

	configureCmd.Flags().StringVar(&configurePrincipal, "principal", "", "Initial amount, e.g. 100000 or ₹1,00,000")
	configureCmd.Flags().Float64Var(&configureRate, "rate", 0, "Annual interest rate in percent")
	configureCmd.Flags().Float64Var(&configureYears, "years", 0, "Number of years")

	rootCmd.AddCommand(configureCmd, startCmd, stopCmd, resetCmd, statusCmd, tableCmd, clearCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, runOneShot)
	if err != nil {
		return err
	}
	defer a.Close()

	rec := a.snap.Record
	principal, rate, years := rec.Principal, rec.AnnualRatePercent, rec.Years
	if cmd.Flags().Changed("principal") {
		principal, err = money.Parse(configurePrincipal)
		if err != nil {
			return fmt.Errorf("invalid --principal: %w", err)
		}
	}
	if cmd.Flags().Changed("rate") {
		rate = configureRate
	}
	if cmd.Flags().Changed("years") {
		years = configureYears
	}

	if err := a.tracker.Configure(ctx, principal, rate, years); err != nil {
		return err
	}
	snap := a.tracker.Snapshot()
	if err := persistResult(snap); err != nil {
		return err
	}
	printFeedback(cmd.OutOrStdout(), "Calculation updated successfully!")
	printStatus(cmd.OutOrStdout(), snap)
	return nil
}

func runStart(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, runOneShot)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.tracker.Start(ctx, a.now()); err != nil {
		if errors.Is(err, tracker.ErrInvalidTransition) && a.snap.Running {
			return errors.New("timer is already running")
		}
		return err
	}
	snap := a.tracker.Snapshot()
	if err := persistResult(snap); err != nil {
		return err
	}
	printFeedback(cmd.OutOrStdout(), "Timer started!")
	printStatus(cmd.OutOrStdout(), snap)
	return nil
}

func runStop(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, runOneShot)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.tracker.Stop(ctx); err != nil {
		if errors.Is(err, tracker.ErrInvalidTransition) {
			return errors.New("timer is not running")
		}
		return err
	}
	snap := a.tracker.Snapshot()
	if err := persistResult(snap); err != nil {
		return err
	}
	printFeedback(cmd.OutOrStdout(), "Timer stopped.")
	printStatus(cmd.OutOrStdout(), snap)
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, runOneShot)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.snap.Running && a.snap.CurrentAmount == a.snap.Record.Principal {
		printFeedback(cmd.OutOrStdout(), "Counter is already at the initial amount.")
		return nil
	}
	a.tracker.Reset(ctx)
	snap := a.tracker.Snapshot()
	if err := persistResult(snap); err != nil {
		return err
	}
	printFeedback(cmd.OutOrStdout(), "Counter reset to initial amount")
	printStatus(cmd.OutOrStdout(), snap)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	if statusOutput == "" {
		statusOutput = "text"
	}
	a, err := openApp(cmd.Context(), runOneShot)
	if err != nil {
		return err
	}
	defer a.Close()

	switch statusOutput {
	case "", "text":
		if a.snap.GoalReached {
			printGoal(cmd.OutOrStdout())
		}
		printStatus(cmd.OutOrStdout(), a.snap)
		return nil
	case "json", "yaml":
		report := newStatusReport(a.snap)
		at, ok, err := a.store.SavedAt(cmd.Context())
		if err != nil {
			a.logger.Warn().Err(err).Msg("Last save time unavailable")
		} else if ok {
			at = at.UTC()
			report.SavedAt = &at
		}
		return writeReport(cmd.OutOrStdout(), statusOutput, report)
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", statusOutput)
	}
}

func runTable(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), runOneShot)
	if err != nil {
		return err
	}
	defer a.Close()

	printTable(cmd.OutOrStdout(), a.snap.Table)
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, runOneShot)
	if err != nil {
		return err
	}
	defer a.Close()

	a.tracker.Clear(ctx)
	snap := a.tracker.Snapshot()
	if err := persistResult(snap); err != nil {
		return err
	}
	printFeedback(cmd.OutOrStdout(), "Stored run cleared.")
	printStatus(cmd.OutOrStdout(), snap)
	return nil
}

// persistResult turns a save failure into a command error.
func persistResult(snap tracker.Snapshot) error {
	if snap.PersistErr != nil {
		return fmt.Errorf("save run: %w", snap.PersistErr)
	}
	return nil
}
