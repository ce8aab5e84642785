package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/lachiem1/pragati/internal/auth"
	"github.com/lachiem1/pragati/internal/config"
	"github.com/lachiem1/pragati/internal/storage"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	dbWipeYes       bool
	dbWipeForgetKey bool
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the local database",
}

var dbWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete the local database files",
	Long: `Delete the SQLite database and its journal files. The next command starts
from the default run. With --forget-key the encryption key is also removed
from the system credential store.`,
	Args: cobra.NoArgs,
	RunE: runDBWipe,
}

var dbKeyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the database encryption key (secure mode)",
}

var dbKeySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store an existing encryption key in the system credential store",
	Long: `Read a key from the terminal (or stdin when piped) and save it to the system
credential store, e.g. to open a secure database copied from another machine.`,
	Args: cobra.NoArgs,
	RunE: runDBKeySet,
}

var dbKeyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether an encryption key is available",
	Args:  cobra.NoArgs,
	RunE:  runDBKeyStatus,
}

func init() {
	dbWipeCmd.Flags().BoolVar(&dbWipeYes, "yes", false, "Confirm deleting the database files")
	dbWipeCmd.Flags().BoolVar(&dbWipeForgetKey, "forget-key", false, "Also delete the encryption key from the credential store")

	dbKeyCmd.AddCommand(dbKeySetCmd, dbKeyStatusCmd)
	dbCmd.AddCommand(dbWipeCmd, dbKeyCmd)
	rootCmd.AddCommand(dbCmd)
}

func runDBWipe(cmd *cobra.Command, args []string) error {
	if !dbWipeYes {
		return errors.New("refusing to wipe without --yes")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	storageCfg, err := storage.ResolveConfig(cfg.Storage.Mode, cfg.Storage.Path)
	if err != nil {
		return err
	}

	existed, err := storage.Wipe(storageCfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if existed {
		printFeedback(out, "Local database wiped: "+storageCfg.Path)
	} else {
		color.New(color.FgYellow).Fprintln(out, "No local database at "+storageCfg.Path)
	}

	if dbWipeForgetKey {
		if err := auth.DeleteDBKey(); err != nil {
			return err
		}
		printFeedback(out, "Encryption key removed from the credential store.")
	}
	return nil
}

func runDBKeySet(cmd *cobra.Command, args []string) error {
	fmt.Fprint(cmd.ErrOrStderr(), "Enter database key: ")
	key, err := readSecret(cmd.InOrStdin())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr())

	if strings.TrimSpace(key) == "" {
		return errors.New("empty key")
	}
	if err := auth.SaveDBKey(key); err != nil {
		return err
	}
	printFeedback(cmd.OutOrStdout(), "Key saved to your system credential store.")
	return nil
}

func runDBKeyStatus(cmd *cobra.Command, args []string) error {
	ok, err := auth.HasDBKey()
	if err != nil {
		return err
	}
	if ok {
		printFeedback(cmd.OutOrStdout(), "Encryption key available.")
	} else {
		color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "No encryption key stored; secure mode will create one on first open.")
	}
	return nil
}

// readSecret reads without echo when in is a terminal.
func readSecret(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		value, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(value), nil
	}

	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		if len(line) == 0 {
			return "", err
		}
	}
	return strings.TrimSpace(line), nil
}
