// Package storage is the local SQLite home of the tracker record. Plain mode
// uses the pure-Go driver; secure mode needs a build with '-tags sqlcipher'
// and a key held in the system keyring.
package storage

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lachiem1/pragati/internal/auth"
	"github.com/rs/zerolog"
)

type Mode string

const (
	ModePlain  Mode = "plain"
	ModeSecure Mode = "secure"
)

const schemaVersion = 2

type Config struct {
	Mode Mode
	Path string
}

// ResolveConfig fills in the default database location when path is empty.
func ResolveConfig(mode, path string) (Config, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(mode)))
	switch m {
	case "":
		m = ModePlain
	case ModePlain, ModeSecure:
	default:
		return Config{}, fmt.Errorf("unknown storage mode %q", mode)
	}

	if p := strings.TrimSpace(path); p != "" {
		return Config{Mode: m, Path: p}, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve user config directory: %w", err)
	}
	return Config{
		Mode: m,
		Path: filepath.Join(configDir, "pragati", "pragati.db"),
	}, nil
}

func Open(ctx context.Context, cfg Config, logger zerolog.Logger) (*sql.DB, error) {
	logger = logger.With().Str("component", "storage").Str("mode", string(cfg.Mode)).Logger()

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	var (
		db  *sql.DB
		err error
	)
	switch cfg.Mode {
	case ModePlain:
		db, err = openPlainSQLite(cfg.Path)
	case ModeSecure:
		db, err = openSecure(cfg.Path, logger)
	default:
		return nil, fmt.Errorf("unknown storage mode %q", cfg.Mode)
	}
	if err != nil {
		return nil, err
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug().Str("path", cfg.Path).Msg("Database ready")
	return db, nil
}

func openSecure(path string, logger zerolog.Logger) (*sql.DB, error) {
	if !secureSQLiteSupported() {
		return nil, fmt.Errorf(
			"secure mode requires a sqlcipher-enabled build; rebuild with '-tags sqlcipher'",
		)
	}

	key, created, err := ensureDBKey()
	if err != nil {
		return nil, fmt.Errorf("ensure secure db key: %w", err)
	}
	if created {
		existing, err := hasLocalDBFiles(path)
		if err != nil {
			return nil, fmt.Errorf("inspect db files: %w", err)
		}
		if existing {
			logger.Warn().Str("path", path).Msg("New db key created; discarding database encrypted with the old key")
		}
		if err := resetLocalDBFiles(path); err != nil {
			return nil, fmt.Errorf("reset db after key creation: %w", err)
		}
	}

	return openSecureSQLite(path, key)
}

// Wipe removes the database files at cfg.Path. It reports whether anything
// was there to remove.
func Wipe(cfg Config) (bool, error) {
	existed, err := hasLocalDBFiles(cfg.Path)
	if err != nil {
		return false, fmt.Errorf("inspect db files: %w", err)
	}
	if err := resetLocalDBFiles(cfg.Path); err != nil {
		return false, fmt.Errorf("wipe local db files: %w", err)
	}
	return existed, nil
}

func ensureDBKey() (key string, created bool, err error) {
	key, err = auth.LoadDBKey()
	if err == nil {
		return key, false, nil
	}
	if !errors.Is(err, auth.ErrNoDBKey) {
		return "", false, err
	}

	newKey, err := generateRandomKey()
	if err != nil {
		return "", false, err
	}
	if err := auth.SaveDBKey(newKey); err != nil {
		return "", false, err
	}
	return newKey, true, nil
}

func generateRandomKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return base64.RawStdEncoding.EncodeToString(buf), nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	const bootstrapSchema = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  version INTEGER NOT NULL
);

INSERT OR IGNORE INTO schema_migrations (id, version) VALUES (1, 1);
`
	if _, err := db.ExecContext(ctx, bootstrapSchema); err != nil {
		return fmt.Errorf("run sqlite migrations: %w", err)
	}

	var currentVersion int
	if err := db.QueryRowContext(ctx, "SELECT version FROM schema_migrations WHERE id = 1").Scan(&currentVersion); err != nil {
		return fmt.Errorf("read sqlite schema version: %w", err)
	}

	if currentVersion > schemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", currentVersion, schemaVersion)
	}
	if currentVersion < 2 {
		if err := applyV2Migrations(ctx, db); err != nil {
			return err
		}
	}
	return nil
}

func applyV2Migrations(ctx context.Context, db *sql.DB) (err error) {
	const schema = `
CREATE TABLE IF NOT EXISTS app_config (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin sqlite migration v2 transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("run sqlite v2 migrations: %w", err)
	}
	if _, err = tx.ExecContext(ctx, "UPDATE schema_migrations SET version = 2 WHERE id = 1"); err != nil {
		return fmt.Errorf("update sqlite schema version to 2: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit sqlite v2 migrations: %w", err)
	}
	return nil
}

func localDBFiles(path string) []string {
	return []string{path, path + "-wal", path + "-shm", path + "-journal"}
}

func hasLocalDBFiles(path string) (bool, error) {
	for _, p := range localDBFiles(path) {
		_, err := os.Stat(p)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return false, err
		}
	}
	return false, nil
}

func resetLocalDBFiles(path string) error {
	for _, p := range localDBFiles(path) {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}
