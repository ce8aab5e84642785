package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func openTestDB(t *testing.T) (*sql.DB, Config) {
	t.Helper()

	cfg := Config{Mode: ModePlain, Path: filepath.Join(t.TempDir(), "data", "pragati.db")}
	db, err := Open(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, cfg
}

func TestResolveConfigOverridePath(t *testing.T) {
	cfg, err := ResolveConfig("SECURE", "  /tmp/pragati-custom.db ")
	if err != nil {
		t.Fatalf("ResolveConfig() unexpected error: %v", err)
	}
	if cfg.Mode != ModeSecure {
		t.Fatalf("cfg.Mode = %q, want %q", cfg.Mode, ModeSecure)
	}
	if cfg.Path != "/tmp/pragati-custom.db" {
		t.Fatalf("cfg.Path = %q, want %q", cfg.Path, "/tmp/pragati-custom.db")
	}
}

func TestResolveConfigDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := ResolveConfig("", "")
	if err != nil {
		t.Fatalf("ResolveConfig() unexpected error: %v", err)
	}
	if cfg.Mode != ModePlain {
		t.Fatalf("cfg.Mode = %q, want %q", cfg.Mode, ModePlain)
	}
	if filepath.Base(cfg.Path) != "pragati.db" || filepath.Base(filepath.Dir(cfg.Path)) != "pragati" {
		t.Fatalf("cfg.Path = %q, want .../pragati/pragati.db", cfg.Path)
	}
}

func TestResolveConfigRejectsUnknownMode(t *testing.T) {
	if _, err := ResolveConfig("cloud", "/tmp/x.db"); err == nil {
		t.Fatal("ResolveConfig() error = nil, want non-nil")
	}
}

func TestOpenPlainRunsMigrations(t *testing.T) {
	db, cfg := openTestDB(t)

	var version int
	if err := db.QueryRow("SELECT version FROM schema_migrations WHERE id = 1").Scan(&version); err != nil {
		t.Fatalf("read schema version: %v", err)
	}
	if version != schemaVersion {
		t.Fatalf("schema version = %d, want %d", version, schemaVersion)
	}

	info, err := os.Stat(cfg.Path)
	if err != nil {
		t.Fatalf("stat db file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("db file mode = %v, want 0600", perm)
	}
}

func TestOpenIsRepeatable(t *testing.T) {
	db, cfg := openTestDB(t)
	if err := NewAppConfigRepo(db).Upsert(context.Background(), "k", "v"); err != nil {
		t.Fatalf("Upsert() unexpected error: %v", err)
	}
	db.Close()

	again, err := Open(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("second Open() unexpected error: %v", err)
	}
	defer again.Close()

	got, ok, err := NewAppConfigRepo(again).Get(context.Background(), "k")
	if err != nil || !ok || got != "v" {
		t.Fatalf("Get() = (%q, %v, %v), want (%q, true, nil)", got, ok, err, "v")
	}
}

func TestOpenRejectsNewerSchema(t *testing.T) {
	db, cfg := openTestDB(t)
	if _, err := db.Exec("UPDATE schema_migrations SET version = 99 WHERE id = 1"); err != nil {
		t.Fatalf("bump schema version: %v", err)
	}
	db.Close()

	_, err := Open(context.Background(), cfg, zerolog.Nop())
	if err == nil || !strings.Contains(err.Error(), "newer than supported") {
		t.Fatalf("Open() error = %v, want schema version error", err)
	}
}

func TestWipeRemovesDatabaseFiles(t *testing.T) {
	db, cfg := openTestDB(t)
	db.Close()

	removed, err := Wipe(cfg)
	if err != nil {
		t.Fatalf("Wipe() unexpected error: %v", err)
	}
	if !removed {
		t.Fatal("Wipe() = false, want true")
	}
	if exists, _ := hasLocalDBFiles(cfg.Path); exists {
		t.Fatal("db files still present after Wipe()")
	}

	removed, err = Wipe(cfg)
	if err != nil || removed {
		t.Fatalf("second Wipe() = (%v, %v), want (false, nil)", removed, err)
	}
}

func TestHasLocalDBFilesReturnsFalseWhenMissing(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pragati.db")
	exists, err := hasLocalDBFiles(path)
	if err != nil {
		t.Fatalf("hasLocalDBFiles() unexpected error: %v", err)
	}
	if exists {
		t.Fatal("hasLocalDBFiles() = true, want false")
	}
}

func TestHasLocalDBFilesDetectsPrimaryDB(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pragati.db")
	if err := os.WriteFile(path, []byte("db"), 0o600); err != nil {
		t.Fatalf("write db file: %v", err)
	}

	exists, err := hasLocalDBFiles(path)
	if err != nil {
		t.Fatalf("hasLocalDBFiles() unexpected error: %v", err)
	}
	if !exists {
		t.Fatal("hasLocalDBFiles() = false, want true")
	}
}

func TestHasLocalDBFilesDetectsWal(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "pragati.db")
	if err := os.WriteFile(path+"-wal", []byte("wal"), 0o600); err != nil {
		t.Fatalf("write wal file: %v", err)
	}

	exists, err := hasLocalDBFiles(path)
	if err != nil {
		t.Fatalf("hasLocalDBFiles() unexpected error: %v", err)
	}
	if !exists {
		t.Fatal("hasLocalDBFiles() = false, want true")
	}
}
