package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lachiem1/pragati/internal/tracker"
	"github.com/rs/zerolog"
)

// StateKey is the app_config key holding the tracker record.
const StateKey = "pragati-tracker-state"

// PersistenceError wraps a failed read, write or delete of the stored record.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s tracker state: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// SessionStore implements tracker.Store on top of AppConfigRepo.
type SessionStore struct {
	repo   *AppConfigRepo
	logger zerolog.Logger
}

var _ tracker.Store = (*SessionStore)(nil)

func NewSessionStore(db *sql.DB, logger zerolog.Logger) *SessionStore {
	return &SessionStore{
		repo:   NewAppConfigRepo(db),
		logger: logger.With().Str("component", "session_store").Logger(),
	}
}

// Load returns the defaults when nothing is stored or the stored value cannot
// be decoded. Only a failing database produces an error, and the defaults
// come back alongside it.
func (s *SessionStore) Load(ctx context.Context) (tracker.Record, error) {
	raw, ok, err := s.repo.Get(ctx, StateKey)
	if err != nil {
		return tracker.DefaultRecord(), &PersistenceError{Op: "load", Err: err}
	}
	if !ok {
		return tracker.DefaultRecord(), nil
	}

	var rec tracker.Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		s.logger.Warn().Err(err).Msg("Stored tracker state is corrupt, using defaults")
		return tracker.DefaultRecord(), nil
	}
	if err := rec.Validate(); err != nil {
		s.logger.Warn().Err(err).Msg("Stored tracker state is invalid, using defaults")
		return tracker.DefaultRecord(), nil
	}
	return rec, nil
}

func (s *SessionStore) Save(ctx context.Context, rec tracker.Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return &PersistenceError{Op: "encode", Err: err}
	}
	if err := s.repo.Upsert(ctx, StateKey, string(raw)); err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	return nil
}

// SavedAt reports when the record was last written. ok is false when nothing
// is stored.
func (s *SessionStore) SavedAt(ctx context.Context) (at time.Time, ok bool, err error) {
	at, ok, err = s.repo.UpdatedAt(ctx, StateKey)
	if err != nil {
		return time.Time{}, false, &PersistenceError{Op: "stat", Err: err}
	}
	return at, ok, nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, StateKey); err != nil {
		return &PersistenceError{Op: "clear", Err: err}
	}
	return nil
}
