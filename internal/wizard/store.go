package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/goccy/go-json"

	"github.com/primelife/signup/internal/models"
	"github.com/primelife/signup/internal/storage"
)

// SnapshotKey is the storage key of the single local wizard.
const SnapshotKey = "primelife_quiz_state"

// SessionKey returns the storage key of a server-side session's wizard.
func SessionKey(sessionID string) string {
	return SnapshotKey + ":" + sessionID
}

// Store loads and saves the wizard snapshot under one key.
type Store struct {
	backend  storage.Store
	key      string
	logger   *slog.Logger
	recorder Recorder
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStoreLogger sets the logger used for recovered snapshot errors.
func WithStoreLogger(l *slog.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStoreRecorder sets the recorder that counts snapshot errors.
func WithStoreRecorder(r Recorder) StoreOption {
	return func(s *Store) {
		if r != nil {
			s.recorder = r
		}
	}
}

// NewStore returns a Store for key on backend.
func NewStore(backend storage.Store, key string, opts ...StoreOption) *Store {
	s := &Store{
		backend:  backend,
		key:      key,
		logger:   slog.Default(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Key returns the storage key.
func (s *Store) Key() string { return s.key }

// Load restores the saved state. A missing, unreadable or malformed snapshot
// yields the default state; the failure is logged, never returned.
func (s *Store) Load(ctx context.Context) models.State {
	b, err := s.backend.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return models.DefaultState()
	}
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load wizard snapshot", "key", s.key, "error", err)
		s.recorder.SnapshotError("load")
		return models.DefaultState()
	}

	var snap models.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		s.logger.WarnContext(ctx, "discarding malformed wizard snapshot", "key", s.key, "error", err)
		s.recorder.SnapshotError("decode")
		return models.DefaultState()
	}
	return snap.State()
}

// Save writes state as the snapshot.
func (s *Store) Save(ctx context.Context, state models.State) error {
	b, err := json.Marshal(models.NewSnapshot(state))
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.backend.Put(ctx, s.key, b); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Clear deletes the snapshot.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.backend.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}
