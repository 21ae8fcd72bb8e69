package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/primelife/signup/internal/storage"
	"github.com/primelife/signup/internal/storage/storagetest"
)

func TestSQLiteStoreContract(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	suite.Run(t, &storagetest.StoreSuite{
		NewStore: func() storage.Store {
			s, err := New(dbPath)
			require.NoError(t, err)
			return s
		},
	})
}

func TestSQLiteStore(t *testing.T) {
	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "signup-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "nested", "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("Ping succeeds on open database", func(t *testing.T) {
		if err := store.Ping(ctx); err != nil {
			t.Fatalf("Ping failed: %v", err)
		}
	})

	t.Run("Put records update time", func(t *testing.T) {
		store.now = func() time.Time { return base }
		if err := store.Put(ctx, "k1", []byte("v1")); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		var updatedAt int64
		err := store.db.QueryRowContext(ctx, "SELECT updated_at FROM snapshots WHERE key = ?", "k1").Scan(&updatedAt)
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if updatedAt != base.Unix() {
			t.Errorf("updated_at = %d, want %d", updatedAt, base.Unix())
		}
	})

	t.Run("PurgeBefore removes only stale snapshots", func(t *testing.T) {
		store.now = func() time.Time { return base.Add(-48 * time.Hour) }
		if err := store.Put(ctx, "stale", []byte("old")); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		store.now = func() time.Time { return base }
		if err := store.Put(ctx, "fresh", []byte("new")); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		n, err := store.PurgeBefore(ctx, base.Add(-24*time.Hour))
		if err != nil {
			t.Fatalf("PurgeBefore failed: %v", err)
		}
		if n != 1 {
			t.Errorf("purged %d snapshots, want 1", n)
		}

		if _, err := store.Get(ctx, "stale"); err != storage.ErrNotFound {
			t.Errorf("Get(stale) error = %v, want ErrNotFound", err)
		}
		if _, err := store.Get(ctx, "fresh"); err != nil {
			t.Errorf("Get(fresh) failed: %v", err)
		}
	})

	t.Run("Snapshots survive reopening", func(t *testing.T) {
		if err := store.Put(ctx, "durable", []byte(`{"currentPage":"form"}`)); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		reopened, err := New(dbPath)
		if err != nil {
			t.Fatalf("Failed to reopen store: %v", err)
		}
		defer reopened.Close()

		got, err := reopened.Get(ctx, "durable")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(got) != `{"currentPage":"form"}` {
			t.Errorf("Get = %s, want the stored snapshot", got)
		}
	})
}
