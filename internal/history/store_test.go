package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	for i, status := range []Status{StatusDone, StatusFailed, StatusDone} {
		rec := Record{
			ID:               uuid.NewString(),
			SourcePath:       "/music/track.wv",
			OutputPath:       "/music/track.flac",
			Format:           "wv",
			Strategy:         "native-pipe",
			CompressionLevel: 5,
			Status:           status,
			StartedAt:        base.Add(time.Duration(i) * time.Minute),
			FinishedAt:       base.Add(time.Duration(i)*time.Minute + 30*time.Second),
		}
		if status == StatusFailed {
			rec.ErrorMessage = "encoder exited with status 1"
		}
		if err := store.Record(ctx, rec); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	records, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if !records[0].StartedAt.After(records[1].StartedAt) {
		t.Fatalf("expected newest-first ordering, got %v then %v", records[0].StartedAt, records[1].StartedAt)
	}
	if records[1].Status != StatusFailed || records[1].ErrorMessage == "" {
		t.Fatalf("expected failed record with message, got %#v", records[1])
	}
}

func TestRecentLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		rec := Record{
			ID:         uuid.NewString(),
			SourcePath: "/music/a.ape",
			OutputPath: "/music/a.flac",
			Format:     "ape",
			Strategy:   "native-pipe",
			Status:     StatusDone,
			StartedAt:  time.Now().UTC(),
			FinishedAt: time.Now().UTC(),
		}
		if err := store.Record(ctx, rec); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	records, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
}

func TestReopenKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	records, err := reopened.Recent(context.Background(), 1)
	if err != nil {
		t.Fatalf("Recent after reopen: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty history, got %d rows", len(records))
	}
}
