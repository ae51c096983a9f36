package ledger

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"mediasort/internal/identify"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func movieRecord(key string) Record {
	return Record{
		Key:        key,
		SourceName: key + ".mkv",
		RunID:      NewRunID(),
		Decision: identify.Decision{
			Kind:       identify.KindMovie,
			Title:      "Movie Example",
			Year:       2020,
			MetadataID: 500,
			Score:      95,
		},
	}
}

func TestUpsertAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := movieRecord("movie example 2020")
	if err := store.Upsert(ctx, rec); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := store.Get(ctx, rec.Key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Decision.Kind != identify.KindMovie || got.Decision.Title != "Movie Example" {
		t.Fatalf("unexpected record: %+v", got)
	}
	if got.Decision.Year != 2020 || got.Decision.MetadataID != 500 {
		t.Fatalf("unexpected decision fields: %+v", got.Decision)
	}
	if got.RunID != rec.RunID {
		t.Errorf("RunID = %q, want %q", got.RunID, rec.RunID)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}
}

func TestGetMissing(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestUpsertConfidentBeatsUnclassified(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := movieRecord("movie example 2020")
	if err := store.Upsert(ctx, rec); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	loser := rec
	loser.Decision = identify.Decision{Kind: identify.KindUnclassified, Detail: "no match"}
	if err := store.Upsert(ctx, loser); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := store.Get(ctx, rec.Key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Decision.Kind != identify.KindMovie {
		t.Fatalf("confident record was overwritten by unclassified: %+v", got.Decision)
	}
}

func TestUpsertNewerConfidentWins(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := movieRecord("movie example 2020")
	if err := store.Upsert(ctx, rec); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	winner := rec
	winner.Decision.Title = "Movie Example Extended"
	winner.Decision.Score = 99
	if err := store.Upsert(ctx, winner); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := store.Get(ctx, rec.Key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Decision.Title != "Movie Example Extended" || got.Decision.Score != 99 {
		t.Fatalf("newer record did not win: %+v", got.Decision)
	}
}

func TestUpsertUnclassifiedReplacesUnclassified(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := Record{
		Key:      "mystery",
		RunID:    NewRunID(),
		Decision: identify.Decision{Kind: identify.KindUnclassified, Detail: "first"},
	}
	if err := store.Upsert(ctx, rec); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	rec.Decision.Detail = "second"
	if err := store.Upsert(ctx, rec); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := store.Get(ctx, "mystery")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Decision.Detail != "second" {
		t.Fatalf("Detail = %q, want the newer record", got.Decision.Detail)
	}
}

func TestListUnclassified(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, movieRecord("classified")); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := store.Upsert(ctx, Record{
		Key:      "leftover",
		RunID:    NewRunID(),
		Decision: identify.Decision{Kind: identify.KindUnclassified},
	}); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	records, err := store.ListUnclassified(ctx)
	if err != nil {
		t.Fatalf("ListUnclassified failed: %v", err)
	}
	if len(records) != 1 || records[0].Key != "leftover" {
		t.Fatalf("unexpected unclassified set: %+v", records)
	}
}

func TestCountAndClear(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, movieRecord("one")); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := store.Upsert(ctx, movieRecord("two")); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("Count = %d, want 2", n)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	n, err = store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Fatalf("Count after Clear = %d, want 0", n)
	}
}

func TestReopenPreservesRecords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.db")
	ctx := context.Background()

	first, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := first.Upsert(ctx, movieRecord("persisted")); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer second.Close()

	if _, err := second.Get(ctx, "persisted"); err != nil {
		t.Fatalf("record lost across reopen: %v", err)
	}
}
