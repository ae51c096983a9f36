package pickcache

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheRememberAndLookup(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "picks.json")
	cache := New(cachePath, true, nil)

	entry := Entry{
		Kind:       "movie",
		Title:      "Inception",
		Year:       2010,
		MetadataID: 27205,
	}
	cache.Remember("Inception 2010", entry)

	found, ok := cache.Lookup("inception 2010")
	if !ok {
		t.Fatal("Lookup failed to find remembered entry")
	}
	if found.Title != entry.Title {
		t.Errorf("Title mismatch: got %q, want %q", found.Title, entry.Title)
	}
	if found.MetadataID != entry.MetadataID {
		t.Errorf("MetadataID mismatch: got %d, want %d", found.MetadataID, entry.MetadataID)
	}
	if found.CachedAt.IsZero() {
		t.Error("Remember should stamp CachedAt")
	}
}

func TestCacheLookupIsCaseInsensitive(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "picks.json")
	cache := New(cachePath, true, nil)

	cache.Remember("Some Movie (1999)", Entry{Kind: "movie", Title: "Some Movie", Year: 1999})

	if _, ok := cache.Lookup("SOME MOVIE (1999)"); !ok {
		t.Error("Lookup should casefold the key")
	}
	if _, ok := cache.Lookup("  some movie (1999)  "); !ok {
		t.Error("Lookup should trim the key")
	}
}

func TestCacheFlushOnlyWhenDirty(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "picks.json")
	cache := New(cachePath, true, nil)

	if err := cache.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if _, err := os.Stat(cachePath); !os.IsNotExist(err) {
		t.Fatal("clean cache should not write a file")
	}

	cache.Remember("a movie", Entry{Kind: "movie", Title: "A Movie"})
	if err := cache.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if _, err := os.Stat(cachePath); err != nil {
		t.Fatalf("dirty flush should write the file: %v", err)
	}

	// Second flush with no changes must not rewrite.
	if err := os.Remove(cachePath); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := cache.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if _, err := os.Stat(cachePath); !os.IsNotExist(err) {
		t.Fatal("flush after flush should be a no-op")
	}
}

func TestCacheRoundtrip(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "picks.json")

	first := New(cachePath, true, nil)
	first.Remember("serie ejemplo s02e05", Entry{Kind: "tv", Title: "Serie Ejemplo", Year: 2019, MetadataID: 42})
	if err := first.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	second := New(cachePath, true, nil)
	found, ok := second.Lookup("serie ejemplo s02e05")
	if !ok {
		t.Fatal("reloaded cache missing entry")
	}
	if found.Kind != "tv" || found.Year != 2019 || found.MetadataID != 42 {
		t.Fatalf("unexpected entry after reload: %#v", found)
	}
}

func TestCacheDisabledIsNoop(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "picks.json")
	cache := New(cachePath, false, nil)

	cache.Remember("a movie", Entry{Kind: "movie", Title: "A Movie"})
	if _, ok := cache.Lookup("a movie"); ok {
		t.Error("disabled cache should not remember")
	}
	if err := cache.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if _, err := os.Stat(cachePath); !os.IsNotExist(err) {
		t.Fatal("disabled cache should not write a file")
	}
}

func TestCacheEmptyPathIsNoop(t *testing.T) {
	cache := New("", true, nil)
	cache.Remember("a movie", Entry{Kind: "movie", Title: "A Movie"})
	if _, ok := cache.Lookup("a movie"); ok {
		t.Error("pathless cache should not remember")
	}
}

func TestCacheMalformedFileStartsEmpty(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "picks.json")
	if err := os.WriteFile(cachePath, []byte("{nope"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cache := New(cachePath, true, nil)
	if cache.Count() != 0 {
		t.Fatalf("expected empty cache, got %d entries", cache.Count())
	}
}

func TestCacheForgetAndClear(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "picks.json")
	cache := New(cachePath, true, nil)

	cache.Remember("one", Entry{Kind: "movie", Title: "One"})
	cache.Remember("two", Entry{Kind: "movie", Title: "Two"})
	cache.Forget("one")
	if _, ok := cache.Lookup("one"); ok {
		t.Error("forgotten entry still present")
	}
	cache.Clear()
	if cache.Count() != 0 {
		t.Fatalf("expected empty cache after Clear, got %d", cache.Count())
	}
}
