package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"mediasort/internal/identify"
)

func TestClassifyCommandResolvesAndRecords(t *testing.T) {
	server := newStubCatalog(t)
	env := setupCLITestEnv(t, server.URL)

	out, _, err := runCLI(t, env, "--json", "classify", "Movie.Example.2020.1080p.WEB-DL.x264-GROUP.mkv")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}

	var items []classifiedItem
	if err := json.Unmarshal([]byte(out), &items); err != nil {
		t.Fatalf("parse output: %v\n%s", err, out)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	d := items[0].Decision
	if d.Kind != identify.KindMovie {
		t.Fatalf("expected movie, got %s (%s)", d.Kind, d.Detail)
	}
	if d.Title != "A Movie Example" || d.Year != 2020 {
		t.Fatalf("unexpected identity: %q (%d)", d.Title, d.Year)
	}
	wantDest := filepath.Join(env.baseDir, "movies", "A Movie Example (2020)", "A Movie Example (2020).mkv")
	if items[0].Destination != wantDest {
		t.Fatalf("destination = %q, want %q", items[0].Destination, wantDest)
	}

	// The decision lands in the ledger.
	out, _, err = runCLI(t, env, "--json", "ledger", "list")
	if err != nil {
		t.Fatalf("ledger list: %v", err)
	}
	requireContains(t, out, "Movie Example")

	// And in the pick cache file.
	if _, err := os.Stat(env.cachePath); err != nil {
		t.Fatalf("expected pick cache file: %v", err)
	}
}

func TestClassifyCommandOfflineUsesCache(t *testing.T) {
	server := newStubCatalog(t)
	env := setupCLITestEnv(t, server.URL)

	if _, _, err := runCLI(t, env, "classify", "Movie.Example.2020.1080p.WEB-DL.x264-GROUP.mkv"); err != nil {
		t.Fatalf("online classify: %v", err)
	}
	server.Close()

	out, _, err := runCLI(t, env, "--offline", "--json", "classify", "Movie.Example.2020.1080p.WEB-DL.x264-GROUP.mkv")
	if err != nil {
		t.Fatalf("offline classify: %v", err)
	}
	var items []classifiedItem
	if err := json.Unmarshal([]byte(out), &items); err != nil {
		t.Fatalf("parse output: %v\n%s", err, out)
	}
	if len(items) != 1 || items[0].Decision.Kind != identify.KindMovie {
		t.Fatalf("expected cached movie decision, got %+v", items)
	}
}

func TestClassifyCommandOfflineWithoutCacheGuesses(t *testing.T) {
	env := setupCLITestEnv(t, "http://unused.invalid")

	out, _, err := runCLI(t, env, "--offline", "--json", "classify", "Unknown.Thing.2019.mkv")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	var items []classifiedItem
	if err := json.Unmarshal([]byte(out), &items); err != nil {
		t.Fatalf("parse output: %v", err)
	}
	d := items[0].Decision
	if d.Kind != identify.KindMovie || d.MetadataID != 0 {
		t.Fatalf("expected a movie guess from the name, got %+v", d)
	}
	if d.Title != "Unknown Thing" || d.Year != 2019 {
		t.Fatalf("guess = %q (%d), want \"Unknown Thing\" (2019)", d.Title, d.Year)
	}
}

func TestClassifyCommandScansDirectories(t *testing.T) {
	server := newStubCatalog(t)
	env := setupCLITestEnv(t, server.URL)

	dir := filepath.Join(env.baseDir, "incoming")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, name := range []string{"Movie.Example.2020.mkv", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	out, _, err := runCLI(t, env, "--json", "classify", dir)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	var items []classifiedItem
	if err := json.Unmarshal([]byte(out), &items); err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Movie.Example.2020.mkv" {
		t.Fatalf("expected only the media file, got %+v", items)
	}
}
