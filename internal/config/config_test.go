package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"mediasort/internal/config"
)

func TestLoadDefaultConfigUsesEnvTMDBKeyAndExpandsPaths(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "test-key")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogs := filepath.Join(tempHome, ".local", "share", "mediasort", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	if cfg.Paths.MoviesDir != filepath.Join(tempHome, "library", "movies") {
		t.Fatalf("unexpected movies dir: %q", cfg.Paths.MoviesDir)
	}
	if cfg.TMDB.APIKey != "test-key" {
		t.Fatalf("expected TMDB key from env, got %q", cfg.TMDB.APIKey)
	}
	if cfg.TMDB.BaseURL != config.Default().TMDB.BaseURL {
		t.Fatalf("unexpected TMDB base url: %q", cfg.TMDB.BaseURL)
	}
	if cfg.TMDB.CallBudget != 40 {
		t.Fatalf("unexpected call budget: %d", cfg.TMDB.CallBudget)
	}
	if cfg.Matching.ConfidenceThreshold != 80 {
		t.Fatalf("unexpected confidence threshold: %d", cfg.Matching.ConfidenceThreshold)
	}
	if !cfg.Kids.Enabled || cfg.Kids.MaxAge != 7 {
		t.Fatalf("unexpected kids defaults: %+v", cfg.Kids)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}

	for _, dir := range []string{cfg.Paths.LogDir, cfg.Paths.StateDir, cfg.Paths.MoviesDir, cfg.Paths.TVDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "mediasort.toml")

	type payload struct {
		TMDB struct {
			APIKey  string `toml:"api_key"`
			BaseURL string `toml:"base_url"`
		} `toml:"tmdb"`
		Matching struct {
			ConfidenceThreshold int `toml:"confidence_threshold"`
		} `toml:"matching"`
		Paths struct {
			MoviesDir string `toml:"movies_dir"`
		} `toml:"paths"`
	}
	custom := payload{}
	custom.TMDB.APIKey = "abc123"
	custom.TMDB.BaseURL = "https://example.com/tmdb"
	custom.Matching.ConfidenceThreshold = 85
	custom.Paths.MoviesDir = filepath.Join(tempDir, "movies")
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.TMDB.APIKey != "abc123" {
		t.Fatalf("expected TMDB key from file, got %q", cfg.TMDB.APIKey)
	}
	if cfg.TMDB.BaseURL != "https://example.com/tmdb" {
		t.Fatalf("expected TMDB base url override, got %q", cfg.TMDB.BaseURL)
	}
	if cfg.Matching.ConfidenceThreshold != 85 {
		t.Fatalf("expected threshold 85, got %d", cfg.Matching.ConfidenceThreshold)
	}
	if cfg.Paths.MoviesDir != filepath.Join(tempDir, "movies") {
		t.Fatalf("unexpected movies dir: %q", cfg.Paths.MoviesDir)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "[matching]") {
		t.Fatalf("sample config missing matching section: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Matching.ConfidenceThreshold = 120
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for threshold above 100")
	}

	cfg = config.Default()
	cfg.Matching.YearHintFloor = 90
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when year hint floor exceeds threshold")
	}

	cfg = config.Default()
	cfg.Sanitize.Strategy = "shout"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported sanitize strategy")
	}

	cfg = config.Default()
	cfg.Kids.MaxAge = 30
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range kids age")
	}

	cfg = config.Default()
	cfg.Paths.MoviesDir = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing movies dir")
	}
}

func TestNormalizeFillsZeroValues(t *testing.T) {
	cfg := config.Default()
	cfg.Matching.MaxQueries = 0
	cfg.TMDB.CallBudget = 0
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "cfg.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	loaded, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Matching.MaxQueries != 6 {
		t.Fatalf("expected default max queries, got %d", loaded.Matching.MaxQueries)
	}
	if loaded.TMDB.CallBudget != 40 {
		t.Fatalf("expected default call budget, got %d", loaded.TMDB.CallBudget)
	}
}
