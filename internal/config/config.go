package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LogDir        string `toml:"log_dir"`
	StateDir      string `toml:"state_dir"`
	MoviesDir     string `toml:"movies_dir"`
	TVDir         string `toml:"tv_dir"`
	KidsMoviesDir string `toml:"kids_movies_dir"`
	KidsTVDir     string `toml:"kids_tv_dir"`
}

// TMDB contains configuration for The Movie Database API.
type TMDB struct {
	APIKey            string `toml:"api_key"`
	BaseURL           string `toml:"base_url"`
	Language          string `toml:"language"`
	AltTitleCountry   string `toml:"alt_title_country"`
	IncludeAdult      bool   `toml:"include_adult"`
	RequestTimeout    int    `toml:"request_timeout"`
	RetryAttempts     int    `toml:"retry_attempts"`
	RetryDelaySeconds int    `toml:"retry_delay_seconds"`
	CallBudget        int    `toml:"call_budget"`
}

// Matching contains the scoring and acceptance tuning for catalog candidates.
// The bonuses and penalties are empirically tuned to release-style naming and
// exposed here so they can be recalibrated per corpus.
type Matching struct {
	ConfidenceThreshold int `toml:"confidence_threshold"`
	YearHintFloor       int `toml:"year_hint_floor"`
	SingleMatchFloor    int `toml:"single_match_floor"`
	AcceptMargin        int `toml:"accept_margin"`
	TypeFlipMargin      int `toml:"type_flip_margin"`
	ReleaseTagPenalty   int `toml:"release_tag_penalty"`
	DocumentaryPenalty  int `toml:"documentary_penalty"`
	TVPenalty           int `toml:"tv_penalty"`
	YearDriftPenalty    int `toml:"year_drift_penalty"`
	MaxQueries          int `toml:"max_queries"`
	MaxAltQueries       int `toml:"max_alt_queries"`
}

// Kids contains configuration for the kids-content classification rule.
type Kids struct {
	Enabled        bool     `toml:"enabled"`
	MaxAge         int      `toml:"max_age"`
	Genres         []string `toml:"genres"`
	TitleBlacklist []string `toml:"title_blacklist"`
	CountryOrder   []string `toml:"country_order"`
}

// PickCache contains configuration for the confident-decision memo cache.
type PickCache struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Sanitize contains configuration for filesystem-safe title rendering.
type Sanitize struct {
	// Strategy is one of "transliterate", "drop", or "keep".
	Strategy string `toml:"strategy"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
	MaxSizeMB     int    `toml:"max_size_mb"`
}

// Config encapsulates all configuration values for mediasort.
//
// Configuration sections by subsystem:
//   - Paths: log/state directories and library roots
//   - TMDB: metadata catalog access, retry policy, and call budget
//   - Matching: candidate scoring constants and acceptance thresholds
//   - Kids: certification age limit, genre set, and title blacklist
//   - PickCache: confident-decision memo cache
//   - Sanitize: filesystem-safe title strategy
//   - Logging: log format, level, and rotation
type Config struct {
	Paths     Paths     `toml:"paths"`
	TMDB      TMDB      `toml:"tmdb"`
	Matching  Matching  `toml:"matching"`
	Kids      Kids      `toml:"kids"`
	PickCache PickCache `toml:"pick_cache"`
	Sanitize  Sanitize  `toml:"sanitize"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/mediasort/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("mediasort.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories. Library roots are created on
// a best-effort basis so runs still work when external storage is offline.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.StateDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	for _, dir := range []string{c.Paths.MoviesDir, c.Paths.TVDir, c.Paths.KidsMoviesDir, c.Paths.KidsTVDir} {
		if strings.TrimSpace(dir) != "" {
			_ = os.MkdirAll(dir, 0o755)
		}
	}
	return nil
}

// LedgerPath returns the decision ledger database location.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.Paths.StateDir, "ledger.db")
}

// LockPath returns the run lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "mediasort.lock")
}

// LogFilePath returns the rotated log file location, or empty when file
// logging is disabled.
func (c *Config) LogFilePath() string {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return ""
	}
	return filepath.Join(c.Paths.LogDir, "mediasort.log")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
