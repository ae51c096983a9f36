package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeTMDB(); err != nil {
		return err
	}
	c.normalizeMatching()
	c.normalizeKids()
	if err := c.normalizePickCache(); err != nil {
		return err
	}
	c.normalizeSanitize()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.MoviesDir, err = expandPath(c.Paths.MoviesDir); err != nil {
		return fmt.Errorf("paths.movies_dir: %w", err)
	}
	if c.Paths.TVDir, err = expandPath(c.Paths.TVDir); err != nil {
		return fmt.Errorf("paths.tv_dir: %w", err)
	}
	if c.Paths.KidsMoviesDir, err = expandPath(c.Paths.KidsMoviesDir); err != nil {
		return fmt.Errorf("paths.kids_movies_dir: %w", err)
	}
	if c.Paths.KidsTVDir, err = expandPath(c.Paths.KidsTVDir); err != nil {
		return fmt.Errorf("paths.kids_tv_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTMDB() error {
	if c.TMDB.APIKey == "" {
		if value, ok := os.LookupEnv("TMDB_API_KEY"); ok {
			c.TMDB.APIKey = strings.TrimSpace(value)
		}
	}
	c.TMDB.BaseURL = strings.TrimSpace(c.TMDB.BaseURL)
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)
	if c.TMDB.Language == "" {
		c.TMDB.Language = defaultTMDBLanguage
	}
	c.TMDB.AltTitleCountry = strings.ToUpper(strings.TrimSpace(c.TMDB.AltTitleCountry))
	if c.TMDB.RequestTimeout <= 0 {
		c.TMDB.RequestTimeout = defaultRequestTimeout
	}
	if c.TMDB.RetryAttempts <= 0 {
		c.TMDB.RetryAttempts = defaultRetryAttempts
	}
	if c.TMDB.RetryDelaySeconds <= 0 {
		c.TMDB.RetryDelaySeconds = defaultRetryDelaySeconds
	}
	if c.TMDB.CallBudget <= 0 {
		c.TMDB.CallBudget = defaultCallBudget
	}
	return nil
}

func (c *Config) normalizeMatching() {
	m := &c.Matching
	if m.ConfidenceThreshold <= 0 {
		m.ConfidenceThreshold = defaultConfidenceThreshold
	}
	if m.YearHintFloor <= 0 {
		m.YearHintFloor = defaultYearHintFloor
	}
	if m.SingleMatchFloor <= 0 {
		m.SingleMatchFloor = defaultSingleMatchFloor
	}
	if m.AcceptMargin <= 0 {
		m.AcceptMargin = defaultAcceptMargin
	}
	if m.TypeFlipMargin <= 0 {
		m.TypeFlipMargin = defaultTypeFlipMargin
	}
	if m.ReleaseTagPenalty <= 0 {
		m.ReleaseTagPenalty = defaultReleaseTagPenalty
	}
	if m.DocumentaryPenalty <= 0 {
		m.DocumentaryPenalty = defaultDocumentaryPenalty
	}
	if m.TVPenalty <= 0 {
		m.TVPenalty = defaultTVPenalty
	}
	if m.YearDriftPenalty <= 0 {
		m.YearDriftPenalty = defaultYearDriftPenalty
	}
	if m.MaxQueries <= 0 {
		m.MaxQueries = defaultMaxQueries
	}
	if m.MaxAltQueries <= 0 {
		m.MaxAltQueries = defaultMaxAltQueries
	}
}

func (c *Config) normalizeKids() {
	if c.Kids.MaxAge <= 0 {
		c.Kids.MaxAge = defaultKidsMaxAge
	}
	if len(c.Kids.Genres) == 0 {
		c.Kids.Genres = []string{"Family", "Animation", "Kids"}
	}
	if len(c.Kids.CountryOrder) == 0 {
		c.Kids.CountryOrder = []string{"ES", "US", "GB"}
	}
	countries := make([]string, 0, len(c.Kids.CountryOrder))
	for _, country := range c.Kids.CountryOrder {
		normalized := strings.ToUpper(strings.TrimSpace(country))
		if normalized != "" {
			countries = append(countries, normalized)
		}
	}
	c.Kids.CountryOrder = countries
	words := make([]string, 0, len(c.Kids.TitleBlacklist))
	for _, word := range c.Kids.TitleBlacklist {
		normalized := strings.ToLower(strings.TrimSpace(word))
		if normalized != "" {
			words = append(words, normalized)
		}
	}
	c.Kids.TitleBlacklist = words
}

func (c *Config) normalizePickCache() error {
	var err error
	if strings.TrimSpace(c.PickCache.Path) == "" {
		c.PickCache.Path = defaultPickCachePath
	}
	if c.PickCache.Path, err = expandPath(c.PickCache.Path); err != nil {
		return fmt.Errorf("pick_cache.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeSanitize() {
	c.Sanitize.Strategy = strings.ToLower(strings.TrimSpace(c.Sanitize.Strategy))
	if c.Sanitize.Strategy == "" {
		c.Sanitize.Strategy = defaultSanitizeStrategy
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
}
