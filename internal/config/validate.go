package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable. The TMDB API key is checked
// lazily at client construction so offline cache and ledger commands work
// without one.
func (c *Config) Validate() error {
	if err := c.validateLibrary(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateKids(); err != nil {
		return err
	}
	if err := c.validateSanitize(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLibrary() error {
	if strings.TrimSpace(c.Paths.MoviesDir) == "" {
		return errors.New("paths.movies_dir must be set")
	}
	if strings.TrimSpace(c.Paths.TVDir) == "" {
		return errors.New("paths.tv_dir must be set")
	}
	return nil
}

func (c *Config) validateMatching() error {
	m := c.Matching
	if m.ConfidenceThreshold > 100 {
		return errors.New("matching.confidence_threshold must be at most 100")
	}
	if err := ensurePositiveMap(map[string]int{
		"matching.confidence_threshold": m.ConfidenceThreshold,
		"matching.year_hint_floor":      m.YearHintFloor,
		"matching.single_match_floor":   m.SingleMatchFloor,
		"matching.max_queries":          m.MaxQueries,
		"matching.max_alt_queries":      m.MaxAltQueries,
		"tmdb.call_budget":              c.TMDB.CallBudget,
		"tmdb.request_timeout":          c.TMDB.RequestTimeout,
		"tmdb.retry_attempts":           c.TMDB.RetryAttempts,
	}); err != nil {
		return err
	}
	if m.YearHintFloor > m.ConfidenceThreshold {
		return errors.New("matching.year_hint_floor must not exceed matching.confidence_threshold")
	}
	if m.SingleMatchFloor > m.ConfidenceThreshold {
		return errors.New("matching.single_match_floor must not exceed matching.confidence_threshold")
	}
	return nil
}

func (c *Config) validateKids() error {
	if !c.Kids.Enabled {
		return nil
	}
	if c.Kids.MaxAge <= 0 || c.Kids.MaxAge > 18 {
		return errors.New("kids.max_age must be between 1 and 18")
	}
	if len(c.Kids.CountryOrder) == 0 {
		return errors.New("kids.country_order must include at least one country")
	}
	return nil
}

func (c *Config) validateSanitize() error {
	switch c.Sanitize.Strategy {
	case "transliterate", "drop", "keep":
		return nil
	default:
		return fmt.Errorf("sanitize.strategy must be one of transliterate, drop, keep (got %q)", c.Sanitize.Strategy)
	}
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
