package config

const (
	defaultLogDir            = "~/.local/share/mediasort/logs"
	defaultStateDir          = "~/.local/share/mediasort/state"
	defaultMoviesDir         = "~/library/movies"
	defaultTVDir             = "~/library/tv"
	defaultTMDBLanguage      = "en-US"
	defaultTMDBBaseURL       = "https://api.themoviedb.org/3"
	defaultAltTitleCountry   = "ES"
	defaultRequestTimeout    = 10
	defaultRetryAttempts     = 3
	defaultRetryDelaySeconds = 2
	defaultCallBudget        = 40
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultLogRetentionDays  = 60
	defaultLogMaxSizeMB      = 20
	defaultPickCachePath     = "~/.cache/mediasort/picks.json"
	defaultSanitizeStrategy  = "transliterate"

	defaultConfidenceThreshold = 80
	defaultYearHintFloor       = 72
	defaultSingleMatchFloor    = 70
	defaultAcceptMargin        = 5
	defaultTypeFlipMargin      = 10
	defaultReleaseTagPenalty   = 15
	defaultDocumentaryPenalty  = 15
	defaultTVPenalty           = 15
	defaultYearDriftPenalty    = 30
	defaultMaxQueries          = 6
	defaultMaxAltQueries       = 3

	defaultKidsMaxAge = 7
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:    defaultLogDir,
			StateDir:  defaultStateDir,
			MoviesDir: defaultMoviesDir,
			TVDir:     defaultTVDir,
		},
		TMDB: TMDB{
			Language:          defaultTMDBLanguage,
			BaseURL:           defaultTMDBBaseURL,
			AltTitleCountry:   defaultAltTitleCountry,
			RequestTimeout:    defaultRequestTimeout,
			RetryAttempts:     defaultRetryAttempts,
			RetryDelaySeconds: defaultRetryDelaySeconds,
			CallBudget:        defaultCallBudget,
		},
		Matching: Matching{
			ConfidenceThreshold: defaultConfidenceThreshold,
			YearHintFloor:       defaultYearHintFloor,
			SingleMatchFloor:    defaultSingleMatchFloor,
			AcceptMargin:        defaultAcceptMargin,
			TypeFlipMargin:      defaultTypeFlipMargin,
			ReleaseTagPenalty:   defaultReleaseTagPenalty,
			DocumentaryPenalty:  defaultDocumentaryPenalty,
			TVPenalty:           defaultTVPenalty,
			YearDriftPenalty:    defaultYearDriftPenalty,
			MaxQueries:          defaultMaxQueries,
			MaxAltQueries:       defaultMaxAltQueries,
		},
		Kids: Kids{
			Enabled:        true,
			MaxAge:         defaultKidsMaxAge,
			Genres:         []string{"Family", "Animation", "Kids"},
			TitleBlacklist: []string{"biopic", "war", "historical", "drama"},
			CountryOrder:   []string{"ES", "US", "GB"},
		},
		PickCache: PickCache{
			Enabled: true,
			Path:    defaultPickCachePath,
		},
		Sanitize: Sanitize{
			Strategy: defaultSanitizeStrategy,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
			MaxSizeMB:     defaultLogMaxSizeMB,
		},
	}
}
