package identify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"mediasort/internal/config"
	"mediasort/internal/logging"
	"mediasort/internal/normalize"
	"mediasort/internal/pickcache"
	"mediasort/internal/textutil"
	"mediasort/internal/tmdb"
)

// Engine classifies source names. A nil searcher runs the engine offline:
// cache hits aside, every name is classified from its own signals.
type Engine struct {
	cfg      *config.Config
	cache    *pickcache.Cache
	logger   *slog.Logger
	resolver *resolver
}

// New constructs a classification engine.
func New(cfg *config.Config, searcher tmdb.Searcher, cache *pickcache.Cache, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	if cache == nil {
		cache = pickcache.New("", false, logger)
	}
	return &Engine{
		cfg:      cfg,
		cache:    cache,
		logger:   logging.NewComponentLogger(logger, "identify"),
		resolver: newResolver(searcher, cfg, logger),
	}
}

// ResetBudget restores the remote call budget for a new run.
func (e *Engine) ResetBudget() { e.resolver.budget.reset() }

// CacheKey returns the memo key for a raw source name.
func (e *Engine) CacheKey(raw string) string {
	return pickcache.Key(textutil.SanitizeTitle(Stem(raw), e.sanitizeStrategy()))
}

// Classify resolves one source name to a decision. It never panics: any
// failure inside the pipeline degrades to an unclassified decision.
func (e *Engine) Classify(ctx context.Context, raw string) (decision Decision) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("classification panicked",
				logging.String(logging.FieldEventType, "classify_panic"),
				logging.String("source", raw),
				logging.Any("panic", r))
			decision = Decision{Kind: KindUnclassified, Detail: fmt.Sprintf("internal error: %v", r)}
		}
	}()
	return e.classify(ctx, raw, nil)
}

// OnConfidentDecision memoizes a confident decision under the given key.
func (e *Engine) OnConfidentDecision(key string, d Decision) {
	if !d.Confident() {
		return
	}
	e.cache.Remember(key, pickcache.Entry{
		Kind:       string(d.Kind),
		Title:      d.Title,
		Year:       d.Year,
		MetadataID: d.MetadataID,
	})
}

// classify runs the pipeline; extraQueries are tried before the derived
// ones (used by the rescue pass).
func (e *Engine) classify(ctx context.Context, raw string, extraQueries []string) Decision {
	stem := strings.TrimSpace(Stem(raw))
	if stem == "" {
		return Decision{Kind: KindUnclassified, Detail: "empty name"}
	}

	cleaned := normalize.Preprocess(stem)
	years := normalize.ExtractYears(stem)
	yearHint := 0
	allowedYears := make(map[int]bool, len(years))
	for _, y := range years {
		allowedYears[y] = true
	}
	if len(years) > 0 {
		yearHint = years[0]
	}

	tvHint := normalize.HasTVMarkers(stem) || normalize.HasTVMarkers(cleaned)
	season, episode, hasMarkers := normalize.ParseEpisodeMarkers(stem)
	if !hasMarkers {
		season, episode, hasMarkers = normalize.ParseEpisodeMarkers(cleaned)
	}

	// Titles like "12 Monos" produce phantom markers; trust the title shape.
	if hasMarkers && !tvHint && normalize.LooksLikeLeadingNumberTitle(cleaned) {
		hasMarkers = false
	}
	suspicious := hasMarkers && ((season >= 1900 && season <= 2099) ||
		(episode >= 366 && normalize.SuspiciousEpisodeWords(stem)))

	key := e.CacheKey(raw)
	if entry, ok := e.cache.Lookup(key); ok {
		return e.fromCache(entry, season, episode, hasMarkers, tvHint)
	}

	threshold := e.cfg.Matching.ConfidenceThreshold
	if yearHint != 0 && !tvHint {
		threshold = max(e.cfg.Matching.YearHintFloor, threshold-6)
	}

	if cleaned == "" && len(extraQueries) == 0 {
		return Decision{Kind: KindUnclassified, Detail: "name reduced to nothing"}
	}

	queries := append([]string(nil), extraQueries...)
	queries = append(queries, buildQueries(stem, cleaned, tvHint, yearHint, e.cfg.Matching.MaxQueries)...)
	if len(queries) == 0 {
		return Decision{Kind: KindUnclassified, Detail: "no usable queries"}
	}

	res, err := e.resolver.resolve(ctx, resolveRequest{
		stem:         stem,
		queries:      queries,
		imdbID:       normalize.FindIMDbID(stem),
		yearHint:     yearHint,
		allowedYears: allowedYears,
		tvHint:       tvHint,
		threshold:    threshold,
	})
	if err != nil {
		return Decision{Kind: KindUnclassified, Detail: err.Error()}
	}

	in := fuseInput{
		stem:         stem,
		cleaned:      cleaned,
		key:          key,
		threshold:    threshold,
		yearHint:     yearHint,
		allowedYears: allowedYears,
		tvHint:       tvHint,
		season:       season,
		episode:      episode,
		hasMarkers:   hasMarkers,
		suspicious:   suspicious,
	}
	if res == nil {
		return e.guessOnly(in)
	}
	return e.fuse(res, in)
}

type fuseInput struct {
	stem         string
	cleaned      string
	key          string
	threshold    int
	yearHint     int
	allowedYears map[int]bool
	tvHint       bool
	season       int
	episode      int
	hasMarkers   bool
	suspicious   bool
}

// fuse combines the resolver's match with the filename signals into the
// final decision.
func (e *Engine) fuse(res *resolution, in fuseInput) Decision {
	isTV := res.MediaType == "tv"
	// Metadata never flips a name to TV without a filename TV signal.
	if isTV && !in.tvHint {
		isTV = false
	}
	// A marker-bearing name stays an episode unless the movie match is
	// confident enough to override, or the markers look bogus.
	if in.tvHint && !isTV {
		if !in.suspicious && res.Score < in.threshold {
			isTV = true
		}
	}

	season, episode := in.season, in.episode
	if isTV && (!in.hasMarkers || in.suspicious) {
		season, episode = 1, 1
	}

	year := res.Year
	if len(in.allowedYears) > 0 && year != 0 && !in.allowedYears[year] {
		year = in.yearHint
	}
	if in.yearHint != 0 && year != 0 {
		drift := year - in.yearHint
		if drift < 0 {
			drift = -drift
		}
		if drift > 1 && res.Score < in.threshold {
			year = in.yearHint
		}
	}
	if year == 0 {
		year = in.yearHint
	}

	title := e.repairTitle(res.Title, in.cleaned)
	if title == "" {
		return Decision{Kind: KindUnclassified, Detail: "no usable title"}
	}
	if !isTV && weakMovieTitle(title, year) {
		return Decision{Kind: KindUnclassified, Detail: fmt.Sprintf("title %q too weak", title)}
	}
	safe := e.sanitizeTitle(title)
	if safe == "" {
		return Decision{Kind: KindUnclassified, Detail: fmt.Sprintf("title %q failed sanitization", title)}
	}

	age, ageKnown := certificationMinAge(res.CertBlocks, e.cfg.Kids.CountryOrder)
	kids := isKidsContent(safe, age, ageKnown, res.Genres, e.cfg.Kids)

	kind := KindMovie
	if isTV {
		kind = KindTV
	}
	decision := Decision{
		Kind:       kind.withKids(kids),
		Title:      safe,
		Year:       year,
		Kids:       kids,
		MetadataID: res.ID,
		Score:      res.Score,
		Detail:     fmt.Sprintf("matched %q", res.Query),
	}
	if isTV {
		decision.Season, decision.Episode = season, episode
	}

	e.logger.Info("classification decided",
		logging.String(logging.FieldEventType, "decision_made"),
		logging.String("source", in.stem),
		logging.String("kind", string(decision.Kind)),
		logging.String("title", decision.Title),
		logging.Int("score", decision.Score),
		logging.String("decision_result", textutil.Ternary(isTV, "episode", "movie")))

	e.OnConfidentDecision(in.key, decision)
	return decision
}

// guessOnly classifies from the filename signals alone. It runs when the
// catalog gave no acceptable candidate, including when the catalog is down
// or the engine is offline: episode markers make the name an episode with
// the title head, anything else files as a movie unless the title is too
// weak to trust. Guesses carry no metadata id and are never memoized.
func (e *Engine) guessOnly(in fuseInput) Decision {
	title := in.cleaned
	if in.tvHint {
		if head := normalize.TVTitleHead(in.cleaned); head != "" {
			title = head
		}
	}
	title = yearParenRE.ReplaceAllString(title, " ")
	title = bareYearRE.ReplaceAllString(title, " ")
	title = normalize.StripUploaderFromTitle(title)
	title = normalize.StripReleaseTokens(title)
	title = textutil.CollapseRepeatedPhrases(title)
	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		return Decision{Kind: KindUnclassified, Detail: "no confident match"}
	}
	if !in.tvHint && weakMovieTitle(title, in.yearHint) {
		return Decision{Kind: KindUnclassified, Detail: fmt.Sprintf("no confident match and title %q too weak", title)}
	}
	safe := e.sanitizeTitle(title)
	if safe == "" {
		return Decision{Kind: KindUnclassified, Detail: fmt.Sprintf("title %q failed sanitization", title)}
	}

	kind := KindMovie
	if in.tvHint {
		kind = KindTV
	}
	decision := Decision{
		Kind:   kind,
		Title:  safe,
		Year:   in.yearHint,
		Detail: "classified from the name",
	}
	if in.tvHint {
		decision.Season, decision.Episode = in.season, in.episode
		if !in.hasMarkers || in.suspicious {
			decision.Season, decision.Episode = 1, 1
		}
	}

	e.logger.Info("classification decided",
		logging.String(logging.FieldEventType, "decision_made"),
		logging.String("source", in.stem),
		logging.String("kind", string(decision.Kind)),
		logging.String("title", decision.Title),
		logging.Int("score", decision.Score),
		logging.String("decision_result", textutil.Ternary(in.tvHint, "episode", "movie")))
	return decision
}

// fromCache rebuilds a decision from a memoized pick, re-applying the
// current name's episode markers.
func (e *Engine) fromCache(entry pickcache.Entry, season, episode int, hasMarkers, tvHint bool) Decision {
	kind := Kind(entry.Kind)
	d := Decision{
		Kind:       kind,
		Title:      entry.Title,
		Year:       entry.Year,
		Kids:       kind == KindMovieKids || kind == KindTVKids,
		MetadataID: entry.MetadataID,
		Score:      e.cfg.Matching.ConfidenceThreshold + 5,
		Detail:     "pick cache",
	}
	if d.IsTV() {
		d.Season, d.Episode = 1, 1
		if hasMarkers {
			d.Season, d.Episode = season, episode
		}
	}
	return d
}

func (e *Engine) repairTitle(title, cleaned string) string {
	title = normalize.RepairTitle(title, "", cleaned)
	title = normalize.StripUploaderFromTitle(title)
	title = normalize.StripReleaseTokens(title)
	title = textutil.CollapseRepeatedPhrases(title)
	return strings.TrimSpace(title)
}

// weakMovieTitle rejects movie titles too thin to trust: fewer than two
// words and at most three characters, with no year to anchor them.
func weakMovieTitle(title string, year int) bool {
	if year != 0 {
		return false
	}
	words := strings.Fields(title)
	return len(words) < 2 && len([]rune(title)) <= 3
}

func (e *Engine) sanitizeStrategy() textutil.Strategy {
	switch e.cfg.Sanitize.Strategy {
	case "drop":
		return textutil.StrategyDrop
	case "keep":
		return textutil.StrategyKeep
	default:
		return textutil.StrategyTransliterate
	}
}

// sanitizeTitle renders a filesystem-safe title, retrying with forced
// transliteration when the first pass fails the quality gate.
func (e *Engine) sanitizeTitle(title string) string {
	safe := textutil.SanitizeTitle(title, e.sanitizeStrategy())
	if textutil.NameQuality(safe) {
		return safe
	}
	retry := textutil.SanitizeTitle(textutil.Romanize(title), textutil.StrategyTransliterate)
	if textutil.NameQuality(retry) {
		return retry
	}
	return ""
}
