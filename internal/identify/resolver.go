package identify

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"

	"mediasort/internal/config"
	"mediasort/internal/logging"
	"mediasort/internal/normalize"
	"mediasort/internal/textutil"
	"mediasort/internal/tmdb"
)

// knownTitleOverrides patches catalog titles that come back in unusable
// forms, keyed by "<media type>/<id>".
var knownTitleOverrides = map[string]string{
	"movie/62": "2001: A Space Odyssey",
}

var errBudgetExhausted = errors.New("remote call budget exhausted")

// callBudget caps the number of remote calls in one run.
type callBudget struct {
	mu     sync.Mutex
	limit  int
	used   int
	warned bool
}

func newCallBudget(limit int) *callBudget {
	if limit <= 0 {
		limit = 40
	}
	return &callBudget{limit: limit}
}

func (b *callBudget) spend() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.used >= b.limit {
		return false
	}
	b.used++
	return true
}

// noteExhausted reports true exactly once per run, so exhaustion is warned
// about a single time rather than on every blocked call.
func (b *callBudget) noteExhausted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.warned {
		return false
	}
	b.warned = true
	return true
}

func (b *callBudget) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.used = 0
	b.warned = false
}

// resolution is an accepted catalog match enriched with detail data.
type resolution struct {
	MediaType  string
	ID         int64
	Title      string
	Year       int
	Score      int
	Query      string
	GenreIDs   []int64
	Genres     []string
	CertBlocks []tmdb.CertBlock
}

type resolveRequest struct {
	stem         string
	queries      []string
	imdbID       string
	yearHint     int
	allowedYears map[int]bool
	tvHint       bool
	threshold    int
}

type resolver struct {
	searcher tmdb.Searcher
	cfg      *config.Config
	logger   *slog.Logger
	budget   *callBudget
}

func newResolver(searcher tmdb.Searcher, cfg *config.Config, logger *slog.Logger) *resolver {
	return &resolver{
		searcher: searcher,
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "resolver"),
		budget:   newCallBudget(cfg.TMDB.CallBudget),
	}
}

// candidate is one scored search hit.
type candidate struct {
	result    tmdb.Result
	mediaType string
	query     string
	score     int
}

// resolve runs the query rounds against the catalog and returns the best
// acceptable match, or nil when nothing clears the bar.
func (r *resolver) resolve(ctx context.Context, req resolveRequest) (*resolution, error) {
	if r.searcher == nil {
		return nil, nil
	}

	if req.imdbID != "" {
		if res := r.resolveIMDb(ctx, req.imdbID); res != nil {
			return res, nil
		}
	}

	best, distinct := r.searchRounds(ctx, req.queries, req, true)
	accepted := best != nil && best.score >= req.threshold

	if !accepted && len(distinct) == 1 {
		// A lone plausible candidate across every query is usually right
		// even when it misses the confidence bar.
		floor := max(r.cfg.Matching.SingleMatchFloor, req.threshold-10)
		for _, lone := range distinct {
			if lone.score >= floor && (best == nil || lone.score >= best.score) {
				best = lone
				accepted = true
			}
		}
	}

	if !accepted {
		if alt := r.alternateSweep(ctx, req, best); alt != nil {
			best = alt
			accepted = true
		}
	}

	if !accepted || best == nil {
		return nil, ctx.Err()
	}
	return r.finalize(ctx, best), ctx.Err()
}

// searchRounds runs the adult rounds over every query and media type,
// returning the best candidate plus the distinct candidates seen.
func (r *resolver) searchRounds(ctx context.Context, queries []string, req resolveRequest, allowAdultRound bool) (*candidate, map[string]*candidate) {
	mediaOrder := []string{"movie", "multi", "tv"}
	if req.tvHint {
		mediaOrder = []string{"tv"}
	}

	rounds := []bool{r.cfg.TMDB.IncludeAdult}
	if allowAdultRound && !r.cfg.TMDB.IncludeAdult {
		rounds = append(rounds, true)
	}

	var best *candidate
	distinct := make(map[string]*candidate)

	for roundIdx, adult := range rounds {
		if roundIdx > 0 && best != nil && best.score >= req.threshold {
			break
		}
		for _, query := range queries {
			sc := scoreContext{
				yearHint:     req.yearHint,
				allowedYears: req.allowedYears,
				tvHint:       req.tvHint,
				docHint:      normalize.HasDocHint(query),
				matching:     r.cfg.Matching,
			}
			for _, mediaType := range mediaOrder {
				if ctx.Err() != nil {
					return best, distinct
				}
				results := r.searchWithFallback(ctx, mediaType, query, adult, req.yearHint)
				for i := range results {
					hit := results[i]
					hitType := mediaType
					if mediaType == "multi" {
						hitType = hit.MediaType
					}
					score, ok := scoreCandidate(&hit, hitType, query, sc)
					if !ok {
						continue
					}
					key := hitType + "/" + strconv.FormatInt(hit.ID, 10)
					if prev, seen := distinct[key]; !seen || score > prev.score {
						distinct[key] = &candidate{result: hit, mediaType: hitType, query: query, score: score}
					}
					if best == nil || score > best.score {
						best = distinct[key]
					}
				}
				if best != nil && best.score >= req.threshold {
					break
				}
			}
			if best != nil && best.score >= req.threshold {
				return best, distinct
			}
		}
	}
	return best, distinct
}

// searchWithFallback tries the configured language with the year filter,
// then progressively relaxes: no year, then en-US. First non-empty wins.
func (r *resolver) searchWithFallback(ctx context.Context, mediaType, query string, adult bool, yearHint int) []tmdb.Result {
	langs := []string{r.cfg.TMDB.Language}
	if r.cfg.TMDB.Language != "en-US" {
		langs = append(langs, "en-US")
	}

	for _, lang := range langs {
		years := []int{0}
		if yearHint != 0 && mediaType != "multi" {
			years = []int{yearHint, 0}
		}
		for _, year := range years {
			resp, err := r.search(ctx, mediaType, query, tmdb.SearchOptions{
				Year:         year,
				Language:     lang,
				IncludeAdult: adult,
			})
			if err != nil {
				if errors.Is(err, errBudgetExhausted) {
					return nil
				}
				r.logger.Warn("catalog search failed",
					logging.String(logging.FieldEventType, "catalog_search_failed"),
					logging.String("media_type", mediaType),
					logging.String("query", query),
					logging.Error(err))
				continue
			}
			if len(resp.Results) > 0 {
				return resp.Results
			}
		}
	}
	return nil
}

// spend consumes one unit of the remote call budget, warning once per run
// when the budget runs out.
func (r *resolver) spend() bool {
	if r.budget.spend() {
		return true
	}
	if r.budget.noteExhausted() {
		r.logger.Warn("remote call budget exhausted",
			logging.String(logging.FieldEventType, "call_budget_exhausted"),
			logging.Int("limit", r.budget.limit))
	}
	return false
}

func (r *resolver) search(ctx context.Context, mediaType, query string, opts tmdb.SearchOptions) (*tmdb.Response, error) {
	if !r.spend() {
		return nil, errBudgetExhausted
	}
	switch mediaType {
	case "movie":
		return r.searcher.SearchMovie(ctx, query, opts)
	case "tv":
		return r.searcher.SearchTV(ctx, query, opts)
	default:
		return r.searcher.SearchMulti(ctx, query, opts)
	}
}

// alternateSweep derives fresh query candidates from the raw stem and
// accepts one only when it beats the current best by a real margin.
func (r *resolver) alternateSweep(ctx context.Context, req resolveRequest, current *candidate) *candidate {
	alts := altCandidates(req.stem, req.yearHint, req.queries)
	tried := 0
	best := current
	for _, alt := range alts {
		if tried >= r.cfg.Matching.MaxAltQueries {
			break
		}
		tried++
		hit, _ := r.searchRounds(ctx, []string{alt}, req, false)
		if hit == nil {
			continue
		}
		need := req.threshold
		if best != nil {
			margin := r.cfg.Matching.AcceptMargin
			if hit.mediaType != best.mediaType && !req.tvHint {
				margin = r.cfg.Matching.TypeFlipMargin
			}
			need = max(req.threshold, best.score+margin)
		}
		if hit.score >= need {
			best = hit
		}
	}
	if best != current && best != nil && best.score >= req.threshold {
		return best
	}
	return nil
}

// altCandidates builds the alternate query list: the best parenthetical
// first, then stem segments, year-bearing segments promoted, capped at six.
func altCandidates(stem string, yearHint int, already []string) []string {
	var raw []string
	if best := normalize.BestParentheticalCandidate(stem); best != "" {
		raw = append(raw, best)
	}
	raw = append(raw, normalize.SplitCandidateSegments(stem)...)

	sort.SliceStable(raw, func(i, j int) bool {
		return yearParenRE.MatchString(raw[i]) && !yearParenRE.MatchString(raw[j])
	})

	seen := make(map[string]bool, len(already))
	for _, q := range already {
		seen[strings.ToLower(q)] = true
	}
	var out []string
	for _, cand := range raw {
		q := normalize.CleanQuery(cand)
		if !queryOK(q, yearHint) {
			continue
		}
		key := strings.ToLower(q)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, q)
		if len(out) >= 6 {
			break
		}
	}
	return out
}

// resolveIMDb short-circuits resolution when the name carries an IMDb id.
func (r *resolver) resolveIMDb(ctx context.Context, imdbID string) *resolution {
	if !r.spend() {
		return nil
	}
	result, err := r.searcher.FindByIMDbID(ctx, imdbID)
	if err != nil {
		r.logger.Warn("imdb lookup failed",
			logging.String(logging.FieldEventType, "imdb_lookup_failed"),
			logging.String("imdb_id", imdbID),
			logging.Error(err))
		return nil
	}
	if result == nil {
		return nil
	}
	return r.finalize(ctx, &candidate{result: *result, mediaType: result.MediaType, query: imdbID, score: 100})
}

// finalize enriches an accepted candidate with detail data: genres and
// certifications for the kids rule, localized and alternative titles, and
// the known-title override table.
func (r *resolver) finalize(ctx context.Context, best *candidate) *resolution {
	res := &resolution{
		MediaType: best.mediaType,
		ID:        best.result.ID,
		Title:     best.result.DisplayTitle(),
		Year:      best.result.Year(),
		Score:     best.score,
		Query:     best.query,
		GenreIDs:  best.result.GenreIDs,
	}
	if res.Title == "" {
		res.Title = best.result.OriginalDisplayTitle()
	}

	if details := r.fetchDetails(ctx, res.MediaType, res.ID); details != nil {
		res.Genres = details.GenreNames()
		res.CertBlocks = details.CertBlocks()
		if res.Year == 0 {
			res.Year = details.Year()
		}
		for _, g := range details.Genres {
			res.GenreIDs = append(res.GenreIDs, g.ID)
		}
	}

	if textutil.NonLatinRatio(res.Title) >= 0.6 {
		if english := r.fetchTitleIn(ctx, res.MediaType, res.ID, "en-US"); english != "" {
			res.Title = english
		}
	}
	if alt := r.fetchAlternativeTitle(ctx, res.MediaType, res.ID); alt != "" {
		res.Title = alt
	}
	if override, ok := knownTitleOverrides[res.MediaType+"/"+strconv.FormatInt(res.ID, 10)]; ok {
		res.Title = override
	}
	res.Title = textutil.CollapseRepeatedPhrases(res.Title)
	return res
}

func (r *resolver) fetchDetails(ctx context.Context, mediaType string, id int64) *tmdb.Details {
	if mediaType != "movie" && mediaType != "tv" {
		return nil
	}
	if !r.spend() {
		return nil
	}
	var (
		details *tmdb.Details
		err     error
	)
	if mediaType == "movie" {
		details, err = r.searcher.MovieDetails(ctx, id, "")
	} else {
		details, err = r.searcher.TVDetails(ctx, id, "")
	}
	if err != nil {
		r.logger.Warn("detail fetch failed",
			logging.String(logging.FieldEventType, "detail_fetch_failed"),
			logging.String("media_type", mediaType),
			logging.Int64("metadata_id", id),
			logging.Error(err))
		return nil
	}
	return details
}

func (r *resolver) fetchTitleIn(ctx context.Context, mediaType string, id int64, language string) string {
	if mediaType != "movie" && mediaType != "tv" {
		return ""
	}
	if !r.spend() {
		return ""
	}
	title, err := r.searcher.TitleInLanguage(ctx, mediaType, id, language)
	if err != nil {
		r.logger.Debug("localized title fetch failed",
			logging.String("media_type", mediaType),
			logging.Int64("metadata_id", id),
			logging.Error(err))
		return ""
	}
	return title
}

// fetchAlternativeTitle prefers the configured country's alternative title,
// falling back to the US one.
func (r *resolver) fetchAlternativeTitle(ctx context.Context, mediaType string, id int64) string {
	country := strings.ToUpper(strings.TrimSpace(r.cfg.TMDB.AltTitleCountry))
	if country == "" || mediaType != "movie" && mediaType != "tv" {
		return ""
	}
	if !r.spend() {
		return ""
	}
	titles, err := r.searcher.AlternativeTitles(ctx, mediaType, id)
	if err != nil {
		r.logger.Debug("alternative titles fetch failed",
			logging.String("media_type", mediaType),
			logging.Int64("metadata_id", id),
			logging.Error(err))
		return ""
	}
	for _, want := range []string{country, "US"} {
		for _, alt := range titles {
			if strings.EqualFold(alt.Country, want) && strings.TrimSpace(alt.Title) != "" {
				return strings.TrimSpace(alt.Title)
			}
		}
	}
	return ""
}
