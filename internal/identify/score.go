package identify

import (
	"strings"

	"mediasort/internal/config"
	"mediasort/internal/normalize"
	"mediasort/internal/textutil"
	"mediasort/internal/tmdb"
)

const documentaryGenreID = 99

// scoreContext holds the per-item signals the scorer needs.
type scoreContext struct {
	yearHint     int
	allowedYears map[int]bool
	tvHint       bool
	docHint      bool
	matching     config.Matching
}

// scoreCandidate rates one catalog result against a query. ok is false when
// the candidate is rejected outright rather than merely scored low.
func scoreCandidate(result *tmdb.Result, mediaType, query string, sc scoreContext) (int, bool) {
	title := result.DisplayTitle()
	original := result.OriginalDisplayTitle()
	if title == "" && original == "" {
		return 0, false
	}

	// Short numeric tokens in the query ("13", "300") must show up in the
	// candidate somewhere, or it is a different film.
	for _, digits := range normalize.RequiredDigits(query) {
		if !strings.Contains(title, digits) && !strings.Contains(original, digits) &&
			!strings.Contains(result.Overview, digits) {
			return 0, false
		}
	}

	if !sc.docHint && (mediaType == "person" || normalize.IsPersonLike(title) || normalize.IsPersonLike(original)) {
		return 0, false
	}

	cq := normalize.CleanForScore(query)
	base := textutil.TokenSetRatio(cq, normalize.CleanForScore(title))
	if original != "" && original != title {
		if s := textutil.TokenSetRatio(cq, normalize.CleanForScore(original)); s > base {
			base = s
		}
		if s := textutil.TokenSetRatio(cq, normalize.CleanForScore(title+" "+original)); s > base {
			base = s
		}
	}

	if normalize.HasReleaseTags(title) || normalize.HasLangTags(title) || normalize.HasUploaderWord(title) {
		base -= sc.matching.ReleaseTagPenalty
	}

	// A filename year is a hard constraint: dateless candidates are as
	// unverifiable as mismatched ones.
	candYear := result.Year()
	if len(sc.allowedYears) > 0 && !sc.allowedYears[candYear] {
		return 0, false
	}
	if sc.yearHint != 0 && candYear != 0 {
		drift := candYear - sc.yearHint
		if drift < 0 {
			drift = -drift
		}
		if drift > 1 && base < 90 {
			return 0, false
		}
		switch {
		case drift == 0:
			base += 20
		case drift == 1:
			base += 12
		case drift <= 2:
			base += 6
		default:
			base -= min(10, 2*drift)
		}
		if drift > 1 {
			base -= sc.matching.YearDriftPenalty
		}
	}

	if !sc.docHint && (mediaType == "person" || hasGenre(result, documentaryGenreID)) {
		base -= sc.matching.DocumentaryPenalty
	}
	if mediaType == "tv" && !sc.tvHint {
		base -= sc.matching.TVPenalty
	}

	// The raw sum ranks candidates; year bonuses can push it past 100, and
	// clamping would erase the ordering between two strong matches.
	return base, true
}

func hasGenre(result *tmdb.Result, id int64) bool {
	for _, g := range result.GenreIDs {
		if g == id {
			return true
		}
	}
	return false
}
