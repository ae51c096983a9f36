package identify

import (
	"regexp"
	"strings"

	"mediasort/internal/normalize"
	"mediasort/internal/textutil"
)

var (
	parenChunkRE = regexp.MustCompile(`\([^)]*\)`)
	yearParenRE  = regexp.MustCompile(`\(\s*(?:19|20)\d{2}\s*\)`)
	bareYearRE   = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
)

// buildQueries assembles the candidate search strings for one source name,
// most specific first, deduped case-insensitively and capped at max.
func buildQueries(stem, cleaned string, tvHint bool, yearHint int, max int) []string {
	if max <= 0 {
		max = 6
	}

	var sources []string
	if hyphen := normalize.PickTitleFromHyphens(stem); hyphen != "" {
		sources = append(sources, hyphen)
	}
	if tvHint {
		if head := normalize.TVTitleHead(cleaned); head != "" {
			sources = append(sources, head)
		}
	}
	core := strings.TrimSpace(parenChunkRE.ReplaceAllString(cleaned, " "))
	if core != "" {
		sources = append(sources, core)
	}
	yearless := strings.TrimSpace(yearParenRE.ReplaceAllString(cleaned, " "))
	if yearless != "" {
		sources = append(sources, yearless)
	}
	if seg := segmentNearYear(stem); seg != "" {
		sources = append(sources, seg)
	}
	if phrase := textutil.LongestLatinPhrase(stem); phrase != "" {
		sources = append(sources, phrase)
	}
	if alt := normalize.ASCIIParenthetical(stem); alt != "" {
		sources = append(sources, alt)
	}
	sources = append(sources, cleaned)

	seen := make(map[string]bool)
	var queries []string
	for _, src := range sources {
		q := normalize.CleanQuery(src)
		if !queryOK(q, yearHint) {
			continue
		}
		key := strings.ToLower(q)
		if seen[key] {
			continue
		}
		seen[key] = true
		queries = append(queries, q)
		if len(queries) >= max {
			break
		}
	}
	return queries
}

// queryOK gates a candidate query: it must carry real words, no leftover
// release noise, and a single word only when long enough or backed by a
// year hint.
func queryOK(q string, yearHint int) bool {
	q = strings.TrimSpace(q)
	if q == "" || !normalize.HasThreeAlpha(q) {
		return false
	}
	if normalize.HasDomain(q) || normalize.HasReleaseTags(q) || normalize.HasStartJunk(q) {
		return false
	}
	words := strings.Fields(q)
	if len(words) == 1 && len([]rune(words[0])) < 4 && yearHint == 0 {
		return false
	}
	return true
}

// segmentNearYear returns the text following the first bare year token,
// which often holds the real title in "1999 - Title" shapes.
func segmentNearYear(stem string) string {
	loc := bareYearRE.FindStringIndex(stem)
	if loc == nil {
		return ""
	}
	rest := strings.Trim(stem[loc[1]:], " -._([")
	if !normalize.HasThreeAlpha(rest) {
		return ""
	}
	return rest
}
