package normalize

import (
	"regexp"
	"strings"

	"mediasort/internal/textutil"
)

var (
	commaSplitRE    = regexp.MustCompile(`\s*,\s*`)
	hyphenSplitRE   = regexp.MustCompile(`\s*-\s*`)
	parenInnerRE    = regexp.MustCompile(`\(([^)]{2,})\)`)
	hyphenYearHead  = regexp.MustCompile(`^\s*((?:19|20)\d{2})\s*-\s*(.+)$`)
	hyphenYearTail  = regexp.MustCompile(`^(.+?)\s*-\s*(?:19|20)\d{2}\b`)
	leadingDigitsRE = regexp.MustCompile(`^\d+`)
	markerOrYearRE  = regexp.MustCompile(`(?:S\d{1,2}E\d{1,2}|\b(?:19|20)\d{2}\b|1x\d{1,3}|E\d{1,3})`)
	cleanYearsRE    = regexp.MustCompile(`\b\d{4}\b`)
	nonWordSpaceRE  = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	digit23RE       = regexp.MustCompile(`\b\d{2,3}\b`)
	resBitsRE       = regexp.MustCompile(`(?i)\b(?:10b(?:it)?|8bit|hdr10\+?|hdr|hlg)\b`)
	resTokenRE      = regexp.MustCompile(`(?i)\b\d{3,4}p\b`)
	codecLeftRE     = regexp.MustCompile(`(?i)\b(?:x26[45]|hevc|av1|h\.?26[45])\b`)
	numberOnlyRE    = regexp.MustCompile(`^\d+(?:\s*[.\- ]\s*\d+)?$`)
	trailingNumRE   = regexp.MustCompile(`\s+-\s+|\s*\((?:19|20)\d{2}\)\s*`)
	ripDieRE        = regexp.MustCompile(`(?i)^(rip|die)$`)
	innerChunkSplit = regexp.MustCompile(`[;,/|\-]+`)
)

// CleanQuery reduces a noisy name to a minimal, metadata-friendly query.
// Parenthetical and delimiter pruning keeps (YYYY) and bilingual chunks, the
// leftmost hyphen segment wins unless it is weak, and a title that shrank to
// almost nothing borrows the best inner-parenthetical from the raw input.
// Returns an empty string when no 3+ letter run survives.
func CleanQuery(q string) string {
	if q == "" {
		return ""
	}

	beforeSplit := q
	s := wordSepsRE.ReplaceAllString(q, " ")
	s = splitCompactTokens(s)

	beforeTail := s
	s = stripUploaderTail(s)
	tailTrimmed := len(s) < len(beforeTail)

	s = normalizeQualityTokens(s)

	s = domainsAnyRE.ReplaceAllString(s, " ")
	s = releaseTagsRE.ReplaceAllString(s, " ")
	s = cjkTagsRE.ReplaceAllString(s, " ")
	s = langTagsRE.ReplaceAllString(s, " ")
	s = uploaderListRE.ReplaceAllString(s, " ")

	s = pruneParensAndDelimiters(s)

	beforeHyphen := s
	parts := splitNonEmpty(hyphenSplitRE, s)
	if len(parts) > 0 {
		if HasThreeAlpha(parts[0]) {
			s = parts[0]
		} else {
			for _, p := range parts[1:] {
				if parenYearRE.MatchString(p) && HasThreeAlpha(p) {
					s = p
					break
				}
			}
		}
	}

	// A weak numeric head promotes the first later segment carrying (YYYY).
	head := strings.TrimSpace(s)
	if leadingDigitsRE.MatchString(head) && !HasThreeAlpha(head) {
		candidates := splitNonEmpty(clauseSplitRE, beforeHyphen)
		if len(candidates) > 1 {
			for _, cand := range candidates[1:] {
				if parenYearRE.MatchString(cand) && HasThreeAlpha(cand) {
					s = cand
					break
				}
			}
		}
	}

	s = dottedYearRE.ReplaceAllString(s, "$1$2")
	s = thousandsRE.ReplaceAllString(s, " ")
	s = strings.Trim(squashSpaces(s), " -.,_")

	if tailTrimmed {
		s = recoverTinyTitle(beforeTail, s)
	}

	// Still weak: one short word and no year or TV markers. Borrow the best
	// inner-parenthetical candidate from the raw input.
	if !markerOrYearRE.MatchString(s) {
		if len(threeAlphaRE.FindAllString(s, -1)) < 2 {
			if extra := BestParentheticalCandidate(beforeSplit); extra != "" {
				s = strings.TrimSpace(s + " (" + extra + ")")
			}
		}
	}

	s = strings.Trim(squashSpaces(s), " -.,_")
	if !HasThreeAlpha(s) {
		return ""
	}
	return s
}

func splitNonEmpty(re *regexp.Regexp, s string) []string {
	var out []string
	for _, p := range re.Split(s, -1) {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// PickTitleFromHyphens extracts the likely title side of "1999 - Título" or
// "Título - 2007" stems. Returns an empty string when neither side carries at
// least two real words.
func PickTitleFromHyphens(stem string) string {
	if m := hyphenYearHead.FindStringSubmatch(stem); m != nil {
		cand := strings.TrimSpace(m[2])
		if twoAlphaWords(cand) {
			return cand
		}
	}
	if m := hyphenYearTail.FindStringSubmatch(stem); m != nil {
		cand := strings.TrimSpace(m[1])
		if twoAlphaWords(cand) {
			return cand
		}
	}
	return ""
}

// SplitCandidateSegments splits a noisy title into candidate query segments,
// first on commas, then on the stronger "- – ; : /" delimiter set. Order is
// preserved and duplicates collapse.
func SplitCandidateSegments(text string) []string {
	var segs []string
	for _, chunk := range splitNonEmpty(commaSplitRE, text) {
		segs = append(segs, splitNonEmpty(clauseSplitRE, chunk)...)
	}
	seen := make(map[string]struct{}, len(segs))
	var out []string
	for _, s := range segs {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// BestParentheticalCandidate returns a content-bearing chunk from inside
// parentheses, suitable as an auxiliary title. Chunks that read like release,
// language, uploader, or domain junk are rejected, as are chunks with fewer
// than two alphabetic words.
func BestParentheticalCandidate(s string) string {
	for _, m := range parenInnerRE.FindAllStringSubmatch(s, -1) {
		cand := strings.TrimSpace(wordSepsRE.ReplaceAllString(m[1], " "))
		if len(alphaWordRE.FindAllString(cand, -1)) < 2 {
			continue
		}
		if HasReleaseTags(cand) || HasLangTags(cand) || HasDomain(cand) || HasUploaderWord(cand) {
			continue
		}
		return squashSpaces(cand)
	}
	return ""
}

// ASCIIParenthetical returns an all-ASCII alternative title found inside
// parentheses, or an empty string. It helps metadata search for non-Latin
// primary titles without touching the display name.
func ASCIIParenthetical(s string) string {
	m := parenInnerRE.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	inner := strings.TrimSpace(m[1])
	if !HasThreeAlpha(inner) {
		return ""
	}
	for _, r := range inner {
		if r > 127 {
			return ""
		}
	}
	return inner
}

// CleanForScore lowers a string for fuzzy comparison: years and punctuation
// out, whitespace collapsed.
func CleanForScore(s string) string {
	s = cleanYearsRE.ReplaceAllString(s, " ")
	s = nonWordSpaceRE.ReplaceAllString(s, " ")
	return strings.ToLower(squashSpaces(s))
}

// RequiredDigits returns the 2-3 digit tokens in a query that are not year
// prefixes. A candidate must echo them in its titles or overview, which stops
// "365" style titles from drifting to homonyms.
func RequiredDigits(s string) []string {
	var out []string
	for _, d := range digit23RE.FindAllString(s, -1) {
		if strings.HasPrefix(d, "19") || strings.HasPrefix(d, "20") {
			continue
		}
		out = append(out, d)
	}
	return out
}

// StripReleaseTokens removes residual release and quality tokens from a final
// display title.
func StripReleaseTokens(title string) string {
	if title == "" {
		return title
	}
	t := releaseTagsRE.ReplaceAllString(title, " ")
	t = cjkTagsRE.ReplaceAllString(t, " ")
	t = audioChannelRE.ReplaceAllString(t, " ")
	t = resTokenRE.ReplaceAllString(t, " ")
	t = resBitsRE.ReplaceAllString(t, " ")
	t = codecLeftRE.ReplaceAllString(t, " ")
	t = langTagsRE.ReplaceAllString(t, " ")
	return squashSpaces(t)
}

// Short function words that make a two-word "title" worthless.
var badTitleTokens = map[string]struct{}{
	"di": {}, "de": {}, "del": {}, "la": {}, "el": {}, "con": {},
	"by": {}, "and": {}, "y": {}, "alt": {},
}

// RepairTitle replaces obviously bad final titles: bare person names, pure
// numbers, audio-channel patterns, two-word preposition scraps, and uploader
// handles all fall back to the parser guess or the cleaned name.
func RepairTitle(title, guess, cleaned string) string {
	t := strings.TrimSpace(title)

	if IsPersonLike(t) {
		alt := guess
		if alt == "" {
			alt = cleaned
		}
		if alt != "" && !IsPersonLike(alt) {
			return alt
		}
	}

	if t == "" {
		if guess != "" {
			return guess
		}
		return cleaned
	}

	if numberOnlyRE.MatchString(t) || audioChannelRE.MatchString(t) {
		if guess != "" {
			return guess
		}
		return cleaned
	}

	words := strings.Fields(t)
	if len(words) <= 2 {
		for _, w := range words {
			if _, bad := badTitleTokens[strings.ToLower(w)]; bad {
				return fallbackHead(guess, cleaned, t)
			}
		}
	}

	if uploaderListRE.MatchString(t) || ripDieRE.MatchString(t) {
		return fallbackHead(guess, cleaned, t)
	}

	return t
}

func fallbackHead(guess, cleaned, current string) string {
	if guess != "" {
		return guess
	}
	base := strings.TrimSpace(trailingNumRE.Split(cleaned, 2)[0])
	if base != "" {
		return base
	}
	return current
}

// RescueCandidates builds alternative search candidates from a stubborn stem:
// the longest multi-word Latin phrase, the segment following a year in
// hyphenated names, a romanized variant for non-Latin input, and inner
// parenthetical chunks. Every candidate passes through CleanQuery and the
// result is deduplicated in order.
func RescueCandidates(stem string) []string {
	var cands []string

	base := wordSepsRE.ReplaceAllString(stem, " ")
	base = langTagsRE.ReplaceAllString(base, " ")
	base = uploaderListRE.ReplaceAllString(base, " ")

	if phrases := latinPhraseRE.FindAllString(base, -1); len(phrases) > 0 {
		best := phrases[0]
		for _, p := range phrases[1:] {
			if len(p) > len(best) {
				best = p
			}
		}
		if cleaned := cleanChunk(best); cleaned != "" {
			cands = append(cands, cleaned)
		}
	}

	parts := splitNonEmpty(hyphenSplitRE, base)
	for i, p := range parts {
		if bareYearRE.MatchString(p) && i+1 < len(parts) {
			if cleaned := cleanChunk(parts[i+1]); cleaned != "" {
				cands = append(cands, cleaned)
			}
		}
	}

	if roman := textutil.Romanize(base); roman != "" && roman != base {
		if cleaned := cleanChunk(roman); cleaned != "" {
			cands = append(cands, cleaned)
		}
	}

	for _, m := range parenInnerRE.FindAllStringSubmatch(stem, -1) {
		for _, chunk := range splitNonEmpty(innerChunkSplit, m[1]) {
			if HasReleaseTags(chunk) || HasDomain(chunk) {
				continue
			}
			if cleaned := cleanChunk(chunk); cleaned != "" {
				cands = append(cands, cleaned)
			}
		}
	}

	seen := make(map[string]struct{}, len(cands))
	var out []string
	for _, c := range cands {
		q := CleanQuery(c)
		if q == "" {
			continue
		}
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}
	return out
}

func cleanChunk(text string) string {
	cleaned := langTagsRE.ReplaceAllString(text, " ")
	cleaned = uploaderListRE.ReplaceAllString(cleaned, " ")
	cleaned = releaseTagsRE.ReplaceAllString(cleaned, " ")
	cleaned = cjkTagsRE.ReplaceAllString(cleaned, " ")
	cleaned = squashSpaces(cleaned)
	if !HasThreeAlpha(cleaned) {
		return ""
	}
	return cleaned
}
