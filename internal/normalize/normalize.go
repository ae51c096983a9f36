package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	bracketAnyRE   = regexp.MustCompile(`\[(.*?)\]`)
	bracketYearRE  = regexp.MustCompile(`\[((?:19|20)\d{2})\]`)
	bracketEpRE    = regexp.MustCompile(`(?i)(S\d{1,2}E\d{1,2})`)
	bracketTempRE  = regexp.MustCompile(`(?i)(Temporada\s+\d{1,2})`)
	bracketCapRE   = regexp.MustCompile(`(?i)Cap(?:\.|itulo|ítulo)?\s*(\d{3,4})`)
	hyphenSpiceRE  = regexp.MustCompile(`\s*[-–]\s*`)
	leadingDashRE  = regexp.MustCompile(`^\s*-\s*`)
	whitespaceRE   = regexp.MustCompile(`\s+`)
	trailYearRE    = regexp.MustCompile(`\(\s*((?:19|20)\d{2})\s*\)\s*$`)
)

// expandCapMarkers rewrites "Cap.102" or "Capitulo 1105" into S01E02 or S11E05.
func expandCapMarkers(s string) string {
	return capCompressedRE.ReplaceAllStringFunc(s, func(m string) string {
		digits := capCompressedRE.FindStringSubmatch(m)[1]
		n, _ := strconv.Atoi(digits)
		season, episode := 1, n
		if n >= 100 {
			season, episode = n/100, n%100
		}
		return fmt.Sprintf("S%02dE%02d", season, episode)
	})
}

// Preprocess cleans a noisy release name into a stable, parse-friendly form.
//
// Order matters:
//  1. Split compact tokens ("WEBRip1080p" into "WEBRip 1080p").
//  2. Trim uploader/group tails with boundary guards.
//  3. Normalize quality and codec tokens.
//  4. Drop leading credit or person-list heads.
//  5. Expand Cap.### into SxxEyy.
//  6. Reduce bracket content to surviving episode or season markers.
//  7. Normalize dotted years, drop domains and release/language crumbs.
//  8. Prune parentheses and clause delimiters.
//  9. Final sweep, then re-inject (YYYY) when it only lived in brackets.
func Preprocess(raw string) string {
	if raw == "" {
		return ""
	}

	s := splitCompactTokens(raw)
	s = stripUploaderTail(s)
	s = normalizeQualityTokens(s)
	s = dropCreditOrPersonHead(s)
	s = expandCapMarkers(s)

	parenYear := parenYearRE.FindStringSubmatch(s)
	bracketYear := bracketYearRE.FindStringSubmatch(s)

	s = bracketAnyRE.ReplaceAllStringFunc(s, reduceBracket)

	s = domainsParensRE.ReplaceAllString(s, " ")
	s = dottedYearRE.ReplaceAllString(s, "$1$2")
	s = thousandsRE.ReplaceAllString(s, " ")

	s = domainsAnyRE.ReplaceAllString(s, " ")
	s = releaseTagsRE.ReplaceAllString(s, " ")
	s = cjkTagsRE.ReplaceAllString(s, " ")
	s = langTagsRE.ReplaceAllString(s, " ")
	s = uploaderListRE.ReplaceAllString(s, " ")

	s = audioChannelRE.ReplaceAllString(s, " ")

	s = pruneParensAndDelimiters(s)

	s = aspectRatioRE.ReplaceAllString(s, " ")
	s = durationMinRE.ReplaceAllString(s, " ")
	if !leadingYearRE.MatchString(s) {
		s = numPrefixRE.ReplaceAllString(s, "")
	}
	s = wordSepsRE.ReplaceAllString(s, " ")
	s = hyphenSpiceRE.ReplaceAllString(s, " - ")
	s = strings.TrimSpace(whitespaceRE.ReplaceAllString(s, " "))
	s = leadingDashRE.ReplaceAllString(s, "")

	if bracketYear != nil && parenYear == nil {
		y := bracketYear[1]
		if trail := trailYearRE.FindStringSubmatch(s); trail == nil || trail[1] != y {
			s = strings.TrimSpace(s + " (" + y + ")")
		}
	}

	if !HasThreeAlpha(s) {
		return ""
	}
	return s
}

// reduceBracket keeps SxxEyy, "Temporada N", or an expanded Cap.### marker
// from a bracketed chunk and drops everything else.
func reduceBracket(m string) string {
	inner := m[1 : len(m)-1]
	if ep := bracketEpRE.FindStringSubmatch(inner); ep != nil {
		return " " + ep[1] + " "
	}
	if temp := bracketTempRE.FindStringSubmatch(inner); temp != nil {
		return " " + temp[1] + " "
	}
	if marker := bracketCapRE.FindString(inner); marker != "" {
		return " " + expandCapMarkers(marker) + " "
	}
	return " "
}
