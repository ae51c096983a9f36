package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

var leadingNumberTitleRE = regexp.MustCompile(`^\d+\s+[A-Za-zÁÉÍÓÚÜÑáéíóúüñ][^\d]+$`)

// ParseEpisodeMarkers detects season and episode numbers in the SxxEyy, 1x02,
// or Cap.102 forms. Cap numbers of three or more digits split as season*100,
// so Cap.1203 reads as S12E03.
func ParseEpisodeMarkers(s string) (season, episode int, ok bool) {
	if m := epSeasonEpisodeRE.FindStringSubmatch(s); m != nil {
		season, _ = strconv.Atoi(m[1])
		episode, _ = strconv.Atoi(m[2])
		return season, episode, true
	}
	if m := epCompactRE.FindStringSubmatch(s); m != nil {
		season, _ = strconv.Atoi(m[1])
		episode, _ = strconv.Atoi(m[2])
		return season, episode, true
	}
	if m := epCapRE.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		if n >= 100 {
			return max(1, n/100), max(1, n%100), true
		}
		return 1, max(1, n), true
	}
	return 0, 0, false
}

// HasTVMarkers reports whether s carries any episode or season marker.
func HasTVMarkers(s string) bool { return tvMarkerRE.MatchString(s) }

// TVTitleHead returns the text before the first episode or season marker, or
// an empty string when no marker is present or nothing precedes it.
func TVTitleHead(s string) string {
	loc := tvHeadSplitRE.FindStringIndex(s)
	if loc == nil {
		return ""
	}
	return strings.TrimSpace(s[:loc[0]])
}

// ExtractYears returns every 19xx/20xx token from a raw name, left to right,
// deduplicated. Dots are treated as separators first so "1.984" style names
// still surface their year. Resolution tokens never match because only the
// 19xx/20xx prefixes are accepted.
func ExtractYears(text string) []int {
	seen := make(map[int]struct{})
	var years []int
	for _, tok := range yearTokenRE.FindAllString(strings.ReplaceAll(text, ".", " "), -1) {
		y, err := strconv.Atoi(tok)
		if err != nil || y < 1900 || y > 2099 {
			continue
		}
		if _, dup := seen[y]; dup {
			continue
		}
		seen[y] = struct{}{}
		years = append(years, y)
	}
	return years
}

// FindIMDbID returns the ttNNNNNNN token embedded in s, or an empty string.
func FindIMDbID(s string) string {
	m := imdbIDRE.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return "tt" + m[1]
}

// LooksLikeLeadingNumberTitle reports whether s reads like an ordinary title
// that happens to start with a number, such as "12 Monos" or "21 Gramos",
// rather than an episode marker.
func LooksLikeLeadingNumberTitle(s string) bool {
	s = strings.TrimSpace(s)
	if !leadingNumberTitleRE.MatchString(s) {
		return false
	}
	return !HasTVMarkers(s)
}
