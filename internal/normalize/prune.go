package normalize

import (
	"regexp"
	"strings"
)

var (
	parenAnyRE    = regexp.MustCompile(`\(([^)]*)\)`)
	emptyParenRE  = regexp.MustCompile(`\(\s*\)`)
	clauseSplitRE = regexp.MustCompile(`\s*[-–;:/]\s*`)
	bareYearRE    = regexp.MustCompile(`^(?:19|20)\d{2}$`)
	leadNumeralRE = regexp.MustCompile(`^\s*(\d{1,4})\s+[A-Za-z]`)
	anyLetterRE   = regexp.MustCompile(`[A-Za-z]`)
)

// allowLeadingNumeral accepts segments that begin with a numeral followed by a
// word, like "12 Monos", while blocking resolution-style numbers.
func allowLeadingNumeral(seg string) bool {
	m := leadNumeralRE.FindStringSubmatch(seg)
	if m == nil {
		return false
	}
	switch m[1] {
	case "360", "480", "720", "1080", "2160", "4320":
		return false
	}
	return true
}

// pruneParensAndDelimiters cleans parentheticals and clause delimiters:
// (YYYY) survives verbatim, letterless parens are dropped, remaining parens
// are kept only when two alphabetic words survive noise removal, and clauses
// split on "- – ; : /" are kept only when they carry a 3+ letter run, a
// leading-numeral title, or an episode/season marker. Commas are left alone;
// they only matter for alternative query generation.
func pruneParensAndDelimiters(s string) string {
	if s == "" {
		return s
	}

	s = domainsParensRE.ReplaceAllString(s, " ")
	s = dottedYearRE.ReplaceAllString(s, "$1$2")
	s = thousandsRE.ReplaceAllString(s, " ")

	s = parenAnyRE.ReplaceAllStringFunc(s, func(m string) string {
		inner := strings.TrimSpace(m[1 : len(m)-1])
		if bareYearRE.MatchString(inner) {
			return " (" + inner + ")"
		}
		if !anyLetterRE.MatchString(inner) {
			return " "
		}
		cleaned := releaseTagsRE.ReplaceAllString(inner, " ")
		cleaned = cjkTagsRE.ReplaceAllString(cleaned, " ")
		cleaned = langTagsRE.ReplaceAllString(cleaned, " ")
		cleaned = uploaderListRE.ReplaceAllString(cleaned, " ")
		cleaned = domainsAnyRE.ReplaceAllString(cleaned, " ")
		cleaned = wordSepsRE.ReplaceAllString(cleaned, " ")
		cleaned = squashSpaces(cleaned)
		if twoAlphaWords(cleaned) {
			return " (" + cleaned + ")"
		}
		return " "
	})
	s = emptyParenRE.ReplaceAllString(s, " ")

	clauses := clauseSplitRE.Split(s, -1)
	for i := range clauses {
		clauses[i] = strings.TrimSpace(clauses[i])
	}

	var kept []string
	for _, seg := range clauses {
		if seg != "" && (HasThreeAlpha(seg) || allowLeadingNumeral(seg) || tvMarkerRE.MatchString(seg)) {
			kept = append(kept, seg)
		}
	}

	if len(kept) > 0 {
		s = strings.Join(kept, " - ")
	} else {
		yearish := ""
		for _, seg := range clauses {
			if parenYearRE.MatchString(seg) && HasThreeAlpha(seg) {
				yearish = seg
				break
			}
		}
		if yearish != "" {
			s = yearish
		} else {
			var nonEmpty []string
			for _, seg := range clauses {
				if seg != "" {
					nonEmpty = append(nonEmpty, seg)
				}
			}
			s = strings.Join(nonEmpty, " ")
		}
	}

	return strings.Trim(squashSpaces(s), " -.,")
}
