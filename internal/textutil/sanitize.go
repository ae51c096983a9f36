package textutil

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/unicode/norm"
)

// Strategy selects how non-Latin characters are handled when rendering a
// filesystem-safe title.
type Strategy string

const (
	StrategyTransliterate Strategy = "transliterate"
	StrategyDrop          Strategy = "drop"
	StrategyKeep          Strategy = "keep"
)

// SanitizeTitle renders a title safe for use as a file or directory name.
// Input is NFKC-normalized first; the strategy then decides how non-ASCII
// text is treated before the allowed-character filter is applied.
func SanitizeTitle(name string, strategy Strategy) string {
	name = norm.NFKC.String(strings.TrimSpace(name))
	if name == "" {
		return ""
	}

	switch strategy {
	case StrategyTransliterate:
		name = unidecode.Unidecode(name)
	case StrategyDrop:
		var b strings.Builder
		for _, r := range name {
			if r < 128 {
				b.WriteRune(r)
			}
		}
		name = b.String()
	case StrategyKeep:
	}

	var b strings.Builder
	for _, r := range name {
		if allowedTitleRune(r, strategy == StrategyKeep) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func allowedTitleRune(r rune, keepUnicode bool) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == ' ' || r == '.' || r == ',' || r == '\'' || r == '(' || r == ')' ||
		r == '!' || r == '_' || r == '-':
		return true
	case keepUnicode && r > 127:
		return !unicode.IsControl(r) && !strings.ContainsRune(`/\:*?"<>|`, r)
	}
	return false
}

// NameQuality reports whether a sanitized title is usable: at least four
// characters, at least three letters, and not dominated by non-Latin script.
func NameQuality(name string) bool {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < 4 {
		return false
	}
	letters := 0
	for _, r := range name {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if letters < 3 {
		return false
	}
	return NonLatinRatio(name) < 0.6
}

// NonLatinRatio returns the share of letters outside the Latin script.
func NonLatinRatio(s string) float64 {
	letters, nonLatin := 0, 0
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if !unicode.Is(unicode.Latin, r) {
			nonLatin++
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(nonLatin) / float64(letters)
}

// Romanize transliterates text to ASCII, collapsing whitespace. Returns ""
// when nothing renderable remains.
func Romanize(s string) string {
	return strings.Join(strings.Fields(unidecode.Unidecode(s)), " ")
}

// LongestLatinPhrase returns the longest run of two or more consecutive words
// made of Latin letters. Returns "" when no such run exists.
func LongestLatinPhrase(s string) string {
	words := strings.Fields(s)
	var best []string
	var current []string
	flush := func() {
		if len(current) >= 2 && len(current) > len(best) {
			best = append([]string(nil), current...)
		}
		current = current[:0]
	}
	for _, word := range words {
		if isLatinWord(word) {
			current = append(current, word)
			continue
		}
		flush()
	}
	flush()
	return strings.Join(best, " ")
}

func isLatinWord(word string) bool {
	letters := 0
	for _, r := range word {
		if unicode.IsLetter(r) {
			letters++
			if !unicode.Is(unicode.Latin, r) {
				return false
			}
		}
	}
	return letters > 0
}
