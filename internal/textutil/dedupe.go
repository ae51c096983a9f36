package textutil

import "strings"

// CollapseRepeatedPhrases removes contiguous duplicate word runs from a title.
// Phrase runs of four words down to two are collapsed first, then immediately
// repeated single words. "Show Name Show Name S01" becomes "Show Name S01".
func CollapseRepeatedPhrases(s string) string {
	words := strings.Fields(s)
	for size := 4; size >= 2; size-- {
		words = collapseRuns(words, size)
	}
	words = collapseRuns(words, 1)
	return strings.Join(words, " ")
}

func collapseRuns(words []string, size int) []string {
	if len(words) < size*2 {
		return words
	}
	out := make([]string, 0, len(words))
	i := 0
	for i < len(words) {
		if i+size*2 <= len(words) && equalFoldRun(words[i:i+size], words[i+size:i+size*2]) {
			// Keep one copy, skip every additional contiguous repeat.
			out = append(out, words[i:i+size]...)
			i += size
			for i+size <= len(words) && equalFoldRun(out[len(out)-size:], words[i:i+size]) {
				i += size
			}
			continue
		}
		out = append(out, words[i])
		i++
	}
	return out
}

func equalFoldRun(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}
