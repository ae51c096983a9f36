package textutil

import (
	"regexp"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// tokenSplitPattern matches non-alphanumeric character sequences for tokenization.
var tokenSplitPattern = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Ratio returns an edit-distance similarity between two strings in [0,100].
func Ratio(a, b string) int {
	return simpleRatio(strings.TrimSpace(a), strings.TrimSpace(b))
}

// TokenSortRatio compares the strings with their tokens sorted, so word order
// does not matter.
func TokenSortRatio(a, b string) int {
	return simpleRatio(sortedTokenString(a), sortedTokenString(b))
}

// TokenSetRatio compares the strings on their shared token set, tolerating
// both word order and extra words on either side. Result is in [0,100].
func TokenSetRatio(a, b string) int {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	var shared, onlyA, onlyB []string
	for token := range tokensA {
		if _, ok := tokensB[token]; ok {
			shared = append(shared, token)
		} else {
			onlyA = append(onlyA, token)
		}
	}
	for token := range tokensB {
		if _, ok := tokensA[token]; !ok {
			onlyB = append(onlyB, token)
		}
	}
	sort.Strings(shared)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	base := strings.Join(shared, " ")
	combinedA := strings.TrimSpace(base + " " + strings.Join(onlyA, " "))
	combinedB := strings.TrimSpace(base + " " + strings.Join(onlyB, " "))

	best := simpleRatio(base, combinedA)
	if r := simpleRatio(base, combinedB); r > best {
		best = r
	}
	if r := simpleRatio(combinedA, combinedB); r > best {
		best = r
	}
	return best
}

func simpleRatio(a, b string) int {
	if a == "" && b == "" {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	total := len([]rune(a)) + len([]rune(b))
	score := int(100 * float64(total-2*dist) / float64(total))
	if score < 0 {
		return 0
	}
	return score
}

func sortedTokenString(s string) string {
	tokens := splitTokens(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, token := range splitTokens(s) {
		set[token] = struct{}{}
	}
	return set
}

func splitTokens(s string) []string {
	lowered := strings.ToLower(strings.TrimSpace(s))
	raw := tokenSplitPattern.Split(lowered, -1)
	tokens := make([]string, 0, len(raw))
	for _, token := range raw {
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}
