package normalize

import "strings"

// dropCreditOrPersonHead removes leading credit clauses like
// "de <Director> con <Actor>" and bare person-list heads, then shears a short
// ALL-CAPS tail when meaningful content precedes it.
func dropCreditOrPersonHead(s string) string {
	base := s

	if loc := creditsHeadRE.FindStringIndex(base); loc != nil && loc[0] == 0 {
		base = strings.TrimLeft(base[loc[1]:], " ")
	}

	if loc := personListRE.FindStringIndex(base); loc != nil && loc[0] == 0 {
		base = strings.TrimLeft(base[loc[1]:], " -:;|")
	}

	if idx := strings.LastIndex(base, " "); idx >= 0 {
		head := base[:idx]
		if allCapsTailRE.MatchString(base) && threeAlphaRE.MatchString(head) {
			base = strings.TrimSpace(head)
		}
	}

	return strings.Trim(squashSpaces(base), " -.,")
}
