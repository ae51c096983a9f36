package normalize

import (
	"strings"
)

// stripUploaderTail trims trailing uploader or group signatures while keeping
// year and episode context intact. When the detected tail contains a boundary
// token (year, SxxEyy, 1xNN, E##, Cap.###, Temporada/Season) the tail is kept
// from that boundary onward instead of being dropped.
func stripUploaderTail(s string) string {
	loc := uploaderTailRE.FindStringIndex(s)
	if loc == nil {
		s = domainsAnyRE.ReplaceAllString(s, " ")
		s = urlParensRE.ReplaceAllString(s, " ")
		return strings.Trim(squashSpaces(s), " -.,_")
	}

	prefix := s[:loc[0]]
	tail := s[loc[0]:]

	if b := uploaderBoundaryRE.FindStringIndex(tail); b != nil {
		keep := strings.TrimLeft(tail[b[0]:], " ")
		prefix = strings.TrimRight(prefix, " ")
		switch {
		case prefix != "" && keep != "":
			s = prefix + " " + keep
		case keep != "":
			s = keep
		default:
			s = prefix
		}
	} else {
		s = strings.TrimRight(prefix, " ")
	}

	s = domainsAnyRE.ReplaceAllString(s, " ")
	s = urlParensRE.ReplaceAllString(s, " ")
	return strings.Trim(squashSpaces(s), " -.,_")
}

// recoverTinyTitle prepends the last decent head token when the tail trim left
// a single token of three characters or fewer, e.g. "Gran Rio - xusman"
// shrinking to "Rio" comes back as "Gran Rio". It never fires when a boundary
// token was present in the trimmed tail.
func recoverTinyTitle(original, stripped string) string {
	tiny := strings.TrimSpace(stripped)
	if tiny == "" {
		return stripped
	}
	if !isTinyToken(tiny) {
		return stripped
	}

	loc := uploaderTailRE.FindStringIndex(original)
	if loc == nil {
		return stripped
	}
	if uploaderBoundaryRE.MatchString(original[loc[0]:]) {
		return stripped
	}

	tokens := alnumTokRE.FindAllString(original[:loc[0]], -1)
	if len(tokens) == 0 {
		return stripped
	}
	last := tokens[len(tokens)-1]
	if strings.EqualFold(last, tiny) {
		return stripped
	}
	return last + " " + tiny
}

func isTinyToken(s string) bool {
	if len(s) == 0 || len(s) > 3 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// StripUploaderFromTitle removes uploader and group signatures from a chosen
// title, e.g. "by Geot", known handles, and site tags.
func StripUploaderFromTitle(title string) string {
	t := uploaderByRE.ReplaceAllString(title, " ")
	t = uploaderListRE.ReplaceAllString(t, " ")
	t = domainsAnyRE.ReplaceAllString(t, " ")
	return strings.Trim(squashSpaces(t), " -_,.")
}

func squashSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
