package normalize

import "regexp"

var (
	uhdBDRE      = regexp.MustCompile(`(?i)\bUHD(?:\s*BD)?\b`)
	ultraHDRE    = regexp.MustCompile(`(?i)\bUltra\s*HD\b`)
	hdr10PlusRE  = regexp.MustCompile(`(?i)\bHDR10\+`)
	hdr10RE      = regexp.MustCompile(`(?i)\bHDR10\b`)
	dolbyVisRE   = regexp.MustCompile(`(?i)\bDolby\s*Vision\b`)
	hdrThenDVRE  = regexp.MustCompile(`(?i)\b(hdr)\s*dv\b`)
	dvThenHDRRE  = regexp.MustCompile(`(?i)\bdv\s*(hdr)\b`)
	fourKThenDV  = regexp.MustCompile(`(?i)\b(4k)\s*dv\b`)
	dvThenFourK  = regexp.MustCompile(`(?i)\bdv\s*(4k)\b`)
	multiSpaceRE = regexp.MustCompile(`\s{2,}`)
)

// splitCompactTokens separates merged quality/codec/release/language markers
// before the heavier cleanup passes run.
func splitCompactTokens(s string) string {
	out := s
	for _, rule := range compactRules {
		out = rule.pattern.ReplaceAllString(out, rule.repl)
	}
	return multiSpaceRE.ReplaceAllString(out, " ")
}

// normalizeQualityTokens canonicalizes quality flags into stable tokens:
// UHD and UltraHD become 4k, HDR10+ becomes hdr10plus, Dolby Vision variants
// become dovi. TV markers such as S01E02 or 1x20 are left untouched.
func normalizeQualityTokens(s string) string {
	s = uhdBDRE.ReplaceAllString(s, " 4k ")
	s = ultraHDRE.ReplaceAllString(s, " 4k ")
	s = hdr10PlusRE.ReplaceAllString(s, " hdr10plus ")
	s = hdr10RE.ReplaceAllString(s, " hdr10 ")
	s = dolbyVisRE.ReplaceAllString(s, " dovi ")
	// Bare DV counts as dovi only next to the HDR/4k family.
	s = hdrThenDVRE.ReplaceAllString(s, "$1 dovi ")
	s = dvThenHDRRE.ReplaceAllString(s, " dovi $1")
	s = fourKThenDV.ReplaceAllString(s, "$1 dovi ")
	s = dvThenFourK.ReplaceAllString(s, " dovi $1")
	return squashSpaces(s)
}
