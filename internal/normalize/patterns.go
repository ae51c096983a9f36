package normalize

import (
	"regexp"
	"strings"
)

var (
	// Aspect ratios like (1,77) or (1.85) and runtimes like 101'.
	aspectRatioRE = regexp.MustCompile(`\((?:\d{1,2}[.,]\d{2})\)`)
	durationMinRE = regexp.MustCompile(`\b\d{2,3}'\b`)

	// Numeric list prefixes like "2- " or "01. ". A leading 4-digit year is
	// never a list prefix; preprocess checks leadingYearRE before applying.
	numPrefixRE   = regexp.MustCompile(`^\s*\d{1,3}[-_.]+\s+`)
	leadingYearRE = regexp.MustCompile(`^\s*(?:19|20)\d{2}\b`)

	wordSepsRE = regexp.MustCompile(`[._]+`)

	// Episode counts that are really day counts ("365 dias").
	susEpWordsRE = regexp.MustCompile(`(?i)\b(dias?|día|días|day|jours?|days?)\b`)

	startJunkRE = regexp.MustCompile(`(?i)^(?:\s*(?:www\.)?[a-z0-9][\w.-]+\.(?:com|net|org|info|ru|to)\b\W*|\s*by\s+\w+\b\W*)`)

	capCompressedRE = regexp.MustCompile(`(?i)\bCap(?:\.|itulo|ítulo)?\s*(\d{3,4})\b`)

	creditsHeadRE = regexp.MustCompile(`(?is)^\s*(?:di|de|by)\s+[^-:(\[]+\s+(?:con|with)\s+[^-:(\[]+`)

	releaseTagsRE = regexp.MustCompile(`(?i)\b(` +
		`Blu[- ]?Ray|BR[- ]?Rip|BDRip|WEB[- ]?DL|WEB[- ]?Rip|HDRip|DVDRip|Remux|MicroHD|` +
		`x265|x264|XviD|DivX|HEVC|H\.?265|H\.?264|AV1|` +
		`AC3|A[C\- ]?3|EAC3|E[A\- ]?C3|DDP|DD\+|DTS(?:-HD|HD)?|AAC|MP3|FLAC|` +
		`MULTI|DUAL|VO(?:SE)?|V\.?O\.?S\.?E|VOS|SUBS?|SUB(?:SPA|ENG|ES|EN)|` +
		`ESPAÑOL|ESPA|ESP|ES|CAST(?:ELLANO)?|` +
		`SPANISH|ENGLISH|FRENCH|GERMAN|ITALIAN|PORTUGUESE|PORTUGUES|PORTUGUÉS|` +
		`JAPANESE|JAPONES|JAPONÉS|CHINESE|CHINO|KOREAN|COREANO|CATALAN|CATALA|CATALÁN|` +
		`LAT(?:INO)?|LATAM|ING(?:L[EÉ]S)?|EN|ENG|ITA|FRA|ALEMAN|DEU|RUSO|RU|CHI|JP|JAP|` +
		`2160p|1080p|720p|480p|4K|8K|10b(?:it)?|10bit|8bit|HDR10|HDR|HLG|Dolby(?:Vision)?|Atmos|HD|` +
		`Proper|Repack|Limited|Extended|Director'?s *Cut|Unrated|` +
		`\d{3,4}p|[12]\d{2,3}x\d{3,4}|` +
		`by\s+\w+` +
		`)\b`)

	// CJK release tags carry no ASCII word boundaries and get their own pass.
	cjkTagsRE = regexp.MustCompile(`国语中字|中字|国配|简体|繁体|中文字幕`)

	domainsParensRE = regexp.MustCompile(`(?i)\((?:https?://)?(?:www\.)?[a-z0-9][\w.-]+\.(?:com|net|org|info|ru|to)\)`)
	domainsAnyRE    = regexp.MustCompile(`(?i)\b(?:https?://)?(?:www\.)?(?:[a-z0-9-]+\.)+(?:com|net|org|info|ru|to|co|es|it|fr)\b`)
	urlParensRE     = regexp.MustCompile(`\((?:\s*https?://)?[^\s)]+\)`)

	langTagsRE = regexp.MustCompile(`(?i)(?:\b(?:SPANISH|ENGLISH|FRENCH|GERMAN|ITALIAN|PORTUGUESE|PORTUGUES|JAPANESE|CHINESE|KOREAN|CATALAN|CAST(?:ELLANO)?|ESPAÑ?OL|ESP|ENG|EN|ITA|FRA|DEU|VOSE|VOS|SUBS?|LAT(?:AM)?|DUAL|MULTI|BILINGÜE|BILINGUE|DUALAUDIO|MULTIAUDIO)\b|ESP-?ENG|ES-?EN|VO-?LAT(?:INO)?|ESPANOLINGLES|SUBFORZ(?:ADAS?|ADOS?)|VO-?SUB|VO-?ESP|ESP-?ING|SPA-?ENG)`)

	personNamePattern = `(?:[A-ZÁÉÍÓÚÜÑ][a-záéíóúüñ]+){1,3}(?:\s+(?:de|del|la|da|dos|do|van|von|di|du))?\s+(?:[A-ZÁÉÍÓÚÜÑ][a-záéíóúüñ]+){1,3}`
	personListRE      = regexp.MustCompile(`(?i)\b(?:` + personNamePattern + `)(?:\s*(?:,|y|and|&)\s*(?:` + personNamePattern + `)){1,5}\b`)

	// Short ALL-CAPS tail of at most three tokens, e.g. "WEB-DL DDP5 1".
	allCapsTailRE = regexp.MustCompile(`(?:^|[\s\-–—:;])([A-Z0-9]{2,}(?:\s+[A-Z0-9]{2,}){0,2})\s*$`)

	tvMarkerRE = regexp.MustCompile(`(?i)(S\d{1,2}E\d{2}|\b\d{1,2}x\d{2}\b|\bTemporada\b|\bSeason\b|Cap(?:\.|itulo|ítulo)?\s*\d{2,4})`)

	tvHeadSplitRE = regexp.MustCompile(`(?:\bS\d{1,2}E\d{1,2}\b|\b\d+x\d{2}\b|\bTemporada\b)`)

	uploaderTailRE = regexp.MustCompile(`(?i)(` +
		`\s+(?:by|por|per|para)\s+[^\[\]()]+$` + // textual "by Remy", "por Grupo"
		`|\s*[-–—]\s*[A-Za-z][\w.\-]{1,15}\s*$` + // hyphen handle: "- xusman"
		`|\s*\[[A-Z0-9][A-Z0-9._\-]{1,12}\]\s*$` + // group tag: "[GRP]"
		`|\s*@[\w.\-]{3,}\s*$` + // @handle
		`)`)

	uploaderBoundaryRE = regexp.MustCompile(`(?i)(?:\b(?:19|20)\d{2}\b|\bS\d{1,2}E\d{1,3}\b|\b\d{1,2}x\d{1,3}\b|\bE\d{1,3}\b|Cap(?:\.|itulo|ítulo)?\s*\d{1,4}|\bTemporada\b|\bSeason\b)`)

	epSeasonEpisodeRE = regexp.MustCompile(`(?i)\bS(\d{1,2})E(\d{2})\b`)
	epCompactRE       = regexp.MustCompile(`(?i)\b(\d{1,2})x(\d{2})\b`)
	epCapRE           = regexp.MustCompile(`(?i)\bCap(?:\.|itulo|ítulo)?\s*(\d{2,4})\b`)

	yearTokenRE  = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	parenYearRE  = regexp.MustCompile(`\(((?:19|20)\d{2})\)`)
	dottedYearRE = regexp.MustCompile(`\b(19|20)\.(\d{3})\b`)
	thousandsRE  = regexp.MustCompile(`\b\d{1,3}\.\d{3}\b`)

	imdbIDRE = regexp.MustCompile(`(?i)\btt(\d{7,8})\b`)

	docHintsRE   = regexp.MustCompile(`(?i)\b(docu|documental|documentary|biopic)\b`)
	personLikeRE = regexp.MustCompile(`^[A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,2}$`)

	audioChannelRE = regexp.MustCompile(`(?i)\b(?:[257]\s*[.\- ]\s*[01])\b`)

	threeAlphaRE = regexp.MustCompile(`[A-Za-z]{3,}`)
	alphaWordRE  = regexp.MustCompile(`\b[A-Za-z]{3,}\b`)
	alnumTokRE   = regexp.MustCompile(`[A-Za-z0-9]{3,}`)

	genericHeadRE = regexp.MustCompile(`(?i)^(?:Temporada|Season|Cap(?:\.|itulo|ítulo)?|S\d{1,2}E\d{1,2})\b`)

	latinPhraseRE = regexp.MustCompile(`[A-Za-z][A-Za-z]+(?:\s+[A-Za-z][A-Za-z]+)+`)
)

// Uploader handles seen in the wild on P2P releases. Matched as whole words.
var uploaderWords = []string{
	"xusman", "remy", "geot", "lele753", "nuita", "nueng", "aspide", "canibales",
	"exploradoresp2p", "nocturniap2p", "filibusteros", "paso77", "toy-foracrew",
	"hispashare", "mokesky", "king76", "wolfmax4k", "lyis", "napoleon21", "diavliyo",
	"papa noel", "guayiga", "gautxori", "mck", "lyrici", "byred", "sienteme",
}

var (
	uploaderListRE = regexp.MustCompile(`(?i)\b(` + joinQuoted(uploaderWords) + `)\b`)
	uploaderByRE   = regexp.MustCompile(`(?i)\b(?:by|para)\s+\w+\b`)
)

func joinQuoted(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, "|")
}

type compactRule struct {
	pattern *regexp.Regexp
	repl    string
}

// Fused marker splits applied before heavier cleanup, e.g. "WEBRip1080p" into
// "WEBRip 1080p", plus UHD/HDR/DoVi canonicalization.
var compactRules = []compactRule{
	{regexp.MustCompile(`(?i)\b(web|bd|hd|hdr|microhd)(\d{3,4}p)\b`), "$1 $2"},
	{regexp.MustCompile(`(?i)\b(\d{3,4}p)(x\d{3,4})\b`), "$1 $2"},
	{regexp.MustCompile(`(?i)\b(x264|x265|h\.?264|h\.?265)(\s*\d{3,4}p)\b`), "$1 $2"},
	{regexp.MustCompile(`(?i)\b(webrip|web-?dl|b[dr]rip|hdrip|dvdrip)(\d{3,4}p)\b`), "$1 $2"},
	{regexp.MustCompile(`(?i)\b(dual)(audio)\b`), "$1 $2"},
	{regexp.MustCompile(`(?i)\b(multi)(audio)\b`), "$1 $2"},
	{regexp.MustCompile(`(?i)\b(vo)(se)\b`), "$1 $2"},
	{regexp.MustCompile(`(?i)\b(vo)(esp)\b`), "$1 $2"},
	{regexp.MustCompile(`(?i)\b(esp)(eng)\b`), "$1 $2"},
	{regexp.MustCompile(`(?i)\bultra[-\s]?hd\b`), "4k"},
	{regexp.MustCompile(`(?i)\buhd\b`), "4k"},
	{regexp.MustCompile(`(?i)\bdolby\s*vision\b`), "dovi"},
	{regexp.MustCompile(`(?i)\bdovi\b`), "dovi"},
}

// HasThreeAlpha reports whether s carries at least one run of three letters,
// the minimum for a usable title fragment.
func HasThreeAlpha(s string) bool { return threeAlphaRE.MatchString(s) }

func twoAlphaWords(s string) bool { return len(threeAlphaRE.FindAllString(s, -1)) >= 2 }

// HasReleaseTags reports whether s still carries release or quality tokens.
func HasReleaseTags(s string) bool { return releaseTagsRE.MatchString(s) || cjkTagsRE.MatchString(s) }

// HasLangTags reports whether s carries language or dub markers.
func HasLangTags(s string) bool { return langTagsRE.MatchString(s) }

// HasDomain reports whether s carries a bare or schemed domain token.
func HasDomain(s string) bool { return domainsAnyRE.MatchString(s) }

// HasStartJunk reports whether s begins with domain or uploader junk.
func HasStartJunk(s string) bool { return startJunkRE.MatchString(s) }

// HasUploaderWord reports whether s names a known uploader handle.
func HasUploaderWord(s string) bool { return uploaderListRE.MatchString(s) }

// HasGenericMarkerHead reports whether s starts with a bare season or episode
// marker, which makes a useless search query on its own.
func HasGenericMarkerHead(s string) bool { return genericHeadRE.MatchString(s) }

// HasDocHint reports whether the query itself asks for a documentary.
func HasDocHint(s string) bool { return docHintsRE.MatchString(s) }

// IsPersonLike reports whether t reads like a bare "First Last" person name.
func IsPersonLike(t string) bool {
	t = strings.TrimSpace(t)
	return personLikeRE.MatchString(t) && len(strings.Fields(t)) <= 3
}

// SuspiciousEpisodeWords reports whether s carries day-count words that make a
// large episode number look like a duration, e.g. "365 dias".
func SuspiciousEpisodeWords(s string) bool { return susEpWordsRE.MatchString(s) }
