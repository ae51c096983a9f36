package normalize

import (
	"strings"
	"testing"
)

func TestPreprocessReleaseNoise(t *testing.T) {
	// Preprocess keeps the year bare; the parenthesized "Title (2020)" form
	// only appears later, in the library planner's folder names.
	got := Preprocess("Movie.Example.2020.1080p.WEB-DL.DUAL.x264-GROUP")
	if got != "Movie Example 2020" {
		t.Fatalf("unexpected preprocess result: %q", got)
	}
}

func TestPreprocessKeepsEpisodeMarker(t *testing.T) {
	got := Preprocess("Show.Name.S02E05.HDTV.XviD-group")
	if !strings.Contains(got, "S02E05") {
		t.Fatalf("episode marker lost: %q", got)
	}
	if strings.Contains(got, "group") || strings.Contains(got, "XviD") {
		t.Fatalf("release noise survived: %q", got)
	}
}

func TestPreprocessExpandsCap(t *testing.T) {
	got := Preprocess("Serie Ejemplo Cap.205")
	if !strings.Contains(got, "S02E05") {
		t.Fatalf("cap marker not expanded: %q", got)
	}
}

func TestPreprocessDropsUploaderTail(t *testing.T) {
	got := Preprocess("My Movie - uploaderhandle")
	if got != "My Movie" {
		t.Fatalf("tail not trimmed: %q", got)
	}
}

func TestPreprocessTailGuardKeepsBoundary(t *testing.T) {
	// Boundary token inside the tail blocks the trim from that point on.
	got := Preprocess("Movie by remy 2020")
	if !strings.Contains(got, "2020") {
		t.Fatalf("year boundary lost: %q", got)
	}
	if strings.Contains(strings.ToLower(got), "remy") {
		t.Fatalf("uploader handle survived: %q", got)
	}
}

func TestPreprocessTailAfterMarkerSurvives(t *testing.T) {
	got := Preprocess("My Movie - S01E02 by uploaderhandle")
	if !strings.Contains(got, "S01E02") {
		t.Fatalf("marker lost: %q", got)
	}
	if strings.Contains(got, "uploaderhandle") {
		t.Fatalf("tail survived: %q", got)
	}
}

func TestPreprocessBracketReduction(t *testing.T) {
	got := Preprocess("Serie Ejemplo [Temporada 2][www.example.com] something")
	if !strings.Contains(got, "Temporada 2") {
		t.Fatalf("season marker lost: %q", got)
	}
	if strings.Contains(got, "example.com") || strings.Contains(got, "[") {
		t.Fatalf("bracket noise survived: %q", got)
	}
}

func TestPreprocessBracketYearReinjected(t *testing.T) {
	got := Preprocess("Pelicula Ejemplo [2013] BDRip")
	if !strings.HasSuffix(got, "(2013)") {
		t.Fatalf("bracket year not re-injected: %q", got)
	}
}

func TestPreprocessNumericPrefix(t *testing.T) {
	if got := Preprocess("02- Second Film"); got != "Second Film" {
		t.Fatalf("list prefix kept: %q", got)
	}
	// A leading year is not a list prefix.
	if got := Preprocess("1985 Back To Somewhere"); !strings.Contains(got, "1985") {
		t.Fatalf("leading year dropped: %q", got)
	}
}

func TestPreprocessEmptyWithoutAlpha(t *testing.T) {
	if got := Preprocess("1080p x264 5.1"); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
	if got := Preprocess(""); got != "" {
		t.Fatalf("expected empty for empty input, got %q", got)
	}
}

func TestPreprocessIdempotent(t *testing.T) {
	inputs := []string{
		"Movie.Example.2020.1080p.WEB-DL.DUAL.x264-GROUP",
		"Show.Name.S02E05.HDTV.XviD-group",
		"Serie Ejemplo Cap.205",
		"My Movie - uploaderhandle",
		"Pelicula Ejemplo [2013] BDRip",
	}
	for _, in := range inputs {
		once := Preprocess(in)
		twice := Preprocess(once)
		if once != twice {
			t.Fatalf("preprocess not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestPreprocessCreditsHead(t *testing.T) {
	got := Preprocess("de Pedro Director con Maria Actriz - La Gran Obra (2001)")
	if strings.Contains(got, "Pedro") || strings.Contains(got, "Maria") {
		t.Fatalf("credits head survived: %q", got)
	}
	if !strings.Contains(got, "Gran Obra") {
		t.Fatalf("title lost with credits head: %q", got)
	}
}

func TestCleanQuery(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"release noise", "Movie.Example.2020.1080p.WEB-DL.DUAL.x264-GROUP", "Movie Example 2020"},
		{"empty input", "", ""},
		{"no alpha", "1080p 5.1", ""},
		{"plain title", "The Quiet Earth", "The Quiet Earth"},
	}
	for _, tt := range tests {
		if got := CleanQuery(tt.in); got != tt.want {
			t.Fatalf("%s: CleanQuery(%q) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestCleanQueryPrefersLeftHyphenSegment(t *testing.T) {
	got := CleanQuery("Gran Pelicula - extra junk here")
	if got != "Gran Pelicula" {
		t.Fatalf("left segment not preferred: %q", got)
	}
}

func TestCleanQueryTinyTitleRecovery(t *testing.T) {
	// Multi-word result stays as is after the tail trim.
	if got := CleanQuery("Gran Rio - xusman"); got != "Gran Rio" {
		t.Fatalf("title mangled: %q", got)
	}
	// Hyphen selection leaves one short token; the prior head token returns.
	if got := CleanQuery("Rio - Gran Aventura - xusman"); got != "Aventura Rio" {
		t.Fatalf("tiny title not recovered: %q", got)
	}
}

func TestParseEpisodeMarkers(t *testing.T) {
	tests := []struct {
		in              string
		season, episode int
		ok              bool
	}{
		{"Show S02E05 HDTV", 2, 5, true},
		{"Show 3x07", 3, 7, true},
		{"Cap.205 My Show", 2, 5, true},
		{"Capitulo 1105", 11, 5, true},
		{"Cap.07", 1, 7, true},
		{"Cap.100", 1, 1, true}, // divmod floor never yields episode zero
		{"Plain Movie 2020", 0, 0, false},
	}
	for _, tt := range tests {
		s, e, ok := ParseEpisodeMarkers(tt.in)
		if ok != tt.ok || s != tt.season || e != tt.episode {
			t.Fatalf("ParseEpisodeMarkers(%q) = (%d, %d, %v), want (%d, %d, %v)",
				tt.in, s, e, ok, tt.season, tt.episode, tt.ok)
		}
	}
}

func TestExtractYears(t *testing.T) {
	years := ExtractYears("Movie.Example.2020.1080p.2020.remaster.1985")
	if len(years) != 2 || years[0] != 2020 || years[1] != 1985 {
		t.Fatalf("unexpected years: %v", years)
	}
	if got := ExtractYears("no year here 2160p"); got != nil {
		t.Fatalf("resolution token treated as year: %v", got)
	}
}

func TestHasTVMarkers(t *testing.T) {
	for _, s := range []string{"Show S01E02", "Serie 1x03", "Temporada 4", "Cap.101"} {
		if !HasTVMarkers(s) {
			t.Fatalf("marker not detected in %q", s)
		}
	}
	if HasTVMarkers("Plain Movie 2020") {
		t.Fatal("false positive TV marker")
	}
}

func TestLooksLikeLeadingNumberTitle(t *testing.T) {
	if !LooksLikeLeadingNumberTitle("12 Monos") {
		t.Fatal("leading number title rejected")
	}
	if LooksLikeLeadingNumberTitle("12 Monos S01E02") {
		t.Fatal("episode marker ignored")
	}
	if LooksLikeLeadingNumberTitle("Monos 12") {
		t.Fatal("trailing number accepted")
	}
}

func TestFindIMDbID(t *testing.T) {
	if got := FindIMDbID("Some Film tt0062622 rip"); got != "tt0062622" {
		t.Fatalf("imdb id = %q", got)
	}
	if got := FindIMDbID("no id here"); got != "" {
		t.Fatalf("unexpected id %q", got)
	}
}

func TestPickTitleFromHyphens(t *testing.T) {
	if got := PickTitleFromHyphens("1999 - Gran Pelicula Final"); got != "Gran Pelicula Final" {
		t.Fatalf("year-first form: %q", got)
	}
	if got := PickTitleFromHyphens("Gran Pelicula - 2007"); got != "Gran Pelicula" {
		t.Fatalf("year-last form: %q", got)
	}
	if got := PickTitleFromHyphens("ok - 2007"); got != "" {
		t.Fatalf("weak candidate accepted: %q", got)
	}
}

func TestSplitCandidateSegments(t *testing.T) {
	segs := SplitCandidateSegments("Title One, Title Two - Title Three")
	want := []string{"Title One", "Title Two", "Title Three"}
	if len(segs) != len(want) {
		t.Fatalf("segments = %v", segs)
	}
	for i := range want {
		if segs[i] != want[i] {
			t.Fatalf("segment %d = %q, want %q", i, segs[i], want[i])
		}
	}
}

func TestBestParentheticalCandidate(t *testing.T) {
	if got := BestParentheticalCandidate("外语片名 (El Laberinto Oscuro) 1080p"); got != "El Laberinto Oscuro" {
		t.Fatalf("candidate = %q", got)
	}
	if got := BestParentheticalCandidate("Pelicula (BDRip 1080p)"); got != "" {
		t.Fatalf("release junk accepted: %q", got)
	}
	if got := BestParentheticalCandidate("Pelicula (solo)"); got != "" {
		t.Fatalf("single word accepted: %q", got)
	}
}

func TestRepairTitle(t *testing.T) {
	if got := RepairTitle("5.1", "Guess Title", "Cleaned Name"); got != "Guess Title" {
		t.Fatalf("audio channel title kept: %q", got)
	}
	if got := RepairTitle("de la", "", "Real Title - 2007"); got != "Real Title" {
		t.Fatalf("preposition scrap kept: %q", got)
	}
	if got := RepairTitle("Proper Title", "Guess", "Cleaned"); got != "Proper Title" {
		t.Fatalf("good title replaced: %q", got)
	}
	if got := RepairTitle("John Doe", "Actual Film Name", "x"); got != "Actual Film Name" {
		t.Fatalf("person-like title kept: %q", got)
	}
}

func TestStripUploaderFromTitle(t *testing.T) {
	got := StripUploaderFromTitle("Gran Obra by Geot www.example.com")
	if got != "Gran Obra" {
		t.Fatalf("uploader crumbs survived: %q", got)
	}
}

func TestStripReleaseTokens(t *testing.T) {
	got := StripReleaseTokens("Gran Obra 1080p x265 hdr VOSE 5.1")
	if got != "Gran Obra" {
		t.Fatalf("release tokens survived: %q", got)
	}
}

func TestCleanForScore(t *testing.T) {
	if got := CleanForScore("The Movie! (2020)"); got != "the movie" {
		t.Fatalf("clean for score = %q", got)
	}
}

func TestRequiredDigits(t *testing.T) {
	got := RequiredDigits("365 dias 2020")
	if len(got) != 1 || got[0] != "365" {
		t.Fatalf("required digits = %v", got)
	}
	if got := RequiredDigits("1984"); got != nil {
		t.Fatalf("year prefix leaked: %v", got)
	}
}

func TestRescueCandidates(t *testing.T) {
	cands := RescueCandidates("1999 - Gran Pelicula Final VOSE")
	if len(cands) == 0 {
		t.Fatal("no rescue candidates")
	}
	found := false
	for _, c := range cands {
		if strings.Contains(c, "Gran Pelicula Final") {
			found = true
		}
		if strings.Contains(c, "VOSE") {
			t.Fatalf("language tag in candidate %q", c)
		}
	}
	if !found {
		t.Fatalf("expected title segment among %v", cands)
	}
}
