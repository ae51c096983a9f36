package identify

import (
	"testing"

	"mediasort/internal/config"
	"mediasort/internal/tmdb"
)

func testScoreContext() scoreContext {
	return scoreContext{matching: config.Default().Matching}
}

func TestScoreCandidateExactTitleWithYear(t *testing.T) {
	sc := testScoreContext()
	sc.yearHint = 2020
	result := &tmdb.Result{ID: 1, Title: "A Movie Example", ReleaseDate: "2020-03-01"}

	score, ok := scoreCandidate(result, "movie", "Movie Example", sc)
	if !ok {
		t.Fatal("candidate rejected")
	}
	// base 100 plus the exact-year bonus, kept raw for ranking.
	if score != 120 {
		t.Fatalf("score = %d, want 120", score)
	}
}

func TestScoreCandidateRawScoreRanksYearProximity(t *testing.T) {
	sc := testScoreContext()
	sc.yearHint = 2020
	exact := &tmdb.Result{ID: 1, Title: "A Twin Film", ReleaseDate: "2020-05-01"}
	near := &tmdb.Result{ID: 2, Title: "A Twin Film", ReleaseDate: "2021-05-01"}

	a, ok := scoreCandidate(exact, "movie", "Twin Film", sc)
	if !ok {
		t.Fatal("exact-year candidate rejected")
	}
	b, ok := scoreCandidate(near, "movie", "Twin Film", sc)
	if !ok {
		t.Fatal("near-year candidate rejected")
	}
	if a != 120 || b != 112 {
		t.Fatalf("scores = %d, %d, want 120, 112", a, b)
	}
	// Both beat 100; a clamp would make them tie and lose the ordering.
	if a <= b {
		t.Fatalf("exact-year candidate %d must outrank near-year candidate %d", a, b)
	}
}

func TestScoreCandidateYearOutsideAllowed(t *testing.T) {
	sc := testScoreContext()
	sc.yearHint = 1999
	sc.allowedYears = map[int]bool{1999: true}
	result := &tmdb.Result{ID: 1, Title: "Another Film by the Lake", ReleaseDate: "2005-01-01"}

	if _, ok := scoreCandidate(result, "movie", "Another Film by the Lake", sc); ok {
		t.Fatal("candidate outside the filename years must be rejected")
	}
}

func TestScoreCandidateDriftWithWeakBase(t *testing.T) {
	sc := testScoreContext()
	sc.yearHint = 2000
	result := &tmdb.Result{ID: 1, Title: "Some Movie About Cats", ReleaseDate: "2010-01-01"}

	if _, ok := scoreCandidate(result, "movie", "Some Film About Dogs", sc); ok {
		t.Fatal("weak match with a 10-year drift must be rejected")
	}
}

func TestScoreCandidateDriftWithStrongBase(t *testing.T) {
	sc := testScoreContext()
	sc.yearHint = 2000
	result := &tmdb.Result{ID: 1, Title: "Some Film About Dogs", ReleaseDate: "2010-01-01"}

	score, ok := scoreCandidate(result, "movie", "Some Film About Dogs", sc)
	if !ok {
		t.Fatal("strong match should survive drift")
	}
	// base 100, distance penalty -10, drift penalty -30.
	if score != 60 {
		t.Fatalf("score = %d, want 60", score)
	}
}

func TestScoreCandidateTVPenaltyWithoutSignal(t *testing.T) {
	sc := testScoreContext()
	result := &tmdb.Result{ID: 1, Name: "A Show Name", FirstAirDate: "2011-01-01"}

	score, ok := scoreCandidate(result, "tv", "Show Name", sc)
	if !ok {
		t.Fatal("candidate rejected")
	}
	if score != 85 {
		t.Fatalf("score = %d, want 85", score)
	}

	sc.tvHint = true
	score, ok = scoreCandidate(result, "tv", "Show Name", sc)
	if !ok || score != 100 {
		t.Fatalf("with TV signal score = %d, want 100", score)
	}
}

func TestScoreCandidateReleaseNoiseTitle(t *testing.T) {
	sc := testScoreContext()
	result := &tmdb.Result{ID: 1, Title: "Example Story of Time BDRip"}

	score, ok := scoreCandidate(result, "movie", "Example Story of Time", sc)
	if !ok {
		t.Fatal("candidate rejected")
	}
	clean := &tmdb.Result{ID: 2, Title: "Example Story of Time"}
	cleanScore, _ := scoreCandidate(clean, "movie", "Example Story of Time", sc)
	if score >= cleanScore {
		t.Fatalf("noisy title %d should score below clean title %d", score, cleanScore)
	}
}

func TestScoreCandidateDigitGuard(t *testing.T) {
	sc := testScoreContext()
	missing := &tmdb.Result{ID: 1, Title: "Apollo"}
	if _, ok := scoreCandidate(missing, "movie", "Apollo 13", sc); ok {
		t.Fatal("candidate without the required digits must be rejected")
	}

	present := &tmdb.Result{ID: 2, Title: "Apollo 13"}
	if _, ok := scoreCandidate(present, "movie", "Apollo 13", sc); !ok {
		t.Fatal("candidate carrying the digits should pass")
	}
}

func TestScoreCandidatePersonVeto(t *testing.T) {
	sc := testScoreContext()
	result := &tmdb.Result{ID: 1, Name: "Famous Director"}
	if _, ok := scoreCandidate(result, "person", "Famous Director", sc); ok {
		t.Fatal("person results must be rejected without a documentary hint")
	}

	sc.docHint = true
	if _, ok := scoreCandidate(result, "person", "Famous Director", sc); !ok {
		t.Fatal("documentary hint should allow person results")
	}
}

func TestScoreCandidatePersonVetoChecksOriginalTitle(t *testing.T) {
	sc := testScoreContext()
	result := &tmdb.Result{ID: 1, Title: "Retrato", OriginalTitle: "Maria Garcia Lopez"}
	if _, ok := scoreCandidate(result, "movie", "Retrato", sc); ok {
		t.Fatal("person-like original title must be rejected without a documentary hint")
	}
}
