package search

import (
	"context"
	"errors"
	"testing"

	"github.com/hiredeck/talentsearch/internal/domain"
)

func TestScoreRoles_ThresholdInclusive(t *testing.T) {
	f := newFixture(t, Options{Thresholds: Thresholds{RoleExpansion: 0.6}})

	// [3,4,0,0] against [1,0,0,0]: dot 3, norms 1 and 5, similarity
	// exactly 3/5. [2.99,4,0,0] lands just under.
	queryVec := []float32{1, 0, 0, 0}
	f.embed.vectors[rolePhrase("At Threshold", "software engineer")] = []float32{3, 4, 0, 0}
	f.embed.vectors[rolePhrase("Below Threshold", "software engineer")] = []float32{2.99, 4, 0, 0}

	kept, err := f.svc.scoreRoles(context.Background(), "software engineer", queryVec,
		[]string{"At Threshold", "Below Threshold"})
	if err != nil {
		t.Fatalf("scoreRoles: %v", err)
	}
	if len(kept) != 1 || kept[0].RoleName != "At Threshold" {
		t.Fatalf("kept = %+v, want exactly the at-threshold role", kept)
	}
	if kept[0].Score != 0.6 {
		t.Errorf("score = %v, want 0.6", kept[0].Score)
	}
}

func TestScoreRoles_EmbedFailureIsolated(t *testing.T) {
	f := newFixture(t, Options{})
	queryVec := []float32{1, 0, 0, 0}
	f.embed.vectors[rolePhrase("Good Role", "software engineer")] = simVec(0.9)
	f.embed.errs[rolePhrase("Bad Role", "software engineer")] = errors.New("embed down")

	kept, err := f.svc.scoreRoles(context.Background(), "software engineer", queryVec,
		[]string{"Bad Role", "Good Role"})
	if err != nil {
		t.Fatalf("scoreRoles: %v", err)
	}
	if len(kept) != 1 || kept[0].RoleName != "Good Role" {
		t.Fatalf("kept = %+v, want only the scorable role", kept)
	}
}

func TestScoreRoles_DimensionMismatchAborts(t *testing.T) {
	f := newFixture(t, Options{})
	queryVec := []float32{1, 0, 0, 0}
	f.embed.vectors[rolePhrase("Odd Role", "software engineer")] = []float32{1, 0, 0}

	_, err := f.svc.scoreRoles(context.Background(), "software engineer", queryVec, []string{"Odd Role"})
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Fatalf("err = %v, want ErrVectorDimMismatch", err)
	}
}

func TestExpandRoles_RoleFetchFailureIsolated(t *testing.T) {
	f := newFixture(t, Options{})
	f.addTalent(t, "a1", "Software Engineer", 0.9)
	f.addTalent(t, "a2", "Platform Engineer", 0.85)
	f.vectors.queryHits = []domain.VectorHit{
		{ApplicantID: "a1", Score: 0.9},
		{ApplicantID: "a2", Score: 0.85},
	}
	f.addTalent(t, "b1", "Backend Engineer", 0.8)
	f.addRole(t, "a1", "Backend Engineer", 0.8, domain.VectorHit{ApplicantID: "b1", Score: 0.9})
	f.graph.roleErrs["a2"] = errors.New("redis timeout")

	res, err := f.svc.Search(context.Background(), "software engineer")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	ids := make(map[string]bool)
	for _, c := range res.Talents {
		ids[c.ApplicantID] = true
	}
	if !ids["b1"] {
		t.Errorf("expansion through a1 lost when a2's role fetch failed: %v", ids)
	}
}

func TestExpandRoles_DedupesSharedRoles(t *testing.T) {
	f := newFixture(t, Options{})
	f.addTalent(t, "a1", "Software Engineer", 0.9)
	f.addTalent(t, "a2", "Platform Engineer", 0.85)
	f.vectors.queryHits = []domain.VectorHit{
		{ApplicantID: "a1", Score: 0.9},
		{ApplicantID: "a2", Score: 0.85},
	}
	f.addTalent(t, "b1", "Backend Engineer", 0.8)
	f.addRole(t, "a1", "Backend Engineer", 0.8, domain.VectorHit{ApplicantID: "b1", Score: 0.9})
	// Same role on the second talent: must score and fan out only once.
	f.graph.roles["a2"] = []string{"Backend Engineer"}

	res, err := f.svc.Search(context.Background(), "!eagleeye software engineer")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	phrase := rolePhrase("Backend Engineer", "software engineer")
	embeds := 0
	for _, call := range f.embed.calls {
		if call == phrase {
			embeds++
		}
	}
	if embeds != 1 {
		t.Errorf("role phrase embedded %d times, want 1", embeds)
	}
	if len(res.OverlappingRoles) != 1 {
		t.Errorf("overlaps = %+v, want one entry for the shared role", res.OverlappingRoles)
	}
}

func TestExpandRoles_BeamLimitsExpansion(t *testing.T) {
	f := newFixture(t, Options{ExpansionBeam: 2})
	hits := make([]domain.VectorHit, 0, 3)
	for _, tc := range []struct {
		id    string
		score float64
	}{
		{"a1", 0.95},
		{"a2", 0.9},
		{"a3", 0.85},
	} {
		f.addTalent(t, tc.id, "Engineer "+tc.id, tc.score)
		hits = append(hits, domain.VectorHit{ApplicantID: tc.id, Score: tc.score})
	}
	f.vectors.queryHits = hits

	f.addTalent(t, "outside", "Niche Engineer", 0.8)
	// a3 is outside the beam, so its role must never expand.
	f.addRole(t, "a3", "Niche Role", 0.9, domain.VectorHit{ApplicantID: "outside", Score: 0.95})

	res, err := f.svc.Search(context.Background(), "software engineer")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, c := range res.Talents {
		if c.ApplicantID == "outside" {
			t.Error("talent reached results through a role outside the expansion beam")
		}
	}
}

func TestExpandRoles_FanOutFailureIsolated(t *testing.T) {
	f := newFixture(t, Options{})
	f.addTalent(t, "a1", "Software Engineer", 0.9)
	f.vectors.queryHits = []domain.VectorHit{{ApplicantID: "a1", Score: 0.9}}
	f.addTalent(t, "b1", "Backend Engineer", 0.8)
	f.addRole(t, "a1", "Backend Engineer", 0.8, domain.VectorHit{ApplicantID: "b1", Score: 0.9})
	// A role with no registered vector: the mock returns no hits for it,
	// and a ghost hit exercises the missing-profile path.
	f.addRole(t, "a1", "Data Engineer", 0.75, domain.VectorHit{ApplicantID: "ghost", Score: 0.9})

	res, err := f.svc.Search(context.Background(), "software engineer")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	ids := make(map[string]bool)
	for _, c := range res.Talents {
		ids[c.ApplicantID] = true
	}
	if !ids["a1"] || !ids["b1"] {
		t.Errorf("ids = %v, want a1 and b1", ids)
	}
	if ids["ghost"] {
		t.Error("hit without a stored profile leaked into results")
	}
}

func TestExpandRoles_SourceRoleTagged(t *testing.T) {
	f := newFixture(t, Options{})
	f.addTalent(t, "a1", "Software Engineer", 0.9)
	f.vectors.queryHits = []domain.VectorHit{{ApplicantID: "a1", Score: 0.9}}
	f.addTalent(t, "b1", "Backend Engineer", 0.8)
	f.addRole(t, "a1", "Backend Engineer", 0.8, domain.VectorHit{ApplicantID: "b1", Score: 0.9})

	res, err := f.svc.Search(context.Background(), "software engineer")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	var found bool
	for _, c := range res.Talents {
		if c.ApplicantID == "b1" {
			found = true
			if c.SourceRole != "Backend Engineer" {
				t.Errorf("SourceRole = %q", c.SourceRole)
			}
		}
		if c.ApplicantID == "a1" && c.SourceRole != "" {
			t.Errorf("direct hit carries SourceRole %q", c.SourceRole)
		}
	}
	if !found {
		t.Fatal("expansion hit b1 missing from results")
	}
}

func TestTopByScore(t *testing.T) {
	in := []domain.TalentCandidate{
		{TalentProfile: domain.TalentProfile{ApplicantID: "low"}, MatchScore: domain.NewScore(0.7)},
		{TalentProfile: domain.TalentProfile{ApplicantID: "high"}, MatchScore: domain.NewScore(0.95)},
		{TalentProfile: domain.TalentProfile{ApplicantID: "mid"}, MatchScore: domain.NewScore(0.8)},
	}
	top := topByScore(in, 2)
	if len(top) != 2 || top[0].ApplicantID != "high" || top[1].ApplicantID != "mid" {
		t.Fatalf("top = %+v", top)
	}
	// Input order untouched.
	if in[0].ApplicantID != "low" {
		t.Error("topByScore mutated its input")
	}
}
