package search

import (
	"testing"

	"github.com/hiredeck/talentsearch/internal/domain"
)

func candidate(id string, score float64) domain.TalentCandidate {
	return domain.TalentCandidate{
		TalentProfile: domain.TalentProfile{ApplicantID: id},
		MatchScore:    domain.NewScore(score),
	}
}

func TestMergeResults_Empty(t *testing.T) {
	if got := mergeResults(nil, nil, nil); got != nil {
		t.Fatalf("mergeResults(nil, nil, nil) = %+v, want nil", got)
	}
}

func TestMergeResults_BranchOrderPreserved(t *testing.T) {
	merged := mergeResults(
		[]domain.TalentCandidate{candidate("lex1", 0.9)},
		[]domain.TalentCandidate{candidate("sem1", 0.95)},
		[]domain.TalentCandidate{candidate("exp1", 0.99)},
	)
	want := []string{"lex1", "sem1", "exp1"}
	if len(merged) != len(want) {
		t.Fatalf("got %d results, want %d", len(merged), len(want))
	}
	for i, id := range want {
		if merged[i].ApplicantID != id {
			t.Errorf("merged[%d] = %s, want %s", i, merged[i].ApplicantID, id)
		}
	}
}

func TestMergeResults_FirstOccurrenceWins(t *testing.T) {
	merged := mergeResults(
		[]domain.TalentCandidate{candidate("dup", 0.8)},
		[]domain.TalentCandidate{candidate("dup", 0.95), candidate("sem1", 0.9)},
		[]domain.TalentCandidate{candidate("dup", 0.99), candidate("sem1", 0.7)},
	)
	if len(merged) != 2 {
		t.Fatalf("got %d results, want 2", len(merged))
	}
	if merged[0].ApplicantID != "dup" || merged[0].MatchScore.Value != 0.8 {
		t.Errorf("merged[0] = %+v, want dup with the lexical 0.8", merged[0])
	}
	if merged[1].ApplicantID != "sem1" || merged[1].MatchScore.Value != 0.9 {
		t.Errorf("merged[1] = %+v, want sem1 with the direct 0.9", merged[1])
	}
}

func TestMergeResults_ScoresRounded(t *testing.T) {
	merged := mergeResults(nil, []domain.TalentCandidate{candidate("a1", 0.6789)}, nil)
	if merged[0].MatchScore.Value != 0.68 {
		t.Errorf("score = %v, want 0.68", merged[0].MatchScore.Value)
	}
}

func TestMergeResults_InvalidScoreUntouched(t *testing.T) {
	unscored := domain.TalentCandidate{
		TalentProfile: domain.TalentProfile{ApplicantID: "a1"},
	}
	merged := mergeResults([]domain.TalentCandidate{unscored}, nil, nil)
	if merged[0].MatchScore.Valid {
		t.Errorf("MatchScore = %+v, want invalid", merged[0].MatchScore)
	}
}

func TestMergeResults_ClearanceDisplayVocabulary(t *testing.T) {
	cases := map[domain.Clearance]string{
		domain.ClearanceNone:         "Unclassified",
		domain.ClearanceBasic:        "Public Trust",
		domain.ClearanceConfidential: "Secret",
		domain.ClearanceTopSecret:    "Top Secret",
		domain.ClearanceTopSecretSCI: "Top Secret/SCI",
		"reinstatable":               "reinstatable",
	}
	for in, want := range cases {
		c := candidate("a1", 0.9)
		c.Clearance = in
		merged := mergeResults(nil, []domain.TalentCandidate{c}, nil)
		if got := string(merged[0].Clearance); got != want {
			t.Errorf("clearance %q remapped to %q, want %q", in, got, want)
		}
	}
}
