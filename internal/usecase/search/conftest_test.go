package search

import (
	"context"
	"testing"

	"github.com/hiredeck/talentsearch/internal/domain"
)

// --- Shared mocks ---

// mockEmbedder returns preset vectors by exact text. Unknown texts embed
// to a fixed orthogonal vector so they score 0 against everything.
type mockEmbedder struct {
	vectors map[string][]float32
	errs    map[string]error
	calls   []string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls = append(m.calls, text)
	if err, ok := m.errs[text]; ok {
		return domain.EmbeddingResult{}, err
	}
	if vec, ok := m.vectors[text]; ok {
		return domain.EmbeddingResult{Embedding: vec, TotalTokens: 1}, nil
	}
	return domain.EmbeddingResult{Embedding: []float32{0, 0, 0, 1}, TotalTokens: 1}, nil
}

type mockGate struct {
	explicit bool
	err      error
	calls    int
	lastText string
}

func (m *mockGate) IsExplicit(_ context.Context, text string) (bool, error) {
	m.calls++
	m.lastText = text
	return m.explicit, m.err
}

type mockLexical struct {
	hits  []domain.LexicalHit
	err   error
	calls int
}

func (m *mockLexical) FullTextSearch(_ context.Context, _ string, _ int) ([]domain.LexicalHit, error) {
	m.calls++
	return m.hits, m.err
}

type mockGraph struct {
	profiles map[string]domain.TalentProfile
	roles    map[string][]string
	roleErrs map[string]error
	profErrs map[string]error
}

func (m *mockGraph) GetTalentProfile(_ context.Context, id string) (domain.TalentProfile, error) {
	if err, ok := m.profErrs[id]; ok {
		return domain.TalentProfile{}, err
	}
	p, ok := m.profiles[id]
	if !ok {
		return domain.TalentProfile{}, domain.ErrTalentNotFound
	}
	return p, nil
}

func (m *mockGraph) GetPotentialRoles(_ context.Context, id string) ([]string, error) {
	if err, ok := m.roleErrs[id]; ok {
		return nil, err
	}
	return m.roles[id], nil
}

// mockVectors serves preset hits per lookup, filtered by the threshold the
// service passes in. Query hits answer the query vector; role hits answer
// any other vector.
type mockVectors struct {
	queryVec  []float32
	queryHits []domain.VectorHit
	roleHits  map[string][]domain.VectorHit // keyed by role phrase embedding owner, see roleVecKeys
	roleVecs  map[string]string             // vector fingerprint → role name
	err       error
	calls     int
}

func (m *mockVectors) FindSimilarTalents(
	_ context.Context, vec []float32, threshold float64, _ int,
) ([]domain.VectorHit, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}

	hits := m.queryHits
	if !sameVec(vec, m.queryVec) {
		if name, ok := m.roleVecs[fingerprint(vec)]; ok {
			hits = m.roleHits[name]
		} else {
			hits = nil
		}
	}

	var out []domain.VectorHit
	for _, h := range hits {
		if h.Score >= threshold {
			out = append(out, h)
		}
	}
	return out, nil
}

func sameVec(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func fingerprint(vec []float32) string {
	out := make([]byte, 0, len(vec))
	for _, v := range vec {
		out = append(out, byte(int(v*100)))
	}
	return string(out)
}

// --- Fixture ---

type fixture struct {
	embed   *mockEmbedder
	gate    *mockGate
	lexical *mockLexical
	graph   *mockGraph
	vectors *mockVectors
	svc     *Service
}

// newFixture wires a service around empty mocks with deterministic
// defaults: query "software engineer" embeds to the unit x-axis.
func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()

	queryVec := []float32{1, 0, 0, 0}
	f := &fixture{
		embed: &mockEmbedder{
			vectors: map[string][]float32{"software engineer": queryVec},
			errs:    map[string]error{},
		},
		gate:    &mockGate{},
		lexical: &mockLexical{},
		graph: &mockGraph{
			profiles: map[string]domain.TalentProfile{},
			roles:    map[string][]string{},
			roleErrs: map[string]error{},
			profErrs: map[string]error{},
		},
		vectors: &mockVectors{
			queryVec: queryVec,
			roleVecs: map[string]string{},
			roleHits: map[string][]domain.VectorHit{},
		},
	}
	f.svc = New(f.embed, f.gate, f.lexical, f.graph, f.vectors, opts)
	return f
}

// addTalent registers a profile whose text embeds to similarity sim
// against the query vector [1,0,0,0].
func (f *fixture) addTalent(t *testing.T, id, title string, sim float64) {
	t.Helper()
	profile := domain.TalentProfile{ApplicantID: id, Title: title}
	f.graph.profiles[id] = profile
	f.embed.vectors[profile.ProfileText()] = simVec(sim)
}

// addRole registers a potential role for a talent; the role phrase embeds
// to similarity sim against the query, and similar-talent lookups for that
// role return hits.
func (f *fixture) addRole(t *testing.T, talentID, roleName string, sim float64, hits ...domain.VectorHit) {
	t.Helper()
	f.graph.roles[talentID] = append(f.graph.roles[talentID], roleName)
	vec := simVec(sim)
	f.embed.vectors[rolePhrase(roleName, "software engineer")] = vec
	f.vectors.roleVecs[fingerprint(vec)] = roleName
	f.vectors.roleHits[roleName] = hits
}

// simVec builds a unit vector whose cosine against [1,0,0,0] is exactly sim.
func simVec(sim float64) []float32 {
	s := float32(sim)
	rest := float32(0)
	if sim < 1 {
		rest = float32(sqrt64(1 - sim*sim))
	}
	return []float32{s, rest, 0, 0}
}

func sqrt64(v float64) float64 {
	if v <= 0 {
		return 0
	}
	x := v
	for i := 0; i < 64; i++ {
		x = 0.5 * (x + v/x)
	}
	return x
}
