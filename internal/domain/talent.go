package domain

import (
	"math"
	"strings"
)

// Clearance is the internal security clearance vocabulary stored on profiles.
type Clearance string

// Internal clearance codes.
const (
	ClearanceNone         Clearance = "none"
	ClearanceBasic        Clearance = "basic"
	ClearanceConfidential Clearance = "confidential"
	ClearanceTopSecret    Clearance = "top_secret"
	ClearanceTopSecretSCI Clearance = "ts_sci"
)

// clearanceDisplay maps internal clearance codes to the external display
// vocabulary. Unmapped codes pass through unchanged.
var clearanceDisplay = map[Clearance]string{
	ClearanceNone:         "Unclassified",
	ClearanceBasic:        "Public Trust",
	ClearanceConfidential: "Secret",
	ClearanceTopSecret:    "Top Secret",
	ClearanceTopSecretSCI: "Top Secret/SCI",
}

// DisplayClearance remaps an internal clearance code to its display label.
func DisplayClearance(c Clearance) string {
	if label, ok := clearanceDisplay[c]; ok {
		return label
	}
	return string(c)
}

// Education is a single degree entry on a talent profile.
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
}

// Location holds the optional location fields of a talent profile.
type Location struct {
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zipcode string `json:"zipcode,omitempty"`
}

// TalentProfile is the persisted shape of a candidate in the graph store.
type TalentProfile struct {
	ApplicantID   string      `json:"applicant_id"`
	Title         string      `json:"title"`
	Clearance     Clearance   `json:"clearance,omitempty"`
	PreviousRoles []string    `json:"previous_roles,omitempty"`
	Education     []Education `json:"education,omitempty"`
	Location      Location    `json:"location,omitempty"`
}

// ProfileText renders the profile into the canonical text used for both
// lexical indexing and embedding. The same text must be used on the write
// path and the search re-rank path so scores stay comparable.
func (p TalentProfile) ProfileText() string {
	parts := make([]string, 0, 4+len(p.Education))
	if p.Title != "" {
		parts = append(parts, p.Title)
	}
	if len(p.PreviousRoles) > 0 {
		parts = append(parts, strings.Join(p.PreviousRoles, " "))
	}
	for _, e := range p.Education {
		parts = append(parts, e.Degree+" "+e.Institution)
	}
	if p.Location.City != "" || p.Location.State != "" {
		parts = append(parts, strings.TrimSpace(p.Location.City+" "+p.Location.State))
	}
	return strings.Join(parts, ". ")
}

// Score is an optional match score in [0,1]. Valid is false when a hit
// carries no real semantic similarity (e.g. a lexical match that could not
// be re-ranked because the query embedding was unavailable).
type Score struct {
	Value float64
	Valid bool
}

// NewScore creates a valid score.
func NewScore(v float64) Score { return Score{Value: v, Valid: true} }

// Rounded returns the score rounded to two decimal places.
// Invalid scores are returned unchanged.
func (s Score) Rounded() Score {
	if !s.Valid {
		return s
	}
	return Score{Value: math.Round(s.Value*100) / 100, Valid: true}
}

// TalentCandidate is a profile paired with its per-search match metadata.
type TalentCandidate struct {
	TalentProfile
	MatchScore Score
	// SourceRole names the potential role that produced an expansion hit.
	// Empty for lexical and direct semantic hits.
	SourceRole string
}
