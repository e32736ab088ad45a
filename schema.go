package talentsearch

import (
	"github.com/hiredeck/talentsearch/internal/domain"
	ingestuc "github.com/hiredeck/talentsearch/internal/usecase/ingest"
)

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

// TalentProfile is the public profile shape accepted on the write path.
type TalentProfile struct {
	ApplicantID   string      `json:"applicant_id"`
	Title         string      `json:"title"`
	Clearance     string      `json:"clearance,omitempty"`
	PreviousRoles []string    `json:"previous_roles,omitempty"`
	Education     []Education `json:"education,omitempty"`
	Location      Location    `json:"location,omitempty"`
}

// Record pairs a profile with the potential roles inferred for it.
type Record struct {
	Profile        TalentProfile `json:"profile"`
	PotentialRoles []string      `json:"potential_roles,omitempty"`
}

// Talent is a single ranked candidate in a search result.
type Talent struct {
	ApplicantID   string      `json:"applicant_id"`
	Title         string      `json:"title"`
	Clearance     string      `json:"clearance,omitempty"`
	PreviousRoles []string    `json:"previous_roles,omitempty"`
	Education     []Education `json:"education,omitempty"`
	Location      Location    `json:"location,omitempty"`
	// Score is nil when the hit carries no semantic similarity.
	Score *float64 `json:"score,omitempty"`
	// SourceRole names the potential role that produced an expansion hit.
	SourceRole string `json:"source_role,omitempty"`
}

// RoleOverlap is one entry of the debug-mode role-overlap report.
type RoleOverlap struct {
	RoleName string  `json:"role_name"`
	Score    float64 `json:"score"`
}

// SearchResult is the final payload of a candidate search.
type SearchResult struct {
	Match             bool          `json:"match"`
	ModerationBlocked bool          `json:"moderation_blocked,omitempty"`
	Talents           []Talent      `json:"talents"`
	OverlappingRoles  []RoleOverlap `json:"overlapping_roles,omitempty"`
}

// IndexFailure reports one failed record of a batch.
type IndexFailure struct {
	ApplicantID string `json:"applicant_id"`
	Err         error  `json:"-"`
}

// IndexReport summarizes a batch index run.
type IndexReport struct {
	Indexed  int            `json:"indexed"`
	Failures []IndexFailure `json:"failures,omitempty"`
}

func toDomainProfile(p TalentProfile) domain.TalentProfile {
	edu := make([]domain.Education, len(p.Education))
	for i, e := range p.Education {
		edu[i] = domain.Education{Degree: e.Degree, Institution: e.Institution}
	}
	return domain.TalentProfile{
		ApplicantID:   p.ApplicantID,
		Title:         p.Title,
		Clearance:     domain.Clearance(p.Clearance),
		PreviousRoles: p.PreviousRoles,
		Education:     edu,
		Location: domain.Location{
			City:    p.Location.City,
			State:   p.Location.State,
			Zipcode: p.Location.Zipcode,
		},
	}
}

func toIngestRecord(r Record) ingestuc.Record {
	return ingestuc.Record{
		Profile:        toDomainProfile(r.Profile),
		PotentialRoles: r.PotentialRoles,
	}
}

func fromCandidate(c domain.TalentCandidate) Talent {
	edu := make([]Education, len(c.Education))
	for i, e := range c.Education {
		edu[i] = Education{Degree: e.Degree, Institution: e.Institution}
	}
	t := Talent{
		ApplicantID:   c.ApplicantID,
		Title:         c.Title,
		Clearance:     string(c.Clearance),
		PreviousRoles: c.PreviousRoles,
		Education:     edu,
		Location: Location{
			City:    c.Location.City,
			State:   c.Location.State,
			Zipcode: c.Location.Zipcode,
		},
		SourceRole: c.SourceRole,
	}
	if c.MatchScore.Valid {
		v := c.MatchScore.Value
		t.Score = &v
	}
	return t
}

func fromMatchResult(r domain.MatchResult) SearchResult {
	out := SearchResult{
		Match:             r.Match,
		ModerationBlocked: r.ModerationBlocked,
	}
	if len(r.Talents) > 0 {
		out.Talents = make([]Talent, len(r.Talents))
		for i, c := range r.Talents {
			out.Talents[i] = fromCandidate(c)
		}
	}
	if len(r.OverlappingRoles) > 0 {
		out.OverlappingRoles = make([]RoleOverlap, len(r.OverlappingRoles))
		for i, o := range r.OverlappingRoles {
			out.OverlappingRoles[i] = RoleOverlap{RoleName: o.RoleName, Score: o.Score}
		}
	}
	return out
}

func fromBatchReport(r ingestuc.BatchReport) IndexReport {
	out := IndexReport{Indexed: r.Indexed}
	if len(r.Failures) > 0 {
		out.Failures = make([]IndexFailure, len(r.Failures))
		for i, f := range r.Failures {
			out.Failures[i] = IndexFailure{ApplicantID: f.ApplicantID, Err: f.Err}
		}
	}
	return out
}
