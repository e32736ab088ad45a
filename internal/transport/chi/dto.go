package chi

import (
	"github.com/hiredeck/talentsearch/internal/domain"
	"github.com/hiredeck/talentsearch/internal/usecase/ingest"
)

// Error codes returned in error responses.
type errorCode string

const (
	codeBadRequest           errorCode = "bad_request"
	codeValidationFailed     errorCode = "validation_failed"
	codeTalentNotFound       errorCode = "talent_not_found"
	codeEmbeddingProviderErr errorCode = "embedding_provider_error"
	codeVectorIndexError     errorCode = "vector_index_error"
	codeInternalError        errorCode = "internal_error"
)

// ErrorResponse is the JSON error payload.
type ErrorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

type searchRequest struct {
	Query string `json:"query"`
}

type talentItem struct {
	ApplicantID   string             `json:"applicant_id"`
	Title         string             `json:"title"`
	Clearance     string             `json:"clearance,omitempty"`
	PreviousRoles []string           `json:"previous_roles,omitempty"`
	Education     []domain.Education `json:"education,omitempty"`
	Location      *domain.Location   `json:"location,omitempty"`
	Score         *float64           `json:"score,omitempty"`
	SourceRole    string             `json:"source_role,omitempty"`
}

type roleOverlapItem struct {
	RoleName string  `json:"role_name"`
	Score    float64 `json:"score"`
}

type searchResponse struct {
	Match             bool              `json:"match"`
	ModerationBlocked bool              `json:"moderation_blocked,omitempty"`
	Talents           []talentItem      `json:"talents"`
	OverlappingRoles  []roleOverlapItem `json:"overlapping_roles,omitempty"`
}

type upsertTalentRequest struct {
	Profile        domain.TalentProfile `json:"profile"`
	PotentialRoles []string             `json:"potential_roles,omitempty"`
}

type batchUpsertRequest struct {
	Talents []upsertTalentRequest `json:"talents"`
}

type batchFailureItem struct {
	ApplicantID string `json:"applicant_id"`
	Error       string `json:"error"`
}

type batchUpsertResponse struct {
	Indexed  int                `json:"indexed"`
	Failures []batchFailureItem `json:"failures,omitempty"`
}

func talentToItem(c domain.TalentCandidate) talentItem {
	item := talentItem{
		ApplicantID:   c.ApplicantID,
		Title:         c.Title,
		Clearance:     string(c.Clearance),
		PreviousRoles: c.PreviousRoles,
		Education:     c.Education,
		SourceRole:    c.SourceRole,
	}
	if c.Location != (domain.Location{}) {
		loc := c.Location
		item.Location = &loc
	}
	if c.MatchScore.Valid {
		v := c.MatchScore.Value
		item.Score = &v
	}
	return item
}

func resultToResponse(res domain.MatchResult) searchResponse {
	resp := searchResponse{
		Match:             res.Match,
		ModerationBlocked: res.ModerationBlocked,
		Talents:           make([]talentItem, len(res.Talents)),
	}
	for i, c := range res.Talents {
		resp.Talents[i] = talentToItem(c)
	}
	for _, o := range res.OverlappingRoles {
		resp.OverlappingRoles = append(resp.OverlappingRoles, roleOverlapItem{
			RoleName: o.RoleName,
			Score:    o.Score,
		})
	}
	return resp
}

func recordFromUpsert(req upsertTalentRequest) ingest.Record {
	return ingest.Record{
		Profile:        req.Profile,
		PotentialRoles: req.PotentialRoles,
	}
}
