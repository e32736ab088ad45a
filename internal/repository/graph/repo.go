// Package graph provides typed access to the talent/role relationship store.
package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hiredeck/talentsearch/internal/db"
	"github.com/hiredeck/talentsearch/internal/domain"
)

// store is the consumer interface for the graph repository (ISP).
type store interface {
	db.JSONStore
	db.SetStore
}

// Repository stores talent profiles as JSON documents and the
// talent→potential-role adjacency as sets.
type Repository struct {
	store  store
	prefix string
}

// New creates a graph repository. prefix namespaces all keys.
func New(s store, prefix string) *Repository {
	return &Repository{store: s, prefix: prefix}
}

func (r *Repository) profileKey(id string) string { return r.prefix + "talent:profile:" + id }
func (r *Repository) rolesKey(id string) string   { return r.prefix + "talent:roles:" + id }

// GetTalentProfile fetches a talent profile by applicant ID.
// Returns domain.ErrTalentNotFound when no profile exists.
func (r *Repository) GetTalentProfile(ctx context.Context, applicantID string) (domain.TalentProfile, error) {
	data, err := r.store.JSONGet(ctx, r.profileKey(applicantID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.TalentProfile{}, fmt.Errorf("%w: %s", domain.ErrTalentNotFound, applicantID)
		}
		return domain.TalentProfile{}, fmt.Errorf("get profile %s: %w", applicantID, err)
	}

	var profile domain.TalentProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return domain.TalentProfile{}, fmt.Errorf("decode profile %s: %w", applicantID, err)
	}
	if profile.ApplicantID == "" {
		profile.ApplicantID = applicantID
	}
	return profile, nil
}

// PutTalentProfile stores a talent profile.
func (r *Repository) PutTalentProfile(ctx context.Context, profile domain.TalentProfile) error {
	if profile.ApplicantID == "" {
		return fmt.Errorf("applicant id is required")
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile %s: %w", profile.ApplicantID, err)
	}
	if err := r.store.JSONSet(ctx, r.profileKey(profile.ApplicantID), "$", data); err != nil {
		return fmt.Errorf("put profile %s: %w", profile.ApplicantID, err)
	}
	return nil
}

// GetPotentialRoles returns the role labels previously inferred for a talent.
// A talent without roles yields an empty slice.
func (r *Repository) GetPotentialRoles(ctx context.Context, applicantID string) ([]string, error) {
	roles, err := r.store.SMembers(ctx, r.rolesKey(applicantID))
	if err != nil {
		return nil, fmt.Errorf("get potential roles %s: %w", applicantID, err)
	}
	return roles, nil
}

// AddPotentialRoles records inferred role labels for a talent.
func (r *Repository) AddPotentialRoles(ctx context.Context, applicantID string, roles ...string) error {
	if err := r.store.SAdd(ctx, r.rolesKey(applicantID), roles...); err != nil {
		return fmt.Errorf("add potential roles %s: %w", applicantID, err)
	}
	return nil
}

// DeleteTalent removes a talent's profile and role adjacency.
func (r *Repository) DeleteTalent(ctx context.Context, applicantID string) error {
	if err := r.store.Del(ctx, r.profileKey(applicantID)); err != nil {
		return fmt.Errorf("delete profile %s: %w", applicantID, err)
	}
	if err := r.store.Del(ctx, r.rolesKey(applicantID)); err != nil {
		return fmt.Errorf("delete roles %s: %w", applicantID, err)
	}
	return nil
}
