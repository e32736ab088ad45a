package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/hiredeck/talentsearch/internal/db"
	"github.com/hiredeck/talentsearch/internal/domain"
)

type fakeStore struct {
	json map[string][]byte
	sets map[string][]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{json: make(map[string][]byte), sets: make(map[string][]string)}
}

func (f *fakeStore) JSONSet(_ context.Context, key, _ string, data []byte) error {
	f.json[key] = data
	return nil
}

func (f *fakeStore) JSONGet(_ context.Context, key string, _ ...string) ([]byte, error) {
	data, ok := f.json[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return data, nil
}

func (f *fakeStore) Del(_ context.Context, key string) error {
	delete(f.json, key)
	delete(f.sets, key)
	return nil
}

func (f *fakeStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := f.json[key]
	return ok, nil
}

func (f *fakeStore) SAdd(_ context.Context, key string, members ...string) error {
	f.sets[key] = append(f.sets[key], members...)
	return nil
}

func (f *fakeStore) SMembers(_ context.Context, key string) ([]string, error) {
	return f.sets[key], nil
}

func TestProfileRoundTrip(t *testing.T) {
	repo := New(newFakeStore(), "ts:")
	ctx := context.Background()

	profile := domain.TalentProfile{
		ApplicantID:   "a1",
		Title:         "Backend Engineer",
		Clearance:     domain.ClearanceConfidential,
		PreviousRoles: []string{"SRE"},
		Location:      domain.Location{City: "Austin", State: "TX"},
	}
	if err := repo.PutTalentProfile(ctx, profile); err != nil {
		t.Fatalf("PutTalentProfile: %v", err)
	}

	got, err := repo.GetTalentProfile(ctx, "a1")
	if err != nil {
		t.Fatalf("GetTalentProfile: %v", err)
	}
	if got.Title != profile.Title || got.Clearance != profile.Clearance || got.Location.City != "Austin" {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestGetTalentProfile_Missing(t *testing.T) {
	repo := New(newFakeStore(), "ts:")
	_, err := repo.GetTalentProfile(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrTalentNotFound) {
		t.Fatalf("err = %v, want ErrTalentNotFound", err)
	}
}

func TestPotentialRoles(t *testing.T) {
	repo := New(newFakeStore(), "ts:")
	ctx := context.Background()

	if err := repo.AddPotentialRoles(ctx, "a1", "Platform Engineer", "DevOps Engineer"); err != nil {
		t.Fatalf("AddPotentialRoles: %v", err)
	}

	roles, err := repo.GetPotentialRoles(ctx, "a1")
	if err != nil {
		t.Fatalf("GetPotentialRoles: %v", err)
	}
	if len(roles) != 2 {
		t.Fatalf("got %d roles, want 2", len(roles))
	}

	// Talent with no recorded roles is not an error.
	roles, err = repo.GetPotentialRoles(ctx, "a2")
	if err != nil {
		t.Fatalf("GetPotentialRoles(empty): %v", err)
	}
	if len(roles) != 0 {
		t.Errorf("got %d roles, want 0", len(roles))
	}
}

func TestDeleteTalent(t *testing.T) {
	repo := New(newFakeStore(), "ts:")
	ctx := context.Background()

	if err := repo.PutTalentProfile(ctx, domain.TalentProfile{ApplicantID: "a1", Title: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := repo.AddPotentialRoles(ctx, "a1", "r"); err != nil {
		t.Fatal(err)
	}
	if err := repo.DeleteTalent(ctx, "a1"); err != nil {
		t.Fatalf("DeleteTalent: %v", err)
	}
	if _, err := repo.GetTalentProfile(ctx, "a1"); !errors.Is(err, domain.ErrTalentNotFound) {
		t.Errorf("profile still present after delete: %v", err)
	}
}
