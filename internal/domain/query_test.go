package domain

import (
	"errors"
	"testing"
)

func TestNormalizeQuery_Valid(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantCleaned string
		wantDebug   bool
	}{
		{"plain", "software engineer", "software engineer", false},
		{"trims whitespace", "  backend developer  ", "backend developer", false},
		{"collapses inner whitespace", "senior \t data  engineer", "senior data engineer", false},
		{"eagle-eye flag stripped", "!eagleeye backend developer", "backend developer", true},
		{"overlap flag stripped", "backend developer !overlap", "backend developer", true},
		{"flag case-insensitive", "!EagleEye ops lead", "ops lead", true},
		{"both flags", "!eagleeye !overlap sre", "sre", true},
		{"digits allowed", "sre level 3", "sre level 3", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := NormalizeQuery(tt.raw)
			if err != nil {
				t.Fatalf("NormalizeQuery(%q): %v", tt.raw, err)
			}
			if q.Cleaned != tt.wantCleaned {
				t.Errorf("Cleaned = %q, want %q", q.Cleaned, tt.wantCleaned)
			}
			if q.Flags.Debug() != tt.wantDebug {
				t.Errorf("Flags.Debug() = %v, want %v", q.Flags.Debug(), tt.wantDebug)
			}
			if q.Raw != tt.raw {
				t.Errorf("Raw = %q, want %q", q.Raw, tt.raw)
			}
		})
	}
}

func TestNormalizeQuery_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"punctuation only", "?!#$"},
		{"embedded punctuation", "c++ developer"},
		{"flag only", "!eagleeye"},
		{"unknown bang token", "!nuke backend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeQuery(tt.raw)
			if !errors.Is(err, ErrInvalidQuery) {
				t.Errorf("NormalizeQuery(%q) err = %v, want ErrInvalidQuery", tt.raw, err)
			}
		})
	}
}
