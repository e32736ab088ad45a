package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// Debug flag tokens recognized inside the raw query text. They are stripped
// before any downstream use and only control whether the response carries
// the role-overlap report.
const (
	FlagTokenEagleEye       = "!eagleeye"
	FlagTokenVerboseOverlap = "!overlap"
)

// QueryFlags records which debug flags were present in the raw query.
// Flags are metadata only: they never change matching behavior.
type QueryFlags struct {
	EagleEye       bool
	VerboseOverlap bool
}

// Debug reports whether the response should include the role-overlap report.
func (f QueryFlags) Debug() bool {
	return f.EagleEye || f.VerboseOverlap
}

// SearchQuery is an immutable parsed search query.
type SearchQuery struct {
	Raw     string
	Cleaned string
	Flags   QueryFlags
}

// allowedPattern: after flag stripping, only alphanumerics and whitespace remain.
var allowedPattern = regexp.MustCompile(`^[A-Za-z0-9\s]*$`)

var hasAlnum = regexp.MustCompile(`[A-Za-z0-9]`)

// NormalizeQuery validates raw input, strips recognized debug flags, and
// produces the cleaned text used by all search branches.
// Returns ErrInvalidQuery when the text contains disallowed characters or
// no alphanumeric content at all.
func NormalizeQuery(raw string) (SearchQuery, error) {
	var flags QueryFlags
	kept := make([]string, 0, 8)

	for _, tok := range strings.Fields(raw) {
		switch strings.ToLower(tok) {
		case FlagTokenEagleEye:
			flags.EagleEye = true
		case FlagTokenVerboseOverlap:
			flags.VerboseOverlap = true
		default:
			kept = append(kept, tok)
		}
	}

	cleaned := strings.TrimSpace(strings.Join(kept, " "))

	if !allowedPattern.MatchString(cleaned) {
		return SearchQuery{}, fmt.Errorf("%w: disallowed characters in %q", ErrInvalidQuery, raw)
	}
	if !hasAlnum.MatchString(cleaned) {
		return SearchQuery{}, fmt.Errorf("%w: no searchable content in %q", ErrInvalidQuery, raw)
	}

	return SearchQuery{Raw: raw, Cleaned: cleaned, Flags: flags}, nil
}
