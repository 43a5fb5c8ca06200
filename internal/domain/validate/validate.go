// Package validate implements the field-validation helpers supplemented
// from the original Python implementation's kickai/utils/field_validation.py
// and player_search_utils.py (SPEC_FULL.md §9 item 1): phone number
// normalization, player-id pattern validation, and fuzzy player lookup.
// Stdlib-only by design — no third-party phone-parsing library appears
// anywhere in the example corpus, so this package stays on regexp and
// strings (see DESIGN.md).
package validate

import (
	"regexp"
	"strings"

	"github.com/kickai/kickai/internal/domain"
	"github.com/kickai/kickai/internal/kerrors"
)

// PlayerIDPattern matches the original system's player-id shape: two or
// more uppercase letters followed by a number (e.g. "JS1", "ABC42").
var PlayerIDPattern = regexp.MustCompile(`^[A-Z]{2,}[0-9]+$`)

// IsValidPlayerID reports whether id matches PlayerIDPattern.
func IsValidPlayerID(id string) bool {
	return PlayerIDPattern.MatchString(id)
}

var digitsOnly = regexp.MustCompile(`[^0-9+]`)

// NormalizePhone normalizes phone to E.164 ("+" followed by digits only),
// assuming a UK-style default country code (the original system's default,
// per original_source) when the input lacks one.
func NormalizePhone(phone string) (string, error) {
	trimmed := strings.TrimSpace(phone)
	if trimmed == "" {
		return "", kerrors.Validation("phone number is empty", nil)
	}

	cleaned := digitsOnly.ReplaceAllString(trimmed, "")
	if cleaned == "" {
		return "", kerrors.Validation("phone number has no digits", nil)
	}

	switch {
	case strings.HasPrefix(cleaned, "+"):
		// already has a country code
	case strings.HasPrefix(cleaned, "00"):
		cleaned = "+" + cleaned[2:]
	case strings.HasPrefix(cleaned, "0"):
		cleaned = "+44" + cleaned[1:]
	default:
		cleaned = "+" + cleaned
	}

	digits := strings.TrimPrefix(cleaned, "+")
	if len(digits) < 8 || len(digits) > 15 {
		return "", kerrors.Validation("phone number has an invalid length", nil)
	}
	return cleaned, nil
}

// FuzzyFindPlayer scans players for the best match against query, trying
// (in order) exact player-id match, exact phone match, then a
// case-insensitive substring match on name. Returns nil if nothing
// matches, mirroring the original's "no match" outcome rather than
// erroring — callers decide whether that is a user-facing failure.
func FuzzyFindPlayer(players []domain.Player, query string) *domain.Player {
	q := strings.TrimSpace(query)
	if q == "" || len(players) == 0 {
		return nil
	}

	upperQ := strings.ToUpper(q)
	for i := range players {
		if players[i].ID == upperQ {
			return &players[i]
		}
	}

	if normalized, err := NormalizePhone(q); err == nil {
		for i := range players {
			if players[i].Phone == normalized {
				return &players[i]
			}
		}
	}

	lowerQ := strings.ToLower(q)
	for i := range players {
		if strings.Contains(strings.ToLower(players[i].Name), lowerQ) {
			return &players[i]
		}
	}

	return nil
}
