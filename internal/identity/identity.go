// Package identity maps auth-provider subject identifiers onto the canonical
// UUID text that the database stores.
package identity

import (
	"strings"

	"github.com/google/uuid"

	"taskboard/internal/domain"
)

// ExternalPrefix marks identifiers issued by the auth provider.
const ExternalPrefix = "user_"

// Normalize converts an externally-prefixed identifier to canonical form.
// Identifiers without the prefix are returned unchanged.
//
// After stripping the prefix the remainder must either already be canonical
// UUID text or be exactly 32 hex characters, which are reshaped with the
// version nibble forced to 4 and the variant nibble forced to 'a'. The mapping
// is a fixed reshuffle, not a registered UUID derivation.
func Normalize(raw string) (string, error) {
	if !strings.HasPrefix(raw, ExternalPrefix) {
		return raw, nil
	}
	code := raw[len(ExternalPrefix):]

	if Canonical(code) {
		return code, nil
	}
	if !isHex32(code) {
		return "", domain.ErrInvalidIdentifierFormat
	}

	h := strings.ToLower(code)
	id := h[0:8] + "-" + h[8:12] + "-4" + h[13:16] + "-a" + h[17:20] + "-" + h[20:32]
	if !Canonical(id) {
		return "", domain.ErrInvalidIdentifierFormat
	}
	return id, nil
}

// ParseID normalizes raw and requires the result to be canonical. Handlers use
// it for every identifier taken from a route or body.
func ParseID(raw string) (string, error) {
	id, err := Normalize(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	if !Canonical(id) {
		return "", domain.ErrInvalidIdentifierFormat
	}
	return id, nil
}

// Canonical reports whether s is 8-4-4-4-12 hex UUID text with a version
// nibble of 1-5 and the RFC 4122 variant.
func Canonical(s string) bool {
	if len(s) != 36 {
		return false
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	if v := u.Version(); v < 1 || v > 5 {
		return false
	}
	return u.Variant() == uuid.RFC4122
}

func isHex32(s string) bool {
	if len(s) != 32 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
