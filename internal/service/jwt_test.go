package service

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTripNormalizesSubject(t *testing.T) {
	c := qt.New(t)

	m, err := NewTokenManager("secret", time.Hour)
	c.Assert(err, qt.IsNil)

	tok, err := m.Generate("user_09c842d04dff46ef925cfe563ffb3bf5")
	c.Assert(err, qt.IsNil)

	sub, err := m.Parse(tok)
	c.Assert(err, qt.IsNil)
	c.Assert(sub, qt.Equals, "09c842d0-4dff-46ef-a25c-fe563ffb3bf5")
}

func TestTokenRejectsOtherSecret(t *testing.T) {
	c := qt.New(t)

	a, _ := NewTokenManager("a", time.Hour)
	b, _ := NewTokenManager("b", time.Hour)

	tok, err := a.Generate("09c842d0-4dff-46ef-a25c-fe563ffb3bf5")
	c.Assert(err, qt.IsNil)
	_, err = b.Parse(tok)
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestTokenRejectsExpired(t *testing.T) {
	c := qt.New(t)

	m, _ := NewTokenManager("secret", time.Hour)
	claims := jwt.RegisteredClaims{
		Subject:   "09c842d0-4dff-46ef-a25c-fe563ffb3bf5",
		Issuer:    tokenIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	c.Assert(err, qt.IsNil)

	_, err = m.Parse(tok)
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestTokenManagerNeedsSecret(t *testing.T) {
	c := qt.New(t)

	_, err := NewTokenManager("", time.Hour)
	c.Assert(err, qt.ErrorMatches, "JWT_SECRET is not set")
}
