// Package token signs and verifies the short-lived tokens the application
// hands out: password-reset tokens and session tokens. Both are HS256 JWTs
// keyed by the configured secret and separated by a purpose claim so one can
// never be replayed as the other.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultResetTTL is how long a password-reset token stays valid.
const DefaultResetTTL = 30 * time.Minute

const (
	purposeReset   = "password_reset"
	purposeSession = "session"
)

var (
	// ErrExpired indicates a token whose expiry has passed.
	ErrExpired = errors.New("token expired")
	// ErrInvalid indicates a malformed token or bad signature.
	ErrInvalid = errors.New("token invalid")
)

// Maker issues and verifies tokens with a fixed secret.
type Maker struct {
	secret []byte
}

// NewMaker returns a Maker signing with the given secret.
func NewMaker(secret string) *Maker {
	return &Maker{secret: []byte(secret)}
}

type claims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// SignReset produces a password-reset token embedding the user id.
// A non-positive ttl falls back to DefaultResetTTL.
func (m *Maker) SignReset(userID uint, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultResetTTL
	}
	return m.sign(userID, purposeReset, ttl)
}

// VerifyReset returns the user id embedded in a reset token, or ErrExpired /
// ErrInvalid.
func (m *Maker) VerifyReset(token string) (uint, error) {
	return m.verify(token, purposeReset)
}

// SignSession produces a session token for the authenticated user.
func (m *Maker) SignSession(userID uint, ttl time.Duration) (string, error) {
	return m.sign(userID, purposeSession, ttl)
}

// VerifySession returns the user id embedded in a session token.
func (m *Maker) VerifySession(token string) (uint, error) {
	return m.verify(token, purposeSession)
}

func (m *Maker) sign(userID uint, purpose string, ttl time.Duration) (string, error) {
	now := time.Now()
	c := claims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
}

func (m *Maker) verify(token, purpose string) (uint, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrExpired
		}
		return 0, ErrInvalid
	}
	if !parsed.Valid || c.Purpose != purpose {
		return 0, ErrInvalid
	}
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalid
	}
	return uint(id), nil
}
