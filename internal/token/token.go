// Package token issues and validates the gateway's signed session tokens.
//
// Tokens are stateless: validity is a function of the HMAC signature and
// the exp claim versus current time only. There is no revocation list, so
// a token stays bearer-valid until its natural expiry even if the user is
// disabled after issuance.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TTL is the fixed session lifetime: exp = iat + 86400.
const TTL = 24 * time.Hour

var ErrInvalidToken = errors.New("token is invalid or expired")

// Claims are the session claims carried by every issued token.
type Claims struct {
	UserID    int64
	Email     string
	IssuedAt  int64
	ExpiresAt int64
}

// Issuer mints and verifies HS256 session tokens with a process-wide
// symmetric secret. The zero clock means time.Now.
type Issuer struct {
	secret []byte
	now    func() time.Time
}

func NewIssuer(secret []byte) *Issuer {
	return &Issuer{secret: secret, now: time.Now}
}

// NewIssuerWithClock is used by tests to pin the current instant.
func NewIssuerWithClock(secret []byte, now func() time.Time) *Issuer {
	return &Issuer{secret: secret, now: now}
}

// Issue signs a token for an already-authenticated user. UserID and
// email are trusted inputs from a prior credential check.
func (i *Issuer) Issue(userID int64, email string) (string, error) {
	now := i.now().Unix()
	if now < 0 {
		return "", fmt.Errorf("clock before epoch")
	}

	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"iat":     now,
		"exp":     now + int64(TTL.Seconds()),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("signing failed: %w", err)
	}
	return signed, nil
}

// Validate reports whether raw is a structurally sound, correctly
// signed, unexpired token. It never returns an error; any failure is a
// hard deny.
func (i *Issuer) Validate(raw string) bool {
	_, err := i.Parse(raw)
	return err == nil
}

// Parse verifies raw and extracts its session claims. Returns
// ErrInvalidToken for an expired, tampered, or malformed token.
func (i *Issuer) Parse(raw string) (*Claims, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, ok := mc["user_id"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}
	email, ok := mc["email"].(string)
	if !ok || email == "" {
		return nil, ErrInvalidToken
	}
	iat, _ := mc["iat"].(float64)
	exp, _ := mc["exp"].(float64)

	return &Claims{
		UserID:    int64(userID),
		Email:     email,
		IssuedAt:  int64(iat),
		ExpiresAt: int64(exp),
	}, nil
}
