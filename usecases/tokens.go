package usecases

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"finance-server/entities"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type userClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 bearer tokens whose subject is the
// decimal user id.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// IssueToken returns a signed token for user and its expiry time.
func (t *TokenIssuer) IssueToken(user *entities.User) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.ttl)
	claims := userClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

// VerifyToken checks signature and expiry and returns the claimed user id.
// Callers must still resolve the id against the user store.
func (t *TokenIssuer) VerifyToken(raw string) (uint, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: missing token", ErrAuth)
	}
	var claims userClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, fmt.Errorf("%w: token expired", ErrAuth)
		}
		return 0, fmt.Errorf("%w: invalid token", ErrAuth)
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid token subject", ErrAuth)
	}
	return uint(id), nil
}
