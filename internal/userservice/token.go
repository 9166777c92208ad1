package userservice

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
)

const AccessTokenTime = 24 * time.Hour

// TokenManager issues and verifies stateless identity tokens. A token carries
// all of its claims, so logout keeps no server-side state.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

type identityClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (tm *TokenManager) Issue(user *User) (string, error) {
	now := time.Now()

	claims := identityClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
}

// Verify parses the token and returns the subject user id. Malformed, expired
// and wrongly signed tokens all fail with ErrInvalidToken; the caller must
// still resolve the user row itself.
func (tm *TokenManager) Verify(token string) (int, error) {
	var claims identityClaims

	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return tm.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}

	id, err := strconv.Atoi(claims.Subject)
	if err != nil || id < 1 {
		return 0, ErrInvalidToken
	}

	return id, nil
}
