package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/meinhoongagan/ignite-call/models"
)

const (
	SessionCookie      = "ignitecall.session"
	RegistrationCookie = "ignitecall.userId"
	OAuthStateCookie   = "ignitecall.oauth_state"

	RegistrationTTL = 7 * 24 * time.Hour
)

// SessionClaims is the payload of the session cookie.
type SessionClaims struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// IssueSession signs a session token for user valid for ttl.
func IssueSession(user *models.User, secret string, ttl time.Duration) (string, time.Time, error) {
	// jwt validates expiry against the wall clock, not Now
	now := time.Now()
	expires := now.Add(ttl)
	claims := SessionClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return signed, expires, nil
}

// ParseSession validates a session token and returns its claims.
func ParseSession(token, secret string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.UserID == "" {
		return nil, ErrUnauthorized
	}
	return claims, nil
}
