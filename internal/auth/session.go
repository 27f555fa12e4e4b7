// Package auth signs users in with Google and keeps them signed in with a JWT cookie.
package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/aitopia-kr/aitopia/config"
)

const (
	SessionCookieName = "aitopia.session-token"
	StateSessionName  = "aitopia.oauth-state"
	DefaultMaxAge     = 30 * 24 * time.Hour
	issuer            = "aitopia"
)

var (
	// ErrNoSessionSecret aliases the configuration error so callers can match either.
	ErrNoSessionSecret = config.ErrNoSessionSecret
	ErrInvalidSession  = errors.New("invalid session token")
)

// User is the signed-in identity exposed to clients.
type User struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Image string `json:"image,omitempty"`
}

// Claims is the content of the session token.
type Claims struct {
	User        User   `json:"user"`
	AccessToken string `json:"accessToken,omitempty"`
	jwt.RegisteredClaims
}

// SessionManager issues and verifies session tokens.
type SessionManager struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewSessionManager refuses to run without a secret.
func NewSessionManager(secret string, maxAge time.Duration) (*SessionManager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrNoSessionSecret
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &SessionManager{secret: []byte(secret), maxAge: maxAge, now: time.Now}, nil
}

// Issue signs claims with a fresh expiry and returns the token and that expiry.
func (m *SessionManager) Issue(claims Claims) (string, time.Time, error) {
	now := m.now()
	expires := now.Add(m.maxAge)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   claims.User.Email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign session token")
	}
	return token, expires, nil
}

// Parse verifies the token signature and expiry.
func (m *SessionManager) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, m.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidSession, err.Error())
	}
	return claims, nil
}

func (m *SessionManager) keyFunc(*jwt.Token) (interface{}, error) {
	return m.secret, nil
}
