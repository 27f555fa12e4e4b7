package auth

import "time"

// SignInPolicy decides whether an authenticated identity may sign in.
type SignInPolicy interface {
	Allow(user User) bool
}

// AllowAll admits every identity the provider authenticates.
type AllowAll struct{}

func (AllowAll) Allow(User) bool { return true }

// PolicyFunc adapts a function to SignInPolicy.
type PolicyFunc func(User) bool

func (f PolicyFunc) Allow(u User) bool { return f(u) }

// JWTCallback builds the token claims after a successful sign-in: the
// provider access token and the user are attached.
func JWTCallback(user User, accessToken string) Claims {
	return Claims{User: user, AccessToken: accessToken}
}

// Session is the client-visible session document.
type Session struct {
	User        User   `json:"user"`
	AccessToken string `json:"accessToken,omitempty"`
	Expires     string `json:"expires"`
}

// SessionCallback exposes the access token and user from verified claims.
func SessionCallback(c *Claims) Session {
	s := Session{User: c.User, AccessToken: c.AccessToken}
	if c.ExpiresAt != nil {
		s.Expires = c.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return s
}
