package auth

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/aitopia-kr/aitopia/internal/events"
)

var ErrAccessDenied = errors.New("access denied")

// Authenticator completes provider sign-ins and manages sessions.
type Authenticator struct {
	Sessions  *SessionManager
	Provider  Provider // nil when no provider is configured
	Policy    SignInPolicy
	Publisher events.Publisher
}

func NewAuthenticator(sessions *SessionManager, provider Provider, policy SignInPolicy, publisher events.Publisher) *Authenticator {
	if policy == nil {
		policy = AllowAll{}
	}
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &Authenticator{Sessions: sessions, Provider: provider, Policy: policy, Publisher: publisher}
}

// Issued is a freshly signed session.
type Issued struct {
	Token   string
	Expires time.Time
	User    User
}

// Complete exchanges the authorization code, loads the user, applies the
// sign-in policy and signs a session token.
func (a *Authenticator) Complete(ctx context.Context, code string) (*Issued, error) {
	if a.Provider == nil {
		return nil, ErrProviderNotConfigured
	}
	tok, err := a.Provider.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	user, err := a.Provider.FetchUser(ctx, tok)
	if err != nil {
		return nil, err
	}
	if !a.Policy.Allow(user) {
		zap.L().Info("sign-in refused by policy", zap.String("email", user.Email))
		return nil, ErrAccessDenied
	}
	token, expires, err := a.Sessions.Issue(JWTCallback(user, tok.AccessToken))
	if err != nil {
		return nil, err
	}
	a.Publisher.Publish(events.Event{
		Topic:  events.TopicSignedIn,
		Actor:  user.Email,
		Detail: map[string]interface{}{"provider": a.Provider.ID()},
	})
	return &Issued{Token: token, Expires: expires, User: user}, nil
}

// Session verifies token and returns the session document.
func (a *Authenticator) Session(token string) (Session, error) {
	claims, err := a.Sessions.Parse(token)
	if err != nil {
		return Session{}, err
	}
	return SessionCallback(claims), nil
}
