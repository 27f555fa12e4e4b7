package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/guonaihong/gout"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/aitopia-kr/aitopia/config"
)

const (
	ProviderGoogle     = "google"
	googleUserInfoURL  = "https://openidconnect.googleapis.com/v1/userinfo"
	googleCallbackPath = "/api/auth/callback/google"
)

var ErrProviderNotConfigured = errors.New("google sign-in is not configured")

// Provider is an OAuth2 identity provider.
type Provider interface {
	ID() string
	Name() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchUser(ctx context.Context, token *oauth2.Token) (User, error)
}

// ProviderInfo is the public descriptor returned by the providers route.
type ProviderInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	SignInURL   string `json:"signinUrl"`
	CallbackURL string `json:"callbackUrl"`
}

// GoogleProvider signs users in with Google OpenID Connect.
type GoogleProvider struct {
	conf        *oauth2.Config
	userInfoURL string
}

// NewGoogleProvider returns ErrProviderNotConfigured when the client id or secret is blank.
func NewGoogleProvider(cfg config.AuthConfig, publicURL string) (*GoogleProvider, error) {
	if strings.TrimSpace(cfg.GoogleClientID) == "" || strings.TrimSpace(cfg.GoogleClientSecret) == "" {
		return nil, ErrProviderNotConfigured
	}
	return &GoogleProvider{
		conf: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Endpoint:     endpoints.Google,
			RedirectURL:  strings.TrimRight(publicURL, "/") + googleCallbackPath,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: googleUserInfoURL,
	}, nil
}

func (p *GoogleProvider) ID() string   { return ProviderGoogle }
func (p *GoogleProvider) Name() string { return "Google" }

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "exchange google authorization code")
	}
	return tok, nil
}

type googleUserInfo struct {
	Sub           string `json:"sub"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Picture       string `json:"picture"`
}

// FetchUser reads the profile of the token owner.
func (p *GoogleProvider) FetchUser(ctx context.Context, token *oauth2.Token) (User, error) {
	var (
		info googleUserInfo
		code int
	)
	err := gout.New(p.conf.Client(ctx, token)).
		GET(p.userInfoURL).
		WithContext(ctx).
		BindJSON(&info).
		Code(&code).
		Do()
	if err != nil {
		return User{}, errors.Wrap(err, "fetch google userinfo")
	}
	if code != http.StatusOK {
		return User{}, errors.Errorf("fetch google userinfo: status %d", code)
	}
	if info.Email == "" {
		return User{}, errors.New("google userinfo has no email")
	}
	return User{Name: info.Name, Email: info.Email, Image: info.Picture}, nil
}

// Info describes a provider for clients.
func Info(id, name, publicURL string) ProviderInfo {
	base := strings.TrimRight(publicURL, "/")
	return ProviderInfo{
		ID:          id,
		Name:        name,
		Type:        "oauth",
		SignInURL:   base + "/api/auth/signin/" + id,
		CallbackURL: base + "/api/auth/callback/" + id,
	}
}
