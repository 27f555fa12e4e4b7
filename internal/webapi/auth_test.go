package webapi

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aitopia-kr/aitopia/internal/auth"
)

func cookieNamed(rec interface{ Result() *http.Response }, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestProviders(t *testing.T) {
	env := newTestEnv(t, fakeCreator{}, nil, false)
	rec := env.do(t, http.MethodGet, "/api/auth/providers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	google := decode(t, rec)["google"].(map[string]interface{})
	assert.Equal(t, "http://localhost:3000/api/auth/callback/google", google["callbackUrl"])
}

func TestSignIn_NotConfigured(t *testing.T) {
	env := newTestEnv(t, fakeCreator{}, nil, false)
	rec := env.do(t, http.MethodGet, "/api/auth/signin/google", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/auth/callback/google?code=x&state=y", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "http://localhost:3000/auth/error?error=Configuration", rec.Header().Get("Location"))
}

func TestSignIn_FullFlow(t *testing.T) {
	env := newTestEnv(t, fakeCreator{}, fakeProvider{}, false)

	rec := env.do(t, http.MethodGet, "/api/auth/signin/google?callbackUrl=/exchange", "")
	require.Equal(t, http.StatusFound, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	state := loc.Query().Get("state")
	require.NotEmpty(t, state)
	stateCookie := cookieNamed(rec, auth.StateSessionName)
	require.NotNil(t, stateCookie)

	rec = env.do(t, http.MethodGet, "/api/auth/callback/google?code=abc&state="+state, "", stateCookie)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "http://localhost:3000/exchange", rec.Header().Get("Location"))
	sessionCookie := cookieNamed(rec, auth.SessionCookieName)
	require.NotNil(t, sessionCookie)
	assert.True(t, sessionCookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, sessionCookie.SameSite)

	rec = env.do(t, http.MethodGet, "/api/auth/session", "", sessionCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "at-abc", body["accessToken"])
	assert.Equal(t, "demo@aitopia.kr", body["user"].(map[string]interface{})["email"])
	assert.NotEmpty(t, body["expires"])

	rec = env.do(t, http.MethodPost, "/api/auth/signout", "", sessionCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := cookieNamed(rec, auth.SessionCookieName)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)
}

func TestCallback_StateMismatch(t *testing.T) {
	env := newTestEnv(t, fakeCreator{}, fakeProvider{}, false)

	rec := env.do(t, http.MethodGet, "/api/auth/signin/google", "")
	stateCookie := cookieNamed(rec, auth.StateSessionName)
	require.NotNil(t, stateCookie)

	rec = env.do(t, http.MethodGet, "/api/auth/callback/google?code=abc&state=forged", "", stateCookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "http://localhost:3000/auth/error?error=OAuthState", rec.Header().Get("Location"))
	assert.Nil(t, cookieNamed(rec, auth.SessionCookieName))

	rec = env.do(t, http.MethodGet, "/api/auth/callback/google?error=access_denied", "")
	assert.Equal(t, "http://localhost:3000/auth/error?error=AccessDenied", rec.Header().Get("Location"))
}

func TestSession_SignedOut(t *testing.T) {
	env := newTestEnv(t, fakeCreator{}, nil, false)
	rec := env.do(t, http.MethodGet, "/api/auth/session", "")
	assert.JSONEq(t, `{}`, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/auth/session", "", &http.Cookie{Name: auth.SessionCookieName, Value: "garbage"})
	assert.JSONEq(t, `{}`, rec.Body.String())
}

func TestIsLocalPath(t *testing.T) {
	assert.True(t, isLocalPath("/exchange"))
	assert.False(t, isLocalPath("//evil.example"))
	assert.False(t, isLocalPath("https://evil.example"))
	assert.False(t, isLocalPath(""))
}
