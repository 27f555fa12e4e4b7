package webapi

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/aitopia-kr/aitopia/internal/auth"
	"github.com/aitopia-kr/aitopia/internal/webserver"
)

// Error codes passed to the sign-in error page.
const (
	authErrorConfiguration = "Configuration"
	authErrorAccessDenied  = "AccessDenied"
	authErrorCallback      = "OAuthCallback"
	authErrorState         = "OAuthState"
)

func publicURL(c echo.Context) string {
	return strings.TrimRight(GetAppContext(c).Config().Web.PublicURL, "/")
}

// ListProviders describes the configured sign-in providers.
func ListProviders(c echo.Context) error {
	info := auth.Info(auth.ProviderGoogle, "Google", publicURL(c))
	return ok(c, map[string]auth.ProviderInfo{info.ID: info})
}

// SignInGoogle starts the OAuth flow. The state is kept in a short lived cookie session.
func SignInGoogle(c echo.Context) error {
	a := GetAppContext(c).Auth()
	if a.Provider == nil {
		return fail(c, http.StatusServiceUnavailable, "PROVIDER_NOT_CONFIGURED", "Google sign-in is not configured", nil)
	}

	sess, err := session.Get(auth.StateSessionName, c)
	if sess == nil {
		zap.L().Error("oauth state session unavailable", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to start sign-in", nil)
	}
	if err != nil {
		zap.L().Warn("oauth state session unreadable, starting a new one", zap.Error(err))
	}
	state := uuid.NewString()
	sess.Values["state"] = state
	if cb := c.QueryParam("callbackUrl"); isLocalPath(cb) {
		sess.Values["callback"] = cb
	} else {
		delete(sess.Values, "callback")
	}
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		zap.L().Error("save oauth state failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "SESSION_ERROR", "Failed to start sign-in", nil)
	}
	return c.Redirect(http.StatusFound, a.Provider.AuthCodeURL(state))
}

// GoogleCallback completes the OAuth flow and issues the session cookie.
func GoogleCallback(c echo.Context) error {
	a := GetAppContext(c).Auth()
	if a.Provider == nil {
		return redirectAuthError(c, authErrorConfiguration)
	}
	if e := c.QueryParam("error"); e != "" {
		zap.L().Info("google sign-in cancelled", zap.String("error", e))
		return redirectAuthError(c, authErrorAccessDenied)
	}

	sess, err := session.Get(auth.StateSessionName, c)
	if err != nil || sess == nil {
		return redirectAuthError(c, authErrorState)
	}
	want, _ := sess.Values["state"].(string)
	if want == "" || want != c.QueryParam("state") {
		return redirectAuthError(c, authErrorState)
	}
	callback, _ := sess.Values["callback"].(string)
	sess.Options.MaxAge = -1
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		zap.L().Warn("clear oauth state failed", zap.Error(err))
	}

	issued, err := a.Complete(c.Request().Context(), c.QueryParam("code"))
	if errors.Is(err, auth.ErrAccessDenied) {
		return redirectAuthError(c, authErrorAccessDenied)
	}
	if err != nil {
		zap.L().Error("google sign-in failed", zap.Error(err))
		return redirectAuthError(c, authErrorCallback)
	}

	setSessionCookie(c, issued.Token, issued.Expires)
	zap.L().Info("user signed in", zap.String("email", issued.User.Email))
	target := publicURL(c) + callback
	if target == "" {
		target = "/"
	}
	return c.Redirect(http.StatusFound, target)
}

// GetSession returns the current session, or an empty object when signed out.
func GetSession(c echo.Context) error {
	cookie, err := c.Cookie(auth.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return ok(c, struct{}{})
	}
	s, err := GetAppContext(c).Auth().Session(cookie.Value)
	if err != nil {
		return ok(c, struct{}{})
	}
	return ok(c, s)
}

// SignOut clears the session cookie.
func SignOut(c echo.Context) error {
	setSessionCookie(c, "", time.Unix(0, 0))
	return ok(c, map[string]string{"url": publicURL(c)})
}

func setSessionCookie(c echo.Context, token string, expires time.Time) {
	cookie := &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   GetAppContext(c).Config().Auth.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	if token == "" {
		cookie.MaxAge = -1
	} else {
		cookie.MaxAge = int(time.Until(expires).Seconds())
	}
	c.SetCookie(cookie)
}

func redirectAuthError(c echo.Context, code string) error {
	return c.Redirect(http.StatusFound, publicURL(c)+"/auth/error?error="+url.QueryEscape(code))
}

// isLocalPath accepts only same-site absolute paths as post sign-in targets.
func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.Contains(p, "\\")
}

// registerAuthRoutes registers sign-in endpoints
func registerAuthRoutes() {
	webserver.ApiGET("/auth/providers", ListProviders)
	webserver.ApiGET("/auth/signin/google", SignInGoogle)
	webserver.ApiPOST("/auth/signin/google", SignInGoogle)
	webserver.ApiGET("/auth/callback/google", GoogleCallback)
	webserver.ApiGET("/auth/session", GetSession)
	webserver.ApiPOST("/auth/signout", SignOut)
}
