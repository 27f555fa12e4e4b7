// Package webapi implements the HTTP handlers of the public API.
package webapi

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/aitopia-kr/aitopia/internal/app"
	"github.com/aitopia-kr/aitopia/internal/auth"
	"github.com/aitopia-kr/aitopia/internal/webserver"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string      `json:"error"`
	Code   string      `json:"code,omitempty"`
	Detail interface{} `json:"detail,omitempty"`
}

var initOnce sync.Once

// Init registers all API routes with the web server.
func Init() {
	initOnce.Do(func() {
		registerServiceRoutes()
		registerPaymentRoutes()
		registerAuthRoutes()
		registerProfileRoutes()
		registerExchangeRoutes()
		registerSystemRoutes()
	})
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func fail(c echo.Context, status int, code, msg string, detail interface{}) error {
	return c.JSON(status, ErrorResponse{Error: msg, Code: code, Detail: detail})
}

// GetAppContext returns the application context installed by the web server.
func GetAppContext(c echo.Context) app.AppContext {
	return c.Get(webserver.AppContextKey).(app.AppContext)
}

// currentClaims returns the verified session of a protected route.
func currentClaims(c echo.Context) *auth.Claims {
	token, ok := c.Get(webserver.ClaimsKey).(*jwt.Token)
	if !ok {
		return &auth.Claims{}
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok {
		return &auth.Claims{}
	}
	return claims
}

// userNamespace is the client state namespace of the signed-in user.
func userNamespace(c echo.Context) string {
	return currentClaims(c).User.Email
}

func errorMessage(err error) string {
	if he, ok := err.(*echo.HTTPError); ok {
		return fmt.Sprint(he.Message)
	}
	return err.Error()
}

// bindAndValidate binds the request body into req and runs struct validation.
// A non-nil result is the 400 response to send.
func bindAndValidate(c echo.Context, req interface{}) *ErrorResponse {
	if err := c.Bind(req); err != nil {
		return &ErrorResponse{Error: "Invalid request body", Code: "INVALID_REQUEST", Detail: errorMessage(err)}
	}
	if err := c.Validate(req); err != nil {
		return &ErrorResponse{Error: "Invalid request", Code: "VALIDATION_ERROR", Detail: err.Error()}
	}
	return nil
}
