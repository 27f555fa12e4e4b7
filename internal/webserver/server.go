// Package webserver hosts the HTTP API.
package webserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/aitopia-kr/aitopia/config"
)

// AppContextKey is the echo context key holding the application context.
const AppContextKey = "appCtx"

// ClaimsKey is the echo context key holding the verified session token.
const ClaimsKey = "session"

// Options configures a Server.
type Options struct {
	// SessionSecret signs the session JWT and the OAuth state cookie.
	SessionSecret []byte
	// NewClaims returns an empty claims value for the session JWT.
	NewClaims func() jwt.Claims
	// SessionCookie is the cookie carrying the session JWT.
	SessionCookie string
	SecureCookie  bool
}

type Server struct {
	root *echo.Echo
	addr string
}

// NewServer builds the echo instance and mounts every registered route.
func NewServer(cfg *config.AppConfig, appCtx interface{}, opts Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = JSONSerializer{}
	e.Validator = NewValidator()
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.Recover())
	e.Use(requestLogger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     allowedOrigins(cfg),
		AllowCredentials: true,
	}))

	store := sessions.NewCookieStore(opts.SessionSecret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(AppContextKey, appCtx)
			return next(c)
		}
	})

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api")
	protected := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:    opts.SessionSecret,
		SigningMethod: echojwt.AlgorithmHS256,
		TokenLookup:   "cookie:" + opts.SessionCookie,
		ContextKey:    ClaimsKey,
		NewClaimsFunc: func(echo.Context) jwt.Claims { return opts.NewClaims() },
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized").SetInternal(err)
		},
	}))

	for _, r := range Routes() {
		g := api
		if r.Protected {
			g = protected
		}
		g.Add(r.Method, r.Path, r.Handler)
	}

	return &Server{
		root: e,
		addr: fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port),
	}
}

func (s *Server) Echo() *echo.Echo {
	return s.root
}

// Start blocks serving HTTP until Shutdown.
func (s *Server) Start() error {
	zap.S().Infof("Start web server %s", s.addr)
	err := s.root.Start(s.addr)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.root.Shutdown(ctx)
}

func allowedOrigins(cfg *config.AppConfig) []string {
	if len(cfg.Web.AllowedOrigins) > 0 {
		return cfg.Web.AllowedOrigins
	}
	if u := strings.TrimRight(cfg.Web.PublicURL, "/"); u != "" {
		return []string{u}
	}
	return []string{"*"}
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogMethod:  true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency.Round(time.Microsecond)),
			}
			if v.Error != nil {
				zap.L().Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			zap.L().Debug("request", fields...)
			return nil
		},
	})
}

// errorHandler renders framework errors with the API error envelope.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	} else {
		zap.L().Error("unhandled request error", zap.String("uri", c.Request().RequestURI), zap.Error(err))
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, map[string]string{"error": msg})
	}
	if err != nil {
		zap.L().Error("write error response", zap.Error(err))
	}
}
