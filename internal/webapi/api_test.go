package webapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/aitopia-kr/aitopia/config"
	"github.com/aitopia-kr/aitopia/internal/auth"
	"github.com/aitopia-kr/aitopia/internal/catalog"
	"github.com/aitopia-kr/aitopia/internal/domain"
	"github.com/aitopia-kr/aitopia/internal/events"
	"github.com/aitopia-kr/aitopia/internal/exchange"
	"github.com/aitopia-kr/aitopia/internal/payment"
	"github.com/aitopia-kr/aitopia/internal/storage"
	"github.com/aitopia-kr/aitopia/internal/wallet"
	"github.com/aitopia-kr/aitopia/internal/webserver"
	"github.com/aitopia-kr/aitopia/pkg/metrics"
)

const testSecret = "test-session-secret"

type testApp struct {
	cfg      *config.AppConfig
	resolver *catalog.Resolver
	payments *payment.Service
	authn    *auth.Authenticator
	profiles *wallet.Service
	exchange *exchange.Service
	metrics  *metrics.Store
}

func (a *testApp) Config() *config.AppConfig   { return a.cfg }
func (a *testApp) Catalog() *catalog.Resolver  { return a.resolver }
func (a *testApp) Payments() *payment.Service  { return a.payments }
func (a *testApp) Auth() *auth.Authenticator   { return a.authn }
func (a *testApp) Profiles() *wallet.Service   { return a.profiles }
func (a *testApp) Exchange() *exchange.Service { return a.exchange }
func (a *testApp) Metrics() *metrics.Store     { return a.metrics }

type fakeCreator struct{ err error }

func (f fakeCreator) CreateIntent(_ context.Context, p payment.IntentParams) (*payment.Intent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &payment.Intent{ID: "pi_" + p.ServiceKey, ClientSecret: "secret_" + p.ServiceKey}, nil
}

type fakeProvider struct{}

func (fakeProvider) ID() string   { return auth.ProviderGoogle }
func (fakeProvider) Name() string { return "Google" }
func (fakeProvider) AuthCodeURL(state string) string {
	return "https://accounts.example/auth?state=" + state
}
func (fakeProvider) Exchange(_ context.Context, code string) (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: "at-" + code}, nil
}
func (fakeProvider) FetchUser(context.Context, *oauth2.Token) (auth.User, error) {
	return auth.User{Name: "Demo", Email: "demo@aitopia.kr"}, nil
}

type testEnv struct {
	app    *testApp
	server *webserver.Server
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

func newTestEnv(t *testing.T, creator payment.IntentCreator, provider auth.Provider, withStorage bool) *testEnv {
	t.Helper()
	cfg := config.DefaultAppConfig()
	cfg.Auth.SessionSecret = testSecret
	cfg.Web.PublicURL = "http://localhost:3000"

	db := newTestDB(t)
	resolver := catalog.NewResolver(nil)
	payments, err := payment.NewService(resolver, creator, payment.NewGormRepository(db), events.Discard{}, "")
	require.NoError(t, err)
	sessions, err := auth.NewSessionManager(testSecret, time.Hour)
	require.NoError(t, err)

	var capability *storage.Capability
	if withStorage {
		capability, err = storage.Open(filepath.Join(t.TempDir(), "state.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = capability.Close() })
	}

	store, err := metrics.Open("", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ticker := exchange.NewTicker(1340, 0, nil)
	a := &testApp{
		cfg:      cfg,
		resolver: resolver,
		payments: payments,
		authn:    auth.NewAuthenticator(sessions, provider, auth.AllowAll{}, nil),
		profiles: wallet.NewService(storage.NewAccessor(capability)),
		exchange: exchange.NewService(ticker, exchange.NewGormOrderRepository(db), nil, 0.005, 1247.85),
		metrics:  store,
	}

	Init()
	srv := webserver.NewServer(cfg, a, webserver.Options{
		SessionSecret: []byte(testSecret),
		NewClaims:     func() jwt.Claims { return new(auth.Claims) },
		SessionCookie: auth.SessionCookieName,
	})
	return &testEnv{app: a, server: srv}
}

func (e *testEnv) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.server.Echo().ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) sessionCookie(t *testing.T, email string) *http.Cookie {
	t.Helper()
	token, _, err := e.app.authn.Sessions.Issue(auth.JWTCallback(auth.User{Email: email}, "at"))
	require.NoError(t, err)
	return &http.Cookie{Name: auth.SessionCookieName, Value: token}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, fakeCreator{}, nil, false)
	rec := env.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}
