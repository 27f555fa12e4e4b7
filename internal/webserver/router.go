package webserver

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
)

// Route is a registered API endpoint. Paths are relative to /api.
type Route struct {
	Method    string
	Path      string
	Handler   echo.HandlerFunc
	Protected bool
}

var (
	routesMu sync.Mutex
	routes   []Route
)

func addRoute(method, path string, h echo.HandlerFunc, protected bool) {
	routesMu.Lock()
	defer routesMu.Unlock()
	routes = append(routes, Route{Method: method, Path: path, Handler: h, Protected: protected})
}

// Routes returns a snapshot of the registered routes.
func Routes() []Route {
	routesMu.Lock()
	defer routesMu.Unlock()
	out := make([]Route, len(routes))
	copy(out, routes)
	return out
}

func ApiGET(path string, h echo.HandlerFunc)    { addRoute(http.MethodGet, path, h, false) }
func ApiPOST(path string, h echo.HandlerFunc)   { addRoute(http.MethodPost, path, h, false) }
func ApiPUT(path string, h echo.HandlerFunc)    { addRoute(http.MethodPut, path, h, false) }
func ApiDELETE(path string, h echo.HandlerFunc) { addRoute(http.MethodDelete, path, h, false) }

// Session-protected variants. Requests without a valid session cookie get 401.
func AuthGET(path string, h echo.HandlerFunc)    { addRoute(http.MethodGet, path, h, true) }
func AuthPOST(path string, h echo.HandlerFunc)   { addRoute(http.MethodPost, path, h, true) }
func AuthPUT(path string, h echo.HandlerFunc)    { addRoute(http.MethodPut, path, h, true) }
func AuthDELETE(path string, h echo.HandlerFunc) { addRoute(http.MethodDelete, path, h, true) }
