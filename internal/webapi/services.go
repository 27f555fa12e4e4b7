package webapi

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/aitopia-kr/aitopia/internal/domain"
	"github.com/aitopia-kr/aitopia/internal/webserver"
)

const actionUpdateEarnings = "updateEarnings"

type servicesResponse struct {
	Success  bool                   `json:"success"`
	Services []domain.ServiceRecord `json:"services"`
	Fallback bool                   `json:"fallback,omitempty"`
}

// ListServices returns the active catalog, or the fallback list when the
// datastore is unconfigured or unreachable.
func ListServices(c echo.Context) error {
	cat := GetAppContext(c).Catalog().Resolve(c.Request().Context())
	return ok(c, servicesResponse{Success: true, Services: cat.Services, Fallback: cat.Fallback})
}

type servicesAction struct {
	ServiceKey string `json:"serviceKey"`
	Action     string `json:"action"`
}

// UpdateServices accepts catalog write actions. updateEarnings is acknowledged
// without changing anything.
func UpdateServices(c echo.Context) error {
	var req servicesAction
	if err := jsoniter.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		zap.L().Warn("services action body unreadable", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "", err.Error(), nil)
	}
	if req.Action != actionUpdateEarnings {
		return fail(c, http.StatusBadRequest, "", "Invalid action", nil)
	}
	zap.L().Debug("earnings update acknowledged", zap.String("service_key", req.ServiceKey))
	return ok(c, map[string]bool{"success": true})
}

// registerServiceRoutes registers catalog endpoints
func registerServiceRoutes() {
	webserver.ApiGET("/services", ListServices)
	webserver.ApiPOST("/services", UpdateServices)
}
