package webapi

import (
	"io"
	"math"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/aitopia-kr/aitopia/internal/auth"
	"github.com/aitopia-kr/aitopia/internal/payment"
	"github.com/aitopia-kr/aitopia/internal/webserver"
)

const (
	msgEmptyBody = "Unexpected end of JSON input"
	msgNullBody  = "request body must be a JSON object"

	// maxIntentAmount bounds amounts that convert exactly to int64.
	maxIntentAmount = 1 << 53
)

type paymentIntentRequest struct {
	ServiceKey string  `json:"serviceKey"`
	Amount     float64 `json:"amount" validate:"gte=0"`
	Currency   string  `json:"currency" validate:"omitempty,alpha,len=3"`
}

// CreatePaymentIntent prices the service and opens a payment intent.
// The body is read as JSON whatever its Content-Type; an empty or
// unparsable body is a 500.
func CreatePaymentIntent(c echo.Context) error {
	var body *paymentIntentRequest
	if err := jsoniter.NewDecoder(c.Request().Body).Decode(&body); err != nil {
		zap.L().Warn("payment intent body unreadable", zap.Error(err))
		msg := err.Error()
		if errors.Is(err, io.EOF) {
			msg = msgEmptyBody
		}
		return fail(c, http.StatusInternalServerError, "", msg, nil)
	}
	if body == nil {
		return fail(c, http.StatusInternalServerError, "", msgNullBody, nil)
	}
	req := *body
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", err.Error())
	}
	if req.Amount != math.Trunc(req.Amount) || req.Amount >= maxIntentAmount {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", "amount must be a whole number")
	}

	appCtx := GetAppContext(c)
	res, err := appCtx.Payments().CreateIntent(c.Request().Context(), payment.CreateRequest{
		ServiceKey: req.ServiceKey,
		Amount:     int64(req.Amount),
		Currency:   req.Currency,
		UserEmail:  sessionEmail(c, appCtx.Auth()),
	})
	if err != nil {
		zap.L().Error("create payment intent failed", zap.String("service_key", req.ServiceKey), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "", payment.ErrorMessage(err), nil)
	}
	return ok(c, res)
}

// ListPayments returns the signed-in user's payment records, newest first.
func ListPayments(c echo.Context) error {
	_, limit, err := historyQuery(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_QUERY", err.Error(), nil)
	}
	recs, err := GetAppContext(c).Payments().History(c.Request().Context(), userNamespace(c), limit)
	if err != nil {
		zap.L().Error("payment history query failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query payments", nil)
	}
	return ok(c, map[string]interface{}{"payments": recs})
}

func PaymentIntentInfo(c echo.Context) error {
	return ok(c, map[string]string{"message": "Stripe Payment Intent API"})
}

// sessionEmail returns the signed-in user's email, or "" for anonymous requests.
func sessionEmail(c echo.Context, a *auth.Authenticator) string {
	cookie, err := c.Cookie(auth.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	s, err := a.Session(cookie.Value)
	if err != nil {
		return ""
	}
	return s.User.Email
}

// registerPaymentRoutes registers payment endpoints
func registerPaymentRoutes() {
	webserver.ApiPOST("/create-payment-intent", CreatePaymentIntent)
	webserver.ApiGET("/create-payment-intent", PaymentIntentInfo)
	webserver.AuthGET("/payments", ListPayments)
}
