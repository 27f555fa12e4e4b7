package webapi

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/aitopia-kr/aitopia/internal/exchange"
	"github.com/aitopia-kr/aitopia/internal/wallet"
	"github.com/aitopia-kr/aitopia/internal/webserver"
)

const (
	defaultRateWindow   = time.Hour
	defaultHistoryLimit = 50
)

type rateResponse struct {
	exchange.Rate
	Balance    float64 `json:"balance"`
	BalanceKrw int64   `json:"balanceKrw"`
}

// GetRate returns the current USDT/KRW rate and the simulated balance.
func GetRate(c echo.Context) error {
	svc := GetAppContext(c).Exchange()
	r := svc.Rate()
	return ok(c, rateResponse{
		Rate:       r,
		Balance:    svc.Balance(),
		BalanceKrw: int64(math.Round(svc.Balance() * r.Rate)),
	})
}

// GetRateHistory returns recorded rate samples since the given time (default one hour).
func GetRateHistory(c echo.Context) error {
	since, err := exchange.ParseSince(c.QueryParam("since"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_SINCE", err.Error(), nil)
	}
	if since.IsZero() {
		since = time.Now().Add(-defaultRateWindow)
	}
	points, summary, err := GetAppContext(c).Exchange().RateHistory(since, time.Now())
	if err != nil {
		zap.L().Error("rate history query failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "RATE_HISTORY_ERROR", "Failed to load rate history", nil)
	}
	return ok(c, map[string]interface{}{"points": points, "summary": summary})
}

type quoteRequest struct {
	UsdtAmount float64 `json:"usdtAmount" validate:"gt=0"`
}

// QuoteExchange prices an amount at the current rate.
func QuoteExchange(c echo.Context) error {
	var req quoteRequest
	if e := bindAndValidate(c, &req); e != nil {
		return c.JSON(http.StatusBadRequest, e)
	}
	q, err := GetAppContext(c).Exchange().Quote(req.UsdtAmount)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_AMOUNT", err.Error(), nil)
	}
	return ok(c, q)
}

type exchangeRequest struct {
	UsdtAmount    float64 `json:"usdtAmount"`
	BankAccount   string  `json:"bankAccount"`
	AccountHolder string  `json:"accountHolder"`
	BankName      string  `json:"bankName"`
}

// RequestExchange submits an exchange to the registered bank account. Bank
// fields in the body take the place of the stored account when all are given.
func RequestExchange(c echo.Context) error {
	var req exchangeRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", errorMessage(err))
	}
	appCtx := GetAppContext(c)
	ns := userNamespace(c)

	bank := wallet.BankAccount{BankAccount: req.BankAccount, AccountHolder: req.AccountHolder, BankName: req.BankName}
	if !bank.Complete() {
		bank = appCtx.Profiles().Load(ns).Bank()
	}

	res, err := appCtx.Exchange().Request(c.Request().Context(), exchange.Request{
		UserEmail:  ns,
		UsdtAmount: req.UsdtAmount,
		Bank:       bank,
	})
	switch {
	case errors.Is(err, exchange.ErrInvalidAmount), errors.Is(err, exchange.ErrInsufficientBalance):
		return fail(c, http.StatusBadRequest, "INVALID_AMOUNT", "환전 금액을 확인해주세요!", err.Error())
	case errors.Is(err, exchange.ErrBankAccountMissing):
		return fail(c, http.StatusBadRequest, "BANK_ACCOUNT_REQUIRED", "은행 계좌를 먼저 등록해주세요!", err.Error())
	case err != nil:
		zap.L().Error("exchange request failed", zap.String("user", ns), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "EXCHANGE_ERROR", "Failed to submit exchange", nil)
	}
	return ok(c, res)
}

func historyQuery(c echo.Context) (time.Time, int, error) {
	since, err := exchange.ParseSince(c.QueryParam("since"))
	if err != nil {
		return time.Time{}, 0, err
	}
	limit := defaultHistoryLimit
	if v := c.QueryParam("limit"); v != "" {
		n, err := cast.ToIntE(v)
		if err != nil || n <= 0 {
			return time.Time{}, 0, errors.Errorf("invalid limit %q", v)
		}
		limit = n
	}
	return since, limit, nil
}

// ListExchangeHistory returns the user's exchanges, newest first.
func ListExchangeHistory(c echo.Context) error {
	since, limit, err := historyQuery(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_QUERY", err.Error(), nil)
	}
	orders, err := GetAppContext(c).Exchange().History(c.Request().Context(), userNamespace(c), since, limit)
	if err != nil {
		zap.L().Error("exchange history query failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query exchange history", nil)
	}
	return ok(c, map[string]interface{}{"orders": orders})
}

// ExportExchangeHistory downloads the user's exchanges as CSV.
func ExportExchangeHistory(c echo.Context) error {
	since, _, err := historyQuery(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_QUERY", err.Error(), nil)
	}
	orders, err := GetAppContext(c).Exchange().History(c.Request().Context(), userNamespace(c), since, 0)
	if err != nil {
		zap.L().Error("exchange history query failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query exchange history", nil)
	}
	filename := "exchange-history-" + strconv.FormatInt(time.Now().Unix(), 10) + ".csv"
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().WriteHeader(http.StatusOK)
	return exchange.WriteCSV(c.Response(), orders)
}

// registerExchangeRoutes registers exchange endpoints
func registerExchangeRoutes() {
	webserver.AuthGET("/exchange/rate", GetRate)
	webserver.AuthGET("/exchange/rate/history", GetRateHistory)
	webserver.AuthPOST("/exchange/quote", QuoteExchange)
	webserver.AuthPOST("/exchange", RequestExchange)
	webserver.AuthGET("/exchange/history", ListExchangeHistory)
	webserver.AuthGET("/exchange/history.csv", ExportExchangeHistory)
}
