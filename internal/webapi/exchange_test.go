package webapi

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchange_RateAndQuote(t *testing.T) {
	env := newTestEnv(t, fakeCreator{}, nil, true)
	me := env.sessionCookie(t, "demo@aitopia.kr")

	rec := env.do(t, http.MethodGet, "/api/exchange/rate", "", me)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, 1340.0, body["rate"])
	assert.Equal(t, 1247.85, body["balance"])
	assert.Equal(t, 1672119.0, body["balanceKrw"])

	rec = env.do(t, http.MethodPost, "/api/exchange/quote", `{"usdtAmount":100}`, me)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"usdtAmount":100,"rate":1340,"krwAmount":134000,"feeKrw":670}`, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/exchange/quote", `{"usdtAmount":0}`, me)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/exchange/rate/history?since=2024-01-01", "", me)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/exchange/rate/history?since=whenever", "", me)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExchange_RequestFlow(t *testing.T) {
	env := newTestEnv(t, fakeCreator{}, nil, true)
	me := env.sessionCookie(t, "demo@aitopia.kr")

	rec := env.do(t, http.MethodPost, "/api/exchange", `{"usdtAmount":100}`, me)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BANK_ACCOUNT_REQUIRED", decode(t, rec)["code"])

	rec = env.do(t, http.MethodPut, "/api/profile/bank", `{"bankAccount":"123-456","accountHolder":"홍길동","bankName":"KB국민은행"}`, me)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/exchange", `{"usdtAmount":5000}`, me)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_AMOUNT", decode(t, rec)["code"])

	rec = env.do(t, http.MethodPost, "/api/exchange", `{"usdtAmount":100}`, me)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "100 USDT → 134,000원 환전 신청이 완료되었습니다!", body["message"])
	assert.Equal(t, true, body["persisted"])

	rec = env.do(t, http.MethodGet, "/api/exchange/history", "", me)
	require.Equal(t, http.StatusOK, rec.Code)
	orders := decode(t, rec)["orders"].([]interface{})
	require.Len(t, orders, 1)
	assert.Equal(t, "processing", orders[0].(map[string]interface{})["status"])

	rec = env.do(t, http.MethodGet, "/api/exchange/history?limit=abc", "", me)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/exchange/history.csv", "", me)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv"))
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "id,user_email"))
}

func TestExchange_SessionOnlyBankAccount(t *testing.T) {
	env := newTestEnv(t, fakeCreator{}, nil, false)
	me := env.sessionCookie(t, "demo@aitopia.kr")

	rec := env.do(t, http.MethodPost, "/api/exchange",
		`{"usdtAmount":10,"bankAccount":"1","accountHolder":"a","bankName":"b"}`, me)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}
