package webapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePaymentIntent_AmountResolution(t *testing.T) {
	env := newTestEnv(t, fakeCreator{}, nil, false)

	cases := []struct {
		body   string
		amount float64
	}{
		{`{"serviceKey":"nft-creator"}`, 159000},
		{`{"serviceKey":"music","amount":12345}`, 12345},
		{`{"serviceKey":"no-such-service"}`, 50000},
	}
	for _, tc := range cases {
		rec := env.do(t, http.MethodPost, "/api/create-payment-intent", tc.body)
		require.Equal(t, http.StatusOK, rec.Code, tc.body)
		body := decode(t, rec)
		assert.Equal(t, tc.amount, body["amount"], tc.body)
		assert.NotEmpty(t, body["clientSecret"])
		assert.NotEmpty(t, body["paymentIntentId"])
	}
}

func TestCreatePaymentIntent_Failures(t *testing.T) {
	env := newTestEnv(t, fakeCreator{err: errors.New("card network unavailable")}, nil, false)
	rec := env.do(t, http.MethodPost, "/api/create-payment-intent", `{"serviceKey":"app-dev"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"card network unavailable"}`, rec.Body.String())

	env = newTestEnv(t, nil, nil, false)
	rec = env.do(t, http.MethodPost, "/api/create-payment-intent", `{"serviceKey":"app-dev"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"payment processor is not configured"}`, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/create-payment-intent", `{"serviceKey":`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCreatePaymentIntent_BodyHandling(t *testing.T) {
	env := newTestEnv(t, fakeCreator{}, nil, false)

	post := func(contentType, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/create-payment-intent", strings.NewReader(body))
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		rec := httptest.NewRecorder()
		env.server.Echo().ServeHTTP(rec, req)
		return rec
	}

	for _, ct := range []string{"", "text/plain;charset=UTF-8", "application/json"} {
		rec := post(ct, `{"serviceKey":"music"}`)
		require.Equal(t, http.StatusOK, rec.Code, "content type %q: %s", ct, rec.Body.String())
		assert.Equal(t, 39000.0, decode(t, rec)["amount"])
	}

	rec := post("application/json", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Unexpected end of JSON input"}`, rec.Body.String())

	rec = post("", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = post("application/json", "null")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["error"])

	rec = post("application/json", `{"serviceKey":"music","amount":159000.0}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 159000.0, decode(t, rec)["amount"])

	rec = post("application/json", `{"serviceKey":"music","amount":1.5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post("application/json", `{"serviceKey":"music","amount":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post("application/json", `{"serviceKey":"music","amount":"lots"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPaymentIntentInfo(t *testing.T) {
	env := newTestEnv(t, fakeCreator{}, nil, false)
	rec := env.do(t, http.MethodGet, "/api/create-payment-intent", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Stripe Payment Intent API"}`, rec.Body.String())
}

func TestListPayments(t *testing.T) {
	env := newTestEnv(t, fakeCreator{}, nil, false)
	me := env.sessionCookie(t, "demo@aitopia.kr")

	rec := env.do(t, http.MethodGet, "/api/payments", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/create-payment-intent", `{"serviceKey":"music"}`, me)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/create-payment-intent", `{"serviceKey":"app-dev"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/payments", "", me)
	require.Equal(t, http.StatusOK, rec.Code)
	payments := decode(t, rec)["payments"].([]interface{})
	require.Len(t, payments, 1, "anonymous payments are not attributed")

	rec = env.do(t, http.MethodGet, "/api/payments?limit=0", "", me)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
