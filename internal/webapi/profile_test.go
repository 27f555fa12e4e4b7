package webapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_RequiresSession(t *testing.T) {
	env := newTestEnv(t, fakeCreator{}, nil, true)
	for _, path := range []string{"/api/profile", "/api/exchange/rate", "/api/exchange/history"} {
		rec := env.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
	}
}

func TestProfile_WalletBankConsents(t *testing.T) {
	env := newTestEnv(t, fakeCreator{}, nil, true)
	me := env.sessionCookie(t, "demo@aitopia.kr")

	rec := env.do(t, http.MethodPost, "/api/wallet", `{"address":"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"}`, me)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", body["walletAddress"])
	assert.Equal(t, "0x5aAe...eAed", body["shortAddress"])
	assert.Equal(t, true, body["persisted"])

	rec = env.do(t, http.MethodPost, "/api/wallet", `{"address":"0x1234"}`, me)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/wallet", `{}`, me)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/profile/bank", `{"bankAccount":"123-456","accountHolder":"홍길동","bankName":"KB국민은행"}`, me)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, msgBankSaved, decode(t, rec)["message"])

	rec = env.do(t, http.MethodPut, "/api/profile/bank", `{"bankAccount":"123","accountHolder":" ","bankName":"KB"}`, me)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/profile/consents", `{"dataType":"financial","consent":true}`, me)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodPut, "/api/profile/consents", `{"dataType":"dna","consent":true}`, me)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/profile", "", me)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", body["walletAddress"])
	assert.Equal(t, "KB국민은행", body["bankName"])
	assert.Equal(t, true, body["storageAvailable"])
	assert.Equal(t, true, body["consents"].(map[string]interface{})["financial"])

	other := env.sessionCookie(t, "other@aitopia.kr")
	rec = env.do(t, http.MethodGet, "/api/profile", "", other)
	assert.Empty(t, decode(t, rec)["walletAddress"], "profiles are per user")

	rec = env.do(t, http.MethodDelete, "/api/profile", "", me)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/profile", "", me)
	assert.Empty(t, decode(t, rec)["walletAddress"])
}

func TestProfile_StorageUnavailable(t *testing.T) {
	env := newTestEnv(t, fakeCreator{}, nil, false)
	me := env.sessionCookie(t, "demo@aitopia.kr")

	rec := env.do(t, http.MethodPost, "/api/wallet/generate", "", me)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Len(t, body["walletAddress"], 42)
	assert.Equal(t, false, body["persisted"])

	rec = env.do(t, http.MethodPut, "/api/profile/bank", `{"bankAccount":"1","accountHolder":"a","bankName":"b"}`, me)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, msgBankTemporary, decode(t, rec)["message"])

	rec = env.do(t, http.MethodGet, "/api/profile", "", me)
	assert.Equal(t, false, decode(t, rec)["storageAvailable"])
}
