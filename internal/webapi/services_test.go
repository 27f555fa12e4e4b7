package webapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListServices_FallbackWhenUnconfigured(t *testing.T) {
	env := newTestEnv(t, fakeCreator{}, nil, false)
	rec := env.do(t, http.MethodGet, "/api/services", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["fallback"])
	services := body["services"].([]interface{})
	require.Len(t, services, 6)
	first := services[0].(map[string]interface{})
	assert.Equal(t, "nft-creator", first["key"])
	assert.Equal(t, true, first["isNew"])
}

func TestUpdateServices(t *testing.T) {
	env := newTestEnv(t, fakeCreator{}, nil, false)

	rec := env.do(t, http.MethodPost, "/api/services", `{"serviceKey":"music","action":"updateEarnings"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/services", `{"serviceKey":"music","action":"deleteEverything"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid action"}`, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/services", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid action"}`, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/services", `{not json`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, decode(t, rec)["error"])
}
