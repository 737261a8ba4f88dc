package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authdomain "github.com/Black-And-White-Club/archery-scorer/app/modules/auth/domain"
	"github.com/Black-And-White-Club/archery-scorer/config"
)

func newTestApp(t *testing.T) (*App, string) {
	t.Helper()
	cfg := config.Default()
	cfg.Database.DSN = fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", t.Name())
	cfg.JWT.Secret = "test-secret"
	cfg.HTTP.Addr = "127.0.0.1:0"
	cfg.Observability.LogLevel = "error"

	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	token, err := app.AuthModule.Provider().GenerateToken(&authdomain.Claims{ArcherID: "archer-1", Role: authdomain.RoleArcher}, time.Hour)
	require.NoError(t, err)
	return app, token
}

func call(t *testing.T, h http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestApp_ServesModulesOverHTTP(t *testing.T) {
	app, token := newTestApp(t)
	h := app.HTTP.Router

	rec := call(t, h, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = call(t, h, http.MethodGet, "/api/rounds/", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call(t, h, http.MethodGet, "/api/rounds/", token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var rounds []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rounds))
	var yorkID int64
	for _, r := range rounds {
		if r.Name == "york" {
			yorkID = r.ID
		}
	}
	require.NotZero(t, yorkID, "default catalogue should include the York")

	rec = call(t, h, http.MethodPost, "/api/shoots/", token, fmt.Sprintf(`{"round_id":%d}`, yorkID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var shoot struct {
		ID    string `json:"id"`
		Golds string `json:"golds"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &shoot))
	assert.Equal(t, "nines_up", shoot.Golds)

	rec = call(t, h, http.MethodPost, "/api/shoots/"+shoot.ID+"/arrows", token, `{"arrows":["X","9","9","7","5","M"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = call(t, h, http.MethodGet, "/api/shoots/"+shoot.ID+"/remaining", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"remaining":{"current":"66 at 100yd","later":"48 at 80yd, 24 at 60yd","total":138}}`, rec.Body.String())

	rec = call(t, h, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "archery_scorer")
}
