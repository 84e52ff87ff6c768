package weapons

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"armoryhub/pkg/models"
)

func newRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api"))
	return r
}

func get(t *testing.T, r http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHandlerSearch(t *testing.T) {
	r := newRouter(newTestService(t, testWeapons))

	w := get(t, r, "/api/search?q=aus")
	require.Equal(t, http.StatusOK, w.Code)

	var got []models.Weapon
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, []string{"glock-19"}, ids(got))

	w = get(t, r, "/api/search?q=zz-no-match")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `[]`, w.Body.String())

	w = get(t, r, "/api/search")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, len(testWeapons))
}

func TestHandlerGetByID(t *testing.T) {
	r := newRouter(newTestService(t, testWeapons))

	w := get(t, r, "/api/weapons/mp5")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"name":"MP5"`)

	w = get(t, r, "/api/weapons/missing")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.JSONEq(t, `{"error":"not found"}`, w.Body.String())
}

func TestHandlerHealth(t *testing.T) {
	r := newRouter(newTestService(t, testWeapons))

	w := get(t, r, "/api/health")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok","items":4}`, w.Body.String())
}

func TestHandlerReadPathsNever5xx(t *testing.T) {
	r := newRouter(NewService(brokenStore{}, slog.New(slog.NewTextHandler(io.Discard, nil))))

	for _, path := range []string{"/api/search", "/api/search?q=ak", "/api/health"} {
		w := get(t, r, path)
		require.Equal(t, http.StatusOK, w.Code, path)
	}
	require.JSONEq(t, `{"status":"ok","items":0}`, get(t, r, "/api/health").Body.String())
}
