package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k3053/GeoInsight.AI/controllers"
	"github.com/k3053/GeoInsight.AI/models"
)

type stubAgent struct{}

func (stubAgent) Query(ctx context.Context, req models.ChatRequest) (models.ChatResponse, error) {
	return models.ChatResponse{Answer: "stub answer"}, nil
}

type stubBuildings struct{}

func (stubBuildings) Lookup(ctx context.Context, lat, lon, radius float64) (models.BuildingsResponse, error) {
	return models.BuildingsResponse{Points: []models.BuildingPoint{}}, nil
}

func testRouter(t *testing.T, staticDir string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return SetupRouter(
		controllers.NewChatController(stubAgent{}),
		controllers.NewDataController(stubBuildings{}),
		staticDir,
	)
}

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRootRoute(t *testing.T) {
	r := testRouter(t, "")

	w := serve(r, http.MethodGet, "/")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Main Page"}`, w.Body.String())
}

func TestHealthRoute(t *testing.T) {
	r := testRouter(t, "")

	w := serve(r, http.MethodGet, "/health")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","service":"Location Intelligence"}`, w.Body.String())
}

func TestCORSHeadersAndPreflight(t *testing.T) {
	r := testRouter(t, "")

	w := serve(r, http.MethodGet, "/health")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	pre := serve(r, http.MethodOptions, "/chat/query")
	assert.Equal(t, http.StatusNoContent, pre.Code)
}

func TestStaticFallbackServesFileOrIndex(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))
	r := testRouter(t, dir)

	file := serve(r, http.MethodGet, "/app.js")
	require.Equal(t, http.StatusOK, file.Code)
	assert.Equal(t, "console.log(1)", file.Body.String())

	spa := serve(r, http.MethodGet, "/some/client/route")
	require.Equal(t, http.StatusOK, spa.Code)
	assert.Contains(t, spa.Body.String(), "app")
}

func TestStaticFallbackRejectsNonGET(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("app"), 0o644))
	r := testRouter(t, dir)

	w := serve(r, http.MethodDelete, "/whatever")

	assert.Equal(t, http.StatusNotFound, w.Code)
}
