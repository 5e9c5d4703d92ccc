package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipask/askdoc-service/internal/api/dto"
	"github.com/clipask/askdoc-service/internal/api/handlers"
	"github.com/clipask/askdoc-service/internal/core/docdb"
)

type fakeStore struct {
	pingErr error
}

func (f *fakeStore) Get(context.Context, string) ([]byte, error) { return nil, nil }
func (f *fakeStore) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}
func (f *fakeStore) Delete(context.Context, string) (bool, error) { return false, nil }
func (f *fakeStore) Ping(context.Context) error                   { return f.pingErr }
func (f *fakeStore) Close() error                                 { return nil }

type fakeDocDB struct {
	pingErr error
}

func (f *fakeDocDB) Presets() docdb.PresetsCollection   { return nil }
func (f *fakeDocDB) Settings() docdb.SettingsCollection { return nil }
func (f *fakeDocDB) EnsureIndexes(context.Context) error {
	return nil
}
func (f *fakeDocDB) Ping(context.Context) error  { return f.pingErr }
func (f *fakeDocDB) Close(context.Context) error { return nil }

func performHealth(t *testing.T, store *fakeStore, db *fakeDocDB, path string) *httptest.ResponseRecorder {
	t.Helper()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := handlers.NewHealthHandler(store, db)
	router.GET("/health", handler.Health)
	router.GET("/ready", handler.Ready)
	router.GET("/live", handler.Live)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestHealth_AllComponentsHealthy(t *testing.T) {
	// Act
	w := performHealth(t, &fakeStore{}, &fakeDocDB{}, "/health")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "healthy", resp.Components["blobstore"])
	assert.Equal(t, "healthy", resp.Components["docdb"])
}

func TestHealth_UnhealthyComponentDegradesStatus(t *testing.T) {
	// Act
	w := performHealth(t, &fakeStore{pingErr: assert.AnError}, &fakeDocDB{}, "/health")

	// Assert
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp dto.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Equal(t, "unhealthy", resp.Components["blobstore"])
}

func TestReady_NotReadyWhenDocDBDown(t *testing.T) {
	// Act
	w := performHealth(t, &fakeStore{}, &fakeDocDB{pingErr: assert.AnError}, "/ready")

	// Assert
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestLive_AlwaysOK(t *testing.T) {
	// Act
	w := performHealth(t, &fakeStore{pingErr: assert.AnError}, &fakeDocDB{pingErr: assert.AnError}, "/live")

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
}
