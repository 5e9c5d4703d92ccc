package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipask/askdoc-service/internal/api/dto"
	"github.com/clipask/askdoc-service/internal/api/handlers"
	"github.com/clipask/askdoc-service/internal/domain/models"
)

// memPresets is an in-memory PresetsCollection.
type memPresets struct {
	items map[string]models.InstructionPreset
}

func newMemPresets() *memPresets {
	return &memPresets{items: make(map[string]models.InstructionPreset)}
}

func (m *memPresets) List(context.Context) ([]models.InstructionPreset, error) {
	out := make([]models.InstructionPreset, 0, len(m.items))
	for _, p := range m.items {
		out = append(out, p)
	}
	return out, nil
}

func (m *memPresets) ListEnabled(context.Context) ([]models.InstructionPreset, error) {
	var out []models.InstructionPreset
	for _, p := range m.items {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPresets) Get(_ context.Context, id string) (*models.InstructionPreset, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memPresets) Insert(_ context.Context, preset *models.InstructionPreset) error {
	m.items[preset.ID] = *preset
	return nil
}

func (m *memPresets) Update(_ context.Context, preset *models.InstructionPreset) (bool, error) {
	if _, ok := m.items[preset.ID]; !ok {
		return false, nil
	}
	m.items[preset.ID] = *preset
	return true, nil
}

func (m *memPresets) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.items[id]; !ok {
		return false, nil
	}
	delete(m.items, id)
	return true, nil
}

func (m *memPresets) EnsureIndexes(context.Context) error { return nil }

func setupPresetsRouter(t *testing.T) (*gin.Engine, *memPresets) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	presets := newMemPresets()
	handler := handlers.NewPresetsHandler(presets)

	router := gin.New()
	router.GET("/presets", handler.List)
	router.POST("/presets", handler.Create)
	router.GET("/presets/:presetId", handler.Get)
	router.PUT("/presets/:presetId", handler.Update)
	router.DELETE("/presets/:presetId", handler.Delete)

	return router, presets
}

func TestPresets_CreateAndGet(t *testing.T) {
	// Arrange
	router, _ := setupPresetsRouter(t)

	body, _ := json.Marshal(dto.PresetRequest{
		Title:       "Summarize",
		Instruction: "Summarize: ###SELECTED_TEXTS###",
		Model:       "gpt",
		Language:    "en",
		Enabled:     true,
	})

	// Act
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/presets", bytes.NewReader(body)))

	// Assert
	require.Equal(t, http.StatusCreated, w.Code)

	var created dto.PresetResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Summarize", created.Title)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/presets/"+created.ID, nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPresets_CreateWithoutInstructionRejected(t *testing.T) {
	// Arrange
	router, _ := setupPresetsRouter(t)
	body, _ := json.Marshal(map[string]string{"title": "no instruction"})

	// Act
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/presets", bytes.NewReader(body)))

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPresets_GetMissingIs404(t *testing.T) {
	// Arrange
	router, _ := setupPresetsRouter(t)

	// Act
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/presets/nope", nil))

	// Assert
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NOT_FOUND", resp.Code)
}

func TestPresets_ListEnabledFilter(t *testing.T) {
	// Arrange
	router, presets := setupPresetsRouter(t)
	presets.items["a"] = models.InstructionPreset{ID: "a", Title: "on", Enabled: true}
	presets.items["b"] = models.InstructionPreset{ID: "b", Title: "off", Enabled: false}

	// Act
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/presets?enabled=true", nil))

	// Assert
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ListPresetsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Presets, 1)
	assert.Equal(t, "a", resp.Presets[0].ID)
}

func TestPresets_UpdateMissingIs404(t *testing.T) {
	// Arrange
	router, _ := setupPresetsRouter(t)
	body, _ := json.Marshal(dto.PresetRequest{Title: "t", Instruction: "i"})

	// Act
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/presets/nope", bytes.NewReader(body)))

	// Assert
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPresets_Delete(t *testing.T) {
	// Arrange
	router, presets := setupPresetsRouter(t)
	presets.items["a"] = models.InstructionPreset{ID: "a", Title: "t"}

	// Act
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/presets/a", nil))

	// Assert
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, presets.items)
}
