package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clipask/askdoc-service/internal/api/dto"
	"github.com/clipask/askdoc-service/internal/api/middleware"
	"github.com/clipask/askdoc-service/internal/core/docdb"
	"github.com/clipask/askdoc-service/internal/domain/errors"
	"github.com/clipask/askdoc-service/internal/domain/models"
)

// PresetsHandler handles instruction preset CRUD for the options
// collaborator.
type PresetsHandler struct {
	presets docdb.PresetsCollection
}

// NewPresetsHandler creates a new PresetsHandler.
func NewPresetsHandler(presets docdb.PresetsCollection) *PresetsHandler {
	return &PresetsHandler{presets: presets}
}

// List handles GET /presets. With ?enabled=true only enabled presets are
// returned, sorted by sort order, which is the trigger-menu list the
// selection collaborator renders.
func (h *PresetsHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		presets []models.InstructionPreset
		err     error
	)
	if c.Query("enabled") == "true" {
		presets, err = h.presets.ListEnabled(ctx)
	} else {
		presets, err = h.presets.List(ctx)
	}
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to list presets", err))
		return
	}

	resp := dto.ListPresetsResponse{Presets: make([]*dto.PresetResponse, 0, len(presets))}
	for i := range presets {
		resp.Presets = append(resp.Presets, dto.NewPresetResponse(&presets[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /presets/:presetId.
func (h *PresetsHandler) Get(c *gin.Context) {
	id := c.Param("presetId")

	preset, err := h.presets.Get(c.Request.Context(), id)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to get preset", err))
		return
	}
	if preset == nil {
		middleware.HandleError(c, errors.NewNotFoundError("preset", id))
		return
	}

	c.JSON(http.StatusOK, dto.NewPresetResponse(preset))
}

// Create handles POST /presets.
func (h *PresetsHandler) Create(c *gin.Context) {
	var req dto.PresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	preset := &models.InstructionPreset{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Instruction: req.Instruction,
		Model:       req.Model,
		Language:    req.Language,
		ModelConfig: req.ModelConfig,
		SortOrder:   req.SortOrder,
		Enabled:     req.Enabled,
	}

	if err := h.presets.Insert(c.Request.Context(), preset); err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to create preset", err))
		return
	}

	c.JSON(http.StatusCreated, dto.NewPresetResponse(preset))
}

// Update handles PUT /presets/:presetId.
func (h *PresetsHandler) Update(c *gin.Context) {
	id := c.Param("presetId")

	var req dto.PresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	preset := &models.InstructionPreset{
		ID:          id,
		Title:       req.Title,
		Instruction: req.Instruction,
		Model:       req.Model,
		Language:    req.Language,
		ModelConfig: req.ModelConfig,
		SortOrder:   req.SortOrder,
		Enabled:     req.Enabled,
	}

	found, err := h.presets.Update(c.Request.Context(), preset)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to update preset", err))
		return
	}
	if !found {
		middleware.HandleError(c, errors.NewNotFoundError("preset", id))
		return
	}

	c.JSON(http.StatusOK, dto.NewPresetResponse(preset))
}

// Delete handles DELETE /presets/:presetId.
func (h *PresetsHandler) Delete(c *gin.Context) {
	id := c.Param("presetId")

	found, err := h.presets.Delete(c.Request.Context(), id)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to delete preset", err))
		return
	}
	if !found {
		middleware.HandleError(c, errors.NewNotFoundError("preset", id))
		return
	}

	c.Status(http.StatusNoContent)
}
