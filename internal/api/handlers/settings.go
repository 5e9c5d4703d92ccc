package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clipask/askdoc-service/internal/api/dto"
	"github.com/clipask/askdoc-service/internal/api/middleware"
	"github.com/clipask/askdoc-service/internal/core/docdb"
	"github.com/clipask/askdoc-service/internal/domain/errors"
	"github.com/clipask/askdoc-service/internal/domain/models"
)

// SettingsHandler handles the extension settings record.
type SettingsHandler struct {
	settings docdb.SettingsCollection
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settings docdb.SettingsCollection) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get handles GET /settings. A never-saved record reads as the defaults.
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settings.Get(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to load settings", err))
		return
	}

	c.JSON(http.StatusOK, dto.SettingsResponse{
		DestinationFolderID: settings.DestinationFolderID,
		DeleteAfterClose:    settings.DeleteAfterClose,
	})
}

// Put handles PUT /settings and overwrites the record.
func (h *SettingsHandler) Put(c *gin.Context) {
	var req dto.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	settings := &models.Settings{
		DestinationFolderID: req.DestinationFolderID,
		DeleteAfterClose:    req.DeleteAfterClose,
	}
	if err := h.settings.Save(c.Request.Context(), settings); err != nil {
		middleware.HandleError(c, errors.NewInternalError("failed to save settings", err))
		return
	}

	c.JSON(http.StatusOK, dto.SettingsResponse{
		DestinationFolderID: settings.DestinationFolderID,
		DeleteAfterClose:    settings.DeleteAfterClose,
	})
}
