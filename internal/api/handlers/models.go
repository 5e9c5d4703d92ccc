package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clipask/askdoc-service/internal/api/dto"
	"github.com/clipask/askdoc-service/internal/api/middleware"
	"github.com/clipask/askdoc-service/internal/domain/errors"
)

// TemplateFetcher retrieves the authoritative default config for a model
// selection.
type TemplateFetcher interface {
	FetchAgentDefaultConfig(ctx context.Context, accessToken, modelID, language string) (json.RawMessage, error)
}

// TokenSource supplies a usable access token.
type TokenSource interface {
	GetAccessToken(ctx context.Context) (string, error)
}

// ModelsHandler handles model template resolution. The options collaborator
// applies a model selection optimistically and rolls it back when this
// endpoint fails; the config returned here is the authoritative value for
// the selection, not a patch of the previous one.
type ModelsHandler struct {
	tokens  TokenSource
	fetcher TemplateFetcher
}

// NewModelsHandler creates a new ModelsHandler.
func NewModelsHandler(tokens TokenSource, fetcher TemplateFetcher) *ModelsHandler {
	return &ModelsHandler{tokens: tokens, fetcher: fetcher}
}

// Template handles POST /models/template.
func (h *ModelsHandler) Template(c *gin.Context) {
	var req dto.ModelTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	ctx := c.Request.Context()
	token, err := h.tokens.GetAccessToken(ctx)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	config, err := h.fetcher.FetchAgentDefaultConfig(ctx, token, req.ModelID, req.Language)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ModelTemplateResponse{Config: config})
}
