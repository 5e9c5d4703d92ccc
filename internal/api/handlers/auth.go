package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clipask/askdoc-service/internal/api/dto"
	"github.com/clipask/askdoc-service/internal/api/middleware"
	"github.com/clipask/askdoc-service/internal/domain/errors"
	"github.com/clipask/askdoc-service/internal/services/auth"
)

// AuthHandler handles credential lifecycle endpoints.
type AuthHandler struct {
	manager *auth.Manager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(manager *auth.Manager) *AuthHandler {
	return &AuthHandler{manager: manager}
}

// Exchange handles POST /auth/exchange. The one-shot authorization code is
// traded for tokens and the resulting credential is persisted encrypted.
func (h *AuthHandler) Exchange(c *gin.Context) {
	var req dto.ExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	if err := h.manager.ExchangeAuthorizationCode(c.Request.Context(), req.Code, req.RedirectURI); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Logout handles POST /auth/logout and purges the stored credential.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.manager.Logout(c.Request.Context()); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Status handles GET /auth/status. Reporting never refreshes the credential.
func (h *AuthHandler) Status(c *gin.Context) {
	stored, valid, err := h.manager.Status(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthStatusResponse{
		Stored: stored,
		Valid:  valid,
	})
}
