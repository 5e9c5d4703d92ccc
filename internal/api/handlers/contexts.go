package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clipask/askdoc-service/internal/api/dto"
	"github.com/clipask/askdoc-service/internal/api/middleware"
	"github.com/clipask/askdoc-service/internal/api/sse"
	"github.com/clipask/askdoc-service/internal/domain/errors"
	"github.com/clipask/askdoc-service/internal/domain/models"
	"github.com/clipask/askdoc-service/internal/services/notify"
	"github.com/clipask/askdoc-service/internal/services/session"
)

// sseKeepalive is the interval between keepalive events on an idle stream.
const sseKeepalive = 25 * time.Second

// Subscriber is the subscription side of the notice bus.
type Subscriber interface {
	Subscribe(contextID string) (<-chan notify.Envelope, func())
}

// ContextsHandler handles per-context conversation endpoints.
type ContextsHandler struct {
	manager *session.Manager
	bus     Subscriber
}

// NewContextsHandler creates a new ContextsHandler.
func NewContextsHandler(manager *session.Manager, bus Subscriber) *ContextsHandler {
	return &ContextsHandler{manager: manager, bus: bus}
}

// Trigger handles POST /contexts/:contextId/trigger.
func (h *ContextsHandler) Trigger(c *gin.Context) {
	contextID := c.Param("contextId")

	var req dto.TriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	var targets []models.TargetItem
	if len(req.TargetItems) > 0 {
		targets = make([]models.TargetItem, 0, len(req.TargetItems))
		for _, item := range req.TargetItems {
			targets = append(targets, models.TargetItem{Type: item.Type, ID: item.ID})
		}
	}

	transcript, err := h.manager.Trigger(c.Request.Context(), contextID, &session.TriggerInput{
		SelectedText: req.SelectedText,
		PresetID:     req.PresetID,
		Instruction:  req.Instruction,
		PageTitle:    req.PageTitle,
		TargetItems:  targets,
	})
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTranscriptResponse(transcript.Active, transcript.History))
}

// SendMessage handles POST /contexts/:contextId/messages.
func (h *ContextsHandler) SendMessage(c *gin.Context) {
	contextID := c.Param("contextId")

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	exchange, err := h.manager.Send(c.Request.Context(), contextID, req.Text)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ExchangeResponse{
		Prompt:    exchange.Prompt,
		Answer:    exchange.Answer,
		CreatedAt: exchange.CreatedAt,
	})
}

// Close handles DELETE /contexts/:contextId. Closing an Idle context
// succeeds without side effects.
func (h *ContextsHandler) Close(c *gin.Context) {
	contextID := c.Param("contextId")

	if err := h.manager.Close(c.Request.Context(), contextID); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Transcript handles GET /contexts/:contextId/transcript.
func (h *ContextsHandler) Transcript(c *gin.Context) {
	contextID := c.Param("contextId")

	transcript, err := h.manager.Transcript(c.Request.Context(), contextID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTranscriptResponse(transcript.Active, transcript.History))
}

// Events handles GET /contexts/:contextId/events and streams notices and
// session events over SSE until the client disconnects.
func (h *ContextsHandler) Events(c *gin.Context) {
	contextID := c.Param("contextId")

	writer, err := sse.NewWriter(c.Writer)
	if err != nil {
		middleware.HandleError(c, errors.NewInternalError("streaming not supported", err))
		return
	}

	logger := middleware.GetRequestLogger(c)

	events, cancel := h.bus.Subscribe(contextID)
	defer cancel()
	logger.Debug().Msg("event stream opened")

	keepalive := time.NewTicker(sseKeepalive)
	defer keepalive.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case env, ok := <-events:
			if !ok {
				return
			}
			if err := writer.WriteEnvelope(env); err != nil {
				logger.Debug().Err(err).Msg("event stream write failed")
				return
			}
		case <-keepalive.C:
			if err := writer.WritePing(); err != nil {
				return
			}
		}
	}
}
