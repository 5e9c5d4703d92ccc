// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"encoding/json"

	"github.com/clipask/askdoc-service/internal/domain/models"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
}

// AuthStatusResponse represents the stored credential state. Valid is
// reported without triggering a refresh.
type AuthStatusResponse struct {
	Stored bool `json:"stored"`
	Valid  bool `json:"valid"`
}

// PresetResponse represents an instruction preset in API responses.
type PresetResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Instruction string          `json:"instruction"`
	Model       string          `json:"model,omitempty"`
	Language    string          `json:"language,omitempty"`
	ModelConfig json.RawMessage `json:"modelConfig,omitempty"`
	SortOrder   int             `json:"sortOrder"`
	Enabled     bool            `json:"enabled"`
}

// NewPresetResponse maps a stored preset to its API shape.
func NewPresetResponse(p *models.InstructionPreset) *PresetResponse {
	return &PresetResponse{
		ID:          p.ID,
		Title:       p.Title,
		Instruction: p.Instruction,
		Model:       p.Model,
		Language:    p.Language,
		ModelConfig: p.ModelConfig,
		SortOrder:   p.SortOrder,
		Enabled:     p.Enabled,
	}
}

// ListPresetsResponse represents the response for listing presets.
type ListPresetsResponse struct {
	Presets []*PresetResponse `json:"presets"`
}

// SettingsResponse represents the extension settings in API responses.
type SettingsResponse struct {
	DestinationFolderID string `json:"destinationFolderId"`
	DeleteAfterClose    bool   `json:"deleteAfterClose"`
}

// ModelTemplateResponse represents the authoritative default config for a
// model selection. Config is the vendor body verbatim.
type ModelTemplateResponse struct {
	Config json.RawMessage `json:"config"`
}

// ExchangeResponse represents one transcript entry in API responses.
type ExchangeResponse struct {
	Prompt    string `json:"prompt"`
	Answer    string `json:"answer"`
	CreatedAt string `json:"createdAt"`
}

// TranscriptResponse represents a context's conversation view.
type TranscriptResponse struct {
	Active  bool               `json:"active"`
	History []ExchangeResponse `json:"history"`
}

// NewTranscriptResponse maps a transcript to its API shape.
func NewTranscriptResponse(active bool, history []models.Exchange) *TranscriptResponse {
	out := &TranscriptResponse{Active: active, History: make([]ExchangeResponse, 0, len(history))}
	for _, ex := range history {
		out.History = append(out.History, ExchangeResponse{
			Prompt:    ex.Prompt,
			Answer:    ex.Answer,
			CreatedAt: ex.CreatedAt,
		})
	}
	return out
}
