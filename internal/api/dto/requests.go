// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import "encoding/json"

// ExchangeRequest represents the request body for the authorization code
// exchange.
type ExchangeRequest struct {
	Code        string `json:"code" binding:"required"`
	RedirectURI string `json:"redirectUri"`
}

// TargetItemRequest represents one explicit query target.
type TargetItemRequest struct {
	Type string `json:"type" binding:"required"`
	ID   string `json:"id" binding:"required"`
}

// TriggerRequest represents the request body for a selection trigger.
// Exactly one of PresetID or Instruction must carry the instruction source.
type TriggerRequest struct {
	SelectedText string              `json:"selectedText" binding:"required,min=1"`
	PresetID     string              `json:"presetId"`
	Instruction  string              `json:"instruction"`
	PageTitle    string              `json:"pageTitle"`
	TargetItems  []TargetItemRequest `json:"targetItems"`
}

// SendMessageRequest represents the request body for a follow-up turn.
type SendMessageRequest struct {
	Text string `json:"text" binding:"required,min=1,max=32000"`
}

// PresetRequest represents the request body for creating or updating an
// instruction preset.
type PresetRequest struct {
	Title       string          `json:"title" binding:"required"`
	Instruction string          `json:"instruction" binding:"required"`
	Model       string          `json:"model"`
	Language    string          `json:"language"`
	ModelConfig json.RawMessage `json:"modelConfig"`
	SortOrder   int             `json:"sortOrder"`
	Enabled     bool            `json:"enabled"`
}

// SettingsRequest represents the request body for updating extension
// settings.
type SettingsRequest struct {
	DestinationFolderID string `json:"destinationFolderId" binding:"required"`
	DeleteAfterClose    bool   `json:"deleteAfterClose"`
}

// ModelTemplateRequest represents the request body for fetching the
// authoritative default config of a model selection.
type ModelTemplateRequest struct {
	ModelID  string `json:"modelId"`
	Language string `json:"language"`
}
