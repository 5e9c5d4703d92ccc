// Package remote provides the client for the subset of the remote document
// store / AI vendor API the core depends on.
package remote

import (
	"encoding/json"

	"github.com/clipask/askdoc-service/internal/domain/models"
)

// Ask modes accepted by the remote ask endpoint.
const (
	// ModeSingleItemQA scopes the query to exactly one target item.
	ModeSingleItemQA = "single_item_qa"
	// ModeMultipleItemQA scopes the query to several target items.
	ModeMultipleItemQA = "multiple_item_qa"
)

// TokenResponse is the JSON body of the token endpoint.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AskRequest is the JSON body sent to the ask endpoint. DialogueHistory is
// passed through verbatim; the client never truncates or reorders it.
type AskRequest struct {
	Mode            string              `json:"mode"`
	Prompt          string              `json:"prompt"`
	Items           []models.TargetItem `json:"items"`
	DialogueHistory []models.Exchange   `json:"dialogue_history,omitempty"`
	AIAgent         json.RawMessage     `json:"ai_agent,omitempty"`
}

// AskResponse is the JSON body returned by the ask endpoint.
type AskResponse struct {
	Answer    string `json:"answer"`
	CreatedAt string `json:"created_at,omitempty"`
}

// ModeForItems picks the ask mode matching the size of the target list.
func ModeForItems(items []models.TargetItem) string {
	if len(items) == 1 {
		return ModeSingleItemQA
	}
	return ModeMultipleItemQA
}

// uploadResponse is the JSON body returned by the upload endpoint.
type uploadResponse struct {
	Entries []struct {
		ID string `json:"id"`
	} `json:"entries"`
}
