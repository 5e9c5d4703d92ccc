package models

import "encoding/json"

// Placeholder tokens a preset instruction may embed. Each is substituted
// independently and may occur any number of times.
const (
	// PlaceholderSelection is replaced with the raw selected text.
	PlaceholderSelection = "###SELECTED_TEXTS###"
	// PlaceholderFileName is replaced with the generated upload filename.
	PlaceholderFileName = "###FILE_NAME###"
)

// InstructionPreset is a stored, user-configurable instruction template with
// associated model and language settings. The options collaborator owns
// filtering and ordering; the core treats the list as read-only input.
type InstructionPreset struct {
	ID          string          `json:"id" bson:"_id"`
	Title       string          `json:"title" bson:"title"`
	Instruction string          `json:"instruction" bson:"instruction"`
	Model       string          `json:"model,omitempty" bson:"model,omitempty"`
	Language    string          `json:"language,omitempty" bson:"language,omitempty"`
	// ModelConfig is an opaque agent configuration blob passed verbatim to
	// the ask endpoint. Empty means "use platform default".
	ModelConfig json.RawMessage `json:"modelConfig,omitempty" bson:"modelConfig,omitempty"`
	SortOrder   int             `json:"sortOrder" bson:"sortOrder"`
	Enabled     bool            `json:"enabled" bson:"enabled"`
}

// Settings holds the options-page preferences the core reads: where uploads
// land and whether the uploaded artifact is deleted when the chat closes.
type Settings struct {
	ID                  string `json:"-" bson:"_id"`
	DestinationFolderID string `json:"destinationFolderId" bson:"destinationFolderId"`
	DeleteAfterClose    bool   `json:"deleteAfterClose" bson:"deleteAfterClose"`
}
