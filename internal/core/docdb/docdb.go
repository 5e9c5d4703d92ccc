// Package docdb defines the document database interface for the options
// collaborator's persisted state: instruction presets and extension settings.
package docdb

import (
	"context"

	"github.com/clipask/askdoc-service/internal/domain/models"
)

// PresetsCollection defines the typed operations on stored instruction
// presets. The core consumes ListEnabled as read-only, already filtered and
// sorted input; the remaining operations serve the options collaborator.
type PresetsCollection interface {
	// List returns all presets ordered by sort order.
	List(ctx context.Context) ([]models.InstructionPreset, error)

	// ListEnabled returns enabled presets ordered by sort order.
	ListEnabled(ctx context.Context) ([]models.InstructionPreset, error)

	// Get retrieves a preset by id. Returns nil if not found.
	Get(ctx context.Context, id string) (*models.InstructionPreset, error)

	// Insert stores a new preset.
	Insert(ctx context.Context, preset *models.InstructionPreset) error

	// Update replaces an existing preset. Reports whether a preset with
	// that id existed.
	Update(ctx context.Context, preset *models.InstructionPreset) (bool, error)

	// Delete removes a preset by id. Reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)

	// EnsureIndexes creates the indexes the collection relies on.
	EnsureIndexes(ctx context.Context) error
}

// SettingsCollection defines the typed operations on the single extension
// settings record (destination folder and cleanup preference).
type SettingsCollection interface {
	// Get retrieves the settings record, or defaults if none is stored.
	Get(ctx context.Context) (*models.Settings, error)

	// Save stores the settings record, overwriting any previous value.
	Save(ctx context.Context, settings *models.Settings) error
}

// Client defines the interface for a document database client.
type Client interface {
	// Presets returns the presets collection.
	Presets() PresetsCollection

	// Settings returns the settings collection.
	Settings() SettingsCollection

	// EnsureIndexes creates all necessary indexes for all collections.
	EnsureIndexes(ctx context.Context) error

	// Ping verifies the database connection.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close(ctx context.Context) error
}
