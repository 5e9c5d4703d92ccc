// Package mongodb provides the settings collection implementation.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clipask/askdoc-service/internal/domain/models"
)

const (
	// SettingsCollectionName is the name of the extension settings collection.
	SettingsCollectionName = "extension_settings"

	// settingsDocID is the id of the single settings record.
	settingsDocID = "settings"

	// DefaultDestinationFolderID is the remote store's root folder.
	DefaultDestinationFolderID = "0"
)

// SettingsCollection implements the docdb.SettingsCollection interface for
// MongoDB. There is exactly one settings record.
type SettingsCollection struct {
	settings *mongo.Collection
}

// NewSettingsCollection creates a new settings collection wrapper.
func NewSettingsCollection(db *mongo.Database) *SettingsCollection {
	return &SettingsCollection{
		settings: db.Collection(SettingsCollectionName),
	}
}

// Get retrieves the settings record, falling back to defaults when nothing
// has been saved yet.
func (c *SettingsCollection) Get(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	err := c.settings.FindOne(ctx, bson.M{"_id": settingsDocID}).Decode(&settings)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return &models.Settings{
				ID:                  settingsDocID,
				DestinationFolderID: DefaultDestinationFolderID,
			}, nil
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings, nil
}

// Save stores the settings record, overwriting any previous value.
func (c *SettingsCollection) Save(ctx context.Context, settings *models.Settings) error {
	settings.ID = settingsDocID

	opts := options.Replace().SetUpsert(true)
	if _, err := c.settings.ReplaceOne(ctx, bson.M{"_id": settingsDocID}, settings, opts); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
