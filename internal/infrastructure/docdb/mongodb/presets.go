// Package mongodb provides the presets collection implementation.
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
	// PresetsCollectionName is the name of the instruction presets collection.
	PresetsCollectionName = "instruction_presets"
)

// PresetsCollection implements the docdb.PresetsCollection interface for
// MongoDB.
type PresetsCollection struct {
	presets *mongo.Collection
}

// NewPresetsCollection creates a new presets collection wrapper.
func NewPresetsCollection(db *mongo.Database) *PresetsCollection {
	return &PresetsCollection{
		presets: db.Collection(PresetsCollectionName),
	}
}

// List returns all presets ordered by sort order.
func (c *PresetsCollection) List(ctx context.Context) ([]models.InstructionPreset, error) {
	return c.list(ctx, bson.M{})
}

// ListEnabled returns enabled presets ordered by sort order. This is the
// collaborator-facing trigger list.
func (c *PresetsCollection) ListEnabled(ctx context.Context) ([]models.InstructionPreset, error) {
	return c.list(ctx, bson.M{"enabled": true})
}

func (c *PresetsCollection) list(ctx context.Context, filter bson.M) ([]models.InstructionPreset, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}})

	cursor, err := c.presets.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}
	defer cursor.Close(ctx)

	var presets []models.InstructionPreset
	if err := cursor.All(ctx, &presets); err != nil {
		return nil, fmt.Errorf("failed to decode presets: %w", err)
	}

	return presets, nil
}

// Get retrieves a preset by id.
func (c *PresetsCollection) Get(ctx context.Context, id string) (*models.InstructionPreset, error) {
	var preset models.InstructionPreset
	err := c.presets.FindOne(ctx, bson.M{"_id": id}).Decode(&preset)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get preset: %w", err)
	}
	return &preset, nil
}

// Insert stores a new preset.
func (c *PresetsCollection) Insert(ctx context.Context, preset *models.InstructionPreset) error {
	if preset.ID == "" {
		return fmt.Errorf("preset ID is required")
	}

	if _, err := c.presets.InsertOne(ctx, preset); err != nil {
		return fmt.Errorf("failed to insert preset: %w", err)
	}
	return nil
}

// Update replaces an existing preset.
func (c *PresetsCollection) Update(ctx context.Context, preset *models.InstructionPreset) (bool, error) {
	result, err := c.presets.ReplaceOne(ctx, bson.M{"_id": preset.ID}, preset)
	if err != nil {
		return false, fmt.Errorf("failed to update preset: %w", err)
	}
	return result.MatchedCount > 0, nil
}

// Delete removes a preset by id.
func (c *PresetsCollection) Delete(ctx context.Context, id string) (bool, error) {
	result, err := c.presets.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("failed to delete preset: %w", err)
	}
	return result.DeletedCount > 0, nil
}

// EnsureIndexes creates the indexes the collection relies on.
func (c *PresetsCollection) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "enabled", Value: 1}, {Key: "sortOrder", Value: 1}},
		},
	}

	if _, err := c.presets.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create preset indexes: %w", err)
	}
	return nil
}
