package resolver_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipask/askdoc-service/internal/domain/models"
	"github.com/clipask/askdoc-service/internal/services/resolver"
)

func TestResolve_SubstitutesSelection(t *testing.T) {
	// Arrange
	in := resolver.Input{
		SelectedText: "Hello world",
		Instruction:  "Summarize: ###SELECTED_TEXTS###",
		FileName:     "page_1700000000000.md",
	}

	// Act
	res := resolver.Resolve(in)

	// Assert
	assert.Equal(t, "Summarize: Hello world", res.Instruction)
	assert.True(t, res.NeedsUpload)
	require.Len(t, res.TargetItems, 1)
	assert.Equal(t, models.UploadPlaceholderID, res.TargetItems[0].ID)
	assert.Equal(t, models.TargetItemTypeFile, res.TargetItems[0].Type)
}

func TestResolve_SubstitutesEveryOccurrence(t *testing.T) {
	// Arrange
	in := resolver.Input{
		SelectedText: "x",
		Instruction:  "###SELECTED_TEXTS### and again ###SELECTED_TEXTS### in ###FILE_NAME###",
		FileName:     "notes.md",
	}

	// Act
	res := resolver.Resolve(in)

	// Assert
	assert.Equal(t, "x and again x in notes.md", res.Instruction)
}

func TestResolve_NoTokensPassesThrough(t *testing.T) {
	// Arrange
	in := resolver.Input{
		SelectedText: "ignored",
		Instruction:  "Translate this to French.",
	}

	// Act
	res := resolver.Resolve(in)

	// Assert
	assert.Equal(t, "Translate this to French.", res.Instruction)
}

func TestResolve_ExplicitTargetsWithoutPlaceholderSkipUpload(t *testing.T) {
	// Arrange
	in := resolver.Input{
		SelectedText: "selection",
		Instruction:  "Compare these documents.",
		TargetItems: []models.TargetItem{
			models.NewFileTarget("f-1"),
			models.NewFileTarget("f-2"),
		},
	}

	// Act
	res := resolver.Resolve(in)

	// Assert
	assert.False(t, res.NeedsUpload)
	assert.Len(t, res.TargetItems, 2)
}

func TestResolve_ExplicitTargetsWithPlaceholderNeedUpload(t *testing.T) {
	// Arrange
	in := resolver.Input{
		SelectedText: "selection",
		Instruction:  "Compare the selection with this document.",
		TargetItems: []models.TargetItem{
			models.NewFileTarget("f-1"),
			models.NewFileTarget(models.UploadPlaceholderID),
		},
	}

	// Act
	res := resolver.Resolve(in)

	// Assert
	assert.True(t, res.NeedsUpload)
}

func TestResolve_CopiesCallerTargets(t *testing.T) {
	// Arrange
	targets := []models.TargetItem{models.NewFileTarget(models.UploadPlaceholderID)}
	res := resolver.Resolve(resolver.Input{
		SelectedText: "s",
		Instruction:  "i",
		TargetItems:  targets,
	})

	// Act
	resolver.BindUpload(res, "uploaded-1")

	// Assert - the caller's slice is untouched
	assert.Equal(t, models.UploadPlaceholderID, targets[0].ID)
}

func TestBindUpload_ReplacesEveryPlaceholder(t *testing.T) {
	// Arrange
	res := resolver.Resolve(resolver.Input{
		SelectedText: "s",
		Instruction:  "i",
		TargetItems: []models.TargetItem{
			models.NewFileTarget(models.UploadPlaceholderID),
			models.NewFileTarget("f-1"),
			models.NewFileTarget(models.UploadPlaceholderID),
		},
	})

	// Act
	bound := resolver.BindUpload(res, "uploaded-1")

	// Assert
	assert.False(t, bound.NeedsUpload)
	assert.Equal(t, "uploaded-1", bound.TargetItems[0].ID)
	assert.Equal(t, "f-1", bound.TargetItems[1].ID)
	assert.Equal(t, "uploaded-1", bound.TargetItems[2].ID)
	assert.False(t, models.ContainsPlaceholder(bound.TargetItems))
}

func TestGenerateFileName_TitleAndTimestamp(t *testing.T) {
	// Arrange
	now := time.UnixMilli(1700000000000).UTC()

	// Act
	name := resolver.GenerateFileName("My Page", now)

	// Assert
	assert.Equal(t, "My_Page_1700000000000.md", name)
}

func TestGenerateFileName_EmptyTitleFallsBack(t *testing.T) {
	// Arrange
	now := time.UnixMilli(1700000000000).UTC()

	// Act
	name := resolver.GenerateFileName("", now)

	// Assert
	assert.Contains(t, name, "untitled")
	assert.Contains(t, name, ".md")
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"reserved characters stripped", `a/b\c?d%e*f:g|h"i<j>k`, "abcdefghijk"},
		{"whitespace collapsed to underscores", "a  b\tc", "a_b_c"},
		{"control characters stripped", "a\x00b\x1fc", "abc"},
		{"trailing dots stripped", "name...", "name"},
		{"empty becomes untitled", "", "untitled"},
		{"only reserved becomes untitled", `???***`, "untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolver.SanitizeFileName(tt.input))
		})
	}
}
