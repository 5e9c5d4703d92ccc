// Package resolver turns a trigger (a selection plus a chosen preset or
// ad-hoc prompt) into a finalized instruction string and target-item list.
// It is a pure transformation: the caller performs the upload the resolution
// may call for, then binds the uploaded id back in.
package resolver

import (
	"strings"

	"github.com/clipask/askdoc-service/internal/domain/models"
)

// Input is a trigger to resolve.
type Input struct {
	// SelectedText is the raw selection from the page.
	SelectedText string
	// Instruction is the chosen preset's template or a freshly typed
	// ad-hoc instruction.
	Instruction string
	// FileName is the generated name for the upload.
	FileName string
	// TargetItems is an optional explicit target list. When nil, the
	// resolution defaults to a single upload-placeholder entry.
	TargetItems []models.TargetItem
}

// Resolution is the outcome of resolving a trigger. When NeedsUpload is set
// the target list still contains the placeholder sentinel and must go through
// BindUpload before dispatch.
type Resolution struct {
	Instruction string
	TargetItems []models.TargetItem
	NeedsUpload bool
}

// Resolve substitutes the placeholder tokens and resolves the target list.
//
// Substitution replaces every occurrence of each token independently; an
// instruction with no tokens passes through unchanged. A caller-provided
// target list without the placeholder never triggers an upload, even if the
// instruction text still references the selection; content is assumed
// already present at the target.
func Resolve(in Input) Resolution {
	instruction := strings.ReplaceAll(in.Instruction, models.PlaceholderSelection, in.SelectedText)
	instruction = strings.ReplaceAll(instruction, models.PlaceholderFileName, in.FileName)

	targets := in.TargetItems
	if targets == nil {
		targets = []models.TargetItem{models.NewFileTarget(models.UploadPlaceholderID)}
	} else {
		// Work on a copy so BindUpload never mutates caller state.
		targets = append([]models.TargetItem(nil), targets...)
	}

	return Resolution{
		Instruction: instruction,
		TargetItems: targets,
		NeedsUpload: models.ContainsPlaceholder(targets),
	}
}

// BindUpload replaces every occurrence of the upload placeholder with the
// real uploaded id. A target list is never dispatched while still containing
// the placeholder.
func BindUpload(res Resolution, uploadedFileID string) Resolution {
	for i, item := range res.TargetItems {
		if item.ID == models.UploadPlaceholderID {
			res.TargetItems[i].ID = uploadedFileID
		}
	}
	res.NeedsUpload = false
	return res
}
