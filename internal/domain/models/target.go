package models

// TargetItemTypeFile is the only target type the remote ask endpoint accepts.
const TargetItemTypeFile = "file"

// UploadPlaceholderID is the sentinel target id standing for "the file about
// to be uploaded". The resolver must replace every occurrence with the real
// uploaded id before a target list is dispatched.
const UploadPlaceholderID = "UPLOAD_FILE_ID"

// TargetItem identifies a remote object an AI query is scoped to.
type TargetItem struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// NewFileTarget creates a file target item.
func NewFileTarget(id string) TargetItem {
	return TargetItem{Type: TargetItemTypeFile, ID: id}
}

// ContainsPlaceholder reports whether any item in the list carries the upload
// placeholder id.
func ContainsPlaceholder(items []TargetItem) bool {
	for _, item := range items {
		if item.ID == UploadPlaceholderID {
			return true
		}
	}
	return false
}
