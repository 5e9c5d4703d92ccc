package models

import "encoding/json"

// Exchange is one completed prompt/answer round-trip. Entries are append-only:
// once an exchange is in a session history it is never modified.
type Exchange struct {
	Prompt    string `json:"prompt"`
	Answer    string `json:"answer"`
	CreatedAt string `json:"created_at"`
}

// ConversationSession tracks one ongoing conversation's target scope, model
// configuration and transcript for a single context (browser tab).
//
// TargetItems == nil means the session is Idle: no conversation is active and
// user messages must be rejected with a user-visible notice.
type ConversationSession struct {
	TargetItems    []TargetItem    `json:"targetItems"`
	ModelConfig    json.RawMessage `json:"modelConfig,omitempty"`
	UploadedFileID string          `json:"uploadedFileId,omitempty"`
	History        []Exchange      `json:"history"`
}

// Active reports whether the session has a target set to converse over.
func (s *ConversationSession) Active() bool {
	return s != nil && s.TargetItems != nil
}

// Append records a completed exchange at the end of the transcript.
func (s *ConversationSession) Append(ex Exchange) {
	s.History = append(s.History, ex)
}

// HistorySnapshot returns a copy of the transcript as it stands. The engine is
// handed the snapshot taken before the in-flight exchange is appended.
func (s *ConversationSession) HistorySnapshot() []Exchange {
	if len(s.History) == 0 {
		return nil
	}
	snapshot := make([]Exchange, len(s.History))
	copy(snapshot, s.History)
	return snapshot
}
