// Package session holds the per-context conversation state machine and the
// orchestration that moves it between Idle and Active: resolving a selection
// trigger into an instruction, uploading the selection when the target list
// calls for it, running the ask, and reconciling uploaded content on close.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/clipask/askdoc-service/internal/core/blobstore"
	"github.com/clipask/askdoc-service/internal/core/docdb"
	apperrors "github.com/clipask/askdoc-service/internal/domain/errors"
	"github.com/clipask/askdoc-service/internal/domain/models"
	"github.com/clipask/askdoc-service/internal/pkg/encryption"
	"github.com/clipask/askdoc-service/internal/pkg/metrics"
	"github.com/clipask/askdoc-service/internal/services/notify"
	"github.com/clipask/askdoc-service/internal/services/remote"
	"github.com/clipask/askdoc-service/internal/services/resolver"
)

// sessionKeyPrefix namespaces session snapshots in the blob store.
const sessionKeyPrefix = "askdoc:session:"

// TokenSource supplies a usable access token for gateway calls.
type TokenSource interface {
	GetAccessToken(ctx context.Context) (string, error)
}

// Gateway is the subset of the remote client the manager drives directly.
type Gateway interface {
	Upload(ctx context.Context, accessToken, fileName string, content []byte, parentID string) (string, error)
	Delete(ctx context.Context, accessToken, fileID string) error
	FetchAgentDefaultConfig(ctx context.Context, accessToken, modelID, language string) (json.RawMessage, error)
}

// AskRunner executes one ask request under the retry budget.
type AskRunner interface {
	Run(ctx context.Context, contextID string, askReq *remote.AskRequest) (*remote.AskResponse, error)
}

// TriggerInput is a selection trigger for a context.
type TriggerInput struct {
	// SelectedText is the raw selection from the page.
	SelectedText string
	// PresetID selects a stored instruction preset. Empty when the caller
	// supplies an ad-hoc instruction instead.
	PresetID string
	// Instruction is an ad-hoc instruction template. Ignored when PresetID
	// is set.
	Instruction string
	// PageTitle seeds the generated upload file name.
	PageTitle string
	// TargetItems is an optional explicit target list.
	TargetItems []models.TargetItem
}

// Transcript is the read-only view of a context's conversation.
type Transcript struct {
	Active  bool              `json:"active"`
	History []models.Exchange `json:"history"`
}

// Manager owns the Idle/Active conversation state per context id.
type Manager struct {
	store     blobstore.Store
	encryptor encryption.Encryptor
	presets   docdb.PresetsCollection
	settings  docdb.SettingsCollection
	tokens    TokenSource
	gateway   Gateway
	engine    AskRunner
	notifier  notify.Notifier
	logger    zerolog.Logger
	now       func() time.Time

	mu       sync.Mutex
	inFlight map[string]bool
}

// Config holds the dependencies for the session manager.
type Config struct {
	Store     blobstore.Store
	Encryptor encryption.Encryptor
	Presets   docdb.PresetsCollection
	Settings  docdb.SettingsCollection
	Tokens    TokenSource
	Gateway   Gateway
	Engine    AskRunner
	Notifier  notify.Notifier

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// NewManager creates a session manager.
func NewManager(cfg *Config) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if cfg.Encryptor == nil {
		return nil, fmt.Errorf("encryptor is required")
	}
	if cfg.Presets == nil {
		return nil, fmt.Errorf("presets collection is required")
	}
	if cfg.Settings == nil {
		return nil, fmt.Errorf("settings collection is required")
	}
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("token source is required")
	}
	if cfg.Gateway == nil {
		return nil, fmt.Errorf("gateway is required")
	}
	if cfg.Engine == nil {
		return nil, fmt.Errorf("ask engine is required")
	}
	if cfg.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Manager{
		store:     cfg.Store,
		encryptor: cfg.Encryptor,
		presets:   cfg.Presets,
		settings:  cfg.Settings,
		tokens:    cfg.Tokens,
		gateway:   cfg.Gateway,
		engine:    cfg.Engine,
		notifier:  cfg.Notifier,
		logger:    log.With().Str("component", "session-manager").Logger(),
		now:       now,
		inFlight:  make(map[string]bool),
	}, nil
}

// Trigger starts a conversation for a context from a selection. It resolves
// the instruction, uploads the selection when the resolved target list calls
// for it, runs the first ask, and overwrites the context's session with a
// fresh one seeded by the first exchange. All prior session fields for the
// context are replaced, whatever state was left behind.
//
// On any failure the context stays (or becomes) Idle and no session is
// persisted.
func (m *Manager) Trigger(ctx context.Context, contextID string, in *TriggerInput) (*Transcript, error) {
	if err := m.acquire(contextID); err != nil {
		return nil, err
	}
	defer m.release(contextID)

	if in == nil || in.SelectedText == "" {
		return nil, apperrors.NewValidationError("selected text is required", "")
	}

	m.notifier.Notify(contextID, notify.LevelInfo, "Fetching access token...")

	instruction, modelConfig, err := m.resolveInstruction(ctx, in)
	if err != nil {
		return nil, err
	}

	fileName := resolver.GenerateFileName(in.PageTitle, m.now())
	res := resolver.Resolve(resolver.Input{
		SelectedText: in.SelectedText,
		Instruction:  instruction,
		FileName:     fileName,
		TargetItems:  in.TargetItems,
	})

	uploadedFileID := ""
	if res.NeedsUpload {
		uploadedFileID, err = m.uploadSelection(ctx, contextID, fileName, in.SelectedText)
		if err != nil {
			return nil, err
		}
		res = resolver.BindUpload(res, uploadedFileID)
	}

	m.notifier.Emit(contextID, notify.ActionBeginWithInstruction, map[string]string{
		"instruction": res.Instruction,
	})

	resp, err := m.engine.Run(ctx, contextID, &remote.AskRequest{
		Mode:    remote.ModeForItems(res.TargetItems),
		Prompt:  res.Instruction,
		Items:   res.TargetItems,
		AIAgent: modelConfig,
	})
	if err != nil {
		return nil, err
	}

	session := &models.ConversationSession{
		TargetItems:    res.TargetItems,
		ModelConfig:    modelConfig,
		UploadedFileID: uploadedFileID,
		History: []models.Exchange{{
			Prompt:    res.Instruction,
			Answer:    resp.Answer,
			CreatedAt: m.exchangeTime(resp.CreatedAt),
		}},
	}
	if err := m.saveSession(ctx, contextID, session); err != nil {
		return nil, err
	}

	m.notifier.Emit(contextID, notify.ActionAppendMessage, session.History[0])
	m.notifier.Notify(contextID, notify.LevelSuccess, "Answer received.")

	return &Transcript{Active: true, History: session.HistorySnapshot()}, nil
}

// Send runs a follow-up turn for a context. When the context is Idle the
// turn is rejected with a user-visible notice before any network call. The
// history handed to the engine is the snapshot taken before this turn; the
// new exchange is appended only after the ask succeeds, so a failed turn
// leaves the transcript untouched and the session Active.
func (m *Manager) Send(ctx context.Context, contextID, text string) (*models.Exchange, error) {
	if err := m.acquire(contextID); err != nil {
		return nil, err
	}
	defer m.release(contextID)

	if text == "" {
		return nil, apperrors.NewValidationError("message text is required", "")
	}

	session, err := m.loadSession(ctx, contextID)
	if err != nil {
		return nil, err
	}
	if !session.Active() {
		m.notifier.Notify(contextID, notify.LevelError, "No active conversation. Select text and trigger a question first.")
		return nil, apperrors.NewConflictError("no active conversation for this context", contextID)
	}

	m.notifier.Emit(contextID, notify.ActionRequestSend, map[string]string{"text": text})

	resp, err := m.engine.Run(ctx, contextID, &remote.AskRequest{
		Mode:            remote.ModeForItems(session.TargetItems),
		Prompt:          text,
		Items:           session.TargetItems,
		DialogueHistory: session.HistorySnapshot(),
		AIAgent:         session.ModelConfig,
	})
	if err != nil {
		return nil, err
	}

	exchange := models.Exchange{
		Prompt:    text,
		Answer:    resp.Answer,
		CreatedAt: m.exchangeTime(resp.CreatedAt),
	}
	session.Append(exchange)
	if err := m.saveSession(ctx, contextID, session); err != nil {
		return nil, err
	}

	m.notifier.Emit(contextID, notify.ActionAppendMessage, exchange)

	return &exchange, nil
}

// Close handles the chat being dismissed for a context. With the cleanup
// preference enabled, an uploaded file gets exactly one delete attempt,
// successful or not, and the session resets to Idle. With cleanup disabled
// nothing is deleted and the session state is left in place; the next
// Trigger overwrites it wholesale. Closing an Idle context is a no-op.
func (m *Manager) Close(ctx context.Context, contextID string) error {
	if err := m.acquire(contextID); err != nil {
		return err
	}
	defer m.release(contextID)

	session, err := m.loadSession(ctx, contextID)
	if err != nil {
		return err
	}
	if !session.Active() {
		return nil
	}

	m.notifier.Emit(contextID, notify.ActionSessionClosing, nil)

	settings, err := m.settings.Get(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to load settings", err)
	}
	if !settings.DeleteAfterClose {
		return nil
	}

	if session.UploadedFileID != "" {
		m.cleanupUpload(ctx, contextID, session.UploadedFileID)
	}

	if _, err := m.store.Delete(ctx, sessionKeyPrefix+contextID); err != nil {
		return apperrors.NewInternalError("failed to reset session", err)
	}
	return nil
}

// Transcript returns the context's current conversation view. An Idle
// context yields an inactive transcript with no history.
func (m *Manager) Transcript(ctx context.Context, contextID string) (*Transcript, error) {
	session, err := m.loadSession(ctx, contextID)
	if err != nil {
		return nil, err
	}
	if !session.Active() {
		return &Transcript{Active: false}, nil
	}
	return &Transcript{Active: true, History: session.HistorySnapshot()}, nil
}

// resolveInstruction produces the instruction template and model config for
// a trigger. A preset id wins over an ad-hoc instruction; a preset without a
// stored model config falls back to the authoritative default for its model
// and language.
func (m *Manager) resolveInstruction(ctx context.Context, in *TriggerInput) (string, json.RawMessage, error) {
	if in.PresetID != "" {
		preset, err := m.presets.Get(ctx, in.PresetID)
		if err != nil {
			return "", nil, apperrors.NewInternalError("failed to load preset", err)
		}
		if preset == nil {
			return "", nil, apperrors.NewNotFoundError("preset", in.PresetID)
		}

		modelConfig := preset.ModelConfig
		if len(modelConfig) == 0 {
			token, err := m.tokens.GetAccessToken(ctx)
			if err != nil {
				return "", nil, err
			}
			modelConfig, err = m.gateway.FetchAgentDefaultConfig(ctx, token, preset.Model, preset.Language)
			if err != nil {
				return "", nil, err
			}
		}
		return preset.Instruction, modelConfig, nil
	}

	if in.Instruction == "" {
		return "", nil, apperrors.NewValidationError("a preset id or an instruction is required", "")
	}

	token, err := m.tokens.GetAccessToken(ctx)
	if err != nil {
		return "", nil, err
	}
	modelConfig, err := m.gateway.FetchAgentDefaultConfig(ctx, token, "", "")
	if err != nil {
		return "", nil, err
	}
	return in.Instruction, modelConfig, nil
}

// uploadSelection writes the selection to the configured destination folder
// and returns the uploaded file id.
func (m *Manager) uploadSelection(ctx context.Context, contextID, fileName, selectedText string) (string, error) {
	settings, err := m.settings.Get(ctx)
	if err != nil {
		return "", apperrors.NewInternalError("failed to load settings", err)
	}

	token, err := m.tokens.GetAccessToken(ctx)
	if err != nil {
		return "", err
	}

	m.notifier.Notify(contextID, notify.LevelInfo, "Uploading the selection...")

	fileID, err := m.gateway.Upload(ctx, token, fileName, []byte(selectedText), settings.DestinationFolderID)
	metrics.Uploads.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		m.notifier.Notify(contextID, notify.LevelError, "Uploading the selection failed.")
		return "", err
	}

	m.logger.Info().
		Str("context_id", contextID).
		Str("file_id", fileID).
		Str("file_name", fileName).
		Msg("Selection uploaded")
	m.notifier.Notify(contextID, notify.LevelInfo, "Selection uploaded.")
	return fileID, nil
}

// cleanupUpload makes exactly one delete attempt for the uploaded file. The
// outcome is surfaced as a notice; the close proceeds either way.
func (m *Manager) cleanupUpload(ctx context.Context, contextID, fileID string) {
	token, err := m.tokens.GetAccessToken(ctx)
	if err == nil {
		err = m.gateway.Delete(ctx, token, fileID)
	}
	metrics.Cleanups.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		m.logger.Warn().
			Err(err).
			Str("context_id", contextID).
			Str("file_id", fileID).
			Msg("Uploaded file cleanup failed")
		m.notifier.Notify(contextID, notify.LevelError, "Removing the uploaded file failed.")
		return
	}
	m.logger.Info().
		Str("context_id", contextID).
		Str("file_id", fileID).
		Msg("Uploaded file cleaned up")
	m.notifier.Notify(contextID, notify.LevelInfo, "Uploaded file removed.")
}

// acquire marks the context busy for the duration of a turn. A context with
// a turn already in flight rejects further turns instead of queueing them.
func (m *Manager) acquire(contextID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inFlight[contextID] {
		return apperrors.NewConflictError("a request is already in flight for this context", contextID)
	}
	m.inFlight[contextID] = true
	return nil
}

func (m *Manager) release(contextID string) {
	m.mu.Lock()
	delete(m.inFlight, contextID)
	m.mu.Unlock()
}

// loadSession retrieves a context's session snapshot. A missing, corrupt, or
// undecryptable snapshot reads as Idle; corrupt entries are purged so the
// next write starts clean.
func (m *Manager) loadSession(ctx context.Context, contextID string) (*models.ConversationSession, error) {
	key := sessionKeyPrefix + contextID

	raw, err := m.store.Get(ctx, key)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read session", err)
	}
	if raw == nil {
		return &models.ConversationSession{}, nil
	}

	var blob encryption.Blob
	if err := json.Unmarshal(raw, &blob); err != nil {
		m.purgeSession(ctx, key, err)
		return &models.ConversationSession{}, nil
	}

	plaintext, err := m.encryptor.Open(&blob)
	if err != nil {
		m.purgeSession(ctx, key, err)
		return &models.ConversationSession{}, nil
	}

	var session models.ConversationSession
	if err := json.Unmarshal(plaintext, &session); err != nil {
		m.purgeSession(ctx, key, err)
		return &models.ConversationSession{}, nil
	}
	return &session, nil
}

// saveSession encrypts and stores a context's session snapshot. Snapshots do
// not expire; they live until a cleanup-enabled close or the next overwrite.
func (m *Manager) saveSession(ctx context.Context, contextID string, session *models.ConversationSession) error {
	plaintext, err := json.Marshal(session)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal session", err)
	}

	blob, err := m.encryptor.Seal(plaintext)
	if err != nil {
		return apperrors.NewInternalError("failed to encrypt session", err)
	}

	raw, err := json.Marshal(blob)
	if err != nil {
		return apperrors.NewInternalError("failed to marshal session blob", err)
	}

	if err := m.store.Set(ctx, sessionKeyPrefix+contextID, raw, 0); err != nil {
		return apperrors.NewInternalError("failed to store session", err)
	}
	return nil
}

func (m *Manager) purgeSession(ctx context.Context, key string, cause error) {
	m.logger.Warn().Err(cause).Str("key", key).Msg("Purging unreadable session snapshot")
	_, _ = m.store.Delete(ctx, key)
}

// exchangeTime prefers the vendor's created_at and falls back to the local
// clock in RFC 3339.
func (m *Manager) exchangeTime(createdAt string) string {
	if createdAt != "" {
		return createdAt
	}
	return m.now().UTC().Format(time.RFC3339)
}
