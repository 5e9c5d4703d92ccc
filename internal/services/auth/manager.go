// Package auth owns the OAuth-style credential lifecycle: acquisition,
// expiry check, refresh, and encrypted-at-rest persistence.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/clipask/askdoc-service/internal/core/blobstore"
	domainerrors "github.com/clipask/askdoc-service/internal/domain/errors"
	"github.com/clipask/askdoc-service/internal/domain/models"
	"github.com/clipask/askdoc-service/internal/pkg/encryption"
	"github.com/clipask/askdoc-service/internal/pkg/metrics"
	"github.com/clipask/askdoc-service/internal/services/remote"
)

// CredentialKey is the blob store key holding the encrypted credential.
const CredentialKey = "askdoc:credentials"

// TokenClient is the subset of the remote client the manager needs.
type TokenClient interface {
	ExchangeAuthorizationCode(ctx context.Context, code, redirectURI string) (*remote.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*remote.TokenResponse, error)
}

// Manager implements the credential lifecycle. The persisted credential is
// read-modify-write without a lock; concurrent refreshes are last-writer-wins
// (single-user-per-profile context, spec'd as non-fatal).
type Manager struct {
	store     blobstore.Store
	encryptor encryption.Encryptor
	tokens    TokenClient
	logger    zerolog.Logger
	now       func() time.Time
}

// Config holds the configuration for the credential manager.
type Config struct {
	Store     blobstore.Store
	Encryptor encryption.Encryptor
	Tokens    TokenClient
	// Now overrides the clock (for testing).
	Now func() time.Time
}

// NewManager creates a new credential manager.
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
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("token client is required")
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Manager{
		store:     cfg.Store,
		encryptor: cfg.Encryptor,
		tokens:    cfg.Tokens,
		logger:    log.Logger,
		now:       now,
	}, nil
}

// GetAccessToken returns a usable access token. A credential within its
// validity window is returned without any network call. An expired
// credential with a refresh token gets exactly one refresh attempt; refresh
// failure is terminal for this call and requires re-authorization out of
// band.
func (m *Manager) GetAccessToken(ctx context.Context) (string, error) {
	cred, err := m.load(ctx)
	if err != nil {
		return "", err
	}

	if cred.IsValid(m.now()) {
		return cred.AccessToken, nil
	}

	if cred != nil && cred.RefreshToken != "" {
		token, err := m.refresh(ctx, cred.RefreshToken)
		if err != nil {
			m.logger.Warn().Err(err).
				Msg("token refresh failed; re-authorize via the options page")
			return "", err
		}
		return token, nil
	}

	return "", domainerrors.NewAuthError("no credential; authorize via the options page", nil)
}

// ExchangeAuthorizationCode performs the one-shot initial login and persists
// the resulting credential.
func (m *Manager) ExchangeAuthorizationCode(ctx context.Context, code, redirectURI string) error {
	tokens, err := m.tokens.ExchangeAuthorizationCode(ctx, code, redirectURI)
	if err != nil {
		return err
	}
	return m.save(ctx, tokens)
}

// Status reports whether a credential is stored and whether its access token
// is currently within its validity window. It never refreshes.
func (m *Manager) Status(ctx context.Context) (stored bool, valid bool, err error) {
	cred, err := m.load(ctx)
	if err != nil {
		return false, false, err
	}
	if cred == nil {
		return false, false, nil
	}
	return true, cred.IsValid(m.now()), nil
}

// Logout purges the stored credential.
func (m *Manager) Logout(ctx context.Context) error {
	if _, err := m.store.Delete(ctx, CredentialKey); err != nil {
		return fmt.Errorf("failed to purge credential: %w", err)
	}
	return nil
}

// refresh performs the token exchange and persists the new credential.
func (m *Manager) refresh(ctx context.Context, refreshToken string) (string, error) {
	tokens, err := m.tokens.RefreshToken(ctx, refreshToken)
	metrics.TokenRefreshes.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		return "", err
	}
	if err := m.save(ctx, tokens); err != nil {
		return "", err
	}
	return tokens.AccessToken, nil
}

// load reads and decrypts the persisted credential. A blob that fails to
// decrypt or decode is purged and the call proceeds as if no credential
// existed.
func (m *Manager) load(ctx context.Context) (*models.Credential, error) {
	data, err := m.store.Get(ctx, CredentialKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read credential store: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	var blob encryption.Blob
	if err := json.Unmarshal(data, &blob); err != nil {
		m.purgeCorrupt(ctx, err)
		return nil, nil
	}

	plaintext, err := m.encryptor.Open(&blob)
	if err != nil {
		m.purgeCorrupt(ctx, err)
		return nil, nil
	}

	var cred models.Credential
	if err := json.Unmarshal(plaintext, &cred); err != nil {
		m.purgeCorrupt(ctx, err)
		return nil, nil
	}

	return &cred, nil
}

// save encrypts and persists a credential, overwriting any previous value.
func (m *Manager) save(ctx context.Context, tokens *remote.TokenResponse) error {
	cred := models.NewCredential(tokens.AccessToken, tokens.RefreshToken, tokens.ExpiresIn, m.now())

	plaintext, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}

	blob, err := m.encryptor.Seal(plaintext)
	if err != nil {
		return fmt.Errorf("failed to encrypt credential: %w", err)
	}

	data, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("failed to marshal credential blob: %w", err)
	}

	if err := m.store.Set(ctx, CredentialKey, data, 0); err != nil {
		return fmt.Errorf("failed to persist credential: %w", err)
	}
	return nil
}

// purgeCorrupt deletes an unreadable credential blob so the next
// authorization starts clean.
func (m *Manager) purgeCorrupt(ctx context.Context, cause error) {
	m.logger.Warn().Err(domainerrors.NewDecryptError("stored credential unreadable", cause)).
		Msg("purging corrupt credential blob")
	_, _ = m.store.Delete(ctx, CredentialKey)
}
