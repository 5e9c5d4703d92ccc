// Package query runs a single ask against the AI vendor with a bounded
// retry budget and user-facing progress notices.
package query

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	apperrors "github.com/clipask/askdoc-service/internal/domain/errors"
	"github.com/clipask/askdoc-service/internal/pkg/metrics"
	"github.com/clipask/askdoc-service/internal/services/notify"
	"github.com/clipask/askdoc-service/internal/services/remote"
)

// MaxAttempts bounds the ask retries for one user action. Attempts are
// back-to-back with no delay between them.
const MaxAttempts = 5

// TokenSource supplies a usable access token, refreshing if needed.
type TokenSource interface {
	GetAccessToken(ctx context.Context) (string, error)
}

// AskClient is the single remote call the engine retries.
type AskClient interface {
	Ask(ctx context.Context, accessToken string, askReq *remote.AskRequest) (*remote.AskResponse, error)
}

// Engine executes ask requests with the retry budget.
type Engine struct {
	tokens   TokenSource
	client   AskClient
	notifier notify.Notifier
	logger   zerolog.Logger
}

// Config holds the dependencies for the engine.
type Config struct {
	Tokens   TokenSource
	Client   AskClient
	Notifier notify.Notifier
}

// NewEngine creates a query engine.
func NewEngine(cfg *Config) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("token source is required")
	}
	if cfg.Client == nil {
		return nil, fmt.Errorf("ask client is required")
	}
	if cfg.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}

	return &Engine{
		tokens:   cfg.Tokens,
		client:   cfg.Client,
		notifier: cfg.Notifier,
		logger:   log.With().Str("component", "query-engine").Logger(),
	}, nil
}

// Run executes one ask request. The access token is resolved once up front;
// a missing or unrefreshable credential fails immediately without consuming
// any attempt. Each attempt publishes an info notice before the call and an
// error notice when the call fails. After MaxAttempts failures the last
// error is returned.
func (e *Engine) Run(ctx context.Context, contextID string, askReq *remote.AskRequest) (*remote.AskResponse, error) {
	accessToken, err := e.tokens.GetAccessToken(ctx)
	if err != nil {
		e.notifier.Notify(contextID, notify.LevelError, "Not connected to the document service. Authorize in the options page and retry.")
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		e.notifier.Notify(contextID, notify.LevelInfo, fmt.Sprintf("Asking the AI (attempt %d of %d)...", attempt, MaxAttempts))

		resp, err := e.client.Ask(ctx, accessToken, askReq)
		metrics.QueryAttempts.WithLabelValues(metrics.Outcome(err)).Inc()
		if err == nil {
			return resp, nil
		}

		lastErr = err
		e.logger.Warn().
			Err(err).
			Str("context_id", contextID).
			Int("attempt", attempt).
			Msg("Ask attempt failed")
		e.notifier.Notify(contextID, notify.LevelError, fmt.Sprintf("The AI request failed (attempt %d of %d).", attempt, MaxAttempts))

		if ctx.Err() != nil {
			return nil, lastErr
		}
	}

	metrics.QueriesExhausted.Inc()
	e.notifier.Notify(contextID, notify.LevelError, "The AI did not answer after several attempts. Please try again later.")

	if apperrors.IsDomainError(lastErr) {
		return nil, lastErr
	}
	return nil, apperrors.NewQueryError("ask failed after retries", lastErr)
}
