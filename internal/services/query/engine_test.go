package query_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/clipask/askdoc-service/internal/domain/errors"
	"github.com/clipask/askdoc-service/internal/services/notify"
	"github.com/clipask/askdoc-service/internal/services/query"
	"github.com/clipask/askdoc-service/internal/services/remote"
)

type fakeTokens struct {
	token string
	err   error
	calls int
}

func (f *fakeTokens) GetAccessToken(context.Context) (string, error) {
	f.calls++
	return f.token, f.err
}

// scriptedAsk fails a fixed number of times before succeeding.
type scriptedAsk struct {
	failures int
	calls    int
	response *remote.AskResponse
}

func (s *scriptedAsk) Ask(_ context.Context, _ string, _ *remote.AskRequest) (*remote.AskResponse, error) {
	s.calls++
	if s.calls <= s.failures {
		return nil, domainerrors.NewQueryError("transient", nil)
	}
	return s.response, nil
}

// recordingNotifier captures published notices.
type recordingNotifier struct {
	notices []notify.Notice
}

func (r *recordingNotifier) Notify(_ string, level notify.Level, message string) {
	r.notices = append(r.notices, notify.Notice{Message: message, Level: level})
}

func (r *recordingNotifier) Emit(string, notify.Action, interface{}) {}

func newEngine(t *testing.T, tokens *fakeTokens, ask *scriptedAsk, notifier *recordingNotifier) *query.Engine {
	t.Helper()
	engine, err := query.NewEngine(&query.Config{
		Tokens:   tokens,
		Client:   ask,
		Notifier: notifier,
	})
	require.NoError(t, err)
	return engine
}

func TestRun_FirstAttemptSucceeds(t *testing.T) {
	// Arrange
	ask := &scriptedAsk{response: &remote.AskResponse{Answer: "42"}}
	engine := newEngine(t, &fakeTokens{token: "at-1"}, ask, &recordingNotifier{})

	// Act
	resp, err := engine.Run(context.Background(), "ctx-1", &remote.AskRequest{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "42", resp.Answer)
	assert.Equal(t, 1, ask.calls)
}

func TestRun_SucceedsOnFifthAttempt(t *testing.T) {
	// Arrange
	ask := &scriptedAsk{failures: 4, response: &remote.AskResponse{Answer: "late"}}
	notifier := &recordingNotifier{}
	engine := newEngine(t, &fakeTokens{token: "at-1"}, ask, notifier)

	// Act
	resp, err := engine.Run(context.Background(), "ctx-1", &remote.AskRequest{})

	// Assert - the budget covers exactly five attempts
	require.NoError(t, err)
	assert.Equal(t, "late", resp.Answer)
	assert.Equal(t, 5, ask.calls)

	infoCount := 0
	errorCount := 0
	for _, n := range notifier.notices {
		switch n.Level {
		case notify.LevelInfo:
			infoCount++
		case notify.LevelError:
			errorCount++
		}
	}
	assert.Equal(t, 5, infoCount)
	assert.Equal(t, 4, errorCount)
}

func TestRun_ExhaustsBudget(t *testing.T) {
	// Arrange
	ask := &scriptedAsk{failures: 10}
	engine := newEngine(t, &fakeTokens{token: "at-1"}, ask, &recordingNotifier{})

	// Act
	resp, err := engine.Run(context.Background(), "ctx-1", &remote.AskRequest{})

	// Assert - never a sixth call
	assert.Nil(t, resp)
	assert.True(t, domainerrors.IsQueryError(err))
	assert.Equal(t, query.MaxAttempts, ask.calls)
}

func TestRun_MissingCredentialShortCircuits(t *testing.T) {
	// Arrange
	tokens := &fakeTokens{err: domainerrors.NewAuthError("no credential", nil)}
	ask := &scriptedAsk{response: &remote.AskResponse{Answer: "never"}}
	engine := newEngine(t, tokens, ask, &recordingNotifier{})

	// Act
	resp, err := engine.Run(context.Background(), "ctx-1", &remote.AskRequest{})

	// Assert - no attempt is consumed
	assert.Nil(t, resp)
	assert.True(t, domainerrors.IsAuthError(err))
	assert.Zero(t, ask.calls)
}

func TestRun_TokenResolvedOncePerRun(t *testing.T) {
	// Arrange
	tokens := &fakeTokens{token: "at-1"}
	ask := &scriptedAsk{failures: 2, response: &remote.AskResponse{Answer: "ok"}}
	engine := newEngine(t, tokens, ask, &recordingNotifier{})

	// Act
	_, err := engine.Run(context.Background(), "ctx-1", &remote.AskRequest{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, tokens.calls)
}
