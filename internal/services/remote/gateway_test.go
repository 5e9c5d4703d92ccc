package remote_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/clipask/askdoc-service/internal/domain/errors"
	"github.com/clipask/askdoc-service/internal/domain/models"
	"github.com/clipask/askdoc-service/internal/services/remote"
)

func TestUpload_SendsMultipartAndReturnsID(t *testing.T) {
	// Arrange
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/files/content", r.URL.Path)
		require.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))

		var attributes struct {
			Name   string `json:"name"`
			Parent struct {
				ID string `json:"id"`
			} `json:"parent"`
		}
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("attributes")), &attributes))
		assert.Equal(t, "notes_123.md", attributes.Name)
		assert.Equal(t, "42", attributes.Parent.ID)

		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"entries": []map[string]string{{"id": "file-9"}},
		})
	}))

	// Act
	fileID, err := client.Upload(context.Background(), "at-1", "notes_123.md", []byte("selected text"), "42")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "file-9", fileID)
}

func TestUpload_WithoutTokenMakesNoCall(t *testing.T) {
	// Arrange
	called := false
	client := newTestClient(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	// Act
	fileID, err := client.Upload(context.Background(), "", "n.md", []byte("x"), "0")

	// Assert
	assert.Empty(t, fileID)
	assert.True(t, domainerrors.IsUploadError(err))
	assert.False(t, called)
}

func TestUpload_RejectionCarriesBody(t *testing.T) {
	// Arrange
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"code":"item_name_in_use"}`, http.StatusConflict)
	}))

	// Act
	fileID, err := client.Upload(context.Background(), "at-1", "n.md", []byte("x"), "0")

	// Assert
	assert.Empty(t, fileID)
	require.True(t, domainerrors.IsUploadError(err))
	domainErr, _ := domainerrors.GetDomainError(err)
	assert.Contains(t, domainErr.Details, "item_name_in_use")
}

func TestUpload_MissingEntryIDFails(t *testing.T) {
	// Arrange
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"entries": []map[string]string{}})
	}))

	// Act
	fileID, err := client.Upload(context.Background(), "at-1", "n.md", []byte("x"), "0")

	// Assert
	assert.Empty(t, fileID)
	assert.True(t, domainerrors.IsUploadError(err))
}

func TestDelete_IssuesDelete(t *testing.T) {
	// Arrange
	var gotMethod, gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))

	// Act
	err := client.Delete(context.Background(), "at-1", "file-9")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/files/file-9", gotPath)
}

func TestDelete_RejectionIsPlainError(t *testing.T) {
	// Arrange
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone already", http.StatusNotFound)
	}))

	// Act
	err := client.Delete(context.Background(), "at-1", "file-9")

	// Assert - cleanup failures stay ordinary errors, not domain errors
	require.Error(t, err)
	assert.False(t, domainerrors.IsDomainError(err))
}

func TestFetchAgentDefaultConfig_ReturnsBodyVerbatim(t *testing.T) {
	// Arrange
	configBody := `{"ask":{"basic_gen":{"model":"gpt"}}}`
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ai_agent_default", r.URL.Path)
		assert.Equal(t, "ask", r.URL.Query().Get("mode"))
		assert.Equal(t, "gpt", r.URL.Query().Get("model"))
		assert.Equal(t, "de", r.URL.Query().Get("language"))
		w.Write([]byte(configBody))
	}))

	// Act
	config, err := client.FetchAgentDefaultConfig(context.Background(), "at-1", "gpt", "de")

	// Assert
	require.NoError(t, err)
	assert.JSONEq(t, configBody, string(config))
}

func TestFetchAgentDefaultConfig_DefaultsLanguage(t *testing.T) {
	// Arrange
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "en", r.URL.Query().Get("language"))
		w.Write([]byte(`{}`))
	}))

	// Act
	_, err := client.FetchAgentDefaultConfig(context.Background(), "at-1", "gpt", "")

	// Assert
	require.NoError(t, err)
}

func TestFetchAgentDefaultConfig_FailureIsConfigFetchError(t *testing.T) {
	// Arrange
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))

	// Act
	config, err := client.FetchAgentDefaultConfig(context.Background(), "at-1", "gpt", "en")

	// Assert
	assert.Nil(t, config)
	assert.True(t, domainerrors.IsConfigFetchError(err))
}

func TestAsk_SendsRequestAndDecodesAnswer(t *testing.T) {
	// Arrange
	var got remote.AskRequest
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ai/ask", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{
			"answer":     "42",
			"created_at": "2026-09-01T10:00:00Z",
		})
	}))

	askReq := &remote.AskRequest{
		Mode:   remote.ModeSingleItemQA,
		Prompt: "Summarize: Hello world",
		Items:  []models.TargetItem{models.NewFileTarget("file-9")},
		DialogueHistory: []models.Exchange{
			{Prompt: "p1", Answer: "a1", CreatedAt: "2026-09-01T09:00:00Z"},
		},
	}

	// Act
	resp, err := client.Ask(context.Background(), "at-1", askReq)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "42", resp.Answer)
	assert.Equal(t, "2026-09-01T10:00:00Z", resp.CreatedAt)
	assert.Equal(t, remote.ModeSingleItemQA, got.Mode)
	require.Len(t, got.DialogueHistory, 1)
	assert.Equal(t, "a1", got.DialogueHistory[0].Answer)
}

func TestAsk_RejectionIsQueryError(t *testing.T) {
	// Arrange
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))

	// Act
	resp, err := client.Ask(context.Background(), "at-1", &remote.AskRequest{})

	// Assert
	assert.Nil(t, resp)
	assert.True(t, domainerrors.IsQueryError(err))
}
