package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"

	domainerrors "github.com/clipask/askdoc-service/internal/domain/errors"
)

// Upload stores the given content as a new file under the parent folder and
// returns the new item's identifier. It refuses to issue a network call
// without an access token, and treats a response without an item id as a hard
// failure.
func (c *Client) Upload(ctx context.Context, accessToken, fileName string, content []byte, parentID string) (string, error) {
	if accessToken == "" {
		return "", domainerrors.NewUploadError("cannot upload without an access token", "")
	}
	if parentID == "" {
		parentID = "0"
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	attributes, err := json.Marshal(map[string]interface{}{
		"name":   fileName,
		"parent": map[string]string{"id": parentID},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal upload attributes: %w", err)
	}
	if err := writer.WriteField("attributes", string(attributes)); err != nil {
		return "", fmt.Errorf("failed to write attributes field: %w", err)
	}

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", fmt.Errorf("failed to create file field: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return "", fmt.Errorf("failed to write file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	endpoint := c.uploadBaseURL + "/files/content"
	resp, err := c.do(ctx, http.MethodPost, endpoint, accessToken, writer.FormDataContentType(), &buf)
	if err != nil {
		return "", domainerrors.NewUploadError("upload request failed", err.Error())
	}
	defer resp.Body.Close()

	body := readBody(resp)
	if !isSuccess(resp.StatusCode) {
		return "", domainerrors.NewUploadError(
			fmt.Sprintf("upload rejected with status %d", resp.StatusCode), body)
	}

	var uploaded uploadResponse
	if err := decodeJSON([]byte(body), &uploaded); err != nil {
		return "", domainerrors.NewUploadError("malformed upload response", body)
	}
	if len(uploaded.Entries) == 0 || uploaded.Entries[0].ID == "" {
		return "", domainerrors.NewUploadError("uploaded file id not found in response", body)
	}

	return uploaded.Entries[0].ID, nil
}

// Delete removes a remote file. Failures are reported to the caller so a
// banner can be surfaced, but cleanup is best-effort and must never abort an
// in-progress conversation.
func (c *Client) Delete(ctx context.Context, accessToken, fileID string) error {
	if accessToken == "" {
		return domainerrors.NewAuthError("cannot delete without an access token", nil)
	}
	if fileID == "" {
		return fmt.Errorf("file id is required")
	}

	endpoint := fmt.Sprintf("%s/files/%s", c.apiBaseURL, fileID)
	resp, err := c.do(ctx, http.MethodDelete, endpoint, accessToken, "", nil)
	if err != nil {
		return fmt.Errorf("delete request failed: %w", err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return fmt.Errorf("delete rejected with status %d: %s", resp.StatusCode, readBody(resp))
	}
	return nil
}

// FetchAgentDefaultConfig retrieves the platform's default agent
// configuration for a model and language. The response body is used verbatim
// as the session's model config. It backs a select-then-confirm flow: a
// failure here means the caller must roll its model selection back to the
// previously confirmed value.
func (c *Client) FetchAgentDefaultConfig(ctx context.Context, accessToken, modelID, language string) (json.RawMessage, error) {
	if accessToken == "" {
		return nil, domainerrors.NewAuthError("cannot fetch agent config without an access token", nil)
	}
	if language == "" {
		language = "en"
	}

	endpoint := fmt.Sprintf("%s/ai_agent_default?mode=ask&model=%s&language=%s", c.apiBaseURL, modelID, language)
	resp, err := c.do(ctx, http.MethodGet, endpoint, accessToken, "", nil)
	if err != nil {
		return nil, domainerrors.NewConfigFetchError("agent config request failed", err.Error())
	}
	defer resp.Body.Close()

	body := readBody(resp)
	if !isSuccess(resp.StatusCode) {
		return nil, domainerrors.NewConfigFetchError(
			fmt.Sprintf("agent config fetch failed with status %d", resp.StatusCode), body)
	}

	if !json.Valid([]byte(body)) {
		return nil, domainerrors.NewConfigFetchError("agent config response is not valid JSON", body)
	}

	return json.RawMessage(body), nil
}

// Ask issues a single query against the target set. One call is one attempt;
// the query engine owns the retry budget.
func (c *Client) Ask(ctx context.Context, accessToken string, askReq *AskRequest) (*AskResponse, error) {
	if accessToken == "" {
		return nil, domainerrors.NewAuthError("cannot ask without an access token", nil)
	}

	payload, err := json.Marshal(askReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ask request: %w", err)
	}

	endpoint := c.apiBaseURL + "/ai/ask"
	resp, err := c.do(ctx, http.MethodPost, endpoint, accessToken, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, domainerrors.NewQueryError("ask request failed", err)
	}
	defer resp.Body.Close()

	body := readBody(resp)
	if !isSuccess(resp.StatusCode) {
		return nil, &domainerrors.DomainError{
			Code:       domainerrors.ErrCodeQuery,
			Message:    fmt.Sprintf("ask rejected with status %d", resp.StatusCode),
			Details:    body,
			HTTPStatus: http.StatusBadGateway,
		}
	}

	var answer AskResponse
	if err := decodeJSON([]byte(body), &answer); err != nil {
		return nil, domainerrors.NewQueryError("malformed ask response", err)
	}

	return &answer, nil
}

func decodeJSON(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
