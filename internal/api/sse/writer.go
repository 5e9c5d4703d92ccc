// Package sse provides Server-Sent Events support for the notice and
// session-event stream the UI collaborator subscribes to.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/clipask/askdoc-service/internal/services/notify"
)

// EventType represents the type of SSE event.
type EventType string

const (
	// EventNotice is a transient user-facing status banner.
	EventNotice EventType = "notice"
	// EventSession is a chat-UI session event.
	EventSession EventType = "session"
	// EventError is a stream-level error event.
	EventError EventType = "error"
	// EventPing is a keepalive event.
	EventPing EventType = "ping"
)

// Writer writes Server-Sent Events to an HTTP response.
type Writer struct {
	writer  http.ResponseWriter
	flusher http.Flusher
}

// NewWriter creates a new SSE writer and sets the stream headers.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	return &Writer{
		writer:  w,
		flusher: flusher,
	}, nil
}

// WriteEvent writes an SSE event with the given type and data.
func (w *Writer) WriteEvent(eventType EventType, data string) error {
	_, err := fmt.Fprintf(w.writer, "event: %s\ndata: %s\n\n", eventType, data)
	if err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	w.flusher.Flush()
	return nil
}

// WriteJSON writes an SSE event with JSON-encoded data.
func (w *Writer) WriteJSON(eventType EventType, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}
	return w.WriteEvent(eventType, string(jsonData))
}

// WriteEnvelope writes a bus envelope as either a notice or a session
// event.
func (w *Writer) WriteEnvelope(env notify.Envelope) error {
	if env.Notice != nil {
		return w.WriteJSON(EventNotice, env)
	}
	return w.WriteJSON(EventSession, env)
}

// WritePing writes a keepalive event.
func (w *Writer) WritePing() error {
	return w.WriteEvent(EventPing, "keepalive")
}

// ErrorEvent represents an error event.
type ErrorEvent struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// WriteError writes an error event.
func (w *Writer) WriteError(code, message, details string) error {
	return w.WriteJSON(EventError, &ErrorEvent{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// Flush flushes the response writer.
func (w *Writer) Flush() {
	w.flusher.Flush()
}
