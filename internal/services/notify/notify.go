// Package notify carries user-facing notices and session events from the
// core to the UI collaborator. It replaces callback-style platform messaging
// with an in-process bus of typed payloads.
package notify

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Level classifies a notice the way the UI's banner renders it.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Action identifies a session event the chat UI reacts to.
type Action string

const (
	// ActionBeginWithInstruction opens the transcript and shows a pending
	// indicator for the first exchange.
	ActionBeginWithInstruction Action = "begin_with_instruction"
	// ActionAppendMessage appends an assistant or user turn.
	ActionAppendMessage Action = "append_message"
	// ActionRequestSend signals the user submitted text.
	ActionRequestSend Action = "request_send"
	// ActionSessionClosing signals the user closed the chat.
	ActionSessionClosing Action = "session_closing"
)

// Notice is a transient user-facing status message.
type Notice struct {
	Message string `json:"message"`
	Level   Level  `json:"level"`
}

// SessionEvent is a typed chat-UI event.
type SessionEvent struct {
	Action  Action      `json:"action"`
	Payload interface{} `json:"payload,omitempty"`
}

// Envelope is what subscribers receive: exactly one of Notice or Event is
// set.
type Envelope struct {
	ContextID string        `json:"contextId"`
	At        time.Time     `json:"at"`
	Notice    *Notice       `json:"notice,omitempty"`
	Event     *SessionEvent `json:"event,omitempty"`
}

// Notifier is the core-facing side of the bus.
type Notifier interface {
	// Notify publishes a banner notice for a context.
	Notify(contextID string, level Level, message string)

	// Emit publishes a session event for a context.
	Emit(contextID string, action Action, payload interface{})
}

// subscriberBuffer bounds each subscriber channel; a slow subscriber drops
// events rather than blocking a conversation turn.
const subscriberBuffer = 64

// Bus is an in-process fan-out of envelopes keyed by context id.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]chan Envelope
	logger zerolog.Logger
}

// NewBus creates a new notification bus.
func NewBus() *Bus {
	return &Bus{
		subs:   make(map[string]map[int]chan Envelope),
		logger: log.Logger,
	}
}

// Subscribe registers a listener for one context id. The returned cancel
// function must be called when the listener goes away.
func (b *Bus) Subscribe(contextID string) (<-chan Envelope, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID

	ch := make(chan Envelope, subscriberBuffer)
	if b.subs[contextID] == nil {
		b.subs[contextID] = make(map[int]chan Envelope)
	}
	b.subs[contextID][id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if listeners, ok := b.subs[contextID]; ok {
			if c, ok := listeners[id]; ok {
				delete(listeners, id)
				close(c)
			}
			if len(listeners) == 0 {
				delete(b.subs, contextID)
			}
		}
	}

	return ch, cancel
}

// Notify publishes a banner notice for a context.
func (b *Bus) Notify(contextID string, level Level, message string) {
	event := b.logger.Info()
	if level == LevelError {
		event = b.logger.Warn()
	}
	event.Str("context_id", contextID).Str("level", string(level)).Msg(message)

	b.publish(Envelope{
		ContextID: contextID,
		At:        time.Now().UTC(),
		Notice:    &Notice{Message: message, Level: level},
	})
}

// Emit publishes a session event for a context.
func (b *Bus) Emit(contextID string, action Action, payload interface{}) {
	b.logger.Debug().
		Str("context_id", contextID).
		Str("action", string(action)).
		Msg("session event")

	b.publish(Envelope{
		ContextID: contextID,
		At:        time.Now().UTC(),
		Event:     &SessionEvent{Action: action, Payload: payload},
	})
}

func (b *Bus) publish(env Envelope) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs[env.ContextID] {
		select {
		case ch <- env:
		default:
			// Subscriber is not keeping up; dropping beats blocking a turn.
		}
	}
}
