package notify_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipask/askdoc-service/internal/services/notify"
)

func receive(t *testing.T, ch <-chan notify.Envelope) notify.Envelope {
	t.Helper()
	select {
	case env := <-ch:
		return env
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for envelope")
		return notify.Envelope{}
	}
}

func TestBus_NoticeReachesSubscriber(t *testing.T) {
	// Arrange
	bus := notify.NewBus()
	events, cancel := bus.Subscribe("tab-1")
	defer cancel()

	// Act
	bus.Notify("tab-1", notify.LevelInfo, "uploading")

	// Assert
	env := receive(t, events)
	assert.Equal(t, "tab-1", env.ContextID)
	require.NotNil(t, env.Notice)
	assert.Equal(t, notify.LevelInfo, env.Notice.Level)
	assert.Equal(t, "uploading", env.Notice.Message)
	assert.Nil(t, env.Event)
}

func TestBus_EventReachesSubscriber(t *testing.T) {
	// Arrange
	bus := notify.NewBus()
	events, cancel := bus.Subscribe("tab-1")
	defer cancel()

	// Act
	bus.Emit("tab-1", notify.ActionSessionClosing, nil)

	// Assert
	env := receive(t, events)
	require.NotNil(t, env.Event)
	assert.Equal(t, notify.ActionSessionClosing, env.Event.Action)
	assert.Nil(t, env.Notice)
}

func TestBus_ScopedByContext(t *testing.T) {
	// Arrange
	bus := notify.NewBus()
	events, cancel := bus.Subscribe("tab-1")
	defer cancel()

	// Act - a different context's notice must not arrive here
	bus.Notify("tab-2", notify.LevelError, "other tab")
	bus.Notify("tab-1", notify.LevelSuccess, "mine")

	// Assert
	env := receive(t, events)
	require.NotNil(t, env.Notice)
	assert.Equal(t, "mine", env.Notice.Message)
	assert.Empty(t, events)
}

func TestBus_CancelClosesChannel(t *testing.T) {
	// Arrange
	bus := notify.NewBus()
	events, cancel := bus.Subscribe("tab-1")

	// Act
	cancel()

	// Assert
	_, open := <-events
	assert.False(t, open)

	// Publishing after cancel must not panic
	bus.Notify("tab-1", notify.LevelInfo, "late")
}

func TestBus_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	// Arrange - nobody drains the channel
	bus := notify.NewBus()
	_, cancel := bus.Subscribe("tab-1")
	defer cancel()

	// Act - overflow the subscriber buffer; must return promptly
	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			bus.Notify("tab-1", notify.LevelInfo, "flood")
		}
		close(done)
	}()

	// Assert
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
