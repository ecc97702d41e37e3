package sse

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medilink/medilink/domain/entity"
	"github.com/medilink/medilink/infrastructure/service/logger"
)

func newTestDispatcher(bufferSize int) (*Dispatcher, *Registry) {
	registry := NewRegistry(bufferSize)
	log := logger.New(logger.Config{Level: "error", Format: "text", ServiceName: "test"})
	return NewDispatcher(registry, log), registry
}

func TestDispatchToUser(t *testing.T) {
	ctx := context.Background()
	dispatcher, registry := newTestDispatcher(8)

	_, ch := registry.Connect(1)

	n := entity.NewNotification(1, "Appointment confirmed", "See you at 10:00", entity.NotificationSuccess)
	delivered := dispatcher.DispatchToUser(ctx, 1, n)
	require.True(t, delivered)

	var event Event
	require.NoError(t, json.Unmarshal(<-ch, &event))
	assert.Equal(t, "notification", event.Type)

	payload := event.Data.(map[string]interface{})
	assert.Equal(t, "Appointment confirmed", payload["title"])
	assert.Equal(t, "success", payload["type"])
	assert.Equal(t, float64(1), payload["userId"])
}

func TestDispatchToDisconnectedUser(t *testing.T) {
	ctx := context.Background()
	dispatcher, _ := newTestDispatcher(8)

	n := entity.NewNotification(99, "Hello", "Nobody home", entity.NotificationInfo)
	assert.False(t, dispatcher.DispatchToUser(ctx, 99, n))
}

func TestDispatchFullBufferIsAMiss(t *testing.T) {
	ctx := context.Background()
	dispatcher, registry := newTestDispatcher(1)

	registry.Connect(1)

	n := entity.NewNotification(1, "One", "fits", entity.NotificationInfo)
	assert.True(t, dispatcher.DispatchToUser(ctx, 1, n))
	assert.False(t, dispatcher.DispatchToUser(ctx, 1, n), "send to a full buffer must not block")
}

func TestBroadcast(t *testing.T) {
	ctx := context.Background()
	dispatcher, registry := newTestDispatcher(8)

	registry.Connect(1)
	registry.Connect(2)
	registry.Connect(3)

	n := entity.NewNotification(0, "Maintenance", "Tonight 22:00", entity.NotificationWarning)
	assert.Equal(t, 3, dispatcher.Broadcast(ctx, n))
}

func TestDispatchDuringStreamTeardown(t *testing.T) {
	ctx := context.Background()
	dispatcher, registry := newTestDispatcher(1)

	n := entity.NewNotification(1, "Racy", "still best-effort", entity.NotificationInfo)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 2000; i++ {
			connID, _ := registry.Connect(1)
			registry.Disconnect(connID)
		}
	}()

	// A dispatch overlapping the teardown is a miss, never a panic.
	for {
		select {
		case <-done:
			return
		default:
			dispatcher.DispatchToUser(ctx, 1, n)
		}
	}
}

func TestBroadcastEmptyRegistry(t *testing.T) {
	ctx := context.Background()
	dispatcher, _ := newTestDispatcher(8)

	n := entity.NewNotification(0, "Anyone", "there?", entity.NotificationInfo)
	assert.Equal(t, 0, dispatcher.Broadcast(ctx, n))
}
