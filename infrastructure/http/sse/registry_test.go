package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryConnectOverwrites(t *testing.T) {
	registry := NewRegistry(8)

	c1, _ := registry.Connect(1)
	c2, _ := registry.Connect(1)
	assert.NotEqual(t, c1, c2)

	// Only the newer mapping survives; both transports stay registered
	// until they close.
	assert.Equal(t, 1, registry.Count())

	_, ok := registry.Lookup(1)
	assert.True(t, ok)
}

func TestRegistryStaleDisconnect(t *testing.T) {
	registry := NewRegistry(8)

	c1, _ := registry.Connect(1)
	_, ch2 := registry.Connect(1)

	// Disconnecting the replaced connection must not evict the newer one.
	registry.Disconnect(c1)

	_, ok := registry.Lookup(1)
	require.True(t, ok)

	require.True(t, registry.Send(1, []byte("ping")))
	assert.Equal(t, []byte("ping"), <-ch2)
}

func TestRegistryDisconnectCurrent(t *testing.T) {
	registry := NewRegistry(8)

	connID, _ := registry.Connect(5)
	registry.Disconnect(connID)

	_, ok := registry.Lookup(5)
	assert.False(t, ok)
	assert.Equal(t, 0, registry.Count())

	// Double disconnect is a no-op.
	registry.Disconnect(connID)
}

func TestRegistryRebind(t *testing.T) {
	registry := NewRegistry(8)

	connID, ch := registry.Connect(1)

	require.True(t, registry.Rebind(2, connID))

	_, ok := registry.Lookup(1)
	assert.True(t, ok, "old identity mapping is only replaced, not removed")

	_, ok = registry.Lookup(2)
	require.True(t, ok)
	require.True(t, registry.Send(2, []byte("hello")))
	assert.Equal(t, []byte("hello"), <-ch)

	assert.False(t, registry.Rebind(2, "unknown-conn"))
}

func TestRegistrySend(t *testing.T) {
	registry := NewRegistry(1)

	_, ch := registry.Connect(1)

	require.True(t, registry.Send(1, []byte("one")))
	assert.False(t, registry.Send(1, []byte("two")), "full buffer is a miss")
	assert.Equal(t, []byte("one"), <-ch)

	assert.False(t, registry.Send(9, []byte("noone")))
}

func TestRegistrySendAll(t *testing.T) {
	registry := NewRegistry(8)

	registry.Connect(1)
	registry.Connect(2)
	registry.Connect(3)

	assert.Equal(t, 3, registry.SendAll([]byte("hi")))
	assert.Equal(t, 3, registry.Count())
}

// A dispatch racing a stream teardown must come back as a miss, never a
// panic from sending on the closed channel.
func TestRegistrySendConcurrentWithDisconnect(t *testing.T) {
	registry := NewRegistry(1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 2000; i++ {
			connID, _ := registry.Connect(1)
			registry.Disconnect(connID)
		}
	}()

	for {
		select {
		case <-done:
			return
		default:
			registry.Send(1, []byte("x"))
			registry.SendAll([]byte("y"))
		}
	}
}
