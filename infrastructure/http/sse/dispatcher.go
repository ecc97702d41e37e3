package sse

import (
	"context"
	"encoding/json"
	"time"

	"github.com/medilink/medilink/domain/entity"
	"github.com/medilink/medilink/infrastructure/service/logger"
)

// Event is the wire shape of one server-sent event payload.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
	Time int64       `json:"time"`
}

// Dispatcher delivers notifications through the registry, fire-and-forget.
// There is no queue, no retry and no redelivery on reconnect: a notification
// sent while the target is disconnected is permanently lost, and that is not
// an error condition.
type Dispatcher struct {
	registry *Registry
	logger   logger.Logger
}

func NewDispatcher(registry *Registry, log logger.Logger) *Dispatcher {
	return &Dispatcher{registry: registry, logger: log}
}

// DispatchToUser sends the notification to the target's current channel if
// one exists. Returns true when the payload was handed to a channel, false
// when the target is disconnected or its buffer is full.
func (d *Dispatcher) DispatchToUser(ctx context.Context, identityID int64, n *entity.Notification) bool {
	message, err := d.encode("notification", n)
	if err != nil {
		d.logger.Error(ctx, "Failed to encode notification", err, map[string]interface{}{
			"target_id": identityID,
		})
		return false
	}

	// The registry performs the send under its lock, so a stream tearing
	// down mid-dispatch is a miss rather than a panic.
	if !d.registry.Send(identityID, message) {
		d.logger.Debug(ctx, "Dispatch miss, target disconnected or buffer full", map[string]interface{}{
			"target_id": identityID,
		})
		return false
	}
	return true
}

// Broadcast sends the notification to every currently mapped channel and
// returns the count of channels addressed.
func (d *Dispatcher) Broadcast(ctx context.Context, n *entity.Notification) int {
	message, err := d.encode("notification", n)
	if err != nil {
		d.logger.Error(ctx, "Failed to encode notification", err, nil)
		return 0
	}

	return d.registry.SendAll(message)
}

func (d *Dispatcher) encode(eventType string, data interface{}) ([]byte, error) {
	return json.Marshal(Event{
		Type: eventType,
		Data: data,
		Time: time.Now().Unix(),
	})
}
