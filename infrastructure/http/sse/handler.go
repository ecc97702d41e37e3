package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/medilink/medilink/infrastructure/http/response"
	"github.com/medilink/medilink/infrastructure/service/logger"
)

// Handler exposes the push channel over Server-Sent Events. The handshake
// carries the identity as a query parameter; a connected client may later
// re-announce its identity through Subscribe without re-opening the stream.
type Handler struct {
	registry  *Registry
	logger    logger.Logger
	heartbeat time.Duration
}

func NewHandler(registry *Registry, log logger.Logger, heartbeat time.Duration) *Handler {
	if heartbeat <= 0 {
		heartbeat = 15 * time.Second
	}
	return &Handler{registry: registry, logger: log, heartbeat: heartbeat}
}

// Stream opens the persistent push channel. The connection stays registered
// until the transport closes; there is no timeout-based eviction.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	identityID, err := strconv.ParseInt(r.URL.Query().Get("identityId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "identityId query parameter is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	connID, channel := h.registry.Connect(identityID)
	defer h.registry.Disconnect(connID)

	h.logger.Info(r.Context(), "Push channel opened", map[string]interface{}{
		"identity_id":   identityID,
		"connection_id": connID,
	})

	// Acknowledge the handshake; the client needs the connection id for an
	// explicit rebind later.
	ack := map[string]interface{}{
		"connectionId": connID,
		"identityId":   identityID,
		"connected":    true,
		"timestamp":    time.Now().Unix(),
	}
	if err := writeEvent(w, "connected", ack); err != nil {
		return
	}
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.logger.Info(r.Context(), "Push channel closed", map[string]interface{}{
				"identity_id":   identityID,
				"connection_id": connID,
			})
			return

		case message, open := <-channel:
			if !open {
				return
			}
			if err := writeMessage(w, message); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if err := writeComment(w, "heartbeat"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

type subscribeRequest struct {
	IdentityID   int64  `json:"identityId"`
	ConnectionID string `json:"connectionId"`
}

// Subscribe rebinds an already-open connection to an identity, for clients
// that re-announce themselves after a client-side reconnect without a fresh
// handshake.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.IdentityID == 0 || req.ConnectionID == "" {
		response.BadRequest(w, "identityId and connectionId are required")
		return
	}

	if !h.registry.Rebind(req.IdentityID, req.ConnectionID) {
		response.NotFound(w, "Connection not found")
		return
	}

	h.logger.Info(r.Context(), "Push channel rebound", map[string]interface{}{
		"identity_id":   req.IdentityID,
		"connection_id": req.ConnectionID,
	})
	response.Success(w, http.StatusOK, "subscribed", nil)
}

func writeEvent(w http.ResponseWriter, eventType string, data interface{}) error {
	payload, err := json.Marshal(Event{Type: eventType, Data: data, Time: time.Now().Unix()})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, payload)
	return err
}

func writeMessage(w http.ResponseWriter, message []byte) error {
	_, err := fmt.Fprintf(w, "event: notification\ndata: %s\n\n", message)
	return err
}

func writeComment(w http.ResponseWriter, comment string) error {
	_, err := fmt.Fprintf(w, ":%s\n\n", comment)
	return err
}
