package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/medilink/medilink/domain/entity"
	"github.com/medilink/medilink/infrastructure/http/response"
	"github.com/medilink/medilink/infrastructure/http/sse"
)

// NotificationHandler gives in-process collaborators (appointment,
// prescription services) an HTTP face for the dispatcher.
type NotificationHandler struct {
	dispatcher *sse.Dispatcher
}

func NewNotificationHandler(dispatcher *sse.Dispatcher) *NotificationHandler {
	return &NotificationHandler{dispatcher: dispatcher}
}

type dispatchRequest struct {
	TargetID      int64  `json:"targetId"`
	Title         string `json:"title"`
	Message       string `json:"message"`
	Kind          string `json:"type"`
	AppointmentID *int64 `json:"appointmentId,omitempty"`
	PatientID     *int64 `json:"patientId,omitempty"`
}

type dispatchResponse struct {
	Delivered bool `json:"delivered"`
}

type broadcastResponse struct {
	Delivered int `json:"delivered"`
}

// Dispatch handles POST /notifications/dispatch. A disconnected target is
// reported as delivered:false, never as an error.
func (h *NotificationHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	notification, ok := h.decode(w, r)
	if !ok {
		return
	}
	if notification.TargetID == 0 {
		response.BadRequest(w, "targetId is required")
		return
	}

	delivered := h.dispatcher.DispatchToUser(r.Context(), notification.TargetID, notification)
	response.Success(w, http.StatusOK, "dispatched", dispatchResponse{Delivered: delivered})
}

// Broadcast handles POST /notifications/broadcast.
func (h *NotificationHandler) Broadcast(w http.ResponseWriter, r *http.Request) {
	notification, ok := h.decode(w, r)
	if !ok {
		return
	}

	count := h.dispatcher.Broadcast(r.Context(), notification)
	response.Success(w, http.StatusOK, "broadcast", broadcastResponse{Delivered: count})
}

func (h *NotificationHandler) decode(w http.ResponseWriter, r *http.Request) (*entity.Notification, bool) {
	var req dispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return nil, false
	}
	if req.Title == "" || req.Message == "" {
		response.BadRequest(w, "title and message are required")
		return nil, false
	}

	kind := entity.NotificationKind(req.Kind)
	switch kind {
	case entity.NotificationInfo, entity.NotificationSuccess, entity.NotificationWarning, entity.NotificationError:
	case "":
		kind = entity.NotificationInfo
	default:
		response.BadRequest(w, "Invalid notification type")
		return nil, false
	}

	return &entity.Notification{
		TargetID:      req.TargetID,
		Title:         req.Title,
		Message:       req.Message,
		Kind:          kind,
		AppointmentID: req.AppointmentID,
		PatientID:     req.PatientID,
		Timestamp:     time.Now(),
	}, true
}
