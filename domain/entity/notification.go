package entity

import (
	"time"
)

// NotificationKind classifies a push notification for client rendering.
type NotificationKind string

const (
	NotificationInfo    NotificationKind = "info"
	NotificationSuccess NotificationKind = "success"
	NotificationWarning NotificationKind = "warning"
	NotificationError   NotificationKind = "error"
)

// Notification is an ephemeral push payload. It is never persisted by this
// subsystem; delivery is at-most-once, best-effort.
type Notification struct {
	TargetID      int64            `json:"userId"`
	Title         string           `json:"title"`
	Message       string           `json:"message"`
	Kind          NotificationKind `json:"type"`
	AppointmentID *int64           `json:"appointmentId,omitempty"`
	PatientID     *int64           `json:"patientId,omitempty"`
	Timestamp     time.Time        `json:"timestamp"`
}

func NewNotification(targetID int64, title, message string, kind NotificationKind) *Notification {
	return &Notification{
		TargetID:  targetID,
		Title:     title,
		Message:   message,
		Kind:      kind,
		Timestamp: time.Now(),
	}
}
