package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/medilink/medilink/domain/apperror"
)

// Envelope is the uniform JSON response shape. Code carries the machine
// taxonomy code on failures; it is omitted on success responses.
type Envelope struct {
	Status  bool        `json:"status"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, envelope Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(envelope)
}

func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	WriteJSON(w, statusCode, Envelope{Status: true, Message: message, Data: data})
}

func Error(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, Envelope{Status: false, Message: message})
}

// ErrorFrom writes a failure envelope carrying the taxonomy code of err when
// err (or anything it wraps) is an *apperror.AppError.
func ErrorFrom(w http.ResponseWriter, statusCode int, message string, err error) {
	envelope := Envelope{Status: false, Message: message}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		envelope.Code = string(appErr.Code)
	}
	WriteJSON(w, statusCode, envelope)
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, message)
}

func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

func TooManyRequests(w http.ResponseWriter, message string) {
	Error(w, http.StatusTooManyRequests, message)
}

func InternalServerError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, message)
}
