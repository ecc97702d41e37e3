package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/medilink/medilink/application/port/inbound"
	"github.com/medilink/medilink/application/usecase"
	"github.com/medilink/medilink/domain/apperror"
	"github.com/medilink/medilink/infrastructure/http/response"
)

type AuthHandler struct {
	authUseCase inbound.AuthUseCase
}

func NewAuthHandler(authUseCase inbound.AuthUseCase) *AuthHandler {
	return &AuthHandler{authUseCase: authUseCase}
}

// Login handles POST /auth.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req inbound.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if !strings.Contains(req.Email, "@") {
		response.BadRequest(w, "Invalid email format")
		return
	}
	if req.Password == "" {
		response.BadRequest(w, "Password is required")
		return
	}

	ctx := context.WithValue(r.Context(), usecase.ClientIPKey, clientIP(r))

	pair, err := h.authUseCase.Login(ctx, req)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "success", pair)
}

// Refresh handles GET /auth?id={identityId}&refreshToken={token}, returning a
// rotated pair.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "id query parameter is required")
		return
	}
	refreshToken := r.URL.Query().Get("refreshToken")
	if refreshToken == "" {
		response.BadRequest(w, "refreshToken query parameter is required")
		return
	}

	pair, err := h.authUseCase.Refresh(r.Context(), id, refreshToken)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "success", pair)
}

// Revoke handles GET /auth/{id}, closing the identity's refresh session.
func (h *AuthHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid identity id")
		return
	}

	if err := h.authUseCase.Revoke(r.Context(), id); err != nil {
		writeAuthError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "refresh session revoked", nil)
}

func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperror.ErrAuthenticationFailed):
		response.ErrorFrom(w, http.StatusUnauthorized, "Authentication failed", err)
	case errors.Is(err, apperror.ErrAuthorizationFailed):
		response.ErrorFrom(w, http.StatusForbidden, "Access denied", err)
	case errors.Is(err, apperror.ErrNotFound):
		response.ErrorFrom(w, http.StatusNotFound, "Identity not found", err)
	case errors.Is(err, apperror.ErrRateLimited):
		response.ErrorFrom(w, http.StatusTooManyRequests, err.Error(), err)
	default:
		response.InternalServerError(w, "Internal server error")
	}
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
