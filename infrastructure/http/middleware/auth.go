package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/medilink/medilink/application/port/outbound"
	"github.com/medilink/medilink/domain/entity"
	"github.com/medilink/medilink/infrastructure/http/response"
	"github.com/medilink/medilink/infrastructure/service/logger"
)

type contextKey string

// AuthUserKey is the context key holding the validated token claims.
const AuthUserKey contextKey = "auth_user"

// AuthMiddleware is the access guard: it authenticates bearer tokens and
// enforces per-route role requirements.
type AuthMiddleware struct {
	tokenService   outbound.TokenService
	userRepository outbound.UserRepository
	logger         logger.Logger
}

func NewAuthMiddleware(tokenService outbound.TokenService, userRepo outbound.UserRepository, log logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService:   tokenService,
		userRepository: userRepo,
		logger:         log,
	}
}

// RequireAuth validates the Authorization bearer token and stashes its claims
// in the request context. Missing, malformed, expired or badly signed tokens
// all end the request with 401.
func (m *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.tokenService.ValidateAccessToken(parts[1])
		if err != nil {
			if errors.Is(err, outbound.ErrTokenExpired) {
				response.Unauthorized(w, "Token expired")
				return
			}
			response.Unauthorized(w, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), AuthUserKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequireRoles authenticates and then checks the caller's CURRENT role
// against the declared set. The role embedded in the token is not trusted
// alone: the credential store is re-consulted by sub, so an out-of-band role
// change takes effect without waiting for token expiry. An empty set means
// the operation is public beyond authentication.
func (m *AuthMiddleware) RequireRoles(next http.HandlerFunc, roles ...entity.Role) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		if len(roles) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		claims := GetUserClaims(r.Context())
		if claims == nil {
			response.Unauthorized(w, "User not authenticated")
			return
		}

		user, err := m.userRepository.FindByID(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, outbound.ErrUserNotFound) {
				response.Forbidden(w, "Access denied")
				return
			}
			response.InternalServerError(w, "Failed to verify access")
			return
		}

		if !user.Role.In(roles) {
			logger.LogSecurityEvent(r.Context(), m.logger, "role_denied", "LOW", map[string]interface{}{
				"user_id":  user.ID,
				"role":     user.Role.String(),
				"required": roleNames(roles),
			})
			response.Forbidden(w, "Insufficient role")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetUserClaims retrieves the validated claims from the request context.
func GetUserClaims(ctx context.Context) *outbound.TokenClaims {
	if claims, ok := ctx.Value(AuthUserKey).(*outbound.TokenClaims); ok {
		return claims
	}
	return nil
}

func roleNames(roles []entity.Role) []string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.String()
	}
	return names
}
