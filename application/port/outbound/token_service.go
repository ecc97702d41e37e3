package outbound

import (
	"errors"

	"github.com/medilink/medilink/domain/entity"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// TokenClaims is the identity carried by both token kinds. The wire claim
// names (sub, Email, User_Type) are fixed by the API contract.
type TokenClaims struct {
	UserID int64       `json:"sub"`
	Email  string      `json:"Email"`
	Role   entity.Role `json:"User_Type"`
}

// TokenService signs and verifies session tokens. Access and refresh tokens
// share the claim shape but use distinct secrets and expiries.
type TokenService interface {
	GenerateAccessToken(claims TokenClaims) (string, error)
	GenerateRefreshToken(claims TokenClaims) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	ValidateRefreshToken(token string) (*TokenClaims, error)
	AccessTokenTTL() int
}
