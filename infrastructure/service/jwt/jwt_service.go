package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/medilink/medilink/application/port/outbound"
	"github.com/medilink/medilink/domain/entity"
)

// JWTService signs and verifies HS256 session tokens. Access and refresh
// tokens carry the same claim shape but are signed with distinct secrets so
// one kind can never pass for the other.
type JWTService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewJWTService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*JWTService, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("token secrets must not be empty")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}
	return &JWTService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

func (s *JWTService) GenerateAccessToken(claims outbound.TokenClaims) (string, error) {
	return s.generate(claims, s.accessSecret, s.accessTTL)
}

func (s *JWTService) GenerateRefreshToken(claims outbound.TokenClaims) (string, error) {
	return s.generate(claims, s.refreshSecret, s.refreshTTL)
}

func (s *JWTService) ValidateAccessToken(token string) (*outbound.TokenClaims, error) {
	return s.validate(token, s.accessSecret)
}

func (s *JWTService) ValidateRefreshToken(token string) (*outbound.TokenClaims, error) {
	return s.validate(token, s.refreshSecret)
}

// AccessTokenTTL reports the access token lifetime in whole seconds, for the
// expiresIn field of issued pairs.
func (s *JWTService) AccessTokenTTL() int {
	return int(s.accessTTL / time.Second)
}

func (s *JWTService) generate(claims outbound.TokenClaims, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	tokenClaims := jwt.MapClaims{
		"sub":       claims.UserID,
		"Email":     claims.Email,
		"User_Type": claims.Role.String(),
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *JWTService) validate(tokenString string, secret []byte) (*outbound.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, outbound.ErrTokenExpired
		}
		return nil, outbound.ErrInvalidToken
	}
	if !token.Valid {
		return nil, outbound.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, outbound.ErrInvalidToken
	}

	// Numeric JSON claims decode as float64.
	sub, ok := claims["sub"].(float64)
	if !ok {
		return nil, outbound.ErrInvalidToken
	}
	email, ok := claims["Email"].(string)
	if !ok {
		return nil, outbound.ErrInvalidToken
	}
	rawRole, ok := claims["User_Type"].(string)
	if !ok {
		return nil, outbound.ErrInvalidToken
	}
	role, err := entity.ParseRole(rawRole)
	if err != nil {
		return nil, outbound.ErrInvalidToken
	}

	return &outbound.TokenClaims{
		UserID: int64(sub),
		Email:  email,
		Role:   role,
	}, nil
}
