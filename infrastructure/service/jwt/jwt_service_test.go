package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/medilink/medilink/application/port/outbound"
	"github.com/medilink/medilink/domain/entity"
)

func TestJWTService(t *testing.T) {
	service, err := NewJWTService("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("Failed to create JWT service: %v", err)
	}

	claims := outbound.TokenClaims{
		UserID: 42,
		Email:  "a@x.com",
		Role:   entity.RolePatient,
	}

	t.Run("AccessTokenRoundTrip", func(t *testing.T) {
		token, err := service.GenerateAccessToken(claims)
		if err != nil {
			t.Fatalf("Failed to generate access token: %v", err)
		}

		got, err := service.ValidateAccessToken(token)
		if err != nil {
			t.Fatalf("Failed to validate token: %v", err)
		}
		if got.UserID != 42 || got.Email != "a@x.com" || got.Role != entity.RolePatient {
			t.Errorf("Claims mismatch: %+v", got)
		}
	})

	t.Run("RefreshTokenRoundTrip", func(t *testing.T) {
		token, err := service.GenerateRefreshToken(claims)
		if err != nil {
			t.Fatalf("Failed to generate refresh token: %v", err)
		}

		got, err := service.ValidateRefreshToken(token)
		if err != nil {
			t.Fatalf("Failed to validate refresh token: %v", err)
		}
		if got.UserID != 42 {
			t.Errorf("Expected sub 42, got %d", got.UserID)
		}
	})

	t.Run("KindsDoNotCross", func(t *testing.T) {
		refreshToken, err := service.GenerateRefreshToken(claims)
		if err != nil {
			t.Fatalf("Failed to generate refresh token: %v", err)
		}

		if _, err := service.ValidateAccessToken(refreshToken); err == nil {
			t.Error("Refresh token should not validate as access token")
		}

		accessToken, err := service.GenerateAccessToken(claims)
		if err != nil {
			t.Fatalf("Failed to generate access token: %v", err)
		}
		if _, err := service.ValidateRefreshToken(accessToken); err == nil {
			t.Error("Access token should not validate as refresh token")
		}
	})

	t.Run("InvalidToken", func(t *testing.T) {
		if _, err := service.ValidateAccessToken("not-a-token"); !errors.Is(err, outbound.ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		expiredService, err := NewJWTService("access-secret", "refresh-secret", -time.Second, -time.Second)
		if err != nil {
			t.Fatalf("Failed to create JWT service: %v", err)
		}

		token, err := expiredService.GenerateAccessToken(claims)
		if err != nil {
			t.Fatalf("Failed to generate access token: %v", err)
		}

		if _, err := service.ValidateAccessToken(token); !errors.Is(err, outbound.ErrTokenExpired) {
			t.Errorf("Expected ErrTokenExpired, got %v", err)
		}
	})

	t.Run("UnknownRoleRejected", func(t *testing.T) {
		badClaims := outbound.TokenClaims{UserID: 1, Email: "b@x.com", Role: entity.Role("Superuser")}
		token, err := service.GenerateAccessToken(badClaims)
		if err != nil {
			t.Fatalf("Failed to generate access token: %v", err)
		}
		if _, err := service.ValidateAccessToken(token); err == nil {
			t.Error("Token with unknown role should not validate")
		}
	})

	t.Run("SecretsMustDiffer", func(t *testing.T) {
		if _, err := NewJWTService("same", "same", time.Minute, time.Hour); err == nil {
			t.Error("Expected error for identical secrets")
		}
	})
}
