package password

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptService(t *testing.T) {
	service := NewBcryptService(bcrypt.MinCost)

	t.Run("HashPassword", func(t *testing.T) {
		hash, err := service.HashPassword("Secret1")
		if err != nil {
			t.Errorf("Failed to hash password: %v", err)
		}
		if hash == "" {
			t.Error("Hash should not be empty")
		}
	})

	t.Run("HashEmptyPassword", func(t *testing.T) {
		if _, err := service.HashPassword(""); err == nil {
			t.Error("Should fail to hash empty password")
		}
	})

	t.Run("VerifyPassword", func(t *testing.T) {
		hash, err := service.HashPassword("Secret1")
		if err != nil {
			t.Fatalf("Failed to hash password: %v", err)
		}

		isValid, err := service.VerifyPassword("Secret1", hash)
		if err != nil {
			t.Errorf("Failed to verify password: %v", err)
		}
		if !isValid {
			t.Error("Password should be valid")
		}
	})

	t.Run("VerifyWrongPassword", func(t *testing.T) {
		hash, err := service.HashPassword("Secret1")
		if err != nil {
			t.Fatalf("Failed to hash password: %v", err)
		}

		isValid, err := service.VerifyPassword("wrong", hash)
		if err != nil {
			t.Errorf("Should not return error for wrong password: %v", err)
		}
		if isValid {
			t.Error("Wrong password should not be valid")
		}
	})

	t.Run("TokenDigestRoundTrip", func(t *testing.T) {
		// Compact JWTs are far longer than bcrypt's 72-byte input limit.
		token := strings.Repeat("eyJhbGciOiJIUzI1NiJ9.", 10)

		digest, err := service.Hash(token)
		if err != nil {
			t.Fatalf("Failed to hash token: %v", err)
		}

		match, err := service.Verify(token, digest)
		if err != nil {
			t.Errorf("Failed to verify token: %v", err)
		}
		if !match {
			t.Error("Token should match its digest")
		}

		match, err = service.Verify(token+"x", digest)
		if err != nil {
			t.Errorf("Should not return error for mismatched token: %v", err)
		}
		if match {
			t.Error("Different token should not match digest")
		}
	})
}
