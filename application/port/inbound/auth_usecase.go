package inbound

import (
	"context"

	"github.com/medilink/medilink/domain/entity"
)

type LoginRequest struct {
	Email    string `json:"Email"`
	Password string `json:"Password"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

// AuthUseCase is the token service: issuance, rotation and revocation of
// session token pairs.
type AuthUseCase interface {
	Login(ctx context.Context, req LoginRequest) (*TokenPair, error)
	Issue(ctx context.Context, user *entity.User) (*TokenPair, error)

	// Refresh rotates the session: the presented token becomes unusable the
	// moment a new pair is issued, because the hash it matched is
	// overwritten. Concurrent refreshes for one identity are not serialized;
	// the last write wins.
	Refresh(ctx context.Context, userID int64, refreshToken string) (*TokenPair, error)

	// Revoke closes the refresh path only. Outstanding access tokens remain
	// structurally valid until their own expiry; this is a documented
	// limitation, not a defect.
	Revoke(ctx context.Context, userID int64) error
}
