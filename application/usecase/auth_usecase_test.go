package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/medilink/medilink/application/port/inbound"
	"github.com/medilink/medilink/application/port/outbound"
	"github.com/medilink/medilink/domain/apperror"
	"github.com/medilink/medilink/domain/entity"
	"github.com/medilink/medilink/infrastructure/service/jwt"
	"github.com/medilink/medilink/infrastructure/service/logger"
	"github.com/medilink/medilink/infrastructure/service/password"
)

// fakeUserRepository is an in-memory credential store.
type fakeUserRepository struct {
	mu    sync.Mutex
	users map[int64]*entity.User
}

func newFakeUserRepository(users ...*entity.User) *fakeUserRepository {
	repo := &fakeUserRepository{users: make(map[int64]*entity.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, outbound.ErrUserNotFound
}

func (r *fakeUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, outbound.ErrUserNotFound
}

func (r *fakeUserRepository) UpdateRefreshHash(ctx context.Context, id int64, hash *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return outbound.ErrUserNotFound
	}
	u.RefreshTokenHash = hash
	return nil
}

func newTestAuthUseCase(t *testing.T, repo *fakeUserRepository) (inbound.AuthUseCase, *jwt.JWTService) {
	t.Helper()

	tokenService, err := jwt.NewJWTService("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	bcryptService := password.NewBcryptService(bcrypt.MinCost)
	log := logger.New(logger.Config{Level: "error", Format: "text", ServiceName: "test"})

	uc := NewAuthUseCase(repo, tokenService, bcryptService, bcryptService, nil, log, 5, time.Minute, time.Minute)
	return uc, tokenService
}

func testUser(t *testing.T, id int64, email, plainPassword string, role entity.Role) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.MinCost)
	require.NoError(t, err)
	return entity.NewUser(id, "Test User", email, string(hash), role)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	user := testUser(t, 1, "a@x.com", "Secret1", entity.RolePatient)
	repo := newFakeUserRepository(user)
	uc, tokenService := newTestAuthUseCase(t, repo)

	t.Run("Success", func(t *testing.T) {
		pair, err := uc.Login(ctx, inbound.LoginRequest{Email: "a@x.com", Password: "Secret1"})
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)

		claims, err := tokenService.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, int64(1), claims.UserID)
		assert.Equal(t, "a@x.com", claims.Email)
		assert.Equal(t, entity.RolePatient, claims.Role)

		stored, err := repo.FindByID(ctx, 1)
		require.NoError(t, err)
		assert.True(t, stored.HasActiveRefreshSession())
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, err := uc.Login(ctx, inbound.LoginRequest{Email: "a@x.com", Password: "nope"})
		assert.ErrorIs(t, err, apperror.ErrAuthenticationFailed)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		_, err := uc.Login(ctx, inbound.LoginRequest{Email: "ghost@x.com", Password: "Secret1"})
		assert.ErrorIs(t, err, apperror.ErrAuthenticationFailed)
	})
}

func TestRefreshRotation(t *testing.T) {
	ctx := context.Background()
	user := testUser(t, 7, "doc@x.com", "Secret1", entity.RoleDoctor)
	repo := newFakeUserRepository(user)
	uc, _ := newTestAuthUseCase(t, repo)

	first, err := uc.Login(ctx, inbound.LoginRequest{Email: "doc@x.com", Password: "Secret1"})
	require.NoError(t, err)

	second, err := uc.Refresh(ctx, 7, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The original token matched a hash that no longer exists.
	_, err = uc.Refresh(ctx, 7, first.RefreshToken)
	assert.ErrorIs(t, err, apperror.ErrAuthenticationFailed)

	// The rotated token is the surviving session.
	third, err := uc.Refresh(ctx, 7, second.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, third.AccessToken)
}

func TestRefreshRejectsForeignSubject(t *testing.T) {
	ctx := context.Background()
	alice := testUser(t, 1, "alice@x.com", "Secret1", entity.RolePatient)
	bob := testUser(t, 2, "bob@x.com", "Secret1", entity.RolePatient)
	repo := newFakeUserRepository(alice, bob)
	uc, _ := newTestAuthUseCase(t, repo)

	pair, err := uc.Login(ctx, inbound.LoginRequest{Email: "alice@x.com", Password: "Secret1"})
	require.NoError(t, err)

	_, err = uc.Refresh(ctx, 2, pair.RefreshToken)
	assert.ErrorIs(t, err, apperror.ErrAuthenticationFailed)
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	user := testUser(t, 3, "rx@x.com", "Secret1", entity.RolePharmacist)
	repo := newFakeUserRepository(user)
	uc, tokenService := newTestAuthUseCase(t, repo)

	pair, err := uc.Login(ctx, inbound.LoginRequest{Email: "rx@x.com", Password: "Secret1"})
	require.NoError(t, err)

	require.NoError(t, uc.Revoke(ctx, 3))

	// The refresh path is closed...
	_, err = uc.Refresh(ctx, 3, pair.RefreshToken)
	assert.ErrorIs(t, err, apperror.ErrAuthenticationFailed)

	// ...but the issued access token stays structurally valid until expiry.
	claims, err := tokenService.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(3), claims.UserID)

	t.Run("UnknownIdentity", func(t *testing.T) {
		err := uc.Revoke(ctx, 9999)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}
