package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medilink/medilink/application/port/inbound"
	"github.com/medilink/medilink/application/port/outbound"
	"github.com/medilink/medilink/domain/apperror"
	"github.com/medilink/medilink/domain/entity"
	"github.com/medilink/medilink/infrastructure/service/logger"
)

// AuthUseCase implements token issuance, rotation and revocation against the
// credential store. Only one refresh session exists per identity: every
// issue overwrites the stored hash, so a login on a second device silently
// ends the first device's refresh session. That is the specified product
// behavior, kept deliberately narrow here.
type AuthUseCase struct {
	userRepository    outbound.UserRepository
	tokenService      outbound.TokenService
	passwordService   outbound.PasswordService
	tokenHasher       outbound.TokenHasher
	rateLimitService  outbound.RateLimitService
	logger            logger.Logger
	rateLimitAttempts int
	rateLimitWindow   time.Duration
	rateLimitBlock    time.Duration
}

func NewAuthUseCase(
	userRepo outbound.UserRepository,
	tokenService outbound.TokenService,
	passwordService outbound.PasswordService,
	tokenHasher outbound.TokenHasher,
	rateLimitService outbound.RateLimitService,
	log logger.Logger,
	rateLimitAttempts int,
	rateLimitWindow time.Duration,
	rateLimitBlock time.Duration,
) inbound.AuthUseCase {
	return &AuthUseCase{
		userRepository:    userRepo,
		tokenService:      tokenService,
		passwordService:   passwordService,
		tokenHasher:       tokenHasher,
		rateLimitService:  rateLimitService,
		logger:            log,
		rateLimitAttempts: rateLimitAttempts,
		rateLimitWindow:   rateLimitWindow,
		rateLimitBlock:    rateLimitBlock,
	}
}

// Issue signs a fresh access+refresh pair and stores the digest of the new
// refresh token, unconditionally overwriting any prior one. This is the
// rotation point: whichever Issue lands last owns the surviving session.
func (uc *AuthUseCase) Issue(ctx context.Context, user *entity.User) (*inbound.TokenPair, error) {
	claims := outbound.TokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}

	accessToken, err := uc.tokenService.GenerateAccessToken(claims)
	if err != nil {
		uc.logger.Error(ctx, "Failed to generate access token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := uc.tokenService.GenerateRefreshToken(claims)
	if err != nil {
		uc.logger.Error(ctx, "Failed to generate refresh token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	digest, err := uc.tokenHasher.Hash(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to hash refresh token: %w", err)
	}

	if err := uc.userRepository.UpdateRefreshHash(ctx, user.ID, &digest); err != nil {
		uc.logger.Error(ctx, "Failed to store refresh hash", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, fmt.Errorf("failed to store refresh hash: %w", err)
	}

	return &inbound.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    uc.tokenService.AccessTokenTTL(),
	}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, req inbound.LoginRequest) (*inbound.TokenPair, error) {
	ip := clientIP(ctx)

	if uc.rateLimitService != nil {
		key := fmt.Sprintf("login:ip:%s", ip)

		blocked, err := uc.rateLimitService.IsBlocked(ctx, key)
		if err != nil {
			uc.logger.Error(ctx, "Failed to check IP block status", err, map[string]interface{}{"ip": ip})
		}
		if blocked {
			logger.LogSecurityEvent(ctx, uc.logger, "blocked_ip_login_attempt", "MEDIUM", map[string]interface{}{
				"ip": ip, "email": req.Email,
			})
			return nil, apperror.RateLimited("too many failed attempts, try again later")
		}

		allowed, err := uc.rateLimitService.CheckLimit(ctx, key, uc.rateLimitAttempts, uc.rateLimitWindow)
		if err != nil {
			uc.logger.Error(ctx, "Failed to check rate limit", err, map[string]interface{}{"ip": ip})
		}
		if !allowed {
			uc.rateLimitService.Block(ctx, key, uc.rateLimitBlock, "login rate limit exceeded")
			logger.LogSecurityEvent(ctx, uc.logger, "ip_rate_limit_exceeded", "HIGH", map[string]interface{}{
				"ip": ip, "email": req.Email,
			})
			return nil, apperror.RateLimited("too many login attempts, try again later")
		}
	}

	user, err := uc.userRepository.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			uc.noteFailedLogin(ctx, ip)
			logger.LogAuthEvent(ctx, uc.logger, "login_failed_user_not_found", 0, false, map[string]interface{}{
				"email": req.Email,
			})
			return nil, apperror.Authentication(apperror.CodeInvalidCredentials, "invalid credentials", err)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	valid, err := uc.passwordService.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		uc.logger.Error(ctx, "Password verification error", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, fmt.Errorf("password verification failed: %w", err)
	}
	if !valid {
		uc.noteFailedLogin(ctx, ip)
		logger.LogAuthEvent(ctx, uc.logger, "login_failed_invalid_password", user.ID, false, nil)
		return nil, apperror.Authentication(apperror.CodeInvalidCredentials, "invalid credentials", nil)
	}

	pair, err := uc.Issue(ctx, user)
	if err != nil {
		return nil, err
	}

	logger.LogAuthEvent(ctx, uc.logger, "login_success", user.ID, true, nil)
	return pair, nil
}

// Refresh rotates the session for userID. The presented token must carry a
// valid signature and expiry AND match the currently stored digest; a nil
// stored hash means the session was revoked. On success the stored digest is
// overwritten, so the presented token can never be redeemed twice.
func (uc *AuthUseCase) Refresh(ctx context.Context, userID int64, refreshToken string) (*inbound.TokenPair, error) {
	claims, err := uc.tokenService.ValidateRefreshToken(refreshToken)
	if err != nil {
		logger.LogAuthEvent(ctx, uc.logger, "refresh_failed_invalid_token", userID, false, nil)
		return nil, apperror.Authentication(apperror.CodeInvalidToken, "invalid refresh token", err)
	}
	if claims.UserID != userID {
		logger.LogSecurityEvent(ctx, uc.logger, "refresh_subject_mismatch", "HIGH", map[string]interface{}{
			"requested_id": userID,
			"token_sub":    claims.UserID,
		})
		return nil, apperror.Authentication(apperror.CodeInvalidToken, "invalid refresh token", nil)
	}

	user, err := uc.userRepository.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			return nil, apperror.Authentication(apperror.CodeInvalidToken, "invalid refresh token", err)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.HasActiveRefreshSession() {
		logger.LogAuthEvent(ctx, uc.logger, "refresh_failed_no_session", userID, false, nil)
		return nil, apperror.Authentication(apperror.CodeStaleRefreshToken, "refresh session revoked", nil)
	}

	match, err := uc.tokenHasher.Verify(refreshToken, *user.RefreshTokenHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify refresh token: %w", err)
	}
	if !match {
		logger.LogAuthEvent(ctx, uc.logger, "refresh_failed_stale_token", userID, false, nil)
		return nil, apperror.Authentication(apperror.CodeStaleRefreshToken, "refresh token no longer valid", nil)
	}

	pair, err := uc.Issue(ctx, user)
	if err != nil {
		return nil, err
	}

	logger.LogAuthEvent(ctx, uc.logger, "refresh_success", userID, true, nil)
	return pair, nil
}

// Revoke clears the stored refresh hash. Outstanding access tokens keep
// validating until their own expiry; only the refresh path closes.
func (uc *AuthUseCase) Revoke(ctx context.Context, userID int64) error {
	if _, err := uc.userRepository.FindByID(ctx, userID); err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			return apperror.NotFound(fmt.Sprintf("user %d not found", userID))
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := uc.userRepository.UpdateRefreshHash(ctx, userID, nil); err != nil {
		return fmt.Errorf("failed to clear refresh hash: %w", err)
	}

	logger.LogAuthEvent(ctx, uc.logger, "revoke_success", userID, true, nil)
	return nil
}

func (uc *AuthUseCase) noteFailedLogin(ctx context.Context, ip string) {
	if uc.rateLimitService == nil {
		return
	}
	uc.rateLimitService.Increment(ctx, fmt.Sprintf("login:ip:%s", ip), uc.rateLimitWindow)
}

type contextKey string

// ClientIPKey carries the caller's IP through the context for rate limiting.
const ClientIPKey contextKey = "client_ip"

func clientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(ClientIPKey).(string); ok {
		return ip
	}
	return "unknown"
}
