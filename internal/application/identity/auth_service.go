package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/identity"
	"github.com/labqueue/backend/internal/domain/reporting"
	"github.com/labqueue/backend/internal/domain/shared"
	"github.com/labqueue/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthConfig tunes login throttling
type AuthConfig struct {
	MaxLoginAttempts int
	LockDuration     time.Duration
}

// DefaultAuthConfig returns the standard lockout policy
func DefaultAuthConfig() AuthConfig {
	return AuthConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo     identity.UserRepository
	roleRepo     identity.RoleRepository
	activityRepo reporting.ActivityLogRepository
	jwtService   *auth.JWTService
	blacklist    auth.TokenBlacklist
	config       AuthConfig
	logger       *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	activityRepo reporting.ActivityLogRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	config AuthConfig,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		activityRepo: activityRepo,
		jwtService:   jwtService,
		blacklist:    blacklist,
		config:       config,
		logger:       logger,
	}
}

// Login authenticates a user and returns a token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest, ip, userAgent string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		s.logger.Warn("login attempt for unknown user", zap.String("username", req.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	if !user.CanLogin() {
		if user.IsLocked() {
			s.logger.Warn("login attempt on locked account", zap.String("username", user.Username))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is temporarily locked, try again later")
		}
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	if !user.VerifyPassword(req.Password) {
		locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.userRepo.Save(ctx, user); err != nil {
			s.logger.Error("failed to persist login failure", zap.Error(err))
		}
		if locked {
			s.logger.Warn("account locked after repeated failures",
				zap.String("username", user.Username),
				zap.Int("attempts", user.FailedAttempts))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed attempts, account locked")
		}
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	role, err := s.roleRepo.FindByID(ctx, user.RoleID)
	if err != nil {
		s.logger.Error("role lookup failed during login", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user role")
	}

	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:      user.ID,
		Username:    user.Username,
		Role:        role.Name,
		StationID:   user.StationID,
		Permissions: role.Permissions,
	})
	if err != nil {
		s.logger.Error("token generation failed", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	user.RecordLoginSuccess()
	if err := s.userRepo.Save(ctx, user); err != nil {
		// don't fail the login over bookkeeping
		s.logger.Error("failed to persist login success", zap.Error(err))
	}

	s.recordActivity(ctx, reporting.ActionUserLogin, user, ip, userAgent)
	s.logger.Info("user logged in",
		zap.String("username", user.Username),
		zap.String("role", role.Name))

	return &LoginResponse{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		TokenType:             pair.TokenType,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		User:                  ToUserResponse(user, role.Name),
	}, nil
}

// Refresh rotates a refresh token into a new pair, re-reading the user's
// current role and permissions so revoked access never survives a refresh.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*TokenPairResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Refresh token is invalid or expired")
	}

	if err := s.checkBlacklist(ctx, claims); err != nil {
		return nil, err
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Refresh token is invalid")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Account no longer exists")
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Account is not active")
	}

	role, err := s.roleRepo.FindByID(ctx, user.RoleID)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load user role")
	}

	pair, err := s.jwtService.RefreshTokenPair(req.RefreshToken, user.Username, role.Name, user.StationID, role.Permissions)
	if err != nil {
		if errors.Is(err, auth.ErrMaxRefreshExceeded) {
			return nil, shared.NewDomainError("UNAUTHORIZED", "Session expired, please log in again")
		}
		return nil, shared.NewDomainError("UNAUTHORIZED", "Refresh token is invalid or expired")
	}

	// The old refresh token is single-use
	if s.blacklist != nil && claims.ID != "" {
		if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			s.logger.Warn("failed to revoke rotated refresh token", zap.Error(err))
		}
	}

	resp := toTokenPairResponse(pair)
	return &resp, nil
}

// Logout revokes the presented access token for its remaining lifetime
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims, ip, userAgent string) error {
	if s.blacklist != nil && claims.ID != "" {
		if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			s.logger.Error("token revocation failed", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to revoke session")
		}
	}

	if userID, err := claims.GetUserUUID(); err == nil {
		if user, err := s.userRepo.FindByID(ctx, userID); err == nil {
			s.recordActivity(ctx, reporting.ActionUserLogout, user, ip, userAgent)
		}
	}
	return nil
}

// ChangePassword verifies the current password, sets the new one and
// invalidates every outstanding token of the user.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := user.ChangePassword(req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	s.invalidateUserTokens(ctx, user.ID)
	s.logger.Info("password changed", zap.String("username", user.Username))
	return nil
}

// Me returns the authenticated user's profile
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	roleName := ""
	if role, err := s.roleRepo.FindByID(ctx, user.RoleID); err == nil {
		roleName = role.Name
	}

	resp := ToUserResponse(user, roleName)
	return &resp, nil
}

// VerifyToken checks an access token against signature, expiry and the
// revocation lists, and reports what it carries.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*VerifyTokenResponse, error) {
	claims, err := s.jwtService.ValidateAccessToken(token)
	if err != nil {
		return &VerifyTokenResponse{Valid: false}, nil
	}

	if err := s.checkBlacklist(ctx, claims); err != nil {
		return &VerifyTokenResponse{Valid: false}, nil
	}

	resp := &VerifyTokenResponse{
		Valid:       true,
		UserID:      claims.UserID,
		Username:    claims.Username,
		Role:        claims.Role,
		Permissions: claims.Permissions,
	}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time
	}
	return resp, nil
}

// checkBlacklist rejects revoked tokens and tokens issued before a
// user-wide invalidation (password change, forced logout).
func (s *AuthService) checkBlacklist(ctx context.Context, claims *auth.Claims) error {
	if s.blacklist == nil {
		return nil
	}

	if claims.ID != "" {
		revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("blacklist check failed", zap.Error(err))
		} else if revoked {
			return shared.NewDomainError("UNAUTHORIZED", "Token has been revoked")
		}
	}

	invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		s.logger.Warn("user invalidation check failed", zap.Error(err))
		return nil
	}
	if invalidated {
		return shared.NewDomainError("UNAUTHORIZED", "Session is no longer valid")
	}
	return nil
}

func (s *AuthService) invalidateUserTokens(ctx context.Context, userID uuid.UUID) {
	if s.blacklist == nil {
		return
	}
	ttl := s.jwtService.GetRefreshTokenExpiration()
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, userID.String(), ttl); err != nil {
		s.logger.Warn("failed to invalidate user tokens", zap.Error(err))
	}
}

func (s *AuthService) recordActivity(ctx context.Context, action string, user *identity.User, ip, userAgent string) {
	entry, err := reporting.NewActivityLog(action, &user.ID, nil, user.StationID, user.Username, ip, userAgent)
	if err != nil {
		return
	}
	if err := s.activityRepo.Save(ctx, entry); err != nil {
		s.logger.Warn("activity log write failed", zap.String("action", action), zap.Error(err))
	}
}
