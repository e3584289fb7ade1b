package identity

import (
	"context"

	"github.com/vetcare/backend/internal/domain/identity"
	"github.com/vetcare/backend/internal/domain/shared"
	"github.com/vetcare/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthService handles authentication for staff accounts
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo identity.UserRepository, jwtService *auth.JWTService, blacklist auth.TokenBlacklist, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// Login authenticates a user and returns a token pair
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, input.HospitalID, input.Username)
	if err != nil {
		s.logger.Warn("user not found during login", zap.String("username", input.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "아이디 또는 비밀번호가 올바르지 않습니다")
	}

	if !user.Active {
		s.logger.Warn("login attempt for deactivated account", zap.String("username", input.Username))
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "비활성화된 계정입니다")
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("invalid password attempt", zap.String("username", input.Username))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "아이디 또는 비밀번호가 올바르지 않습니다")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		HospitalID: user.HospitalID,
		UserID:     user.ID,
		Username:   user.Username,
		Role:       user.Role.String(),
	})
	if err != nil {
		s.logger.Error("failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "인증 토큰을 발급하지 못했습니다")
	}

	user.RecordLogin()
	if err := s.userRepo.Save(ctx, user); err != nil {
		// Login still succeeds; the timestamp is best effort.
		s.logger.Error("failed to record login time", zap.Error(err))
	}

	s.logger.Info("user logged in",
		zap.String("username", user.Username),
		zap.String("user_id", user.ID.String()))

	return &LoginResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
		User:                  ToUserResponse(user),
	}, nil
}

// RefreshToken issues a fresh token pair from a valid refresh token
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}

	if blacklisted, err := s.blacklist.IsBlacklisted(ctx, claims.ID); err == nil && blacklisted {
		return nil, shared.NewDomainError("TOKEN_REVOKED", "이미 로그아웃된 토큰입니다")
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "올바르지 않은 토큰입니다")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "사용자를 찾을 수 없습니다")
	}
	if !user.Active {
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "비활성화된 계정입니다")
	}

	if invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, user.ID.String(), claims.IssuedAt.Time); err == nil && invalidated {
		return nil, shared.NewDomainError("TOKEN_REVOKED", "세션이 종료되었습니다. 다시 로그인해 주세요")
	}

	tokenPair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, user.Username, user.Role.String())
	if err != nil {
		return nil, mapTokenError(err)
	}

	return &RefreshTokenResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
	}, nil
}

// Logout revokes the current token, or every session of the user
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.AllSessions {
		ttl := s.jwtService.GetRefreshTokenExpiration()
		if err := s.blacklist.AddUserTokensToBlacklist(ctx, input.UserID.String(), ttl); err != nil {
			s.logger.Error("failed to revoke user sessions", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "로그아웃 처리에 실패했습니다")
		}
		s.logger.Info("all user sessions revoked", zap.String("user_id", input.UserID.String()))
		return nil
	}

	if input.TokenID == "" {
		return nil
	}
	if err := s.blacklist.AddToBlacklist(ctx, input.TokenID, input.TokenTTL); err != nil {
		s.logger.Error("failed to blacklist token", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "로그아웃 처리에 실패했습니다")
	}

	s.logger.Info("user logged out", zap.String("user_id", input.UserID.String()))
	return nil
}

// ChangePassword changes the user's own password and revokes other sessions
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "사용자를 찾을 수 없습니다")
	}

	if !user.VerifyPassword(input.OldPassword) {
		return shared.NewDomainError("INVALID_CREDENTIALS", "현재 비밀번호가 올바르지 않습니다")
	}

	if err := user.ChangePassword(input.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("failed to update password", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "비밀번호 변경에 실패했습니다")
	}

	ttl := s.jwtService.GetRefreshTokenExpiration()
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, user.ID.String(), ttl); err != nil {
		s.logger.Warn("failed to revoke sessions after password change", zap.Error(err))
	}

	s.logger.Info("password changed", zap.String("user_id", user.ID.String()))
	return nil
}

func mapTokenError(err error) error {
	switch err {
	case auth.ErrExpiredToken:
		return shared.NewDomainError("TOKEN_EXPIRED", "토큰이 만료되었습니다")
	case auth.ErrInvalidToken, auth.ErrInvalidClaims, auth.ErrInvalidTokenType:
		return shared.NewDomainError("TOKEN_INVALID", "올바르지 않은 토큰입니다")
	case auth.ErrMaxRefreshExceeded:
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "토큰 갱신 한도를 초과했습니다. 다시 로그인해 주세요")
	default:
		return shared.NewDomainError("TOKEN_ERROR", "토큰 검증에 실패했습니다")
	}
}
