package user

import (
	"context"
	"errors"
	"fmt"
	domainUser "project-pilot/internal/domain/user"
	"project-pilot/internal/logger"
	appErrors "project-pilot/pkg/errors"
	"project-pilot/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Login checks credentials and opens a session. The refresh token's digest
// replaces whatever session the user had before.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	req.Email = utils.SanitizeEmail(req.Email)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", utils.ValidationMessage(err), err)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Warn("Login attempt with non-existent email",
				zap.String("email", req.Email),
				zap.String("event", "user_not_found"),
			)
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.VerifyPassword(user, req.Password) {
		logger.Warn("Login attempt with invalid password",
			zap.String("user_id", user.ID.String()),
			zap.String("event", "login_failed_invalid_password"),
		)
		return nil, appErrors.ErrInvalidCredentials
	}

	if !user.IsEmailVerified {
		logger.Warn("Login attempt with unverified email",
			zap.String("user_id", user.ID.String()),
			zap.String("event", "login_failed_unverified_email"),
		)
		return nil, appErrors.ErrEmailNotVerified
	}

	tokenPair, err := s.signer.GenerateTokenPair(subjectOf(user))
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err := s.userRepo.SetRefreshToken(ctx, user.ID, s.codec.Hash(tokenPair.RefreshToken)); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	logger.Info("User logged in successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("event", "login_success"),
	)

	return &AuthResponse{
		User:         ToUserResponse(user),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    tokenPair.ExpiresAt,
	}, nil
}

// RefreshAccessToken exchanges the session's current refresh token for a new
// access token. The refresh token itself is not rotated.
func (s *Service) RefreshAccessToken(ctx context.Context, req *RefreshTokenRequest) (*AccessTokenResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.ErrUnauthorized
	}

	claims, err := s.signer.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		logger.Warn("Token refresh attempt with invalid token",
			zap.String("event", "token_refresh_failed_invalid_token"),
			zap.Error(err),
		)
		return nil, appErrors.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, appErrors.ErrInvalidToken
		}
		return nil, err
	}

	if !user.HasSession() || !s.codec.Matches(req.RefreshToken, *user.RefreshToken) {
		logger.Warn("Token refresh attempt with a token that is not the current session",
			zap.String("user_id", user.ID.String()),
			zap.String("event", "token_refresh_failed_stale_token"),
		)
		return nil, appErrors.ErrInvalidToken
	}

	accessToken, expiresAt, err := s.signer.GenerateAccessToken(subjectOf(user))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	logger.Debug("Access token refreshed",
		zap.String("user_id", user.ID.String()),
		zap.String("event", "token_refresh_success"),
	)

	return &AccessTokenResponse{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt.Unix(),
	}, nil
}

// Logout ends the user's session. Logging out twice is not an error.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.ClearRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}

	logger.Info("User logged out",
		zap.String("user_id", userID.String()),
		zap.String("event", "logout"),
	)

	return nil
}

func subjectOf(u *domainUser.User) utils.Subject {
	return utils.Subject{
		UserID:   u.ID,
		Email:    u.Email,
		Username: u.Username,
		Role:     u.Role,
	}
}
