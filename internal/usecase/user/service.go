package user

import (
	"context"
	"errors"
	"fmt"
	"project-pilot/internal/config"
	domainUser "project-pilot/internal/domain/user"
	"project-pilot/internal/infrastructure/mail"
	"project-pilot/internal/logger"
	appErrors "project-pilot/pkg/errors"
	"project-pilot/pkg/utils"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultUserRole = "member"

// Service implements registration, email verification and password management.
// Session handling lives in session.go on the same type.
type Service struct {
	userRepo domainUser.Repository
	codec    *utils.TokenCodec
	signer   *utils.TokenSigner
	mailer   mail.Sender
	composer *mail.Composer
	config   *config.Config
}

// NewService creates a new user service
func NewService(
	userRepo domainUser.Repository,
	codec *utils.TokenCodec,
	signer *utils.TokenSigner,
	mailer mail.Sender,
	composer *mail.Composer,
	cfg *config.Config,
) *Service {
	return &Service{
		userRepo: userRepo,
		codec:    codec,
		signer:   signer,
		mailer:   mailer,
		composer: composer,
		config:   cfg,
	}
}

// Register creates an unverified account and mails the verification link.
// The user row exists before the mail goes out; a delivery failure is logged
// and does not undo the registration.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*UserResponse, error) {
	req.Email = utils.SanitizeEmail(req.Email)
	req.Username = utils.SanitizeUsername(req.Username)
	req.FullName = utils.SanitizeString(req.FullName)

	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", utils.ValidationMessage(err), err)
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		return nil, appErrors.NewAppError("WEAK_PASSWORD", err.Error(), nil)
	}

	exists, err := s.userRepo.ExistsByEmailOrUsername(ctx, req.Email, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		logger.Warn("Registration attempt with existing email or username",
			zap.String("email", req.Email),
			zap.String("username", req.Username),
			zap.String("event", "registration_failed_duplicate"),
		)
		return nil, appErrors.ErrUserAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	verification, err := s.codec.Issue(s.config.Token.VerificationTTL)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = defaultUserRole
	}

	user := &domainUser.User{
		Username:                req.Username,
		Email:                   req.Email,
		FullName:                req.FullName,
		Role:                    role,
		PasswordHashed:          hashedPassword,
		AvatarURL:               domainUser.DefaultAvatarURL,
		EmailVerificationToken:  &verification.Hash,
		EmailVerificationExpiry: &verification.ExpiresAt,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, mapUserError(err)
	}

	logger.Info("User registered successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("username", user.Username),
		zap.String("event", "user_registered"),
	)

	if err := s.sendVerificationEmail(ctx, user, verification.Plain); err != nil {
		logger.Error("Failed to send verification email",
			zap.String("user_id", user.ID.String()),
			zap.String("event", "verification_email_failed"),
			zap.Error(err),
		)
	}

	return ToUserResponse(user), nil
}

// VerifyPassword reports whether candidate matches the user's stored hash.
func (s *Service) VerifyPassword(user *domainUser.User, candidate string) bool {
	return utils.CheckPassword(user.PasswordHashed, candidate)
}

// VerifyEmail consumes a verification token. Every failure yields the same
// invalid-or-expired error.
func (s *Service) VerifyEmail(ctx context.Context, plainToken string) error {
	if plainToken == "" {
		return appErrors.ErrInvalidToken
	}

	tokenHash := s.codec.Hash(plainToken)
	user, err := s.userRepo.GetByEmailVerificationToken(ctx, tokenHash, s.codec.Now())
	if err != nil {
		if errors.Is(err, domainUser.ErrTokenInvalid) {
			logger.Warn("Email verification attempt with invalid token",
				zap.String("event", "email_verification_failed"),
			)
			return appErrors.ErrInvalidToken
		}
		return err
	}

	if user.EmailVerificationToken == nil ||
		!s.codec.Verify(plainToken, *user.EmailVerificationToken, user.EmailVerificationExpiry) {
		return appErrors.ErrInvalidToken
	}

	if err := s.userRepo.MarkEmailVerified(ctx, user.ID, tokenHash); err != nil {
		return mapUserError(err)
	}

	logger.Info("Email verified successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("event", "email_verified"),
	)

	return nil
}

// ResendVerificationEmail replaces any outstanding verification token with a
// fresh one and mails it.
func (s *Service) ResendVerificationEmail(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return mapUserError(err)
	}
	if user.IsEmailVerified {
		return appErrors.ErrEmailAlreadyVerified
	}

	verification, err := s.codec.Issue(s.config.Token.VerificationTTL)
	if err != nil {
		return err
	}
	if err := s.userRepo.SetEmailVerificationToken(ctx, user.ID, verification.Hash, verification.ExpiresAt); err != nil {
		return mapUserError(err)
	}

	if err := s.sendVerificationEmail(ctx, user, verification.Plain); err != nil {
		logger.Error("Failed to resend verification email",
			zap.String("user_id", user.ID.String()),
			zap.String("event", "verification_email_failed"),
			zap.Error(err),
		)
		return nil
	}

	logger.Info("Verification email resent",
		zap.String("user_id", user.ID.String()),
		zap.String("event", "verification_email_resent"),
	)

	return nil
}

// RequestPasswordReset issues a reset token for the account behind email,
// overwriting any earlier one.
func (s *Service) RequestPasswordReset(ctx context.Context, req *ForgotPasswordRequest) error {
	req.Email = utils.SanitizeEmail(req.Email)
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewAppError("VALIDATION_ERROR", utils.ValidationMessage(err), err)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Info("Password reset requested for non-existent email",
				zap.String("email", req.Email),
				zap.String("event", "password_reset_unknown_email"),
			)
		}
		return mapUserError(err)
	}

	reset, err := s.codec.Issue(s.config.Token.ResetTTL)
	if err != nil {
		return err
	}
	if err := s.userRepo.SetForgotPasswordToken(ctx, user.ID, reset.Hash, reset.ExpiresAt); err != nil {
		return mapUserError(err)
	}

	logger.Info("Password reset token generated",
		zap.String("user_id", user.ID.String()),
		zap.Time("expires_at", reset.ExpiresAt),
		zap.String("event", "password_reset_token_generated"),
	)

	if err := s.sendResetEmail(ctx, user, reset.Plain); err != nil {
		logger.Error("Failed to send password reset email",
			zap.String("user_id", user.ID.String()),
			zap.String("event", "password_reset_email_failed"),
			zap.Error(err),
		)
	}

	return nil
}

// ResetPassword sets a new password using a reset token and ends the user's
// current session.
func (s *Service) ResetPassword(ctx context.Context, plainToken string, req *ResetPasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewAppError("VALIDATION_ERROR", utils.ValidationMessage(err), err)
	}
	if err := utils.ValidatePassword(req.NewPassword); err != nil {
		return appErrors.NewAppError("WEAK_PASSWORD", err.Error(), nil)
	}
	if plainToken == "" {
		return appErrors.ErrInvalidToken
	}

	tokenHash := s.codec.Hash(plainToken)
	user, err := s.userRepo.GetByForgotPasswordToken(ctx, tokenHash, s.codec.Now())
	if err != nil {
		if errors.Is(err, domainUser.ErrTokenInvalid) {
			logger.Warn("Password reset attempt with invalid token",
				zap.String("event", "password_reset_failed_invalid_token"),
			)
		}
		return mapUserError(err)
	}

	if user.ForgotPasswordToken == nil ||
		!s.codec.Verify(plainToken, *user.ForgotPasswordToken, user.ForgotPasswordExpiry) {
		return appErrors.ErrInvalidToken
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.ResetPassword(ctx, user.ID, tokenHash, hashedPassword); err != nil {
		return mapUserError(err)
	}

	logger.Info("Password reset successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("event", "password_reset_success"),
	)

	return nil
}

func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewAppError("VALIDATION_ERROR", utils.ValidationMessage(err), err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return mapUserError(err)
	}

	if !s.VerifyPassword(user, req.OldPassword) {
		logger.Warn("Password change attempt with invalid old password",
			zap.String("user_id", user.ID.String()),
			zap.String("event", "password_change_failed_invalid_old_password"),
		)
		return appErrors.ErrInvalidCredentials
	}
	if s.VerifyPassword(user, req.NewPassword) {
		return appErrors.ErrPasswordReused
	}
	if err := utils.ValidatePassword(req.NewPassword); err != nil {
		return appErrors.NewAppError("WEAK_PASSWORD", err.Error(), nil)
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return mapUserError(err)
	}

	logger.Info("Password changed successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("event", "password_change_success"),
	)

	return nil
}

func (s *Service) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, mapUserError(err)
	}

	return ToUserResponse(user), nil
}

func (s *Service) sendVerificationEmail(ctx context.Context, user *domainUser.User, plainToken string) error {
	content, err := s.composer.EmailVerification(user.Username, s.link("verify-email", plainToken))
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, user.Email, "Please verify your email", content)
}

func (s *Service) sendResetEmail(ctx context.Context, user *domainUser.User, plainToken string) error {
	content, err := s.composer.ForgotPassword(user.Username, s.link("reset-password", plainToken))
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, user.Email, "Password reset request", content)
}

func (s *Service) link(path, plainToken string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.config.Server.FrontendURL, "/"), path, plainToken)
}

// mapUserError converts repository sentinels into their API errors.
func mapUserError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domainUser.ErrUserNotFound):
		return appErrors.ErrUserNotFound
	case errors.Is(err, domainUser.ErrUserAlreadyExists):
		return appErrors.ErrUserAlreadyExists
	case errors.Is(err, domainUser.ErrTokenInvalid):
		return appErrors.ErrInvalidToken
	default:
		return err
	}
}
