package postgres

import (
	"context"
	"errors"
	"fmt"
	domainUser "project-pilot/internal/domain/user"
	"project-pilot/internal/infrastructure/database/postgres/models"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository implements domainUser.Repository
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) domainUser.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domainUser.User) error {
	now := time.Now()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = now
	u.UpdatedAt = now

	dbModel := toUserModel(u)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if isUniqueViolation(err) {
			return domainUser.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	u.ID = dbModel.ID
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*domainUser.User, error) {
	return r.first(ctx, "id = ?", userID)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domainUser.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) GetByIDs(ctx context.Context, userIDs []uuid.UUID) ([]*domainUser.User, error) {
	if len(userIDs) == 0 {
		return []*domainUser.User{}, nil
	}

	var dbModels []models.UserModel
	if err := r.db.DB.WithContext(ctx).Where("id IN ?", userIDs).Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	users := make([]*domainUser.User, len(dbModels))
	for i := range dbModels {
		users[i] = toUserEntity(&dbModels[i])
	}
	return users, nil
}

func (r *UserRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("email = ? OR username = ?", email, username).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check existing user: %w", err)
	}
	return count > 0, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	return r.updates(ctx, r.db.DB.Where("id = ?", userID), map[string]interface{}{
		"password_hashed": passwordHash,
	}, domainUser.ErrUserNotFound)
}

func (r *UserRepository) SetEmailVerificationToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	return r.updates(ctx, r.db.DB.Where("id = ?", userID), map[string]interface{}{
		"email_verification_token":  tokenHash,
		"email_verification_expiry": expiresAt,
	}, domainUser.ErrUserNotFound)
}

func (r *UserRepository) GetByEmailVerificationToken(ctx context.Context, tokenHash string, now time.Time) (*domainUser.User, error) {
	u, err := r.first(ctx, "email_verification_token = ? AND email_verification_expiry > ?", tokenHash, now)
	if errors.Is(err, domainUser.ErrUserNotFound) {
		return nil, domainUser.ErrTokenInvalid
	}
	return u, err
}

// MarkEmailVerified flips the verified flag and consumes the token in one
// conditional update, so a token can only be used once.
func (r *UserRepository) MarkEmailVerified(ctx context.Context, userID uuid.UUID, tokenHash string) error {
	scope := r.db.DB.Where("id = ? AND email_verification_token = ?", userID, tokenHash)
	return r.updates(ctx, scope, map[string]interface{}{
		"is_email_verified":         true,
		"email_verification_token":  nil,
		"email_verification_expiry": nil,
	}, domainUser.ErrTokenInvalid)
}

func (r *UserRepository) SetForgotPasswordToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	return r.updates(ctx, r.db.DB.Where("id = ?", userID), map[string]interface{}{
		"forgot_password_token":  tokenHash,
		"forgot_password_expiry": expiresAt,
	}, domainUser.ErrUserNotFound)
}

func (r *UserRepository) GetByForgotPasswordToken(ctx context.Context, tokenHash string, now time.Time) (*domainUser.User, error) {
	u, err := r.first(ctx, "forgot_password_token = ? AND forgot_password_expiry > ?", tokenHash, now)
	if errors.Is(err, domainUser.ErrUserNotFound) {
		return nil, domainUser.ErrTokenInvalid
	}
	return u, err
}

// ResetPassword stores the new hash, consumes the reset token and ends the
// current session.
func (r *UserRepository) ResetPassword(ctx context.Context, userID uuid.UUID, tokenHash, passwordHash string) error {
	scope := r.db.DB.Where("id = ? AND forgot_password_token = ?", userID, tokenHash)
	return r.updates(ctx, scope, map[string]interface{}{
		"password_hashed":        passwordHash,
		"forgot_password_token":  nil,
		"forgot_password_expiry": nil,
		"refresh_token":          nil,
	}, domainUser.ErrTokenInvalid)
}

func (r *UserRepository) SetRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string) error {
	return r.updates(ctx, r.db.DB.Where("id = ?", userID), map[string]interface{}{
		"refresh_token": tokenHash,
	}, domainUser.ErrUserNotFound)
}

// ClearRefreshToken is idempotent: clearing an already empty token succeeds.
func (r *UserRepository) ClearRefreshToken(ctx context.Context, userID uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"refresh_token": nil,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to clear refresh token: %w", result.Error)
	}
	return nil
}

// ClearExpiredTokens drops verification and reset digests whose expiry has passed.
func (r *UserRepository) ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	var cleared int64

	err := r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		verification := tx.Model(&models.UserModel{}).
			Where("email_verification_expiry IS NOT NULL AND email_verification_expiry <= ?", now).
			Updates(map[string]interface{}{
				"email_verification_token":  nil,
				"email_verification_expiry": nil,
			})
		if verification.Error != nil {
			return verification.Error
		}

		reset := tx.Model(&models.UserModel{}).
			Where("forgot_password_expiry IS NOT NULL AND forgot_password_expiry <= ?", now).
			Updates(map[string]interface{}{
				"forgot_password_token":  nil,
				"forgot_password_expiry": nil,
			})
		if reset.Error != nil {
			return reset.Error
		}

		cleared = verification.RowsAffected + reset.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to clear expired tokens: %w", err)
	}

	return cleared, nil
}

func (r *UserRepository) first(ctx context.Context, query string, args ...interface{}) (*domainUser.User, error) {
	var dbModel models.UserModel
	err := r.db.DB.WithContext(ctx).Where(query, args...).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainUser.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserEntity(&dbModel), nil
}

// updates applies values to the rows matched by scope and returns notFound
// when nothing matched.
func (r *UserRepository) updates(ctx context.Context, scope *gorm.DB, values map[string]interface{}, notFound error) error {
	values["updated_at"] = time.Now()

	result := scope.WithContext(ctx).Model(&models.UserModel{}).Updates(values)
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound
	}
	return nil
}

// Helper functions to convert between domain entities and database models

func toUserModel(u *domainUser.User) *models.UserModel {
	return &models.UserModel{
		ID:                      u.ID,
		Username:                u.Username,
		Email:                   u.Email,
		FullName:                u.FullName,
		Role:                    u.Role,
		PasswordHashed:          u.PasswordHashed,
		AvatarURL:               u.AvatarURL,
		AvatarLocalPath:         u.AvatarLocalPath,
		IsEmailVerified:         u.IsEmailVerified,
		EmailVerificationToken:  u.EmailVerificationToken,
		EmailVerificationExpiry: u.EmailVerificationExpiry,
		ForgotPasswordToken:     u.ForgotPasswordToken,
		ForgotPasswordExpiry:    u.ForgotPasswordExpiry,
		RefreshToken:            u.RefreshToken,
		CreatedAt:               u.CreatedAt,
		UpdatedAt:               u.UpdatedAt,
	}
}

func toUserEntity(m *models.UserModel) *domainUser.User {
	return &domainUser.User{
		ID:                      m.ID,
		Username:                m.Username,
		Email:                   m.Email,
		FullName:                m.FullName,
		Role:                    m.Role,
		PasswordHashed:          m.PasswordHashed,
		AvatarURL:               m.AvatarURL,
		AvatarLocalPath:         m.AvatarLocalPath,
		IsEmailVerified:         m.IsEmailVerified,
		EmailVerificationToken:  m.EmailVerificationToken,
		EmailVerificationExpiry: m.EmailVerificationExpiry,
		ForgotPasswordToken:     m.ForgotPasswordToken,
		ForgotPasswordExpiry:    m.ForgotPasswordExpiry,
		RefreshToken:            m.RefreshToken,
		CreatedAt:               m.CreatedAt,
		UpdatedAt:               m.UpdatedAt,
	}
}
