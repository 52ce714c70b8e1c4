package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for user repository operations
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByIDs(ctx context.Context, userIDs []uuid.UUID) ([]*User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error

	SetEmailVerificationToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetByEmailVerificationToken(ctx context.Context, tokenHash string, now time.Time) (*User, error)
	MarkEmailVerified(ctx context.Context, userID uuid.UUID, tokenHash string) error

	SetForgotPasswordToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetByForgotPasswordToken(ctx context.Context, tokenHash string, now time.Time) (*User, error)
	ResetPassword(ctx context.Context, userID uuid.UUID, tokenHash, passwordHash string) error

	SetRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string) error
	ClearRefreshToken(ctx context.Context, userID uuid.UUID) error

	ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}
