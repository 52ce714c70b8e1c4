package user

import (
	"time"

	"github.com/google/uuid"
)

const DefaultAvatarURL = "https://placehold.co/600x400/"

// User is the identity and credential record. Token fields only ever hold
// digests; plaintext tokens are never stored.
type User struct {
	ID                      uuid.UUID
	Username                string
	Email                   string
	FullName                string
	Role                    string
	PasswordHashed          string
	AvatarURL               string
	AvatarLocalPath         string
	IsEmailVerified         bool
	EmailVerificationToken  *string
	EmailVerificationExpiry *time.Time
	ForgotPasswordToken     *string
	ForgotPasswordExpiry    *time.Time
	RefreshToken            *string
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// HasSession reports whether a refresh token is currently stored.
func (u *User) HasSession() bool {
	return u.RefreshToken != nil && *u.RefreshToken != ""
}
