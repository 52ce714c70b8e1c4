package models

import (
	"time"

	"github.com/google/uuid"
)

// UserModel represents the database model for User. Email and username are
// stored lower-cased, so the unique indexes are case-insensitive.
type UserModel struct {
	ID                      uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Username                string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_users_username"`
	Email                   string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email"`
	FullName                string     `gorm:"type:varchar(255)"`
	Role                    string     `gorm:"type:varchar(50);not null;default:'member'"`
	PasswordHashed          string     `gorm:"type:varchar(255);not null"`
	AvatarURL               string     `gorm:"type:text"`
	AvatarLocalPath         string     `gorm:"type:text"`
	IsEmailVerified         bool       `gorm:"default:false;not null"`
	EmailVerificationToken  *string    `gorm:"type:varchar(128);index"`
	EmailVerificationExpiry *time.Time `gorm:"type:timestamptz"`
	ForgotPasswordToken     *string    `gorm:"type:varchar(128);index"`
	ForgotPasswordExpiry    *time.Time `gorm:"type:timestamptz"`
	RefreshToken            *string    `gorm:"type:varchar(128)"`
	CreatedAt               time.Time  `gorm:"not null"`
	UpdatedAt               time.Time  `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}
