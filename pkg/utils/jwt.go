package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrTokenInvalid = errors.New("token is invalid")

// Claims carried by both access and refresh tokens.
type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Role      string    `json:"role"` // informational; never used for authorization
	TokenType string    `json:"token_type"`
	jwt.RegisteredClaims
}

// Subject identifies the user a token is issued for.
type Subject struct {
	UserID   uuid.UUID
	Email    string
	Username string
	Role     string
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// TokenSigner signs and validates HS256 access and refresh tokens. Access and
// refresh tokens use separate secrets so one can never stand in for the other.
type TokenSigner struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenSigner(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenSigner {
	return &TokenSigner{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

func (s *TokenSigner) GenerateAccessToken(sub Subject) (string, time.Time, error) {
	return s.sign(sub, TokenTypeAccess, s.accessSecret, s.accessTTL)
}

func (s *TokenSigner) GenerateRefreshToken(sub Subject) (string, time.Time, error) {
	return s.sign(sub, TokenTypeRefresh, s.refreshSecret, s.refreshTTL)
}

func (s *TokenSigner) GenerateTokenPair(sub Subject) (*TokenPair, error) {
	access, expiresAt, err := s.GenerateAccessToken(sub)
	if err != nil {
		return nil, err
	}

	refresh, _, err := s.GenerateRefreshToken(sub)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt.Unix(),
	}, nil
}

func (s *TokenSigner) ValidateAccessToken(token string) (*Claims, error) {
	return s.validate(token, TokenTypeAccess, s.accessSecret)
}

func (s *TokenSigner) ValidateRefreshToken(token string) (*Claims, error) {
	return s.validate(token, TokenTypeRefresh, s.refreshSecret)
}

func (s *TokenSigner) sign(sub Subject, tokenType string, secret []byte, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(ttl)

	claims := Claims{
		UserID:    sub.UserID,
		Email:     sub.Email,
		Username:  sub.Username,
		Role:      sub.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   sub.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}

	return signed, expiresAt, nil
}

func (s *TokenSigner) validate(token, tokenType string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.TokenType != tokenType || claims.UserID == uuid.Nil {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
