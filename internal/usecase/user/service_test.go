package user

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"project-pilot/internal/config"
	"project-pilot/internal/infrastructure/mail"
	"project-pilot/internal/infrastructure/mail/mocks"
	appErrors "project-pilot/pkg/errors"
	"project-pilot/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var linkPattern = regexp.MustCompile(`(?:verify-email|reset-password)/([0-9a-f]{64})`)

type testEnv struct {
	svc    *Service
	repo   *memoryRepository
	mailer *mocks.MockSender
	now    time.Time
}

func (e *testEnv) advance(d time.Duration) {
	e.now = e.now.Add(d)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	ctrl := gomock.NewController(t)
	env := &testEnv{
		repo:   newMemoryRepository(),
		mailer: mocks.NewMockSender(ctrl),
		now:    time.Now(),
	}

	cfg := &config.Config{
		Server: config.ServerConfig{FrontendURL: "http://localhost:3000/"},
		Token: config.TokenConfig{
			VerificationTTL: 24 * time.Hour,
			ResetTTL:        20 * time.Minute,
		},
	}

	env.svc = NewService(
		env.repo,
		utils.NewTokenCodecWithClock(func() time.Time { return env.now }),
		utils.NewTokenSigner("access-secret", "refresh-secret", 15*time.Minute, 240*time.Hour),
		env.mailer,
		mail.NewComposer("ProjectPilot", "https://projectpilot.com"),
		cfg,
	)
	return env
}

// expectMail records the plaintext token carried by the next email to "to".
func (e *testEnv) expectMail(to string, token *string) *gomock.Call {
	return e.mailer.EXPECT().
		Send(gomock.Any(), to, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, content mail.Content) error {
			match := linkPattern.FindStringSubmatch(content.HTML)
			if match != nil {
				*token = match[1]
			}
			return nil
		})
}

func (e *testEnv) register(t *testing.T, email, username, password string) (*UserResponse, string) {
	t.Helper()

	var token string
	e.expectMail(email, &token)

	resp, err := e.svc.Register(context.Background(), &RegisterRequest{
		Email:    email,
		Username: username,
		Password: password,
		FullName: "Test User",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	return resp, token
}

func (e *testEnv) registerVerified(t *testing.T, email, username, password string) *UserResponse {
	t.Helper()

	resp, token := e.register(t, email, username, password)
	require.NoError(t, e.svc.VerifyEmail(context.Background(), token))
	return resp
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	resp, token := env.register(t, "Alice@Example.com", "Alice", "secret1")

	assert.Equal(t, "alice@example.com", resp.Email)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "member", resp.Role)
	assert.False(t, resp.IsEmailVerified)

	stored := env.repo.stored(resp.ID)
	require.NotNil(t, stored.EmailVerificationToken)
	assert.NotEqual(t, token, *stored.EmailVerificationToken, "plaintext token must not be stored")
	assert.Equal(t, utils.NewTokenCodec().Hash(token), *stored.EmailVerificationToken)
	assert.WithinDuration(t, env.now.Add(24*time.Hour), *stored.EmailVerificationExpiry, time.Second)
	assert.NotEqual(t, "secret1", stored.PasswordHashed)
}

func TestRegister_Duplicate(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice@example.com", "alice", "secret1")

	_, err := env.svc.Register(context.Background(), &RegisterRequest{
		Email:    "ALICE@example.com",
		Username: "someoneelse",
		Password: "secret1",
	})
	assert.ErrorIs(t, err, appErrors.ErrUserAlreadyExists)

	_, err = env.svc.Register(context.Background(), &RegisterRequest{
		Email:    "other@example.com",
		Username: "alice",
		Password: "secret1",
	})
	assert.ErrorIs(t, err, appErrors.ErrUserAlreadyExists)
}

func TestRegister_InvalidInput(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"bad email", RegisterRequest{Email: "not-an-email", Username: "alice", Password: "secret1"}},
		{"short username", RegisterRequest{Email: "a@example.com", Username: "al", Password: "secret1"}},
		{"weak password", RegisterRequest{Email: "a@example.com", Username: "alice", Password: "abc"}},
		{"unknown role", RegisterRequest{Email: "a@example.com", Username: "alice", Password: "secret1", Role: "owner"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := env.svc.Register(context.Background(), &req)
			assert.Equal(t, appErrors.KindBadRequest, appErrors.KindOf(err))
		})
	}
}

func TestRegister_MailFailureKeepsUser(t *testing.T) {
	env := newTestEnv(t)
	env.mailer.EXPECT().Send(gomock.Any(), "bob@example.com", gomock.Any(), gomock.Any()).
		Return(errors.New("smtp down"))

	resp, err := env.svc.Register(context.Background(), &RegisterRequest{
		Email:    "bob@example.com",
		Username: "bob",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.NotNil(t, env.repo.stored(resp.ID))
}

func TestVerifyEmail_SingleUse(t *testing.T) {
	env := newTestEnv(t)
	resp, token := env.register(t, "alice@example.com", "alice", "secret1")

	require.NoError(t, env.svc.VerifyEmail(context.Background(), token))

	stored := env.repo.stored(resp.ID)
	assert.True(t, stored.IsEmailVerified)
	assert.Nil(t, stored.EmailVerificationToken)
	assert.Nil(t, stored.EmailVerificationExpiry)

	err := env.svc.VerifyEmail(context.Background(), token)
	assert.ErrorIs(t, err, appErrors.ErrInvalidToken)
}

func TestVerifyEmail_Expired(t *testing.T) {
	env := newTestEnv(t)
	resp, token := env.register(t, "alice@example.com", "alice", "secret1")

	env.advance(24*time.Hour + time.Second)

	err := env.svc.VerifyEmail(context.Background(), token)
	assert.ErrorIs(t, err, appErrors.ErrInvalidToken)
	assert.False(t, env.repo.stored(resp.ID).IsEmailVerified)
}

func TestVerifyEmail_UnknownToken(t *testing.T) {
	env := newTestEnv(t)

	assert.ErrorIs(t, env.svc.VerifyEmail(context.Background(), "deadbeef"), appErrors.ErrInvalidToken)
	assert.ErrorIs(t, env.svc.VerifyEmail(context.Background(), ""), appErrors.ErrInvalidToken)
}

func TestResendVerificationEmail(t *testing.T) {
	env := newTestEnv(t)
	resp, oldToken := env.register(t, "alice@example.com", "alice", "secret1")

	var newToken string
	env.expectMail("alice@example.com", &newToken)
	require.NoError(t, env.svc.ResendVerificationEmail(context.Background(), resp.ID))
	require.NotEqual(t, oldToken, newToken)

	assert.ErrorIs(t, env.svc.VerifyEmail(context.Background(), oldToken), appErrors.ErrInvalidToken)
	require.NoError(t, env.svc.VerifyEmail(context.Background(), newToken))

	err := env.svc.ResendVerificationEmail(context.Background(), resp.ID)
	assert.ErrorIs(t, err, appErrors.ErrEmailAlreadyVerified)
}

func TestMailFailureDoesNotFailTokenRequests(t *testing.T) {
	env := newTestEnv(t)
	resp, oldToken := env.register(t, "alice@example.com", "alice", "secret1")

	env.mailer.EXPECT().Send(gomock.Any(), "alice@example.com", gomock.Any(), gomock.Any()).
		Return(errors.New("smtp down")).Times(2)

	require.NoError(t, env.svc.ResendVerificationEmail(context.Background(), resp.ID))
	assert.ErrorIs(t, env.svc.VerifyEmail(context.Background(), oldToken), appErrors.ErrInvalidToken)

	require.NoError(t, env.svc.RequestPasswordReset(context.Background(), &ForgotPasswordRequest{Email: "alice@example.com"}))
	assert.NotNil(t, env.repo.stored(resp.ID).ForgotPasswordToken)
}

func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	err := env.svc.RequestPasswordReset(context.Background(), &ForgotPasswordRequest{Email: "ghost@example.com"})
	assert.ErrorIs(t, err, appErrors.ErrUserNotFound)
}

func TestResetPassword(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerVerified(t, "alice@example.com", "alice", "secret1")

	login, err := env.svc.Login(context.Background(), &LoginRequest{Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	var token string
	env.expectMail("alice@example.com", &token)
	require.NoError(t, env.svc.RequestPasswordReset(context.Background(), &ForgotPasswordRequest{Email: "alice@example.com"}))

	require.NoError(t, env.svc.ResetPassword(context.Background(), token, &ResetPasswordRequest{NewPassword: "newsecret2"}))

	stored := env.repo.stored(user.ID)
	assert.Nil(t, stored.ForgotPasswordToken)
	assert.Nil(t, stored.RefreshToken, "reset ends the current session")

	_, err = env.svc.RefreshAccessToken(context.Background(), &RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, appErrors.ErrInvalidToken)

	_, err = env.svc.Login(context.Background(), &LoginRequest{Email: "alice@example.com", Password: "newsecret2"})
	assert.NoError(t, err)

	err = env.svc.ResetPassword(context.Background(), token, &ResetPasswordRequest{NewPassword: "another3"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidToken)
}

func TestResetPassword_Expired(t *testing.T) {
	env := newTestEnv(t)
	env.registerVerified(t, "alice@example.com", "alice", "secret1")

	var token string
	env.expectMail("alice@example.com", &token)
	require.NoError(t, env.svc.RequestPasswordReset(context.Background(), &ForgotPasswordRequest{Email: "alice@example.com"}))

	env.advance(21 * time.Minute)

	err := env.svc.ResetPassword(context.Background(), token, &ResetPasswordRequest{NewPassword: "newsecret2"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidToken)
}

func TestResetPassword_LatestTokenWins(t *testing.T) {
	env := newTestEnv(t)
	env.registerVerified(t, "alice@example.com", "alice", "secret1")

	var first, second string
	env.expectMail("alice@example.com", &first)
	require.NoError(t, env.svc.RequestPasswordReset(context.Background(), &ForgotPasswordRequest{Email: "alice@example.com"}))
	env.expectMail("alice@example.com", &second)
	require.NoError(t, env.svc.RequestPasswordReset(context.Background(), &ForgotPasswordRequest{Email: "alice@example.com"}))

	err := env.svc.ResetPassword(context.Background(), first, &ResetPasswordRequest{NewPassword: "newsecret2"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidToken)
	assert.NoError(t, env.svc.ResetPassword(context.Background(), second, &ResetPasswordRequest{NewPassword: "newsecret2"}))
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerVerified(t, "alice@example.com", "alice", "secret1")
	ctx := context.Background()

	err := env.svc.ChangePassword(ctx, user.ID, &ChangePasswordRequest{OldPassword: "wrong1", NewPassword: "newsecret2"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	before := env.repo.stored(user.ID).PasswordHashed
	err = env.svc.ChangePassword(ctx, user.ID, &ChangePasswordRequest{OldPassword: "secret1", NewPassword: "secret1"})
	assert.ErrorIs(t, err, appErrors.ErrPasswordReused)
	assert.Equal(t, before, env.repo.stored(user.ID).PasswordHashed)

	require.NoError(t, env.svc.ChangePassword(ctx, user.ID, &ChangePasswordRequest{OldPassword: "secret1", NewPassword: "newsecret2"}))
	assert.True(t, env.svc.VerifyPassword(env.repo.stored(user.ID), "newsecret2"))
}

func TestGetCurrentUser(t *testing.T) {
	env := newTestEnv(t)
	user := env.registerVerified(t, "alice@example.com", "alice", "secret1")

	resp, err := env.svc.GetCurrentUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)
	assert.True(t, resp.IsEmailVerified)

	_, err = env.svc.GetCurrentUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, appErrors.ErrUserNotFound)
}

func TestCleanupExpiredTokens(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := env.register(t, "alice@example.com", "alice", "secret1")

	env.svc.cleanupExpiredTokens(context.Background())
	assert.NotNil(t, env.repo.stored(resp.ID).EmailVerificationToken)

	env.advance(25 * time.Hour)
	env.svc.cleanupExpiredTokens(context.Background())
	assert.Nil(t, env.repo.stored(resp.ID).EmailVerificationToken)
}
