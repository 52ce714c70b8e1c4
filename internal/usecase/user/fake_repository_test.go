package user

import (
	"context"
	"sync"
	"time"

	domainUser "project-pilot/internal/domain/user"

	"github.com/google/uuid"
)

// memoryRepository is an in-memory domainUser.Repository for service tests.
type memoryRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domainUser.User
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{users: make(map[uuid.UUID]*domainUser.User)}
}

func (r *memoryRepository) snapshot(u *domainUser.User) *domainUser.User {
	cp := *u
	return &cp
}

func (r *memoryRepository) Create(_ context.Context, u *domainUser.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return domainUser.ErrUserAlreadyExists
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.users[u.ID] = r.snapshot(u)
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id uuid.UUID) (*domainUser.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domainUser.ErrUserNotFound
	}
	return r.snapshot(u), nil
}

func (r *memoryRepository) GetByEmail(_ context.Context, email string) (*domainUser.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return r.snapshot(u), nil
		}
	}
	return nil, domainUser.ErrUserNotFound
}

func (r *memoryRepository) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*domainUser.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []*domainUser.User{}
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			result = append(result, r.snapshot(u))
		}
	}
	return result, nil
}

func (r *memoryRepository) ExistsByEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email || u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepository) update(id uuid.UUID, fn func(u *domainUser.User) bool, notFound error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || !fn(u) {
		return notFound
	}
	u.UpdatedAt = time.Now()
	return nil
}

func (r *memoryRepository) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	return r.update(id, func(u *domainUser.User) bool {
		u.PasswordHashed = hash
		return true
	}, domainUser.ErrUserNotFound)
}

func (r *memoryRepository) SetEmailVerificationToken(_ context.Context, id uuid.UUID, hash string, expiresAt time.Time) error {
	return r.update(id, func(u *domainUser.User) bool {
		u.EmailVerificationToken = &hash
		u.EmailVerificationExpiry = &expiresAt
		return true
	}, domainUser.ErrUserNotFound)
}

func (r *memoryRepository) GetByEmailVerificationToken(_ context.Context, hash string, now time.Time) (*domainUser.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.EmailVerificationToken != nil && *u.EmailVerificationToken == hash &&
			u.EmailVerificationExpiry != nil && u.EmailVerificationExpiry.After(now) {
			return r.snapshot(u), nil
		}
	}
	return nil, domainUser.ErrTokenInvalid
}

func (r *memoryRepository) MarkEmailVerified(_ context.Context, id uuid.UUID, hash string) error {
	return r.update(id, func(u *domainUser.User) bool {
		if u.EmailVerificationToken == nil || *u.EmailVerificationToken != hash {
			return false
		}
		u.IsEmailVerified = true
		u.EmailVerificationToken = nil
		u.EmailVerificationExpiry = nil
		return true
	}, domainUser.ErrTokenInvalid)
}

func (r *memoryRepository) SetForgotPasswordToken(_ context.Context, id uuid.UUID, hash string, expiresAt time.Time) error {
	return r.update(id, func(u *domainUser.User) bool {
		u.ForgotPasswordToken = &hash
		u.ForgotPasswordExpiry = &expiresAt
		return true
	}, domainUser.ErrUserNotFound)
}

func (r *memoryRepository) GetByForgotPasswordToken(_ context.Context, hash string, now time.Time) (*domainUser.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ForgotPasswordToken != nil && *u.ForgotPasswordToken == hash &&
			u.ForgotPasswordExpiry != nil && u.ForgotPasswordExpiry.After(now) {
			return r.snapshot(u), nil
		}
	}
	return nil, domainUser.ErrTokenInvalid
}

func (r *memoryRepository) ResetPassword(_ context.Context, id uuid.UUID, tokenHash, passwordHash string) error {
	return r.update(id, func(u *domainUser.User) bool {
		if u.ForgotPasswordToken == nil || *u.ForgotPasswordToken != tokenHash {
			return false
		}
		u.PasswordHashed = passwordHash
		u.ForgotPasswordToken = nil
		u.ForgotPasswordExpiry = nil
		u.RefreshToken = nil
		return true
	}, domainUser.ErrTokenInvalid)
}

func (r *memoryRepository) SetRefreshToken(_ context.Context, id uuid.UUID, hash string) error {
	return r.update(id, func(u *domainUser.User) bool {
		u.RefreshToken = &hash
		return true
	}, domainUser.ErrUserNotFound)
}

func (r *memoryRepository) ClearRefreshToken(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.RefreshToken = nil
	}
	return nil
}

func (r *memoryRepository) ClearExpiredTokens(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var cleared int64
	for _, u := range r.users {
		if u.EmailVerificationExpiry != nil && !u.EmailVerificationExpiry.After(now) {
			u.EmailVerificationToken = nil
			u.EmailVerificationExpiry = nil
			cleared++
		}
		if u.ForgotPasswordExpiry != nil && !u.ForgotPasswordExpiry.After(now) {
			u.ForgotPasswordToken = nil
			u.ForgotPasswordExpiry = nil
			cleared++
		}
	}
	return cleared, nil
}

// stored returns the live record, bypassing the copy made by the getters.
func (r *memoryRepository) stored(id uuid.UUID) *domainUser.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id]
}
