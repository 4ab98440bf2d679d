package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yuwenzhijiao/showcase/internal/domain/user"
)

type UsersRepo struct {
	mu    sync.RWMutex
	users []user.User
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{}
}

func (r *UsersRepo) Create(_ context.Context, email, passwordHash, role string) (user.User, error) {
	u := user.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	r.mu.Lock()
	r.users = append(r.users, u)
	r.mu.Unlock()

	return u, nil
}

func (r *UsersRepo) ListByEmail(_ context.Context, email string) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []user.User
	for _, u := range r.users {
		if u.Email == email {
			out = append(out, u)
		}
	}
	return out, nil
}
