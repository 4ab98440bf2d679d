package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yuwenzhijiao/showcase/internal/domain/user"
	"github.com/yuwenzhijiao/showcase/internal/observability"
)

type UsersRepo struct {
	observer
	pool *pgxpool.Pool
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{observer: observer{prom: prom}, pool: pool}
}

func (r *UsersRepo) Create(ctx context.Context, email, passwordHash, role string) (user.User, error) {
	u := user.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	err := r.observe("users.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO users (id, email, password_hash, role, created_at) VALUES ($1,$2,$3,$4,$5)`,
			u.ID, u.Email, u.PasswordHash, u.Role, u.CreatedAt,
		)
		return err
	})

	if err != nil {
		return user.User{}, err
	}
	return u, nil
}

// ListByEmail returns every row with the email, oldest first. Emails are not
// unique, so login has to try each candidate.
func (r *UsersRepo) ListByEmail(ctx context.Context, email string) ([]user.User, error) {
	var out []user.User

	err := r.observe("users.list_by_email", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT id, email, password_hash, role, created_at
			FROM users
			WHERE email = $1
			ORDER BY created_at ASC, id ASC`,
			email,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var u user.User
			if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
				return err
			}
			out = append(out, u)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return out, nil
}
