package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yuwenzhijiao/showcase/internal/observability"
)

type StatsRepo struct {
	observer
	pool *pgxpool.Pool
}

func NewStatsRepo(pool *pgxpool.Pool, prom *observability.Prom) *StatsRepo {
	return &StatsRepo{observer: observer{prom: prom}, pool: pool}
}

// Get returns the counter value, creating the row at zero when it is absent.
func (r *StatsRepo) Get(ctx context.Context, key string) (int64, error) {
	var value int64

	err := r.observe("stats.get", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO stats (key, value) VALUES ($1, 0)
			ON CONFLICT (key) DO UPDATE SET key = EXCLUDED.key
			RETURNING value`,
			key,
		).Scan(&value)
	})

	return value, err
}

// Increment adds one in a single statement and returns the new value.
func (r *StatsRepo) Increment(ctx context.Context, key string) (int64, error) {
	var value int64

	err := r.observe("stats.increment", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO stats (key, value) VALUES ($1, 1)
			ON CONFLICT (key) DO UPDATE SET value = stats.value + 1
			RETURNING value`,
			key,
		).Scan(&value)
	})

	return value, err
}
