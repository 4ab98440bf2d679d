package memory

import (
	"context"
	"sync"
)

type StatsRepo struct {
	mu     sync.Mutex
	values map[string]int64
}

func NewStatsRepo() *StatsRepo {
	return &StatsRepo{values: make(map[string]int64)}
}

func (r *StatsRepo) Get(_ context.Context, key string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.values[key]
	if !ok {
		r.values[key] = 0
	}
	return v, nil
}

func (r *StatsRepo) Increment(_ context.Context, key string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.values[key]++
	return r.values[key], nil
}
