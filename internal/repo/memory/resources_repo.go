package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/yuwenzhijiao/showcase/internal/domain/resource"
)

// ResourcesRepo keeps resources in process memory. It backs STORE=memory and tests.
type ResourcesRepo struct {
	mu    sync.RWMutex
	items map[string]resource.Resource
}

func NewResourcesRepo(seed ...resource.Resource) *ResourcesRepo {
	r := &ResourcesRepo{
		items: make(map[string]resource.Resource, len(seed)),
	}
	for _, res := range seed {
		r.items[res.ID] = clone(res)
	}
	return r
}

func (r *ResourcesRepo) Create(_ context.Context, res resource.Resource) (resource.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[res.ID]; exists {
		return resource.Resource{}, resource.ErrConflict
	}

	r.items[res.ID] = clone(res)
	return clone(res), nil
}

func (r *ResourcesRepo) List(_ context.Context, filter resource.ListFilter) ([]resource.Resource, error) {
	r.mu.RLock()
	out := make([]resource.Resource, 0, len(r.items))
	for _, res := range r.items {
		if filter.Type != nil && res.Type != *filter.Type {
			continue
		}
		if filter.After != nil && !before(res, *filter.After) {
			continue
		}
		out = append(out, clone(res))
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID > out[j].ID
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *ResourcesRepo) Update(_ context.Context, req resource.UpdateRequest) (resource.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[req.ID]
	if !ok {
		return resource.Resource{}, resource.ErrNotFound
	}

	updated := resource.ApplyUpdate(existing, req)
	r.items[req.ID] = clone(updated)
	return updated, nil
}

func (r *ResourcesRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return resource.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// before reports whether res sorts after the cursor in (created_at, id) DESC order.
func before(res resource.Resource, c resource.Cursor) bool {
	if res.CreatedAt != c.CreatedAt {
		return res.CreatedAt < c.CreatedAt
	}
	return res.ID < c.ID
}

func clone(res resource.Resource) resource.Resource {
	tags := make([]string, len(res.Tags))
	copy(tags, res.Tags)
	res.Tags = tags
	return res
}
