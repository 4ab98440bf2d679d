package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/yuwenzhijiao/showcase/internal/domain/resource"
	"github.com/yuwenzhijiao/showcase/internal/domain/user"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// small helper function which returns the gin engine to mount one handler per test

func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, h)

	return r
}

// Fake repository implementations of the handler interfaces

type fakeResourcesRepo struct {
	createFn func(ctx context.Context, res resource.Resource) (resource.Resource, error)
	listFn   func(ctx context.Context, filter resource.ListFilter) ([]resource.Resource, error)
	updateFn func(ctx context.Context, req resource.UpdateRequest) (resource.Resource, error)
	deleteFn func(ctx context.Context, id string) error

	mu        sync.Mutex
	listCalls int
}

func (f *fakeResourcesRepo) Create(ctx context.Context, res resource.Resource) (resource.Resource, error) {
	if f.createFn != nil {
		return f.createFn(ctx, res)
	}
	return res, nil
}

func (f *fakeResourcesRepo) List(ctx context.Context, filter resource.ListFilter) ([]resource.Resource, error) {
	f.mu.Lock()
	f.listCalls++
	f.mu.Unlock()

	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeResourcesRepo) Update(ctx context.Context, req resource.UpdateRequest) (resource.Resource, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, req)
	}
	return resource.Resource{ID: req.ID}, nil
}

func (f *fakeResourcesRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeResourcesRepo) ListCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

type fakeUsersRepo struct {
	listFn   func(ctx context.Context, email string) ([]user.User, error)
	createFn func(ctx context.Context, email, hash, role string) (user.User, error)
}

func (f *fakeUsersRepo) ListByEmail(ctx context.Context, email string) ([]user.User, error) {
	if f.listFn != nil {
		return f.listFn(ctx, email)
	}
	return nil, nil
}

func (f *fakeUsersRepo) Create(ctx context.Context, email, hash, role string) (user.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, email, hash, role)
	}
	return user.User{ID: "u-1", Email: email, PasswordHash: hash, Role: role}, nil
}

type fakeStatsRepo struct {
	mu     sync.Mutex
	values map[string]int64
	err    error
}

func (f *fakeStatsRepo) Get(_ context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	return f.values[key], nil
}

func (f *fakeStatsRepo) Increment(_ context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	if f.values == nil {
		f.values = map[string]int64{}
	}
	f.values[key]++
	return f.values[key], nil
}

type fakeGenerator struct {
	mu    sync.Mutex
	calls int
	reply string
	err   error
}

func (f *fakeGenerator) Generate(_ context.Context, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.reply, f.err
}

func (f *fakeGenerator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type errorEnvelope struct {
	Error struct {
		Code      string          `json:"code"`
		Message   string          `json:"message"`
		RequestID string          `json:"requestId"`
		Details   json.RawMessage `json:"details"`
	} `json:"error"`
}
