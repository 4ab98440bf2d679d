package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yuwenzhijiao/showcase/internal/cache"
	"github.com/yuwenzhijiao/showcase/internal/domain/resource"
	"github.com/yuwenzhijiao/showcase/internal/utils"
)

const (
	MaxListLimit     = 100
	NextCursorHeader = "X-Next-Cursor"
)

type ResourceStore interface {
	Create(ctx context.Context, res resource.Resource) (resource.Resource, error)
	List(ctx context.Context, filter resource.ListFilter) ([]resource.Resource, error)
	Update(ctx context.Context, req resource.UpdateRequest) (resource.Resource, error)
	Delete(ctx context.Context, id string) error
}

// cached list page
type resourcePage struct {
	Items      []resource.Resource
	NextCursor string
	ETag       string
}

type ResourcesHandler struct {
	repo  ResourceStore
	cache *cache.Cache[resourcePage]
	prod  bool
	now   func() time.Time
}

func NewResourcesHandler(repo ResourceStore, cacheTTL time.Duration, prod bool) *ResourcesHandler {
	return &ResourcesHandler{
		repo:  repo,
		cache: cache.New[resourcePage](cacheTTL),
		prod:  prod,
		now:   time.Now,
	}
}

func (h *ResourcesHandler) ListResources(ctx *gin.Context) {
	filter, ok := parseListFilter(ctx)
	if !ok {
		return
	}

	key := utils.BuildResourceListCacheKey(filter)

	page, hit := h.cache.Get(key)

	if !hit {
		gen := h.cache.Generation()

		cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
		defer cancel()

		items, err := h.repo.List(cctx, filter)

		if err != nil {
			RespondErr(ctx, http.StatusInternalServerError, "internal_error", "Could not list resources", err, h.prod)
			return
		}

		page = resourcePage{Items: normalizeItems(items)}

		if filter.Limit > 0 && len(items) == filter.Limit {
			last := items[len(items)-1]

			next, err := utils.EncodeResourceCursor(last.CreatedAt, last.ID)
			if err != nil {
				RespondErr(ctx, http.StatusInternalServerError, "internal_error", "Could not build cursor", err, h.prod)
				return
			}
			page.NextCursor = next
		}

		if etag, err := pageETag(page); err == nil {
			page.ETag = etag
		}

		h.cache.SetIfGeneration(key, page, gen)
	}

	respondResourcePage(ctx, page)
}

func (h *ResourcesHandler) CreateResource(ctx *gin.Context) {
	var req resource.CreateRequest

	// an empty body creates a resource made only of defaults
	if !BindOptionalJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	created, err := h.repo.Create(cctx, resource.NewFromCreateRequest(req, h.now()))

	if err != nil {
		if errors.Is(err, resource.ErrConflict) {
			RespondConflict(ctx, "conflict", "A resource with this id already exists")
			return
		}
		RespondErr(ctx, http.StatusInternalServerError, "internal_error", "Could not create resource", err, h.prod)
		return
	}

	h.cache.Clear()

	ctx.JSON(http.StatusOK, gin.H{
		"success":  true,
		"resource": created,
	})
}

func (h *ResourcesHandler) UpdateResource(ctx *gin.Context) {
	var req resource.UpdateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	updated, err := h.repo.Update(cctx, req)

	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			RespondNotFound(ctx, "Resource not found")
			return
		}
		RespondErr(ctx, http.StatusInternalServerError, "internal_error", "Could not update resource", err, h.prod)
		return
	}

	h.cache.Clear()

	ctx.JSON(http.StatusOK, gin.H{
		"success":  true,
		"resource": updated,
	})
}

func (h *ResourcesHandler) DeleteResource(ctx *gin.Context) {
	id := ctx.Query("id")

	if id == "" {
		RespondBadRequest(ctx, "Missing ID", nil)
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			RespondNotFound(ctx, "Resource not found")
			return
		}
		RespondErr(ctx, http.StatusInternalServerError, "internal_error", "Could not delete resource", err, h.prod)
		return
	}

	h.cache.Clear()

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

func parseListFilter(ctx *gin.Context) (resource.ListFilter, bool) {
	var filter resource.ListFilter

	if raw := ctx.Query("type"); raw != "" {
		t := resource.Type(raw)

		if !t.IsValid() {
			RespondBadRequest(ctx, "Invalid type", gin.H{"allowed": []resource.Type{resource.TypeArticle, resource.TypeResource, resource.TypeTool}})
			return filter, false
		}
		filter.Type = &t
	}

	if raw := ctx.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)

		if err != nil || limit < 1 || limit > MaxListLimit {
			RespondBadRequest(ctx, "limit must be between 1 and 100", nil)
			return filter, false
		}
		filter.Limit = limit
	}

	if raw := ctx.Query("cursor"); raw != "" {
		c, err := utils.DecodeResourceCursor(raw)

		if err != nil {
			RespondBadRequest(ctx, "Invalid cursor", nil)
			return filter, false
		}
		filter.After = &c
	}

	return filter, true
}

// tags are always serialized as an array, never null
func normalizeItems(items []resource.Resource) []resource.Resource {
	if items == nil {
		return []resource.Resource{}
	}

	for i := range items {
		if items[i].Tags == nil {
			items[i].Tags = []string{}
		}
	}
	return items
}
