package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yuwenzhijiao/showcase/internal/domain/stat"
	"github.com/yuwenzhijiao/showcase/internal/observability"
)

type StatsStore interface {
	Get(ctx context.Context, key string) (int64, error)
	Increment(ctx context.Context, key string) (int64, error)
}

type StatsHandler struct {
	repo StatsStore
	prom *observability.Prom
	prod bool
}

// prom may be nil
func NewStatsHandler(repo StatsStore, prom *observability.Prom, prod bool) *StatsHandler {
	return &StatsHandler{repo: repo, prom: prom, prod: prod}
}

func (h *StatsHandler) GetVisitorCount(ctx *gin.Context) {
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	n, err := h.repo.Get(cctx, stat.VisitorCount)

	if err != nil {
		RespondErr(ctx, http.StatusInternalServerError, "internal_error", "Could not read visitor count", err, h.prod)
		return
	}

	h.respond(ctx, n)
}

func (h *StatsHandler) IncrementVisitorCount(ctx *gin.Context) {
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	n, err := h.repo.Increment(cctx, stat.VisitorCount)

	if err != nil {
		RespondErr(ctx, http.StatusInternalServerError, "internal_error", "Could not update visitor count", err, h.prod)
		return
	}

	h.respond(ctx, n)
}

func (h *StatsHandler) respond(ctx *gin.Context, n int64) {
	if h.prom != nil {
		h.prom.VisitorCount.Set(float64(n))
	}

	ctx.JSON(http.StatusOK, stat.VisitorCountResponse{VisitorCount: n})
}
