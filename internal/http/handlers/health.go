package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	ping         func() error
	shuttingDown func() bool
}

// create a new instance of the health handler; either func may be nil
func NewHealthHandler(ping func() error, shuttingDown func() bool) *HealthHandler {
	return &HealthHandler{ping: ping, shuttingDown: shuttingDown}
}

func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) Readyz(ctx *gin.Context) {
	if h.shuttingDown != nil && h.shuttingDown() {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting_down"})
		return
	}

	if h.ping != nil {
		if err := h.ping(); err != nil {
			_ = ctx.Error(err)
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
			return
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ready"})
}
