package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yuwenzhijiao/showcase/internal/llm"
	"github.com/yuwenzhijiao/showcase/internal/observability"
)

const upstreamGemini = "gemini"

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type ChatHandler struct {
	gen  llm.Generator
	prom *observability.Prom
	prod bool
}

// prom may be nil
func NewChatHandler(gen llm.Generator, prom *observability.Prom, prod bool) *ChatHandler {
	return &ChatHandler{gen: gen, prom: prom, prod: prod}
}

func (h *ChatHandler) Chat(ctx *gin.Context) {
	var req ChatRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if req.Message == "" {
		RespondBadRequest(ctx, "Invalid input", gin.H{"field": "message", "rule": "required"})
		return
	}

	if llm.MessageLength(req.Message) > llm.MaxMessageLength {
		RespondBadRequest(ctx, "Message too long (max 1000 chars)", gin.H{"field": "message", "rule": "max", "param": llm.MaxMessageLength})
		return
	}

	start := time.Now()
	reply, err := h.gen.Generate(ctx.Request.Context(), req.Message)
	h.observe(err, time.Since(start))

	if err != nil {
		h.respondGenerateError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, ChatResponse{Reply: reply})
}

func (h *ChatHandler) respondGenerateError(ctx *gin.Context, err error) {
	var upstream *llm.UpstreamError

	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		RespondError(ctx, http.StatusInternalServerError, "missing_api_key", "Missing API Key", nil)
	case errors.Is(err, llm.ErrCircuitOpen):
		RespondError(ctx, http.StatusServiceUnavailable, "upstream_unavailable", "Chat is temporarily unavailable", nil)
	case errors.As(err, &upstream):
		status := upstream.Status
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		_ = ctx.Error(err)
		RespondError(ctx, status, "upstream_error", upstream.Error(), upstream.Body)
	default:
		RespondErr(ctx, http.StatusInternalServerError, "internal_error", "Internal Server Error", err, h.prod)
	}
}

func (h *ChatHandler) observe(err error, d time.Duration) {
	if h.prom == nil {
		return
	}

	result := "ok"
	switch {
	case errors.Is(err, llm.ErrCircuitOpen), errors.Is(err, llm.ErrMissingAPIKey):
		result = "rejected"
	case err != nil:
		result = "error"
	}

	h.prom.ObserveUpstream(upstreamGemini, result, d)
}
