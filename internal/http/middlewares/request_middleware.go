package middlewares

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yuwenzhijiao/showcase/internal/actorctx"
	"github.com/yuwenzhijiao/showcase/internal/observability"
)

const RequestIDHeader = "X-Request-Id"

func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(RequestIDHeader)

		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}

		ctx.Writer.Header().Set(RequestIDHeader, id)
		ctx.Set(CtxRequestID, id)
		ctx.Request = ctx.Request.WithContext(observability.WithRequestID(ctx.Request.Context(), id))

		ctx.Next()
	}
}

func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		route := ctx.FullPath()
		if route == "" {
			route = ctx.Request.URL.Path // fallback (e.g. 404)
		}

		method := ctx.Request.Method

		ctx.Next()

		status := ctx.Writer.Status()
		attrs := []any{
			"method", method,
			"route", route,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
		}

		if userID, ok := actorctx.UserIDFrom(ctx.Request.Context()); ok {
			attrs = append(attrs, "user_id", userID)
		}

		if len(ctx.Errors) > 0 {
			attrs = append(attrs, "errors", ctx.Errors.String())
		}

		switch {
		case status >= 500:
			log.ErrorContext(ctx.Request.Context(), "http_request", attrs...)
		case status >= 400:
			log.WarnContext(ctx.Request.Context(), "http_request", attrs...)
		default:
			log.InfoContext(ctx.Request.Context(), "http_request", attrs...)
		}
	}
}
