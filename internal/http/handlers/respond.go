package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yuwenzhijiao/showcase/internal/http/middlewares"
)

type APIError struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"requestId,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get(middlewares.CtxRequestID)

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader(middlewares.RequestIDHeader)
}

func RespondError(ctx *gin.Context, status int, code, message string, details interface{}) {
	ctx.JSON(status, gin.H{
		"error": APIError{
			Code:      code,
			Message:   message,
			RequestID: requestIDFrom(ctx),
			Details:   details,
		},
	})
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, "invalid_request", message, details)
}

func RespondUnAuthorized(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusUnauthorized, code, message, nil)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, "not_found", message, nil)
}

func RespondMethodNotAllowed(ctx *gin.Context) {
	RespondError(ctx, http.StatusMethodNotAllowed, "method_not_allowed", "Method Not Allowed", nil)
}

func RespondConflict(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusConflict, code, message, nil)
}

// RespondErr reports an unexpected failure. The raw error is only echoed
// outside prod, and it is always attached to the gin context for the request log.
func RespondErr(ctx *gin.Context, status int, code, message string, err error, prod bool) {
	var details interface{}

	if err != nil {
		_ = ctx.Error(err)
		if !prod {
			details = gin.H{"reason": err.Error()}
		}
	}

	RespondError(ctx, status, code, message, details)
}
