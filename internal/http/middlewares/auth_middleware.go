package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yuwenzhijiao/showcase/internal/actorctx"
	"github.com/yuwenzhijiao/showcase/internal/auth"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	jwt TokenVerifier
}

func NewAuthMiddleware(jwt TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c, "Missing or invalid Authorization header")
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if raw == "" {
			abortUnauthorized(c, "Missing or invalid access token")
			return
		}

		claims, err := m.jwt.VerifyAccessToken(raw)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired access token")
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// IdentifyIfPresent attaches the caller's identity when a valid bearer token
// is sent and lets anonymous or bad-token requests through untouched.
func (m *AuthMiddleware) IdentifyIfPresent() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if ok && strings.TrimSpace(raw) != "" {
			if claims, err := m.jwt.VerifyAccessToken(strings.TrimSpace(raw)); err == nil {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

// Stash useful bits of identity on the context
func setIdentity(c *gin.Context, claims *auth.Claims) {
	c.Set(CtxUserID, claims.UserID)
	c.Set(CtxEmail, claims.Email)
	c.Set(CtxRole, claims.Role)
	c.Request = c.Request.WithContext(actorctx.WithUserID(c.Request.Context(), claims.UserID))
}

func abortUnauthorized(c *gin.Context, message string) {
	abortWithError(c, http.StatusUnauthorized, "unauthorized", message)
}

// Optional helpers so handlers don't need to know the magic keys.

func UserIDFromContext(c *gin.Context) (string, bool) {
	return stringFromContext(c, CtxUserID)
}

func RoleFromContext(c *gin.Context) (string, bool) {
	return stringFromContext(c, CtxRole)
}

func stringFromContext(c *gin.Context, key string) (string, bool) {
	v, ok := c.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
