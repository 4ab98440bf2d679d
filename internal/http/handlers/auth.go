package handlers

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yuwenzhijiao/showcase/internal/config"
	"github.com/yuwenzhijiao/showcase/internal/domain/user"
	"github.com/yuwenzhijiao/showcase/internal/security"
)

const (
	ActionRegister = "register"
	ActionLogin    = "login"

	// subject used for tokens minted by the bootstrap login
	bootstrapUserID = "bootstrap-admin"
)

type UserReader interface {
	ListByEmail(ctx context.Context, email string) ([]user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, email, passwordHash, role string) (user.User, error)
}

type TokenIssuer interface {
	GenerateAccessToken(userID, email, role string) (string, error)
}

type AuthHandler struct {
	users      UserReader
	userWriter UserWriter
	jwt        TokenIssuer
	cfg        config.Config
	log        *slog.Logger
}

func NewAuthHandler(users UserReader, userWriter UserWriter, jwtManager TokenIssuer, cfg config.Config, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:      users,
		userWriter: userWriter,
		jwt:        jwtManager,
		cfg:        cfg,
		log:        log,
	}
}

type AuthRequest struct {
	Action   string `json:"action"`
	Email    string `json:"email" binding:"required,max=254"`
	Password string `json:"password" binding:"required,max=72"`
}

type AuthResponse struct {
	Success bool   `json:"success"`
	Role    string `json:"role"`
	Token   string `json:"token"`
}

// Handle serves POST /api/auth, dispatching on the action field.
func (h *AuthHandler) Handle(ctx *gin.Context) {
	var req AuthRequest

	if !BindJSON(ctx, &req) {
		return
	}

	req.Email = strings.TrimSpace(req.Email)

	switch req.Action {
	case ActionRegister:
		h.register(ctx, req)
	case ActionLogin:
		h.login(ctx, req)
	default:
		RespondError(ctx, http.StatusBadRequest, "invalid_action", "Invalid action", gin.H{"allowed": []string{ActionRegister, ActionLogin}})
	}
}

func (h *AuthHandler) register(ctx *gin.Context, req AuthRequest) {
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondErr(ctx, http.StatusInternalServerError, "internal_error", "Could not create user", err, h.cfg.IsProd())
		return
	}

	role := user.RoleFor(req.Email, h.cfg.AdminEmail)

	u, err := h.userWriter.Create(cctx, req.Email, hash, role)

	if err != nil {
		RespondErr(ctx, http.StatusInternalServerError, "internal_error", "Could not create user", err, h.cfg.IsProd())
		return
	}

	h.respondWithToken(ctx, u.ID, u.Email, u.Role)
}

func (h *AuthHandler) login(ctx *gin.Context, req AuthRequest) {
	// short timeout for DB lookup
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	candidates, err := h.users.ListByEmail(cctx, req.Email)

	if err != nil {
		RespondErr(ctx, http.StatusInternalServerError, "internal_error", "Could not log in", err, h.cfg.IsProd())
		return
	}

	// emails are not unique: the first row whose password matches wins
	for _, u := range candidates {
		err := security.CheckPassword(u.PasswordHash, req.Password)

		if err == nil {
			h.respondWithToken(ctx, u.ID, u.Email, u.Role)
			return
		}

		if !security.IsMismatch(err) {
			h.log.WarnContext(cctx, "unreadable password hash", "user_id", u.ID, "err", err)
		}
	}

	if h.isBootstrapLogin(req) {
		h.log.WarnContext(cctx, "bootstrap admin login used", "email", req.Email)
		h.respondWithToken(ctx, bootstrapUserID, req.Email, user.RoleAdmin)
		return
	}

	RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
}

func (h *AuthHandler) isBootstrapLogin(req AuthRequest) bool {
	if h.cfg.BootstrapPassword == "" {
		return false
	}

	if user.RoleFor(req.Email, h.cfg.AdminEmail) != user.RoleAdmin {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.cfg.BootstrapPassword)) == 1
}

func (h *AuthHandler) respondWithToken(ctx *gin.Context, userID, email, role string) {
	token, err := h.jwt.GenerateAccessToken(userID, email, role)

	if err != nil {
		RespondErr(ctx, http.StatusInternalServerError, "internal_error", "Could not generate access token", err, h.cfg.IsProd())
		return
	}

	ctx.JSON(http.StatusOK, AuthResponse{
		Success: true,
		Role:    role,
		Token:   token,
	})
}
