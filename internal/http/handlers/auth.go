package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/geocoder89/billed/internal/auth"
	"github.com/geocoder89/billed/internal/config"
	"github.com/geocoder89/billed/internal/domain/user"
	"github.com/geocoder89/billed/internal/http/middlewares"
	"github.com/geocoder89/billed/internal/router"
	"github.com/geocoder89/billed/internal/security"
	"github.com/geocoder89/billed/internal/views"
	"github.com/gin-gonic/gin"
)

type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	CreateUser(ctx context.Context, u user.User) (user.User, error)
}

type AuthHandler struct {
	users UserStore
	jwt   *auth.Manager
	cfg   config.Config
	log   *slog.Logger
}

func NewAuthHandler(users UserStore, jwtManager *auth.Manager, cfg config.Config, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users: users,
		jwt:   jwtManager,
		cfg:   cfg,
		log:   log,
	}
}

func (h *AuthHandler) LoginPage(ctx *gin.Context) {
	RespondPage(ctx, http.StatusOK, func(w io.Writer) error {
		return views.LoginUI(w, views.LoginPage{})
	})
}

// Login signs in with either form. An unknown employee email is registered
// on the spot, the way the first login has always worked.
func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if _, ok := BindForm(ctx, &req); !ok {
		h.loginFailed(ctx, http.StatusBadRequest, req.Email, "Email ou mot de passe invalide.")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	// short timeout for DB lookup
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	found, err := h.users.GetUserByEmail(cctx, req.Email)
	switch {
	case errors.Is(err, user.ErrNotFound) && req.Type == user.TypeEmployee:
		found, err = h.register(cctx, req)
		if err != nil {
			h.log.ErrorContext(ctx.Request.Context(), "user_register_failed", "err", err)
			RespondStoreError(ctx, err)
			return
		}
	case err != nil:
		h.loginFailed(ctx, http.StatusUnauthorized, req.Email, "Email ou mot de passe incorrect.")
		return
	default:
		if found.Type != req.Type || security.CheckPassword(found.PasswordHash, req.Password) != nil {
			h.loginFailed(ctx, http.StatusUnauthorized, req.Email, "Email ou mot de passe incorrect.")
			return
		}
	}

	token, expiresAt, err := h.jwt.GenerateSessionToken(user.Session{Type: found.Type, Email: found.Email})
	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "session_token_failed", "err", err)
		RespondStoreError(ctx, err)
		return
	}

	h.setSessionCookie(ctx, token, expiresAt)
	redirect(ctx, router.Home(found.Type))
}

func (h *AuthHandler) Logout(ctx *gin.Context) {
	h.clearSessionCookie(ctx)
	redirect(ctx, router.PathLogin)
}

func (h *AuthHandler) register(ctx context.Context, req user.LoginRequest) (user.User, error) {
	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return user.User{}, err
	}

	name, _, _ := strings.Cut(req.Email, "@")

	return h.users.CreateUser(ctx, user.User{
		Type:         user.TypeEmployee,
		Email:        req.Email,
		PasswordHash: hash,
		Name:         name,
	})
}

func (h *AuthHandler) loginFailed(ctx *gin.Context, status int, email, msg string) {
	RespondPage(ctx, status, func(w io.Writer) error {
		return views.LoginUI(w, views.LoginPage{Email: email, Error: msg})
	})
}

func (h *AuthHandler) setSessionCookie(ctx *gin.Context, raw string, expiresAt time.Time) {
	secure := h.cfg.Env == "prod"

	maxAge := int(time.Until(expiresAt).Seconds())

	ctx.SetSameSite(http.SameSiteLaxMode)

	ctx.SetCookie(
		middlewares.SessionCookie,
		raw,
		maxAge,
		"/",
		"",
		secure,
		true, // HttpOnly.
	)
}

func (h *AuthHandler) clearSessionCookie(ctx *gin.Context) {
	secure := h.cfg.Env == "prod"
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(
		middlewares.SessionCookie,
		"",
		-1,
		"/",
		"",
		secure,
		true,
	)
}
