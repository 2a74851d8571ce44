package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jchiwaii/blood-donations-sub000/internal/config"
	"github.com/jchiwaii/blood-donations-sub000/internal/metrics"
	"github.com/jchiwaii/blood-donations-sub000/internal/middleware"
	"github.com/jchiwaii/blood-donations-sub000/internal/model"
	"github.com/jchiwaii/blood-donations-sub000/internal/repository"
	"github.com/jchiwaii/blood-donations-sub000/internal/utils"
)

// AuthHandler bundles dependencies for the credential and session
// endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Denylist *repository.DenylistRepo
	Metrics  *metrics.Metrics
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, d *repository.DenylistRepo, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Denylist: d, Metrics: m}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // admin | donor | recipient
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type sessionResp struct {
	User    model.Identity `json:"user"`
	Token   string         `json:"token"`
	Expires time.Time      `json:"expires"`
}

// setSessionCookie stores the issued token for browser clients; API
// clients can equally use the token from the response body as a bearer.
func setSessionCookie(c echo.Context, token string, exp time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Register creates an identity and signs the caller in immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "name, email and password are required")
	}
	if !model.ValidRole(req.Role) {
		return fail(c, http.StatusBadRequest, "role must be admin, donor or recipient")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, req.Role, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return fail(c, http.StatusConflict, "email already registered")
		}
		return fail(c, http.StatusInternalServerError, "registration failed")
	}

	u := model.User{ID: uid, Name: req.Name, Email: req.Email, Role: req.Role}
	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, u, h.Cfg.SessionTTLDays)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "session issue failed")
	}
	setSessionCookie(c, tok.Token, tok.Exp)

	return respond(c, http.StatusCreated, sessionResp{
		User:    model.Identity{ID: uid, Name: req.Name, Email: req.Email, Role: req.Role},
		Token:   tok.Token,
		Expires: tok.Exp,
	}, "registered")
}

// Login verifies email, password and claimed role against the stored
// identity.  Every mismatch — unknown email, wrong password, wrong role —
// produces the same answer so callers cannot probe which part failed.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if req.Email == "" || req.Password == "" || req.Role == "" {
		return fail(c, http.StatusBadRequest, "email, password and role are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	denied := func() error {
		h.Metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return fail(c, http.StatusUnauthorized, "invalid credentials")
	}

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return denied()
		}
		return fail(c, http.StatusInternalServerError, "login failed")
	}
	if u.Role != req.Role || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return denied()
	}

	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, u, h.Cfg.SessionTTLDays)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "session issue failed")
	}
	setSessionCookie(c, tok.Token, tok.Exp)
	h.Metrics.LoginAttempts.WithLabelValues("success").Inc()

	return respond(c, http.StatusOK, sessionResp{
		User:    model.Identity{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role},
		Token:   tok.Token,
		Expires: tok.Exp,
	}, "logged in")
}

// Logout clears the session cookie and, when Redis is available, records
// the token id on the denylist until the token would have expired.
// Without Redis the cookie removal is all that happens, matching the
// stateless design.
func (h *AuthHandler) Logout(c echo.Context) error {
	tokenID, _ := c.Get("token_id").(string)
	if tokenID != "" && h.Denylist.Available() {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.Denylist.Revoke(ctx, tokenID, middleware.TokenExp(c)); err != nil {
			return fail(c, http.StatusInternalServerError, "logout failed")
		}
	}
	middleware.ClearSessionCookie(c)
	return respond(c, http.StatusOK, nil, "logged out")
}

// Me returns the session's identity as freshly resolved by the gate from
// the identities table.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	name, _ := c.Get("name").(string)
	email, _ := c.Get("email").(string)
	role, _ := c.Get("role").(string)
	return respond(c, http.StatusOK, model.Identity{ID: uid, Name: name, Email: email, Role: role}, "")
}
