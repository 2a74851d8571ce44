package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jchiwaii/blood-donations-sub000/internal/model"
	"github.com/jchiwaii/blood-donations-sub000/internal/utils"
)

// SessionCookie is the cookie carrying the session token for browser
// clients.  API clients may instead send "Authorization: Bearer <token>".
const SessionCookie = "session"

// IdentityStore resolves the identity row behind a verified token.  The
// row is re-read on every protected request so that role or name edits are
// observed promptly rather than trusted from the token until it expires.
type IdentityStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// TokenDenylist answers whether a token id has been revoked by logout.
type TokenDenylist interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// sessionToken pulls the raw token from the session cookie or, failing
// that, the Authorization header.  Empty string when neither is present.
func sessionToken(c echo.Context) string {
	if ck, err := c.Cookie(SessionCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// ClearSessionCookie expires the session cookie on the client.  Called
// whenever a presented token turns out to be malformed, expired or
// revoked, and on logout.
func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// SessionGate returns the middleware guarding every private route group.
// It is the single choke point for session resolution: it verifies the
// token's signature and expiry, checks the logout denylist, re-reads the
// identity row and stores the resulting identity in the request context
// under "user_id", "role", "name" and "email" (plus "token_id" and
// "token_exp" for logout).  Any failure clears the session cookie and
// redirects to the public home rather than serving the protected content.
func SessionGate(secret string, identities IdentityStore, denylist TokenDenylist) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := sessionToken(c)
			if raw == "" {
				return c.Redirect(http.StatusFound, "/")
			}
			claims, err := utils.ParseSessionToken(secret, raw)
			if err != nil {
				ClearSessionCookie(c)
				return c.Redirect(http.StatusFound, "/")
			}

			ctx := c.Request().Context()
			if denylist != nil {
				if revoked, err := denylist.IsRevoked(ctx, claims.TokenID); err == nil && revoked {
					ClearSessionCookie(c)
					return c.Redirect(http.StatusFound, "/")
				}
			}

			// Fresh identity read; a deleted user means no identity.
			u, err := identities.GetByID(ctx, claims.UserID)
			if err != nil {
				ClearSessionCookie(c)
				return c.Redirect(http.StatusFound, "/")
			}

			c.Set("user_id", u.ID)
			c.Set("role", u.Role)
			c.Set("name", u.Name)
			c.Set("email", u.Email)
			c.Set("token_id", claims.TokenID)
			c.Set("token_exp", claims.Exp)
			return next(c)
		}
	}
}

// RequireRole enforces that the resolved session carries one of the given
// roles.  Cross-role access is denied by redirecting to the public home,
// not by a 403: the protected area simply does not exist for that user.
// Assumes SessionGate ran earlier in the chain.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || !allowed[role] {
				return c.Redirect(http.StatusFound, "/")
			}
			return next(c)
		}
	}
}

// RedirectIfAuthenticated guards the auth routes (login, register): a
// caller who already holds a valid session is sent to their role's
// dashboard instead of being allowed to authenticate again.  Only the
// token itself is checked here; no store read is needed for a redirect
// decision.
func RedirectIfAuthenticated(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := sessionToken(c)
			if raw == "" {
				return next(c)
			}
			claims, err := utils.ParseSessionToken(secret, raw)
			if err != nil {
				// Stale cookie; drop it and let the auth flow proceed.
				ClearSessionCookie(c)
				return next(c)
			}
			return c.Redirect(http.StatusFound, "/"+claims.Role+"/dashboard")
		}
	}
}

// TokenExp extracts the "token_exp" context value set by SessionGate.
func TokenExp(c echo.Context) time.Time {
	if t, ok := c.Get("token_exp").(time.Time); ok {
		return t
	}
	return time.Time{}
}
