package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"worktrack/internal/auth"
	"worktrack/internal/model"
)

// ClaimsKey is the context key under which guards stash session claims.
const ClaimsKey = "session_claims"

const loginPath = "/login"

const accessDeniedMessage = "Access Denied: You do not have permission to view this page."

// ClaimsFrom returns the session claims stashed by a guard, or nil when no
// guard ran on the route.
func ClaimsFrom(c echo.Context) *auth.Claims {
	claims, _ := c.Get(ClaimsKey).(*auth.Claims)
	return claims
}

// resolveClaims maps the session cookie to server-held claims. Any failure
// (missing cookie, bad signature, expired session, store outage) resolves to
// an unauthenticated request.
func resolveClaims(c echo.Context, sessions auth.SessionStore) *auth.Claims {
	cookie, err := c.Cookie(auth.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	claims, err := sessions.Get(c.Request().Context(), cookie.Value)
	if err != nil {
		return nil
	}
	return claims
}

// RequireAuth gates routes on a valid session. Unauthenticated requests are
// redirected to the login page rather than rejected; the handler never runs.
func RequireAuth(sessions auth.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := resolveClaims(c, sessions)
			if claims == nil {
				return c.Redirect(http.StatusFound, loginPath)
			}
			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}

// RequireAdmin gates routes on an admin session. It re-checks authentication
// itself so the guards compose in any order: unauthenticated requests get
// the same login redirect as RequireAuth, authenticated non-admins get 403.
func RequireAdmin(sessions auth.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := resolveClaims(c, sessions)
			if claims == nil {
				return c.Redirect(http.StatusFound, loginPath)
			}
			if claims.Role != model.RoleAdmin {
				return c.String(http.StatusForbidden, accessDeniedMessage)
			}
			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}
