package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unityscripts/script-library/internal/core/domain"
)

const (
	contextUserKey    = "user"
	contextSessionKey = "session_id"
)

// Identifier resolves a session id to the user it belongs to.
type Identifier interface {
	Identify(ctx context.Context, sessionID string) (*domain.User, error)
}

// Session resolves the caller on every request. A valid session puts the
// user and session id into the context; anything else leaves the caller
// anonymous and the request continues.
func Session(auth Identifier, cookie *SessionCookie) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := cookie.SessionID(c)
			if sid == "" {
				return next(c)
			}

			user, err := auth.Identify(c.Request().Context(), sid)
			if err == nil {
				c.Set(contextUserKey, user)
				c.Set(contextSessionKey, sid)
			}
			return next(c)
		}
	}
}

// RequireAuth rejects anonymous callers with 401. It must run after Session.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user, or nil for anonymous callers.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(contextUserKey).(*domain.User)
	return user
}

// SessionID returns the id of the caller's valid session, or "".
func SessionID(c echo.Context) string {
	sid, _ := c.Get(contextSessionKey).(string)
	return sid
}
