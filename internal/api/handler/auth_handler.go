package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/unityscripts/script-library/internal/api/middleware"
	"github.com/unityscripts/script-library/internal/core/domain"
	"github.com/unityscripts/script-library/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	cookie      *middleware.SessionCookie
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, cookie *middleware.SessionCookie, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie, log: log}
}

// Login opens a session for the admin and sets the session cookie.
//
// @Summary      Login
// @Description  Only the password is checked; username is accepted and ignored.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Router       /api/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("invalid payload")
	}

	ctx := c.Request().Context()
	session, user, err := h.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		return err
	}

	// Drop the session the caller held before, if any.
	if prev := h.cookie.SessionID(c); prev != "" && prev != session.ID {
		_ = h.authService.Logout(ctx, prev)
	}

	if err := h.cookie.Set(c, session); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Logout destroys the caller's session. It always succeeds: a store failure
// is logged and the cookie is cleared anyway.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context(), h.cookie.SessionID(c)); err != nil {
		h.log.Warn().Err(err).Msg("logout: session not removed from store")
	}
	h.cookie.Clear(c)
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out"})
}

// User returns the profile bound to the caller's session.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  userResponse
// @Failure      401  {object}  messageResponse
// @Router       /api/user [get]
func (h *AuthHandler) User(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return domain.ErrUnauthenticated
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}
