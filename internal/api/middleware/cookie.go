package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/unityscripts/script-library/internal/core/domain"
)

// DefaultCookieName is the name of the session cookie.
const DefaultCookieName = "sid"

var errInvalidCookie = errors.New("invalid session cookie")

// CookieConfig controls how the session cookie is written.
type CookieConfig struct {
	Name   string
	Secret []byte
	// Secure restricts the cookie to HTTPS; enabled in production.
	Secure bool
	MaxAge time.Duration
}

// SessionCookie carries the session id to the browser as an HS256-signed
// token, so a forged or truncated cookie is rejected before the session store
// is consulted.
type SessionCookie struct {
	cfg CookieConfig
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

func NewSessionCookie(cfg CookieConfig) *SessionCookie {
	if cfg.Name == "" {
		cfg.Name = DefaultCookieName
	}
	return &SessionCookie{cfg: cfg}
}

// Name returns the cookie name.
func (sc *SessionCookie) Name() string {
	return sc.cfg.Name
}

// Set writes the cookie for s. The cookie lives as long as the session.
func (sc *SessionCookie) Set(c echo.Context, s *domain.Session) error {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			IssuedAt:  jwt.NewNumericDate(s.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	})
	signed, err := token.SignedString(sc.cfg.Secret)
	if err != nil {
		return err
	}

	maxAge := sc.cfg.MaxAge
	if maxAge <= 0 {
		maxAge = time.Until(s.ExpiresAt)
	}
	c.SetCookie(&http.Cookie{
		Name:     sc.cfg.Name,
		Value:    signed,
		Path:     "/",
		Expires:  s.ExpiresAt,
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   sc.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear tells the browser to drop the cookie.
func (sc *SessionCookie) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sc.cfg.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   sc.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionID returns the session id carried by the request cookie, or "" when
// the cookie is missing, expired or not signed with our secret.
func (sc *SessionCookie) SessionID(c echo.Context) string {
	cookie, err := c.Cookie(sc.cfg.Name)
	if err != nil || cookie.Value == "" {
		return ""
	}
	id, err := sc.parse(cookie.Value)
	if err != nil {
		return ""
	}
	return id
}

func (sc *SessionCookie) parse(raw string) (string, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return sc.cfg.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", errInvalidCookie
	}
	if claims.ID == "" {
		return "", errInvalidCookie
	}
	return claims.ID, nil
}
