// Package client is a Go client for the Script Library HTTP API.
//
// The session lives in a cookie jar, so a Client behaves like one browser:
// after Login every request carries the session cookie until Logout.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// SessionCookieName is the cookie the server uses for the session token.
const SessionCookieName = "sid"

// User is the public profile returned by the server.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Script is a stored script.
type Script struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Code        string `json:"code"`
}

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an *APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// Client talks to one Script Library server.
type Client struct {
	base *url.URL
	http *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Default 10s.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New returns a Client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("client: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("client: base url %q must be absolute", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("client: cookie jar: %w", err)
	}

	c := &Client{
		base: base,
		http: &http.Client{Jar: jar, Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SessionToken returns the current session cookie value, or "".
func (c *Client) SessionToken() string {
	for _, ck := range c.http.Jar.Cookies(c.base) {
		if ck.Name == SessionCookieName {
			return ck.Value
		}
	}
	return ""
}

// SetSessionToken restores a session token saved by an earlier process.
func (c *Client) SetSessionToken(token string) {
	if token == "" {
		return
	}
	c.http.Jar.SetCookies(c.base, []*http.Cookie{{
		Name:  SessionCookieName,
		Value: token,
		Path:  "/",
	}})
}

// Login opens an admin session. Only the password is checked by the server.
func (c *Client) Login(ctx context.Context, username, password string) (*User, error) {
	var user User
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/login", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout ends the current session. It succeeds without one too.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/logout", nil, nil)
}

// CurrentUser returns the user bound to the session.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/user", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListScripts returns all scripts in id order.
func (c *Client) ListScripts(ctx context.Context) ([]Script, error) {
	var scripts []Script
	if err := c.do(ctx, http.MethodGet, "/api/scripts", nil, &scripts); err != nil {
		return nil, err
	}
	return scripts, nil
}

// GetScript returns one script.
func (c *Client) GetScript(ctx context.Context, id int64) (*Script, error) {
	var script Script
	if err := c.do(ctx, http.MethodGet, scriptPath(id), nil, &script); err != nil {
		return nil, err
	}
	return &script, nil
}

// CreateScript validates in locally and stores it. Requires a session.
func (c *Client) CreateScript(ctx context.Context, in NewScript) (*Script, error) {
	if err := ValidateScript(in); err != nil {
		return nil, err
	}
	var script Script
	if err := c.do(ctx, http.MethodPost, "/api/scripts", in, &script); err != nil {
		return nil, err
	}
	return &script, nil
}

// DeleteScript removes a script. Requires a session.
func (c *Client) DeleteScript(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, scriptPath(id), nil, nil)
}

func scriptPath(id int64) string {
	return "/api/scripts/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var payload struct {
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		apiErr.Message = payload.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}
