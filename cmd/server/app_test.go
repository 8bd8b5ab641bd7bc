package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/unityscripts/script-library/internal/client"
	"github.com/unityscripts/script-library/internal/pkg/config"
)

func loadConfig(t *testing.T, env map[string]string) *config.Config {
	t.Helper()
	cfg, err := config.LoadWith(context.Background(), envconfig.MapLookuper(env))
	require.NoError(t, err)
	return cfg
}

func startApp(t *testing.T, env map[string]string) (*app, *client.Client) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	a, err := newApp(ctx, loadConfig(t, env), zerolog.Nop(), prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.shutdown(context.Background()) })

	srv := httptest.NewServer(a.server.Handler)
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL)
	require.NoError(t, err)
	return a, c
}

func TestNewApp_MemoryDrivers(t *testing.T) {
	a, c := startApp(t, map[string]string{
		"ADMIN_PASSWORD": "Luna2007!",
		"PORT":           "9090",
	})
	ctx := context.Background()

	assert.Equal(t, ":9090", a.server.Addr)

	user, err := c.Login(ctx, "", "Luna2007!")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "admin", user.Username)

	created, err := c.CreateScript(ctx, client.NewScript{
		Name:        "Jump",
		Description: "Handles player jump physics",
		Code:        "public void Jump() { }",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	scripts, err := c.ListScripts(ctx)
	require.NoError(t, err)
	assert.Len(t, scripts, 1)
}

func TestNewApp_PasswordHashWins(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("from-hash"), bcrypt.MinCost)
	require.NoError(t, err)

	_, c := startApp(t, map[string]string{
		"ADMIN_USERNAME":      "librarian",
		"ADMIN_PASSWORD":      "from-plain",
		"ADMIN_PASSWORD_HASH": string(hash),
	})
	ctx := context.Background()

	_, err = c.Login(ctx, "", "from-plain")
	assert.True(t, client.IsStatus(err, http.StatusUnauthorized))

	user, err := c.Login(ctx, "", "from-hash")
	require.NoError(t, err)
	assert.Equal(t, "librarian", user.Username)
}

func TestNewApp_ReadinessWithoutBackends(t *testing.T) {
	a, _ := startApp(t, map[string]string{"ADMIN_PASSWORD": "pw"})

	rec := httptest.NewRecorder()
	a.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewApp_RedisUnreachable(t *testing.T) {
	cfg := loadConfig(t, map[string]string{
		"ADMIN_PASSWORD": "pw",
		"SESSION_DRIVER": config.DriverRedis,
		"REDIS_ADDR":     "127.0.0.1:1",
	})

	_, err := newApp(context.Background(), cfg, zerolog.Nop(), prometheus.NewRegistry())
	require.Error(t, err)
}

func TestSessionSecret(t *testing.T) {
	cfg := loadConfig(t, map[string]string{"ADMIN_PASSWORD": "pw", "SESSION_SECRET": "fixed"})
	secret, err := sessionSecret(cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, []byte("fixed"), secret)

	cfg.Session.Secret = ""
	a, err := sessionSecret(cfg, zerolog.Nop())
	require.NoError(t, err)
	b, err := sessionSecret(cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
