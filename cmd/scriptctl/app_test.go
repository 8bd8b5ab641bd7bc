package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/unityscripts/script-library/internal/api"
	"github.com/unityscripts/script-library/internal/api/middleware"
	"github.com/unityscripts/script-library/internal/core/service"
	dbmemory "github.com/unityscripts/script-library/internal/infrastructure/db/memory"
	sessionmemory "github.com/unityscripts/script-library/internal/infrastructure/session/memory"
)

const password = "Luna2007!"

func startServer(t *testing.T) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	store := dbmemory.NewStore()
	_, err = service.SeedAdmin(context.Background(), store, "admin", string(hash))
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	e := api.NewRouter(api.Dependencies{
		Auth: service.NewAuthService(store, sessionmemory.NewStore(), service.AuthConfig{
			AdminUsername:     "admin",
			AdminPasswordHash: string(hash),
			SessionTTL:        time.Hour,
		}, zerolog.Nop()),
		Scripts:    service.NewScriptService(store, zerolog.Nop()),
		Cookie:     middleware.NewSessionCookie(middleware.CookieConfig{Secret: []byte("k"), MaxAge: time.Hour}),
		Logger:     zerolog.Nop(),
		Registerer: reg,
		Gatherer:   reg,
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv.URL
}

type session struct {
	t      *testing.T
	server string
	file   string
}

func (s *session) run(stdin string, args ...string) (int, string, string) {
	var out, errOut bytes.Buffer
	term := &terminal{in: strings.NewReader(stdin), out: &out, errOut: &errOut, fd: -1}
	full := append([]string{"-server", s.server, "-session-file", s.file}, args...)
	code := run(context.Background(), full, term)
	return code, out.String(), errOut.String()
}

func newSession(t *testing.T) *session {
	return &session{t: t, server: startServer(t), file: filepath.Join(t.TempDir(), "session")}
}

func TestScriptctl_FullFlow(t *testing.T) {
	s := newSession(t)

	code, _, errOut := s.run("", "whoami")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "not logged in")

	code, out, errOut := s.run(password+"\n", "login")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Logged in as admin")

	saved, err := os.ReadFile(s.file)
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(string(saved)))

	code, out, _ = s.run("", "whoami")
	require.Equal(t, 0, code)
	assert.Equal(t, "admin (id 1)\n", out)

	code, out, errOut = s.run("", "add", "-name", "Jump", "-description", "Handles player jump physics", "-code", "public void Jump() { }")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Created script 1 (Jump)")

	code, out, errOut = s.run("void Spawn() { enemies++; }", "add", "-name", "Spawner", "-description", "Spawns enemies on a timer", "-code-file", "-")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Created script 2 (Spawner)")

	code, out, _ = s.run("", "list", "player")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Jump")
	assert.NotContains(t, out, "Spawner")

	code, out, _ = s.run("", "show", "2")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "void Spawn() { enemies++; }")

	code, out, _ = s.run("", "delete", "1")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Deleted script 1")

	code, _, errOut = s.run("", "show", "1")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Script not found")

	code, out, _ = s.run("", "logout")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Logged out")
	_, err = os.Stat(s.file)
	assert.True(t, os.IsNotExist(err))

	code, _, _ = s.run("", "delete", "2")
	assert.Equal(t, 1, code)
}

func TestScriptctl_LoginRejected(t *testing.T) {
	s := newSession(t)

	code, _, errOut := s.run("wrong\n", "login")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Invalid credentials")

	_, err := os.Stat(s.file)
	assert.True(t, os.IsNotExist(err))
}

func TestScriptctl_AddValidatesLocally(t *testing.T) {
	s := newSession(t)

	code, _, errOut := s.run("", "add", "-name", "Jump", "-description", "short", "-code", "public void Jump() { }")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "description must be at least 10 characters")
}

func TestScriptctl_Usage(t *testing.T) {
	s := newSession(t)

	code, _, errOut := s.run("")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "usage: scriptctl")

	code, _, errOut = s.run("", "frobnicate")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, `unknown command "frobnicate"`)

	code, _, errOut = s.run("", "show", "abc")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, `invalid script id "abc"`)
}

func TestTerminal_PasswordUsesNoEcho(t *testing.T) {
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })

	var gotFD int
	readPassword = func(fd int) ([]byte, error) {
		gotFD = fd
		return []byte("secret"), nil
	}

	var errOut bytes.Buffer
	term := &terminal{in: strings.NewReader(""), out: &bytes.Buffer{}, errOut: &errOut, fd: 7}

	pw, err := term.Password("Password: ")
	require.NoError(t, err)
	assert.Equal(t, "secret", pw)
	assert.Equal(t, 7, gotFD)
	assert.Equal(t, "Password: \n", errOut.String())
}

func TestTokenFile(t *testing.T) {
	f, err := openTokenFile(filepath.Join(t.TempDir(), "nested", "session"))
	require.NoError(t, err)

	token, err := f.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, f.Save("abc.def.ghi"))
	token, err = f.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	info, err := os.Stat(f.path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, f.Clear())
	require.NoError(t, f.Clear())
}
