package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestHealth_Liveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealth_Readiness(t *testing.T) {
	cases := []struct {
		name     string
		deps     map[string]PingFunc
		wantCode int
		wantStat string
	}{
		{"no dependencies", nil, http.StatusOK, "ok"},
		{
			"all up",
			map[string]PingFunc{"redis": func(context.Context) error { return nil }},
			http.StatusOK, "ok",
		},
		{
			"one down",
			map[string]PingFunc{
				"redis":   func(context.Context) error { return nil },
				"mongodb": func(context.Context) error { return errors.New("connection refused") },
			},
			http.StatusServiceUnavailable, "degraded",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

			if err := NewHealthDependenciesHandler(tc.deps).Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}

			var resp readinessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Status != tc.wantStat {
				t.Fatalf("expected status %q, got %q", tc.wantStat, resp.Status)
			}
		})
	}
}
