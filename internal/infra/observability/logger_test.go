package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerMiddlewareIncludesRoutePattern(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	r := chi.NewRouter()
	r.Use(ZapLoggerMiddleware(logger))
	r.Get("/v1/users/{userId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/users/42", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/v1/users/42" {
		t.Errorf("path = %v, want /v1/users/42", fields["path"])
	}
	if fields["route"] != "/v1/users/{userId}" {
		t.Errorf("route = %v, want /v1/users/{userId}", fields["route"])
	}
}

func TestZapLoggerMiddlewareLevelByStatus(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	r := chi.NewRouter()
	r.Use(ZapLoggerMiddleware(logger))
	r.Get("/ok", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/bad", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadRequest) })
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) })

	for path, want := range map[string]zapcore.Level{
		"/ok":   zapcore.InfoLevel,
		"/bad":  zapcore.WarnLevel,
		"/boom": zapcore.ErrorLevel,
	} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
		entries := logs.TakeAll()
		if len(entries) != 1 {
			t.Fatalf("%s: expected 1 log entry, got %d", path, len(entries))
		}
		if entries[0].Level != want {
			t.Errorf("%s: level = %v, want %v", path, entries[0].Level, want)
		}
	}
}
