// Package backendstest serves canned upstream responses for tests outside
// the backends package.
package backendstest

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace/noop"

	"github.com/moorad/the-beautiful-bot/app/modules/osu/infrastructure/backends"
)

// Routes maps a request path to its handler.
type Routes map[string]http.HandlerFunc

// Upstream is one fake server standing in for all three backends.
type Upstream struct {
	*httptest.Server

	mu       sync.Mutex
	requests []string
	routes   Routes
}

// NewUpstream starts a server that answers unknown paths with 404.
func NewUpstream(t testing.TB, routes Routes) *Upstream {
	t.Helper()
	u := &Upstream{routes: routes}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.requests = append(u.requests, r.URL.Path+"?"+r.URL.RawQuery)
		h, ok := u.routes[r.URL.Path]
		u.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(u.Close)
	return u
}

// Calls returns every request seen so far as path?query.
func (u *Upstream) Calls() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.requests...)
}

// Registry points every backend at the fake server.
func (u *Upstream) Registry() *backends.Registry {
	cfg := backends.DefaultConfig()
	cfg.APIKey = "key"
	cfg.OfficialBaseURL = u.URL
	cfg.GatariBaseURL = u.URL
	cfg.AkatsukiBaseURL = u.URL
	cfg.Timeout = 2 * time.Second
	cfg.RatePerSecond = 0
	return backends.NewRegistry(cfg, backends.ClientDeps{
		HTTPClient: u.Client(),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Tracer:     noop.NewTracerProvider().Tracer("test"),
	})
}

// JSON answers with status and body.
func JSON(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

// ByQuery answers with the body registered for the value of key, or an empty
// JSON array.
func ByQuery(key string, bodies map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, ok := bodies[r.URL.Query().Get(key)]
		if !ok {
			b = "[]"
		}
		JSON(http.StatusOK, b)(w, r)
	}
}
