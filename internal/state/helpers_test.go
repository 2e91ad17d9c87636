package state

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"santamartha/storefront/internal/apiclient"
	"santamartha/storefront/internal/session"
)

// backend is a scripted REST server. Unrouted calls answer 404.
type backend struct {
	srv *httptest.Server
	mux *http.ServeMux

	mu    sync.Mutex
	calls []string
	auth  []string
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{mux: http.NewServeMux()}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls = append(b.calls, r.Method+" "+r.URL.Path)
		b.auth = append(b.auth, r.Header.Get("Authorization"))
		b.mu.Unlock()
		b.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *backend) handle(pattern string, fn http.HandlerFunc) {
	b.mux.HandleFunc(pattern, fn)
}

func (b *backend) reply(pattern string, status int, body any) {
	b.handle(pattern, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, status, body)
	})
}

func (b *backend) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

func (b *backend) lastAuthorization() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.auth) == 0 {
		return ""
	}
	return b.auth[len(b.auth)-1]
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func newTestStore(t *testing.T, b *backend) (*Store, session.Store) {
	t.Helper()
	tokens := session.NewFileStore(t.TempDir())
	client := apiclient.New(b.srv.URL, 2*time.Second, nil, zerolog.Nop())
	store := NewStore(client, tokens, zerolog.Nop())
	client.SetTokenSource(store.Auth)
	return store, tokens
}

func product(id int64, price string, stock int) map[string]any {
	return map[string]any{
		"id":         id,
		"name":       "pan",
		"price":      price,
		"stock":      stock,
		"images":     []string{},
		"isArchived": false,
	}
}
