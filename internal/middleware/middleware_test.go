package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"santamartha/storefront/internal/apiclient"
	"santamartha/storefront/internal/guard"
	"santamartha/storefront/internal/session"
	"santamartha/storefront/internal/state"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newStore wires a store against backend with a token already stored.
func newStore(t *testing.T, backend http.HandlerFunc, token string) *state.Store {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	tokens := session.NewFileStore(t.TempDir())
	if token != "" {
		require.NoError(t, tokens.Save(context.Background(), token))
	}
	client := apiclient.New(srv.URL, time.Second, nil, zerolog.Nop())
	store := state.NewStore(client, tokens, zerolog.Nop())
	client.SetTokenSource(store.Auth)
	require.NoError(t, store.Auth.Bootstrap(context.Background()))
	return store
}

func profileBackend(role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/profile" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 1, "name": "Ana", "email": "ana@example.com", "role": role})
	}
}

func guarded(store *state.Store, requirement guard.Requirement) *gin.Engine {
	engine := gin.New()
	engine.GET("/area", RequireSession(store, requirement, zerolog.Nop()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func TestRequireSession(t *testing.T) {
	cases := []struct {
		name        string
		token       string
		role        string
		requirement guard.Requirement
		status      int
	}{
		{"anonymous customer area", "", "USER", guard.RequireSession, http.StatusFound},
		{"anonymous admin area", "", "ADMIN", guard.RequireAdmin, http.StatusFound},
		{"customer in customer area", "tok", "USER", guard.RequireSession, http.StatusOK},
		{"customer in admin area", "tok", "USER", guard.RequireAdmin, http.StatusFound},
		{"admin in admin area", "tok", "ADMIN", guard.RequireAdmin, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newStore(t, profileBackend(tc.role), tc.token)
			rec := httptest.NewRecorder()
			guarded(store, tc.requirement).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/area", nil))

			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusFound {
				assert.Equal(t, guard.LoginPath, rec.Header().Get("Location"))
			}
		})
	}
}

func TestRequireSessionAfterLogoutRedirects(t *testing.T) {
	store := newStore(t, profileBackend("ADMIN"), "tok")
	engine := guarded(store, guard.RequireAdmin)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/area", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	store.Logout(context.Background())

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/area", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, guard.LoginPath, rec.Header().Get("Location"))
}

func TestRequestIDReachesBackend(t *testing.T) {
	var seen string
	store := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(requestIDHeader)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}, "")

	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/catalog", func(c *gin.Context) {
		_ = store.Products.FetchAll(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/catalog", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
	assert.Equal(t, "abc-123", seen)
}

func TestRecoveryAnswers500(t *testing.T) {
	engine := gin.New()
	engine.Use(Recovery(zerolog.Nop()))
	engine.GET("/boom", func(*gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCORS(t *testing.T) {
	engine := gin.New()
	engine.Use(CORS([]string{"http://shop.test"}))
	engine.GET("/catalog", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/catalog", nil)
	req.Header.Set("Origin", "http://shop.test")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, "http://shop.test", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/catalog", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
