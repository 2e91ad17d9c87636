package jobs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"santamartha/storefront/internal/apiclient"
	"santamartha/storefront/internal/session"
	"santamartha/storefront/internal/state"
)

func newStore(t *testing.T, token string) (*state.Store, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": 1, "message": "Tu pedido fue enviado", "read": false}]`))
	}))
	t.Cleanup(srv.Close)

	tokens := session.NewFileStore(t.TempDir())
	if token != "" {
		require.NoError(t, tokens.Save(context.Background(), token))
	}
	client := apiclient.New(srv.URL, time.Second, nil, zerolog.Nop())
	store := state.NewStore(client, tokens, zerolog.Nop())
	client.SetTokenSource(store.Auth)
	require.NoError(t, store.Auth.Bootstrap(context.Background()))
	return store, &hits
}

func TestRefreshSkipsWithoutSession(t *testing.T) {
	store, hits := newStore(t, "")
	scheduler := NewScheduler(store, "@every 1m", time.Second, zerolog.Nop())

	scheduler.refreshNotifications()

	assert.Zero(t, hits.Load())
	assert.Equal(t, state.StatusIdle, store.Notifications.Snapshot().Status)
}

func TestRefreshLoadsNotifications(t *testing.T) {
	store, hits := newStore(t, "tok")
	scheduler := NewScheduler(store, "@every 1m", time.Second, zerolog.Nop())

	scheduler.refreshNotifications()

	assert.Equal(t, int32(1), hits.Load())
	notifications := store.Notifications.Snapshot()
	assert.Equal(t, state.StatusSucceeded, notifications.Status)
	assert.Len(t, notifications.Items, 1)
}

func TestSchedulerRunsOnSpec(t *testing.T) {
	store, hits := newStore(t, "tok")
	scheduler := NewScheduler(store, "@every 1s", time.Second, zerolog.Nop())
	require.NoError(t, scheduler.Start())
	t.Cleanup(func() { scheduler.Stop(context.Background()) })

	assert.Eventually(t, func() bool { return hits.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestStartRejectsBadSpec(t *testing.T) {
	store, _ := newStore(t, "")
	scheduler := NewScheduler(store, "not a spec", time.Second, zerolog.Nop())

	assert.Error(t, scheduler.Start())
}
