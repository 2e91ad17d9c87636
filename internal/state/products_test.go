package state

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"santamartha/storefront/internal/models"
)

func TestFetchProductsSendsFilters(t *testing.T) {
	b := newBackend(t)
	var query string
	b.handle("GET /products", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		writeJSON(w, http.StatusOK, []any{product(1, "2.50", 4)})
	})
	store, _ := newTestStore(t, b)

	category := int64(3)
	store.Products.SetCategory(&category)
	store.Products.SetSearch("  concha ")
	store.Products.SetSort("price_asc")
	assert.Zero(t, b.callCount())

	require.NoError(t, store.Products.FetchAll(context.Background()))
	assert.Equal(t, "categoryId=3&search=concha&sortBy=price_asc", query)

	require.NoError(t, store.Products.FetchUnfiltered(context.Background()))
	assert.Empty(t, query)

	snapshot := store.Products.Snapshot()
	assert.Equal(t, StatusSucceeded, snapshot.Status)
	assert.Equal(t, "concha", snapshot.Filters.Search)
	require.Len(t, snapshot.Items, 1)
	assert.True(t, decimal.RequireFromString("2.5").Equal(snapshot.Items[0].Price))
}

func TestArchiveThenRestoreRoundTrip(t *testing.T) {
	b := newBackend(t)
	b.reply("GET /products", http.StatusOK, []any{product(1, "2.50", 4), product(2, "3.00", 1)})
	b.handle("PATCH /products/{id}/archive", func(w http.ResponseWriter, r *http.Request) {
		p := product(1, "2.50", 4)
		p["isArchived"] = r.URL.Query().Get("archive") == "true"
		writeJSON(w, http.StatusOK, p)
	})
	store, _ := newTestStore(t, b)
	ctx := context.Background()
	require.NoError(t, store.Products.FetchUnfiltered(ctx))
	before := store.Products.Snapshot().Items

	archived, err := store.Products.SetArchived(ctx, 1, true)
	require.NoError(t, err)
	assert.True(t, archived.IsArchived)
	got, _ := store.Products.Get(1)
	assert.True(t, got.IsArchived)

	_, err = store.Products.SetArchived(ctx, 1, false)
	require.NoError(t, err)
	assert.Equal(t, before, store.Products.Snapshot().Items)
}

func TestProductErrorAndClear(t *testing.T) {
	b := newBackend(t)
	b.reply("GET /products", http.StatusServiceUnavailable, nil)
	store, _ := newTestStore(t, b)

	require.Error(t, store.Products.FetchAll(context.Background()))
	snapshot := store.Products.Snapshot()
	assert.Equal(t, StatusFailed, snapshot.Status)
	assert.Equal(t, "request failed with status 503", snapshot.Error)

	store.Products.ClearError()
	assert.Empty(t, store.Products.Snapshot().Error)
}

func TestStockOnlyUpdateSendsStock(t *testing.T) {
	b := newBackend(t)
	b.reply("GET /products", http.StatusOK, []any{product(1, "2.50", 4)})
	b.handle("PUT /products/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, decodeBody(r, &body))
		assert.Equal(t, map[string]any{"stock": float64(12)}, body)
		writeJSON(w, http.StatusOK, product(1, "2.50", 12))
	})
	store, _ := newTestStore(t, b)
	ctx := context.Background()
	require.NoError(t, store.Products.FetchUnfiltered(ctx))

	stock := 12
	updated, err := store.Products.Update(ctx, 1, models.ProductInput{Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, 12, updated.Stock)
}

// The first request is held until the second has settled, so the first one
// settles last and its result is what stays.
func TestConcurrentFetchIsLastSettledWins(t *testing.T) {
	b := newBackend(t)
	release := make(chan struct{})
	second := make(chan struct{})
	var once sync.Once
	b.handle("GET /products", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("search") == "slow" {
			<-release
			writeJSON(w, http.StatusOK, []any{product(1, "1.00", 1)})
			return
		}
		writeJSON(w, http.StatusOK, []any{product(2, "2.00", 2)})
		once.Do(func() { close(second) })
	})
	store, _ := newTestStore(t, b)
	ctx := context.Background()

	store.Products.SetSearch("slow")
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, store.Products.FetchAll(ctx))
	}()

	require.Eventually(t, func() bool { return b.callCount() == 1 }, time.Second, 5*time.Millisecond)
	store.Products.SetSearch("fast")
	require.NoError(t, store.Products.FetchAll(ctx))
	<-second
	assert.Equal(t, int64(2), store.Products.Snapshot().Items[0].ID)

	close(release)
	wg.Wait()

	items := store.Products.Snapshot().Items
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].ID)
}
