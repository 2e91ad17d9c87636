package state

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"santamartha/storefront/internal/models"
	"santamartha/storefront/internal/session"
)

var customer = map[string]any{"id": 7, "name": "Ana", "email": "ana@example.com", "role": "USER"}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "7",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestLoginPersistsTokenAndAuthorizesLaterCalls(t *testing.T) {
	b := newBackend(t)
	b.reply("POST /auth/login", http.StatusOK, map[string]any{"token": "tok-1", "user": customer})
	b.reply("GET /users/profile", http.StatusOK, customer)
	store, tokens := newTestStore(t, b)
	ctx := context.Background()

	user, err := store.Auth.Login(ctx, models.Credentials{Email: " Ana@Example.com ", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)

	stored, err := tokens.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", stored)

	auth := store.Auth.Snapshot()
	assert.True(t, auth.Authenticated)
	assert.Equal(t, StatusSucceeded, auth.Status)

	_, err = store.Auth.FetchProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", b.lastAuthorization())
}

func TestLoginUnauthorizedClearsStoredToken(t *testing.T) {
	b := newBackend(t)
	b.reply("POST /auth/login", http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
	store, tokens := newTestStore(t, b)
	ctx := context.Background()

	require.NoError(t, tokens.Save(ctx, "stale"))
	require.NoError(t, store.Auth.Bootstrap(ctx))
	require.True(t, store.Auth.Snapshot().Authenticated)

	_, err := store.Auth.Login(ctx, models.Credentials{Email: "ana@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())

	auth := store.Auth.Snapshot()
	assert.False(t, auth.Authenticated)
	assert.Empty(t, auth.Token)
	assert.Nil(t, auth.User)
	assert.Equal(t, StatusFailed, auth.Status)
	assert.Equal(t, "Invalid credentials", auth.Error)

	_, err = tokens.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNoToken)
}

func TestProfileUnauthorizedSignsOut(t *testing.T) {
	b := newBackend(t)
	b.reply("GET /cart", http.StatusOK, map[string]any{
		"cartItems": []any{map[string]any{"id": 1, "quantity": 1, "product": product(10, "5.00", 3)}},
	})
	b.reply("GET /users/profile", http.StatusUnauthorized, map[string]string{"error": "token expired"})
	store, tokens := newTestStore(t, b)
	ctx := context.Background()

	require.NoError(t, tokens.Save(ctx, "tok"))
	require.NoError(t, store.Auth.Bootstrap(ctx))
	require.NoError(t, store.Cart.Fetch(ctx))
	require.Len(t, store.Cart.Snapshot().Items, 1)

	_, err := store.Auth.FetchProfile(ctx)
	require.Error(t, err)

	assert.False(t, store.Auth.Snapshot().Authenticated)
	assert.Empty(t, store.Cart.Snapshot().Items)
	_, err = tokens.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNoToken)
}

func TestChangePasswordUnauthorizedKeepsSession(t *testing.T) {
	b := newBackend(t)
	b.reply("PUT /users/password", http.StatusUnauthorized, map[string]string{"message": "Current password is incorrect"})
	store, tokens := newTestStore(t, b)
	ctx := context.Background()

	require.NoError(t, tokens.Save(ctx, "tok"))
	require.NoError(t, store.Auth.Bootstrap(ctx))

	err := store.Auth.ChangePassword(ctx, models.PasswordChange{CurrentPassword: "old", NewPassword: "newer"})
	require.Error(t, err)

	auth := store.Auth.Snapshot()
	assert.True(t, auth.Authenticated)
	assert.Equal(t, StatusFailed, auth.Status)
	assert.Equal(t, "Current password is incorrect", auth.Error)
}

func TestRegisterDoesNotSignIn(t *testing.T) {
	b := newBackend(t)
	b.reply("POST /auth/register", http.StatusCreated, customer)
	store, _ := newTestStore(t, b)

	user, err := store.Auth.Register(context.Background(), models.Registration{
		Name: "Ana", Email: "ana@example.com", Password: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.Name)
	assert.False(t, store.Auth.Snapshot().Authenticated)
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("no stored token", func(t *testing.T) {
		store, _ := newTestStore(t, newBackend(t))
		require.NoError(t, store.Auth.Bootstrap(ctx))
		assert.False(t, store.Auth.Snapshot().Authenticated)
	})

	t.Run("expired token is discarded", func(t *testing.T) {
		store, tokens := newTestStore(t, newBackend(t))
		require.NoError(t, tokens.Save(ctx, signedToken(t, time.Now().Add(-time.Hour))))

		require.NoError(t, store.Auth.Bootstrap(ctx))
		assert.False(t, store.Auth.Snapshot().Authenticated)
		_, err := tokens.Load(ctx)
		assert.ErrorIs(t, err, session.ErrNoToken)
	})

	t.Run("live token is restored", func(t *testing.T) {
		store, tokens := newTestStore(t, newBackend(t))
		token := signedToken(t, time.Now().Add(time.Hour))
		require.NoError(t, tokens.Save(ctx, token))

		require.NoError(t, store.Auth.Bootstrap(ctx))
		auth := store.Auth.Snapshot()
		assert.True(t, auth.Authenticated)
		assert.Equal(t, token, auth.Token)
	})
}

func TestLogoutClearsSessionScopedState(t *testing.T) {
	b := newBackend(t)
	b.reply("POST /auth/login", http.StatusOK, map[string]any{"token": "tok", "user": customer})
	b.reply("GET /cart", http.StatusOK, map[string]any{
		"cartItems": []any{map[string]any{"id": 1, "quantity": 2, "product": product(10, "5.00", 3)}},
	})
	b.reply("GET /orders/my-orders", http.StatusOK, []any{map[string]any{"id": 3, "status": "PENDING", "total": "10"}})
	b.reply("GET /notifications", http.StatusOK, []any{map[string]any{"id": 4, "message": "hola", "read": false}})
	store, tokens := newTestStore(t, b)
	ctx := context.Background()

	_, err := store.Auth.Login(ctx, models.Credentials{Email: "ana@example.com", Password: "secret"})
	require.NoError(t, err)
	require.NoError(t, store.Cart.Fetch(ctx))
	require.NoError(t, store.Orders.FetchMine(ctx))
	require.NoError(t, store.Notifications.FetchAll(ctx))

	store.Logout(ctx)

	auth := store.Auth.Snapshot()
	assert.False(t, auth.Authenticated)
	assert.Nil(t, auth.User)
	assert.Empty(t, store.Cart.Snapshot().Items)
	assert.Empty(t, store.Orders.Snapshot().Items)
	assert.Empty(t, store.Notifications.Snapshot().Items)
	assert.Equal(t, StatusIdle, store.Cart.Snapshot().Status)

	_, err = tokens.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNoToken)
}

func TestLogoutDropsFetchStillInFlight(t *testing.T) {
	b := newBackend(t)
	b.reply("POST /auth/login", http.StatusOK, map[string]any{"token": "tok", "user": customer})
	hit := make(chan struct{})
	release := make(chan struct{})
	b.handle("GET /cart", func(w http.ResponseWriter, r *http.Request) {
		close(hit)
		<-release
		writeJSON(w, http.StatusOK, map[string]any{
			"cartItems": []any{map[string]any{"id": 1, "quantity": 2, "product": product(10, "5.00", 3)}},
		})
	})
	store, _ := newTestStore(t, b)
	ctx := context.Background()
	_, err := store.Auth.Login(ctx, models.Credentials{Email: "ana@example.com", Password: "secret"})
	require.NoError(t, err)

	fetched := make(chan error, 1)
	go func() { fetched <- store.Cart.Fetch(ctx) }()
	<-hit
	store.Logout(ctx)
	close(release)
	require.NoError(t, <-fetched)

	cart := store.Cart.Snapshot()
	assert.Empty(t, cart.Items)
	assert.Equal(t, StatusIdle, cart.Status)
}
