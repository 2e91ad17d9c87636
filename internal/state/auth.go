package state

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"santamartha/storefront/internal/apiclient"
	"santamartha/storefront/internal/guard"
	"santamartha/storefront/internal/ids"
	"santamartha/storefront/internal/models"
	"santamartha/storefront/internal/security"
	"santamartha/storefront/internal/session"
)

// AuthState is the session as the views see it.
type AuthState struct {
	User          *models.User `json:"user"`
	Token         string       `json:"-"`
	Authenticated bool         `json:"isAuthenticated"`
	Status        Status       `json:"status"`
	Error         string       `json:"error,omitempty"`
}

func (s AuthState) Session() guard.Session {
	sess := guard.Session{Authenticated: s.Authenticated}
	if s.User != nil {
		sess.Role = s.User.Role
	}
	return sess
}

type AuthSlice struct {
	api    Requester
	tokens session.Store
	log    zerolog.Logger
	now    func() time.Time

	// onSignOut runs after the session is dropped, outside the lock.
	onSignOut func()

	mu            sync.RWMutex
	user          *models.User
	token         string
	authenticated bool
	status        Status
	err           string
}

func NewAuthSlice(api Requester, tokens session.Store, log zerolog.Logger) *AuthSlice {
	return &AuthSlice{
		api:    api,
		tokens: tokens,
		log:    log.With().Str("slice", "auth").Logger(),
		now:    time.Now,
		status: StatusIdle,
	}
}

// Token satisfies apiclient.TokenSource.
func (a *AuthSlice) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

func (a *AuthSlice) Snapshot() AuthState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	var user *models.User
	if a.user != nil {
		u := *a.user
		user = &u
	}
	return AuthState{
		User:          user,
		Token:         a.token,
		Authenticated: a.authenticated,
		Status:        a.status,
		Error:         a.err,
	}
}

// Bootstrap restores the session from durable storage. A missing key means
// an unauthenticated start; a token whose exp already passed is dropped.
func (a *AuthSlice) Bootstrap(ctx context.Context) error {
	token, err := a.tokens.Load(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNoToken) {
			a.log.Debug().Msg("no stored session")
			return nil
		}
		return err
	}

	if security.Expired(token, a.now()) {
		a.log.Info().Msg("stored session expired, discarding")
		if err := a.tokens.Clear(ctx); err != nil {
			a.log.Warn().Err(err).Msg("clear expired token failed")
		}
		return nil
	}

	a.mu.Lock()
	a.token = token
	a.authenticated = true
	a.mu.Unlock()
	a.log.Info().Msg("session restored")
	return nil
}

func (a *AuthSlice) Login(ctx context.Context, creds models.Credentials) (models.User, error) {
	creds.Email = strings.TrimSpace(strings.ToLower(creds.Email))
	if creds.Email == "" || creds.Password == "" {
		return models.User{}, ErrMissingCredentials
	}

	log := a.begin("loginUser")
	var payload models.AuthPayload
	err := a.api.Post(ctx, "/auth/login", creds, &payload)
	if err != nil {
		a.reject(ctx, log, err, true)
		return models.User{}, err
	}

	if err := a.tokens.Save(ctx, payload.Token); err != nil {
		log.Warn().Err(err).Msg("persist token failed")
	}

	a.mu.Lock()
	user := payload.User
	a.user = &user
	a.token = payload.Token
	a.authenticated = true
	a.status = StatusSucceeded
	a.err = ""
	a.mu.Unlock()
	log.Info().Int64("user_id", user.ID).Msg("logged in")
	return user, nil
}

// Register creates the account. It does not sign the user in.
func (a *AuthSlice) Register(ctx context.Context, reg models.Registration) (models.User, error) {
	reg.Email = strings.TrimSpace(strings.ToLower(reg.Email))
	if reg.Email == "" || reg.Password == "" {
		return models.User{}, ErrMissingCredentials
	}
	if strings.TrimSpace(reg.Name) == "" {
		return models.User{}, ErrMissingName
	}
	if reg.Role != "" && !reg.Role.Valid() {
		return models.User{}, ErrInvalidRole
	}

	log := a.begin("registerUser")
	var user models.User
	if err := a.api.Post(ctx, "/auth/register", reg, &user); err != nil {
		a.reject(ctx, log, err, false)
		return models.User{}, err
	}
	a.succeed(nil)
	log.Info().Str("email", reg.Email).Msg("registered")
	return user, nil
}

func (a *AuthSlice) FetchProfile(ctx context.Context) (models.User, error) {
	log := a.begin("fetchUserProfile")
	var user models.User
	if err := a.api.Get(ctx, "/users/profile", &user); err != nil {
		a.reject(ctx, log, err, true)
		return models.User{}, err
	}
	a.succeed(&user)
	return user, nil
}

func (a *AuthSlice) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (models.User, error) {
	if strings.TrimSpace(update.Name) == "" {
		return models.User{}, ErrMissingName
	}

	log := a.begin("updateUserProfile")
	var user models.User
	if err := a.api.Put(ctx, "/users/profile", update, &user); err != nil {
		a.reject(ctx, log, err, false)
		return models.User{}, err
	}
	a.succeed(&user)
	return user, nil
}

func (a *AuthSlice) ChangePassword(ctx context.Context, change models.PasswordChange) error {
	if change.CurrentPassword == "" || change.NewPassword == "" {
		return ErrMissingCredentials
	}

	log := a.begin("changeUserPassword")
	if err := a.api.Put(ctx, "/users/password", change, nil); err != nil {
		a.reject(ctx, log, err, false)
		return err
	}
	a.succeed(nil)
	return nil
}

// Logout drops the session locally and in durable storage.
func (a *AuthSlice) Logout(ctx context.Context) {
	a.clearSession(ctx)
	a.log.Info().Msg("logged out")
}

func (a *AuthSlice) begin(action string) zerolog.Logger {
	log := a.log.With().
		Str("action", "auth/"+action).
		Str("action_id", ids.New()).
		Logger()

	a.mu.Lock()
	a.status = StatusLoading
	a.mu.Unlock()
	log.Debug().Msg("action dispatched")
	return log
}

func (a *AuthSlice) succeed(user *models.User) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status = StatusSucceeded
	a.err = ""
	if user != nil {
		u := *user
		a.user = &u
	}
}

// reject records the failure. For login and profile fetch a 401 also
// invalidates the session.
func (a *AuthSlice) reject(ctx context.Context, log zerolog.Logger, err error, invalidates bool) {
	a.mu.Lock()
	a.status = StatusFailed
	a.err = err.Error()
	a.mu.Unlock()
	log.Warn().Err(err).Msg("action rejected")

	if invalidates && apiclient.IsUnauthorized(err) {
		log.Info().Msg("session invalidated by server")
		a.clearSession(context.WithoutCancel(ctx))
	}
}

func (a *AuthSlice) clearSession(ctx context.Context) {
	a.mu.Lock()
	a.user = nil
	a.token = ""
	a.authenticated = false
	a.mu.Unlock()

	if err := a.tokens.Clear(ctx); err != nil {
		a.log.Warn().Err(err).Msg("clear stored token failed")
	}
	if a.onSignOut != nil {
		a.onSignOut()
	}
}
