package state

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"santamartha/storefront/internal/ids"
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Requester is the part of the resource client the slices depend on.
type Requester interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}

// View is a point-in-time copy of a slice. Version changes on every commit
// to the collection, which is what selectors memoize on.
type View[T any] struct {
	Items   []T    `json:"items"`
	Status  Status `json:"status"`
	Error   string `json:"error,omitempty"`
	Version uint64 `json:"-"`
}

type resource[T any] struct {
	name string
	api  Requester
	log  zerolog.Logger

	mu      sync.RWMutex
	status  Status
	err     string
	version uint64
	items   *Collection[T]

	// generation moves on every reset. A call dispatched in an earlier
	// generation settles without committing.
	generation uint64
}

func newResource[T any](api Requester, log zerolog.Logger, name string, key func(T) int64) *resource[T] {
	return &resource[T]{
		name:   name,
		api:    api,
		log:    log.With().Str("slice", name).Logger(),
		status: StatusIdle,
		items:  NewCollection(key),
	}
}

func (r *resource[T]) dispatch(action string) zerolog.Logger {
	log := r.log.With().
		Str("action", r.name+"/"+action).
		Str("action_id", ids.New()).
		Logger()
	log.Debug().Msg("action dispatched")
	return log
}

// fetchAll replaces the whole collection with whatever load returns. Commits
// land in settlement order, so concurrent fetches are last-settled-wins.
func (r *resource[T]) fetchAll(ctx context.Context, action string, load func(context.Context) ([]T, error)) error {
	log := r.dispatch(action)

	r.mu.Lock()
	r.status = StatusLoading
	generation := r.generation
	r.mu.Unlock()

	values, err := load(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.generation != generation {
		log.Debug().Msg("slice reset while in flight, result dropped")
		return err
	}
	if err != nil {
		r.status = StatusFailed
		r.err = err.Error()
		log.Warn().Err(err).Msg("action rejected")
		return err
	}
	r.status = StatusSucceeded
	r.err = ""
	r.items.Reset(values)
	r.version++
	log.Debug().Int("count", len(values)).Msg("action fulfilled")
	return nil
}

// mutate performs call and, only once it has succeeded, applies commit.
func (r *resource[T]) mutate(ctx context.Context, action string, call func(context.Context) error, commit func(*Collection[T])) error {
	log := r.dispatch(action)

	r.mu.RLock()
	generation := r.generation
	r.mu.RUnlock()

	err := call(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.generation != generation {
		log.Debug().Msg("slice reset while in flight, result dropped")
		return err
	}
	if err != nil {
		r.err = err.Error()
		log.Warn().Err(err).Msg("action rejected")
		return err
	}

	commit(r.items)
	r.version++
	log.Debug().Msg("action fulfilled")
	return nil
}

func (r *resource[T]) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items.Clear()
	r.status = StatusIdle
	r.err = ""
	r.version++
	r.generation++
}

func (r *resource[T]) clearError() {
	r.mu.Lock()
	r.err = ""
	r.mu.Unlock()
}

func (r *resource[T]) get(id int64) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.items.Get(id)
}

func (r *resource[T]) view() View[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return View[T]{
		Items:   r.items.Values(),
		Status:  r.status,
		Error:   r.err,
		Version: r.version,
	}
}
