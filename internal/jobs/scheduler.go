package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"santamartha/storefront/internal/state"
)

// Scheduler re-dispatches the notification fetch on a cron spec while a
// session is active. A failed run is not retried; the next tick is simply
// another dispatch.
type Scheduler struct {
	cron       *cron.Cron
	store      *state.Store
	spec       string
	jobTimeout time.Duration
	log        zerolog.Logger
}

func NewScheduler(store *state.Store, spec string, jobTimeout time.Duration, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:       c,
		store:      store,
		spec:       spec,
		jobTimeout: jobTimeout,
		log:        log.With().Str("component", "scheduler").Logger(),
	}
}

func (s *Scheduler) Start() error {
	if s.store == nil {
		return nil
	}

	if _, err := s.cron.AddFunc(s.spec, s.refreshNotifications); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info().Str("spec", s.spec).Msg("scheduler started")
	return nil
}

// Stop halts the cron and waits for a running refresh, at most until ctx is
// done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) refreshNotifications() {
	if !s.store.Auth.Snapshot().Authenticated {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	if err := s.store.Notifications.FetchAll(ctx); err != nil {
		s.log.Warn().Err(err).Msg("notification refresh failed")
	}
}
