package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"santamartha/storefront/internal/apiclient"
	"santamartha/storefront/internal/cache"
	"santamartha/storefront/internal/config"
	"santamartha/storefront/internal/handlers"
	"santamartha/storefront/internal/jobs"
	"santamartha/storefront/internal/log"
	"santamartha/storefront/internal/security"
	"santamartha/storefront/internal/server"
	"santamartha/storefront/internal/session"
	"santamartha/storefront/internal/state"
)

func main() {
	app := &cli.App{
		Name:  "storefront",
		Usage: "Santa Martha bakery storefront client",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "restore the session and serve the storefront views",
				Action: serve,
			},
			{
				Name:  "session",
				Usage: "inspect or drop the stored session token",
				Subcommands: []*cli.Command{
					{Name: "show", Usage: "print what the stored token claims", Action: showSession},
					{Name: "clear", Usage: "forget the stored token", Action: clearSession},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := log.New(cfg.Environment, cfg.LogLevel)
	ctx := c.Context

	tokens, redisClient, err := openTokenStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open session store")
	}

	client := apiclient.New(cfg.API.BaseURL, cfg.API.Timeout, nil, logger)
	store := state.NewStore(client, tokens, logger)
	client.SetTokenSource(store.Auth)

	if err := store.Bootstrap(ctx); err != nil {
		logger.Warn().Err(err).Msg("session restore incomplete")
	}

	handlerSet := handlers.NewHandlerSet(logger, store, redisClient, cfg)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	var scheduler *jobs.Scheduler
	if cfg.Scheduler.Enabled {
		scheduler = jobs.NewScheduler(store, cfg.Scheduler.NotificationsSpec, cfg.Scheduler.JobTimeout, logger)
		if err := scheduler.Start(); err != nil {
			logger.Error().Err(err).Msg("scheduler start failed")
			scheduler = nil
		}
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, redisClient)
	return nil
}

func showSession(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	tokens, redisClient, err := openTokenStore(c.Context, cfg)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	token, err := tokens.Load(c.Context)
	if errors.Is(err, session.ErrNoToken) {
		fmt.Fprintln(c.App.Writer, "no stored session")
		return nil
	}
	if err != nil {
		return err
	}

	claims, err := security.ReadClaims(token)
	if err != nil {
		fmt.Fprintln(c.App.Writer, "stored token is opaque")
		return nil
	}

	fmt.Fprintf(c.App.Writer, "subject: %s\n", claims.Subject)
	if claims.Role != "" {
		fmt.Fprintf(c.App.Writer, "role:    %s\n", claims.Role)
	}
	if claims.ExpiresAt != nil {
		validity := "valid"
		if security.Expired(token, time.Now()) {
			validity = "expired"
		}
		fmt.Fprintf(c.App.Writer, "expires: %s (%s)\n", claims.ExpiresAt.Time.Format(time.RFC3339), validity)
	}
	return nil
}

func clearSession(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	tokens, redisClient, err := openTokenStore(c.Context, cfg)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	if err := tokens.Clear(c.Context); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "session cleared")
	return nil
}

// openTokenStore returns the configured token store. The redis client is nil
// for the file driver.
func openTokenStore(ctx context.Context, cfg *config.AppConfig) (session.Store, *redis.Client, error) {
	if cfg.Session.Driver != "redis" {
		return session.NewFileStore(cfg.Session.Dir), nil, nil
	}

	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	return session.NewRedisStore(client, cfg.Session.KeyPrefix), client, nil
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}

	logger.Info().Msg("storefront exited cleanly")
}
