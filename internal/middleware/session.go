package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"santamartha/storefront/internal/guard"
	"santamartha/storefront/internal/state"
)

// RequireSession gates a route group. The guard is evaluated on every
// request. A restored token without a loaded profile gets the profile
// fetched first, since the role lives on the user.
func RequireSession(store *state.Store, requirement guard.Requirement, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := store.Auth.Snapshot()
		if auth.Authenticated && auth.User == nil {
			if _, err := store.Auth.FetchProfile(context.WithoutCancel(c.Request.Context())); err != nil {
				log.Warn().Err(err).Msg("session profile bootstrap failed")
			}
			auth = store.Auth.Snapshot()
		}

		decision := guard.Evaluate(auth.Session(), requirement)
		if !decision.Allowed {
			c.Redirect(http.StatusFound, decision.RedirectTo)
			c.Abort()
			return
		}

		c.Next()
	}
}
