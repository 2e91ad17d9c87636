package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type healthResponse struct {
	Status        string `json:"status"`
	Sessions      string `json:"sessions"`
	Cache         string `json:"cache"`
	Authenticated bool   `json:"authenticated"`
	Environment   string `json:"environment"`
}

func (h HandlerSet) Health(c *gin.Context) {
	cacheStatus := "disabled"
	if h.cache != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		cacheStatus = "ok"
		if err := h.cache.Ping(ctx).Err(); err != nil {
			cacheStatus = "error"
			h.log.Error().Err(err).Msg("redis ping failed")
		}
	}

	c.JSON(http.StatusOK, healthResponse{
		Status:        "ok",
		Sessions:      h.cfg.Session.Driver,
		Cache:         cacheStatus,
		Authenticated: h.store.Auth.Snapshot().Authenticated,
		Environment:   h.cfg.Environment,
	})
}
