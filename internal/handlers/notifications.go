package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"santamartha/storefront/internal/models"
	"santamartha/storefront/internal/selectors"
	"santamartha/storefront/internal/state"
)

type notificationsView struct {
	Notifications []models.Notification `json:"notifications"`
	Unread        int                   `json:"unread"`
	Status        state.Status          `json:"status"`
	Error         string                `json:"error,omitempty"`
}

func (h HandlerSet) notificationsView() notificationsView {
	snapshot := h.store.Notifications.Snapshot()
	return notificationsView{
		Notifications: snapshot.Items,
		Unread:        selectors.UnreadCount(snapshot.Items),
		Status:        snapshot.Status,
		Error:         snapshot.Error,
	}
}

func (h HandlerSet) NotificationsView(c *gin.Context) {
	_ = h.store.Notifications.FetchAll(actionContext(c))
	c.JSON(http.StatusOK, h.notificationsView())
}

func (h HandlerSet) MarkNotificationRead(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if _, err := h.store.Notifications.MarkRead(actionContext(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.notificationsView())
}

func (h HandlerSet) MarkAllNotificationsRead(c *gin.Context) {
	if err := h.store.Notifications.MarkAllRead(actionContext(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.notificationsView())
}
