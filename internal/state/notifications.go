package state

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"santamartha/storefront/internal/models"
)

type NotificationsSlice struct {
	*resource[models.Notification]
}

func NewNotificationsSlice(api Requester, log zerolog.Logger) *NotificationsSlice {
	return &NotificationsSlice{
		resource: newResource(api, log, "notifications", func(n models.Notification) int64 { return n.ID }),
	}
}

func (s *NotificationsSlice) FetchAll(ctx context.Context) error {
	return s.fetchAll(ctx, "fetchUserNotifications", func(ctx context.Context) ([]models.Notification, error) {
		var notifications []models.Notification
		err := s.api.Get(ctx, "/notifications", &notifications)
		return notifications, err
	})
}

func (s *NotificationsSlice) MarkRead(ctx context.Context, id int64) (models.Notification, error) {
	var notification models.Notification
	err := s.mutate(ctx, "markNotificationAsRead",
		func(ctx context.Context) error {
			return s.api.Put(ctx, fmt.Sprintf("/notifications/%d/read", id), struct{}{}, &notification)
		},
		func(c *Collection[models.Notification]) { c.Replace(notification) },
	)
	return notification, err
}

func (s *NotificationsSlice) MarkAllRead(ctx context.Context) error {
	return s.mutate(ctx, "markAllAsRead",
		func(ctx context.Context) error {
			return s.api.Post(ctx, "/notifications/mark-all-read", struct{}{}, nil)
		},
		func(c *Collection[models.Notification]) {
			c.Each(func(n *models.Notification) { n.Read = true })
		},
	)
}

func (s *NotificationsSlice) Reset() {
	s.reset()
}

func (s *NotificationsSlice) Snapshot() View[models.Notification] {
	return s.view()
}
