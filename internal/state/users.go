package state

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"santamartha/storefront/internal/models"
)

// UsersSlice is the admin view of every account.
type UsersSlice struct {
	*resource[models.User]
}

func NewUsersSlice(api Requester, log zerolog.Logger) *UsersSlice {
	return &UsersSlice{
		resource: newResource(api, log, "users", func(u models.User) int64 { return u.ID }),
	}
}

func (s *UsersSlice) FetchAll(ctx context.Context) error {
	return s.fetchAll(ctx, "fetchAllUsers", func(ctx context.Context) ([]models.User, error) {
		var users []models.User
		err := s.api.Get(ctx, "/users", &users)
		return users, err
	})
}

func (s *UsersSlice) Update(ctx context.Context, id int64, input models.UserUpdate) (models.User, error) {
	if input.Role != "" && !input.Role.Valid() {
		return models.User{}, ErrInvalidRole
	}

	var user models.User
	err := s.mutate(ctx, "updateUser",
		func(ctx context.Context) error { return s.api.Put(ctx, fmt.Sprintf("/users/%d", id), input, &user) },
		func(c *Collection[models.User]) { c.Replace(user) },
	)
	return user, err
}

func (s *UsersSlice) Delete(ctx context.Context, id int64) error {
	return s.mutate(ctx, "deleteUser",
		func(ctx context.Context) error { return s.api.Delete(ctx, fmt.Sprintf("/users/%d", id)) },
		func(c *Collection[models.User]) { c.Remove(id) },
	)
}

func (s *UsersSlice) Snapshot() View[models.User] {
	return s.view()
}
