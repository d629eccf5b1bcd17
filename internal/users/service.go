// Package users manages account records for the settings screens.
package users

import (
	"context"

	"github.com/reelsmith/dashboard-go/internal/querycache"
	"github.com/reelsmith/dashboard-go/internal/querykeys"
	"github.com/reelsmith/dashboard-go/pkg/platform"
)

type Service struct {
	client *platform.Client
	cache  *querycache.Cache
}

func NewService(client *platform.Client, cache *querycache.Cache) *Service {
	return &Service{client: client, cache: cache}
}

func (s *Service) List(ctx context.Context, filters platform.Filters) ([]platform.User, error) {
	return querycache.Fetch(ctx, s.cache, querykeys.UserList(filters), func(ctx context.Context) ([]platform.User, error) {
		return s.client.ListUsers(ctx, filters)
	})
}

func (s *Service) Get(ctx context.Context, id string) (*platform.User, error) {
	return querycache.Fetch(ctx, s.cache, querykeys.UserDetail(id), func(ctx context.Context) (*platform.User, error) {
		return s.client.GetUser(ctx, id)
	})
}

// Update patches an account and invalidates both the user domain and the
// cached identity, which may be the same record.
func (s *Service) Update(ctx context.Context, id string, input platform.UpdateUserInput) (*platform.User, error) {
	var user *platform.User
	err := s.cache.Mutate(ctx, func(ctx context.Context) error {
		updated, err := s.client.UpdateUser(ctx, id, input)
		if err != nil {
			return err
		}
		user = updated
		return nil
	}, querykeys.Users(), querykeys.Auth())
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.cache.Mutate(ctx, func(ctx context.Context) error {
		return s.client.DeleteUser(ctx, id)
	}, querykeys.Users(), querykeys.VideoProjects(), querykeys.Dashboard())
}
