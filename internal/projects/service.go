// Package projects is the application layer for video projects: reads go
// through the query cache under the video-projects keys, writes invalidate
// the affected domains, and submissions are validated before any bytes go
// upstream.
package projects

import (
	"context"

	"github.com/reelsmith/dashboard-go/internal/querycache"
	"github.com/reelsmith/dashboard-go/internal/querykeys"
	"github.com/reelsmith/dashboard-go/pkg/logger"
	"github.com/reelsmith/dashboard-go/pkg/platform"
)

type Service struct {
	client *platform.Client
	cache  *querycache.Cache
	logg   *logger.Logger
}

func NewService(client *platform.Client, cache *querycache.Cache, logg *logger.Logger) *Service {
	return &Service{client: client, cache: cache, logg: logg}
}

func (s *Service) List(ctx context.Context, filters platform.Filters) ([]platform.VideoProject, error) {
	return querycache.Fetch(ctx, s.cache, querykeys.VideoProjectList(filters), func(ctx context.Context) ([]platform.VideoProject, error) {
		return s.client.ListProjects(ctx, filters)
	})
}

func (s *Service) Get(ctx context.Context, id string) (*platform.VideoProject, error) {
	return querycache.Fetch(ctx, s.cache, querykeys.VideoProjectDetail(id), func(ctx context.Context) (*platform.VideoProject, error) {
		return s.client.GetProject(ctx, id)
	})
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]platform.VideoProject, error) {
	return querycache.Fetch(ctx, s.cache, querykeys.VideoProjectsByUser(userID), func(ctx context.Context) ([]platform.VideoProject, error) {
		return s.client.ListProjectsByUser(ctx, userID)
	})
}

// Create validates the submission locally and, only when it passes, uploads
// it. A successful create invalidates project and dashboard reads so counts
// and lists pick the new project up.
func (s *Service) Create(ctx context.Context, form CreateForm) (*platform.VideoProject, error) {
	input, err := form.build()
	if err != nil {
		return nil, err
	}

	var project *platform.VideoProject
	err = s.cache.Mutate(ctx, func(ctx context.Context) error {
		created, err := s.client.CreateProject(ctx, input)
		if err != nil {
			return err
		}
		project = created
		return nil
	}, querykeys.VideoProjects(), querykeys.Dashboard())
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithProjectID(ctx, project.ID), "project submitted")
	}
	return project, nil
}

func (s *Service) Update(ctx context.Context, id string, input platform.UpdateProjectInput) (*platform.VideoProject, error) {
	var project *platform.VideoProject
	err := s.cache.Mutate(ctx, func(ctx context.Context) error {
		updated, err := s.client.UpdateProject(ctx, id, input)
		if err != nil {
			return err
		}
		project = updated
		return nil
	}, querykeys.VideoProjects(), querykeys.Dashboard())
	if err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes a project and drops every cached read that could still show
// it: the project domain, its processing steps, and the dashboard rollups.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.cache.Mutate(ctx, func(ctx context.Context) error {
		return s.client.DeleteProject(ctx, id)
	}, querykeys.VideoProjects(), querykeys.ProcessingSteps(), querykeys.Dashboard())
}

// Retry requeues a failed project through the generation pipeline.
func (s *Service) Retry(ctx context.Context, id string) (*platform.RetryResponse, error) {
	var resp *platform.RetryResponse
	err := s.cache.Mutate(ctx, func(ctx context.Context) error {
		retried, err := s.client.RetryProject(ctx, id)
		if err != nil {
			return err
		}
		resp = retried
		return nil
	}, querykeys.VideoProjects(), querykeys.ProcessingSteps(), querykeys.Dashboard())
	if err != nil {
		return nil, err
	}
	return resp, nil
}
