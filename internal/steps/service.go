// Package steps reads and mutates processing-step records through the query
// cache. Step data moves fastest of all domains, so its staleness window is
// the shortest.
package steps

import (
	"context"

	"github.com/reelsmith/dashboard-go/internal/projects"
	"github.com/reelsmith/dashboard-go/internal/querycache"
	"github.com/reelsmith/dashboard-go/internal/querykeys"
	"github.com/reelsmith/dashboard-go/pkg/enums"
	"github.com/reelsmith/dashboard-go/pkg/platform"
)

type Service struct {
	client *platform.Client
	cache  *querycache.Cache
}

func NewService(client *platform.Client, cache *querycache.Cache) *Service {
	return &Service{client: client, cache: cache}
}

func (s *Service) List(ctx context.Context, filters platform.Filters) ([]platform.ProcessingStep, error) {
	return querycache.Fetch(ctx, s.cache, querykeys.ProcessingStepList(filters), func(ctx context.Context) ([]platform.ProcessingStep, error) {
		return s.client.ListSteps(ctx, filters)
	})
}

func (s *Service) Get(ctx context.Context, id string) (*platform.ProcessingStep, error) {
	return querycache.Fetch(ctx, s.cache, querykeys.ProcessingStepDetail(id), func(ctx context.Context) (*platform.ProcessingStep, error) {
		return s.client.GetStep(ctx, id)
	})
}

func (s *Service) ListByProject(ctx context.Context, projectID string) ([]platform.ProcessingStep, error) {
	return querycache.Fetch(ctx, s.cache, querykeys.ProcessingStepsByProject(projectID), func(ctx context.Context) ([]platform.ProcessingStep, error) {
		return s.client.ListStepsByProject(ctx, projectID)
	})
}

func (s *Service) Update(ctx context.Context, id string, input platform.UpdateStepInput) (*platform.ProcessingStep, error) {
	var step *platform.ProcessingStep
	err := s.cache.Mutate(ctx, func(ctx context.Context) error {
		updated, err := s.client.UpdateStep(ctx, id, input)
		if err != nil {
			return err
		}
		step = updated
		return nil
	}, querykeys.ProcessingSteps(), querykeys.VideoProjects(), querykeys.Dashboard())
	if err != nil {
		return nil, err
	}
	return step, nil
}

// Progress summarizes a project's pipeline position from its step records.
type Progress struct {
	Percent     int             `json:"percent"`
	CurrentStep *enums.StepName `json:"current_step,omitempty"`
	FailedStep  *enums.StepName `json:"failed_step,omitempty"`
}

func (s *Service) Progress(ctx context.Context, projectID string) (*Progress, error) {
	records, err := s.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	progress := &Progress{Percent: projects.Percent(records)}
	if current, ok := projects.CurrentStep(records); ok {
		progress.CurrentStep = &current
	}
	if failed, ok := projects.FailedStep(records); ok {
		name := failed.StepName
		progress.FailedStep = &name
	}
	return progress, nil
}
