// Package audit reads the immutable log of backend service exchanges. There
// are no mutations here: records only ever come from upstream.
package audit

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

func (s *Service) List(ctx context.Context, filters platform.Filters) ([]platform.AuditRecord, error) {
	return querycache.Fetch(ctx, s.cache, querykeys.AuditRecordList(filters), func(ctx context.Context) ([]platform.AuditRecord, error) {
		return s.client.ListAuditRecords(ctx, filters)
	})
}

func (s *Service) Get(ctx context.Context, id string) (*platform.AuditRecord, error) {
	return querycache.Fetch(ctx, s.cache, querykeys.AuditRecordDetail(id), func(ctx context.Context) (*platform.AuditRecord, error) {
		return s.client.GetAuditRecord(ctx, id)
	})
}

func (s *Service) ListByProject(ctx context.Context, projectID string) ([]platform.AuditRecord, error) {
	return querycache.Fetch(ctx, s.cache, querykeys.AuditRecordsByProject(projectID), func(ctx context.Context) ([]platform.AuditRecord, error) {
		return s.client.ListAuditRecordsByProject(ctx, projectID)
	})
}
