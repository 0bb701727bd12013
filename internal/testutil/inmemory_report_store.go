package testutil

import (
	"context"
	"sort"
	"sync"

	ierr "github.com/majawitosz/tab-backend/internal/errors"
	"github.com/majawitosz/tab-backend/internal/models"
	"github.com/majawitosz/tab-backend/internal/repositories"
	"github.com/samber/lo"
)

// InMemoryReportStore implements repositories.ReportRepository
type InMemoryReportStore struct {
	mu      sync.RWMutex
	reports map[string]*models.ReportArtifact
	// FailCreate makes Create return this error, to exercise rollback paths.
	FailCreate error
}

func NewInMemoryReportStore() *InMemoryReportStore {
	return &InMemoryReportStore{reports: make(map[string]*models.ReportArtifact)}
}

func copyReport(r *models.ReportArtifact) *models.ReportArtifact {
	c := *r
	c.Series = append(models.Series(nil), r.Series...)
	c.Document = nil
	return &c
}

func (s *InMemoryReportStore) Create(ctx context.Context, report *models.ReportArtifact) error {
	if s.FailCreate != nil {
		return s.FailCreate
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reports[report.ID]; ok {
		return ierr.NewErrorf("report %s already exists", report.ID).Mark(ierr.ErrAlreadyExists)
	}
	for _, r := range s.reports {
		if r.FileName == report.FileName {
			return ierr.NewErrorf("report file %s already exists", report.FileName).Mark(ierr.ErrAlreadyExists)
		}
	}
	s.reports[report.ID] = copyReport(report)
	return nil
}

func (s *InMemoryReportStore) Get(ctx context.Context, id string) (*models.ReportArtifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reports[id]
	if !ok {
		return nil, ierr.NewErrorf("report %s not found", id).
			WithHint("Report not found").
			Mark(ierr.ErrNotFound)
	}
	return copyReport(r), nil
}

func (s *InMemoryReportStore) List(ctx context.Context, filter repositories.ReportFilter) ([]*models.ReportArtifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reports := lo.Filter(lo.Values(s.reports), func(r *models.ReportArtifact, _ int) bool {
		return filter.Metric == "" || r.Metric == filter.Metric
	})
	sort.Slice(reports, func(i, j int) bool {
		if reports[i].GeneratedAt.Equal(reports[j].GeneratedAt) {
			return reports[i].ID < reports[j].ID
		}
		return reports[i].GeneratedAt.After(reports[j].GeneratedAt)
	})
	if filter.Limit > 0 && len(reports) > filter.Limit {
		reports = reports[:filter.Limit]
	}
	return lo.Map(reports, func(r *models.ReportArtifact, _ int) *models.ReportArtifact {
		return copyReport(r)
	}), nil
}

func (s *InMemoryReportStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}
