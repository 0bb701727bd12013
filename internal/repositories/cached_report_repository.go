package repositories

import (
	"context"
	"time"

	"github.com/majawitosz/tab-backend/internal/models"
	gocache "github.com/patrickmn/go-cache"
)

// CachedReportRepository keeps recently read report metadata in memory.
// Reports are immutable, so entries only expire and are never invalidated.
type CachedReportRepository struct {
	next  ReportRepository
	cache *gocache.Cache
}

func NewCachedReportRepository(next ReportRepository, ttl time.Duration) *CachedReportRepository {
	return &CachedReportRepository{
		next:  next,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (r *CachedReportRepository) Create(ctx context.Context, report *models.ReportArtifact) error {
	if err := r.next.Create(ctx, report); err != nil {
		return err
	}
	r.cache.SetDefault(report.ID, withoutDocument(report))
	return nil
}

func (r *CachedReportRepository) Get(ctx context.Context, id string) (*models.ReportArtifact, error) {
	if cached, ok := r.cache.Get(id); ok {
		return copyReport(cached.(*models.ReportArtifact)), nil
	}
	report, err := r.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.SetDefault(id, withoutDocument(report))
	return copyReport(report), nil
}

func (r *CachedReportRepository) List(ctx context.Context, filter ReportFilter) ([]*models.ReportArtifact, error) {
	return r.next.List(ctx, filter)
}

func withoutDocument(report *models.ReportArtifact) *models.ReportArtifact {
	c := copyReport(report)
	c.Document = nil
	return c
}

// copyReport hands out copies so callers cannot alter cached entries.
func copyReport(report *models.ReportArtifact) *models.ReportArtifact {
	c := *report
	c.Series = append(models.Series(nil), report.Series...)
	return &c
}
