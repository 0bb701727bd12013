package repositories

import (
	"context"
	"testing"
	"time"

	ierr "github.com/majawitosz/tab-backend/internal/errors"
	"github.com/majawitosz/tab-backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReportRepository struct {
	reports map[string]*models.ReportArtifact
	gets    int
}

func (r *countingReportRepository) Create(ctx context.Context, report *models.ReportArtifact) error {
	r.reports[report.ID] = report
	return nil
}

func (r *countingReportRepository) Get(ctx context.Context, id string) (*models.ReportArtifact, error) {
	r.gets++
	report, ok := r.reports[id]
	if !ok {
		return nil, ierr.NewError("missing").Mark(ierr.ErrNotFound)
	}
	return report, nil
}

func (r *countingReportRepository) List(ctx context.Context, filter ReportFilter) ([]*models.ReportArtifact, error) {
	return nil, nil
}

func TestCachedReportRepository(t *testing.T) {
	ctx := context.Background()
	backend := &countingReportRepository{reports: map[string]*models.ReportArtifact{}}
	repo := NewCachedReportRepository(backend, time.Minute)

	report := &models.ReportArtifact{
		ID:       "ck1",
		FileName: "dish_income_20250101000000.pdf",
		Metric:   models.MetricDishIncome,
		Series:   models.Series{{Label: "Bigos", Value: decimal.NewFromInt(10)}},
		Document: []byte("%PDF"),
	}
	require.NoError(t, repo.Create(ctx, report))

	got, err := repo.Get(ctx, "ck1")
	require.NoError(t, err)
	assert.Equal(t, 0, backend.gets)
	assert.Nil(t, got.Document)
	assert.True(t, report.Series.Equal(got.Series))

	got.Series[0].Label = "changed"
	again, err := repo.Get(ctx, "ck1")
	require.NoError(t, err)
	assert.Equal(t, "Bigos", again.Series[0].Label)

	_, err = repo.Get(ctx, "missing")
	assert.True(t, ierr.IsNotFound(err))
	assert.Equal(t, 1, backend.gets)
}
