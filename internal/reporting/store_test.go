package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	ierr "github.com/majawitosz/tab-backend/internal/errors"
	"github.com/majawitosz/tab-backend/internal/logger"
	"github.com/majawitosz/tab-backend/internal/models"
	"github.com/majawitosz/tab-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMetadata() models.ReportMetadata {
	return models.ReportMetadata{
		Title:     "Przychód dzienny",
		DateRange: models.NewDateRange(day(2024, 3, 1), day(2024, 3, 2)),
		Metric:    models.MetricOverallIncome,
		Series: models.Series{
			{Label: "2024-03-01", Value: decimal.RequireFromString("125.50")},
		},
		GeneratedAt: time.Date(2024, 3, 3, 10, 0, 0, 0, time.UTC),
	}
}

func TestFileName(t *testing.T) {
	at := time.Date(2024, 3, 3, 9, 7, 5, 0, time.UTC)
	assert.Equal(t, "dish_income_20240303090705.pdf", FileName(models.MetricDishIncome, at))
}

func TestStore_SaveAndRetrieve(t *testing.T) {
	blobs := testutil.NewInMemoryBlobStore("http://files.local/media/")
	reports := testutil.NewInMemoryReportStore()
	store := NewStore(blobs, reports, logger.NewNop())
	ctx := context.Background()

	saved, err := store.Save(ctx, []byte("%PDF-1.4"), "overall_income_20240303100000.pdf", testMetadata())
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "http://files.local/media/reports/overall_income_20240303100000.pdf", saved.URL)
	assert.Equal(t, []string{"reports/overall_income_20240303100000.pdf"}, blobs.Names())

	got, err := store.Retrieve(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.URL, got.URL)
	assert.Equal(t, "Przychód dzienny", got.Title)
	assert.True(t, got.Series.Equal(testMetadata().Series))
	assert.Nil(t, got.Document)

	opened, err := store.Open(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), opened.Document)
}

func TestStore_RetrieveNotFound(t *testing.T) {
	store := NewStore(testutil.NewInMemoryBlobStore("/media/"), testutil.NewInMemoryReportStore(), logger.NewNop())
	_, err := store.Retrieve(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))
}

func TestStore_RefusesToOverwrite(t *testing.T) {
	blobs := testutil.NewInMemoryBlobStore("/media/")
	reports := testutil.NewInMemoryReportStore()
	store := NewStore(blobs, reports, logger.NewNop())
	ctx := context.Background()

	first, err := store.Save(ctx, []byte("first"), "overall_income_20240303100000.pdf", testMetadata())
	require.NoError(t, err)

	_, err = store.Save(ctx, []byte("second"), "overall_income_20240303100000.pdf", testMetadata())
	require.Error(t, err)
	assert.True(t, ierr.IsAlreadyExists(err))

	opened, err := store.Open(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), opened.Document)
	assert.Equal(t, 1, reports.Len())
}

func TestStore_RemovesDocumentWhenMetadataFails(t *testing.T) {
	blobs := testutil.NewInMemoryBlobStore("/media/")
	reports := testutil.NewInMemoryReportStore()
	reports.FailCreate = ierr.WithError(errors.New("connection reset")).Mark(ierr.ErrDatabase)
	store := NewStore(blobs, reports, logger.NewNop())

	_, err := store.Save(context.Background(), []byte("doc"), "dish_income_20240303100000.pdf", testMetadata())
	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrDatabase))
	assert.Empty(t, blobs.Names())
	assert.Zero(t, reports.Len())
}

func TestStore_BlobFailureSkipsMetadata(t *testing.T) {
	blobs := testutil.NewInMemoryBlobStore("/media/")
	blobs.FailSave = ierr.NewError("disk full").Mark(ierr.ErrStorage)
	reports := testutil.NewInMemoryReportStore()
	store := NewStore(blobs, reports, logger.NewNop())

	_, err := store.Save(context.Background(), []byte("doc"), "dish_income_20240303100000.pdf", testMetadata())
	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrStorage))
	assert.Zero(t, reports.Len())
}

// cancellingReportStore cancels the caller's context while the metadata is
// being written, as gin does when the client goes away.
type cancellingReportStore struct {
	*testutil.InMemoryReportStore
	cancel context.CancelFunc
}

func (s *cancellingReportStore) Create(ctx context.Context, report *models.ReportArtifact) error {
	s.cancel()
	return ctx.Err()
}

func TestStore_RemovesDocumentWhenCallerAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	blobs := testutil.NewInMemoryBlobStore("/media/")
	reports := &cancellingReportStore{InMemoryReportStore: testutil.NewInMemoryReportStore(), cancel: cancel}
	store := NewStore(blobs, reports, logger.NewNop())

	_, err := store.Save(ctx, []byte("doc"), "dish_income_20240303100000.pdf", testMetadata())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, blobs.Names())
	assert.Zero(t, reports.Len())
}
