package reporting

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/lucsky/cuid"
	"github.com/majawitosz/tab-backend/internal/logger"
	"github.com/majawitosz/tab-backend/internal/models"
	"github.com/majawitosz/tab-backend/internal/repositories"
)

const (
	// reportsDir is the blob store folder holding report documents.
	reportsDir = "reports"

	// cleanupTimeout bounds the removal of an orphaned document.
	cleanupTimeout = 30 * time.Second
)

// FileName names a report document after its metric and generation time,
// with second granularity. Two reports for the same metric generated within
// the same second get the same name; Store.Save then fails instead of
// overwriting the first document.
func FileName(metric models.MetricSelector, at time.Time) string {
	return fmt.Sprintf("%s_%s.pdf", metric, at.Format(models.FileStampLayout))
}

// Store persists report documents in the blob store and their metadata,
// including the raw series, in the report repository.
type Store struct {
	blobs   BlobStore
	reports repositories.ReportRepository
	newID   func() string
	log     *logger.Logger
}

func NewStore(blobs BlobStore, reports repositories.ReportRepository, log *logger.Logger) *Store {
	return &Store{
		blobs:   blobs,
		reports: reports,
		newID:   cuid.New,
		log:     log,
	}
}

func objectName(fileName string) string {
	return path.Join(reportsDir, fileName)
}

// Save writes the document first and the metadata second. If the metadata
// cannot be recorded the document is removed again, so a failed save leaves
// nothing behind. The removal runs detached from ctx, so a caller that aborts
// mid-save does not leave the document orphaned.
func (s *Store) Save(ctx context.Context, document []byte, filename string, meta models.ReportMetadata) (*models.ReportArtifact, error) {
	url, err := s.blobs.Save(ctx, objectName(filename), document)
	if err != nil {
		return nil, err
	}

	artifact := &models.ReportArtifact{
		ID:          s.newID(),
		Title:       meta.Title,
		FileName:    filename,
		DateRange:   meta.DateRange,
		Metric:      meta.Metric,
		Series:      meta.Series,
		GeneratedAt: meta.GeneratedAt,
		Document:    document,
		URL:         url,
	}
	if err := s.reports.Create(ctx, artifact); err != nil {
		s.removeDocument(ctx, filename)
		return nil, err
	}
	return artifact, nil
}

func (s *Store) removeDocument(ctx context.Context, filename string) {
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	if err := s.blobs.Delete(cleanupCtx, objectName(filename)); err != nil {
		s.log.WithContext(ctx).Errorw("failed to remove orphaned report document",
			"file_name", filename,
			"error", err)
	}
}

// Retrieve returns the report metadata and its document locator. The
// document bytes are not loaded, see Open.
func (s *Store) Retrieve(ctx context.Context, id string) (*models.ReportArtifact, error) {
	artifact, err := s.reports.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	artifact.URL = s.blobs.URLFor(objectName(artifact.FileName))
	return artifact, nil
}

// Open returns the report with its document bytes loaded.
func (s *Store) Open(ctx context.Context, id string) (*models.ReportArtifact, error) {
	artifact, err := s.Retrieve(ctx, id)
	if err != nil {
		return nil, err
	}
	if artifact.Document, err = s.blobs.Open(ctx, objectName(artifact.FileName)); err != nil {
		return nil, err
	}
	return artifact, nil
}

func (s *Store) List(ctx context.Context, filter repositories.ReportFilter) ([]*models.ReportArtifact, error) {
	artifacts, err := s.reports.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, a := range artifacts {
		a.URL = s.blobs.URLFor(objectName(a.FileName))
	}
	return artifacts, nil
}
