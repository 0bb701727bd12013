package reporting

import (
	"context"
	"time"

	ierr "github.com/majawitosz/tab-backend/internal/errors"
	"github.com/majawitosz/tab-backend/internal/events"
	"github.com/majawitosz/tab-backend/internal/logger"
	"github.com/majawitosz/tab-backend/internal/models"
	"github.com/majawitosz/tab-backend/internal/repositories"
)

// Stage is a step of report generation. Stages run strictly in order and a
// failure in any of them ends the request.
type Stage string

const (
	StageValidated  Stage = "validated"
	StageAggregated Stage = "aggregated"
	StageRendered   Stage = "rendered"
	StageComposed   Stage = "composed"
	StageStored     Stage = "stored"
	StageDone       Stage = "done"
)

// Clock supplies the generation time of reports.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// GenerateRequest is a validated report request.
type GenerateRequest struct {
	Metric models.MetricSelector
	Range  models.DateRange
}

// ServiceParams wires a Service; zero Clock, Location, Publisher and Logger
// fall back to defaults.
type ServiceParams struct {
	Orders    repositories.OrderReader
	Reports   repositories.ReportRepository
	Blobs     BlobStore
	Publisher events.Publisher
	Clock     Clock
	Location  *time.Location
	Logger    *logger.Logger
}

// BlobStore is the part of blobstore.Store the service needs.
type BlobStore interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
	URLFor(name string) string
	Open(ctx context.Context, name string) ([]byte, error)
	Delete(ctx context.Context, name string) error
}

// Service runs report generation from aggregation to storage.
type Service struct {
	aggregator *Aggregator
	composer   *Composer
	store      *Store
	publisher  events.Publisher
	clock      Clock
	loc        *time.Location
	log        *logger.Logger
}

// NewService builds the aggregator, composer and store around p.
func NewService(p ServiceParams) *Service {
	if p.Clock == nil {
		p.Clock = systemClock{}
	}
	if p.Location == nil {
		p.Location = time.UTC
	}
	if p.Publisher == nil {
		p.Publisher = events.NopPublisher{}
	}
	if p.Logger == nil {
		p.Logger = logger.NewNop()
	}
	return &Service{
		aggregator: NewAggregator(p.Orders, p.Location),
		composer:   NewComposer(),
		store:      NewStore(p.Blobs, p.Reports, p.Logger),
		publisher:  p.Publisher,
		clock:      p.Clock,
		loc:        p.Location,
		log:        p.Logger,
	}
}

// Generate runs the whole pipeline for one request and returns the URL of the
// stored document.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	artifact, err := s.GenerateReport(ctx, req)
	if err != nil {
		return "", err
	}
	return artifact.URL, nil
}

// GenerateReport is Generate returning the stored artifact.
func (s *Service) GenerateReport(ctx context.Context, req GenerateRequest) (*models.ReportArtifact, error) {
	log := s.log.WithContext(ctx).With("filter_by", req.Metric, "range", req.Range.String())

	labels, ok := models.LabelsFor(req.Metric)
	if !ok {
		return nil, ierr.NewErrorf("unknown metric %q", req.Metric).
			WithHint("Invalid filter_by value").
			Mark(ierr.ErrValidation)
	}
	log.Debugw("report stage", "stage", StageValidated)

	series, err := s.aggregator.Aggregate(ctx, req.Metric, req.Range)
	if err != nil {
		log.Errorw("report aggregation failed", "error", err)
		return nil, err
	}
	log.Debugw("report stage", "stage", StageAggregated, "points", len(series))

	chart, err := RenderChart(series, req.Metric)
	if err != nil {
		log.Errorw("report chart rendering failed", "error", err)
		return nil, err
	}
	log.Debugw("report stage", "stage", StageRendered, "chart_bytes", len(chart))

	generatedAt := s.clock.Now().In(s.loc)
	document, err := s.composer.Compose(DocumentInput{
		Title:       labels.Title,
		Range:       req.Range,
		Labels:      labels,
		Series:      series,
		Chart:       chart,
		GeneratedAt: generatedAt,
	})
	if err != nil {
		log.Errorw("report composition failed", "error", err)
		return nil, err
	}
	log.Debugw("report stage", "stage", StageComposed, "document_bytes", len(document))

	artifact, err := s.store.Save(ctx, document, FileName(req.Metric, generatedAt), models.ReportMetadata{
		Title:       labels.Title,
		DateRange:   req.Range,
		Metric:      req.Metric,
		Series:      series,
		GeneratedAt: generatedAt,
	})
	if err != nil {
		log.Errorw("report storage failed", "error", err)
		return nil, err
	}
	log.Debugw("report stage", "stage", StageStored, "report_id", artifact.ID)

	if err := s.publisher.PublishReportGenerated(ctx, artifact); err != nil {
		log.Warnw("failed to publish report event", "report_id", artifact.ID, "error", err)
	}

	log.Infow("report generated",
		"stage", StageDone,
		"report_id", artifact.ID,
		"file_name", artifact.FileName,
		"points", len(series))
	return artifact, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.ReportArtifact, error) {
	return s.store.Retrieve(ctx, id)
}

func (s *Service) List(ctx context.Context, filter repositories.ReportFilter) ([]*models.ReportArtifact, error) {
	return s.store.List(ctx, filter)
}

// Document returns the stored report with its PDF bytes.
func (s *Service) Document(ctx context.Context, id string) (*models.ReportArtifact, error) {
	return s.store.Open(ctx, id)
}
