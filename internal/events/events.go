package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/majawitosz/tab-backend/internal/models"
)

const TypeReportGenerated = "report.generated"

// ReportGenerated is published once a report has been stored.
type ReportGenerated struct {
	Type        string                `json:"type"`
	ReportID    string                `json:"report_id"`
	FileName    string                `json:"file_name"`
	FileURL     string                `json:"file_url"`
	Metric      models.MetricSelector `json:"filter_by"`
	StartDate   string                `json:"start_date"`
	EndDate     string                `json:"end_date"`
	Points      int                   `json:"points"`
	GeneratedAt time.Time             `json:"generated_at"`
}

func NewReportGenerated(a *models.ReportArtifact) ReportGenerated {
	return ReportGenerated{
		Type:        TypeReportGenerated,
		ReportID:    a.ID,
		FileName:    a.FileName,
		FileURL:     a.URL,
		Metric:      a.Metric,
		StartDate:   a.DateRange.Start.Format(models.DateLayout),
		EndDate:     a.DateRange.End.Format(models.DateLayout),
		Points:      len(a.Series),
		GeneratedAt: a.GeneratedAt,
	}
}

// Publisher announces finished reports to other services.
type Publisher interface {
	PublishReportGenerated(ctx context.Context, report *models.ReportArtifact) error
	Close() error
}

// NopPublisher is used when kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishReportGenerated(context.Context, *models.ReportArtifact) error {
	return nil
}

func (NopPublisher) Close() error { return nil }

func encode(a *models.ReportArtifact) ([]byte, error) {
	return json.Marshal(NewReportGenerated(a))
}
