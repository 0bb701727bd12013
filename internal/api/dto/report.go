package dto

import (
	"strconv"
	"time"

	ierr "github.com/majawitosz/tab-backend/internal/errors"
	"github.com/majawitosz/tab-backend/internal/models"
	"github.com/majawitosz/tab-backend/internal/reporting"
	"github.com/majawitosz/tab-backend/internal/repositories"
	"github.com/majawitosz/tab-backend/internal/validator"
	"github.com/samber/lo"
)

type GenerateReportRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	FilterBy  string `json:"filter_by" validate:"required,oneof=overall_income dish_popularity dish_income"`
}

// Validate checks the request and converts it for the report service. A start
// date after the end date is accepted and produces an empty report.
func (r *GenerateReportRequest) Validate() (reporting.GenerateRequest, error) {
	if err := validator.ValidateRequest(r); err != nil {
		return reporting.GenerateRequest{}, err
	}

	dateRange, err := models.ParseDateRange(r.StartDate, r.EndDate)
	if err != nil {
		return reporting.GenerateRequest{}, ierr.WithError(err).
			WithHint("Dates must use the YYYY-MM-DD format").
			Mark(ierr.ErrValidation)
	}
	metric, err := models.ParseMetricSelector(r.FilterBy)
	if err != nil {
		return reporting.GenerateRequest{}, ierr.WithError(err).
			WithHint("filter_by must be one of: overall_income, dish_popularity, dish_income").
			Mark(ierr.ErrValidation)
	}
	return reporting.GenerateRequest{Metric: metric, Range: dateRange}, nil
}

type GenerateReportResponse struct {
	FileURL string `json:"file_url"`
}

type SeriesPointResponse struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type ReportResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	FileName    string                `json:"file_name"`
	FileURL     string                `json:"file_url"`
	StartDate   string                `json:"start_date"`
	EndDate     string                `json:"end_date"`
	FilterBy    models.MetricSelector `json:"filter_by"`
	GeneratedAt time.Time             `json:"generated_at"`
	Series      []SeriesPointResponse `json:"series"`
}

// NewReportResponse renders a stored report. fileURL replaces the stored
// locator, which may be relative.
func NewReportResponse(a *models.ReportArtifact, fileURL string) *ReportResponse {
	return &ReportResponse{
		ID:          a.ID,
		Title:       a.Title,
		FileName:    a.FileName,
		FileURL:     fileURL,
		StartDate:   a.DateRange.Start.Format(models.DateLayout),
		EndDate:     a.DateRange.End.Format(models.DateLayout),
		FilterBy:    a.Metric,
		GeneratedAt: a.GeneratedAt,
		Series: lo.Map(a.Series, func(p models.SeriesPoint, _ int) SeriesPointResponse {
			return SeriesPointResponse{Label: p.Label, Value: p.Value.StringFixed(2)}
		}),
	}
}

type ListReportsResponse struct {
	Items []*ReportResponse `json:"items"`
}

// ListReportsQuery binds GET /api/reports query parameters.
type ListReportsQuery struct {
	FilterBy string `form:"filter_by" json:"filter_by" validate:"omitempty,oneof=overall_income dish_popularity dish_income"`
	Limit    string `form:"limit" json:"limit" validate:"omitempty,number"`
}

func (q *ListReportsQuery) Validate() (repositories.ReportFilter, error) {
	if err := validator.ValidateRequest(q); err != nil {
		return repositories.ReportFilter{}, err
	}
	filter := repositories.ReportFilter{Metric: models.MetricSelector(q.FilterBy), Limit: 50}
	if q.Limit != "" {
		limit, err := strconv.Atoi(q.Limit)
		if err != nil || limit < 1 {
			return repositories.ReportFilter{}, ierr.NewErrorf("invalid limit %q", q.Limit).
				WithHint("limit must be a positive number").
				Mark(ierr.ErrValidation)
		}
		filter.Limit = lo.Min([]int{limit, 500})
	}
	return filter, nil
}
