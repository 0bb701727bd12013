package v1

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/majawitosz/tab-backend/internal/api/dto"
	ierr "github.com/majawitosz/tab-backend/internal/errors"
	"github.com/majawitosz/tab-backend/internal/logger"
	"github.com/majawitosz/tab-backend/internal/models"
	"github.com/majawitosz/tab-backend/internal/reporting"
	"github.com/majawitosz/tab-backend/internal/repositories"
)

type ReportService interface {
	Generate(ctx context.Context, req reporting.GenerateRequest) (string, error)
	Get(ctx context.Context, id string) (*models.ReportArtifact, error)
	List(ctx context.Context, filter repositories.ReportFilter) ([]*models.ReportArtifact, error)
	Document(ctx context.Context, id string) (*models.ReportArtifact, error)
}

type ReportHandler struct {
	service ReportService
	log     *logger.Logger
}

func NewReportHandler(service ReportService, log *logger.Logger) *ReportHandler {
	return &ReportHandler{service: service, log: log}
}

// GenerateReport handles POST /api/reports/generate and responds with the
// absolute URL of the new document.
func (h *ReportHandler) GenerateReport(c *gin.Context) {
	var req dto.GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	genReq, err := req.Validate()
	if err != nil {
		c.Error(err)
		return
	}

	fileURL, err := h.service.Generate(c.Request.Context(), genReq)
	if err != nil {
		h.log.WithContext(c.Request.Context()).Errorw("failed to generate report", "filter_by", req.FilterBy, "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.GenerateReportResponse{FileURL: absoluteURL(c, fileURL)})
}

func (h *ReportHandler) GetReport(c *gin.Context) {
	report, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewReportResponse(report, absoluteURL(c, report.URL)))
}

func (h *ReportHandler) ListReports(c *gin.Context) {
	var query dto.ListReportsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid query parameters").
			Mark(ierr.ErrValidation))
		return
	}
	filter, err := query.Validate()
	if err != nil {
		c.Error(err)
		return
	}

	reports, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}

	resp := dto.ListReportsResponse{Items: make([]*dto.ReportResponse, 0, len(reports))}
	for _, r := range reports {
		resp.Items = append(resp.Items, dto.NewReportResponse(r, absoluteURL(c, r.URL)))
	}
	c.JSON(http.StatusOK, resp)
}

// GetReportData streams the stored series of a report as csv or parquet.
func (h *ReportHandler) GetReportData(c *gin.Context) {
	format, err := reporting.ParseExportFormat(c.Query("format"))
	if err != nil {
		c.Error(err)
		return
	}

	report, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	var buf bytes.Buffer
	if err := reporting.Export(&buf, format, report.Series); err != nil {
		c.Error(err)
		return
	}

	name := strings.TrimSuffix(report.FileName, ".pdf") + "." + string(format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// GetReportDocument serves the stored PDF of a report.
func (h *ReportHandler) GetReportDocument(c *gin.Context) {
	report, err := h.service.Document(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", report.FileName))
	c.Data(http.StatusOK, "application/pdf", report.Document)
}

// absoluteURL resolves a host relative locator against the request.
func absoluteURL(c *gin.Context, u string) string {
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	if !strings.HasPrefix(u, "/") {
		u = "/" + u
	}
	return scheme + "://" + c.Request.Host + u
}
