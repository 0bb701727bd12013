package api

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/majawitosz/tab-backend/internal/api/dto"
	v1 "github.com/majawitosz/tab-backend/internal/api/v1"
	"github.com/majawitosz/tab-backend/internal/blobstore"
	ierr "github.com/majawitosz/tab-backend/internal/errors"
	"github.com/majawitosz/tab-backend/internal/logger"
	"github.com/majawitosz/tab-backend/internal/models"
	"github.com/majawitosz/tab-backend/internal/reporting"
	"github.com/majawitosz/tab-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type RouterSuite struct {
	suite.Suite
	mediaDir string
	orders   *testutil.InMemoryOrderStore
	clock    *testutil.FixedClock
	router   *gin.Engine
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	log := logger.NewNop()
	s.mediaDir = s.T().TempDir()
	s.orders = testutil.NewInMemoryOrderStore()
	s.clock = testutil.NewFixedClock(time.Date(2024, 4, 1, 9, 30, 15, 0, time.UTC))

	blobs, err := blobstore.NewLocalStore(s.mediaDir, "/media/")
	s.Require().NoError(err)

	service := reporting.NewService(reporting.ServiceParams{
		Orders:  s.orders,
		Reports: testutil.NewInMemoryReportStore(),
		Blobs:   blobs,
		Clock:   s.clock,
		Logger:  log,
	})
	s.router = NewRouter(Handlers{
		Report: v1.NewReportHandler(service, log),
		Health: v1.NewHealthHandler(nil, log),
	}, RouterOptions{MediaDir: s.mediaDir, Mode: gin.TestMode}, log)

	lines := []*models.OrderLine{
		{MenuItemID: 1, MenuItemName: "Pierogi", Quantity: 2, PriceAtTime: decimal.RequireFromString("25.00")},
		{MenuItemID: 2, MenuItemName: "Żurek", Quantity: 1, PriceAtTime: decimal.RequireFromString("25.50")},
	}
	s.Require().NoError(s.orders.Create(context.Background(), &models.Order{
		TableNumber: 4,
		Status:      models.OrderStatusCompleted,
		TotalAmount: decimal.RequireFromString("75.50"),
		CreatedAt:   time.Date(2024, 3, 5, 18, 0, 0, 0, time.UTC),
	}, lines))
}

func (s *RouterSuite) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Host = "tab.example.com"
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *RouterSuite) generate(filterBy string) dto.GenerateReportResponse {
	w := s.do(http.MethodPost, "/api/reports/generate",
		`{"start_date":"2024-03-01","end_date":"2024-03-31","filter_by":"`+filterBy+`"}`)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp dto.GenerateReportResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (s *RouterSuite) TestGenerate() {
	resp := s.generate("overall_income")
	s.Equal("http://tab.example.com/media/reports/overall_income_20240401093015.pdf", resp.FileURL)

	_, err := os.Stat(filepath.Join(s.mediaDir, "reports", "overall_income_20240401093015.pdf"))
	s.NoError(err)

	w := s.do(http.MethodGet, "/media/reports/overall_income_20240401093015.pdf", "")
	s.Equal(http.StatusOK, w.Code)
	s.True(bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
}

func (s *RouterSuite) TestGenerate_ValidationErrors() {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"start_date":`},
		{"missing end date", `{"start_date":"2024-03-01","filter_by":"dish_income"}`},
		{"unknown metric", `{"start_date":"2024-03-01","end_date":"2024-03-31","filter_by":"tips"}`},
		{"bad date", `{"start_date":"03/01/2024","end_date":"2024-03-31","filter_by":"dish_income"}`},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			w := s.do(http.MethodPost, "/api/reports/generate", tt.body)
			s.Equal(http.StatusBadRequest, w.Code)

			var body ierr.ErrorResponse
			s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
			s.NotEmpty(body.Error.Display)
		})
	}
}

func (s *RouterSuite) TestGenerate_InvertedRange() {
	w := s.do(http.MethodPost, "/api/reports/generate",
		`{"start_date":"2024-03-31","end_date":"2024-03-01","filter_by":"dish_popularity"}`)
	s.Equal(http.StatusOK, w.Code)
}

func (s *RouterSuite) TestGenerate_Collision() {
	s.generate("dish_income")

	w := s.do(http.MethodPost, "/api/reports/generate",
		`{"start_date":"2024-03-01","end_date":"2024-03-31","filter_by":"dish_income"}`)
	s.Equal(http.StatusConflict, w.Code)
}

func (s *RouterSuite) TestGetAndListReports() {
	s.generate("dish_income")

	w := s.do(http.MethodGet, "/api/reports?filter_by=dish_income", "")
	s.Require().Equal(http.StatusOK, w.Code)
	var list dto.ListReportsResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &list))
	s.Require().Len(list.Items, 1)

	id := list.Items[0].ID
	w = s.do(http.MethodGet, "/api/reports/"+id, "")
	s.Require().Equal(http.StatusOK, w.Code)

	var report dto.ReportResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &report))
	s.Equal("Dochód po daniu", report.Title)
	s.Equal("http://tab.example.com/media/reports/dish_income_20240401093015.pdf", report.FileURL)
	s.Equal([]dto.SeriesPointResponse{
		{Label: "Pierogi", Value: "50.00"},
		{Label: "Żurek", Value: "25.50"},
	}, report.Series)
}

func (s *RouterSuite) TestGetReport_NotFound() {
	w := s.do(http.MethodGet, "/api/reports/missing", "")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RouterSuite) TestGetReportData() {
	s.generate("dish_popularity")
	w := s.do(http.MethodGet, "/api/reports?filter_by=dish_popularity", "")
	var list dto.ListReportsResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &list))
	s.Require().Len(list.Items, 1)
	id := list.Items[0].ID

	w = s.do(http.MethodGet, "/api/reports/"+id+"/data?format=csv", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Header().Get("Content-Disposition"), "dish_popularity_20240401093015.csv")
	records, err := csv.NewReader(w.Body).ReadAll()
	s.Require().NoError(err)
	s.Equal([][]string{
		{"position", "label", "value"},
		{"1", "Pierogi", "2"},
		{"2", "Żurek", "1"},
	}, records)

	w = s.do(http.MethodGet, "/api/reports/"+id+"/data?format=parquet", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("PAR1", w.Body.String()[:4])

	w = s.do(http.MethodGet, "/api/reports/"+id+"/data?format=xml", "")
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RouterSuite) TestGetReportDocument() {
	s.generate("overall_income")
	w := s.do(http.MethodGet, "/api/reports?filter_by=overall_income", "")
	var list dto.ListReportsResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &list))
	s.Require().Len(list.Items, 1)

	w = s.do(http.MethodGet, "/api/reports/"+list.Items[0].ID+"/document", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("application/pdf", w.Header().Get("Content-Type"))
	s.Contains(w.Header().Get("Content-Disposition"), "overall_income_20240401093015.pdf")
	s.True(bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w = s.do(http.MethodGet, "/api/reports/missing/document", "")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *RouterSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", "")
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"status":"ok"}`, w.Body.String())
}
