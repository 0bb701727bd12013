package reporting

import (
	"bytes"
	"image/png"
	"testing"

	ierr "github.com/majawitosz/tab-backend/internal/errors"
	"github.com/majawitosz/tab-backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderChart(t *testing.T) {
	tests := []struct {
		name   string
		metric models.MetricSelector
		series models.Series
	}{
		{
			name:   "daily income line",
			metric: models.MetricOverallIncome,
			series: models.Series{
				{Label: "2024-03-01", Value: decimal.RequireFromString("125.50")},
				{Label: "2024-03-02", Value: decimal.RequireFromString("80.00")},
			},
		},
		{
			name:   "dish popularity bars",
			metric: models.MetricDishPopularity,
			series: models.Series{
				{Label: "Pierogi ruskie", Value: decimal.NewFromInt(12)},
				{Label: "Żurek", Value: decimal.NewFromInt(4)},
			},
		},
		{
			name:   "dish income single bar",
			metric: models.MetricDishIncome,
			series: models.Series{{Label: "Bigos", Value: decimal.RequireFromString("99.99")}},
		},
		{name: "empty line", metric: models.MetricOverallIncome, series: models.Series{}},
		{name: "empty bars", metric: models.MetricDishIncome, series: models.Series{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := RenderChart(tt.series, tt.metric)
			require.NoError(t, err)

			cfg, err := png.DecodeConfig(bytes.NewReader(img))
			require.NoError(t, err)
			assert.Equal(t, cfg.Width*2, cfg.Height*3, "chart keeps a 3:2 aspect ratio")
		})
	}
}

func TestRenderChart_DoesNotReorderSeries(t *testing.T) {
	series := models.Series{
		{Label: "a", Value: decimal.NewFromInt(3)},
		{Label: "b", Value: decimal.NewFromInt(2)},
	}
	_, err := RenderChart(series, models.MetricDishPopularity)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, series.Labels())
}

func TestRenderChart_UnknownMetric(t *testing.T) {
	_, err := RenderChart(models.Series{}, "tips")
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}
