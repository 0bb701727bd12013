package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	ierr "github.com/majawitosz/tab-backend/internal/errors"
	"github.com/majawitosz/tab-backend/internal/logger"
	"github.com/majawitosz/tab-backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testArtifact() *models.ReportArtifact {
	return &models.ReportArtifact{
		ID:        "ckreport1",
		Title:     "Przychód dzienny",
		FileName:  "overall_income_20240302120000.pdf",
		DateRange: models.NewDateRange(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)),
		Metric:    models.MetricOverallIncome,
		Series: models.Series{
			{Label: "2024-03-01", Value: decimal.RequireFromString("10.10")},
		},
		GeneratedAt: time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC),
		URL:         "http://localhost/media/reports/overall_income_20240302120000.pdf",
	}
}

func TestSaramaPublisher_PublishReportGenerated(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewSaramaConfig())
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "ckreport1" {
			return errors.New("unexpected key " + string(key))
		}
		return nil
	})

	pub := NewSaramaPublisherWithProducer(producer, "reports", logger.NewNop())
	require.NoError(t, pub.PublishReportGenerated(context.Background(), testArtifact()))
	require.NoError(t, pub.Close())
}

func TestSaramaPublisher_SendFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, NewSaramaConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := NewSaramaPublisherWithProducer(producer, "reports", logger.NewNop())
	err := pub.PublishReportGenerated(context.Background(), testArtifact())
	require.Error(t, err)
	assert.True(t, ierr.Is(err, sarama.ErrOutOfBrokers))
	require.NoError(t, pub.Close())
}

func TestNewReportGenerated(t *testing.T) {
	data, err := encode(testArtifact())
	require.NoError(t, err)

	var evt ReportGenerated
	require.NoError(t, json.Unmarshal(data, &evt))
	assert.Equal(t, TypeReportGenerated, evt.Type)
	assert.Equal(t, "ckreport1", evt.ReportID)
	assert.Equal(t, models.MetricOverallIncome, evt.Metric)
	assert.Equal(t, "2024-03-01", evt.StartDate)
	assert.Equal(t, "2024-03-02", evt.EndDate)
	assert.Equal(t, 1, evt.Points)
}
