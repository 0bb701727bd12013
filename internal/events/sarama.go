package events

import (
	"context"
	"strings"
	"time"

	"github.com/IBM/sarama"
	ierr "github.com/majawitosz/tab-backend/internal/errors"
	"github.com/majawitosz/tab-backend/internal/logger"
	"github.com/majawitosz/tab-backend/internal/models"
)

type SaramaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

func NewSaramaConfig() *sarama.Config {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // Must be true for SyncProducer
	saramaConfig.Net.DialTimeout = 30 * time.Second
	saramaConfig.Net.ReadTimeout = 30 * time.Second
	saramaConfig.Net.WriteTimeout = 30 * time.Second
	return saramaConfig
}

func NewSaramaPublisher(cfg models.KafkaConfig, log *logger.Logger) (*SaramaPublisher, error) {
	brokerList := strings.Split(cfg.BrokerList, ",")

	producer, err := sarama.NewSyncProducer(brokerList, NewSaramaConfig())
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to connect to kafka brokers %v", brokerList).
			Mark(ierr.ErrInternal)
	}

	log.Infow("kafka producer created", "brokers", brokerList, "topic", cfg.Topic)
	return NewSaramaPublisherWithProducer(producer, cfg.Topic, log), nil
}

func NewSaramaPublisherWithProducer(producer sarama.SyncProducer, topic string, log *logger.Logger) *SaramaPublisher {
	return &SaramaPublisher{producer: producer, topic: topic, log: log}
}

// PublishReportGenerated keys the message by report id.
func (s *SaramaPublisher) PublishReportGenerated(ctx context.Context, report *models.ReportArtifact) error {
	if s.producer == nil {
		return ierr.NewError("kafka producer is not initialized").Mark(ierr.ErrInternal)
	}

	msg, err := encode(report)
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrInternal)
	}

	partition, offset, err := s.producer.SendMessage(&sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(report.ID),
		Value: sarama.ByteEncoder(msg),
	})
	if err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to send message to topic %s", s.topic).
			Mark(ierr.ErrInternal)
	}

	s.log.WithContext(ctx).Debugw("report event published",
		"report_id", report.ID,
		"topic", s.topic,
		"partition", partition,
		"offset", offset)
	return nil
}

func (s *SaramaPublisher) Close() error {
	if s.producer != nil {
		return s.producer.Close()
	}
	return nil
}
