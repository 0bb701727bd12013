package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/majawitosz/tab-backend/internal/blobstore"
	"github.com/majawitosz/tab-backend/internal/database"
	"github.com/majawitosz/tab-backend/internal/events"
	"github.com/majawitosz/tab-backend/internal/logger"
	"github.com/majawitosz/tab-backend/internal/models"
	"github.com/majawitosz/tab-backend/internal/reporting"
	"github.com/majawitosz/tab-backend/internal/repositories"
	"github.com/majawitosz/tab-backend/internal/repositories/postgres"
)

// app holds the process wide dependencies shared by the commands.
type app struct {
	cfg       *models.Config
	log       *logger.Logger
	loc       *time.Location
	pool      *pgxpool.Pool
	blobs     blobstore.Store
	publisher events.Publisher
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := models.LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	log, err := logger.NewLogger(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("error creating logger: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	pool, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log, loc: loc, pool: pool}, nil
}

// withReporting opens the blob store and, when enabled, the kafka producer.
func (a *app) withReporting(ctx context.Context) error {
	blobs, err := blobstore.New(ctx, a.cfg.Storage)
	if err != nil {
		return err
	}
	a.blobs = blobs

	a.publisher = events.NopPublisher{}
	if a.cfg.Kafka.Enabled {
		publisher, err := events.NewSaramaPublisher(a.cfg.Kafka, a.log)
		if err != nil {
			return err
		}
		a.publisher = publisher
	}
	return nil
}

func (a *app) reportRepository() repositories.ReportRepository {
	var reports repositories.ReportRepository = postgres.NewReportRepository(a.pool)
	if a.cfg.Reporting.CacheTTL > 0 {
		reports = repositories.NewCachedReportRepository(reports, a.cfg.Reporting.CacheTTL)
	}
	return reports
}

func (a *app) reportService() *reporting.Service {
	return reporting.NewService(reporting.ServiceParams{
		Orders:    postgres.NewOrderRepository(a.pool),
		Reports:   a.reportRepository(),
		Blobs:     a.blobs,
		Publisher: a.publisher,
		Location:  a.loc,
		Logger:    a.log,
	})
}

func (a *app) Close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Errorw("failed to close kafka producer", "error", err)
		}
	}
	a.pool.Close()
	_ = a.log.Sync()
}
