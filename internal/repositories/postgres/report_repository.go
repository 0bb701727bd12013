package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	ierr "github.com/majawitosz/tab-backend/internal/errors"
	"github.com/majawitosz/tab-backend/internal/models"
	"github.com/majawitosz/tab-backend/internal/repositories"
	"github.com/shopspring/decimal"
)

const uniqueViolation = "23505"

type ReportRepository struct {
	pool *pgxpool.Pool
}

func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// seriesData is the JSON layout of reports.data: {"rows": [["label", 12.5], ...]}.
type seriesData struct {
	Rows [][2]interface{} `json:"rows"`
}

func EncodeSeries(series models.Series) ([]byte, error) {
	data := seriesData{Rows: make([][2]interface{}, len(series))}
	for i, p := range series {
		data.Rows[i] = [2]interface{}{p.Label, json.Number(p.Value.String())}
	}
	return json.Marshal(data)
}

func DecodeSeries(raw []byte) (models.Series, error) {
	var data struct {
		Rows [][]interface{} `json:"rows"`
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil {
		return nil, err
	}

	series := make(models.Series, 0, len(data.Rows))
	for i, row := range data.Rows {
		if len(row) != 2 {
			return nil, fmt.Errorf("row %d: expected 2 columns, got %d", i, len(row))
		}
		label, ok := row[0].(string)
		if !ok {
			return nil, fmt.Errorf("row %d: label is not a string", i)
		}
		var value decimal.Decimal
		var err error
		switch v := row[1].(type) {
		case json.Number:
			value, err = decimal.NewFromString(v.String())
		case string:
			value, err = decimal.NewFromString(v)
		default:
			err = fmt.Errorf("unexpected value type %T", v)
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		series = append(series, models.SeriesPoint{Label: label, Value: value})
	}
	return series, nil
}

func (r *ReportRepository) Create(ctx context.Context, report *models.ReportArtifact) error {
	data, err := EncodeSeries(report.Series)
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrInternal)
	}

	query := `
        INSERT INTO reports (
            id, title, file_name, start_date, end_date, filter_by, generated_at, data
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8
        )
    `
	_, err = r.pool.Exec(ctx, query,
		report.ID,
		report.Title,
		report.FileName,
		report.DateRange.Start,
		report.DateRange.End,
		string(report.Metric),
		report.GeneratedAt,
		data,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ierr.WithError(err).
				WithHint("A report with this file name already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	return nil
}

const reportColumns = `
            id,
            title,
            file_name,
            start_date,
            end_date,
            filter_by,
            generated_at,
            data
`

func scanReport(row pgx.Row) (*models.ReportArtifact, error) {
	report := &models.ReportArtifact{}
	var metric string
	var data []byte
	err := row.Scan(
		&report.ID,
		&report.Title,
		&report.FileName,
		&report.DateRange.Start,
		&report.DateRange.End,
		&metric,
		&report.GeneratedAt,
		&data,
	)
	if err != nil {
		return nil, err
	}
	report.Metric = models.MetricSelector(metric)
	if report.Series, err = DecodeSeries(data); err != nil {
		return nil, fmt.Errorf("decode series of report %s: %w", report.ID, err)
	}
	return report, nil
}

func (r *ReportRepository) Get(ctx context.Context, id string) (*models.ReportArtifact, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`
	report, err := scanReport(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ierr.NewErrorf("report %s not found", id).
				WithHint("Report not found").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	return report, nil
}

func (r *ReportRepository) List(ctx context.Context, filter repositories.ReportFilter) ([]*models.ReportArtifact, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE ($1 = '' OR filter_by = $1) ORDER BY generated_at DESC, id`
	args := []interface{}{string(filter.Metric)}
	if filter.Limit > 0 {
		query += ` LIMIT $2`
		args = append(args, filter.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var reports []*models.ReportArtifact
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	return reports, nil
}
