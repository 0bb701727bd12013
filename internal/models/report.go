package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MetricSelector decides what a report aggregates and how it is drawn.
type MetricSelector string

const (
	MetricOverallIncome  MetricSelector = "overall_income"
	MetricDishPopularity MetricSelector = "dish_popularity"
	MetricDishIncome     MetricSelector = "dish_income"
)

var Metrics = []MetricSelector{MetricOverallIncome, MetricDishPopularity, MetricDishIncome}

func ParseMetricSelector(s string) (MetricSelector, error) {
	for _, m := range Metrics {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown metric %q", s)
}

// Ranked reports whether the metric produces a top-N dish series.
func (m MetricSelector) Ranked() bool {
	return m == MetricDishPopularity || m == MetricDishIncome
}

type ChartKind string

const (
	ChartLine          ChartKind = "line"
	ChartHorizontalBar ChartKind = "horizontal_bar"
)

// MetricLabels holds the fixed captions of a metric.
type MetricLabels struct {
	Title   string
	Column1 string
	Column2 string
	Chart   ChartKind
}

var metricLabels = map[MetricSelector]MetricLabels{
	MetricOverallIncome:  {Title: "Przychód dzienny", Column1: "Data", Column2: "Przychód [PLN]", Chart: ChartLine},
	MetricDishPopularity: {Title: "Popularność dań", Column1: "Danie", Column2: "Ilość zamówień", Chart: ChartHorizontalBar},
	MetricDishIncome:     {Title: "Dochód po daniu", Column1: "Danie", Column2: "Przychód [PLN]", Chart: ChartHorizontalBar},
}

func LabelsFor(m MetricSelector) (MetricLabels, bool) {
	l, ok := metricLabels[m]
	return l, ok
}

// DateRange is an inclusive pair of calendar dates. Start after End is
// allowed and matches nothing.
type DateRange struct {
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: civilDate(start), End: civilDate(end)}
}

// ParseDateRange parses two YYYY-MM-DD dates.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid start_date %q: %w", start, err)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid end_date %q: %w", end, err)
	}
	return NewDateRange(s, e), nil
}

// Bounds returns the half-open instant interval [start 00:00, end+1 00:00)
// in loc.
func (r DateRange) Bounds(loc *time.Location) (from, to time.Time) {
	from = time.Date(r.Start.Year(), r.Start.Month(), r.Start.Day(), 0, 0, 0, 0, loc)
	to = time.Date(r.End.Year(), r.End.Month(), r.End.Day()+1, 0, 0, 0, 0, loc)
	return from, to
}

// Contains reports whether the calendar date of t, seen in loc, lies in the
// range.
func (r DateRange) Contains(t time.Time, loc *time.Location) bool {
	d := civilDate(t.In(loc))
	return !d.Before(r.Start) && !d.After(r.End)
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s – %s", r.Start.Format(DateLayout), r.End.Format(DateLayout))
}

func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type SeriesPoint struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// Series is ordered: chronological for daily income, descending by value
// for the dish rankings.
type Series []SeriesPoint

func (s Series) Labels() []string {
	labels := make([]string, len(s))
	for i, p := range s {
		labels[i] = p.Label
	}
	return labels
}

// Equal compares labels and numeric values, ignoring decimal exponents.
func (s Series) Equal(o Series) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i].Label != o[i].Label || !s[i].Value.Equal(o[i].Value) {
			return false
		}
	}
	return true
}

// ReportArtifact is a generated report document and its metadata. It is never
// modified after creation.
type ReportArtifact struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	FileName    string         `json:"file_name"`
	DateRange   DateRange      `json:"date_range"`
	Metric      MetricSelector `json:"filter_by"`
	Series      Series         `json:"series"`
	GeneratedAt time.Time      `json:"generated_at"`
	Document    []byte         `json:"-"`
	URL         string         `json:"file_url"`
}

// ReportMetadata is what the store records next to the document.
type ReportMetadata struct {
	Title       string
	DateRange   DateRange
	Metric      MetricSelector
	Series      Series
	GeneratedAt time.Time
}
