package reporting

import (
	"bytes"
	"image/color"
	"math"

	ierr "github.com/majawitosz/tab-backend/internal/errors"
	"github.com/majawitosz/tab-backend/internal/models"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	chartWidth  = 6 * vg.Inch
	chartHeight = 4 * vg.Inch
)

var (
	navy = color.RGBA{R: 0x00, G: 0x00, B: 0x80, A: 0xff}
	teal = color.RGBA{R: 0x00, G: 0x80, B: 0x80, A: 0xff}
)

// RenderChart draws the series as a PNG: a line for daily income, horizontal
// bars for the dish rankings. An empty series gives an empty but valid plot.
func RenderChart(series models.Series, metric models.MetricSelector) ([]byte, error) {
	labels, ok := models.LabelsFor(metric)
	if !ok {
		return nil, ierr.NewErrorf("unknown metric %q", metric).Mark(ierr.ErrValidation)
	}

	p := plot.New()
	p.Title.Text = labels.Title

	var err error
	switch labels.Chart {
	case models.ChartLine:
		err = lineChart(p, series, labels)
	default:
		err = horizontalBarChart(p, series, labels)
	}
	if err != nil {
		return nil, ierr.WithError(err).WithHint("Failed to render chart").Mark(ierr.ErrRendering)
	}

	w, err := p.WriterTo(chartWidth, chartHeight, "png")
	if err != nil {
		return nil, ierr.WithError(err).WithHint("Failed to render chart").Mark(ierr.ErrRendering)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, ierr.WithError(err).WithHint("Failed to render chart").Mark(ierr.ErrRendering)
	}
	return buf.Bytes(), nil
}

func lineChart(p *plot.Plot, series models.Series, labels models.MetricLabels) error {
	p.X.Label.Text = labels.Column1
	p.Y.Label.Text = labels.Column2
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Add(verticalGrid())

	if len(series) == 0 {
		return nil
	}

	xys := make(plotter.XYs, len(series))
	for i, pt := range series {
		xys[i].X = float64(i)
		xys[i].Y = pt.Value.InexactFloat64()
	}
	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return err
	}
	line.Color = navy
	points.Color = navy
	points.Shape = draw.CircleGlyph{}
	p.Add(line, points)
	p.NominalX(series.Labels()...)
	return nil
}

// horizontalBarChart puts the first point at the top, as gonum numbers the
// category axis bottom-up.
func horizontalBarChart(p *plot.Plot, series models.Series, labels models.MetricLabels) error {
	p.X.Label.Text = labels.Column2
	p.Y.Label.Text = labels.Column1
	p.Add(verticalGrid())

	if len(series) == 0 {
		return nil
	}

	n := len(series)
	values := make(plotter.Values, n)
	names := make([]string, n)
	for i, pt := range series {
		values[n-1-i] = pt.Value.InexactFloat64()
		names[n-1-i] = pt.Label
	}

	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return err
	}
	bars.Horizontal = true
	bars.Color = teal
	bars.LineStyle.Color = teal
	p.Add(bars)
	p.NominalY(names...)
	return nil
}

func verticalGrid() *plotter.Grid {
	grid := plotter.NewGrid()
	grid.Horizontal.Color = nil
	grid.Vertical.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	grid.Vertical.Color = color.Gray{Y: 0xb0}
	return grid
}
