package reporting

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	ierr "github.com/majawitosz/tab-backend/internal/errors"
	"github.com/majawitosz/tab-backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/signintech/gopdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	fontRegular = "goregular"
	fontBold    = "gobold"

	pageMargin   = 30.0
	headingSize  = 18
	bodySize     = 10
	headingLineH = 24.0
	rowHeight    = 18.0
	cellPadding  = 4.0

	chartImageW = 450.0
	chartImageH = 300.0
)

var (
	summaryColWidths = [2]float64{100, 300}
	dataColWidths    = [2]float64{250, 150}
)

// DocumentInput is everything the composer puts on the page.
type DocumentInput struct {
	Title       string
	Range       models.DateRange
	Labels      models.MetricLabels
	Series      models.Series
	Chart       []byte
	GeneratedAt time.Time
}

// Layout is the textual content of a report, in page order.
type Layout struct {
	Heading string
	Summary [][2]string
	Header  [2]string
	Rows    [][2]string
}

// BuildLayout renders all text of the document. It depends only on its input.
func BuildLayout(in DocumentInput) Layout {
	layout := Layout{
		Heading: "Raport: " + in.Title,
		Summary: [][2]string{
			{"Okres", in.Range.String()},
			{"Typ raportu", in.Title},
			{"Wygenerowano", in.GeneratedAt.Format(models.TimestampLayout)},
		},
		Header: [2]string{in.Labels.Column1, in.Labels.Column2},
		Rows:   make([][2]string, 0, len(in.Series)),
	}
	for _, p := range in.Series {
		layout.Rows = append(layout.Rows, [2]string{p.Label, FormatAmount(p.Value)})
	}
	return layout
}

// FormatAmount formats d with two decimals and comma thousands separators,
// e.g. 1234567.891 -> "1,234,567.89".
func FormatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)
	return b.String()
}

// Composer lays out report documents on A4 pages.
type Composer struct{}

func NewComposer() *Composer {
	return &Composer{}
}

func (c *Composer) Compose(in DocumentInput) ([]byte, error) {
	doc, err := newDocument()
	if err != nil {
		return nil, ierr.WithError(err).WithHint("Failed to compose report document").Mark(ierr.ErrRendering)
	}
	if err := doc.render(BuildLayout(in), in.Chart); err != nil {
		return nil, ierr.WithError(err).WithHint("Failed to compose report document").Mark(ierr.ErrRendering)
	}

	var buf bytes.Buffer
	if _, err := doc.pdf.WriteTo(&buf); err != nil {
		return nil, ierr.WithError(err).WithHint("Failed to compose report document").Mark(ierr.ErrRendering)
	}
	return buf.Bytes(), nil
}

type pdfDoc struct {
	pdf *gopdf.GoPdf
	y   float64
}

func newDocument() (*pdfDoc, error) {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	if err := pdf.AddTTFFontData(fontRegular, goregular.TTF); err != nil {
		return nil, fmt.Errorf("load regular font: %w", err)
	}
	if err := pdf.AddTTFFontData(fontBold, gobold.TTF); err != nil {
		return nil, fmt.Errorf("load bold font: %w", err)
	}
	pdf.AddPage()
	pdf.SetLineWidth(0.5)
	pdf.SetStrokeColor(128, 128, 128)
	return &pdfDoc{pdf: pdf, y: pageMargin}, nil
}

func (d *pdfDoc) pageBottom() float64 {
	return gopdf.PageSizeA4.H - pageMargin
}

func (d *pdfDoc) breakPage() {
	d.pdf.AddPage()
	d.y = pageMargin
}

func (d *pdfDoc) render(layout Layout, chart []byte) error {
	if err := d.pdf.SetFont(fontBold, "", headingSize); err != nil {
		return err
	}
	d.pdf.SetXY(pageMargin, d.y)
	if err := d.pdf.Cell(&gopdf.Rect{W: gopdf.PageSizeA4.W - 2*pageMargin, H: headingLineH}, layout.Heading); err != nil {
		return err
	}
	d.y += headingLineH + 12

	if err := d.summaryTable(layout.Summary); err != nil {
		return err
	}
	d.y += 24

	if err := d.dataTable(layout.Header, layout.Rows); err != nil {
		return err
	}
	d.y += 24

	if len(chart) == 0 {
		return nil
	}
	if d.y+chartImageH > d.pageBottom() {
		d.breakPage()
	}
	holder, err := gopdf.ImageHolderByBytes(chart)
	if err != nil {
		return fmt.Errorf("read chart image: %w", err)
	}
	return d.pdf.ImageByHolder(holder, pageMargin, d.y, &gopdf.Rect{W: chartImageW, H: chartImageH})
}

func (d *pdfDoc) summaryTable(rows [][2]string) error {
	for i, row := range rows {
		if err := d.row(summaryColWidths, row, i == 0, false, false); err != nil {
			return err
		}
	}
	return nil
}

// dataTable repeats the header row on every page it spans.
func (d *pdfDoc) dataTable(header [2]string, rows [][2]string) error {
	if err := d.row(dataColWidths, header, true, false, true); err != nil {
		return err
	}
	for _, row := range rows {
		if d.y+rowHeight > d.pageBottom() {
			d.breakPage()
			if err := d.row(dataColWidths, header, true, false, true); err != nil {
				return err
			}
		}
		if err := d.row(dataColWidths, row, false, true, false); err != nil {
			return err
		}
	}
	return nil
}

// row draws one two-column table row at the current position and advances.
func (d *pdfDoc) row(widths [2]float64, cells [2]string, fill, alignRight, bold bool) error {
	font := fontRegular
	if bold {
		font = fontBold
	}
	if err := d.pdf.SetFont(font, "", bodySize); err != nil {
		return err
	}

	x := pageMargin
	for i, text := range cells {
		style := "D"
		if fill {
			d.pdf.SetFillColor(211, 211, 211)
			style = "FD"
		}
		if err := d.pdf.Rectangle(x, d.y, x+widths[i], d.y+rowHeight, style, 0, 0); err != nil {
			return err
		}

		align := gopdf.Left | gopdf.Middle
		if alignRight && i == 1 {
			align = gopdf.Right | gopdf.Middle
		}
		fitted, err := d.fit(text, widths[i]-2*cellPadding)
		if err != nil {
			return err
		}
		d.pdf.SetTextColor(0, 0, 0)
		d.pdf.SetXY(x+cellPadding, d.y)
		err = d.pdf.CellWithOption(&gopdf.Rect{W: widths[i] - 2*cellPadding, H: rowHeight}, fitted, gopdf.CellOption{Align: align})
		if err != nil {
			return err
		}
		x += widths[i]
	}
	d.y += rowHeight
	return nil
}

// fit shortens text with an ellipsis until it fits into width.
func (d *pdfDoc) fit(text string, width float64) (string, error) {
	w, err := d.pdf.MeasureTextWidth(text)
	if err != nil || w <= width {
		return text, err
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "…"
		if w, err = d.pdf.MeasureTextWidth(candidate); err != nil {
			return "", err
		}
		if w <= width {
			return candidate, nil
		}
	}
	return "", nil
}
