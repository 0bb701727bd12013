package reporting

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	ierr "github.com/majawitosz/tab-backend/internal/errors"
	"github.com/majawitosz/tab-backend/internal/models"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

type ExportFormat string

const (
	FormatCSV     ExportFormat = "csv"
	FormatParquet ExportFormat = "parquet"
)

func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(s) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatParquet:
		return FormatParquet, nil
	}
	return "", ierr.NewErrorf("unsupported export format %q", s).
		WithHint("Format must be csv or parquet").
		Mark(ierr.ErrValidation)
}

func (f ExportFormat) ContentType() string {
	if f == FormatParquet {
		return "application/vnd.apache.parquet"
	}
	return "text/csv; charset=utf-8"
}

// SeriesRow is one exported data point. Value keeps the exact decimal text;
// ValueDouble is there for tools that want a numeric column.
type SeriesRow struct {
	Position    int32   `csv:"position" parquet:"name=position, type=INT32"`
	Label       string  `csv:"label" parquet:"name=label, type=BYTE_ARRAY, convertedtype=UTF8"`
	Value       string  `csv:"value" parquet:"name=value, type=BYTE_ARRAY, convertedtype=UTF8"`
	ValueDouble float64 `csv:"-" parquet:"name=value_double, type=DOUBLE"`
}

func SeriesRows(series models.Series) []*SeriesRow {
	rows := make([]*SeriesRow, len(series))
	for i, p := range series {
		rows[i] = &SeriesRow{
			Position:    int32(i + 1),
			Label:       p.Label,
			Value:       p.Value.String(),
			ValueDouble: p.Value.InexactFloat64(),
		}
	}
	return rows
}

func WriteCSV(w io.Writer, series models.Series) error {
	if err := gocsv.Marshal(SeriesRows(series), w); err != nil {
		return ierr.WithError(err).WithHint("Failed to export series").Mark(ierr.ErrInternal)
	}
	return nil
}

func WriteParquet(w io.Writer, series models.Series) error {
	return writeParquet(newStreamFile(w), series)
}

func writeParquet(fw source.ParquetFile, series models.Series) error {
	pw, err := writer.NewParquetWriter(fw, new(SeriesRow), 1)
	if err != nil {
		return ierr.WithError(err).WithHint("Failed to export series").Mark(ierr.ErrInternal)
	}
	for _, row := range SeriesRows(series) {
		if err := pw.Write(row); err != nil {
			return ierr.WithError(err).WithHint("Failed to export series").Mark(ierr.ErrInternal)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return ierr.WithError(err).WithHint("Failed to export series").Mark(ierr.ErrInternal)
	}
	return nil
}

// Export writes series to w in the given format.
func Export(w io.Writer, format ExportFormat, series models.Series) error {
	if format == FormatParquet {
		return WriteParquet(w, series)
	}
	return WriteCSV(w, series)
}

// ExportFile writes series to a local file, replacing it if present.
func ExportFile(path string, format ExportFormat, series models.Series) error {
	if format == FormatParquet {
		fw, err := local.NewLocalFileWriter(path)
		if err != nil {
			return ierr.WithError(err).WithHintf("Failed to create %s", path).Mark(ierr.ErrStorage)
		}
		if err := writeParquet(fw, series); err != nil {
			fw.Close()
			return err
		}
		return fw.Close()
	}

	f, err := os.Create(path)
	if err != nil {
		return ierr.WithError(err).WithHintf("Failed to create %s", path).Mark(ierr.ErrStorage)
	}
	defer f.Close()
	return WriteCSV(f, series)
}

// streamFile lets the parquet writer emit into any io.Writer. The writer only
// appends, so reads and backward seeks are not supported.
type streamFile struct {
	w      io.Writer
	offset int64
}

func newStreamFile(w io.Writer) *streamFile {
	return &streamFile{w: w}
}

func (s *streamFile) Open(name string) (source.ParquetFile, error) {
	return s, nil
}

func (s *streamFile) Create(name string) (source.ParquetFile, error) {
	return s, nil
}

func (s *streamFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekCurrent:
		if offset == 0 {
			return s.offset, nil
		}
	case io.SeekStart:
		if offset == s.offset {
			return s.offset, nil
		}
	}
	return 0, fmt.Errorf("seek not supported on output stream")
}

func (s *streamFile) Read(p []byte) (int, error) {
	return 0, fmt.Errorf("read not supported on output stream")
}

func (s *streamFile) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	s.offset += int64(n)
	return n, err
}

func (s *streamFile) Close() error {
	return nil
}
