// Package ingest reads employee evaluation exports into domain employees.
//
// Records are validated at this boundary: a record with a missing name, a
// malformed email, an over-long field or a group score outside the scale is
// rejected and listed in the Report. Nothing is dropped silently.
package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/okian/abcboard/internal/domain/dedupe"
	"github.com/okian/abcboard/internal/domain/model"
	"github.com/okian/abcboard/pkg/logger"
)

// Format names a supported export format.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a configured format. Empty is allowed and means "infer".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Rejection is one record refused at ingestion.
type Rejection struct {
	Row    int    // 1-based position in the source, header excluded
	Record string // employee code, id or row reference
	Reason string // one of the Reason* codes
	Err    error
}

// Report summarizes one ingestion run.
type Report struct {
	Source   string
	Total    int
	Accepted int
	Rejected []Rejection
}

// Source yields a batch of employees.
type Source interface {
	Load(ctx context.Context) ([]model.Employee, Report, error)
}

// Reader converts raw records into employees.
type Reader struct {
	legacy bool
	log    logger.Logger
}

// NewReader builds a Reader.
func NewReader(opts ...Option) *Reader {
	r := &Reader{log: logger.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read parses src in the given format.
func (r *Reader) Read(ctx context.Context, src io.Reader, format Format) ([]model.Employee, Report, error) {
	var (
		recs []record
		err  error
	)
	switch format {
	case FormatJSON:
		recs, err = decodeJSON(src)
	case FormatCSV:
		recs, err = decodeCSV(src)
	default:
		return nil, Report{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, Report{}, err
	}
	return r.convert(ctx, recs)
}

func (r *Reader) convert(ctx context.Context, recs []record) ([]model.Employee, Report, error) {
	rep := Report{Total: len(recs)}
	out := make([]model.Employee, 0, len(recs))
	codes := dedupe.NewInMemoryDeduper(dedupe.WithExpectedSize(len(recs)))
	ids := dedupe.NewInMemoryDeduper(dedupe.WithExpectedSize(len(recs)))

	for i, rec := range recs {
		if err := ctx.Err(); err != nil {
			return nil, rep, err
		}
		row := i + 1
		emp, reason, err := rec.toEmployee(row, r.legacy)
		// Keys are claimed only by accepted rows.
		switch {
		case err != nil:
		case emp.EmployeeCode != "" && codes.Seen(ctx, emp.EmployeeCode):
			reason = ReasonDuplicateCode
			err = &model.InputDataError{Record: emp.EmployeeCode, Field: "employee_code", Reason: "duplicate employee code"}
		case ids.Seen(ctx, emp.ID):
			reason = ReasonDuplicateID
			err = &model.InputDataError{Record: emp.ID, Field: "id", Reason: "duplicate id"}
		}
		if err != nil {
			rep.Rejected = append(rep.Rejected, Rejection{Row: row, Record: rec.ref(row), Reason: reason, Err: err})
			r.log.Warn(ctx, "record rejected",
				logger.Int("row", row),
				logger.String("reason", reason),
				logger.Error(err),
			)
			continue
		}
		if emp.EmployeeCode != "" {
			codes.SeenAndRecord(ctx, emp.EmployeeCode)
		}
		ids.SeenAndRecord(ctx, emp.ID)
		out = append(out, emp)
	}
	rep.Accepted = len(out)
	return out, rep, nil
}

// FileSource loads employees from an export file.
type FileSource struct {
	path   string
	format Format
	reader *Reader
}

// NewFileSource builds a source for path. An empty format is inferred from the extension.
func NewFileSource(path string, format Format, opts ...Option) (*FileSource, error) {
	if format == "" {
		f, err := FormatFromPath(path)
		if err != nil {
			return nil, err
		}
		format = f
	}
	r := NewReader(opts...)
	r.log = r.log.With(logger.String("source", path))
	return &FileSource{path: path, format: format, reader: r}, nil
}

// Load implements Source.
func (s *FileSource) Load(ctx context.Context) ([]model.Employee, Report, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, Report{Source: s.path}, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer func() { _ = f.Close() }()

	emps, rep, err := s.reader.Read(ctx, f, s.format)
	rep.Source = s.path
	return emps, rep, err
}

// Path returns the file the source reads.
func (s *FileSource) Path() string { return s.path }
