package app

import (
	"bytes"
	"strings"

	"github.com/rick2x/fieldprofiler/domain/core"
	"github.com/rick2x/fieldprofiler/internal"
	"github.com/rick2x/fieldprofiler/internal/errors"
	"github.com/rick2x/fieldprofiler/internal/export"
)

// ExportFormat names the supported run export encodings.
type ExportFormat string

const (
	FormatCSV      ExportFormat = "csv"
	FormatTSV      ExportFormat = "tsv"
	FormatMarkdown ExportFormat = "md"
	FormatHTML     ExportFormat = "html"
)

// ParseExportFormat validates a caller-supplied format name.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(s)) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatTSV:
		return FormatTSV, nil
	case FormatMarkdown:
		return FormatMarkdown, nil
	case FormatHTML:
		return FormatHTML, nil
	}
	return "", errors.InvalidInput("unsupported export format: " + s)
}

// ContentType returns the MIME type for HTTP responses.
func (f ExportFormat) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatTSV:
		return "text/tab-separated-values"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "text/markdown; charset=utf-8"
	}
}

// ExportService renders retained runs into portable documents
type ExportService struct {
	profiles *ProfileService
	logger   *internal.Logger
}

// NewExportService creates an export service
func NewExportService(profiles *ProfileService, logger *internal.Logger) *ExportService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ExportService{profiles: profiles, logger: logger}
}

// Export renders one retained run in the requested format.
func (s *ExportService) Export(runID core.RunID, format ExportFormat) ([]byte, error) {
	run, ok := s.profiles.Run(runID)
	if !ok {
		return nil, errors.NotFound("run " + runID.String())
	}
	precision := run.Config().Precision

	switch format {
	case FormatCSV, FormatTSV:
		table := export.BuildTable(run.Records, precision)
		var buf bytes.Buffer
		var err error
		if format == FormatCSV {
			err = export.WriteCSV(&buf, table)
		} else {
			err = export.WriteTSV(&buf, table)
		}
		if err != nil {
			return nil, errors.ExportError("writing tabular export: " + err.Error())
		}
		return buf.Bytes(), nil

	case FormatMarkdown, FormatHTML:
		report := export.Report{
			Title:     "Field Profile: " + run.Layer,
			Layer:     run.Layer,
			Records:   run.Records,
			Precision: precision,
		}
		if format == FormatHTML {
			return report.HTML(), nil
		}
		return []byte(report.Markdown()), nil
	}
	return nil, errors.InvalidInput("unsupported export format: " + string(format))
}
