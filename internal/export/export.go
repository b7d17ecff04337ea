// Package export writes a report to a file format meant for sharing.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spigell/resume-rater/internal/report"
)

// Format is an export file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// Exporter writes a report in one format.
type Exporter struct {
	Format Format
}

// FormatForPath picks the format from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FormatXLSX, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("cannot export to %q: use a .xlsx or .json file", path)
	}
}

// ForPath returns the exporter matching the path extension.
func ForPath(path string) (*Exporter, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	return &Exporter{Format: format}, nil
}

func (e *Exporter) Export(w io.Writer, r *report.Report) error {
	if r == nil {
		return fmt.Errorf("no report to export")
	}

	switch e.Format {
	case FormatXLSX:
		return writeWorkbook(w, r)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	default:
		return fmt.Errorf("unsupported export format %q", e.Format)
	}
}
