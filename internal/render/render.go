// Package render prints a report to a terminal or as JSON or YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/spigell/resume-rater/internal/report"
	"github.com/spigell/resume-rater/internal/theme"
)

// Format is an output format for a whole report.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts text, json, yaml or yml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q, expected text, json or yaml", s)
	}
}

// Options tune text rendering.
type Options struct {
	Theme theme.Theme
	// Color enables ANSI styling.
	Color bool
	// Language controls number formatting. Defaults to English.
	Language language.Tag
	// Sections limits the output. Empty means all sections.
	Sections []Section
}

// Write renders r in the requested format.
func Write(w io.Writer, r *report.Report, format Format, opts Options) error {
	if r == nil {
		return fmt.Errorf("no report to render")
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		return Text(w, r, opts)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
