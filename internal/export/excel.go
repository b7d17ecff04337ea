package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/spigell/resume-rater/internal/report"
	"github.com/spigell/resume-rater/internal/views"
)

const (
	summarySheet     = "Summary"
	keywordsSheet    = "Keywords"
	verbsSheet       = "Action Verbs"
	timelineSheet    = "Career Timeline"
	suggestionsSheet = "Suggestions"
	examplesSheet    = "Examples"
)

var bandFills = map[views.Band]string{
	views.BandHigh: "C6EFCE",
	views.BandMid:  "FFEB9C",
	views.BandLow:  "FFC7CE",
}

// writeWorkbook builds one sheet per report section.
func writeWorkbook(w io.Writer, r *report.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	bands := make(map[views.Band]int, len(bandFills))
	for band, color := range bandFills {
		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return err
		}
		bands[band] = style
	}

	s := &sheetWriter{f: f, header: header}

	if err := s.summary(r, bands); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}

	steps := []struct {
		name string
		fill func(*report.Report) [][]any
		cols []string
	}{
		{keywordsSheet, keywordRows, []string{"Group", "Keyword"}},
		{verbsSheet, verbRows, []string{"Verb", "Count", "Relative width"}},
		{timelineSheet, timelineRows, []string{"Company", "Role", "Dates", "Duration", "Achievements"}},
		{suggestionsSheet, suggestionRows, []string{"Severity", "Section", "Suggestion"}},
		{examplesSheet, exampleRows, []string{"Section", "Original", "Improved", "Reason"}},
	}

	for _, step := range steps {
		if err := s.table(step.name, step.cols, step.fill(r)); err != nil {
			return fmt.Errorf("%s sheet: %w", strings.ToLower(step.name), err)
		}
	}

	return f.Write(w)
}

type sheetWriter struct {
	f      *excelize.File
	header int
}

func (s *sheetWriter) row(sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return s.f.SetSheetRow(sheet, cell, &values)
}

func (s *sheetWriter) table(sheet string, cols []string, rows [][]any) error {
	if _, err := s.f.NewSheet(sheet); err != nil {
		return err
	}

	head := make([]any, 0, len(cols))
	for _, c := range cols {
		head = append(head, c)
	}
	if err := s.row(sheet, 1, head); err != nil {
		return err
	}

	last, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		return err
	}
	if err := s.f.SetCellStyle(sheet, "A1", last, s.header); err != nil {
		return err
	}

	for i, values := range rows {
		if err := s.row(sheet, i+2, values); err != nil {
			return err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(cols))
	if err != nil {
		return err
	}
	return s.f.SetColWidth(sheet, "A", lastCol, 28)
}

func (s *sheetWriter) summary(r *report.Report, bands map[views.Band]int) error {
	const sheet = summarySheet

	if err := s.f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return err
	}
	if err := s.f.SetColWidth(sheet, "B", "C", 40); err != nil {
		return err
	}

	rows := [][]any{
		{"Resume Analysis Report"},
		{"Headline", r.Headline},
		{"Overall", r.Scores.Overall, views.OverallLabel(r.Scores.Overall)},
	}
	bandOf := []views.Band{"", "", views.OverallBand(r.Scores.Overall)}

	for _, card := range views.ScoreCards(r.Scores) {
		rows = append(rows, []any{card.Label, card.Value, string(card.Band)})
		bandOf = append(bandOf, card.Band)
	}

	length := r.Analytics.ResumeLength
	rows = append(rows,
		[]any{"Readability", r.Analytics.Readability.GradeLevel, r.Analytics.Readability.ScoreExplanation},
		[]any{"Pages", length.Pages},
		[]any{"Words", length.Words, length.Sentiment},
		[]any{"Action verbs", r.Analytics.ActionVerbs.Count, fmt.Sprintf("%d unique", r.Analytics.ActionVerbs.UniqueCount)},
	)

	for i, values := range rows {
		if err := s.row(sheet, i+1, values); err != nil {
			return err
		}

		if i < len(bandOf) && bandOf[i] != "" {
			cell := fmt.Sprintf("B%d", i+1)
			if err := s.f.SetCellStyle(sheet, cell, cell, bands[bandOf[i]]); err != nil {
				return err
			}
		}
	}

	if err := s.f.SetCellStyle(sheet, "A1", "C1", s.header); err != nil {
		return err
	}
	return s.f.MergeCell(sheet, "A1", "C1")
}

func keywordRows(r *report.Report) [][]any {
	var rows [][]any
	for _, k := range r.Keywords.TopTechnicalSkills {
		rows = append(rows, []any{"Technical", k})
	}
	for _, k := range r.Keywords.TopSoftSkills {
		rows = append(rows, []any{"Soft", k})
	}
	// Exports are not truncated.
	for _, section := range views.BySection(r.Keywords.KeywordsBySection) {
		for _, k := range r.Keywords.KeywordsBySection[section.Section] {
			rows = append(rows, []any{section.Section, k})
		}
	}
	return rows
}

func verbRows(r *report.Report) [][]any {
	usages := r.Analytics.ActionVerbs.UsageFrequency
	bars := views.NormalizeBars(usages, len(usages))

	rows := make([][]any, 0, len(bars))
	for _, b := range bars {
		rows = append(rows, []any{b.Verb, b.Count, b.Width})
	}
	return rows
}

func timelineRows(r *report.Report) [][]any {
	rows := make([][]any, 0, len(r.CareerTimeline))
	for _, e := range r.CareerTimeline {
		rows = append(rows, []any{
			e.Company,
			e.Role,
			views.FormatDateRange(e.StartDate, e.EndDate),
			views.FormatDuration(e.DurationMonths),
			strings.Join(e.Achievements, "\n"),
		})
	}
	return rows
}

func suggestionRows(r *report.Report) [][]any {
	var rows [][]any
	for _, g := range views.GroupBySeverity(r.ImprovementSuggestions) {
		for _, s := range g.Suggestions {
			rows = append(rows, []any{string(g.Severity), s.Section, s.Suggestion})
		}
	}
	return rows
}

func exampleRows(r *report.Report) [][]any {
	rows := make([][]any, 0, len(r.BeforeAndAfterExamples))
	for _, e := range r.BeforeAndAfterExamples {
		rows = append(rows, []any{e.Section, e.Original, e.Improved, e.Reason})
	}
	return rows
}
