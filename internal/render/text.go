package render

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/spigell/resume-rater/internal/report"
	"github.com/spigell/resume-rater/internal/views"
)

// Section is one part of the text report.
type Section string

const (
	SectionScores      Section = "Scores"
	SectionKeywords    Section = "Keywords"
	SectionAnalytics   Section = "Analytics"
	SectionTimeline    Section = "Career Timeline"
	SectionSuggestions Section = "Improvement Suggestions"
	SectionExamples    Section = "Before & After"
)

// Sections lists every section in print order.
var Sections = []Section{
	SectionScores,
	SectionKeywords,
	SectionAnalytics,
	SectionTimeline,
	SectionSuggestions,
	SectionExamples,
}

const barWidth = 20

type textWriter struct {
	w   io.Writer
	p   palette
	num *message.Printer
	err error
}

func (t *textWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *textWriter) heading(s Section) {
	t.printf("\n%s\n%s\n", t.p.title(string(s)), t.p.muted(strings.Repeat("-", len(s))))
}

// Text writes a human readable report.
func Text(w io.Writer, r *report.Report, opts Options) error {
	if r == nil {
		return fmt.Errorf("no report to render")
	}

	tag := opts.Language
	if tag == language.Und {
		tag = language.English
	}

	t := &textWriter{
		w:   w,
		p:   newPalette(opts.Theme, opts.Color),
		num: message.NewPrinter(tag),
	}

	sections := opts.Sections
	if len(sections) == 0 {
		sections = Sections
		if r.Headline != "" {
			t.printf("%s\n", t.p.title(r.Headline))
		}
	}

	for _, s := range Sections {
		if !slices.Contains(sections, s) {
			continue
		}

		switch s {
		case SectionScores:
			t.scores(r.Scores)
		case SectionKeywords:
			t.keywords(r.Keywords)
		case SectionAnalytics:
			t.analytics(r.Analytics)
		case SectionTimeline:
			t.timeline(r.CareerTimeline)
		case SectionSuggestions:
			t.suggestions(r.ImprovementSuggestions)
		case SectionExamples:
			t.examples(r.BeforeAndAfterExamples)
		}
	}

	return t.err
}

func (t *textWriter) scores(s report.Scores) {
	t.heading(SectionScores)

	band := views.OverallBand(s.Overall)
	style := t.p.style(views.BandCategory(band))
	t.printf("Overall: %s/10  %s\n", style(t.num.Sprintf("%.1f", s.Overall)), style(views.OverallLabel(s.Overall)))

	for _, card := range views.ScoreCards(s) {
		cardStyle := t.p.style(views.BandCategory(card.Band))
		t.printf("  %-26s %s  %s\n", card.Label, cardStyle(fmt.Sprintf("%3d", card.Value)), t.p.muted(card.Description))
	}
}

func (t *textWriter) keywords(k report.Keywords) {
	t.heading(SectionKeywords)

	t.printf("Technical skills: %s\n", joinOrDash(k.TopTechnicalSkills))
	t.printf("Soft skills:      %s\n", joinOrDash(k.TopSoftSkills))

	for _, section := range views.BySection(k.KeywordsBySection) {
		entries := section.Keywords.Shown
		line := strings.Join(entries, ", ")
		if section.Keywords.More != "" {
			line += " " + t.p.muted(section.Keywords.More)
		}
		t.printf("  %s: %s\n", section.Section, line)
	}
}

func (t *textWriter) analytics(a report.Analytics) {
	t.heading(SectionAnalytics)

	verbs := a.ActionVerbs
	t.printf("Action verbs: %s total, %s unique\n", t.num.Sprintf("%d", verbs.Count), t.num.Sprintf("%d", verbs.UniqueCount))
	for _, bar := range views.NormalizeBars(verbs.UsageFrequency, views.DefaultTopVerbs) {
		filled := int(bar.Width*barWidth + 0.5)
		t.printf("  %-14s %s%s %dx\n", bar.Verb, strings.Repeat("#", filled), t.p.muted(strings.Repeat(".", barWidth-filled)), bar.Count)
	}

	t.printf("Readability: %s\n", a.Readability.GradeLevel)
	if a.Readability.ScoreExplanation != "" {
		t.printf("  %s\n", t.p.muted(a.Readability.ScoreExplanation))
	}

	length := a.ResumeLength
	sentiment := t.p.style(views.SentimentCategory(length.Sentiment))
	t.printf("Length: %s, %s words  %s\n",
		t.num.Sprintf("%d page(s)", length.Pages),
		t.num.Sprintf("%d", length.Words),
		sentiment(length.Sentiment),
	)
}

func (t *textWriter) timeline(events []report.CareerEvent) {
	t.heading(SectionTimeline)

	if len(events) == 0 {
		t.printf("%s\n", t.p.muted("No career history detected."))
		return
	}

	for _, e := range events {
		line := views.FormatDateRange(e.StartDate, e.EndDate)
		if d := views.FormatDuration(e.DurationMonths); d != "" {
			line += " • " + d
		}

		t.printf("%s, %s\n  %s\n", t.p.title(e.Role), e.Company, t.p.muted(line))
		for _, a := range e.Achievements {
			t.printf("  - %s\n", a)
		}
	}
}

func (t *textWriter) suggestions(items []report.Suggestion) {
	t.heading(SectionSuggestions)

	groups := views.GroupBySeverity(items)
	if len(groups) == 0 {
		t.printf("%s\n", t.p.muted("Nothing to improve."))
		return
	}

	for _, g := range groups {
		style := t.p.style(views.SeverityCategory(string(g.Severity)))
		t.printf("%s (%d)\n", style(string(g.Severity)), len(g.Suggestions))
		for _, s := range g.Suggestions {
			t.printf("  [%s] %s\n", s.Section, s.Suggestion)
		}
	}
}

func (t *textWriter) examples(items []report.Example) {
	t.heading(SectionExamples)

	if len(items) == 0 {
		t.printf("%s\n", t.p.muted("No examples."))
		return
	}

	for i, e := range items {
		if i > 0 {
			t.printf("\n")
		}
		t.printf("%s\n", t.p.title(e.Section))
		t.printf("  Before: %s\n", e.Original)
		t.printf("  After:  %s\n", e.Improved)
		t.printf("  Why:    %s\n", t.p.muted(e.Reason))
	}
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
