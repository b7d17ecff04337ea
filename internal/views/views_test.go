package views

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spigell/resume-rater/internal/report"
)

func TestBandFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score int
		want  Band
	}{
		{score: 0, want: BandLow},
		{score: 59, want: BandLow},
		{score: 60, want: BandMid},
		{score: 79, want: BandMid},
		{score: 80, want: BandHigh},
		{score: 100, want: BandHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BandFor(tt.score), "score %d", tt.score)
	}
}

func TestOverallBand(t *testing.T) {
	t.Parallel()

	assert.Equal(t, BandMid, OverallBand(7.8))
	assert.Equal(t, BandHigh, OverallBand(8))
	assert.Equal(t, BandMid, OverallBand(6))
	assert.Equal(t, BandLow, OverallBand(5.9))
	assert.Equal(t, BandHigh, OverallBand(10))
}

func TestOverallLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Excellent", OverallLabel(8.2))
	assert.Equal(t, "Good", OverallLabel(7.8))
	assert.Equal(t, "Needs Improvement", OverallLabel(5.99))
}

func TestScoreCards(t *testing.T) {
	t.Parallel()

	cards := ScoreCards(report.Scores{
		Overall:                 7.8,
		ATSFriendliness:         85,
		LayoutAndFormatting:     72,
		ImpactAndQuantification: 55,
	})

	if assert.Len(t, cards, 3) {
		assert.Equal(t, "ATS Friendliness", cards[0].Label)
		assert.Equal(t, BandHigh, cards[0].Band)
		assert.Equal(t, BandMid, cards[1].Band)
		assert.Equal(t, BandLow, cards[2].Band)
	}
}

func TestCategories(t *testing.T) {
	t.Parallel()

	assert.Equal(t, CategoryPositive, SentimentCategory("Ideal"))
	assert.Equal(t, CategoryPositive, SentimentCategory("good"))
	assert.Equal(t, CategoryCaution, SentimentCategory("Too Short"))
	assert.Equal(t, CategoryNegative, SentimentCategory(" too long "))
	assert.Equal(t, CategoryNeutral, SentimentCategory("Verbose"))
	assert.Equal(t, CategoryNeutral, SentimentCategory(""))

	assert.Equal(t, CategoryNegative, SeverityCategory("High"))
	assert.Equal(t, CategoryCaution, SeverityCategory("medium"))
	assert.Equal(t, CategoryNeutral, SeverityCategory("Low"))
	assert.Equal(t, CategoryNeutral, SeverityCategory("Critical"))

	assert.Equal(t, CategoryPositive, BandCategory(BandHigh))
	assert.Equal(t, CategoryNeutral, BandCategory(Band("")))
}

func TestGroupBySeverity(t *testing.T) {
	t.Parallel()

	suggestions := []report.Suggestion{
		{Section: "Summary", Severity: report.SeverityLow},
		{Section: "Experience", Severity: report.SeverityHigh},
		{Section: "Skills", Severity: report.SeverityMedium},
		{Section: "Education", Severity: report.SeverityLow},
	}

	groups := GroupBySeverity(suggestions)
	if !assert.Len(t, groups, 3) {
		return
	}

	assert.Equal(t, report.SeverityHigh, groups[0].Severity)
	assert.Len(t, groups[0].Suggestions, 1)
	assert.Equal(t, report.SeverityMedium, groups[1].Severity)
	assert.Len(t, groups[1].Suggestions, 1)
	assert.Equal(t, report.SeverityLow, groups[2].Severity)
	assert.Equal(t, []string{"Summary", "Education"}, []string{
		groups[2].Suggestions[0].Section,
		groups[2].Suggestions[1].Section,
	})
}

func TestGroupBySeverityOmitsEmptyGroups(t *testing.T) {
	t.Parallel()

	groups := GroupBySeverity([]report.Suggestion{
		{Section: "Skills", Severity: report.SeverityLow},
	})
	if assert.Len(t, groups, 1) {
		assert.Equal(t, report.SeverityLow, groups[0].Severity)
	}

	assert.Empty(t, GroupBySeverity(nil))
}

func TestNormalizeBars(t *testing.T) {
	t.Parallel()

	usages := []report.VerbUsage{
		{Verb: "Led", Count: 2},
		{Verb: "Built", Count: 4},
		{Verb: "Designed", Count: 2},
		{Verb: "Shipped", Count: 1},
	}

	bars := NormalizeBars(usages, 0)
	if !assert.Len(t, bars, DefaultTopVerbs) {
		return
	}

	assert.Equal(t, "Built", bars[0].Verb)
	assert.Equal(t, 1.0, bars[0].Width)
	assert.Equal(t, "Led", bars[1].Verb)
	assert.InDelta(t, 0.5, bars[1].Width, 1e-9)
	assert.Equal(t, "Designed", bars[2].Verb)
	assert.InDelta(t, 0.5, bars[2].Width, 1e-9)

	assert.Equal(t, "Led", usages[0].Verb, "input must not be reordered")
}

func TestNormalizeBarsEmpty(t *testing.T) {
	t.Parallel()

	assert.Nil(t, NormalizeBars(nil, 3))
	assert.Nil(t, NormalizeBars([]report.VerbUsage{}, 3))
}

func TestFormatMonths(t *testing.T) {
	t.Parallel()

	tests := map[int]string{
		-1: "",
		0:  "",
		1:  "1 month",
		11: "11 months",
		12: "1 year",
		13: "1y 1m",
		24: "2 years",
		30: "2y 6m",
	}

	for months, want := range tests {
		assert.Equal(t, want, FormatMonths(months), "months %d", months)
	}
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	months := 13
	assert.Equal(t, "1y 1m", FormatDuration(&months))
	assert.Equal(t, "", FormatDuration(nil))
}

func TestFormatDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "present", want: "Present"},
		{in: "PRESENT", want: "Present"},
		{in: "2022-03", want: "Mar 2022"},
		{in: "2022-03-15", want: "Mar 2022"},
		{in: "03/2022", want: "Mar 2022"},
		{in: "3/2022", want: "Mar 2022"},
		{in: "March 2022", want: "Mar 2022"},
		{in: "Mar 2022", want: "Mar 2022"},
		{in: "2019", want: "2019"},
		{in: "Summer 2019", want: "Summer 2019"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDate(tt.in), "input %q", tt.in)
	}

	assert.Equal(t, "Mar 2022 - Present", FormatDateRange("2022-03", "present"))
}

func TestTruncateKeywords(t *testing.T) {
	t.Parallel()

	thirteen := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m"}
	list := TruncateKeywords(thirteen, KeywordLimit)
	assert.Len(t, list.Shown, 10)
	assert.Equal(t, 3, list.Hidden)
	assert.Equal(t, "+3 more", list.More)

	entries := list.Entries()
	assert.Len(t, entries, 11)
	assert.Equal(t, "+3 more", entries[10])

	nine := thirteen[:9]
	list = TruncateKeywords(nine, KeywordLimit)
	assert.Len(t, list.Shown, 9)
	assert.Empty(t, list.More)
	assert.Len(t, list.Entries(), 9)
}

func TestBySection(t *testing.T) {
	t.Parallel()

	sections := BySection(map[string][]string{
		"Projects":   {"Go"},
		"Experience": {"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"},
	})

	if assert.Len(t, sections, 2) {
		assert.Equal(t, "Experience", sections[0].Section)
		assert.Equal(t, "+1 more", sections[0].Keywords.More)
		assert.Equal(t, "Projects", sections[1].Section)
	}

	assert.Empty(t, BySection(nil))
}
