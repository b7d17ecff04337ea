// Package report holds the analysis result returned by the analysis service
// and the decode step that turns a wire payload into a trusted Report.
package report

// Severity is the priority tag of an improvement suggestion.
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// Severities lists the levels in presentation order.
var Severities = []Severity{SeverityHigh, SeverityMedium, SeverityLow}

// Report is the structured analysis of one résumé. A decoded Report is never
// mutated; a new submission produces a new value.
type Report struct {
	Headline               string        `json:"headline" yaml:"headline"`
	Scores                 Scores        `json:"scores" yaml:"scores"`
	Keywords               Keywords      `json:"keywords" yaml:"keywords"`
	Analytics              Analytics     `json:"analytics" yaml:"analytics"`
	CareerTimeline         []CareerEvent `json:"career_timeline" yaml:"career_timeline" validate:"dive"`
	ImprovementSuggestions []Suggestion  `json:"improvement_suggestions" yaml:"improvement_suggestions" validate:"dive"`
	BeforeAndAfterExamples []Example     `json:"before_and_after_examples" yaml:"before_and_after_examples" validate:"dive"`
}

type Scores struct {
	// Overall is on a 0..10 scale, the rest on 0..100.
	Overall                 float64 `json:"overall" yaml:"overall" validate:"gte=0,lte=10"`
	ATSFriendliness         int     `json:"ats_friendliness" yaml:"ats_friendliness" validate:"gte=0,lte=100"`
	LayoutAndFormatting     int     `json:"layout_and_formatting" yaml:"layout_and_formatting" validate:"gte=0,lte=100"`
	ImpactAndQuantification int     `json:"impact_and_quantification" yaml:"impact_and_quantification" validate:"gte=0,lte=100"`
}

type Keywords struct {
	TopTechnicalSkills []string            `json:"top_technical_skills" yaml:"top_technical_skills"`
	TopSoftSkills      []string            `json:"top_soft_skills" yaml:"top_soft_skills"`
	KeywordsBySection  map[string][]string `json:"keywords_by_section" yaml:"keywords_by_section"`
}

type Analytics struct {
	ActionVerbs  ActionVerbs  `json:"action_verbs" yaml:"action_verbs"`
	Readability  Readability  `json:"readability" yaml:"readability"`
	ResumeLength ResumeLength `json:"resume_length" yaml:"resume_length"`
}

type ActionVerbs struct {
	Count       int `json:"count" yaml:"count" validate:"gte=0"`
	UniqueCount int `json:"unique_count" yaml:"unique_count" validate:"gte=0,ltefield=Count"`
	// UsageFrequency is not guaranteed to be sorted.
	UsageFrequency []VerbUsage `json:"usage_frequency" yaml:"usage_frequency" validate:"dive"`
}

type VerbUsage struct {
	Verb  string `json:"verb" yaml:"verb" validate:"required"`
	Count int    `json:"count" yaml:"count" validate:"gt=0"`
}

type Readability struct {
	GradeLevel       string `json:"grade_level" yaml:"grade_level"`
	ScoreExplanation string `json:"score_explanation" yaml:"score_explanation"`
}

type ResumeLength struct {
	Pages     int    `json:"pages" yaml:"pages" validate:"gte=0"`
	Words     int    `json:"words" yaml:"words" validate:"gte=0"`
	Sentiment string `json:"sentiment" yaml:"sentiment"`
}

type CareerEvent struct {
	Company   string `json:"company" yaml:"company"`
	Role      string `json:"role" yaml:"role"`
	StartDate string `json:"start_date" yaml:"start_date"`
	// EndDate is a date or the literal "Present".
	EndDate        string   `json:"end_date" yaml:"end_date"`
	DurationMonths *int     `json:"duration_months" yaml:"duration_months" validate:"omitnil,gt=0"`
	Achievements   []string `json:"achievements" yaml:"achievements"`
}

type Suggestion struct {
	Section    string   `json:"section" yaml:"section"`
	Suggestion string   `json:"suggestion" yaml:"suggestion"`
	Severity   Severity `json:"severity" yaml:"severity" validate:"oneof=High Medium Low"`
}

type Example struct {
	Section  string `json:"section" yaml:"section"`
	Original string `json:"original" yaml:"original"`
	Improved string `json:"improved" yaml:"improved"`
	Reason   string `json:"reason" yaml:"reason"`
}
