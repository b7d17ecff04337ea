package views

import "github.com/spigell/resume-rater/internal/report"

// SeverityGroup is the set of suggestions sharing one severity.
type SeverityGroup struct {
	Severity    report.Severity
	Suggestions []report.Suggestion
}

// GroupBySeverity partitions suggestions into High, Medium and Low groups in
// that order. Empty groups are left out and input order is kept inside a
// group. Suggestions with an unknown severity are dropped.
func GroupBySeverity(suggestions []report.Suggestion) []SeverityGroup {
	buckets := make(map[report.Severity][]report.Suggestion, len(report.Severities))
	for _, s := range suggestions {
		buckets[s.Severity] = append(buckets[s.Severity], s)
	}

	groups := make([]SeverityGroup, 0, len(report.Severities))
	for _, severity := range report.Severities {
		items := buckets[severity]
		if len(items) == 0 {
			continue
		}
		groups = append(groups, SeverityGroup{Severity: severity, Suggestions: items})
	}

	return groups
}
