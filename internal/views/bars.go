package views

import (
	"cmp"
	"slices"

	"github.com/spigell/resume-rater/internal/report"
)

// DefaultTopVerbs is how many verbs the "most used" chart shows.
const DefaultTopVerbs = 3

// Bar is one row of the verb frequency chart. Width is relative to the
// largest count in the displayed set, so the widest bar is exactly 1.
type Bar struct {
	Verb  string
	Count int
	Width float64
}

// NormalizeBars picks the topN most used verbs and sizes them against the
// largest displayed count. A non-positive topN falls back to DefaultTopVerbs.
// The input is not modified and may arrive in any order.
func NormalizeBars(usages []report.VerbUsage, topN int) []Bar {
	if len(usages) == 0 {
		return nil
	}
	if topN <= 0 {
		topN = DefaultTopVerbs
	}

	sorted := slices.Clone(usages)
	slices.SortStableFunc(sorted, func(a, b report.VerbUsage) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if len(sorted) > topN {
		sorted = sorted[:topN]
	}

	peak := 0
	for _, u := range sorted {
		peak = max(peak, u.Count)
	}

	bars := make([]Bar, 0, len(sorted))
	for _, u := range sorted {
		bar := Bar{Verb: u.Verb, Count: u.Count}
		if peak > 0 {
			bar.Width = float64(u.Count) / float64(peak)
		}
		bars = append(bars, bar)
	}

	return bars
}
