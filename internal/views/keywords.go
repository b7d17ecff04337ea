package views

import (
	"fmt"
	"slices"
)

// KeywordLimit is how many keywords a section shows before collapsing the rest.
const KeywordLimit = 10

// KeywordList is a possibly truncated keyword list. More is the "+N more"
// marker and stays empty when nothing was hidden.
type KeywordList struct {
	Shown  []string
	Hidden int
	More   string
}

// Entries returns the shown keywords followed by the marker, if any.
func (l KeywordList) Entries() []string {
	if l.More == "" {
		return l.Shown
	}
	return append(slices.Clone(l.Shown), l.More)
}

// TruncateKeywords keeps the first limit keywords. A non-positive limit falls
// back to KeywordLimit.
func TruncateKeywords(keywords []string, limit int) KeywordList {
	if limit <= 0 {
		limit = KeywordLimit
	}
	if len(keywords) <= limit {
		return KeywordList{Shown: keywords}
	}

	hidden := len(keywords) - limit
	return KeywordList{
		Shown:  keywords[:limit],
		Hidden: hidden,
		More:   fmt.Sprintf("+%d more", hidden),
	}
}

// SectionKeywords is the truncated keyword list of one résumé section.
type SectionKeywords struct {
	Section  string
	Keywords KeywordList
}

// BySection returns every section sorted by name with its keywords truncated.
func BySection(sections map[string][]string) []SectionKeywords {
	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	slices.Sort(names)

	result := make([]SectionKeywords, 0, len(names))
	for _, name := range names {
		result = append(result, SectionKeywords{
			Section:  name,
			Keywords: TruncateKeywords(sections[name], KeywordLimit),
		})
	}

	return result
}
