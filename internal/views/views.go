// Package views holds the pure computations behind each report section:
// score banding, suggestion grouping, verb bars, timeline formatting,
// presentation categories and keyword truncation. Nothing here keeps state.
package views

import (
	"strings"

	"github.com/spigell/resume-rater/internal/report"
)

// Band is the presentation bucket of a 0..100 score.
type Band string

const (
	BandLow  Band = "low"
	BandMid  Band = "mid"
	BandHigh Band = "high"
)

const (
	midFloor  = 60
	highFloor = 80
)

// BandFor buckets a 0..100 score. The high band starts at 80 inclusive.
func BandFor(score int) Band {
	switch {
	case score >= highFloor:
		return BandHigh
	case score >= midFloor:
		return BandMid
	default:
		return BandLow
	}
}

// OverallBand rescales the 0..10 overall score before banding it.
func OverallBand(overall float64) Band {
	return BandFor(int(overall*10 + 1e-9))
}

// OverallLabel is the short verdict shown next to the overall score.
func OverallLabel(overall float64) string {
	switch {
	case overall >= 8:
		return "Excellent"
	case overall >= 6:
		return "Good"
	default:
		return "Needs Improvement"
	}
}

// ScoreCard is one of the detailed score tiles.
type ScoreCard struct {
	Key         string
	Label       string
	Description string
	Value       int
	Band        Band
}

// ScoreCards returns the three detailed scores in display order.
func ScoreCards(s report.Scores) []ScoreCard {
	cards := []ScoreCard{
		{
			Key:         "ats_friendliness",
			Label:       "ATS Friendliness",
			Description: "How well your resume passes automated screening",
			Value:       s.ATSFriendliness,
		},
		{
			Key:         "layout_and_formatting",
			Label:       "Layout & Formatting",
			Description: "Visual appeal and professional structure",
			Value:       s.LayoutAndFormatting,
		},
		{
			Key:         "impact_and_quantification",
			Label:       "Impact & Quantification",
			Description: "Measurable achievements and concrete results",
			Value:       s.ImpactAndQuantification,
		},
	}

	for i := range cards {
		cards[i].Band = BandFor(cards[i].Value)
	}

	return cards
}

// Category is the presentation family a label maps to.
type Category string

const (
	CategoryPositive Category = "positive"
	CategoryCaution  Category = "caution"
	CategoryNegative Category = "negative"
	CategoryNeutral  Category = "neutral"
)

var (
	sentimentCategories = map[string]Category{
		"ideal":     CategoryPositive,
		"good":      CategoryPositive,
		"too short": CategoryCaution,
		"too long":  CategoryNegative,
	}

	severityCategories = map[string]Category{
		"high":   CategoryNegative,
		"medium": CategoryCaution,
		"low":    CategoryNeutral,
	}
)

// SentimentCategory maps a resume length sentiment. Unknown labels are neutral.
func SentimentCategory(label string) Category {
	return lookup(sentimentCategories, label)
}

// SeverityCategory maps a suggestion severity. Unknown labels are neutral.
func SeverityCategory(label string) Category {
	return lookup(severityCategories, label)
}

// BandCategory maps a score band onto the shared categories.
func BandCategory(b Band) Category {
	switch b {
	case BandHigh:
		return CategoryPositive
	case BandMid:
		return CategoryCaution
	case BandLow:
		return CategoryNegative
	default:
		return CategoryNeutral
	}
}

func lookup(table map[string]Category, label string) Category {
	if c, ok := table[strings.ToLower(strings.TrimSpace(label))]; ok {
		return c
	}
	return CategoryNeutral
}
