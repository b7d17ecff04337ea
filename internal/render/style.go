package render

import (
	"fmt"

	"github.com/manifoldco/promptui"

	"github.com/spigell/resume-rater/internal/theme"
	"github.com/spigell/resume-rater/internal/views"
)

type styleFunc func(any) string

func plain(v any) string { return fmt.Sprint(v) }

// palette maps presentation categories to terminal styles.
type palette struct {
	title    styleFunc
	muted    styleFunc
	category map[views.Category]styleFunc
}

func (p palette) style(c views.Category) styleFunc {
	if s, ok := p.category[c]; ok {
		return s
	}
	return plain
}

func newPalette(t theme.Theme, color bool) palette {
	if !color {
		return palette{title: plain, muted: plain}
	}

	if t == theme.Light {
		return palette{
			title: promptui.Styler(promptui.FGBlack, promptui.FGBold),
			muted: promptui.Styler(promptui.FGFaint),
			category: map[views.Category]styleFunc{
				views.CategoryPositive: promptui.Styler(promptui.FGBlue, promptui.FGBold),
				views.CategoryCaution:  promptui.Styler(promptui.FGMagenta),
				views.CategoryNegative: promptui.Styler(promptui.FGRed, promptui.FGBold),
			},
		}
	}

	return palette{
		title: promptui.Styler(promptui.FGCyan, promptui.FGBold),
		muted: promptui.Styler(promptui.FGFaint),
		category: map[views.Category]styleFunc{
			views.CategoryPositive: promptui.Styler(promptui.FGGreen, promptui.FGBold),
			views.CategoryCaution:  promptui.Styler(promptui.FGYellow),
			views.CategoryNegative: promptui.Styler(promptui.FGRed, promptui.FGBold),
		},
	}
}
