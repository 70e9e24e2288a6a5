// Package display holds presentation labels and colors for difficulty tiers
// and score bands. Scoring code never depends on it.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/closepro/closepro/pkg/difficulty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ExpertLabel is shown for both of the two hardest tiers.
const ExpertLabel = "Expert"

//nolint:gochecknoglobals // Terminal palette
var (
	styleGood    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleFair    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	stylePoor    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleExpert  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	styleMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleHeading = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
)

// Title title-cases an identifier such as "near_impossible" or
// "closing_commitment".
func Title(id string) (title string) {
	caser := cases.Title(language.English)
	title = caser.String(strings.ReplaceAll(strings.TrimSpace(id), "_", " "))
	return title
}

// TierLabel returns the label shown to users for a tier. Elite and near
// impossible prospects are both shown as Expert.
func TierLabel(tier difficulty.Tier) (label string) {
	switch tier {
	case difficulty.TierElite, difficulty.TierNearImpossible:
		label = ExpertLabel
	default:
		label = Title(string(tier))
	}
	return label
}

// TierStyle returns the color for a tier.
func TierStyle(tier difficulty.Tier) (style lipgloss.Style) {
	switch tier {
	case difficulty.TierEasy:
		style = styleGood
	case difficulty.TierRealistic:
		style = styleFair
	case difficulty.TierHard:
		style = stylePoor
	case difficulty.TierElite, difficulty.TierNearImpossible:
		style = styleExpert
	default:
		style = styleMuted
	}
	return style
}

// ScoreStyle colors a 0-100 score.
func ScoreStyle(score int) (style lipgloss.Style) {
	switch {
	case score >= 80:
		style = styleGood
	case score >= 60:
		style = styleFair
	default:
		style = stylePoor
	}
	return style
}

// Tier renders a colored tier label.
func Tier(tier difficulty.Tier) (text string) {
	text = TierStyle(tier).Render(TierLabel(tier))
	return text
}

// Score renders a colored "score/100 (band)" string.
func Score(score int, band string) (text string) {
	plain := fmt.Sprintf("%d/100", score)
	if band != "" {
		plain = fmt.Sprintf("%s (%s)", plain, band)
	}
	text = ScoreStyle(score).Render(plain)
	return text
}

// Difficulty renders a scored profile as "index/max Tier".
func Difficulty(r difficulty.Result) (text string) {
	text = fmt.Sprintf("%d/%d %s", r.Index, int(r.Model), Tier(r.Tier))
	return text
}

// Heading renders a section heading.
func Heading(s string) (text string) {
	text = styleHeading.Render(s)
	return text
}

// Muted renders secondary text.
func Muted(s string) (text string) {
	text = styleMuted.Render(s)
	return text
}

// Bar draws value out of maxValue as a fixed-width bar.
func Bar(value, maxValue, width int) (bar string) {
	if maxValue <= 0 || width <= 0 {
		return bar
	}
	filled := value * width / maxValue
	filled = max(0, min(width, filled))
	bar = strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return bar
}
