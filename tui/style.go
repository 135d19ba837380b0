package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleText = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleLoot = lipgloss.NewStyle().
			Bold(true)

	styleShop = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	styleReward = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// tierColors maps the color names used by catalog tier definitions to
// 256-color terminal codes. Unknown names fall through to lipgloss,
// which accepts numeric and hex color strings directly.
var tierColors = map[string]string{
	"gray":   "245",
	"grey":   "245",
	"white":  "255",
	"green":  "40",
	"blue":   "33",
	"purple": "135",
	"orange": "208",
	"gold":   "220",
	"red":    "196",
}

// tierStyle returns a style for a tier's declared color.
func tierStyle(color string) lipgloss.Style {
	if code, ok := tierColors[color]; ok {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(code)).Bold(true)
	}
	if color == "" {
		return styleLoot
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
}

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindText lineKind = iota
	kindLoot
	kindShop
	kindReward
	kindSystem
	kindError
	kindTrace
)

// errorPrefixes covers the engine's refusal messages.
var errorPrefixes = []string{
	"No rolls left",
	"No perk",
	"No boss reward",
	"Not enough",
	"Nothing to",
	"Unknown command",
	"You already own",
	"Pick your boss reward",
	"which perk?",
	"no perk matches",
}

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "Rolled "), strings.HasPrefix(line, "#"):
		return kindLoot
	case strings.HasPrefix(line, "Shop "), strings.HasPrefix(line, "  "):
		return kindShop
	case strings.HasPrefix(line, "Boss offers"), strings.Contains(line, "choose your reward"):
		return kindReward
	default:
		for _, p := range errorPrefixes {
			if strings.HasPrefix(line, p) {
				return kindError
			}
		}
		return kindText
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
