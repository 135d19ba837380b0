package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar produces a full-width inverted status line showing the
// round, balances, roll allowance, and inventory.
func (m Model) renderStatusBar() string {
	s := m.engine.State
	snap := m.engine.Attributes()

	left := fmt.Sprintf(" Round %d | Chips %d | Cash %d", s.Round, s.Chips, s.Cash)
	if s.BossPicksLeft > 0 {
		left += fmt.Sprintf(" | Boss picks: %d", s.BossPicksLeft)
	}

	right := fmt.Sprintf("Rolls %d/%d ", s.RollsUsed, m.engine.AvailableRolls(snap))

	// Show inventory item names if they fit, otherwise just a count.
	if len(s.Inventory) > 0 {
		var names []string
		for _, thing := range s.Inventory {
			names = append(names, thing.Name)
		}
		candidate := fmt.Sprintf("Haul: %s | Rolls %d/%d ",
			strings.Join(names, ", "), s.RollsUsed, m.engine.AvailableRolls(snap))
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		} else {
			right = fmt.Sprintf("Haul: %d | Rolls %d/%d ",
				len(s.Inventory), s.RollsUsed, m.engine.AvailableRolls(snap))
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
