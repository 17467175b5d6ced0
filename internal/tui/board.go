package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"jatrack/internal/listsync"
	"jatrack/internal/model"
)

// boardSelection tracks the keyboard cursor on the board. ItemID is the
// stable selected record id, preferred over the index for tracking focus
// across refreshes that re-bucket cards.
type boardSelection struct {
	Col    int
	Item   int
	ItemID int64
}

func boardIndexOf(cols []listsync.Column, id int64) (int, int, bool) {
	if id == 0 {
		return 0, 0, false
	}
	for ci := range cols {
		for ii := range cols[ci].Items {
			if cols[ci].Items[ii].ID == id {
				return ci, ii, true
			}
		}
	}
	return 0, 0, false
}

func clampBoardSelection(cols []listsync.Column, sel boardSelection) boardSelection {
	if len(cols) == 0 {
		return boardSelection{Col: 0, Item: -1}
	}

	// Prefer stable selection by id when the record is still on the board.
	if ci, ii, ok := boardIndexOf(cols, sel.ItemID); ok {
		sel.Col = ci
		sel.Item = ii
	} else {
		sel.ItemID = 0
	}

	if sel.Col < 0 {
		sel.Col = 0
	}
	if sel.Col >= len(cols) {
		sel.Col = len(cols) - 1
	}

	n := len(cols[sel.Col].Items)
	if n == 0 {
		sel.Item = -1
		return sel
	}
	if sel.Item < 0 {
		sel.Item = 0
	}
	if sel.Item >= n {
		sel.Item = n - 1
	}
	sel.ItemID = cols[sel.Col].Items[sel.Item].ID
	return sel
}

func selectedBoardItem(cols []listsync.Column, sel boardSelection) (model.Application, bool) {
	sel = clampBoardSelection(cols, sel)
	if sel.Col < 0 || sel.Col >= len(cols) {
		return model.Application{}, false
	}
	if sel.Item < 0 || sel.Item >= len(cols[sel.Col].Items) {
		return model.Application{}, false
	}
	return cols[sel.Col].Items[sel.Item], true
}

// renderBoard draws the kanban columns. While a drag is active the carried
// card is marked and the hovered column header is highlighted.
func renderBoard(cols []listsync.Column, sel boardSelection, drag *listsync.Drag, width, height int) string {
	n := len(cols)
	if n == 0 {
		return normalizePane("", width, height)
	}
	sel = clampBoardSelection(cols, sel)

	gap := 1
	avail := width - gap*(n-1)
	if avail < n {
		avail = n
	}
	colW := avail / n
	if colW < 10 {
		colW = 10
	}
	innerW := colW - 2
	if innerW < 1 {
		innerW = 1
	}

	dragID, dragging := drag.ItemID()
	hoverCol, _ := drag.Hover()

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg).Background(colorControlBg)
	headerSelectedStyle := lipgloss.NewStyle().Bold(true).Foreground(colorSelectedFg).Background(colorSelectedBg)
	headerHoverStyle := lipgloss.NewStyle().Bold(true).Foreground(colorSelectedFg).Background(colorAccent)
	muted := styleMuted()

	cardStyle := lipgloss.NewStyle().Width(colW).Padding(0, 1)
	cardSelectedStyle := cardStyle.Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)

	renderCard := func(a model.Application, selected bool) string {
		company := strings.TrimSpace(a.Company)
		if company == "" {
			company = "(no company)"
		}
		marker := ""
		if dragging && a.ID == dragID {
			marker = "◆ "
		}
		lines := []string{truncateText(marker+company, innerW)}
		if role := strings.TrimSpace(a.RoleTitle); role != "" {
			lines = append(lines, muted.Render(truncateText(role, innerW)))
		}
		if a.AppliedDate != "" {
			lines = append(lines, muted.Render(truncateText(a.AppliedDate, innerW)))
		}

		inner := normalizePane(strings.Join(lines, "\n"), innerW, 0)
		if selected {
			return cardSelectedStyle.Render(inner)
		}
		return cardStyle.Render(inner)
	}

	renderCol := func(ci int, col listsync.Column) string {
		head := fmt.Sprintf("%s (%d)", col.Status.Label(), len(col.Items))
		head = truncateText(head, colW)
		hs := headerStyle
		if dragging && col.Status == hoverCol {
			hs = headerHoverStyle
		} else if ci == sel.Col {
			hs = headerSelectedStyle
		}

		lines := []string{hs.Width(colW).Render(head)}
		if len(col.Items) == 0 {
			lines = append(lines, muted.Render(" (empty)"))
			return normalizePane(strings.Join(lines, "\n"), colW, height)
		}
		lines = append(lines, "")
		for i, a := range col.Items {
			selected := ci == sel.Col && i == sel.Item && !dragging
			card := renderCard(a, selected)
			lines = append(lines, strings.Split(card, "\n")...)
			if i < len(col.Items)-1 {
				sepW := colW - 2
				if sepW < 0 {
					sepW = 0
				}
				lines = append(lines, muted.Render(" "+strings.Repeat("─", sepW)+" "))
			}
		}
		return normalizePane(strings.Join(lines, "\n"), colW, height)
	}

	rendered := make([]string, 0, n)
	for i, c := range cols {
		rendered = append(rendered, renderCol(i, c))
	}

	out := rendered[0]
	if len(rendered) > 1 {
		sep := strings.Repeat(" ", gap)
		for i := 1; i < len(rendered); i++ {
			out = lipgloss.JoinHorizontal(lipgloss.Top, out, sep, rendered[i])
		}
	}
	return normalizePane(out, width, height)
}
