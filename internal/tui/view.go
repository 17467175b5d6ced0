package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"jatrack/internal/listsync"
	"jatrack/internal/model"
)

func (m appModel) View() string {
	width := m.width
	if width <= 0 {
		width = 100
	}
	bodyHeight := m.height - 4
	if bodyHeight < 8 {
		bodyHeight = 8
	}

	var body string
	switch m.mode {
	case modeLogin:
		body = m.login.view(width)
	case modeForm:
		body = m.form.view(width)
	case modeBoard:
		body = renderBoard(listsync.Group(m.board.Items()), m.boardSel, &m.drag, width, bodyHeight)
	case modeDetail:
		body = m.viewDetail(width)
	case modeConfirmDelete:
		body = m.viewConfirmDelete(width)
	default:
		body = m.viewList(width, bodyHeight)
	}

	header := m.viewHeader(width)
	footer := m.viewFooter(width)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m appModel) viewHeader(width int) string {
	title := lipgloss.NewStyle().Bold(true).Render("JATrack")
	parts := []string{title}

	if m.mode == modeList || m.mode == modeConfirmDelete {
		if m.searching || m.search.Value() != "" {
			parts = append(parts, m.search.View())
		}
		if st := m.list.Filters().Status(); st != "" {
			badge := lipgloss.NewStyle().Foreground(statusColor(st)).Bold(true).Render(model.Status(st).Label())
			parts = append(parts, "filter: "+badge)
		}
		if m.list.Filters().Sort() == listsync.DefaultSort {
			parts = append(parts, styleMuted().Render("newest first"))
		} else {
			parts = append(parts, styleMuted().Render("oldest first"))
		}
	}
	if m.mode == modeBoard {
		parts = append(parts, styleMuted().Render("board"))
	}

	return normalizePane(strings.Join(parts, "   "), width, 1)
}

func (m appModel) viewList(width, height int) string {
	items := m.list.Items()

	lines := make([]string, 0, len(items)+4)

	switch {
	case m.list.Loading() && !m.list.Loaded():
		lines = append(lines, styleMuted().Render("Loading…"))
	case m.list.Err() != "":
		lines = append(lines, styleError().Render("Error: "+m.list.Err()))
		if len(items) > 0 {
			lines = append(lines, styleMuted().Render("(showing last known results)"))
		}
	case len(items) == 0 && m.list.Loaded():
		lines = append(lines, styleMuted().Render("No applications found."))
	}
	if len(lines) > 0 {
		lines = append(lines, "")
	}

	companyW := width * 3 / 10
	if companyW < 12 {
		companyW = 12
	}
	roleW := width * 3 / 10
	if roleW < 12 {
		roleW = 12
	}

	for i, a := range items {
		company := truncateText(a.Company, companyW)
		role := truncateText(a.RoleTitle, roleW)
		status := lipgloss.NewStyle().Foreground(statusColor(string(a.Status))).Bold(true).Render(a.Status.Label())
		row := fmt.Sprintf("%-*s  %-*s  %-10s  %s", companyW, company, roleW, role, a.AppliedDate, status)
		if i == m.cursor {
			row = lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Render(truncateText("› "+row, width))
		} else {
			row = "  " + row
		}
		lines = append(lines, row)
	}

	if m.list.Loaded() {
		lines = append(lines, "", m.viewPagerLine())
	}

	return normalizePane(strings.Join(lines, "\n"), width, height)
}

func (m appModel) viewPagerLine() string {
	p := m.list.Pager()
	total := p.TotalPages()
	if total < 1 {
		total = 1
	}
	line := fmt.Sprintf("page %d/%d  ·  %d total  ·  %d per page",
		p.Page()+1, total, p.TotalElements(), p.Size())
	return styleMuted().Render(line)
}

func (m appModel) viewDetail(width int) string {
	a, ok := m.selectedApplication()
	if !ok {
		return styleMuted().Render("Nothing selected.")
	}

	label := lipgloss.NewStyle().Foreground(colorChromeMutedFg).Width(14)
	status := lipgloss.NewStyle().Foreground(statusColor(string(a.Status))).Bold(true).Render(a.Status.Label())

	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(a.Company + " — " + a.RoleTitle),
		"",
		label.Render("Status") + status,
		label.Render("Applied") + a.AppliedDate,
	}
	if a.ContactEmail != "" {
		lines = append(lines, label.Render("Contact")+a.ContactEmail)
	}
	if a.JobURL != "" {
		lines = append(lines, label.Render("Job URL")+a.JobURL)
	}
	if strings.TrimSpace(a.Notes) != "" {
		notesW := width - 4
		lines = append(lines, "", label.Render("Notes"), renderMarkdown(a.Notes, notesW))
	}
	lines = append(lines, "", styleMuted().Render("e: edit   esc: back"))

	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(lines, "\n"))
}

func (m appModel) viewConfirmDelete(width int) string {
	a, _ := m.list.Find(m.confirm)
	name := strings.TrimSpace(a.Company + " — " + a.RoleTitle)

	btn := lipgloss.NewStyle().Padding(0, 1).Foreground(colorSurfaceFg).Background(colorControlBg)
	btnDanger := lipgloss.NewStyle().Padding(0, 1).Foreground(colorSelectedFg).Background(colorError).Bold(true)

	lines := []string{
		lipgloss.NewStyle().Bold(true).Render("Delete application?"),
		"",
		name,
		"",
		btnDanger.Render("y: delete") + " " + btn.Render("n: keep"),
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(lines, "\n"))
}

func (m appModel) viewFooter(width int) string {
	var help string
	switch m.mode {
	case modeLogin:
		help = "enter: submit  ctrl+r: toggle register  ctrl+c: quit"
	case modeForm:
		help = "tab: next field  ctrl+s: save  esc: cancel"
	case modeBoard:
		if m.drag.Active() {
			help = "h/l: move to column  space/enter: drop  esc: cancel drag"
		} else {
			help = "h/l/j/k: navigate  space: pick up  r: reload  esc: list"
		}
	case modeDetail:
		help = "e: edit  esc: back"
	case modeConfirmDelete:
		help = "y: delete  n: keep"
	default:
		help = "/: search  f: status  s: sort  z: page size  n/p: page  a: add  e: edit  d: delete  b: board  x/X: export  q: quit"
	}

	lines := []string{"", styleMuted().Render(help)}
	if m.notice != "" {
		notice := m.notice
		if m.noticeErr {
			lines[0] = styleError().Render(notice)
		} else {
			lines[0] = lipgloss.NewStyle().Foreground(colorSuccess).Render(notice)
		}
	}
	return normalizePane(strings.Join(lines, "\n"), width, 2)
}
