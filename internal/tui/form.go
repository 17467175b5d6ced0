package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"jatrack/internal/model"
)

const (
	formFieldCompany = iota
	formFieldRole
	formFieldStatus
	formFieldDate
	formFieldEmail
	formFieldURL
	formFieldNotes
	formFieldCount
)

// formModel is the add/edit application form. Editing carries the original
// record id; on submit the form always yields the complete record so the
// whole-record update contract holds.
type formModel struct {
	editingID int64
	statusIdx int
	focus     int

	company textinput.Model
	role    textinput.Model
	date    textinput.Model
	email   textinput.Model
	jobURL  textinput.Model
	notes   textarea.Model

	errText string
}

func newFormInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Prompt = ""
	return in
}

func newForm() formModel {
	f := formModel{
		company: newFormInput("Company", 120),
		role:    newFormInput("Role title", 120),
		date:    newFormInput("YYYY-MM-DD", 10),
		email:   newFormInput("Contact email", 120),
		jobURL:  newFormInput("Job URL", 300),
		notes:   textarea.New(),
	}
	f.notes.Placeholder = "Notes (markdown)"
	f.notes.ShowLineNumbers = false
	f.date.SetValue(time.Now().Format("2006-01-02"))
	f.company.Focus()
	return f
}

func newEditForm(a model.Application) formModel {
	f := newForm()
	f.editingID = a.ID
	f.company.SetValue(a.Company)
	f.role.SetValue(a.RoleTitle)
	f.date.SetValue(a.AppliedDate)
	f.email.SetValue(a.ContactEmail)
	f.jobURL.SetValue(a.JobURL)
	f.notes.SetValue(a.Notes)
	for i, st := range model.Statuses() {
		if st == a.Status {
			f.statusIdx = i
			break
		}
	}
	return f
}

// Application assembles the full record from the form fields.
func (f formModel) Application() model.Application {
	return model.Application{
		ID:           f.editingID,
		Company:      strings.TrimSpace(f.company.Value()),
		RoleTitle:    strings.TrimSpace(f.role.Value()),
		Status:       model.Statuses()[f.statusIdx],
		AppliedDate:  strings.TrimSpace(f.date.Value()),
		ContactEmail: strings.TrimSpace(f.email.Value()),
		JobURL:       strings.TrimSpace(f.jobURL.Value()),
		Notes:        f.notes.Value(),
	}
}

func (f formModel) editing() bool { return f.editingID != 0 }

func (f *formModel) setFocus(field int) {
	f.focus = field
	f.company.Blur()
	f.role.Blur()
	f.date.Blur()
	f.email.Blur()
	f.jobURL.Blur()
	f.notes.Blur()
	switch field {
	case formFieldCompany:
		f.company.Focus()
	case formFieldRole:
		f.role.Focus()
	case formFieldDate:
		f.date.Focus()
	case formFieldEmail:
		f.email.Focus()
	case formFieldURL:
		f.jobURL.Focus()
	case formFieldNotes:
		f.notes.Focus()
	}
}

func (f *formModel) nextField() { f.setFocus((f.focus + 1) % formFieldCount) }
func (f *formModel) prevField() { f.setFocus((f.focus + formFieldCount - 1) % formFieldCount) }

func (f *formModel) cycleStatus(delta int) {
	n := len(model.Statuses())
	f.statusIdx = (f.statusIdx + delta + n) % n
}

// update routes a message to the focused field. Submission and cancellation
// keys are handled by the app before this runs.
func (f formModel) update(msg tea.Msg) (formModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			if f.focus != formFieldNotes || key.String() == "tab" {
				f.nextField()
				return f, nil
			}
		case "shift+tab", "up":
			if f.focus != formFieldNotes || key.String() == "shift+tab" {
				f.prevField()
				return f, nil
			}
		case "left":
			if f.focus == formFieldStatus {
				f.cycleStatus(-1)
				return f, nil
			}
		case "right", " ":
			if f.focus == formFieldStatus {
				f.cycleStatus(1)
				return f, nil
			}
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case formFieldCompany:
		f.company, cmd = f.company.Update(msg)
	case formFieldRole:
		f.role, cmd = f.role.Update(msg)
	case formFieldDate:
		f.date, cmd = f.date.Update(msg)
	case formFieldEmail:
		f.email, cmd = f.email.Update(msg)
	case formFieldURL:
		f.jobURL, cmd = f.jobURL.Update(msg)
	case formFieldNotes:
		f.notes, cmd = f.notes.Update(msg)
	}
	return f, cmd
}

func (f formModel) view(width int) string {
	title := "Add application"
	if f.editing() {
		title = "Edit application"
	}

	labelStyle := lipgloss.NewStyle().Foreground(colorChromeMutedFg).Width(14)
	focusMark := func(field int) string {
		if f.focus == field {
			return lipgloss.NewStyle().Foreground(colorAccent).Render("› ")
		}
		return "  "
	}
	row := func(field int, label, view string) string {
		return focusMark(field) + labelStyle.Render(label) + view
	}

	status := model.Statuses()[f.statusIdx]
	statusView := lipgloss.NewStyle().Foreground(statusColor(string(status))).Bold(true).Render(status.Label())
	if f.focus == formFieldStatus {
		statusView = "← " + statusView + " →"
	}

	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(title),
		"",
		row(formFieldCompany, "Company", f.company.View()),
		row(formFieldRole, "Role title", f.role.View()),
		row(formFieldStatus, "Status", statusView),
		row(formFieldDate, "Applied", f.date.View()),
		row(formFieldEmail, "Contact", f.email.View()),
		row(formFieldURL, "Job URL", f.jobURL.View()),
		focusMark(formFieldNotes) + labelStyle.Render("Notes"),
		f.notes.View(),
	}
	if f.errText != "" {
		lines = append(lines, "", styleError().Render(f.errText))
	}
	lines = append(lines, "", styleMuted().Render("tab: next field   ctrl+s: save   esc: cancel"))

	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(lines, "\n"))
}
