package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	loginFieldName = iota
	loginFieldEmail
	loginFieldPassword
)

// loginModel is the sign-in form shown when no credential is available. It
// doubles as a registration form ("ctrl+r" toggles).
type loginModel struct {
	register bool
	focus    int
	busy     bool

	name     textinput.Model
	email    textinput.Model
	password textinput.Model

	errText string
}

func newLogin() loginModel {
	l := loginModel{
		name:     newFormInput("Name", 120),
		email:    newFormInput("Email", 200),
		password: newFormInput("Password", 200),
	}
	l.password.EchoMode = textinput.EchoPassword
	l.focus = loginFieldEmail
	l.email.Focus()
	return l
}

func (l *loginModel) fields() []int {
	if l.register {
		return []int{loginFieldName, loginFieldEmail, loginFieldPassword}
	}
	return []int{loginFieldEmail, loginFieldPassword}
}

func (l *loginModel) setFocus(field int) {
	l.focus = field
	l.name.Blur()
	l.email.Blur()
	l.password.Blur()
	switch field {
	case loginFieldName:
		l.name.Focus()
	case loginFieldEmail:
		l.email.Focus()
	case loginFieldPassword:
		l.password.Focus()
	}
}

func (l *loginModel) move(delta int) {
	fields := l.fields()
	cur := 0
	for i, f := range fields {
		if f == l.focus {
			cur = i
			break
		}
	}
	n := len(fields)
	l.setFocus(fields[(cur+delta+n)%n])
}

func (l *loginModel) toggleRegister() {
	l.register = !l.register
	if !l.register && l.focus == loginFieldName {
		l.setFocus(loginFieldEmail)
	}
}

func (l loginModel) update(msg tea.Msg) (loginModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			l.move(1)
			return l, nil
		case "shift+tab", "up":
			l.move(-1)
			return l, nil
		}
	}

	var cmd tea.Cmd
	switch l.focus {
	case loginFieldName:
		l.name, cmd = l.name.Update(msg)
	case loginFieldEmail:
		l.email, cmd = l.email.Update(msg)
	case loginFieldPassword:
		l.password, cmd = l.password.Update(msg)
	}
	return l, cmd
}

func (l loginModel) view(width int) string {
	title := "Sign in"
	if l.register {
		title = "Create account"
	}

	labelStyle := lipgloss.NewStyle().Foreground(colorChromeMutedFg).Width(10)
	focusMark := func(field int) string {
		if l.focus == field {
			return lipgloss.NewStyle().Foreground(colorAccent).Render("› ")
		}
		return "  "
	}

	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(title),
		"",
	}
	if l.register {
		lines = append(lines, focusMark(loginFieldName)+labelStyle.Render("Name")+l.name.View())
	}
	lines = append(lines,
		focusMark(loginFieldEmail)+labelStyle.Render("Email")+l.email.View(),
		focusMark(loginFieldPassword)+labelStyle.Render("Password")+l.password.View(),
	)

	if l.busy {
		lines = append(lines, "", styleMuted().Render("Signing in…"))
	}
	if l.errText != "" {
		lines = append(lines, "", styleError().Render(l.errText))
	}

	toggleHint := "ctrl+r: create account instead"
	if l.register {
		toggleHint = "ctrl+r: sign in instead"
	}
	lines = append(lines, "", styleMuted().Render("enter: submit   "+toggleHint+"   ctrl+c: quit"))

	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(lines, "\n"))
}

func (l loginModel) emailValue() string    { return strings.TrimSpace(l.email.Value()) }
func (l loginModel) passwordValue() string { return l.password.Value() }
func (l loginModel) nameValue() string     { return strings.TrimSpace(l.name.Value()) }
