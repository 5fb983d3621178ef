package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/strongcode/gymbook/internal/auth"
)

type loginField int

const (
	fieldEmail loginField = iota
	fieldPassword
	numLoginFields
)

// loginResultMsg carries the outcome of a submitted login.
type loginResultMsg struct {
	location auth.Location
	err      error
}

// loginModel is the landing screen's credential form.
type loginModel struct {
	flow   *auth.Flow
	fields [numLoginFields]string
	focus  loginField
	state  auth.State
	errMsg string
	frame  int
}

func newLoginModel(f *auth.Flow) loginModel {
	return loginModel{flow: f}
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		if msg.err != nil {
			m.state = auth.StateFailed
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.state = auth.StateAuthenticated
		m.errMsg = ""
		m.fields[fieldPassword] = ""
		return m, nil

	case shimmerTickMsg:
		m.frame++

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m loginModel) handleKey(msg tea.KeyMsg) (loginModel, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		m.focus = (m.focus + 1) % numLoginFields
	case tea.KeyShiftTab, tea.KeyUp:
		m.focus = (m.focus - 1 + numLoginFields) % numLoginFields
	case tea.KeyEnter:
		if m.focus == fieldEmail {
			m.focus = fieldPassword
			return m, nil
		}
		return m.submit()
	case tea.KeyBackspace:
		m.fields[m.focus] = editRune(m.fields[m.focus], "backspace")
	case tea.KeySpace:
		m.fields[m.focus] = editRune(m.fields[m.focus], " ")
	case tea.KeyRunes:
		m.fields[m.focus] = editRune(m.fields[m.focus], string(msg.Runes))
	}
	return m, nil
}

// submit sends the fields exactly as typed. A second submit while one is
// pending is ignored.
func (m loginModel) submit() (loginModel, tea.Cmd) {
	if m.state == auth.StatePending {
		return m, nil
	}
	m.state = auth.StatePending
	m.errMsg = ""

	f := m.flow
	email, password := m.fields[fieldEmail], m.fields[fieldPassword]
	return m, func() tea.Msg {
		loc, err := f.Login(context.Background(), email, password)
		return loginResultMsg{location: loc, err: err}
	}
}

func (m loginModel) View() string {
	var b strings.Builder

	labels := [numLoginFields]string{"email", "password"}
	b.WriteString("\n")
	for i := loginField(0); i < numLoginFields; i++ {
		value := m.fields[i]
		if i == fieldPassword {
			value = maskSecret(value)
		}
		cursor := "  "
		label := metaStyle.Render(fmt.Sprintf("%-9s", labels[i]))
		if i == m.focus {
			cursor = inputPromptStyle.Render("> ")
			label = selectedStyle.Render(fmt.Sprintf("%-9s", labels[i]))
			if (m.frame/4)%2 == 0 {
				value += accentStyle.Render("█")
			}
		} else if value == "" {
			value = inputPlaceholderStyle.Render("…")
		}
		fmt.Fprintf(&b, " %s%s %s\n", cursor, label, value)
	}

	b.WriteString("\n ")
	switch m.state {
	case auth.StatePending:
		b.WriteString(dimStyle.Render("signing in..."))
	case auth.StateFailed:
		b.WriteString(errorStyle.Render(m.errMsg))
	}
	b.WriteString("\n")
	return b.String()
}

func (m loginModel) helpKeys() string {
	return helpEntry("tab", "next") + "  " + helpEntry("enter", "sign in") + "  " + helpEntry("ctrl+c", "quit")
}
