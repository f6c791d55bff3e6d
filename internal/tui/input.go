package tui

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	tea "github.com/charmbracelet/bubbletea"
)

// InputModel is a single-line text input. Masked inputs echo bullets.
type InputModel struct {
	prompt       string
	placeholder  string
	defaultValue string
	masked       bool
	value        []rune
	cursorPos    int
	done         bool
	quitting     bool
}

func NewInput(prompt, placeholder, defaultValue string) InputModel {
	v := []rune(defaultValue)
	return InputModel{
		prompt:       prompt,
		placeholder:  placeholder,
		defaultValue: defaultValue,
		value:        v,
		cursorPos:    len(v),
	}
}

func NewPassword(prompt string) InputModel {
	m := NewInput(prompt, "", "")
	m.masked = true
	return m
}

func (m InputModel) Init() tea.Cmd {
	return nil
}

func (m InputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyEnter:
		m.done = true
		return m, tea.Quit
	case tea.KeyBackspace:
		if m.cursorPos > 0 {
			m.value = append(m.value[:m.cursorPos-1], m.value[m.cursorPos:]...)
			m.cursorPos--
		}
	case tea.KeyDelete:
		if m.cursorPos < len(m.value) {
			m.value = append(m.value[:m.cursorPos], m.value[m.cursorPos+1:]...)
		}
	case tea.KeyLeft:
		if m.cursorPos > 0 {
			m.cursorPos--
		}
	case tea.KeyRight:
		if m.cursorPos < len(m.value) {
			m.cursorPos++
		}
	case tea.KeyHome, tea.KeyCtrlA:
		m.cursorPos = 0
	case tea.KeyEnd, tea.KeyCtrlE:
		m.cursorPos = len(m.value)
	case tea.KeyCtrlU:
		m.value = append([]rune(nil), m.value[m.cursorPos:]...)
		m.cursorPos = 0
	case tea.KeyCtrlK:
		m.value = m.value[:m.cursorPos]
	case tea.KeyRunes, tea.KeySpace:
		m.value, m.cursorPos = insertRunes(m.value, m.cursorPos, key.Runes)
	}
	return m, nil
}

func insertRunes(value []rune, pos int, in []rune) ([]rune, int) {
	out := make([]rune, 0, len(value)+len(in))
	out = append(out, value[:pos]...)
	out = append(out, in...)
	out = append(out, value[pos:]...)
	return out, pos + len(in)
}

func (m InputModel) display(r []rune) string {
	if m.masked {
		return strings.Repeat("•", len(r))
	}
	return string(r)
}

func (m InputModel) View() string {
	if m.quitting {
		return ""
	}
	if m.done {
		return PromptStyle.Render(m.prompt) + " " + SuccessStyle.Render(m.display([]rune(m.Value())))
	}

	var b strings.Builder
	b.WriteString(PromptStyle.Render(m.prompt))
	b.WriteString(" ")
	if len(m.value) == 0 && m.placeholder != "" {
		b.WriteString(PlaceholderStyle.Render(m.placeholder))
	} else {
		b.WriteString(InputStyle.Render(m.display(m.value[:m.cursorPos])))
		b.WriteString(CursorStyle.Render("▌"))
		b.WriteString(InputStyle.Render(m.display(m.value[m.cursorPos:])))
	}
	b.WriteString("\n")
	b.WriteString(MutedStyle.Render("enter confirm • esc cancel"))
	return b.String()
}

func (m InputModel) Value() string {
	if len(m.value) == 0 {
		return m.defaultValue
	}
	return string(m.value)
}

func (m InputModel) Cancelled() bool {
	return m.quitting
}

func runInputModel(m InputModel) (string, error) {
	finalModel, err := tea.NewProgram(m).Run()
	if err != nil {
		return "", fmt.Errorf("input error: %w", err)
	}
	result, ok := finalModel.(InputModel)
	if !ok {
		return "", fmt.Errorf("unexpected model type")
	}
	if result.quitting {
		return "", fmt.Errorf("input cancelled")
	}
	fmt.Println()
	return result.Value(), nil
}

// RunInput asks for a line of text, falling back to survey when stdout is not a TTY.
func RunInput(prompt, placeholder, defaultValue string) (string, error) {
	if !IsTTY() {
		var value string
		q := &survey.Input{Message: prompt, Help: placeholder, Default: defaultValue}
		if err := survey.AskOne(q, &value); err != nil {
			return "", err
		}
		if value == "" {
			return defaultValue, nil
		}
		return value, nil
	}
	return runInputModel(NewInput(prompt, placeholder, defaultValue))
}

// RunPassword asks for a secret without echoing it.
func RunPassword(prompt string) (string, error) {
	if !IsTTY() {
		var value string
		if err := survey.AskOne(&survey.Password{Message: prompt}, &value); err != nil {
			return "", err
		}
		return value, nil
	}
	return runInputModel(NewPassword(prompt))
}
