package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	ColorPrimary   = lipgloss.Color("#FF79C6")
	ColorSecondary = lipgloss.Color("#8BE9FD")
	ColorSuccess   = lipgloss.Color("#50FA7B")
	ColorError     = lipgloss.Color("#FF5555")
	ColorWarning   = lipgloss.Color("#FFB86C")
	ColorMuted     = lipgloss.Color("#6272A4")
	ColorWhite     = lipgloss.Color("#F8F8F2")
	ColorPurple    = lipgloss.Color("#BD93F9")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	UnselectedStyle = lipgloss.NewStyle().
			Foreground(ColorWhite)

	CursorStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary)

	PromptStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)

	InputStyle = lipgloss.NewStyle().
			Foreground(ColorWhite)

	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)

	// Chat transcript
	UserStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)

	AssistantStyle = lipgloss.NewStyle().
			Foreground(ColorPurple).
			Bold(true)

	SourceStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			PaddingLeft(2)
)

// Badge styles keyed by document status.
var BadgeStyles = map[string]lipgloss.Style{
	"indexed":    lipgloss.NewStyle().Foreground(ColorSuccess),
	"processing": lipgloss.NewStyle().Foreground(ColorWarning),
	"failed":     lipgloss.NewStyle().Foreground(ColorError),
}

const (
	IconSuccess = "✓"
	IconError   = "✗"
	IconWarning = "⚠"
	IconInfo    = "ℹ"
	IconArrow   = "→"
	IconPointer = "❯"
	IconSpinner = "◐"
	IconFolder  = "📁"
	IconChat    = "💬"
)

// IsTTY returns true if stdout is a terminal
func IsTTY() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

func RenderSuccess(msg string) string {
	return SuccessStyle.Render(IconSuccess+" ") + msg
}

func RenderError(msg string) string {
	return ErrorStyle.Render(IconError+" ") + msg
}

func RenderWarning(msg string) string {
	return WarningStyle.Render(IconWarning+" ") + msg
}

func RenderInfo(msg string) string {
	return MutedStyle.Render(IconInfo+" ") + msg
}

// RenderBadge renders label in the color of the document status.
func RenderBadge(status, label string) string {
	style, ok := BadgeStyles[status]
	if !ok {
		style = MutedStyle
	}
	return style.Render(fmt.Sprintf("[%s]", label))
}
