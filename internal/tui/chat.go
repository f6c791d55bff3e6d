package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ragengine/console/internal/modules/model"
	"github.com/ragengine/console/internal/pages"
	"github.com/ragengine/console/internal/pkg/format"
)

// SendFunc delivers one question for the space and returns the answer.
type SendFunc func(ctx context.Context, spaceID, query string) (*model.ChatResponse, error)

// sentMsg carries the outcome of a background send back into Update.
type sentMsg struct {
	tempID string
	resp   *model.ChatResponse
	err    error
}

// ChatModel is the interactive chat screen of one space.
type ChatModel struct {
	ctx   context.Context
	title string
	chat  *pages.Chat
	send  SendFunc

	input    []rune
	width    int
	quitting bool
}

func NewChatModel(ctx context.Context, title string, chat *pages.Chat, send SendFunc) ChatModel {
	return ChatModel{ctx: ctx, title: title, chat: chat, send: send}
}

func (m ChatModel) Init() tea.Cmd {
	return nil
}

func (m ChatModel) sendCmd(tempID, text string) tea.Cmd {
	return func() tea.Msg {
		resp, err := m.send(m.ctx, m.chat.SpaceID, text)
		return sentMsg{tempID: tempID, resp: resp, err: err}
	}
}

func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case sentMsg:
		m.chat.Complete(msg.tempID, msg.resp, msg.err)
		// The failed text goes back into the input so it can be retried.
		if f := m.chat.Failed(); msg.err != nil && f != nil && len(m.input) == 0 {
			m.input = []rune(f.Message.Content)
		}
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(string(m.input))
			tempID, ok := m.chat.Begin(text)
			if !ok {
				return m, nil
			}
			m.input = nil
			return m, m.sendCmd(tempID, text)
		case tea.KeyBackspace:
			if len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
			}
		case tea.KeyCtrlU:
			m.input = nil
		case tea.KeyRunes, tea.KeySpace:
			m.input = append(m.input, msg.Runes...)
		}
	}
	return m, nil
}

func (m ChatModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(TitleStyle.Render(IconChat + " " + m.title))
	b.WriteString("\n\n")

	entries := m.chat.Entries()
	if len(entries) == 0 {
		b.WriteString(MutedStyle.Render("Start a conversation. Ask questions about your documents."))
		b.WriteString("\n")
	}
	for _, e := range entries {
		b.WriteString(renderEntry(e))
		b.WriteString("\n")
	}

	if srcs := m.chat.Sources(); len(srcs) > 0 {
		b.WriteString(SubtitleStyle.Render("Sources"))
		b.WriteString("\n")
		for _, s := range srcs {
			b.WriteString(renderSource(s))
			b.WriteString("\n")
		}
	}
	if m.chat.Sending() {
		b.WriteString(MutedStyle.Render(IconSpinner + " Thinking..."))
		b.WriteString("\n")
	}
	if e := m.chat.ErrorMessage(); e != "" {
		b.WriteString(RenderError(e))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(PromptStyle.Render(IconPointer + " "))
	b.WriteString(InputStyle.Render(string(m.input)))
	b.WriteString(CursorStyle.Render("▌"))
	b.WriteString("\n")
	b.WriteString(MutedStyle.Render("enter send • ctrl+u clear line • esc quit"))
	return b.String()
}

func renderEntry(e pages.Entry) string {
	who := UserStyle.Render("You")
	if e.Message.Role == model.RoleAssistant {
		who = AssistantStyle.Render("Assistant")
	}
	if e.State == pages.EntryPending {
		who += MutedStyle.Render(" (sending)")
	}
	return who + "\n" + e.Message.Content + "\n"
}

func renderSource(s model.Source) string {
	name := s.Filename()
	if name == "" {
		name = "source"
	}
	line := name
	if s.Score != nil {
		line += fmt.Sprintf(" (%.0f%%)", *s.Score*100)
	}
	return SourceStyle.Render(line + ": " + format.Truncate(strings.TrimSpace(s.Text), 120))
}

// RunChat runs the chat screen until the user quits.
func RunChat(ctx context.Context, title string, chat *pages.Chat, send SendFunc) error {
	if _, err := tea.NewProgram(NewChatModel(ctx, title, chat, send)).Run(); err != nil {
		return fmt.Errorf("chat error: %w", err)
	}
	return nil
}
