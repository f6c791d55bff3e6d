package pages

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ragengine/console/internal/modules/model"
	"github.com/ragengine/console/internal/modules/service"
	"go.uber.org/zap"
)

const (
	TempIDPrefix     = "temp-"
	MsgClearConfirm  = "Are you sure you want to clear all chat history?"
	MsgSendFailed    = "Failed to send message"
	MsgHistoryFailed = "Failed to load chat history"
	MsgClearFailed   = "Failed to clear history"
)

type EntryState string

const (
	EntryPending   EntryState = "pending"
	EntryConfirmed EntryState = "confirmed"
	EntryFailed    EntryState = "failed"
)

// Entry is one message in the visible conversation.
type Entry struct {
	Message model.ChatMessage
	State   EntryState
}

// Chat is the conversation of one space. It is safe for concurrent use so the
// terminal UI can send in the background.
type Chat struct {
	SpaceID string

	mu      sync.Mutex
	entries []Entry
	sources []model.Source
	sending bool
	failed  *Entry
	errMsg  string

	svc service.ChatService
	log *zap.Logger
	now func() time.Time
}

func NewChat(svc service.ChatService, spaceID string, log *zap.Logger) *Chat {
	return &Chat{SpaceID: spaceID, svc: svc, log: log, now: time.Now}
}

// Load replaces the conversation with the stored history. A failure leaves it empty.
func (c *Chat) Load(ctx context.Context) error {
	msgs, err := c.svc.History(ctx, c.SpaceID)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.log.Error("failed to load chat history", zap.String("space_id", c.SpaceID), zap.Error(err))
		c.errMsg = MsgHistoryFailed
		return err
	}
	c.entries = make([]Entry, 0, len(msgs))
	for _, m := range msgs {
		c.entries = append(c.entries, Entry{Message: m, State: EntryConfirmed})
	}
	return nil
}

// Begin appends a pending user entry for text. ok is false when text is blank or
// another message is still in flight.
func (c *Chat) Begin(text string) (tempID string, ok bool) {
	text = strings.TrimSpace(text)
	c.mu.Lock()
	defer c.mu.Unlock()
	if text == "" || c.sending {
		return "", false
	}
	c.sending = true
	c.failed = nil
	c.errMsg = ""
	tempID = TempIDPrefix + uuid.NewString()
	c.entries = append(c.entries, Entry{
		Message: model.ChatMessage{
			ID:        tempID,
			SpaceID:   c.SpaceID,
			Role:      model.RoleUser,
			Content:   text,
			CreatedAt: c.now().UTC(),
		},
		State: EntryPending,
	})
	return tempID, true
}

// Complete settles the pending entry tempID with the outcome of the send.
// On failure the entry is taken out of the conversation.
func (c *Chat) Complete(tempID string, resp *model.ChatResponse, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sending = false

	idx := -1
	for i := range c.entries {
		if c.entries[i].Message.ID == tempID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	if err != nil {
		c.log.Error("failed to send message", zap.String("space_id", c.SpaceID), zap.Error(err))
		failed := c.entries[idx]
		failed.State = EntryFailed
		c.failed = &failed
		c.errMsg = errorMessage(err, MsgSendFailed)
		c.entries = append(c.entries[:idx], c.entries[idx+1:]...)
		return
	}

	c.entries[idx].State = EntryConfirmed
	c.entries = append(c.entries, Entry{
		Message: model.ChatMessage{
			ID:        TempIDPrefix + "ai-" + uuid.NewString(),
			SpaceID:   c.SpaceID,
			Role:      model.RoleAssistant,
			Content:   resp.Answer,
			Sources:   resp.Sources,
			CreatedAt: c.now().UTC(),
		},
		State: EntryConfirmed,
	})
	c.sources = resp.Sources
}

// Submit sends text and waits for the answer. It reports whether a send happened.
func (c *Chat) Submit(ctx context.Context, text string) (bool, error) {
	tempID, ok := c.Begin(text)
	if !ok {
		return false, nil
	}
	resp, err := c.svc.Send(ctx, c.SpaceID, strings.TrimSpace(text))
	c.Complete(tempID, resp, err)
	return true, err
}

// Clear wipes the history after confirmation. It reports whether it was cleared.
func (c *Chat) Clear(ctx context.Context, confirm Confirmer) (bool, error) {
	if !confirm(MsgClearConfirm) {
		return false, nil
	}
	if err := c.svc.Clear(ctx, c.SpaceID); err != nil {
		c.log.Error("failed to clear history", zap.String("space_id", c.SpaceID), zap.Error(err))
		c.mu.Lock()
		c.errMsg = MsgClearFailed
		c.mu.Unlock()
		return false, err
	}
	c.mu.Lock()
	c.entries = nil
	c.sources = nil
	c.mu.Unlock()
	return true, nil
}

// Entries returns a copy of the visible conversation.
func (c *Chat) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Entry(nil), c.entries...)
}

// Sources are the citations of the most recent answer only.
func (c *Chat) Sources() []model.Source {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Source(nil), c.sources...)
}

// ShowLatestSources fills the sources panel from the last answer in the loaded history.
func (c *Chat) ShowLatestSources() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.entries) - 1; i >= 0; i-- {
		if c.entries[i].Message.Role == model.RoleAssistant {
			c.sources = c.entries[i].Message.Sources
			return
		}
	}
}

func (c *Chat) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// Failed is the last message that could not be sent, so its text can be offered again.
func (c *Chat) Failed() *Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failed
}

func (c *Chat) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// ExportMarkdown renders the conversation as a markdown transcript.
func (c *Chat) ExportMarkdown(spaceName string) string {
	entries := c.Entries()
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", spaceName)
	for _, e := range entries {
		who := "You"
		if e.Message.Role == model.RoleAssistant {
			who = "Assistant"
		}
		fmt.Fprintf(&b, "**%s** (%s)\n\n%s\n\n", who, e.Message.CreatedAt.Format(time.RFC3339), e.Message.Content)
		for _, s := range e.Message.Sources {
			name := s.Filename()
			if name == "" {
				name = "source"
			}
			fmt.Fprintf(&b, "> %s: %s\n", name, strings.ReplaceAll(strings.TrimSpace(s.Text), "\n", " "))
		}
		if len(e.Message.Sources) > 0 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
