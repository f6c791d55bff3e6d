package model

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatMessage struct {
	ID        string    `json:"id"`
	SpaceID   string    `json:"space_id"`
	UserID    string    `json:"user_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Sources   []Source  `json:"sources"`
	CreatedAt time.Time `json:"created_at"`
}

// Source is a retrieved snippet attached to an assistant reply. Display only.
type Source struct {
	Text     string                 `json:"text"`
	Score    *float64               `json:"score"`
	Metadata map[string]interface{} `json:"metadata"`
}

func (s Source) metaString(key string) string {
	if s.Metadata == nil {
		return ""
	}
	v, _ := s.Metadata[key].(string)
	return v
}

func (s Source) Filename() string { return s.metaString("filename") }

func (s Source) Section() string { return s.metaString("section") }

// Page returns the page number, which the backend may encode as a JSON number or string.
func (s Source) Page() string {
	if s.Metadata == nil {
		return ""
	}
	switch p := s.Metadata["page"].(type) {
	case float64:
		return formatFloat(p)
	case int:
		return formatFloat(float64(p))
	case string:
		return p
	}
	return ""
}

type ChatRequest struct {
	Query string `json:"query"`
}

type ChatResponse struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}
