package model

import (
	"strconv"
	"time"
)

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

const DefaultLLMModel = "gpt-4o-mini"

// UserConfig is the per-user singleton row of user_configs, upserted as a whole.
type UserConfig struct {
	ID               string    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id,omitempty"`
	UserID           string    `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	OpenAIAPIKey     *string   `gorm:"column:openai_api_key" json:"openai_api_key"`
	LlamaCloudAPIKey *string   `gorm:"column:llama_cloud_api_key" json:"llama_cloud_api_key"`
	CohereAPIKey     *string   `gorm:"column:cohere_api_key" json:"cohere_api_key"`
	QdrantURL        *string   `gorm:"column:qdrant_url" json:"qdrant_url"`
	QdrantAPIKey     *string   `gorm:"column:qdrant_api_key" json:"qdrant_api_key"`
	DefaultLLMModel  string    `gorm:"column:default_llm_model;not null;default:'gpt-4o-mini'" json:"default_llm_model,omitempty"`
	Theme            Theme     `gorm:"type:text;not null;default:'system'" json:"theme,omitempty"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserConfig) TableName() string { return "user_configs" }

// NullableString maps an empty form value to SQL/JSON null.
func NullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StringValue is the inverse of NullableString.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
