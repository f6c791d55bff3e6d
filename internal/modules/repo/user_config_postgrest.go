package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/ragengine/console/internal/config"
	"github.com/ragengine/console/internal/infra/httpclient"
	"github.com/ragengine/console/internal/modules/model"
	"github.com/supabase-community/postgrest-go"
	"go.uber.org/zap"
)

// pgrstNoRows is PostgREST's code for a single-object request that matched no row.
const pgrstNoRows = "PGRST116"

// userConfigWrite is the upsert body. id and created_at are left to the database.
type userConfigWrite struct {
	UserID           string      `json:"user_id"`
	OpenAIAPIKey     *string     `json:"openai_api_key"`
	LlamaCloudAPIKey *string     `json:"llama_cloud_api_key"`
	CohereAPIKey     *string     `json:"cohere_api_key"`
	QdrantURL        *string     `json:"qdrant_url"`
	QdrantAPIKey     *string     `json:"qdrant_api_key"`
	DefaultLLMModel  string      `json:"default_llm_model,omitempty"`
	Theme            model.Theme `json:"theme,omitempty"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// PostgrestUserConfigRepo talks to Supabase's REST interface with the user's own token,
// so row-level security applies.
type PostgrestUserConfigRepo struct {
	BaseURL string
	AnonKey string
	Table   string
	Tokens  httpclient.TokenSource
	Logger  *zap.Logger
}

func NewPostgrestUserConfigRepo(cfg *config.Config, tokens httpclient.TokenSource, log *zap.Logger) *PostgrestUserConfigRepo {
	return &PostgrestUserConfigRepo{
		BaseURL: cfg.Supabase.URL,
		AnonKey: cfg.Supabase.AnonKey,
		Table:   cfg.UserConfig.Table,
		Tokens:  tokens,
		Logger:  log,
	}
}

// client builds a client per call: the bearer token belongs to whoever is signed in now.
func (r *PostgrestUserConfigRepo) client(ctx context.Context) (*postgrest.Client, error) {
	bearer := r.AnonKey
	if r.Tokens != nil {
		tok, err := r.Tokens.AccessToken(ctx)
		if err != nil {
			return nil, err
		}
		if tok != "" {
			bearer = tok
		}
	}
	c := postgrest.NewClient(strings.TrimRight(r.BaseURL, "/")+"/rest/v1/", "public", map[string]string{
		"apikey": r.AnonKey,
	})
	if c.ClientError != nil {
		return nil, fmt.Errorf("create postgrest client: %w", c.ClientError)
	}
	return c.SetAuthToken(bearer), nil
}

func isNoRows(err error) bool {
	return err != nil && strings.Contains(err.Error(), pgrstNoRows)
}

func (r *PostgrestUserConfigRepo) Get(ctx context.Context, userID string) (*model.UserConfig, error) {
	c, err := r.client(ctx)
	if err != nil {
		return nil, err
	}
	raw, _, err := c.From(r.Table).Select("*", "", false).Eq("user_id", userID).Single().Execute()
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		r.Logger.Error("get user config failed", zap.Error(err))
		return nil, err
	}

	var out model.UserConfig
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal user config: %w", err)
	}
	return &out, nil
}

func (r *PostgrestUserConfigRepo) Upsert(ctx context.Context, in *model.UserConfig) (*model.UserConfig, error) {
	c, err := r.client(ctx)
	if err != nil {
		return nil, err
	}
	row := userConfigWrite{
		UserID:           in.UserID,
		OpenAIAPIKey:     in.OpenAIAPIKey,
		LlamaCloudAPIKey: in.LlamaCloudAPIKey,
		CohereAPIKey:     in.CohereAPIKey,
		QdrantURL:        in.QdrantURL,
		QdrantAPIKey:     in.QdrantAPIKey,
		DefaultLLMModel:  in.DefaultLLMModel,
		Theme:            in.Theme,
		UpdatedAt:        in.UpdatedAt,
	}
	raw, _, err := c.From(r.Table).Upsert(row, "user_id", "representation", "").Execute()
	if err != nil {
		r.Logger.Error("upsert user config failed", zap.Error(err))
		return nil, err
	}

	var rows []model.UserConfig
	if err := sonic.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("unmarshal user config: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("upsert user config: no row returned")
	}
	return &rows[0], nil
}
