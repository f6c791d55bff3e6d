package pages

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ragengine/console/internal/modules/model"
	"github.com/ragengine/console/internal/modules/service"
	"go.uber.org/zap"
)

const (
	MsgSettingsSaved         = "Settings saved successfully!"
	MsgSettingsSaveFailed    = "Failed to save settings"
	MsgSettingsLoadFailed    = "Failed to load settings"
	MsgDeleteNameMismatch    = "Deletion cancelled - name did not match"
	MsgDeleteWorkspaceFailed = "Failed to delete workspace"
)

// ErrNameMismatch aborts a workspace deletion whose typed name was wrong.
var ErrNameMismatch = errors.New(MsgDeleteNameMismatch)

// SettingsForm holds the editable settings as plain strings; "" means unset.
type SettingsForm struct {
	OpenAIAPIKey     string
	LlamaCloudAPIKey string
	CohereAPIKey     string
	QdrantURL        string
	QdrantAPIKey     string
	DefaultLLMModel  string
	Theme            string
}

type Settings struct {
	Space  model.Space
	Form   SettingsForm
	Notice string
	Error  string

	configs service.UserConfigService
	spaces  service.SpaceService
	log     *zap.Logger
}

func NewSettings(configs service.UserConfigService, spaces service.SpaceService, space model.Space, log *zap.Logger) *Settings {
	return &Settings{
		Space:   space,
		Form:    SettingsForm{DefaultLLMModel: model.DefaultLLMModel, Theme: string(model.ThemeSystem)},
		configs: configs,
		spaces:  spaces,
		log:     log,
	}
}

// Load fills the form from the saved settings; with none saved the form stays empty.
func (p *Settings) Load(ctx context.Context) error {
	c, err := p.configs.Get(ctx)
	if err != nil {
		p.log.Error("failed to load config", zap.Error(err))
		p.Error = MsgSettingsLoadFailed
		return err
	}
	if c == nil {
		return nil
	}
	p.Form = SettingsForm{
		OpenAIAPIKey:     model.StringValue(c.OpenAIAPIKey),
		LlamaCloudAPIKey: model.StringValue(c.LlamaCloudAPIKey),
		CohereAPIKey:     model.StringValue(c.CohereAPIKey),
		QdrantURL:        model.StringValue(c.QdrantURL),
		QdrantAPIKey:     model.StringValue(c.QdrantAPIKey),
		DefaultLLMModel:  c.DefaultLLMModel,
		Theme:            string(c.Theme),
	}
	if p.Form.DefaultLLMModel == "" {
		p.Form.DefaultLLMModel = model.DefaultLLMModel
	}
	if p.Form.Theme == "" {
		p.Form.Theme = string(model.ThemeSystem)
	}
	return nil
}

// Missing lists the fields the UI marks as required. Saving does not enforce them.
func (p *Settings) Missing() []string {
	var out []string
	if strings.TrimSpace(p.Form.QdrantURL) == "" {
		out = append(out, "Qdrant URL")
	}
	if strings.TrimSpace(p.Form.OpenAIAPIKey) == "" {
		out = append(out, "OpenAI API Key")
	}
	return out
}

func (f SettingsForm) toConfig() *model.UserConfig {
	return &model.UserConfig{
		OpenAIAPIKey:     model.NullableString(strings.TrimSpace(f.OpenAIAPIKey)),
		LlamaCloudAPIKey: model.NullableString(strings.TrimSpace(f.LlamaCloudAPIKey)),
		CohereAPIKey:     model.NullableString(strings.TrimSpace(f.CohereAPIKey)),
		QdrantURL:        model.NullableString(strings.TrimSpace(f.QdrantURL)),
		QdrantAPIKey:     model.NullableString(strings.TrimSpace(f.QdrantAPIKey)),
		DefaultLLMModel:  strings.TrimSpace(f.DefaultLLMModel),
		Theme:            model.Theme(f.Theme),
	}
}

// Save upserts the whole form. Empty fields are stored as null.
func (p *Settings) Save(ctx context.Context) error {
	p.Notice, p.Error = "", ""
	if _, err := p.configs.Upsert(ctx, p.Form.toConfig()); err != nil {
		p.log.Error("failed to save settings", zap.Error(err))
		p.Error = MsgSettingsSaveFailed
		return err
	}
	p.Notice = MsgSettingsSaved
	return nil
}

func DeleteWorkspacePrompt(name string) string {
	return fmt.Sprintf("Are you sure you want to delete %q? This action cannot be undone and will delete all documents and chat history.", name)
}

func TypeNamePrompt(name string) string {
	return fmt.Sprintf("Type %q to confirm deletion:", name)
}

// DeleteWorkspace deletes the space after a yes/no confirmation and the exact space
// name typed back. It reports whether the space was deleted.
func (p *Settings) DeleteWorkspace(ctx context.Context, confirm Confirmer, prompt Prompter) (bool, error) {
	p.Notice, p.Error = "", ""
	if !confirm(DeleteWorkspacePrompt(p.Space.Name)) {
		return false, nil
	}
	typed, ok := prompt(TypeNamePrompt(p.Space.Name))
	if !ok || typed != p.Space.Name {
		p.Error = MsgDeleteNameMismatch
		return false, ErrNameMismatch
	}
	if err := p.spaces.Delete(ctx, p.Space.ID); err != nil {
		p.log.Error("failed to delete workspace", zap.String("space_id", p.Space.ID), zap.Error(err))
		p.Error = MsgDeleteWorkspaceFailed
		return false, err
	}
	return true, nil
}
