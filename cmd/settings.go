package cmd

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ragengine/console/internal/modules/model"
	"github.com/ragengine/console/internal/pages"
	"github.com/ragengine/console/internal/tui"
	"github.com/spf13/cobra"
)

var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change your API keys and model settings",
}

var configShowSecrets bool

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show your settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key>=<value>...",
	Short: "Change settings",
	Long: `Change one or more settings. An empty value clears the setting.

Keys: ` + strings.Join(settingKeys(), ", "),
	Example: `  rag-engine config set qdrant_url=http://localhost:6333 openai_api_key=sk-...
  rag-engine config set cohere_api_key=`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConfigSet,
}

func init() {
	configGetCmd.Flags().BoolVar(&configShowSecrets, "show-secrets", false, "print API keys in full")

	ConfigCmd.AddCommand(configGetCmd)
	ConfigCmd.AddCommand(configSetCmd)
}

type settingField struct {
	label  string
	secret bool
	field  func(f *pages.SettingsForm) *string
}

var settingFields = map[string]settingField{
	"openai_api_key":      {"OpenAI API Key", true, func(f *pages.SettingsForm) *string { return &f.OpenAIAPIKey }},
	"llama_cloud_api_key": {"LlamaCloud API Key", true, func(f *pages.SettingsForm) *string { return &f.LlamaCloudAPIKey }},
	"cohere_api_key":      {"Cohere API Key", true, func(f *pages.SettingsForm) *string { return &f.CohereAPIKey }},
	"qdrant_url":          {"Qdrant URL", false, func(f *pages.SettingsForm) *string { return &f.QdrantURL }},
	"qdrant_api_key":      {"Qdrant API Key", true, func(f *pages.SettingsForm) *string { return &f.QdrantAPIKey }},
	"default_llm_model":   {"Default LLM Model", false, func(f *pages.SettingsForm) *string { return &f.DefaultLLMModel }},
	"theme":               {"Theme", false, func(f *pages.SettingsForm) *string { return &f.Theme }},
}

func settingKeys() []string {
	keys := make([]string, 0, len(settingFields))
	for k := range settingFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// maskSecret keeps the last four characters of a key.
func maskSecret(v string) string {
	if v == "" {
		return ""
	}
	if len(v) <= 4 {
		return "****"
	}
	return "****" + v[len(v)-4:]
}

// settingsPage loads the user's settings; they are not tied to a space.
func settingsPage(ctx context.Context, a *app) (*pages.Settings, error) {
	api, err := a.signedIn()
	if err != nil {
		return nil, err
	}
	page := pages.NewSettings(api.UserConfig, api.Spaces, model.Space{}, a.log)
	if err := page.Load(ctx); err != nil {
		return nil, errors.New(page.Error)
	}
	return page, nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		page, err := settingsPage(ctx, a)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, k := range settingKeys() {
			f := settingFields[k]
			v := *f.field(&page.Form)
			if f.secret && !configShowSecrets {
				v = maskSecret(v)
			}
			if v == "" {
				v = tui.MutedStyle.Render("(not set)")
			}
			fmt.Fprintf(out, "%-20s %s\n", k, v)
		}
		if missing := page.Missing(); len(missing) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, tui.RenderWarning("Chat needs: "+strings.Join(missing, ", ")))
		}
		return nil
	})
}

func parseAssignments(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		k = strings.ToLower(strings.TrimSpace(k))
		if _, known := settingFields[k]; !known {
			return nil, fmt.Errorf("unknown setting %q (known: %s)", k, strings.Join(settingKeys(), ", "))
		}
		out[k] = v
	}
	if t, ok := out["theme"]; ok && t != "" {
		switch model.Theme(t) {
		case model.ThemeLight, model.ThemeDark, model.ThemeSystem:
		default:
			return nil, fmt.Errorf("theme must be one of light, dark, system")
		}
	}
	return out, nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	changes, err := parseAssignments(args)
	if err != nil {
		return err
	}
	return withApp(cmd, func(ctx context.Context, a *app) error {
		page, err := settingsPage(ctx, a)
		if err != nil {
			return err
		}
		for k, v := range changes {
			*settingFields[k].field(&page.Form) = v
		}
		if err := page.Save(ctx); err != nil {
			return errors.New(page.Error)
		}
		fmt.Fprintln(cmd.OutOrStdout(), tui.RenderSuccess(page.Notice))
		return nil
	})
}
