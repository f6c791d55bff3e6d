package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ragengine/console/internal/config"
	"github.com/ragengine/console/internal/modules/repo"
	"github.com/ragengine/console/internal/modules/service"
	"github.com/ragengine/console/internal/session"
	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	prev := config.File
	config.File = path
	t.Cleanup(func() { config.File = prev })
}

func TestBuildContainer_Wires(t *testing.T) {
	writeConfig(t, `
supabase:
  url: https://example.supabase.co
  anonKey: anon
session:
  file: `+filepath.Join(t.TempDir(), "session.yaml")+`
`)
	inj := BuildContainer(Options{ConsoleLog: true})

	store, err := do.Invoke[*session.Store](inj)
	require.NoError(t, err)
	assert.False(t, store.State().Initialized)

	r, err := do.Invoke[repo.UserConfigRepo](inj)
	require.NoError(t, err)
	assert.IsType(t, &repo.PostgrestUserConfigRepo{}, r)

	api, err := do.Invoke[*service.API](inj)
	require.NoError(t, err)
	assert.NotNil(t, api.Chat)
}

func TestBuildContainer_MissingSupabase(t *testing.T) {
	writeConfig(t, "log:\n  level: warn\n")
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_ANON_KEY", "")
	t.Setenv("RAG_ENGINE_SUPABASE_URL", "")
	t.Setenv("RAG_ENGINE_SUPABASE_ANONKEY", "")
	inj := BuildContainer(Options{})

	_, err := do.Invoke[*session.Store](inj)
	assert.Error(t, err)
}

func TestBuildContainer_UnknownBackend(t *testing.T) {
	writeConfig(t, `
supabase:
  url: https://example.supabase.co
  anonKey: anon
userConfig:
  backend: mongo
`)
	inj := BuildContainer(Options{})
	_, err := do.Invoke[repo.UserConfigRepo](inj)
	assert.Error(t, err)
}
