package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ragengine/console/internal/modules/model"
	"github.com/ragengine/console/internal/pages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSpace(e *env, id, name string) {
	now := time.Now().UTC()
	e.backend.spaces = append(e.backend.spaces, model.Space{ID: id, UserID: "u1", Name: name,
		Status: model.SpaceStatusActive, CreatedAt: now, UpdatedAt: now})
}

func TestCommands_RequireLogin(t *testing.T) {
	setupEnv(t, false)
	for _, args := range [][]string{
		{"whoami"},
		{"spaces", "ls"},
		{"docs", "ls", "s1"},
		{"chat", "s1", "-q", "hi"},
		{"config", "get"},
	} {
		_, err := execute(t, args...)
		assert.ErrorIs(t, err, ErrNotLoggedIn, args)
	}
}

func TestLoginAndLogout(t *testing.T) {
	e := setupEnv(t, false)

	_, err := execute(t, "login", "-e", "ada@example.com", "-p", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid login credentials", err.Error())

	out, err := execute(t, "login", "-e", "ada@example.com", "-p", "secret1")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as ada@example.com")

	out, err = execute(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "ada@example.com")

	_, err = execute(t, "logout")
	require.NoError(t, err)
	assert.Nil(t, e.identity.user)
}

func TestRegister_ValidatesLocally(t *testing.T) {
	setupEnv(t, false)
	_, err := execute(t, "register", "--name", "Ada", "-e", "ada@example.com", "-p", "abc", "--confirm-password", "abd")
	require.Error(t, err)
	assert.Equal(t, pages.MsgPasswordsMismatch, err.Error())

	_, err = execute(t, "register", "--name", "Ada", "-e", "ada@example.com", "-p", "abc")
	require.Error(t, err)
	assert.Equal(t, pages.MsgPasswordTooShort, err.Error())

	out, err := execute(t, "register", "--name", "Ada", "-e", "ada@example.com", "-p", "abcdef")
	require.NoError(t, err)
	assert.Contains(t, out, pages.MsgConfirmEmail)
}

func TestSpaces_CreateListRemove(t *testing.T) {
	e := setupEnv(t, true)

	out, err := execute(t, "spaces", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "No spaces yet")

	out, err = execute(t, "spaces", "create", "  Research Notes  ")
	require.NoError(t, err)
	assert.Contains(t, out, `Created "Research Notes" (s1)`)

	out, err = execute(t, "spaces", "ls", "-q", "research")
	require.NoError(t, err)
	assert.Contains(t, out, "Research Notes")
	assert.Len(t, lines(out), 2)

	_, err = execute(t, "spaces", "rm", "s1", "--yes", "--confirm-name", "research notes")
	require.Error(t, err)
	assert.Equal(t, pages.MsgDeleteNameMismatch, err.Error())
	assert.Len(t, e.backend.spaces, 1)

	out, err = execute(t, "spaces", "rm", "Research Notes", "--yes", "--confirm-name", "Research Notes")
	require.NoError(t, err)
	assert.Contains(t, out, `Deleted "Research Notes"`)
	assert.Empty(t, e.backend.spaces)
}

func TestSpaces_CreateBlank(t *testing.T) {
	e := setupEnv(t, true)
	_, err := execute(t, "spaces", "create", "   ")
	require.Error(t, err)
	assert.Empty(t, e.backend.spaces)
}

func TestDocs_UploadListRemove(t *testing.T) {
	e := setupEnv(t, true)
	seedSpace(e, "s1", "Research")

	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.txt", "b.md", "c.pdf"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("content of "+name), 0o600))
		paths = append(paths, p)
	}

	out, err := execute(t, append([]string{"docs", "upload", "s1"}, paths...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "3 file(s) uploaded")
	require.Len(t, e.backend.uploads, 1)
	assert.Equal(t, []string{"a.txt", "b.md", "c.pdf"}, e.backend.uploads[0])

	out, err = execute(t, "docs", "ls", "Research")
	require.NoError(t, err)
	assert.Contains(t, out, "b.md")
	assert.Contains(t, out, "[Processing]")
	assert.Contains(t, out, "3 documents, 0 indexed, 3 processing, 0 failed")

	out, err = execute(t, "docs", "rm", "s1", "d-b.md", "-y")
	require.NoError(t, err)
	assert.Contains(t, out, "Document deleted")
	assert.Len(t, e.backend.docs["s1"], 2)
}

func TestDocs_UploadMissingFile(t *testing.T) {
	e := setupEnv(t, true)
	seedSpace(e, "s1", "Research")
	_, err := execute(t, "docs", "upload", "s1", filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.Empty(t, e.backend.uploads)
}

func TestChat_OneShotHistoryClearExport(t *testing.T) {
	e := setupEnv(t, true)
	seedSpace(e, "s1", "Research")

	out, err := execute(t, "chat", "s1", "-q", "what is RAG?")
	require.NoError(t, err)
	assert.Contains(t, out, "Answer to: what is RAG?")
	assert.Contains(t, out, "paper.pdf (75%)")

	out, err = execute(t, "chat", "history", "s1")
	require.NoError(t, err)
	assert.Contains(t, out, "what is RAG?")
	assert.Contains(t, out, "Assistant")

	file := filepath.Join(t.TempDir(), "chat.md")
	_, err = execute(t, "chat", "export", "s1", "-o", file)
	require.NoError(t, err)
	md, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(md), "# Research")

	out, err = execute(t, "chat", "clear", "s1", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Chat history cleared")
	assert.Empty(t, e.backend.messages["s1"])
}

func TestChat_SendFailure(t *testing.T) {
	e := setupEnv(t, true)
	seedSpace(e, "s1", "Research")
	_, err := execute(t, "chat", "s1", "-q", "fail")
	require.Error(t, err)
	assert.Equal(t, "LLM unavailable", err.Error())
	assert.Empty(t, e.backend.messages["s1"])
}

func TestChat_UnknownSpace(t *testing.T) {
	setupEnv(t, true)
	_, err := execute(t, "chat", "nope", "-q", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `space "nope" not found`)
}

func TestResolveSpace_ByIDThenName(t *testing.T) {
	e := setupEnv(t, true)
	seedSpace(e, "s1", "Research")

	out, err := execute(t, "docs", "ls", "s1")
	require.NoError(t, err)
	assert.Contains(t, out, "No documents yet")
	assert.Equal(t, 1, e.backend.spaceGets)
	assert.Zero(t, e.backend.spaceLists, "an id resolves without listing spaces")

	e.backend.spaceGets = 0
	out, err = execute(t, "docs", "ls", "research")
	require.NoError(t, err)
	assert.Contains(t, out, "No documents yet")
	assert.NotZero(t, e.backend.spaceGets)
	assert.Equal(t, 1, e.backend.spaceLists, "an unknown id falls back to a name match")
}

func TestConfig_SetAndGet(t *testing.T) {
	e := setupEnv(t, true)

	out, err := execute(t, "config", "get")
	require.NoError(t, err)
	assert.Contains(t, out, "Qdrant URL")

	_, err = execute(t, "config", "set", "theme=purple")
	require.Error(t, err)

	out, err = execute(t, "config", "set", "openai_api_key=sk-abcdef1234", "qdrant_url=")
	require.NoError(t, err)
	assert.Contains(t, out, pages.MsgSettingsSaved)

	saved := e.configs.rows["u1"]
	require.NotNil(t, saved.OpenAIAPIKey)
	assert.Equal(t, "sk-abcdef1234", *saved.OpenAIAPIKey)
	assert.Nil(t, saved.QdrantURL)

	out, err = execute(t, "config", "get")
	require.NoError(t, err)
	assert.Contains(t, out, "****1234")
	assert.NotContains(t, out, "sk-abcdef1234")
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"QDRANT_URL=http://q:6333", "theme=dark"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"qdrant_url": "http://q:6333", "theme": "dark"}, got)

	_, err = parseAssignments([]string{"nokey"})
	assert.Error(t, err)
	_, err = parseAssignments([]string{"colour=red"})
	assert.Error(t, err)
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", maskSecret(""))
	assert.Equal(t, "****", maskSecret("abc"))
	assert.Equal(t, "****wxyz", maskSecret("sk-wxyz"))
}
