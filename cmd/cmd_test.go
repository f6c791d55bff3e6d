package cmd

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/ragengine/console/internal/bootstrap"
	"github.com/ragengine/console/internal/config"
	"github.com/ragengine/console/internal/modules/model"
	"github.com/ragengine/console/internal/modules/repo"
	"github.com/ragengine/console/internal/session"
	"github.com/samber/do"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// fakeIdentity is a signed-in (or signed-out) identity provider.
type fakeIdentity struct {
	mu       sync.Mutex
	user     *model.SessionUser
	listener func(model.AuthEvent, *model.SessionUser)
	password string
}

func (f *fakeIdentity) GetSession(ctx context.Context) (*model.SessionUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.user, nil
}

func (f *fakeIdentity) AccessToken(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.user == nil {
		return "", nil
	}
	return "tok-" + f.user.ID, nil
}

func (f *fakeIdentity) setUser(event model.AuthEvent, u *model.SessionUser) {
	f.mu.Lock()
	f.user = u
	l := f.listener
	f.mu.Unlock()
	if l != nil {
		l(event, u)
	}
}

func (f *fakeIdentity) SignInWithPassword(ctx context.Context, email, password string) error {
	if password != f.password {
		return &wrongPassword{}
	}
	f.setUser(model.AuthEventSignedIn, &model.SessionUser{ID: "u1", Email: email})
	return nil
}

func (f *fakeIdentity) SignUp(ctx context.Context, email, password string, data map[string]interface{}) error {
	return nil
}

func (f *fakeIdentity) SignOut(ctx context.Context) error {
	f.setUser(model.AuthEventSignedOut, nil)
	return nil
}

func (f *fakeIdentity) ResetPasswordForEmail(ctx context.Context, email string) error { return nil }

func (f *fakeIdentity) OnAuthStateChange(l func(model.AuthEvent, *model.SessionUser)) func() {
	f.mu.Lock()
	f.listener = l
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		f.listener = nil
		f.mu.Unlock()
	}
}

type wrongPassword struct{}

func (*wrongPassword) Error() string { return "Invalid login credentials" }

type memConfigs struct {
	mu   sync.Mutex
	rows map[string]model.UserConfig
}

func (m *memConfigs) Get(ctx context.Context, userID string) (*model.UserConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[userID]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *memConfigs) Upsert(ctx context.Context, c *model.UserConfig) (*model.UserConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[c.UserID] = *c
	out := *c
	return &out, nil
}

// backend is an in-memory RAG backend.
type backend struct {
	mu       sync.Mutex
	spaces   []model.Space
	docs     map[string][]model.Document
	messages map[string][]model.ChatMessage
	uploads  [][]string

	spaceGets  int
	spaceLists int
}

func newBackend() *backend {
	return &backend{docs: map[string][]model.Document{}, messages: map[string][]model.ChatMessage{}}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	raw, _ := sonic.Marshal(v)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(raw)
}

func (b *backend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /spaces", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.spaceLists++
		writeJSON(w, http.StatusOK, b.spaces)
	})
	mux.HandleFunc("GET /spaces/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.spaceGets++
		for _, s := range b.spaces {
			if s.ID == r.PathValue("id") {
				writeJSON(w, http.StatusOK, s)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Space not found"})
	})
	mux.HandleFunc("POST /spaces", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		now := time.Now().UTC()
		sp := model.Space{ID: "s" + string(rune('0'+len(b.spaces)+1)), UserID: "u1", Name: r.URL.Query().Get("name"),
			Status: model.SpaceStatusActive, CreatedAt: now, UpdatedAt: now}
		b.spaces = append(b.spaces, sp)
		writeJSON(w, http.StatusOK, sp)
	})
	mux.HandleFunc("DELETE /spaces/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		kept := b.spaces[:0]
		for _, s := range b.spaces {
			if s.ID != r.PathValue("id") {
				kept = append(kept, s)
			}
		}
		b.spaces = kept
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /spaces/{id}/documents", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, b.docs[r.PathValue("id")])
	})
	mux.HandleFunc("DELETE /spaces/{id}/documents/{doc}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		id := r.PathValue("id")
		var kept []model.Document
		for _, d := range b.docs[id] {
			if d.ID != r.PathValue("doc") {
				kept = append(kept, d)
			}
		}
		b.docs[id] = kept
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /ingest/{id}", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		id := r.PathValue("id")
		var names []string
		var out []model.IngestResponse
		for _, fh := range r.MultipartForm.File["files"] {
			names = append(names, fh.Filename)
			b.docs[id] = append(b.docs[id], model.Document{ID: "d-" + fh.Filename, SpaceID: id, Filename: fh.Filename,
				Status: model.DocumentStatusProcessing, UploadedAt: time.Now().UTC()})
			out = append(out, model.IngestResponse{Message: "File uploaded and queued for processing", Filename: fh.Filename})
		}
		b.uploads = append(b.uploads, names)
		writeJSON(w, http.StatusOK, out)
	})
	mux.HandleFunc("POST /chat/{id}", func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var req model.ChatRequest
		_ = sonic.Unmarshal(raw, &req)
		if req.Query == "fail" {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "LLM unavailable"})
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		id := r.PathValue("id")
		now := time.Now().UTC()
		answer := "Answer to: " + req.Query
		b.messages[id] = append(b.messages[id],
			model.ChatMessage{ID: "m-u", SpaceID: id, Role: model.RoleUser, Content: req.Query, CreatedAt: now},
			model.ChatMessage{ID: "m-a", SpaceID: id, Role: model.RoleAssistant, Content: answer, CreatedAt: now})
		score := 0.75
		writeJSON(w, http.StatusOK, model.ChatResponse{Answer: answer, Sources: []model.Source{
			{Text: "snippet", Score: &score, Metadata: map[string]interface{}{"filename": "paper.pdf"}},
		}})
	})
	mux.HandleFunc("GET /spaces/{id}/messages", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, b.messages[r.PathValue("id")])
	})
	mux.HandleFunc("DELETE /spaces/{id}/messages", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.messages, r.PathValue("id"))
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

type env struct {
	backend  *backend
	identity *fakeIdentity
	configs  *memConfigs
}

func setupEnv(t *testing.T, signedIn bool) *env {
	t.Helper()
	e := &env{
		backend:  newBackend(),
		identity: &fakeIdentity{password: "secret1"},
		configs:  &memConfigs{rows: map[string]model.UserConfig{}},
	}
	if signedIn {
		e.identity.user = &model.SessionUser{ID: "u1", Email: "ada@example.com",
			UserMetadata: map[string]interface{}{"full_name": "Ada Lovelace"}}
	}
	srv := httptest.NewServer(e.backend.handler())
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "api:\n  baseURL: " + srv.URL + "\n  readRetries: 0\nsupabase:\n  url: https://example.supabase.co\n  anonKey: anon\nlog:\n  level: fatal\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	prevFile := config.File
	config.File = path

	prev := newInjector
	newInjector = func(consoleLog bool) *do.Injector {
		inj := bootstrap.BuildContainer(bootstrap.Options{ConsoleLog: consoleLog})
		do.Override[session.IdentityProvider](inj, func(i *do.Injector) (session.IdentityProvider, error) {
			return e.identity, nil
		})
		do.Override[repo.UserConfigRepo](inj, func(i *do.Injector) (repo.UserConfigRepo, error) {
			return e.configs, nil
		})
		return inj
	}
	t.Cleanup(func() {
		newInjector = prev
		config.File = prevFile
	})
	return e
}

func resetFlags() {
	authEmail, authPassword, authFullName, authConfirmPassword = "", "", "", ""
	spacesQuery, spacesYes, spacesConfirm = "", false, ""
	docsYes = false
	chatQuestion, chatYes, chatOutput = "", false, ""
	configShowSecrets = false
}

// execute runs args against a fresh root command and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	root := &cobra.Command{Use: "rag-engine", SilenceUsage: true, SilenceErrors: true}
	root.AddCommand(LoginCmd, RegisterCmd, LogoutCmd, ResetPasswordCmd, WhoamiCmd,
		SpacesCmd, DocsCmd, ChatCmd, ConfigCmd)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func lines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}
