package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/ragengine/console/internal/infra/httpclient"
	"github.com/ragengine/console/internal/modules/model"
	"github.com/ragengine/console/internal/modules/service"
	"github.com/ragengine/console/internal/session"
	"github.com/ragengine/console/internal/web"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeBackend is an in-memory stand-in for the REST backend.
type fakeBackend struct {
	mu        sync.Mutex
	spaces    []model.Space
	documents map[string][]model.Document
	messages  map[string][]model.ChatMessage
	chatErr   string
	uploads   [][]string
	deleted   []string
	chatCalls int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		spaces:    []model.Space{{ID: "s1", Name: "Research", Status: model.SpaceStatusActive}},
		documents: map[string][]model.Document{},
		messages:  map[string][]model.ChatMessage{},
	}
}

func (f *fakeBackend) write(w http.ResponseWriter, status int, v interface{}) {
	raw, _ := sonic.Marshal(v)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(raw)
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/spaces":
		f.write(w, 200, f.spaces)
	case r.Method == http.MethodPost && r.URL.Path == "/spaces":
		sp := model.Space{ID: "s" + time.Now().Format("150405.000000"), Name: r.URL.Query().Get("name")}
		f.spaces = append(f.spaces, sp)
		f.write(w, 200, sp)
	case r.Method == http.MethodDelete && len(parts) == 2 && parts[0] == "spaces":
		f.deleted = append(f.deleted, parts[1])
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodGet && len(parts) == 3 && parts[2] == "documents":
		f.write(w, 200, f.documents[parts[1]])
	case r.Method == http.MethodDelete && len(parts) == 4 && parts[2] == "documents":
		f.deleted = append(f.deleted, parts[3])
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodPost && parts[0] == "ingest":
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			f.write(w, 400, map[string]string{"detail": err.Error()})
			return
		}
		var names []string
		var out []model.IngestResponse
		for _, fh := range r.MultipartForm.File[httpclient.UploadField] {
			names = append(names, fh.Filename)
			f.documents[parts[1]] = append(f.documents[parts[1]], model.Document{
				ID: "d-" + fh.Filename, SpaceID: parts[1], Filename: fh.Filename, Status: model.DocumentStatusProcessing,
			})
			out = append(out, model.IngestResponse{Message: "queued", Filename: fh.Filename})
		}
		f.uploads = append(f.uploads, names)
		f.write(w, 200, out)
	case r.Method == http.MethodPost && parts[0] == "chat":
		f.chatCalls++
		if f.chatErr != "" {
			f.write(w, 500, map[string]string{"detail": f.chatErr})
			return
		}
		var req model.ChatRequest
		raw, _ := io.ReadAll(r.Body)
		_ = sonic.Unmarshal(raw, &req)
		resp := model.ChatResponse{Answer: "answer to " + req.Query, Sources: []model.Source{{Text: "cited text", Metadata: map[string]interface{}{"filename": "paper.pdf"}}}}
		f.messages[parts[1]] = append(f.messages[parts[1]],
			model.ChatMessage{ID: "m-u", Role: model.RoleUser, Content: req.Query},
			model.ChatMessage{ID: "m-a", Role: model.RoleAssistant, Content: resp.Answer, Sources: resp.Sources})
		f.write(w, 200, resp)
	case r.Method == http.MethodGet && len(parts) == 3 && parts[2] == "messages":
		f.write(w, 200, f.messages[parts[1]])
	case r.Method == http.MethodDelete && len(parts) == 3 && parts[2] == "messages":
		f.messages[parts[1]] = nil
		w.WriteHeader(http.StatusNoContent)
	default:
		f.write(w, 404, map[string]string{"detail": "Not found"})
	}
}

type memConfigs struct {
	rows map[string]*model.UserConfig
}

func (m *memConfigs) Get(ctx context.Context, userID string) (*model.UserConfig, error) {
	return m.rows[userID], nil
}

func (m *memConfigs) Upsert(ctx context.Context, c *model.UserConfig) (*model.UserConfig, error) {
	row := *c
	m.rows[c.UserID] = &row
	return &row, nil
}

type fakeAuth struct {
	user *model.SessionUser
	err  error
}

func (f *fakeAuth) State() session.State {
	return session.State{User: f.user, Initialized: true}
}

func (f *fakeAuth) SignIn(ctx context.Context, email, password string) error {
	if f.err != nil {
		return f.err
	}
	f.user = &model.SessionUser{ID: "u1", Email: email}
	return nil
}

func (f *fakeAuth) SignUp(ctx context.Context, email, password, fullName string) error {
	return f.err
}

func (f *fakeAuth) SignOut(ctx context.Context) error {
	f.user = nil
	return f.err
}

func (f *fakeAuth) ResetPassword(ctx context.Context, email string) error { return f.err }

func (f *fakeAuth) UserID() string {
	if f.user == nil {
		return ""
	}
	return f.user.ID
}

type testEnv struct {
	router  *gin.Engine
	backend *fakeBackend
	auth    *fakeAuth
	configs *memConfigs
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := newFakeBackend()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	auth := &fakeAuth{user: &model.SessionUser{ID: "u1", Email: "ada@example.com"}}
	client := &httpclient.BackendClient{BaseURL: srv.URL, HTTPClient: srv.Client(), Logger: zap.NewNop()}
	configs := &memConfigs{rows: map[string]*model.UserConfig{}}
	api := service.NewAPI(client, configs, auth, zap.NewNop())

	tmpl, err := web.Templates()
	require.NoError(t, err)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)

	ah := NewAuthHandler(auth, zap.NewNop())
	r.GET("/", ah.Landing)
	r.GET("/login", ah.LoginPage)
	r.POST("/login", ah.Login)
	r.POST("/register", ah.Register)
	r.POST("/forgot-password", ah.ForgotPassword)
	r.POST("/logout", ah.Logout)

	dh := NewDashboardHandler(auth, api.Spaces, zap.NewNop())
	r.GET("/dashboard", dh.Dashboard)
	r.POST("/dashboard/spaces", dh.CreateSpace)

	sh := NewSpaceHandler(auth, api, zap.NewNop())
	r.GET("/spaces/:space_id", sh.Index)
	r.GET("/spaces/:space_id/chat", sh.Chat)
	r.POST("/spaces/:space_id/chat", sh.SendMessage)
	r.POST("/spaces/:space_id/chat/clear", sh.ClearChat)
	r.GET("/spaces/:space_id/chat/export", sh.ExportChat)
	r.GET("/spaces/:space_id/documents", sh.Documents)
	r.POST("/spaces/:space_id/documents", sh.UploadDocuments)
	r.POST("/spaces/:space_id/documents/:document_id/delete", sh.DeleteDocument)
	r.GET("/spaces/:space_id/settings", sh.Settings)
	r.POST("/spaces/:space_id/settings", sh.SaveSettings)
	r.POST("/spaces/:space_id/settings/delete", sh.DeleteWorkspace)

	return &testEnv{router: r, backend: backend, auth: auth, configs: configs}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (e *testEnv) postForm(path string, form string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req)
}
