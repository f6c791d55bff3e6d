package handler

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ragengine/console/internal/infra/httpclient"
	"github.com/ragengine/console/internal/modules/model"
	"github.com/ragengine/console/internal/modules/service"
	"github.com/ragengine/console/internal/pages"
	"go.uber.org/zap"
)

type SpaceHandler struct {
	auth pages.Auth
	api  *service.API
	log  *zap.Logger
}

func NewSpaceHandler(auth pages.Auth, api *service.API, log *zap.Logger) *SpaceHandler {
	return &SpaceHandler{auth: auth, api: api, log: log}
}

type SendMessageReq struct {
	Message string `form:"message"`
}

type SaveSettingsReq struct {
	OpenAIAPIKey     string `form:"openai_api_key"`
	LlamaCloudAPIKey string `form:"llama_cloud_api_key"`
	CohereAPIKey     string `form:"cohere_api_key"`
	QdrantURL        string `form:"qdrant_url"`
	QdrantAPIKey     string `form:"qdrant_api_key"`
	DefaultLLMModel  string `form:"default_llm_model"`
	Theme            string `form:"theme"`
}

type DeleteWorkspaceReq struct {
	Confirm     string `form:"confirm"`
	ConfirmName string `form:"confirm_name"`
}

var themes = []model.Theme{model.ThemeSystem, model.ThemeLight, model.ThemeDark}

func confirmed(c *gin.Context) pages.Confirmer {
	yes := c.PostForm("confirm") == "yes"
	return func(string) bool { return yes }
}

// layout resolves the space of the request. When it cannot, the response is already a
// redirect to the dashboard and ok is false.
func (h *SpaceHandler) layout(c *gin.Context, section string) (*pages.SpaceLayout, bool) {
	l, err := pages.LoadSpaceLayout(c.Request.Context(), h.auth, h.api.Spaces, c.Param("space_id"), section, h.log)
	if err != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return nil, false
	}
	return l, true
}

// Index redirects GET /spaces/:space_id to the chat page.
func (h *SpaceHandler) Index(c *gin.Context) {
	c.Redirect(http.StatusFound, pages.SpacePath(c.Param("space_id"))+"/chat")
}

func (h *SpaceHandler) renderChat(c *gin.Context, l *pages.SpaceLayout, chat *pages.Chat, draft string) {
	c.HTML(http.StatusOK, "chat.html", gin.H{
		"Title":   l.Space.Name + " · Chat",
		"Layout":  l,
		"Entries": chat.Entries(),
		"Sources": chat.Sources(),
		"Error":   chat.ErrorMessage(),
		"Draft":   draft,
	})
}

// Chat renders GET /spaces/:space_id/chat
func (h *SpaceHandler) Chat(c *gin.Context) {
	l, ok := h.layout(c, "chat")
	if !ok {
		return
	}
	chat := pages.NewChat(h.api.Chat, l.SpaceID, h.log)
	if err := chat.Load(c.Request.Context()); err == nil && c.Query(answeredParam) != "" {
		chat.ShowLatestSources()
	}
	h.renderChat(c, l, chat, "")
}

// answeredParam marks the redirect after a send, so the chat page opens the answer's sources.
const answeredParam = "answered"

// SendMessage handles POST /spaces/:space_id/chat and redirects back to the chat page.
// A failed send renders in place and keeps the text in the input.
func (h *SpaceHandler) SendMessage(c *gin.Context) {
	l, ok := h.layout(c, "chat")
	if !ok {
		return
	}
	req := SendMessageReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid form", "error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	chat := pages.NewChat(h.api.Chat, l.SpaceID, h.log)
	sent, err := chat.Submit(ctx, req.Message)
	if err != nil {
		_ = chat.Load(ctx)
		h.renderChat(c, l, chat, strings.TrimSpace(req.Message))
		return
	}
	target := pages.SpacePath(l.SpaceID) + "/chat"
	if sent {
		target += "?" + answeredParam + "=1"
	}
	c.Redirect(http.StatusSeeOther, target)
}

// ClearChat handles POST /spaces/:space_id/chat/clear
func (h *SpaceHandler) ClearChat(c *gin.Context) {
	l, ok := h.layout(c, "chat")
	if !ok {
		return
	}
	chat := pages.NewChat(h.api.Chat, l.SpaceID, h.log)
	if _, err := chat.Clear(c.Request.Context(), confirmed(c)); err != nil {
		_ = chat.Load(c.Request.Context())
		h.renderChat(c, l, chat, "")
		return
	}
	c.Redirect(http.StatusSeeOther, pages.SpacePath(l.SpaceID)+"/chat")
}

// ExportChat serves GET /spaces/:space_id/chat/export as a markdown download.
func (h *SpaceHandler) ExportChat(c *gin.Context) {
	l, ok := h.layout(c, "chat")
	if !ok {
		return
	}
	chat := pages.NewChat(h.api.Chat, l.SpaceID, h.log)
	if err := chat.Load(c.Request.Context()); err != nil {
		c.String(http.StatusBadGateway, pages.MsgHistoryFailed)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="chat-%s.md"`, l.SpaceID))
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(chat.ExportMarkdown(l.Space.Name)))
}

func (h *SpaceHandler) renderDocuments(c *gin.Context, l *pages.SpaceLayout, p *pages.Documents) {
	c.HTML(http.StatusOK, "documents.html", gin.H{
		"Title":  l.Space.Name + " · Knowledge Base",
		"Layout": l,
		"Page":   p,
		"Rows":   p.Rows(),
		"Stats":  p.Stats(),
	})
}

// Documents renders GET /spaces/:space_id/documents
func (h *SpaceHandler) Documents(c *gin.Context) {
	l, ok := h.layout(c, "documents")
	if !ok {
		return
	}
	p := pages.NewDocuments(h.api.Documents, l.SpaceID, h.log)
	_ = p.Load(c.Request.Context())
	h.renderDocuments(c, l, p)
}

// UploadDocuments handles the multipart POST /spaces/:space_id/documents
func (h *SpaceHandler) UploadDocuments(c *gin.Context) {
	l, ok := h.layout(c, "documents")
	if !ok {
		return
	}
	p := pages.NewDocuments(h.api.Documents, l.SpaceID, h.log)

	files, err := readUploads(c)
	if err != nil {
		h.log.Error("read upload form failed", zap.Error(err))
		_ = p.Load(c.Request.Context())
		p.Error = pages.MsgUploadFailed
		h.renderDocuments(c, l, p)
		return
	}
	if len(files) == 0 {
		c.Redirect(http.StatusSeeOther, pages.SpacePath(l.SpaceID)+"/documents")
		return
	}
	if _, err := p.Upload(c.Request.Context(), files); err != nil {
		_ = p.Load(c.Request.Context())
	}
	h.renderDocuments(c, l, p)
}

func readUploads(c *gin.Context) ([]httpclient.UploadFile, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	headers := form.File[httpclient.UploadField]
	out := make([]httpclient.UploadFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		out = append(out, httpclient.UploadFile{Name: fh.Filename, Content: content})
	}
	return out, nil
}

// DeleteDocument handles POST /spaces/:space_id/documents/:document_id/delete
func (h *SpaceHandler) DeleteDocument(c *gin.Context) {
	l, ok := h.layout(c, "documents")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	p := pages.NewDocuments(h.api.Documents, l.SpaceID, h.log)
	_ = p.Load(ctx)
	if _, err := p.Delete(ctx, c.Param("document_id"), confirmed(c)); err != nil {
		h.renderDocuments(c, l, p)
		return
	}
	c.Redirect(http.StatusSeeOther, pages.SpacePath(l.SpaceID)+"/documents")
}

func (h *SpaceHandler) renderSettings(c *gin.Context, l *pages.SpaceLayout, p *pages.Settings) {
	c.HTML(http.StatusOK, "settings.html", gin.H{
		"Title":  l.Space.Name + " · Settings",
		"Layout": l,
		"Page":   p,
		"Themes": themes,
	})
}

// Settings renders GET /spaces/:space_id/settings
func (h *SpaceHandler) Settings(c *gin.Context) {
	l, ok := h.layout(c, "settings")
	if !ok {
		return
	}
	p := pages.NewSettings(h.api.UserConfig, h.api.Spaces, l.Space, h.log)
	_ = p.Load(c.Request.Context())
	h.renderSettings(c, l, p)
}

// SaveSettings handles POST /spaces/:space_id/settings
func (h *SpaceHandler) SaveSettings(c *gin.Context) {
	l, ok := h.layout(c, "settings")
	if !ok {
		return
	}
	req := SaveSettingsReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid form", "error": err.Error()})
		return
	}

	p := pages.NewSettings(h.api.UserConfig, h.api.Spaces, l.Space, h.log)
	p.Form = pages.SettingsForm{
		OpenAIAPIKey:     req.OpenAIAPIKey,
		LlamaCloudAPIKey: req.LlamaCloudAPIKey,
		CohereAPIKey:     req.CohereAPIKey,
		QdrantURL:        req.QdrantURL,
		QdrantAPIKey:     req.QdrantAPIKey,
		DefaultLLMModel:  req.DefaultLLMModel,
		Theme:            req.Theme,
	}
	_ = p.Save(c.Request.Context())
	h.renderSettings(c, l, p)
}

// DeleteWorkspace handles POST /spaces/:space_id/settings/delete
func (h *SpaceHandler) DeleteWorkspace(c *gin.Context) {
	l, ok := h.layout(c, "settings")
	if !ok {
		return
	}
	req := DeleteWorkspaceReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid form", "error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	p := pages.NewSettings(h.api.UserConfig, h.api.Spaces, l.Space, h.log)
	deleted, err := p.DeleteWorkspace(ctx,
		func(string) bool { return req.Confirm == "yes" },
		func(string) (string, bool) { return req.ConfirmName, true })
	if deleted {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	if err == nil {
		c.Redirect(http.StatusSeeOther, pages.SpacePath(l.SpaceID)+"/settings")
		return
	}
	msg := p.Error
	_ = p.Load(ctx)
	p.Error = msg
	h.renderSettings(c, l, p)
}
