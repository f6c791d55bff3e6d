package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/ragengine/console/internal/config"
	"github.com/ragengine/console/internal/modules/model"
	"github.com/ragengine/console/internal/pkg/mime"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	fallbackDetail       = "An error occurred"
	fallbackUploadDetail = "Upload failed"

	// UploadField is the multipart key every uploaded file is attached under.
	UploadField = "files"
)

// TokenSource yields the current access token, or "" when there is no session.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// APIError carries the backend's {detail} message for a non-2xx response.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string { return e.Detail }

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type errorBody struct {
	Detail string `json:"detail"`
}

// UploadFile is one file of a multi-file ingest request.
type UploadFile struct {
	Name    string
	Content []byte
}

// BackendClient is the HTTP client for the RAG REST backend.
type BackendClient struct {
	BaseURL     string
	HTTPClient  *http.Client
	Logger      *zap.Logger
	Tokens      TokenSource
	ReadRetries int
}

// NewBackendClient creates a BackendClient with OpenTelemetry instrumentation
func NewBackendClient(cfg *config.Config, tokens TokenSource, log *zap.Logger) *BackendClient {
	return &BackendClient{
		BaseURL: cfg.API.BaseURL,
		HTTPClient: &http.Client{
			Timeout:   cfg.API.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		Logger:      log,
		Tokens:      tokens,
		ReadRetries: cfg.API.ReadRetries,
	}
}

func (c *BackendClient) authorization(ctx context.Context) string {
	if c.Tokens == nil {
		return ""
	}
	token, err := c.Tokens.AccessToken(ctx)
	if err != nil {
		c.Logger.Warn("access token unavailable", zap.Error(err))
		return ""
	}
	if token == "" {
		return ""
	}
	return "Bearer " + token
}

func (c *BackendClient) endpoint(path string, query url.Values) string {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// doJSON sends one request and decodes a 2xx body into out (when out is non-nil).
func (c *BackendClient) doJSON(ctx context.Context, op, method, path string, query url.Values, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		raw, err := sonic.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", c.authorization(ctx))
	httpReq.Header.Set("Content-Type", "application/json")

	return c.send(op, httpReq, fallbackDetail, out)
}

func (c *BackendClient) send(op string, httpReq *http.Request, fallback string, out interface{}) error {
	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.Logger.Error(op+" request failed",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(respBody)))
		return decodeError(resp.StatusCode, respBody, fallback)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func decodeError(status int, body []byte, fallback string) error {
	var eb errorBody
	if err := sonic.Unmarshal(body, &eb); err != nil {
		return &APIError{Status: status, Detail: fallback}
	}
	if eb.Detail == "" {
		return &APIError{Status: status, Detail: fmt.Sprintf("HTTP error! status: %d", status)}
	}
	return &APIError{Status: status, Detail: eb.Detail}
}

// read is doJSON for GETs, retried ReadRetries times on failure.
func (c *BackendClient) read(ctx context.Context, op, path string, out interface{}) error {
	var err error
	for attempt := 0; attempt <= c.ReadRetries; attempt++ {
		if err = c.doJSON(ctx, op, http.MethodGet, path, nil, nil, out); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return err
		}
		c.Logger.Debug(op+" retrying", zap.Int("attempt", attempt+1), zap.Error(err))
	}
	return err
}

func escape(id string) string { return url.PathEscape(id) }

// ListSpaces calls GET /spaces
func (c *BackendClient) ListSpaces(ctx context.Context) ([]model.Space, error) {
	var out []model.Space
	if err := c.read(ctx, "list_spaces", "/spaces", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSpace calls GET /spaces/:id
func (c *BackendClient) GetSpace(ctx context.Context, spaceID string) (*model.Space, error) {
	var out model.Space
	if err := c.read(ctx, "get_space", "/spaces/"+escape(spaceID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSpace calls POST /spaces?name=...
func (c *BackendClient) CreateSpace(ctx context.Context, in model.CreateSpaceInput) (*model.Space, error) {
	q := url.Values{}
	q.Set("name", in.Name)
	if in.Description != "" {
		q.Set("description", in.Description)
	}
	var out model.Space
	if err := c.doJSON(ctx, "create_space", http.MethodPost, "/spaces", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSpace calls DELETE /spaces/:id
func (c *BackendClient) DeleteSpace(ctx context.Context, spaceID string) error {
	return c.doJSON(ctx, "delete_space", http.MethodDelete, "/spaces/"+escape(spaceID), nil, nil, nil)
}

// ListDocuments calls GET /spaces/:id/documents
func (c *BackendClient) ListDocuments(ctx context.Context, spaceID string) ([]model.Document, error) {
	var out []model.Document
	if err := c.read(ctx, "list_documents", "/spaces/"+escape(spaceID)+"/documents", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteDocument calls DELETE /spaces/:id/documents/:doc_id
func (c *BackendClient) DeleteDocument(ctx context.Context, spaceID, documentID string) error {
	path := "/spaces/" + escape(spaceID) + "/documents/" + escape(documentID)
	return c.doJSON(ctx, "delete_document", http.MethodDelete, path, nil, nil, nil)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// UploadDocuments posts every file under the same "files" key to POST /ingest/:id.
func (c *BackendClient) UploadDocuments(ctx context.Context, spaceID string, files []UploadFile) ([]model.IngestResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="%s"; filename="%s"`, UploadField, quoteEscaper.Replace(f.Name)))
		h.Set("Content-Type", mime.Detect(f.Content, f.Name))
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("create form part: %w", err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, fmt.Errorf("write form part: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/ingest/"+escape(spaceID), nil), &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	// No JSON content type here: the multipart boundary header is required.
	httpReq.Header.Set("Authorization", c.authorization(ctx))
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	var out []model.IngestResponse
	if err := c.send("upload_documents", httpReq, fallbackUploadDetail, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendChat calls POST /chat/:id with {query}
func (c *BackendClient) SendChat(ctx context.Context, spaceID, query string) (*model.ChatResponse, error) {
	var out model.ChatResponse
	if err := c.doJSON(ctx, "send_chat", http.MethodPost, "/chat/"+escape(spaceID), nil, model.ChatRequest{Query: query}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMessages calls GET /spaces/:id/messages
func (c *BackendClient) ListMessages(ctx context.Context, spaceID string) ([]model.ChatMessage, error) {
	var out []model.ChatMessage
	if err := c.read(ctx, "list_messages", "/spaces/"+escape(spaceID)+"/messages", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ClearMessages calls DELETE /spaces/:id/messages
func (c *BackendClient) ClearMessages(ctx context.Context, spaceID string) error {
	return c.doJSON(ctx, "clear_messages", http.MethodDelete, "/spaces/"+escape(spaceID)+"/messages", nil, nil, nil)
}
