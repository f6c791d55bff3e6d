package service

import (
	"context"

	"github.com/ragengine/console/internal/infra/httpclient"
	"github.com/ragengine/console/internal/modules/model"
	"github.com/ragengine/console/internal/modules/repo"
	"go.uber.org/zap"
)

// Backend is the subset of the REST backend the services call.
type Backend interface {
	ListSpaces(ctx context.Context) ([]model.Space, error)
	GetSpace(ctx context.Context, spaceID string) (*model.Space, error)
	CreateSpace(ctx context.Context, in model.CreateSpaceInput) (*model.Space, error)
	DeleteSpace(ctx context.Context, spaceID string) error
	ListDocuments(ctx context.Context, spaceID string) ([]model.Document, error)
	DeleteDocument(ctx context.Context, spaceID, documentID string) error
	UploadDocuments(ctx context.Context, spaceID string, files []httpclient.UploadFile) ([]model.IngestResponse, error)
	SendChat(ctx context.Context, spaceID, query string) (*model.ChatResponse, error)
	ListMessages(ctx context.Context, spaceID string) ([]model.ChatMessage, error)
	ClearMessages(ctx context.Context, spaceID string) error
}

// Principal identifies the signed-in user; UserID is "" when signed out.
type Principal interface {
	UserID() string
}

// API groups every backend operation the pages use.
type API struct {
	Spaces     SpaceService
	Documents  DocumentService
	Chat       ChatService
	UserConfig UserConfigService
}

func NewAPI(b Backend, configs repo.UserConfigRepo, who Principal, log *zap.Logger) *API {
	return &API{
		Spaces:     NewSpaceService(b, log),
		Documents:  NewDocumentService(b, log),
		Chat:       NewChatService(b, log),
		UserConfig: NewUserConfigService(configs, who, log),
	}
}
