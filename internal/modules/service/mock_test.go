package service

import (
	"context"

	"github.com/ragengine/console/internal/infra/httpclient"
	"github.com/ragengine/console/internal/modules/model"
	"github.com/stretchr/testify/mock"
)

// MockBackend is a mock implementation of Backend
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) ListSpaces(ctx context.Context) ([]model.Space, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Space), args.Error(1)
}

func (m *MockBackend) GetSpace(ctx context.Context, spaceID string) (*model.Space, error) {
	args := m.Called(ctx, spaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Space), args.Error(1)
}

func (m *MockBackend) CreateSpace(ctx context.Context, in model.CreateSpaceInput) (*model.Space, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Space), args.Error(1)
}

func (m *MockBackend) DeleteSpace(ctx context.Context, spaceID string) error {
	return m.Called(ctx, spaceID).Error(0)
}

func (m *MockBackend) ListDocuments(ctx context.Context, spaceID string) ([]model.Document, error) {
	args := m.Called(ctx, spaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockBackend) DeleteDocument(ctx context.Context, spaceID, documentID string) error {
	return m.Called(ctx, spaceID, documentID).Error(0)
}

func (m *MockBackend) UploadDocuments(ctx context.Context, spaceID string, files []httpclient.UploadFile) ([]model.IngestResponse, error) {
	args := m.Called(ctx, spaceID, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.IngestResponse), args.Error(1)
}

func (m *MockBackend) SendChat(ctx context.Context, spaceID, query string) (*model.ChatResponse, error) {
	args := m.Called(ctx, spaceID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChatResponse), args.Error(1)
}

func (m *MockBackend) ListMessages(ctx context.Context, spaceID string) ([]model.ChatMessage, error) {
	args := m.Called(ctx, spaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ChatMessage), args.Error(1)
}

func (m *MockBackend) ClearMessages(ctx context.Context, spaceID string) error {
	return m.Called(ctx, spaceID).Error(0)
}

// MockUserConfigRepo is a mock implementation of repo.UserConfigRepo
type MockUserConfigRepo struct {
	mock.Mock
}

func (m *MockUserConfigRepo) Get(ctx context.Context, userID string) (*model.UserConfig, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserConfig), args.Error(1)
}

func (m *MockUserConfigRepo) Upsert(ctx context.Context, c *model.UserConfig) (*model.UserConfig, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserConfig), args.Error(1)
}

type staticPrincipal string

func (p staticPrincipal) UserID() string { return string(p) }
