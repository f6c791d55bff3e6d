package pages

import (
	"context"

	"github.com/ragengine/console/internal/infra/httpclient"
	"github.com/ragengine/console/internal/modules/model"
	"github.com/ragengine/console/internal/session"
	"github.com/stretchr/testify/mock"
)

type fakeAuth struct {
	user        *model.SessionUser
	err         error
	signUpCalls int
	signInCalls int
	autoConfirm bool
}

func (f *fakeAuth) State() session.State {
	return session.State{User: f.user, Initialized: true}
}

func (f *fakeAuth) SignIn(ctx context.Context, email, password string) error {
	f.signInCalls++
	if f.err != nil {
		return f.err
	}
	f.user = &model.SessionUser{ID: "u1", Email: email}
	return nil
}

func (f *fakeAuth) SignUp(ctx context.Context, email, password, fullName string) error {
	f.signUpCalls++
	if f.err != nil {
		return f.err
	}
	if f.autoConfirm {
		f.user = &model.SessionUser{ID: "u1", Email: email}
	}
	return nil
}

func (f *fakeAuth) SignOut(ctx context.Context) error {
	f.user = nil
	return f.err
}

func (f *fakeAuth) ResetPassword(ctx context.Context, email string) error { return f.err }

type MockSpaceService struct{ mock.Mock }

func (m *MockSpaceService) List(ctx context.Context) ([]model.Space, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Space), args.Error(1)
}

func (m *MockSpaceService) Get(ctx context.Context, spaceID string) (*model.Space, error) {
	args := m.Called(ctx, spaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Space), args.Error(1)
}

func (m *MockSpaceService) Create(ctx context.Context, in model.CreateSpaceInput) (*model.Space, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Space), args.Error(1)
}

func (m *MockSpaceService) Delete(ctx context.Context, spaceID string) error {
	return m.Called(ctx, spaceID).Error(0)
}

type MockChatService struct{ mock.Mock }

func (m *MockChatService) Send(ctx context.Context, spaceID, query string) (*model.ChatResponse, error) {
	args := m.Called(ctx, spaceID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChatResponse), args.Error(1)
}

func (m *MockChatService) History(ctx context.Context, spaceID string) ([]model.ChatMessage, error) {
	args := m.Called(ctx, spaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ChatMessage), args.Error(1)
}

func (m *MockChatService) Clear(ctx context.Context, spaceID string) error {
	return m.Called(ctx, spaceID).Error(0)
}

type MockDocumentService struct{ mock.Mock }

func (m *MockDocumentService) List(ctx context.Context, spaceID string) ([]model.Document, error) {
	args := m.Called(ctx, spaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentService) Upload(ctx context.Context, spaceID string, files []httpclient.UploadFile) ([]model.IngestResponse, error) {
	args := m.Called(ctx, spaceID, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.IngestResponse), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, spaceID, documentID string) error {
	return m.Called(ctx, spaceID, documentID).Error(0)
}

type MockUserConfigService struct{ mock.Mock }

func (m *MockUserConfigService) Get(ctx context.Context) (*model.UserConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserConfig), args.Error(1)
}

func (m *MockUserConfigService) Upsert(ctx context.Context, c *model.UserConfig) (*model.UserConfig, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserConfig), args.Error(1)
}

func never(string) bool { return false }

func answer(s string) Prompter {
	return func(string) (string, bool) { return s, true }
}
