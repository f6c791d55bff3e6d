package service

import (
	"context"
	"testing"
	"time"

	"github.com/ragengine/console/internal/modules/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUserConfigService_GetSignedOut(t *testing.T) {
	r := &MockUserConfigRepo{}
	svc := NewUserConfigService(r, staticPrincipal(""), zap.NewNop())

	c, err := svc.Get(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, c)
	r.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestUserConfigService_GetSignedIn(t *testing.T) {
	ctx := context.Background()
	r := &MockUserConfigRepo{}
	r.On("Get", ctx, "u1").Return(nil, nil)
	svc := NewUserConfigService(r, staticPrincipal("u1"), zap.NewNop())

	c, err := svc.Get(ctx)
	assert.NoError(t, err)
	assert.Nil(t, c)
	r.AssertExpectations(t)
}

func TestUserConfigService_UpsertSignedOut(t *testing.T) {
	r := &MockUserConfigRepo{}
	svc := NewUserConfigService(r, staticPrincipal(""), zap.NewNop())

	_, err := svc.Upsert(context.Background(), &model.UserConfig{})
	assert.EqualError(t, err, "Not authenticated")
	r.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestUserConfigService_UpsertStamps(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	r := &MockUserConfigRepo{}
	r.On("Upsert", ctx, mock.MatchedBy(func(c *model.UserConfig) bool {
		return c.UserID == "u1" &&
			c.UpdatedAt.Equal(fixed) &&
			c.QdrantURL == nil &&
			c.DefaultLLMModel == model.DefaultLLMModel &&
			c.Theme == model.ThemeSystem
	})).Return(&model.UserConfig{ID: "c1", UserID: "u1"}, nil)

	svc := NewUserConfigService(r, staticPrincipal("u1"), zap.NewNop()).(*userConfigService)
	svc.now = func() time.Time { return fixed }

	in := &model.UserConfig{UserID: "someone-else", QdrantURL: model.NullableString("")}
	out, err := svc.Upsert(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "c1", out.ID)
	assert.Equal(t, "someone-else", in.UserID)
	r.AssertExpectations(t)
}
