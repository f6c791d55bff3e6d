package service

import (
	"context"
	"time"

	"github.com/ragengine/console/internal/modules/model"
	"github.com/ragengine/console/internal/modules/repo"
	"go.uber.org/zap"
)

type UserConfigService interface {
	// Get returns (nil, nil) when signed out or when no settings were saved yet.
	Get(ctx context.Context) (*model.UserConfig, error)
	Upsert(ctx context.Context, c *model.UserConfig) (*model.UserConfig, error)
}

type userConfigService struct {
	r   repo.UserConfigRepo
	who Principal
	log *zap.Logger
	now func() time.Time
}

func NewUserConfigService(r repo.UserConfigRepo, who Principal, log *zap.Logger) UserConfigService {
	return &userConfigService{r: r, who: who, log: log, now: time.Now}
}

func (s *userConfigService) Get(ctx context.Context) (*model.UserConfig, error) {
	userID := s.who.UserID()
	if userID == "" {
		return nil, nil
	}
	return s.r.Get(ctx, userID)
}

// Upsert writes the whole object, stamped with the current user and time.
func (s *userConfigService) Upsert(ctx context.Context, c *model.UserConfig) (*model.UserConfig, error) {
	userID := s.who.UserID()
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	row := *c
	row.UserID = userID
	row.UpdatedAt = s.now().UTC()
	if row.DefaultLLMModel == "" {
		row.DefaultLLMModel = model.DefaultLLMModel
	}
	if row.Theme == "" {
		row.Theme = model.ThemeSystem
	}
	out, err := s.r.Upsert(ctx, &row)
	if err != nil {
		return nil, err
	}
	s.log.Info("user config saved", zap.String("user_id", userID))
	return out, nil
}
