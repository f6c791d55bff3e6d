package service

import (
	"context"
	"strings"

	"github.com/ragengine/console/internal/modules/model"
	"go.uber.org/zap"
)

type SpaceService interface {
	List(ctx context.Context) ([]model.Space, error)
	Get(ctx context.Context, spaceID string) (*model.Space, error)
	Create(ctx context.Context, in model.CreateSpaceInput) (*model.Space, error)
	Delete(ctx context.Context, spaceID string) error
}

type spaceService struct {
	b   Backend
	log *zap.Logger
}

func NewSpaceService(b Backend, log *zap.Logger) SpaceService {
	return &spaceService{b: b, log: log}
}

func (s *spaceService) List(ctx context.Context) ([]model.Space, error) {
	spaces, err := s.b.ListSpaces(ctx)
	if err != nil {
		return nil, err
	}
	if spaces == nil {
		spaces = []model.Space{}
	}
	return spaces, nil
}

func (s *spaceService) Get(ctx context.Context, spaceID string) (*model.Space, error) {
	if spaceID == "" {
		return nil, ErrEmptySpaceID
	}
	return s.b.GetSpace(ctx, spaceID)
}

func (s *spaceService) Create(ctx context.Context, in model.CreateSpaceInput) (*model.Space, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, ErrEmptySpaceName
	}
	sp, err := s.b.CreateSpace(ctx, in)
	if err != nil {
		return nil, err
	}
	s.log.Info("space created", zap.String("space_id", sp.ID))
	return sp, nil
}

func (s *spaceService) Delete(ctx context.Context, spaceID string) error {
	if spaceID == "" {
		return ErrEmptySpaceID
	}
	return s.b.DeleteSpace(ctx, spaceID)
}
