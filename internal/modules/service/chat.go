package service

import (
	"context"

	"github.com/ragengine/console/internal/modules/model"
	"go.uber.org/zap"
)

type ChatService interface {
	Send(ctx context.Context, spaceID, query string) (*model.ChatResponse, error)
	History(ctx context.Context, spaceID string) ([]model.ChatMessage, error)
	Clear(ctx context.Context, spaceID string) error
}

type chatService struct {
	b   Backend
	log *zap.Logger
}

func NewChatService(b Backend, log *zap.Logger) ChatService {
	return &chatService{b: b, log: log}
}

func (s *chatService) Send(ctx context.Context, spaceID, query string) (*model.ChatResponse, error) {
	if spaceID == "" {
		return nil, ErrEmptySpaceID
	}
	resp, err := s.b.SendChat(ctx, spaceID, query)
	if err != nil {
		return nil, err
	}
	if resp.Sources == nil {
		resp.Sources = []model.Source{}
	}
	return resp, nil
}

func (s *chatService) History(ctx context.Context, spaceID string) ([]model.ChatMessage, error) {
	if spaceID == "" {
		return nil, ErrEmptySpaceID
	}
	msgs, err := s.b.ListMessages(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []model.ChatMessage{}
	}
	return msgs, nil
}

func (s *chatService) Clear(ctx context.Context, spaceID string) error {
	if spaceID == "" {
		return ErrEmptySpaceID
	}
	return s.b.ClearMessages(ctx, spaceID)
}
