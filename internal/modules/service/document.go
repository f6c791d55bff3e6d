package service

import (
	"context"

	"github.com/ragengine/console/internal/infra/httpclient"
	"github.com/ragengine/console/internal/modules/model"
	"go.uber.org/zap"
)

type DocumentService interface {
	List(ctx context.Context, spaceID string) ([]model.Document, error)
	Upload(ctx context.Context, spaceID string, files []httpclient.UploadFile) ([]model.IngestResponse, error)
	Delete(ctx context.Context, spaceID, documentID string) error
}

type documentService struct {
	b   Backend
	log *zap.Logger
}

func NewDocumentService(b Backend, log *zap.Logger) DocumentService {
	return &documentService{b: b, log: log}
}

func (s *documentService) List(ctx context.Context, spaceID string) ([]model.Document, error) {
	if spaceID == "" {
		return nil, ErrEmptySpaceID
	}
	docs, err := s.b.ListDocuments(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []model.Document{}
	}
	return docs, nil
}

func (s *documentService) Upload(ctx context.Context, spaceID string, files []httpclient.UploadFile) ([]model.IngestResponse, error) {
	if spaceID == "" {
		return nil, ErrEmptySpaceID
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	out, err := s.b.UploadDocuments(ctx, spaceID, files)
	if err != nil {
		return nil, err
	}
	s.log.Info("documents uploaded", zap.String("space_id", spaceID), zap.Int("count", len(files)))
	return out, nil
}

func (s *documentService) Delete(ctx context.Context, spaceID, documentID string) error {
	if spaceID == "" {
		return ErrEmptySpaceID
	}
	return s.b.DeleteDocument(ctx, spaceID, documentID)
}
