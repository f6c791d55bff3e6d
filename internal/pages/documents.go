package pages

import (
	"context"
	"fmt"
	"time"

	"github.com/ragengine/console/internal/infra/httpclient"
	"github.com/ragengine/console/internal/modules/model"
	"github.com/ragengine/console/internal/modules/service"
	"github.com/ragengine/console/internal/pkg/format"
	"go.uber.org/zap"
)

const (
	MsgLoadDocumentsFailed  = "Failed to load documents"
	MsgUploadFailed         = "Failed to upload documents"
	MsgDeleteDocumentFailed = "Failed to delete document"
)

// DocumentRow is a document prepared for display.
type DocumentRow struct {
	model.Document
	Kind     string
	Size     string
	Uploaded string
	Badge    string
}

type DocumentStats struct {
	Total      int
	Indexed    int
	Processing int
	Failed     int
}

type Documents struct {
	SpaceID string
	Items   []model.Document
	Loaded  bool
	Error   string
	Notice  string

	svc service.DocumentService
	log *zap.Logger
	now func() time.Time
}

func NewDocuments(svc service.DocumentService, spaceID string, log *zap.Logger) *Documents {
	return &Documents{SpaceID: spaceID, svc: svc, log: log, now: time.Now}
}

func (p *Documents) Load(ctx context.Context) error {
	docs, err := p.svc.List(ctx, p.SpaceID)
	p.Loaded = true
	if err != nil {
		p.log.Error("failed to load documents", zap.String("space_id", p.SpaceID), zap.Error(err))
		p.Error = MsgLoadDocumentsFailed
		return err
	}
	p.Items = docs
	return nil
}

// Upload sends every file in one request and then reloads the whole list.
func (p *Documents) Upload(ctx context.Context, files []httpclient.UploadFile) ([]model.IngestResponse, error) {
	if len(files) == 0 {
		return nil, nil
	}
	out, err := p.svc.Upload(ctx, p.SpaceID, files)
	if err != nil {
		p.log.Error("failed to upload documents", zap.String("space_id", p.SpaceID), zap.Error(err))
		p.Error = errorMessage(err, MsgUploadFailed)
		return nil, err
	}
	p.Notice = fmt.Sprintf("%d file(s) uploaded", len(files))
	return out, p.Load(ctx)
}

// Delete removes one document after confirmation and drops its row locally.
func (p *Documents) Delete(ctx context.Context, documentID string, confirm Confirmer) (bool, error) {
	filename := documentID
	for _, d := range p.Items {
		if d.ID == documentID {
			filename = d.Filename
			break
		}
	}
	if !confirm(DeleteDocumentPrompt(filename)) {
		return false, nil
	}
	if err := p.svc.Delete(ctx, p.SpaceID, documentID); err != nil {
		p.log.Error("failed to delete document", zap.String("document_id", documentID), zap.Error(err))
		p.Error = MsgDeleteDocumentFailed
		return false, err
	}
	kept := p.Items[:0]
	for _, d := range p.Items {
		if d.ID != documentID {
			kept = append(kept, d)
		}
	}
	p.Items = kept
	return true, nil
}

func DeleteDocumentPrompt(filename string) string {
	return fmt.Sprintf("Are you sure you want to delete %q?", filename)
}

func (p *Documents) Rows() []DocumentRow {
	now := p.now()
	rows := make([]DocumentRow, 0, len(p.Items))
	for _, d := range p.Items {
		rows = append(rows, DocumentRow{
			Document: d,
			Kind:     format.FileKind(d.Filename, model.StringValue(d.MimeType)),
			Size:     format.FileSize(d.FileSize),
			Uploaded: format.RelativeTime(d.UploadedAt, now),
			Badge:    StatusBadge(d.Status),
		})
	}
	return rows
}

func (p *Documents) Stats() DocumentStats {
	s := DocumentStats{Total: len(p.Items)}
	for _, d := range p.Items {
		switch d.Status {
		case model.DocumentStatusIndexed:
			s.Indexed++
		case model.DocumentStatusProcessing:
			s.Processing++
		case model.DocumentStatusFailed:
			s.Failed++
		}
	}
	return s
}

func StatusBadge(s model.DocumentStatus) string {
	switch s {
	case model.DocumentStatusIndexed:
		return "Indexed"
	case model.DocumentStatusProcessing:
		return "Processing"
	case model.DocumentStatusFailed:
		return "Failed"
	}
	return string(s)
}
