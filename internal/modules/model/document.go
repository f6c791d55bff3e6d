package model

import "time"

type DocumentStatus string

const (
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusIndexed    DocumentStatus = "indexed"
	DocumentStatusFailed     DocumentStatus = "failed"
)

type Document struct {
	ID           string         `json:"id"`
	SpaceID      string         `json:"space_id"`
	UserID       string         `json:"user_id"`
	Filename     string         `json:"filename"`
	FileSize     *int64         `json:"file_size"`
	MimeType     *string        `json:"mime_type"`
	StoragePath  string         `json:"storage_path"`
	Status       DocumentStatus `json:"status"`
	ErrorMessage *string        `json:"error_message"`
	UploadedAt   time.Time      `json:"uploaded_at"`
	IndexedAt    *time.Time     `json:"indexed_at"`
}

// IngestResponse is returned once per uploaded file by POST /ingest/:space_id.
type IngestResponse struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
}
