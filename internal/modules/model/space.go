package model

import "time"

type SpaceStatus string

const (
	SpaceStatusActive     SpaceStatus = "active"
	SpaceStatusProcessing SpaceStatus = "processing"
	SpaceStatusArchived   SpaceStatus = "archived"
)

type Space struct {
	ID            string      `json:"id"`
	UserID        string      `json:"user_id"`
	Name          string      `json:"name"`
	Description   *string     `json:"description"`
	CoverImageURL *string     `json:"cover_image_url"`
	Status        SpaceStatus `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

type CreateSpaceInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
