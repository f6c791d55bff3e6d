package repo

import (
	"context"
	"errors"

	"github.com/ragengine/console/internal/modules/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserConfigRepo reads and writes the per-user settings row directly in the database,
// without going through the backend.
type UserConfigRepo interface {
	// Get returns (nil, nil) when the user has no row yet.
	Get(ctx context.Context, userID string) (*model.UserConfig, error)
	// Upsert inserts or replaces the row keyed by user_id.
	Upsert(ctx context.Context, c *model.UserConfig) (*model.UserConfig, error)
}

type userConfigRepo struct{ db *gorm.DB }

// NewUserConfigRepo is the direct postgres implementation.
func NewUserConfigRepo(db *gorm.DB) UserConfigRepo {
	return &userConfigRepo{db: db}
}

func (r *userConfigRepo) Get(ctx context.Context, userID string) (*model.UserConfig, error) {
	var c model.UserConfig
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

var upsertColumns = []string{
	"openai_api_key",
	"llama_cloud_api_key",
	"cohere_api_key",
	"qdrant_url",
	"qdrant_api_key",
	"default_llm_model",
	"theme",
	"updated_at",
}

func (r *userConfigRepo) Upsert(ctx context.Context, c *model.UserConfig) (*model.UserConfig, error) {
	row := *c
	row.ID = ""
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns(upsertColumns),
		}).
		Create(&row).Error
	if err != nil {
		return nil, err
	}
	// The returned ID is unreliable on the conflict path; read the row back.
	return r.Get(ctx, c.UserID)
}
