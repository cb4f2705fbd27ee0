package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/coslynx/AI-Response-Wrapper-MVP/pkg/models"
)

// PromptStore provides prompt-related database operations.
type PromptStore struct {
	db *gorm.DB
}

// NewPromptStore creates a new prompt store.
func NewPromptStore(store *Store) *PromptStore {
	return &PromptStore{db: store.DB}
}

// Create inserts a prompt row and backfills the store-assigned id.
func (s *PromptStore) Create(ctx context.Context, prompt *models.Prompt) error {
	dbPrompt := &Prompt{
		Text:       prompt.Text,
		Model:      prompt.Model,
		Parameters: prompt.Parameters,
		UserID:     nullInt64(prompt.UserID),
	}
	if err := s.db.WithContext(ctx).Create(dbPrompt).Error; err != nil {
		return storeErr("create prompt", err)
	}
	prompt.ID = dbPrompt.ID
	return nil
}

// GetByID retrieves a prompt by id. Returns (nil, nil) when no row exists.
func (s *PromptStore) GetByID(ctx context.Context, id int64) (*models.Prompt, error) {
	var dbPrompt Prompt
	err := s.db.WithContext(ctx).First(&dbPrompt, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get prompt", err)
	}
	return toModelPrompt(&dbPrompt), nil
}

func toModelPrompt(p *Prompt) *models.Prompt {
	return &models.Prompt{
		ID:         p.ID,
		Text:       p.Text,
		Model:      p.Model,
		Parameters: p.Parameters,
		UserID:     int64Ptr(p.UserID),
	}
}
