package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/coslynx/AI-Response-Wrapper-MVP/pkg/models"
)

// ResponseStore provides response-related database operations.
type ResponseStore struct {
	db *gorm.DB
}

// NewResponseStore creates a new response store.
func NewResponseStore(store *Store) *ResponseStore {
	return &ResponseStore{db: store.DB}
}

// Create inserts a response row and backfills the store-assigned id and
// generation timestamp. The prompt link, when present, must reference an
// existing prompt; the store's foreign key rejects anything else.
func (s *ResponseStore) Create(ctx context.Context, response *models.Response) error {
	dbResponse := &Response{
		Text:           response.Text,
		Model:          response.Model,
		Parameters:     response.Parameters,
		GenerationTime: response.GenerationTime,
		PromptID:       nullInt64(response.PromptID),
	}
	if err := s.db.WithContext(ctx).Create(dbResponse).Error; err != nil {
		return storeErr("create response", err)
	}
	response.ID = dbResponse.ID
	response.GenerationTime = dbResponse.GenerationTime
	return nil
}

// GetByID retrieves a response by id. Returns (nil, nil) when no row exists.
func (s *ResponseStore) GetByID(ctx context.Context, id int64) (*models.Response, error) {
	var dbResponse Response
	err := s.db.WithContext(ctx).First(&dbResponse, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get response", err)
	}
	return toModelResponse(&dbResponse), nil
}

func toModelResponse(r *Response) *models.Response {
	return &models.Response{
		ID:             r.ID,
		Text:           r.Text,
		Model:          r.Model,
		Parameters:     r.Parameters,
		GenerationTime: r.GenerationTime,
		PromptID:       int64Ptr(r.PromptID),
	}
}
