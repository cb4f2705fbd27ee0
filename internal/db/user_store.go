package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/coslynx/AI-Response-Wrapper-MVP/pkg/models"
)

// UserStore provides user-related database operations.
type UserStore struct {
	db *gorm.DB
}

// NewUserStore creates a new user store.
func NewUserStore(store *Store) *UserStore {
	return &UserStore{db: store.DB}
}

// GetByID retrieves a user by id. Returns (nil, nil) when no row exists.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var dbUser User
	err := s.db.WithContext(ctx).First(&dbUser, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get user", err)
	}
	return toModelUser(&dbUser), nil
}

// Create inserts a user row. Only used by tests and operator tooling;
// there is no registration endpoint.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	dbUser := &User{
		Username: user.Username,
		APIKey:   user.APIKey,
	}
	if err := s.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		return storeErr("create user", err)
	}
	user.ID = dbUser.ID
	return nil
}

func toModelUser(u *User) *models.User {
	return &models.User{
		ID:       u.ID,
		Username: u.Username,
		APIKey:   u.APIKey,
	}
}
