package db

import (
	"database/sql"
	"time"

	"gorm.io/gorm"

	"github.com/coslynx/AI-Response-Wrapper-MVP/pkg/models"
)

// GORM entities. Each entity store converts to pkg/models before rows
// leave this package.

// User represents a row in the users table. Rows are created out-of-band;
// this layer only reads them.
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Username string `gorm:"uniqueIndex;not null"`
	APIKey   string `gorm:"not null"`
}

func (User) TableName() string { return "users" }

// Prompt represents a row in the prompts table.
type Prompt struct {
	ID         int64         `gorm:"primaryKey;autoIncrement"`
	Text       string        `gorm:"type:text;not null"`
	Model      string        `gorm:"not null"`
	Parameters models.Params `gorm:"type:text"`
	UserID     sql.NullInt64 `gorm:"index"`

	User *User `gorm:"foreignKey:UserID"`
}

func (Prompt) TableName() string { return "prompts" }

// Response represents a row in the responses table. Never mutated after
// creation.
type Response struct {
	ID             int64         `gorm:"primaryKey;autoIncrement"`
	Text           string        `gorm:"type:text;not null"`
	Model          string        `gorm:"not null"`
	Parameters     models.Params `gorm:"type:text"`
	GenerationTime time.Time     `gorm:"not null"`
	PromptID       sql.NullInt64 `gorm:"index"`

	Prompt *Prompt `gorm:"foreignKey:PromptID"`
}

func (Response) TableName() string { return "responses" }

// BeforeCreate hook to ensure the generation timestamp is set.
func (r *Response) BeforeCreate(tx *gorm.DB) error {
	if r.GenerationTime.IsZero() {
		r.GenerationTime = time.Now().UTC()
	}
	return nil
}
