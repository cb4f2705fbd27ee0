package db

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// runMigrations runs all database migrations using gormigrate.
func runMigrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		// Migration 001: users table
		{
			ID: "001_users",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&User{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("users")
			},
		},

		// Migration 002: prompts table (FK to users)
		{
			ID: "002_prompts",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&Prompt{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("prompts")
			},
		},

		// Migration 003: responses table (FK to prompts)
		{
			ID: "003_responses",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&Response{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("responses")
			},
		},
	})

	return m.Migrate()
}
