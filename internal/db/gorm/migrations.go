package gorm

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// runMigrations runs all database migrations using gormigrate.
func runMigrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "001_lineup_history",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&LineupRecord{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("lineups")
			},
		},
		{
			ID: "002_feedback",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&FeedbackRecord{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("feedback")
			},
		},
	})
	return m.Migrate()
}
