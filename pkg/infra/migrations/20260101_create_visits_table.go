package migrations

import (
	"github.com/NeuralTrust/TrustCloak/pkg/infra/database"
	"gorm.io/gorm"
)

func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20260101_create_visits_table",
		Name: "Create visits table for the redirect decision log",

		Up: func(db *gorm.DB) error {
			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS visits (
					id             UUID PRIMARY KEY,
					ip             TEXT NOT NULL,
					user_agent     TEXT NOT NULL DEFAULT '',
					referer        TEXT NOT NULL DEFAULT '',
					browser        TEXT NOT NULL DEFAULT '',
					os             TEXT NOT NULL DEFAULT '',
					device         TEXT NOT NULL DEFAULT '',
					classification TEXT NOT NULL,
					source         TEXT NOT NULL,
					reason         TEXT NOT NULL DEFAULT '',
					destination    TEXT NOT NULL,
					email_captured BOOLEAN NOT NULL DEFAULT FALSE,
					created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`).Error; err != nil {
				return err
			}
			return db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_visits_created_at ON visits (created_at DESC);
			`).Error
		},

		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP TABLE IF EXISTS visits;`).Error
		},
	})
}
