package migrations

import (
	"github.com/NeuralTrust/TrustCloak/pkg/infra/database"
	"gorm.io/gorm"
)

func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20260102_add_visits_ip_index",
		Name: "Index visits by ip and classification",

		Up: func(db *gorm.DB) error {
			return db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_visits_ip_classification ON visits (ip, classification);
			`).Error
		},

		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP INDEX IF EXISTS idx_visits_ip_classification;`).Error
		},
	})
}
