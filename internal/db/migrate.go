package db

import (
	"fmt"

	"github.com/luckydrawhq/luckydraw/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema for all application models.
//
// The unique indexes created here are load-bearing: winners.draw_id backs
// the at-most-one-winner guarantee and participants.(draw_id,user_id)
// backs the join upsert. See the draw package.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	return conn.AutoMigrate(
		&models.User{},
		&models.Draw{},
		&models.Participant{},
		&models.Winner{},
		&models.Setting{},
	)
}
