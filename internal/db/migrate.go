package db

import (
	"riddleward/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Riddle{},
		&models.RiddleAnswer{},
		&models.RiddleWinner{},
		&models.RiddleScammer{},
	)
}
