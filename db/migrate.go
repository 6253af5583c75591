package db

import (
	"fmt"

	"github.com/meinhoongagan/ignite-call/logger"
	"github.com/meinhoongagan/ignite-call/models"
)

// Migrate creates or updates the tables. It runs only when explicitly called.
func Migrate() error {
	if DB == nil {
		return fmt.Errorf("db: not initialised")
	}
	err := DB.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.UserTimeInterval{},
		&models.Scheduling{},
	)
	if err != nil {
		return fmt.Errorf("db: migrate: %w", err)
	}

	logger.Log.Info().Msg("migrations applied")
	return nil
}
