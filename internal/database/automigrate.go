package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-task-api/internal/domain"
)

// Models lists every persisted entity in dependency order
func Models() []interface{} {
	return []interface{}{
		&domain.User{},
		&domain.Project{},
		&domain.ProjectMember{},
		&domain.Status{},
		&domain.Label{},
		&domain.Task{},
		&domain.Assignee{},
		&domain.Comment{},
		&domain.Attachment{},
		&domain.Activity{},
		&domain.TaskLabel{},
	}
}

// AutoMigrate creates or updates tables, indexes and foreign keys for all models
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}
	return nil
}

// AutoMigrateWithRetry runs AutoMigrate up to maxRetries times with linear backoff
func AutoMigrateWithRetry(db *gorm.DB, logger *zap.Logger, maxRetries int) error {
	var err error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		err = AutoMigrate(db)
		if err == nil {
			logger.Info("Database migrations completed",
				zap.Int("attempt", attempt),
				zap.Int("models", len(Models())),
			)
			return nil
		}

		if attempt < maxRetries {
			backoff := time.Duration(attempt) * time.Second
			logger.Warn("Migration attempt failed, retrying...",
				zap.Int("attempt", attempt),
				zap.Int("max_retries", maxRetries),
				zap.Duration("backoff", backoff),
				zap.Error(err),
			)
			time.Sleep(backoff)
		}
	}

	logger.Error("Migration failed after all retry attempts",
		zap.Int("total_attempts", maxRetries),
		zap.Error(err),
	)
	return fmt.Errorf("migration failed after %d attempts: %w", maxRetries, err)
}
