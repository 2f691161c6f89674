package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fbw-backend/internal/models"
)

var DB *gorm.DB

// Connect establishes a connection to the PostgreSQL database
func Connect(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Error),
		DisableForeignKeyConstraintWhenMigrating: true,
	})

	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	logrus.Info("Database connection established successfully")
	return nil
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate() error {
	// Migrate core models first
	coreModels := []interface{}{
		&models.User{},
		&models.AdminUser{},
		&models.AdminLog{},
	}

	for _, model := range coreModels {
		if err := DB.AutoMigrate(model); err != nil {
			logrus.Warnf("migration issue for %T: %v", model, err)
		}
	}

	// Migrate prediction models
	predictionModels := []interface{}{
		&models.PredictionSet{},
		&models.PredictionDay{},
		&models.GenerationRun{},
	}

	for _, model := range predictionModels {
		if err := DB.AutoMigrate(model); err != nil {
			logrus.Warnf("migration issue for %T: %v", model, err)
		}
	}

	// Migrate subscription models
	subscriptionModels := []interface{}{
		&models.Subscription{},
		&models.Payment{},
	}

	for _, model := range subscriptionModels {
		if err := DB.AutoMigrate(model); err != nil {
			logrus.Warnf("migration issue for %T: %v", model, err)
		}
	}

	// Migrate feed models
	feedModels := []interface{}{
		&models.Post{},
		&models.PostComment{},
		&models.PostLike{},
	}

	for _, model := range feedModels {
		if err := DB.AutoMigrate(model); err != nil {
			logrus.Warnf("migration issue for %T: %v", model, err)
		}
	}

	logrus.Info("Database migrations completed successfully")
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
