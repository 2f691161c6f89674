package services

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"fbw-backend/internal/models"
)

// PublicationService flips prediction sets between unpublished and
// published. Toggling never deletes data and is idempotent in both
// directions.
type PublicationService struct {
	db           *gorm.DB
	adminService *AdminService
	logger       *logrus.Logger
}

// NewPublicationService creates a new PublicationService
func NewPublicationService(db *gorm.DB, adminService *AdminService, logger *logrus.Logger) *PublicationService {
	return &PublicationService{
		db:           db,
		adminService: adminService,
		logger:       logger,
	}
}

// Publish makes a day's category set visible to entitled users. A no-op if
// the set is already published.
func (s *PublicationService) Publish(day, category string, adminID uint) (*models.PredictionSet, error) {
	return s.setStatus(day, category, models.StatusPublished, adminID)
}

// Unpublish hides a day's category set from users without deleting it.
func (s *PublicationService) Unpublish(day, category string, adminID uint) (*models.PredictionSet, error) {
	return s.setStatus(day, category, models.StatusUnpublished, adminID)
}

func (s *PublicationService) setStatus(day, category, status string, adminID uint) (*models.PredictionSet, error) {
	var set models.PredictionSet
	if err := s.db.Where("day = ? AND category = ?", day, category).First(&set).Error; err != nil {
		return nil, fmt.Errorf("no prediction set for %s/%s: %w", day, category, err)
	}

	if set.Status == status {
		return &set, nil
	}

	if err := s.db.Model(&set).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	set.Status = status

	action := "PUBLISH_PREDICTIONS"
	if status == models.StatusUnpublished {
		action = "UNPUBLISH_PREDICTIONS"
	}
	s.adminService.LogAdminAction(adminID, action, "PREDICTION_SET", &set.ID, datatypes.JSONMap{
		"day":      day,
		"category": category,
	})

	s.logger.Infof("[publication] %s/%s -> %s (admin %d)", day, category, status, adminID)
	return &set, nil
}
