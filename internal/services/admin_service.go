package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"fbw-backend/internal/models"
)

type AdminService struct {
	db     *gorm.DB
	logger *logrus.Logger
	mu     sync.Mutex
}

func NewAdminService(db *gorm.DB, logger *logrus.Logger) *AdminService {
	return &AdminService{
		db:     db,
		logger: logger,
	}
}

// IsAdmin checks if a user is an admin
func (s *AdminService) IsAdmin(userID uint) bool {
	var admin models.AdminUser
	result := s.db.Where("user_id = ?", userID).First(&admin)
	return result.Error == nil
}

// GetAdminByUserID gets admin by user ID
func (s *AdminService) GetAdminByUserID(userID uint) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := s.db.Where("user_id = ?", userID).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// PromoteUserToAdmin promotes a user to admin
func (s *AdminService) PromoteUserToAdmin(userID uint, role string, promotedByAdminID uint) (*models.AdminUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Check if user exists
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	// Check if already admin
	var existing models.AdminUser
	if err := s.db.Where("user_id = ?", userID).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("user is already an admin")
	}

	permissions := datatypes.JSONMap{
		"manage_users":       true,
		"manage_predictions": true,
		"verify_payments":    role == models.RoleSuperAdmin || role == models.RoleModerator,
		"view_analytics":     true,
	}

	adminUser := models.AdminUser{
		UserID:      userID,
		Role:        role,
		Permissions: permissions,
	}

	if err := s.db.Create(&adminUser).Error; err != nil {
		return nil, fmt.Errorf("failed to promote user: %w", err)
	}

	s.LogAdminAction(promotedByAdminID, "PROMOTE_USER", "USER", &userID, datatypes.JSONMap{
		"role": role,
	})

	s.logger.Infof("User %d promoted to %s", userID, role)
	return &adminUser, nil
}

// DemoteAdmin removes admin privileges
func (s *AdminService) DemoteAdmin(adminUserID uint, demotedByAdminID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Delete(&models.AdminUser{}, adminUserID).Error; err != nil {
		return fmt.Errorf("failed to demote admin: %w", err)
	}

	s.LogAdminAction(demotedByAdminID, "DEMOTE_ADMIN", "ADMIN_USER", &adminUserID, nil)
	return nil
}

// LogAdminAction logs an admin action
func (s *AdminService) LogAdminAction(adminID uint, action string, resourceType string,
	resourceID *uint, details datatypes.JSONMap) error {

	adminLog := models.AdminLog{
		AdminID:      adminID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
	}

	return s.db.Create(&adminLog).Error
}

// GetAdminLogs returns admin activity logs
func (s *AdminService) GetAdminLogs(limit int, offset int) ([]models.AdminLog, error) {
	var logs []models.AdminLog
	if err := s.db.Preload("Admin").Preload("Admin.User").
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// PlatformStats summarizes platform activity for the admin dashboard.
type PlatformStats struct {
	TotalUsers          int64 `json:"total_users"`
	ActiveSubscriptions int64 `json:"active_subscriptions"`
	PendingPayments     int64 `json:"pending_payments"`
	PublishedSets       int64 `json:"published_sets"`
	TotalPosts          int64 `json:"total_posts"`
}

// GetPlatformStats computes current platform statistics
func (s *AdminService) GetPlatformStats() (*PlatformStats, error) {
	var stats PlatformStats

	s.db.Model(&models.User{}).Count(&stats.TotalUsers)
	s.db.Model(&models.Subscription{}).Where("expires_at > ?", time.Now()).Count(&stats.ActiveSubscriptions)
	s.db.Model(&models.Payment{}).Where("status = ?", models.PaymentPending).Count(&stats.PendingPayments)
	s.db.Model(&models.PredictionSet{}).Where("status = ?", models.StatusPublished).Count(&stats.PublishedSets)
	s.db.Model(&models.Post{}).Count(&stats.TotalPosts)

	return &stats, nil
}

// GetAllUsers returns all users with optional filtering
func (s *AdminService) GetAllUsers(limit int, offset int, search string) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	query := s.db.Model(&models.User{})
	if search != "" {
		query = query.Where("email LIKE ?", "%"+search+"%")
	}

	query.Count(&total)
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}
