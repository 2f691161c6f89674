package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"fbw-backend/internal/models"
)

// Plans is the fixed plan catalog. Prices are display values; the actual
// transfer happens off-platform and is verified manually by an admin.
var Plans = []models.SubscriptionPlan{
	{ID: "vip_weekly", Name: "VIP Weekly", Tier: models.TierVIP, Price: decimal.RequireFromString("5000"), Currency: "NGN", DurationDays: 7},
	{ID: "vip_monthly", Name: "VIP Monthly", Tier: models.TierVIP, Price: decimal.RequireFromString("15000"), Currency: "NGN", DurationDays: 30},
	{ID: "elite_weekly", Name: "Elite Weekly", Tier: models.TierElite, Price: decimal.RequireFromString("12000"), Currency: "NGN", DurationDays: 7},
	{ID: "elite_monthly", Name: "Elite Monthly", Tier: models.TierElite, Price: decimal.RequireFromString("40000"), Currency: "NGN", DurationDays: 30},
}

// PlanByID returns a plan from the catalog.
func PlanByID(id string) (models.SubscriptionPlan, bool) {
	for _, p := range Plans {
		if p.ID == id {
			return p, true
		}
	}
	return models.SubscriptionPlan{}, false
}

// SubscriptionService handles payment submissions and their verification
// into active subscriptions.
type SubscriptionService struct {
	db           *gorm.DB
	adminService *AdminService
	logger       *logrus.Logger
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(db *gorm.DB, adminService *AdminService, logger *logrus.Logger) *SubscriptionService {
	return &SubscriptionService{
		db:           db,
		adminService: adminService,
		logger:       logger,
	}
}

// SubmitPayment records a user's claimed transfer for a plan, pending
// admin verification.
func (s *SubscriptionService) SubmitPayment(userID uint, planID, reference string) (*models.Payment, error) {
	plan, ok := PlanByID(planID)
	if !ok {
		return nil, fmt.Errorf("unknown plan: %s", planID)
	}

	if reference == "" {
		return nil, fmt.Errorf("payment reference is required")
	}

	payment := models.Payment{
		UserID:    userID,
		PlanID:    plan.ID,
		Amount:    plan.Price,
		Currency:  plan.Currency,
		Reference: reference,
		Status:    models.PaymentPending,
	}

	if err := s.db.Create(&payment).Error; err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	s.logger.Infof("[payments] user %d submitted %s for plan %s", userID, reference, planID)
	return &payment, nil
}

// VerifyPayment marks a pending payment verified and activates or extends
// the matching subscription in the same transaction.
func (s *SubscriptionService) VerifyPayment(paymentID, adminID uint) (*models.Payment, error) {
	var payment models.Payment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&payment, paymentID).Error; err != nil {
			return fmt.Errorf("payment not found: %w", err)
		}

		if payment.Status != models.PaymentPending {
			return fmt.Errorf("payment %d is already %s", paymentID, payment.Status)
		}

		plan, ok := PlanByID(payment.PlanID)
		if !ok {
			return fmt.Errorf("payment %d references unknown plan %s", paymentID, payment.PlanID)
		}

		now := time.Now()
		if err := tx.Model(&payment).Updates(map[string]interface{}{
			"status":      models.PaymentVerified,
			"verified_by": adminID,
			"verified_at": now,
		}).Error; err != nil {
			return err
		}
		payment.Status = models.PaymentVerified
		payment.VerifiedBy = &adminID
		payment.VerifiedAt = &now

		return extendSubscription(tx, payment.UserID, plan, now)
	})
	if err != nil {
		return nil, err
	}

	s.adminService.LogAdminAction(adminID, "VERIFY_PAYMENT", "PAYMENT", &payment.ID, datatypes.JSONMap{
		"user_id": payment.UserID,
		"plan_id": payment.PlanID,
	})

	s.logger.Infof("[payments] payment %d verified by admin %d", paymentID, adminID)
	return &payment, nil
}

// extendSubscription activates a subscription for the plan's tier, or
// extends it from its current expiry when one is still running.
func extendSubscription(tx *gorm.DB, userID uint, plan models.SubscriptionPlan, now time.Time) error {
	duration := time.Duration(plan.DurationDays) * 24 * time.Hour

	var sub models.Subscription
	err := tx.Where("user_id = ? AND tier = ?", userID, plan.Tier).First(&sub).Error

	if err == gorm.ErrRecordNotFound {
		sub = models.Subscription{
			UserID:    userID,
			PlanID:    plan.ID,
			Tier:      plan.Tier,
			ExpiresAt: now.Add(duration),
		}
		return tx.Create(&sub).Error
	}
	if err != nil {
		return err
	}

	start := now
	if sub.ExpiresAt.After(now) {
		start = sub.ExpiresAt
	}

	return tx.Model(&sub).Updates(map[string]interface{}{
		"plan_id":    plan.ID,
		"expires_at": start.Add(duration),
	}).Error
}

// RejectPayment marks a pending payment rejected without touching any
// subscription.
func (s *SubscriptionService) RejectPayment(paymentID, adminID uint) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.First(&payment, paymentID).Error; err != nil {
		return nil, fmt.Errorf("payment not found: %w", err)
	}

	if payment.Status != models.PaymentPending {
		return nil, fmt.Errorf("payment %d is already %s", paymentID, payment.Status)
	}

	if err := s.db.Model(&payment).Update("status", models.PaymentRejected).Error; err != nil {
		return nil, err
	}
	payment.Status = models.PaymentRejected

	s.adminService.LogAdminAction(adminID, "REJECT_PAYMENT", "PAYMENT", &payment.ID, nil)
	return &payment, nil
}

// GetUserPayments lists a user's payment submissions, newest first.
func (s *SubscriptionService) GetUserPayments(userID uint) ([]models.Payment, error) {
	var payments []models.Payment
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// GetPendingPayments lists payments awaiting verification, oldest first.
func (s *SubscriptionService) GetPendingPayments(limit, offset int) ([]models.Payment, error) {
	var payments []models.Payment
	if err := s.db.Where("status = ?", models.PaymentPending).Preload("User").
		Order("created_at ASC").Limit(limit).Offset(offset).Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// GetUserSubscription returns the user's most recent subscription row, if any.
func (s *SubscriptionService) GetUserSubscription(userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.Where("user_id = ?", userID).Order("expires_at DESC").First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
