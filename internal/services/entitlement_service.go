package services

import (
	"time"

	"gorm.io/gorm"

	"fbw-backend/internal/models"
	"fbw-backend/internal/pipeline"
)

// Entitlement is a user's resolved access level at a point in time.
type Entitlement struct {
	Tier      string     `json:"tier"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// tierRank orders tiers so a higher subscription satisfies a lower
// category requirement.
var tierRank = map[string]int{
	models.TierFree:  0,
	models.TierVIP:   1,
	models.TierElite: 2,
}

// EntitlementService is the single source of truth for VIP status. Every
// gating decision in the API goes through ResolveEntitlement; nothing else
// inspects subscriptions directly.
type EntitlementService struct {
	db *gorm.DB
}

// NewEntitlementService creates a new EntitlementService
func NewEntitlementService(db *gorm.DB) *EntitlementService {
	return &EntitlementService{db: db}
}

// ResolveEntitlement returns the user's current tier. An expired or absent
// subscription resolves to the free tier.
func (s *EntitlementService) ResolveEntitlement(userID uint) (Entitlement, error) {
	var sub models.Subscription
	err := s.db.Where("user_id = ? AND expires_at > ?", userID, time.Now()).
		Order("expires_at DESC").First(&sub).Error

	if err == gorm.ErrRecordNotFound {
		return Entitlement{Tier: models.TierFree}, nil
	}
	if err != nil {
		return Entitlement{}, err
	}

	return Entitlement{Tier: sub.Tier, ExpiresAt: &sub.ExpiresAt}, nil
}

// CanAccessCategory reports whether the user's tier covers a category's
// required tier.
func (s *EntitlementService) CanAccessCategory(userID uint, category string) (bool, error) {
	spec, ok := pipeline.CategoryByID(category)
	if !ok {
		return false, nil
	}

	ent, err := s.ResolveEntitlement(userID)
	if err != nil {
		return false, err
	}

	return tierRank[ent.Tier] >= tierRank[spec.RequiredTier], nil
}
