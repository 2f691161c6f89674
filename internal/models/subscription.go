package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entitlement tiers, ordered from least to most privileged
const (
	TierFree  = "free"
	TierVIP   = "vip"
	TierElite = "elite"
)

// Payment states
const (
	PaymentPending  = "pending"
	PaymentVerified = "verified"
	PaymentRejected = "rejected"
)

// SubscriptionPlan describes a purchasable VIP plan. The catalog is a fixed
// in-code list, not a table.
type SubscriptionPlan struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Tier         string          `json:"tier"`
	Price        decimal.Decimal `json:"price"`
	Currency     string          `json:"currency"`
	DurationDays int             `json:"duration_days"`
}

// Subscription represents a user's active or expired VIP entitlement
type Subscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PlanID    string    `gorm:"size:50;not null" json:"plan_id"`
	Tier      string    `gorm:"size:20;not null" json:"tier"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Subscription model
func (Subscription) TableName() string {
	return "subscriptions"
}

// Payment is a manual payment submission awaiting admin verification.
// Verification activates or extends the matching subscription.
type Payment struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	UserID     uint            `gorm:"not null;index" json:"user_id"`
	User       *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PlanID     string          `gorm:"size:50;not null" json:"plan_id"`
	Amount     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Currency   string          `gorm:"size:10;not null" json:"currency"`
	Reference  string          `gorm:"size:200;not null" json:"reference"`
	Status     string          `gorm:"size:20;not null;default:pending;index" json:"status"`
	VerifiedBy *uint           `json:"verified_by,omitempty"`
	VerifiedAt *time.Time      `json:"verified_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Payment model
func (Payment) TableName() string {
	return "payments"
}
