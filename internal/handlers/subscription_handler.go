package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fbw-backend/internal/auth"
	"fbw-backend/internal/services"
)

// SubscriptionHandler handles user-facing payment and subscription endpoints
type SubscriptionHandler struct {
	subscriptionService *services.SubscriptionService
	entitlementService  *services.EntitlementService
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(subscriptionService *services.SubscriptionService, entitlementService *services.EntitlementService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		entitlementService:  entitlementService,
	}
}

// SubmitPayment records a payment claim for admin verification
// POST /api/payments
func (h *SubscriptionHandler) SubmitPayment(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		PlanID    string `json:"plan_id" binding:"required"`
		Reference string `json:"reference" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.subscriptionService.SubmitPayment(userID, req.PlanID, req.Reference)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"payment": payment})
}

// GetMyPayments lists the caller's payment submissions
// GET /api/payments
func (h *SubscriptionHandler) GetMyPayments(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	payments, err := h.subscriptionService.GetUserPayments(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// GetMySubscription returns the caller's entitlement and subscription row
// GET /api/subscription
func (h *SubscriptionHandler) GetMySubscription(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	entitlement, err := h.entitlementService.ResolveEntitlement(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve entitlement"})
		return
	}

	sub, err := h.subscriptionService.GetUserSubscription(userID)
	if err != nil && err != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entitlement":  entitlement,
		"subscription": sub,
	})
}
