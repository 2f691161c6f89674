package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fbw-backend/internal/auth"
	"fbw-backend/internal/models"
	"fbw-backend/internal/pipeline"
	"fbw-backend/internal/services"
)

// PredictionHandler serves published prediction sets to end users
type PredictionHandler struct {
	predictionService  *services.PredictionService
	entitlementService *services.EntitlementService
}

// NewPredictionHandler creates a new PredictionHandler
func NewPredictionHandler(predictionService *services.PredictionService, entitlementService *services.EntitlementService) *PredictionHandler {
	return &PredictionHandler{
		predictionService:  predictionService,
		entitlementService: entitlementService,
	}
}

// validDay rejects date path params that are not YYYY-MM-DD.
func validDay(day string) bool {
	_, err := time.Parse("2006-01-02", day)
	return err == nil
}

// today returns the current UTC calendar date.
func today() string {
	return time.Now().UTC().Format("2006-01-02")
}

// GetFreePredictions returns the published free-tier sets for a day
// GET /api/predictions/:date
func (h *PredictionHandler) GetFreePredictions(c *gin.Context) {
	day := c.Param("date")
	if !validDay(day) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	sets, err := h.predictionService.GetDaySets(day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load predictions"})
		return
	}

	free := make([]models.PredictionSet, 0)
	for _, set := range sets {
		spec, ok := pipeline.CategoryByID(set.Category)
		if !ok || spec.RequiredTier != models.TierFree {
			continue
		}
		if set.Status == models.StatusPublished {
			free = append(free, set)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"day":  day,
		"sets": free,
	})
}

// GetCategoryPredictions returns one published category set for entitled users
// GET /api/predictions/:date/:category
func (h *PredictionHandler) GetCategoryPredictions(c *gin.Context) {
	day := c.Param("date")
	category := c.Param("category")

	if !validDay(day) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	if _, ok := pipeline.CategoryByID(category); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown category"})
		return
	}

	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	allowed, err := h.entitlementService.CanAccessCategory(userID, category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve entitlement"})
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "your plan does not cover this category"})
		return
	}

	set, err := h.predictionService.GetPublishedSet(day, category)
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "no published predictions for this day and category"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load predictions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"set": set,
	})
}

// GetPlans returns the subscription plan catalog
// GET /api/plans
func (h *PredictionHandler) GetPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"plans": services.Plans,
	})
}
