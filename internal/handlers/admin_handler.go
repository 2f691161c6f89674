package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fbw-backend/internal/auth"
	"fbw-backend/internal/pipeline"
	"fbw-backend/internal/services"
)

// AdminHandler exposes generation triggers, the publication gate, payment
// verification, and the audit surface.
type AdminHandler struct {
	predictionService   *services.PredictionService
	publicationService  *services.PublicationService
	subscriptionService *services.SubscriptionService
	settlementService   *services.SettlementService
	adminService        *services.AdminService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	predictionService *services.PredictionService,
	publicationService *services.PublicationService,
	subscriptionService *services.SubscriptionService,
	settlementService *services.SettlementService,
	adminService *services.AdminService,
) *AdminHandler {
	return &AdminHandler{
		predictionService:   predictionService,
		publicationService:  publicationService,
		subscriptionService: subscriptionService,
		settlementService:   settlementService,
		adminService:        adminService,
	}
}

// runDay resolves the optional day query param, defaulting to today.
func runDay(c *gin.Context) (string, bool) {
	day := c.DefaultQuery("day", today())
	if !validDay(day) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day must be YYYY-MM-DD"})
		return "", false
	}
	return day, true
}

// GenerateOfficial triggers one official generation run
// POST /admin/predictions/generate
func (h *AdminHandler) GenerateOfficial(c *gin.Context) {
	day, ok := runDay(c)
	if !ok {
		return
	}

	summary, err := h.predictionService.RunOfficial(c.Request.Context(), day)
	if err != nil {
		respondRunError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GenerateSpecial triggers one elite generation run
// POST /admin/predictions/generate-special
func (h *AdminHandler) GenerateSpecial(c *gin.Context) {
	day, ok := runDay(c)
	if !ok {
		return
	}

	summary, err := h.predictionService.RunSpecial(c.Request.Context(), day)
	if err != nil {
		respondRunError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// respondRunError maps pipeline failures onto HTTP statuses, surfacing the
// message verbatim for the operator.
func respondRunError(c *gin.Context, err error) {
	var confErr *pipeline.ConfigurationError
	var upErr *pipeline.UpstreamError
	var genErr *pipeline.GenerationError
	var valErr *pipeline.ValidationError

	switch {
	case errors.Is(err, services.ErrRunInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &confErr):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	case errors.As(err, &upErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.As(err, &genErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.As(err, &valErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// GetDayPredictions returns every set for a day regardless of status
// GET /admin/predictions/:date
func (h *AdminHandler) GetDayPredictions(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{"day": day, "sets": sets})
}

// Publish flips one set to published
// POST /admin/predictions/:date/:category/publish
func (h *AdminHandler) Publish(c *gin.Context) {
	h.togglePublication(c, true)
}

// Unpublish flips one set back to unpublished
// POST /admin/predictions/:date/:category/unpublish
func (h *AdminHandler) Unpublish(c *gin.Context) {
	h.togglePublication(c, false)
}

func (h *AdminHandler) togglePublication(c *gin.Context, publish bool) {
	day := c.Param("date")
	category := c.Param("category")

	if !validDay(day) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	adminID, _ := auth.GetUserID(c)

	var err error
	var set interface{}
	if publish {
		set, err = h.publicationService.Publish(day, category, adminID)
	} else {
		set, err = h.publicationService.Unpublish(day, category, adminID)
	}
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"set": set})
}

// GetPendingPayments lists payments awaiting verification
// GET /admin/payments
func (h *AdminHandler) GetPendingPayments(c *gin.Context) {
	limit, offset := paging(c, 50)

	payments, err := h.subscriptionService.GetPendingPayments(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// VerifyPayment confirms a payment and activates the subscription
// POST /admin/payments/:id/verify
func (h *AdminHandler) VerifyPayment(c *gin.Context) {
	h.resolvePayment(c, true)
}

// RejectPayment declines a payment
// POST /admin/payments/:id/reject
func (h *AdminHandler) RejectPayment(c *gin.Context) {
	h.resolvePayment(c, false)
}

func (h *AdminHandler) resolvePayment(c *gin.Context, verify bool) {
	paymentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment id"})
		return
	}

	adminID, _ := auth.GetUserID(c)

	var payment interface{}
	if verify {
		payment, err = h.subscriptionService.VerifyPayment(uint(paymentID), adminID)
	} else {
		payment, err = h.subscriptionService.RejectPayment(uint(paymentID), adminID)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

// SettleResults grades pending records against finished fixtures
// POST /admin/results/settle
func (h *AdminHandler) SettleResults(c *gin.Context) {
	day, ok := runDay(c)
	if !ok {
		return
	}

	settled, err := h.settlementService.SettleDay(c.Request.Context(), day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"day": day, "settled": settled})
}

// GetLogs returns the admin audit trail
// GET /admin/logs
func (h *AdminHandler) GetLogs(c *gin.Context) {
	limit, offset := paging(c, 50)

	logs, err := h.adminService.GetAdminLogs(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// GetStats returns platform statistics
// GET /admin/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.adminService.GetPlatformStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// GetUsers lists platform users with optional email search
// GET /admin/users
func (h *AdminHandler) GetUsers(c *gin.Context) {
	limit, offset := paging(c, 50)

	users, total, err := h.adminService.GetAllUsers(limit, offset, c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "total": total})
}

// paging parses limit/offset query params with a default page size.
func paging(c *gin.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit <= 0 || limit > 200 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
