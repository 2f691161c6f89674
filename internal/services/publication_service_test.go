package services

import (
	"testing"
	"time"

	"fbw-backend/internal/models"
	"fbw-backend/internal/pipeline"
)

func TestPublishUnpublishToggle(t *testing.T) {
	db := setupTestDB(t)
	adminService := NewAdminService(db, testLogger())
	service := NewPublicationService(db, adminService, testLogger())

	set := models.PredictionSet{
		Day:         "2026-08-31",
		Category:    pipeline.CategorySecureTrial,
		Records:     models.PredictionRecordList(testRecords(4, 80)),
		Status:      models.StatusUnpublished,
		GeneratedAt: time.Now(),
	}
	if err := db.Create(&set).Error; err != nil {
		t.Fatalf("failed to seed set: %v", err)
	}

	published, err := service.Publish("2026-08-31", pipeline.CategorySecureTrial, 1)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if published.Status != models.StatusPublished {
		t.Errorf("expected published, got %s", published.Status)
	}

	unpublished, err := service.Unpublish("2026-08-31", pipeline.CategorySecureTrial, 1)
	if err != nil {
		t.Fatalf("Unpublish failed: %v", err)
	}
	if unpublished.Status != models.StatusUnpublished {
		t.Errorf("expected unpublished, got %s", unpublished.Status)
	}

	// Data survives the round trip.
	var reloaded models.PredictionSet
	if err := db.First(&reloaded, set.ID).Error; err != nil {
		t.Fatalf("set disappeared: %v", err)
	}
	if len(reloaded.Records) != 4 {
		t.Errorf("unpublish must not touch records, got %d", len(reloaded.Records))
	}
}

func TestPublishIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	adminService := NewAdminService(db, testLogger())
	service := NewPublicationService(db, adminService, testLogger())

	set := models.PredictionSet{
		Day:         "2026-08-31",
		Category:    pipeline.CategoryBankerBet,
		Records:     models.PredictionRecordList(testRecords(4, 80)),
		Status:      models.StatusUnpublished,
		GeneratedAt: time.Now(),
	}
	if err := db.Create(&set).Error; err != nil {
		t.Fatalf("failed to seed set: %v", err)
	}

	if _, err := service.Publish("2026-08-31", pipeline.CategoryBankerBet, 1); err != nil {
		t.Fatalf("first publish failed: %v", err)
	}
	if _, err := service.Publish("2026-08-31", pipeline.CategoryBankerBet, 1); err != nil {
		t.Fatalf("repeat publish must be a no-op, got %v", err)
	}

	// Only the real transition is audited.
	var logs int64
	db.Model(&models.AdminLog{}).Where("action = ?", "PUBLISH_PREDICTIONS").Count(&logs)
	if logs != 1 {
		t.Errorf("expected 1 audit entry, got %d", logs)
	}
}

func TestPublishMissingSet(t *testing.T) {
	db := setupTestDB(t)
	service := NewPublicationService(db, NewAdminService(db, testLogger()), testLogger())

	if _, err := service.Publish("2026-08-31", pipeline.CategoryValuePicks, 1); err == nil {
		t.Fatal("publishing a missing set must fail")
	}
}
