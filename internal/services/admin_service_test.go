package services

import (
	"testing"

	"fbw-backend/internal/models"
)

func TestPromoteAndDemoteAdmin(t *testing.T) {
	db := setupTestDB(t)
	service := NewAdminService(db, testLogger())

	user := models.User{Email: "staff@example.com", PasswordHash: "x"}
	db.Create(&user)

	if service.IsAdmin(user.ID) {
		t.Error("fresh user must not be an admin")
	}

	admin, err := service.PromoteUserToAdmin(user.ID, models.RoleModerator, 1)
	if err != nil {
		t.Fatalf("PromoteUserToAdmin failed: %v", err)
	}
	if !service.IsAdmin(user.ID) {
		t.Error("promoted user should be an admin")
	}
	if verify, ok := admin.Permissions["verify_payments"].(bool); !ok || !verify {
		t.Error("moderators should be able to verify payments")
	}

	if _, err := service.PromoteUserToAdmin(user.ID, models.RoleModerator, 1); err == nil {
		t.Error("double promotion must be rejected")
	}
	if _, err := service.PromoteUserToAdmin(9999, models.RoleAnalyst, 1); err == nil {
		t.Error("promoting a missing user must fail")
	}

	if err := service.DemoteAdmin(admin.ID, 1); err != nil {
		t.Fatalf("DemoteAdmin failed: %v", err)
	}
	if service.IsAdmin(user.ID) {
		t.Error("demoted user must not be an admin")
	}

	logs, err := service.GetAdminLogs(10, 0)
	if err != nil {
		t.Fatalf("GetAdminLogs failed: %v", err)
	}
	if len(logs) != 2 {
		t.Errorf("expected promote and demote audit entries, got %d", len(logs))
	}
}
