package services

import (
	"testing"
	"time"

	"fbw-backend/internal/models"
	"fbw-backend/internal/pipeline"
)

func TestSubmitAndVerifyPaymentActivatesSubscription(t *testing.T) {
	db := setupTestDB(t)
	adminService := NewAdminService(db, testLogger())
	service := NewSubscriptionService(db, adminService, testLogger())

	user := models.User{Email: "punter@example.com", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	payment, err := service.SubmitPayment(user.ID, "vip_weekly", "TRF-12345")
	if err != nil {
		t.Fatalf("SubmitPayment failed: %v", err)
	}
	if payment.Status != models.PaymentPending {
		t.Errorf("expected pending, got %s", payment.Status)
	}
	if payment.Amount.String() != "5000" {
		t.Errorf("amount should come from the catalog, got %s", payment.Amount)
	}

	verified, err := service.VerifyPayment(payment.ID, 1)
	if err != nil {
		t.Fatalf("VerifyPayment failed: %v", err)
	}
	if verified.Status != models.PaymentVerified {
		t.Errorf("expected verified, got %s", verified.Status)
	}
	if verified.VerifiedBy == nil || *verified.VerifiedBy != 1 {
		t.Error("verification should record the admin")
	}

	sub, err := service.GetUserSubscription(user.ID)
	if err != nil {
		t.Fatalf("subscription not activated: %v", err)
	}
	if sub.Tier != models.TierVIP {
		t.Errorf("expected vip tier, got %s", sub.Tier)
	}

	wantExpiry := time.Now().Add(7 * 24 * time.Hour)
	if sub.ExpiresAt.Before(wantExpiry.Add(-time.Minute)) || sub.ExpiresAt.After(wantExpiry.Add(time.Minute)) {
		t.Errorf("expected expiry around %v, got %v", wantExpiry, sub.ExpiresAt)
	}
}

func TestVerifyPaymentExtendsRunningSubscription(t *testing.T) {
	db := setupTestDB(t)
	service := NewSubscriptionService(db, NewAdminService(db, testLogger()), testLogger())

	user := models.User{Email: "renew@example.com", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	existingExpiry := time.Now().Add(3 * 24 * time.Hour)
	sub := models.Subscription{UserID: user.ID, PlanID: "vip_weekly", Tier: models.TierVIP, ExpiresAt: existingExpiry}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("failed to seed subscription: %v", err)
	}

	payment, err := service.SubmitPayment(user.ID, "vip_weekly", "TRF-67890")
	if err != nil {
		t.Fatalf("SubmitPayment failed: %v", err)
	}
	if _, err := service.VerifyPayment(payment.ID, 1); err != nil {
		t.Fatalf("VerifyPayment failed: %v", err)
	}

	renewed, err := service.GetUserSubscription(user.ID)
	if err != nil {
		t.Fatalf("failed to load subscription: %v", err)
	}

	// Extension starts from the old expiry, not from now.
	want := existingExpiry.Add(7 * 24 * time.Hour)
	if renewed.ExpiresAt.Before(want.Add(-time.Minute)) || renewed.ExpiresAt.After(want.Add(time.Minute)) {
		t.Errorf("expected expiry around %v, got %v", want, renewed.ExpiresAt)
	}
}

func TestVerifyPaymentRejectsDoubleVerification(t *testing.T) {
	db := setupTestDB(t)
	service := NewSubscriptionService(db, NewAdminService(db, testLogger()), testLogger())

	user := models.User{Email: "double@example.com", PasswordHash: "x"}
	db.Create(&user)

	payment, err := service.SubmitPayment(user.ID, "elite_weekly", "TRF-11111")
	if err != nil {
		t.Fatalf("SubmitPayment failed: %v", err)
	}
	if _, err := service.VerifyPayment(payment.ID, 1); err != nil {
		t.Fatalf("first verification failed: %v", err)
	}
	if _, err := service.VerifyPayment(payment.ID, 2); err == nil {
		t.Fatal("second verification must be rejected")
	}
}

func TestRejectPaymentLeavesNoSubscription(t *testing.T) {
	db := setupTestDB(t)
	service := NewSubscriptionService(db, NewAdminService(db, testLogger()), testLogger())

	user := models.User{Email: "rejected@example.com", PasswordHash: "x"}
	db.Create(&user)

	payment, err := service.SubmitPayment(user.ID, "vip_monthly", "TRF-22222")
	if err != nil {
		t.Fatalf("SubmitPayment failed: %v", err)
	}

	rejected, err := service.RejectPayment(payment.ID, 1)
	if err != nil {
		t.Fatalf("RejectPayment failed: %v", err)
	}
	if rejected.Status != models.PaymentRejected {
		t.Errorf("expected rejected, got %s", rejected.Status)
	}

	var count int64
	db.Model(&models.Subscription{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 0 {
		t.Error("rejection must not create a subscription")
	}
}

func TestSubmitPaymentValidation(t *testing.T) {
	db := setupTestDB(t)
	service := NewSubscriptionService(db, NewAdminService(db, testLogger()), testLogger())

	if _, err := service.SubmitPayment(1, "gold_yearly", "TRF-1"); err == nil {
		t.Error("unknown plan must be rejected")
	}
	if _, err := service.SubmitPayment(1, "vip_weekly", ""); err == nil {
		t.Error("empty reference must be rejected")
	}
}

func TestEntitlementResolution(t *testing.T) {
	db := setupTestDB(t)
	service := NewEntitlementService(db)

	user := models.User{Email: "tiers@example.com", PasswordHash: "x"}
	db.Create(&user)

	// No subscription at all: free.
	ent, err := service.ResolveEntitlement(user.ID)
	if err != nil {
		t.Fatalf("ResolveEntitlement failed: %v", err)
	}
	if ent.Tier != models.TierFree {
		t.Errorf("expected free, got %s", ent.Tier)
	}

	// Expired subscription still resolves to free.
	expired := models.Subscription{UserID: user.ID, PlanID: "vip_weekly", Tier: models.TierVIP, ExpiresAt: time.Now().Add(-time.Hour)}
	db.Create(&expired)
	ent, _ = service.ResolveEntitlement(user.ID)
	if ent.Tier != models.TierFree {
		t.Errorf("expired subscription should resolve to free, got %s", ent.Tier)
	}

	// Active elite subscription.
	active := models.Subscription{UserID: user.ID, PlanID: "elite_weekly", Tier: models.TierElite, ExpiresAt: time.Now().Add(48 * time.Hour)}
	db.Create(&active)
	ent, _ = service.ResolveEntitlement(user.ID)
	if ent.Tier != models.TierElite {
		t.Errorf("expected elite, got %s", ent.Tier)
	}
}

func TestCanAccessCategory(t *testing.T) {
	db := setupTestDB(t)
	service := NewEntitlementService(db)

	freeUser := models.User{Email: "free@example.com", PasswordHash: "x"}
	vipUser := models.User{Email: "vip@example.com", PasswordHash: "x"}
	eliteUser := models.User{Email: "elite@example.com", PasswordHash: "x"}
	db.Create(&freeUser)
	db.Create(&vipUser)
	db.Create(&eliteUser)

	db.Create(&models.Subscription{UserID: vipUser.ID, PlanID: "vip_weekly", Tier: models.TierVIP, ExpiresAt: time.Now().Add(24 * time.Hour)})
	db.Create(&models.Subscription{UserID: eliteUser.ID, PlanID: "elite_weekly", Tier: models.TierElite, ExpiresAt: time.Now().Add(24 * time.Hour)})

	cases := []struct {
		name     string
		userID   uint
		category string
		want     bool
	}{
		{"free user sees secure trial", freeUser.ID, pipeline.CategorySecureTrial, true},
		{"free user blocked from vip", freeUser.ID, pipeline.CategoryDailySingles, false},
		{"free user blocked from special", freeUser.ID, pipeline.CategorySpecial, false},
		{"vip user sees vip", vipUser.ID, pipeline.CategoryBankerBet, true},
		{"vip user blocked from special", vipUser.ID, pipeline.CategorySpecial, false},
		{"elite user sees vip", eliteUser.ID, pipeline.CategoryValuePicks, true},
		{"elite user sees special", eliteUser.ID, pipeline.CategorySpecial, true},
		{"unknown category denied", eliteUser.ID, "mystery_box", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := service.CanAccessCategory(tc.userID, tc.category)
			if err != nil {
				t.Fatalf("CanAccessCategory failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("want %v, got %v", tc.want, got)
			}
		})
	}
}
