package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"fbw-backend/internal/models"
)

func makeRecords(n int, spec CategorySpec) []models.PredictionRecord {
	records := make([]models.PredictionRecord, n)
	for i := range records {
		records[i] = models.PredictionRecord{
			Match:      "Arsenal vs Chelsea",
			HomeTeam:   "Arsenal",
			AwayTeam:   "Chelsea",
			League:     "Premier League",
			Kickoff:    "2026-08-31T15:00:00Z",
			Prediction: "Home Win",
			Odds:       decimal.NewFromFloat(1.85),
			Confidence: spec.MinConfidence,
		}
	}
	return records
}

func fullOfficialSlate() *models.OfficialSlate {
	spec := OfficialCategories[0]
	return &models.OfficialSlate{
		SecureTrial:   makeRecords(4, spec),
		IndividualVIP: makeRecords(12, spec),
		DailySingles:  makeRecords(15, spec),
		BankerBet:     makeRecords(4, spec),
		ValuePicks:    makeRecords(15, spec),
	}
}

func TestOfficialQuotasSumToTarget(t *testing.T) {
	sum := 0
	for _, c := range OfficialCategories {
		sum += c.Quota
	}
	if sum != OfficialTarget {
		t.Errorf("category quotas sum to %d, want %d", sum, OfficialTarget)
	}
}

func TestValidateOfficialAcceptsFullSlate(t *testing.T) {
	slate := fullOfficialSlate()

	if err := ValidateOfficial(slate); err != nil {
		t.Fatalf("ValidateOfficial rejected a well-formed slate: %v", err)
	}

	report := CountOfficial(slate)
	if report.Total != OfficialTarget {
		t.Errorf("expected total %d, got %d", OfficialTarget, report.Total)
	}
	if !report.InTolerance() {
		t.Errorf("total %d should be inside the tolerance band", report.Total)
	}
}

func TestCountVarianceIsNotAValidationError(t *testing.T) {
	slate := fullOfficialSlate()
	// Drop the last two value picks: 48 total, inside tolerance.
	slate.ValuePicks = slate.ValuePicks[:13]

	if err := ValidateOfficial(slate); err != nil {
		t.Fatalf("count variance must not fail validation: %v", err)
	}

	report := CountOfficial(slate)
	if report.Total != 48 {
		t.Fatalf("expected total 48, got %d", report.Total)
	}
	if !report.InTolerance() {
		t.Errorf("48 picks should be inside the %d-%d band", OfficialToleranceMin, OfficialToleranceMax)
	}

	// Shrink far below the band: still no error, only out of tolerance.
	slate.DailySingles = nil
	slate.ValuePicks = nil
	if err := ValidateOfficial(slate); err != nil {
		t.Fatalf("short slate must not fail validation: %v", err)
	}
	if CountOfficial(slate).InTolerance() {
		t.Error("slate far below target should be out of tolerance")
	}
}

func TestValidateOfficialRejectsConfidenceOutsideBand(t *testing.T) {
	slate := fullOfficialSlate()
	slate.BankerBet[2].Confidence = 60

	err := ValidateOfficial(slate)
	if err == nil {
		t.Fatal("expected a validation error for confidence 60")
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if !strings.Contains(vErr.Error(), "confidence 60") {
		t.Errorf("error should name the offending confidence: %v", vErr)
	}
	if !strings.Contains(vErr.Error(), CategoryBankerBet) {
		t.Errorf("error should name the category: %v", vErr)
	}
}

func TestValidateOfficialRejectsBadRecords(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.OfficialSlate)
	}{
		{"missing home team", func(s *models.OfficialSlate) { s.SecureTrial[0].HomeTeam = "" }},
		{"missing label", func(s *models.OfficialSlate) { s.DailySingles[3].Prediction = "" }},
		{"odds below minimum", func(s *models.OfficialSlate) { s.ValuePicks[1].Odds = decimal.NewFromFloat(1.0) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			slate := fullOfficialSlate()
			tc.mutate(slate)

			err := ValidateOfficial(slate)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
		})
	}
}

func TestValidateSpecialCapIsHard(t *testing.T) {
	slate := &models.SpecialSlate{SpecialPicks: makeRecords(SpecialMaxPicks+1, SpecialCategory)}

	err := ValidateSpecial(slate)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError for %d picks, got %v", SpecialMaxPicks+1, err)
	}

	slate.SpecialPicks = slate.SpecialPicks[:SpecialMaxPicks]
	if err := ValidateSpecial(slate); err != nil {
		t.Errorf("%d picks should be accepted: %v", SpecialMaxPicks, err)
	}
}

func TestValidateSpecialAcceptsEmptySlate(t *testing.T) {
	if err := ValidateSpecial(&models.SpecialSlate{}); err != nil {
		t.Errorf("empty special slate should be valid: %v", err)
	}

	// Below minimum is also fine: the minimum is a target, not an invariant.
	slate := &models.SpecialSlate{SpecialPicks: makeRecords(1, SpecialCategory)}
	if err := ValidateSpecial(slate); err != nil {
		t.Errorf("one-pick special slate should be valid: %v", err)
	}
}

func TestValidateSpecialUsesEliteBand(t *testing.T) {
	slate := &models.SpecialSlate{SpecialPicks: makeRecords(3, SpecialCategory)}
	// 80 is valid for official categories but below the elite floor.
	slate.SpecialPicks[1].Confidence = 80

	err := ValidateSpecial(slate)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError for confidence 80, got %v", err)
	}
}

func TestNormalizeRecords(t *testing.T) {
	score := "2:1"
	records := []models.PredictionRecord{
		{HomeTeam: "Lyon", AwayTeam: "Lille", Prediction: "Over 2.5"},
		{HomeTeam: "Ajax", AwayTeam: "PSV", Prediction: "BTTS", Result: models.ResultWin, FinalScore: &score},
	}

	out := NormalizeRecords(records)
	if out[0].Result != models.ResultPending {
		t.Errorf("fresh record should default to %s, got %s", models.ResultPending, out[0].Result)
	}
	if out[1].Result != models.ResultWin {
		t.Errorf("explicit result should be kept, got %s", out[1].Result)
	}
	if out[1].FinalScore != nil {
		t.Error("final score must be cleared for newly generated records")
	}
	if records[1].FinalScore == nil {
		t.Error("input slice must not be mutated")
	}
}

func TestCategoryByID(t *testing.T) {
	spec, ok := CategoryByID(CategorySpecial)
	if !ok || spec.RequiredTier != models.TierElite {
		t.Errorf("special category should resolve to the elite tier, got %+v ok=%v", spec, ok)
	}

	spec, ok = CategoryByID(CategorySecureTrial)
	if !ok || spec.RequiredTier != models.TierFree {
		t.Errorf("secure trial should resolve to the free tier, got %+v ok=%v", spec, ok)
	}

	if _, ok := CategoryByID("parlay_of_the_day"); ok {
		t.Error("unknown category should not resolve")
	}
}
