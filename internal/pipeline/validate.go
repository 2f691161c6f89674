package pipeline

import (
	"fmt"

	"github.com/shopspring/decimal"

	"fbw-backend/internal/models"
)

var minOdds = decimal.RequireFromString("1.01")

// CountReport summarizes per-category counts for one official slate.
type CountReport struct {
	PerCategory map[string]int
	Total       int
}

// InTolerance reports whether the total falls inside the accepted band
// around the official target.
func (r CountReport) InTolerance() bool {
	return r.Total >= OfficialToleranceMin && r.Total <= OfficialToleranceMax
}

// CountOfficial computes the per-category counts and total for a slate.
func CountOfficial(slate *models.OfficialSlate) CountReport {
	report := CountReport{PerCategory: make(map[string]int)}
	for id, records := range slate.ByCategory() {
		report.PerCategory[id] = len(records)
		report.Total += len(records)
	}
	return report
}

// ValidateOfficial runs the post-response validation pass over an official
// slate. Record-level violations are hard failures regardless of what the
// generation schema promised; count variance is handled separately by the
// caller since it is only a warning for this ruleset.
func ValidateOfficial(slate *models.OfficialSlate) error {
	for _, spec := range OfficialCategories {
		records := slate.ByCategory()[spec.ID]
		if err := validateRecords(spec, records); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSpecial runs the post-response validation pass over a special
// slate. Exceeding the hard cap is fatal; an empty slate is valid.
func ValidateSpecial(slate *models.SpecialSlate) error {
	if n := len(slate.SpecialPicks); n > SpecialMaxPicks {
		return &ValidationError{Reason: fmt.Sprintf(
			"%s returned %d picks, hard cap is %d", CategorySpecial, n, SpecialMaxPicks)}
	}
	return validateRecords(SpecialCategory, slate.SpecialPicks)
}

// validateRecords enforces the per-record invariants against the declared
// category band, independent of the upstream service's schema compliance.
func validateRecords(spec CategorySpec, records []models.PredictionRecord) error {
	for i, rec := range records {
		if rec.HomeTeam == "" || rec.AwayTeam == "" {
			return &ValidationError{Reason: fmt.Sprintf(
				"%s pick %d is missing a team name", spec.ID, i+1)}
		}
		if rec.Prediction == "" {
			return &ValidationError{Reason: fmt.Sprintf(
				"%s pick %d (%s vs %s) has no prediction label",
				spec.ID, i+1, rec.HomeTeam, rec.AwayTeam)}
		}
		if rec.Odds.LessThan(minOdds) {
			return &ValidationError{Reason: fmt.Sprintf(
				"%s pick %d (%s vs %s) has odds %s below %s",
				spec.ID, i+1, rec.HomeTeam, rec.AwayTeam, rec.Odds, minOdds)}
		}
		if rec.Confidence < spec.MinConfidence || rec.Confidence > spec.MaxConfidence {
			return &ValidationError{Reason: fmt.Sprintf(
				"%s pick %d (%s vs %s) has confidence %d outside band %d-%d",
				spec.ID, i+1, rec.HomeTeam, rec.AwayTeam,
				rec.Confidence, spec.MinConfidence, spec.MaxConfidence)}
		}
	}
	return nil
}

// NormalizeRecords stamps defaults onto generated records before they are
// persisted: every fresh pick starts Pending with no final score.
func NormalizeRecords(records []models.PredictionRecord) []models.PredictionRecord {
	out := make([]models.PredictionRecord, len(records))
	for i, rec := range records {
		if rec.Result == "" {
			rec.Result = models.ResultPending
		}
		rec.FinalScore = nil
		out[i] = rec
	}
	return out
}
