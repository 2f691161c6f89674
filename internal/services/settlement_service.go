package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"fbw-backend/internal/models"
	"fbw-backend/internal/sportsdata"
)

// SettlementService fills in Win/Loss outcomes and final scores on
// published prediction records after the real-world matches finish. Labels
// it cannot evaluate stay Pending.
type SettlementService struct {
	db       *gorm.DB
	fixtures FixtureSource
	logger   *logrus.Logger
}

// NewSettlementService creates a new SettlementService
func NewSettlementService(db *gorm.DB, fixtures FixtureSource, logger *logrus.Logger) *SettlementService {
	return &SettlementService{
		db:       db,
		fixtures: fixtures,
		logger:   logger,
	}
}

// SettleDay checks every prediction set for a day against finished fixture
// results and updates the records in place.
func (s *SettlementService) SettleDay(ctx context.Context, day string) (int, error) {
	var sets []models.PredictionSet
	if err := s.db.Where("day = ?", day).Find(&sets).Error; err != nil {
		return 0, err
	}

	if !hasPending(sets) {
		return 0, nil
	}

	finished, err := s.fixtures.FixturesByDate(ctx, day, sportsdata.FixtureFilter{
		Predicate: func(f models.Fixture) bool { return f.Finished() },
	})
	if err != nil {
		return 0, err
	}

	results := make(map[int64]models.Fixture, len(finished))
	for _, f := range finished {
		results[f.ID] = f
	}

	settled := 0
	for i := range sets {
		changed := false
		for j := range sets[i].Records {
			rec := &sets[i].Records[j]
			if rec.Result != models.ResultPending || rec.FixtureID == nil {
				continue
			}

			fixture, ok := results[*rec.FixtureID]
			if !ok || fixture.HomeGoal == nil || fixture.AwayGoal == nil {
				continue
			}

			outcome, ok := EvaluatePrediction(rec.Prediction, *fixture.HomeGoal, *fixture.AwayGoal)
			if !ok {
				continue
			}

			score := fmt.Sprintf("%d - %d", *fixture.HomeGoal, *fixture.AwayGoal)
			rec.Result = outcome
			rec.FinalScore = &score
			changed = true
			settled++
		}

		if changed {
			if err := s.db.Model(&sets[i]).Update("records", sets[i].Records).Error; err != nil {
				return settled, fmt.Errorf("failed to update %s/%s: %w", sets[i].Day, sets[i].Category, err)
			}
		}
	}

	if settled > 0 {
		s.logger.Infof("[settlement] %s: settled %d records", day, settled)
	}
	return settled, nil
}

func hasPending(sets []models.PredictionSet) bool {
	for _, set := range sets {
		for _, rec := range set.Records {
			if rec.Result == models.ResultPending && rec.FixtureID != nil {
				return true
			}
		}
	}
	return false
}

// EvaluatePrediction grades a prediction label against a final score.
// Returns (outcome, true) for labels it understands, (_, false) otherwise.
func EvaluatePrediction(label string, homeGoals, awayGoals int) (string, bool) {
	total := homeGoals + awayGoals

	switch label {
	case "Home Win":
		return winLoss(homeGoals > awayGoals), true
	case "Away Win":
		return winLoss(awayGoals > homeGoals), true
	case "Draw":
		return winLoss(homeGoals == awayGoals), true
	case "Double Chance 1X":
		return winLoss(homeGoals >= awayGoals), true
	case "Double Chance X2":
		return winLoss(awayGoals >= homeGoals), true
	case "Double Chance 12":
		return winLoss(homeGoals != awayGoals), true
	case "BTTS":
		return winLoss(homeGoals > 0 && awayGoals > 0), true
	case "BTTS No":
		return winLoss(homeGoals == 0 || awayGoals == 0), true
	}

	if line, ok := parseLine(label, "Over "); ok {
		return winLoss(float64(total) > line), true
	}
	if line, ok := parseLine(label, "Under "); ok {
		return winLoss(float64(total) < line), true
	}

	return "", false
}

func parseLine(label, prefix string) (float64, bool) {
	if !strings.HasPrefix(label, prefix) {
		return 0, false
	}
	line, err := strconv.ParseFloat(strings.TrimPrefix(label, prefix), 64)
	if err != nil {
		return 0, false
	}
	return line, true
}

func winLoss(won bool) string {
	if won {
		return models.ResultWin
	}
	return models.ResultLoss
}

// DaysWithPending returns the days that still have pending records with
// fixture ids, oldest first, for the periodic settlement job.
func (s *SettlementService) DaysWithPending(limit int) ([]string, error) {
	var sets []models.PredictionSet
	if err := s.db.Order("day ASC").Find(&sets).Error; err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var days []string
	for _, set := range sets {
		if seen[set.Day] {
			continue
		}
		for _, rec := range set.Records {
			if rec.Result == models.ResultPending && rec.FixtureID != nil {
				seen[set.Day] = true
				days = append(days, set.Day)
				break
			}
		}
		if limit > 0 && len(days) >= limit {
			break
		}
	}

	return days, nil
}
