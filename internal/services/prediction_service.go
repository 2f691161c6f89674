package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fbw-backend/internal/models"
	"fbw-backend/internal/pipeline"
	"fbw-backend/internal/sportsdata"
)

// ErrRunInProgress is returned when another generation run already holds
// the claim for the same (day, ruleset).
var ErrRunInProgress = errors.New("a generation run for this day and ruleset is already in progress")

// A running claim older than this is considered abandoned and may be taken
// over by a new run.
const runStaleAfter = 15 * time.Minute

// Prompt size stays bounded by capping how many fixtures one run considers.
const maxFixturesPerRun = 150

// FixtureSource supplies normalized fixtures for a calendar date.
type FixtureSource interface {
	FixturesByDate(ctx context.Context, date string, filter sportsdata.FixtureFilter) ([]models.Fixture, error)
}

// SlateGenerator produces prediction slates from a fixture list.
type SlateGenerator interface {
	OfficialSlate(ctx context.Context, fixtures []models.Fixture) (*models.OfficialSlate, error)
	SpecialSlate(ctx context.Context, fixtures []models.Fixture) (*models.SpecialSlate, error)
}

// RunSummary reports the outcome of one generation run.
type RunSummary struct {
	Day         string         `json:"day"`
	Ruleset     string         `json:"ruleset"`
	Counts      map[string]int `json:"counts"`
	Total       int            `json:"total"`
	Warning     string         `json:"warning,omitempty"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// PredictionService drives the generation pipeline: claim the run lock,
// fetch fixtures, generate, validate, persist. Steps are strictly
// sequential; all categories of one official run land in one transaction.
type PredictionService struct {
	db        *gorm.DB
	fixtures  FixtureSource
	generator SlateGenerator
	logger    *logrus.Logger
}

// NewPredictionService creates a new PredictionService
func NewPredictionService(db *gorm.DB, fixtures FixtureSource, generator SlateGenerator, logger *logrus.Logger) *PredictionService {
	return &PredictionService{
		db:        db,
		fixtures:  fixtures,
		generator: generator,
		logger:    logger,
	}
}

// upcomingFilter keeps fixtures that have not kicked off yet.
func upcomingFilter() sportsdata.FixtureFilter {
	return sportsdata.FixtureFilter{
		Predicate: func(f models.Fixture) bool { return f.Status == "NS" },
		MaxCount:  maxFixturesPerRun,
	}
}

// RunOfficial executes one official (high-volume) generation run for a day.
// An empty fixture list is fatal for this ruleset: fifty picks cannot come
// from nothing.
func (s *PredictionService) RunOfficial(ctx context.Context, day string) (*RunSummary, error) {
	run, err := s.claimRun(day, pipeline.RulesetOfficial)
	if err != nil {
		return nil, err
	}

	summary, err := s.runOfficial(ctx, day)
	if err != nil {
		s.releaseRun(run, models.RunStatusFailed, err.Error())
		return nil, err
	}

	s.releaseRun(run, models.RunStatusCompleted, "")
	return summary, nil
}

func (s *PredictionService) runOfficial(ctx context.Context, day string) (*RunSummary, error) {
	fixtures, err := s.fixtures.FixturesByDate(ctx, day, upcomingFilter())
	if err != nil {
		return nil, err
	}

	if len(fixtures) == 0 {
		return nil, &pipeline.ValidationError{Reason: fmt.Sprintf("no fixtures scheduled for %s", day)}
	}

	s.logger.Infof("[official] %s: generating from %d fixtures", day, len(fixtures))

	slate, err := s.generator.OfficialSlate(ctx, fixtures)
	if err != nil {
		return nil, err
	}

	if err := pipeline.ValidateOfficial(slate); err != nil {
		return nil, err
	}

	report := pipeline.CountOfficial(slate)
	summary := &RunSummary{
		Day:     day,
		Ruleset: pipeline.RulesetOfficial,
		Counts:  report.PerCategory,
		Total:   report.Total,
	}
	if !report.InTolerance() {
		summary.Warning = fmt.Sprintf("total picks %d outside tolerance band %d-%d (target %d)",
			report.Total, pipeline.OfficialToleranceMin, pipeline.OfficialToleranceMax, pipeline.OfficialTarget)
		s.logger.Warnf("[official] %s: %s", day, summary.Warning)
	}

	generatedAt, err := s.persistSlate(day, slate.ByCategory())
	if err != nil {
		return nil, err
	}
	summary.GeneratedAt = generatedAt

	s.logger.Infof("[official] %s: persisted %d picks across %d categories",
		day, report.Total, len(report.PerCategory))
	return summary, nil
}

// RunSpecial executes one elite generation run for a day. With no fixtures
// the run short-circuits with an empty result; the generator is never
// called and nothing is written.
func (s *PredictionService) RunSpecial(ctx context.Context, day string) (*RunSummary, error) {
	run, err := s.claimRun(day, pipeline.RulesetSpecial)
	if err != nil {
		return nil, err
	}

	summary, err := s.runSpecial(ctx, day)
	if err != nil {
		s.releaseRun(run, models.RunStatusFailed, err.Error())
		return nil, err
	}

	s.releaseRun(run, models.RunStatusCompleted, "")
	return summary, nil
}

func (s *PredictionService) runSpecial(ctx context.Context, day string) (*RunSummary, error) {
	fixtures, err := s.fixtures.FixturesByDate(ctx, day, upcomingFilter())
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{
		Day:     day,
		Ruleset: pipeline.RulesetSpecial,
		Counts:  map[string]int{pipeline.CategorySpecial: 0},
	}

	if len(fixtures) == 0 {
		s.logger.Infof("[special] %s: no fixtures, skipping generation", day)
		return summary, nil
	}

	s.logger.Infof("[special] %s: generating from %d fixtures", day, len(fixtures))

	slate, err := s.generator.SpecialSlate(ctx, fixtures)
	if err != nil {
		return nil, err
	}

	if err := pipeline.ValidateSpecial(slate); err != nil {
		return nil, err
	}

	summary.Counts[pipeline.CategorySpecial] = len(slate.SpecialPicks)
	summary.Total = len(slate.SpecialPicks)
	if summary.Total < pipeline.SpecialMinPicks {
		s.logger.Infof("[special] %s: only %d fixtures passed the eligibility gates", day, summary.Total)
	}

	generatedAt, err := s.persistSlate(day, map[string][]models.PredictionRecord{
		pipeline.CategorySpecial: slate.SpecialPicks,
	})
	if err != nil {
		return nil, err
	}
	summary.GeneratedAt = generatedAt

	s.logger.Infof("[special] %s: persisted %d picks", day, summary.Total)
	return summary, nil
}

// persistSlate writes every category set plus the day master document in a
// single transaction, so a multi-category run can never be half-written.
// Regeneration overwrites the existing set for each (day, category) pair;
// the master's category map is merged, never replaced.
func (s *PredictionService) persistSlate(day string, byCategory map[string][]models.PredictionRecord) (time.Time, error) {
	var generatedAt time.Time

	err := s.db.Transaction(func(tx *gorm.DB) error {
		generatedAt = serverNow(tx)

		for category, records := range byCategory {
			set := models.PredictionSet{
				Day:         day,
				Category:    category,
				Records:     models.PredictionRecordList(pipeline.NormalizeRecords(records)),
				Status:      models.StatusUnpublished,
				GeneratedAt: generatedAt,
			}

			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "day"}, {Name: "category"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"records", "status", "generated_at", "updated_at",
				}),
			}).Create(&set).Error; err != nil {
				return fmt.Errorf("failed to write %s set: %w", category, err)
			}
		}

		return mergeDayMaster(tx, day, byCategory, generatedAt)
	})
	if err != nil {
		return time.Time{}, err
	}

	return generatedAt, nil
}

// mergeDayMaster updates the per-date master document with metadata for the
// categories just written, leaving other categories' entries intact.
func mergeDayMaster(tx *gorm.DB, day string, byCategory map[string][]models.PredictionRecord, generatedAt time.Time) error {
	var master models.PredictionDay
	err := tx.Where("day = ?", day).First(&master).Error
	if err == gorm.ErrRecordNotFound {
		master = models.PredictionDay{Day: day, Categories: datatypes.JSONMap{}}
	} else if err != nil {
		return err
	}

	if master.Categories == nil {
		master.Categories = datatypes.JSONMap{}
	}
	for category, records := range byCategory {
		master.Categories[category] = map[string]interface{}{
			"generated_at": generatedAt.UTC().Format(time.RFC3339),
			"count":        len(records),
		}
	}

	if master.ID == 0 {
		return tx.Create(&master).Error
	}
	return tx.Model(&master).Update("categories", master.Categories).Error
}

// serverNow returns the database clock so generated_at does not depend on
// the generation process's own clock.
func serverNow(tx *gorm.DB) time.Time {
	var now time.Time
	if err := tx.Raw("SELECT CURRENT_TIMESTAMP").Scan(&now).Error; err != nil || now.IsZero() {
		return time.Now().UTC()
	}
	return now
}

// claimRun takes the advisory lock for one (day, ruleset). The claim token
// is swapped with a conditional update, so two concurrent callers cannot
// both take over a stale run.
func (s *PredictionService) claimRun(day, ruleset string) (*models.GenerationRun, error) {
	token := uuid.NewString()
	var claimed models.GenerationRun

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var run models.GenerationRun
		err := tx.Where("day = ? AND ruleset = ?", day, ruleset).First(&run).Error

		if err == gorm.ErrRecordNotFound {
			run = models.GenerationRun{
				Day:        day,
				Ruleset:    ruleset,
				ClaimToken: token,
				Status:     models.RunStatusRunning,
				ClaimedAt:  time.Now(),
			}
			if createErr := tx.Create(&run).Error; createErr != nil {
				// Unique index hit: another run created the row first.
				return ErrRunInProgress
			}
			claimed = run
			return nil
		} else if err != nil {
			return err
		}

		if run.Status == models.RunStatusRunning && time.Since(run.ClaimedAt) < runStaleAfter {
			return ErrRunInProgress
		}

		result := tx.Model(&models.GenerationRun{}).
			Where("id = ? AND claim_token = ?", run.ID, run.ClaimToken).
			Updates(map[string]interface{}{
				"claim_token": token,
				"status":      models.RunStatusRunning,
				"error":       "",
				"claimed_at":  time.Now(),
				"finished_at": nil,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRunInProgress
		}

		run.ClaimToken = token
		run.Status = models.RunStatusRunning
		claimed = run
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &claimed, nil
}

// releaseRun records the run outcome, guarded by the claim token.
func (s *PredictionService) releaseRun(run *models.GenerationRun, status, errMsg string) {
	now := time.Now()
	result := s.db.Model(&models.GenerationRun{}).
		Where("id = ? AND claim_token = ?", run.ID, run.ClaimToken).
		Updates(map[string]interface{}{
			"status":      status,
			"error":       errMsg,
			"finished_at": now,
		})
	if result.Error != nil {
		s.logger.Errorf("failed to release run %s/%s: %v", run.Day, run.Ruleset, result.Error)
	}
}

// GetDaySets returns the sets stored for a day, regardless of status.
func (s *PredictionService) GetDaySets(day string) ([]models.PredictionSet, error) {
	var sets []models.PredictionSet
	if err := s.db.Where("day = ?", day).Order("category").Find(&sets).Error; err != nil {
		return nil, err
	}
	return sets, nil
}

// GetPublishedSet returns one published set, or gorm.ErrRecordNotFound.
func (s *PredictionService) GetPublishedSet(day, category string) (*models.PredictionSet, error) {
	var set models.PredictionSet
	err := s.db.Where("day = ? AND category = ? AND status = ?",
		day, category, models.StatusPublished).First(&set).Error
	if err != nil {
		return nil, err
	}
	return &set, nil
}
