package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Prediction outcome states for a single record
const (
	ResultPending = "Pending"
	ResultWin     = "Win"
	ResultLoss    = "Loss"
)

// Publication states for a prediction set
const (
	StatusUnpublished = "unpublished"
	StatusPublished   = "published"
)

// PredictionRecord is a single betting pick inside a daily category set.
// Records are stored as an ordered JSON list, not as individual rows.
type PredictionRecord struct {
	Match      string          `json:"match"`
	HomeTeam   string          `json:"home_team"`
	AwayTeam   string          `json:"away_team"`
	League     string          `json:"league"`
	Kickoff    string          `json:"kickoff"`
	Prediction string          `json:"prediction"`
	Odds       decimal.Decimal `json:"odds"`
	Confidence int             `json:"confidence"`
	FixtureID  *int64          `json:"fixture_id,omitempty"`
	Result     string          `json:"result"`
	FinalScore *string         `json:"final_score,omitempty"`
}

// PredictionRecordList is an ordered list of records persisted as one JSONB column.
type PredictionRecordList []PredictionRecord

func (l PredictionRecordList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(PredictionRecordList{})
	}
	return json.Marshal(l)
}

func (l *PredictionRecordList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into PredictionRecordList", value)
	}

	return json.Unmarshal(bytes, l)
}

// PredictionSet is one category bucket of predictions for one calendar day.
// Exactly one set exists per (day, category); regeneration overwrites it.
type PredictionSet struct {
	ID          uint                 `gorm:"primaryKey" json:"id"`
	Day         string               `gorm:"size:10;not null;uniqueIndex:idx_prediction_sets_day_category" json:"day"`
	Category    string               `gorm:"size:50;not null;uniqueIndex:idx_prediction_sets_day_category" json:"category"`
	Records     PredictionRecordList `gorm:"type:jsonb;not null" json:"records"`
	Status      string               `gorm:"size:20;not null;default:unpublished;index" json:"status"`
	GeneratedAt time.Time            `json:"generated_at"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// TableName specifies the table name for PredictionSet model
func (PredictionSet) TableName() string {
	return "prediction_sets"
}

// PredictionDay is the per-date master document. Its Categories map holds
// generation metadata keyed by category and is merged non-destructively,
// since category sets are produced by independent runs.
type PredictionDay struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	Day        string            `gorm:"size:10;not null;uniqueIndex" json:"day"`
	Categories datatypes.JSONMap `gorm:"type:jsonb" json:"categories"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// TableName specifies the table name for PredictionDay model
func (PredictionDay) TableName() string {
	return "prediction_days"
}

// Generation run states
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// GenerationRun is the advisory lock for one (day, ruleset) generation.
// A run must hold the claim token to write; a second run for the same pair
// is rejected while the first is still fresh.
type GenerationRun struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Day        string     `gorm:"size:10;not null;uniqueIndex:idx_generation_runs_day_ruleset" json:"day"`
	Ruleset    string     `gorm:"size:20;not null;uniqueIndex:idx_generation_runs_day_ruleset" json:"ruleset"`
	ClaimToken string     `gorm:"size:36;not null" json:"claim_token"`
	Status     string     `gorm:"size:20;not null;index" json:"status"`
	Error      string     `gorm:"type:text" json:"error,omitempty"`
	ClaimedAt  time.Time  `json:"claimed_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// TableName specifies the table name for GenerationRun model
func (GenerationRun) TableName() string {
	return "generation_runs"
}

// OfficialSlate is the combined multi-category output of one official
// generation call. Field order matches the category ordering shown to users.
type OfficialSlate struct {
	SecureTrial   []PredictionRecord `json:"secure_trial"`
	IndividualVIP []PredictionRecord `json:"individual_vip"`
	DailySingles  []PredictionRecord `json:"daily_singles"`
	BankerBet     []PredictionRecord `json:"banker_bet"`
	ValuePicks    []PredictionRecord `json:"value_picks"`
}

// Total returns the combined number of picks across all categories.
func (s *OfficialSlate) Total() int {
	return len(s.SecureTrial) + len(s.IndividualVIP) + len(s.DailySingles) +
		len(s.BankerBet) + len(s.ValuePicks)
}

// ByCategory returns the slate keyed by category identifier.
func (s *OfficialSlate) ByCategory() map[string][]PredictionRecord {
	return map[string][]PredictionRecord{
		"secure_trial":   s.SecureTrial,
		"individual_vip": s.IndividualVIP,
		"daily_singles":  s.DailySingles,
		"banker_bet":     s.BankerBet,
		"value_picks":    s.ValuePicks,
	}
}

// SpecialSlate is the output of one elite generation call. An empty picks
// list is a valid result when no fixture passes the eligibility gates.
type SpecialSlate struct {
	SpecialPicks []PredictionRecord `json:"special_picks"`
}
