package models

import (
	"time"
)

// Fixture is one scheduled match, flattened from the sports-data API
// response. Fixtures are fetched fresh per generation run and never
// persisted on their own.
type Fixture struct {
	ID       int64     `json:"id"`
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`
	League   string    `json:"league"`
	Country  string    `json:"country"`
	Kickoff  time.Time `json:"kickoff"`
	Venue    string    `json:"venue"`
	Status   string    `json:"status"`
	HomeGoal *int      `json:"home_goals,omitempty"`
	AwayGoal *int      `json:"away_goals,omitempty"`
}

// Finished reports whether the fixture has a settled final result.
func (f *Fixture) Finished() bool {
	return f.Status == "FT" || f.Status == "AET" || f.Status == "PEN"
}
