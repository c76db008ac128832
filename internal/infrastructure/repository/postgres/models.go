package postgres

import (
	"time"

	"github.com/lib/pq"
)

type teamTableModel struct {
	ID            int64          `db:"id"`
	PublicID      string         `db:"public_id"`
	ContestID     string         `db:"contest_id"`
	MatchID       string         `db:"match_id"`
	OwnerID       string         `db:"owner_id"`
	Name          string         `db:"name"`
	PlayerIDs     pq.StringArray `db:"player_ids"`
	CaptainID     string         `db:"captain_id"`
	ViceCaptainID string         `db:"vice_captain_id"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

type teamInsertModel struct {
	PublicID      string         `db:"public_id"`
	ContestID     string         `db:"contest_id"`
	MatchID       string         `db:"match_id"`
	OwnerID       string         `db:"owner_id"`
	Name          string         `db:"name"`
	PlayerIDs     pq.StringArray `db:"player_ids"`
	CaptainID     string         `db:"captain_id"`
	ViceCaptainID string         `db:"vice_captain_id"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

type teamScoreModel struct {
	MatchID       string    `db:"match_id"`
	TeamID        string    `db:"team_id"`
	ContestID     string    `db:"contest_id"`
	OwnerID       string    `db:"owner_id"`
	TotalPoints   float64   `db:"total_points"`
	Rank          int       `db:"rank"`
	Contributions []byte    `db:"contributions"`
	Warnings      []byte    `db:"warnings"`
	RuleSet       string    `db:"rule_set"`
	RunID         string    `db:"run_id"`
	Provisional   bool      `db:"provisional"`
	CalculatedAt  time.Time `db:"calculated_at"`
}

type scoringRunModel struct {
	PublicID    string         `db:"public_id"`
	MatchID     string         `db:"match_id"`
	RuleSet     string         `db:"rule_set"`
	Provisional bool           `db:"provisional"`
	TeamCount   int            `db:"team_count"`
	PlayerCount int            `db:"player_count"`
	Diagnostics pq.StringArray `db:"diagnostics"`
	StartedAt   time.Time      `db:"started_at"`
	FinishedAt  time.Time      `db:"finished_at"`
}

type prizePoolModel struct {
	ContestID string    `db:"contest_id"`
	MatchID   string    `db:"match_id"`
	Amount    int64     `db:"amount"`
	Currency  string    `db:"currency"`
	UpdatedAt time.Time `db:"updated_at"`
}

type distributionModel struct {
	ContestID   string    `db:"contest_id"`
	MatchID     string    `db:"match_id"`
	RunID       string    `db:"run_id"`
	Pool        int64     `db:"pool"`
	Currency    string    `db:"currency"`
	Allocations []byte    `db:"allocations"`
	Unallocated int64     `db:"unallocated"`
	CreatedAt   time.Time `db:"created_at"`
}
