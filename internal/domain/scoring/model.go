package scoring

import "time"

type Category string

const (
	CategoryBatting  Category = "batting"
	CategoryBowling  Category = "bowling"
	CategoryFielding Category = "fielding"
)

// Item is one line of a points breakdown, e.g. "6 x six bonus = 12".
type Item struct {
	Category Category `json:"category"`
	Reason   string   `json:"reason"`
	Quantity float64  `json:"quantity"`
	Points   float64  `json:"points"`
}

// Breakdown is the per-player result of applying one rule table to one
// performance record.
type Breakdown struct {
	PlayerID string  `json:"playerId"`
	Name     string  `json:"name"`
	RuleSet  string  `json:"ruleSet"`
	Batting  float64 `json:"batting"`
	Bowling  float64 `json:"bowling"`
	Fielding float64 `json:"fielding"`
	Total    float64 `json:"total"`
	Items    []Item  `json:"items"`
}

// Run is the audit row written for every finalised scoring pass.
type Run struct {
	ID          string
	MatchID     string
	RuleSet     string
	Provisional bool
	TeamCount   int
	PlayerCount int
	Diagnostics []string
	StartedAt   time.Time
	FinishedAt  time.Time
}
