package fantasy

import (
	"fmt"
	"time"
)

type Role string

const (
	RolePlayer      Role = "player"
	RoleCaptain     Role = "captain"
	RoleViceCaptain Role = "vice_captain"
)

// Team is a user's pick of players for one contest on one match.
type Team struct {
	ID            string
	ContestID     string
	MatchID       string
	OwnerID       string
	Name          string
	PlayerIDs     []string
	CaptainID     string
	ViceCaptainID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (t Team) RoleOf(playerID string) Role {
	switch playerID {
	case t.CaptainID:
		return RoleCaptain
	case t.ViceCaptainID:
		return RoleViceCaptain
	}
	return RolePlayer
}

func (t Team) ValidateBasic() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.MatchID == "" {
		return fmt.Errorf("match id is required")
	}
	if t.ContestID == "" {
		return fmt.Errorf("contest id is required")
	}
	return nil
}

// Contribution is what one picked player adds to a team total.
type Contribution struct {
	PlayerID   string  `json:"playerId"`
	Role       Role    `json:"role"`
	BasePoints float64 `json:"basePoints"`
	Multiplier float64 `json:"multiplier"`
	Points     float64 `json:"points"`
	Found      bool    `json:"found"`
}

type Warning struct {
	PlayerID string `json:"playerId"`
	Reason   string `json:"reason"`
}

// ScoreResult is a team's total for one match. Rank is zero until the
// contest has been ranked.
type ScoreResult struct {
	TeamID        string
	ContestID     string
	MatchID       string
	OwnerID       string
	TotalPoints   float64
	Contributions []Contribution
	Warnings      []Warning
	Rank          int
}

// Score is the persisted form of a ScoreResult.
type Score struct {
	ScoreResult
	RuleSet      string
	RunID        string
	Provisional  bool
	CalculatedAt time.Time
}
