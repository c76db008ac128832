package fantasy

import (
	"errors"
	"fmt"
	"math"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/scoring"
)

var (
	ErrInvalidTeamSize      = errors.New("invalid team size")
	ErrDuplicatePlayer      = errors.New("duplicate player in team")
	ErrMissingCaptain       = errors.New("captain is required")
	ErrMissingViceCaptain   = errors.New("vice-captain is required")
	ErrCaptainNotInTeam     = errors.New("captain is not in team")
	ErrViceCaptainNotInTeam = errors.New("vice-captain is not in team")
	ErrCaptainIsViceCaptain = errors.New("captain and vice-captain must differ")
)

// Validate checks the preconditions for aggregating a team.
func Validate(team Team, size int) error {
	if len(team.PlayerIDs) != size {
		return fmt.Errorf("%w: expected %d, got %d", ErrInvalidTeamSize, size, len(team.PlayerIDs))
	}
	if team.CaptainID == "" {
		return ErrMissingCaptain
	}
	if team.ViceCaptainID == "" {
		return ErrMissingViceCaptain
	}
	if team.CaptainID == team.ViceCaptainID {
		return fmt.Errorf("%w: %s", ErrCaptainIsViceCaptain, team.CaptainID)
	}

	playerSet := make(map[string]struct{}, len(team.PlayerIDs))
	for _, playerID := range team.PlayerIDs {
		if playerID == "" {
			return fmt.Errorf("player id is required")
		}
		if _, exists := playerSet[playerID]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicatePlayer, playerID)
		}
		playerSet[playerID] = struct{}{}
	}

	if _, ok := playerSet[team.CaptainID]; !ok {
		return fmt.Errorf("%w: %s", ErrCaptainNotInTeam, team.CaptainID)
	}
	if _, ok := playerSet[team.ViceCaptainID]; !ok {
		return fmt.Errorf("%w: %s", ErrViceCaptainNotInTeam, team.ViceCaptainID)
	}
	return nil
}

// Aggregate sums the breakdowns of every picked player. Captain and
// vice-captain points replace the base contribution with the multiplied
// value. Players absent from breakdowns add zero and a warning. Only the
// team total is rounded, to one decimal.
func Aggregate(team Team, breakdowns map[string]scoring.Breakdown, rules scoring.Rules) (ScoreResult, error) {
	if err := Validate(team, rules.TeamSize); err != nil {
		return ScoreResult{}, fmt.Errorf("team %s: %w", team.ID, err)
	}

	result := ScoreResult{
		TeamID:        team.ID,
		ContestID:     team.ContestID,
		MatchID:       team.MatchID,
		OwnerID:       team.OwnerID,
		Contributions: make([]Contribution, 0, len(team.PlayerIDs)),
	}

	var total float64
	for _, playerID := range team.PlayerIDs {
		role := team.RoleOf(playerID)
		c := Contribution{PlayerID: playerID, Role: role, Multiplier: multiplierFor(role, rules.Multipliers)}

		b, ok := breakdowns[playerID]
		if !ok {
			result.Warnings = append(result.Warnings, Warning{PlayerID: playerID, Reason: "not found"})
		} else {
			c.Found = true
			c.BasePoints = b.Total
			c.Points = b.Total * c.Multiplier
		}

		total += c.Points
		result.Contributions = append(result.Contributions, c)
	}

	result.TotalPoints = RoundPoints(total)
	return result, nil
}

func multiplierFor(role Role, m scoring.Multipliers) float64 {
	switch role {
	case RoleCaptain:
		return m.Captain
	case RoleViceCaptain:
		return m.ViceCaptain
	}
	return 1
}

// RoundPoints rounds to one decimal place, half away from zero.
func RoundPoints(v float64) float64 {
	return math.Round(v*10) / 10
}
