package scorecard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxInnings is the number of innings a limited-overs match can carry.
const MaxInnings = 2

var (
	ErrInvalidScorecard = errors.New("invalid scorecard")
	ErrIncomplete       = errors.New("scorecard is not complete")
	ErrNotFound         = errors.New("scorecard not found")
)

// Scorecard is the raw, feed-shaped record of one match.
type Scorecard struct {
	MatchID   string
	Format    string
	Completed bool
	Innings   []Innings
}

type Innings struct {
	Number       int
	BattingTeam  string
	FieldingTeam string
	Batting      []BattingLine
	Bowling      []BowlingLine
}

// BattingLine is one batter's row as published by the feed.
// StrikeRateText keeps whatever the feed sent and may be empty.
type BattingLine struct {
	PlayerID       string
	Name           string
	Alias          string
	Runs           int
	Balls          int
	Fours          int
	Sixes          int
	StrikeRateText string
	Dismissal      string
}

// BowlingLine is one bowler's row. OversNotation uses cricket notation
// where the fractional digit counts balls.
type BowlingLine struct {
	PlayerID      string
	Name          string
	Alias         string
	OversNotation float64
	Maidens       int
	RunsConceded  int
	Wickets       int
	EconomyText   string
}

func (s Scorecard) Validate() error {
	if strings.TrimSpace(s.MatchID) == "" {
		return fmt.Errorf("%w: match id is required", ErrInvalidScorecard)
	}
	if len(s.Innings) == 0 || len(s.Innings) > MaxInnings {
		return fmt.Errorf("%w: expected 1..%d innings, got %d", ErrInvalidScorecard, MaxInnings, len(s.Innings))
	}
	for i, inn := range s.Innings {
		for j, line := range inn.Batting {
			if line.Key() == "" {
				return fmt.Errorf("%w: innings %d batting line %d has no player id or name", ErrInvalidScorecard, i+1, j+1)
			}
		}
		for j, line := range inn.Bowling {
			if line.Key() == "" {
				return fmt.Errorf("%w: innings %d bowling line %d has no player id or name", ErrInvalidScorecard, i+1, j+1)
			}
		}
	}
	return nil
}

// FieldingTeamOf returns the fielding side of innings i, falling back to the
// batting side of the other innings when the feed left it blank.
func (s Scorecard) FieldingTeamOf(i int) string {
	if i < 0 || i >= len(s.Innings) {
		return ""
	}
	if team := strings.TrimSpace(s.Innings[i].FieldingTeam); team != "" {
		return team
	}
	for j, inn := range s.Innings {
		if j != i && inn.BattingTeam != "" && inn.BattingTeam != s.Innings[i].BattingTeam {
			return inn.BattingTeam
		}
	}
	return ""
}

// Key identifies the player a line belongs to.
func (l BattingLine) Key() string { return PlayerKey(l.PlayerID, l.Name) }

func (l BowlingLine) Key() string { return PlayerKey(l.PlayerID, l.Name) }

// DidBat reports whether the row describes an actual innings rather than a
// "did not bat" placeholder.
func (l BattingLine) DidBat() bool {
	switch strings.ToLower(strings.TrimSpace(l.Dismissal)) {
	case "dnb", "did not bat", "yet to bat":
		return false
	}
	return true
}

// FeedStrikeRate is the feed's own strike rate, if it sent a readable one.
// Scoring never uses it; runs and balls are authoritative.
func (l BattingLine) FeedStrikeRate() (float64, bool) {
	return parseDecimal(l.StrikeRateText)
}

// EffectiveEconomy derives runs per over from the overs notation, falling
// back to the feed's value when overs are zero or malformed.
func (l BowlingLine) EffectiveEconomy() (float64, bool) {
	overs, err := ParseOvers(l.OversNotation)
	if err == nil && overs.Balls() > 0 {
		return float64(l.RunsConceded) / overs.Decimal(), true
	}
	return parseDecimal(l.EconomyText)
}

// PlayerKey prefers the feed id and falls back to a normalised name.
func PlayerKey(id, name string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	name = strings.ToLower(strings.Join(strings.Fields(name), " "))
	if name == "" {
		return ""
	}
	return "name:" + name
}

func parseDecimal(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "-" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
