package performance

import (
	"github.com/riskibarqy/cricket-fantasy/internal/domain/dismissal"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scorecard"
)

// Record is one player's normalised contribution to a match. It is built
// once by Extract and treated as read-only afterwards.
type Record struct {
	PlayerID   string
	Name       string
	HasBatting bool
	Batting    BattingFacts
	HasBowling bool
	Bowling    BowlingFacts
	Fielding   FieldingFacts
}

type BattingFacts struct {
	Runs      int
	Balls     int
	Fours     int
	Sixes     int
	Dismissed bool
	Dismissal dismissal.Kind
}

// StrikeRate is runs per 100 balls; false when no balls were faced.
func (b BattingFacts) StrikeRate() (float64, bool) {
	if b.Balls <= 0 {
		return 0, false
	}
	return float64(b.Runs) * 100 / float64(b.Balls), true
}

type BowlingFacts struct {
	Balls        int
	Maidens      int
	RunsConceded int
	Wickets      int
	// LBWBowled counts wickets taken bowled or leg before.
	LBWBowled int
	// FeedEconomy is used only when the overs could not be read.
	FeedEconomy    float64
	HasFeedEconomy bool
}

func (b BowlingFacts) Overs() scorecard.Overs {
	return scorecard.OversFromBalls(b.Balls)
}

// Economy is runs per over; false when nothing was bowled.
func (b BowlingFacts) Economy() (float64, bool) {
	if b.Balls > 0 {
		return float64(b.RunsConceded) / b.Overs().Decimal(), true
	}
	if b.HasFeedEconomy {
		return b.FeedEconomy, true
	}
	return 0, false
}

type FieldingFacts struct {
	Catches         int
	Stumpings       int
	DirectRunOuts   int
	IndirectRunOuts int
}

func (r Record) mergeBatting(b BattingFacts) Record {
	if !r.HasBatting {
		r.HasBatting = true
		r.Batting = b
		return r
	}
	r.Batting.Runs += b.Runs
	r.Batting.Balls += b.Balls
	r.Batting.Fours += b.Fours
	r.Batting.Sixes += b.Sixes
	if b.Dismissed {
		r.Batting.Dismissed = true
		r.Batting.Dismissal = b.Dismissal
	}
	return r
}

func (r Record) mergeBowling(b BowlingFacts) Record {
	if !r.HasBowling {
		r.HasBowling = true
		r.Bowling = b
		return r
	}
	r.Bowling.Balls += b.Balls
	r.Bowling.Maidens += b.Maidens
	r.Bowling.RunsConceded += b.RunsConceded
	r.Bowling.Wickets += b.Wickets
	if !r.Bowling.HasFeedEconomy && b.HasFeedEconomy {
		r.Bowling.FeedEconomy = b.FeedEconomy
		r.Bowling.HasFeedEconomy = true
	}
	return r
}
