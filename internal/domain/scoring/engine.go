package scoring

import (
	"fmt"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/performance"
)

// Score applies rules to one performance record. It has no side effects and
// returns the same breakdown for the same inputs.
func Score(rec performance.Record, rules Rules) Breakdown {
	b := &breakdown{Breakdown: Breakdown{
		PlayerID: rec.PlayerID,
		Name:     rec.Name,
		RuleSet:  rules.Version,
	}}

	if rec.HasBatting {
		b.batting(rec.Batting, rules.Batting)
	}
	if rec.HasBowling {
		b.bowling(rec.Bowling, rules.Bowling)
	}
	b.fielding(rec.Fielding, rules.Fielding)

	b.Total = b.Batting + b.Bowling + b.Fielding
	if b.Items == nil {
		b.Items = []Item{}
	}
	return b.Breakdown
}

type breakdown struct {
	Breakdown
}

func (b *breakdown) add(category Category, reason string, quantity, points float64) {
	if points == 0 {
		return
	}
	b.Items = append(b.Items, Item{Category: category, Reason: reason, Quantity: quantity, Points: points})
	switch category {
	case CategoryBatting:
		b.Batting += points
	case CategoryBowling:
		b.Bowling += points
	case CategoryFielding:
		b.Fielding += points
	}
}

func (b *breakdown) batting(f performance.BattingFacts, r BattingRules) {
	b.add(CategoryBatting, "runs", float64(f.Runs), float64(f.Runs)*r.Run)
	b.add(CategoryBatting, "boundary bonus", float64(f.Fours), float64(f.Fours)*r.Boundary)
	b.add(CategoryBatting, "six bonus", float64(f.Sixes), float64(f.Sixes)*r.Six)

	switch {
	case f.Runs >= CenturyRuns:
		b.add(CategoryBatting, "century", 1, r.Century)
	case f.Runs >= HalfCenturyRuns:
		b.add(CategoryBatting, "half-century", 1, r.HalfCentury)
	}

	if f.Runs == 0 && f.Dismissed {
		b.add(CategoryBatting, "duck", 1, r.Duck)
	}

	if f.Balls >= r.StrikeRateMinBalls {
		if sr, ok := f.StrikeRate(); ok {
			if band, ok := match(r.StrikeRateBands, sr); ok {
				b.add(CategoryBatting, fmt.Sprintf("strike rate %.2f (band >= %g)", sr, band.Bound), sr, band.Points)
			}
		}
	}
}

func (b *breakdown) bowling(f performance.BowlingFacts, r BowlingRules) {
	b.add(CategoryBowling, "wickets", float64(f.Wickets), float64(f.Wickets)*r.Wicket)
	b.add(CategoryBowling, "maidens", float64(f.Maidens), float64(f.Maidens)*r.Maiden)
	b.add(CategoryBowling, "lbw/bowled bonus", float64(f.LBWBowled), float64(f.LBWBowled)*r.LBWBowled)

	if band, ok := match(r.Hauls, float64(f.Wickets)); ok {
		b.add(CategoryBowling, fmt.Sprintf("%g-wicket haul", band.Bound), float64(f.Wickets), band.Points)
	}

	if f.Balls >= r.EconomyMinOvers*6 {
		if econ, ok := f.Economy(); ok {
			if band, ok := match(r.EconomyBands, econ); ok {
				b.add(CategoryBowling, fmt.Sprintf("economy %.2f (band >= %g)", econ, band.Bound), econ, band.Points)
			}
		}
	}
}

func (b *breakdown) fielding(f performance.FieldingFacts, r FieldingRules) {
	b.add(CategoryFielding, "catches", float64(f.Catches), float64(f.Catches)*r.Catch)
	b.add(CategoryFielding, "stumpings", float64(f.Stumpings), float64(f.Stumpings)*r.Stumping)
	b.add(CategoryFielding, "direct run-outs", float64(f.DirectRunOuts), float64(f.DirectRunOuts)*r.DirectRunOut)
	b.add(CategoryFielding, "indirect run-outs", float64(f.IndirectRunOuts), float64(f.IndirectRunOuts)*r.IndirectRunOut)
}
