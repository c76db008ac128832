package scoring

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrInvalidRules   = errors.New("invalid scoring rules")
	ErrUnknownRuleSet = errors.New("unknown scoring rule set")
)

// Band awards Points when a value is at least Bound. Band lists are
// ordered by descending Bound and the first match wins.
type Band struct {
	Bound  float64 `json:"bound"`
	Points float64 `json:"points"`
}

type BattingRules struct {
	Run                float64 `json:"run"`
	Boundary           float64 `json:"boundary"`
	Six                float64 `json:"six"`
	HalfCentury        float64 `json:"halfCentury"`
	Century            float64 `json:"century"`
	Duck               float64 `json:"duck"`
	StrikeRateMinBalls int     `json:"strikeRateMinBalls"`
	StrikeRateBands    []Band  `json:"strikeRateBands"`
}

type BowlingRules struct {
	Wicket          float64 `json:"wicket"`
	Maiden          float64 `json:"maiden"`
	LBWBowled       float64 `json:"lbwBowled"`
	Hauls           []Band  `json:"hauls"`
	EconomyMinOvers int     `json:"economyMinOvers"`
	EconomyBands    []Band  `json:"economyBands"`
}

type FieldingRules struct {
	Catch          float64 `json:"catch"`
	Stumping       float64 `json:"stumping"`
	DirectRunOut   float64 `json:"directRunOut"`
	IndirectRunOut float64 `json:"indirectRunOut"`
}

type Multipliers struct {
	Captain     float64 `json:"captain"`
	ViceCaptain float64 `json:"viceCaptain"`
}

// Rules is one versioned point table. Callers pass it by value into every
// scoring call so several versions can be in use at once.
type Rules struct {
	Version     string        `json:"version"`
	TeamSize    int           `json:"teamSize"`
	Batting     BattingRules  `json:"batting"`
	Bowling     BowlingRules  `json:"bowling"`
	Fielding    FieldingRules `json:"fielding"`
	Multipliers Multipliers   `json:"multipliers"`
}

const (
	HalfCenturyRuns = 50
	CenturyRuns     = 100
)

// DefaultRules is the authoritative T20 table.
func DefaultRules() Rules {
	return Rules{
		Version:  "t20-v1",
		TeamSize: 11,
		Batting: BattingRules{
			Run:                1,
			Boundary:           1,
			Six:                2,
			HalfCentury:        20,
			Century:            50,
			Duck:               -2,
			StrikeRateMinBalls: 10,
			StrikeRateBands: []Band{
				{Bound: 170, Points: 6},
				{Bound: 150, Points: 4},
				{Bound: 130, Points: 2},
				{Bound: 70, Points: 0},
				{Bound: 60, Points: -2},
				{Bound: 50, Points: -4},
				{Bound: 0, Points: -6},
			},
		},
		Bowling: BowlingRules{
			Wicket:    25,
			Maiden:    12,
			LBWBowled: 8,
			Hauls: []Band{
				{Bound: 5, Points: 16},
				{Bound: 4, Points: 8},
				{Bound: 3, Points: 4},
				{Bound: 2, Points: 2},
			},
			EconomyMinOvers: 2,
			EconomyBands: []Band{
				{Bound: 12, Points: -6},
				{Bound: 11, Points: -4},
				{Bound: 10, Points: -2},
				{Bound: 7, Points: 0},
				{Bound: 6, Points: 2},
				{Bound: 5, Points: 4},
				{Bound: 0, Points: 6},
			},
		},
		Fielding: FieldingRules{
			Catch:          8,
			Stumping:       12,
			DirectRunOut:   12,
			IndirectRunOut: 6,
		},
		Multipliers: Multipliers{
			Captain:     2,
			ViceCaptain: 1.5,
		},
	}
}

// ODIRules shares the point values of the T20 table but moves the strike
// rate and economy bands to one-day norms.
func ODIRules() Rules {
	r := DefaultRules()
	r.Version = "odi-v1"
	r.Batting.StrikeRateMinBalls = 20
	r.Batting.StrikeRateBands = []Band{
		{Bound: 140, Points: 6},
		{Bound: 120, Points: 4},
		{Bound: 100, Points: 2},
		{Bound: 50, Points: 0},
		{Bound: 40, Points: -2},
		{Bound: 30, Points: -4},
		{Bound: 0, Points: -6},
	}
	r.Bowling.Maiden = 4
	r.Bowling.EconomyMinOvers = 5
	r.Bowling.EconomyBands = []Band{
		{Bound: 9, Points: -6},
		{Bound: 8, Points: -4},
		{Bound: 7, Points: -2},
		{Bound: 4.5, Points: 0},
		{Bound: 3.5, Points: 2},
		{Bound: 2.5, Points: 4},
		{Bound: 0, Points: 6},
	}
	return r
}

func (r Rules) Validate() error {
	if r.Version == "" {
		return fmt.Errorf("%w: version is required", ErrInvalidRules)
	}
	if r.TeamSize <= 0 {
		return fmt.Errorf("%w: team size must be > 0", ErrInvalidRules)
	}
	if r.Batting.StrikeRateMinBalls <= 0 {
		return fmt.Errorf("%w: strike rate min balls must be > 0", ErrInvalidRules)
	}
	if r.Bowling.EconomyMinOvers <= 0 {
		return fmt.Errorf("%w: economy min overs must be > 0", ErrInvalidRules)
	}
	if r.Multipliers.Captain <= 0 || r.Multipliers.ViceCaptain <= 0 {
		return fmt.Errorf("%w: multipliers must be > 0", ErrInvalidRules)
	}
	for _, set := range []struct {
		name  string
		bands []Band
	}{
		{name: "strike rate", bands: r.Batting.StrikeRateBands},
		{name: "economy", bands: r.Bowling.EconomyBands},
		{name: "wicket haul", bands: r.Bowling.Hauls},
	} {
		if err := validateBands(set.bands); err != nil {
			return fmt.Errorf("%w: %s bands: %v", ErrInvalidRules, set.name, err)
		}
	}
	return nil
}

// Clone returns a copy that shares no band slices with r.
func (r Rules) Clone() Rules {
	r.Batting.StrikeRateBands = slices.Clone(r.Batting.StrikeRateBands)
	r.Bowling.Hauls = slices.Clone(r.Bowling.Hauls)
	r.Bowling.EconomyBands = slices.Clone(r.Bowling.EconomyBands)
	return r
}

func validateBands(bands []Band) error {
	for i := 1; i < len(bands); i++ {
		if bands[i].Bound >= bands[i-1].Bound {
			return fmt.Errorf("bound %v must be below %v", bands[i].Bound, bands[i-1].Bound)
		}
	}
	if len(bands) > 0 && bands[len(bands)-1].Bound < 0 {
		return fmt.Errorf("bound %v must not be negative", bands[len(bands)-1].Bound)
	}
	return nil
}

// match returns the first band whose bound is at most v.
func match(bands []Band, v float64) (Band, bool) {
	for _, b := range bands {
		if v >= b.Bound {
			return b, true
		}
	}
	return Band{}, false
}
