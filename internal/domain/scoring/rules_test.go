package scoring

import (
	"errors"
	"testing"
)

func TestRules_Validate(t *testing.T) {
	t.Parallel()

	for _, rules := range []Rules{DefaultRules(), ODIRules()} {
		if err := rules.Validate(); err != nil {
			t.Fatalf("built-in rules %s invalid: %v", rules.Version, err)
		}
	}

	tests := []struct {
		name   string
		mutate func(r *Rules)
	}{
		{name: "missing version", mutate: func(r *Rules) { r.Version = "" }},
		{name: "zero team size", mutate: func(r *Rules) { r.TeamSize = 0 }},
		{name: "zero min balls", mutate: func(r *Rules) { r.Batting.StrikeRateMinBalls = 0 }},
		{name: "zero min overs", mutate: func(r *Rules) { r.Bowling.EconomyMinOvers = 0 }},
		{name: "zero captain multiplier", mutate: func(r *Rules) { r.Multipliers.Captain = 0 }},
		{name: "overlapping strike rate bands", mutate: func(r *Rules) {
			r.Batting.StrikeRateBands = []Band{{Bound: 100, Points: 2}, {Bound: 150, Points: 4}}
		}},
		{name: "duplicate haul bound", mutate: func(r *Rules) {
			r.Bowling.Hauls = []Band{{Bound: 3, Points: 4}, {Bound: 3, Points: 2}}
		}},
		{name: "negative economy bound", mutate: func(r *Rules) {
			r.Bowling.EconomyBands = []Band{{Bound: 5, Points: 0}, {Bound: -1, Points: 6}}
		}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rules := DefaultRules()
			tc.mutate(&rules)
			if err := rules.Validate(); !errors.Is(err, ErrInvalidRules) {
				t.Fatalf("expected invalid rules error, got %v", err)
			}
		})
	}
}

func TestMatch_FirstBandWins(t *testing.T) {
	t.Parallel()

	bands := DefaultRules().Bowling.EconomyBands
	cases := map[float64]float64{
		3.25:  6,
		5:     4,
		6.5:   2,
		8:     0,
		10.5:  -2,
		11.99: -4,
		14:    -6,
	}
	for econ, want := range cases {
		band, ok := match(bands, econ)
		if !ok || band.Points != want {
			t.Fatalf("unexpected economy band for %v: got=%v ok=%v want=%v", econ, band.Points, ok, want)
		}
	}

	if _, ok := match(DefaultRules().Bowling.Hauls, 1); ok {
		t.Fatalf("single wicket must not match a haul band")
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()

	got, err := r.Lookup("")
	if err != nil {
		t.Fatalf("lookup fallback: %v", err)
	}
	if got.Version != "t20-v1" {
		t.Fatalf("unexpected fallback version: got=%s want=t20-v1", got.Version)
	}

	odi, err := r.Lookup("odi-v1")
	if err != nil {
		t.Fatalf("lookup odi: %v", err)
	}
	odi.Batting.StrikeRateBands[0].Points = 999
	again, _ := r.Lookup("odi-v1")
	if again.Batting.StrikeRateBands[0].Points == 999 {
		t.Fatalf("registry leaked a mutable band slice")
	}

	if _, err := r.Lookup("t10-v9"); !errors.Is(err, ErrUnknownRuleSet) {
		t.Fatalf("expected unknown rule set error, got %v", err)
	}

	versions := r.Versions()
	if len(versions) != 2 || versions[0] != "odi-v1" || versions[1] != "t20-v1" {
		t.Fatalf("unexpected versions: %v", versions)
	}

	bad := DefaultRules()
	bad.Version = "broken"
	bad.TeamSize = -1
	if err := r.Register(bad); !errors.Is(err, ErrInvalidRules) {
		t.Fatalf("expected register to reject invalid rules, got %v", err)
	}
}
