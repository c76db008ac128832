package performance

import (
	"fmt"
	"math"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/dismissal"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scorecard"
)

type DiagnosticCode string

const (
	DiagnosticUnresolvedFielder  DiagnosticCode = "unresolved_fielder"
	DiagnosticUnresolvedBowler   DiagnosticCode = "unresolved_bowler"
	DiagnosticMalformedDismissal DiagnosticCode = "malformed_dismissal"
	DiagnosticUnknownDismissal   DiagnosticCode = "unknown_dismissal"
	DiagnosticMalformedOvers     DiagnosticCode = "malformed_overs"
	DiagnosticAnonymousLine      DiagnosticCode = "anonymous_line"
	DiagnosticStrikeRateMismatch DiagnosticCode = "strike_rate_mismatch"
)

// strikeRateTolerance absorbs the feed rounding its strike rate to two places.
const strikeRateTolerance = 0.5

// Diagnostic describes input the extractor could not fully use. The
// affected record is still produced from whatever fields were readable.
type Diagnostic struct {
	Code     DiagnosticCode
	Innings  int
	PlayerID string
	Detail   string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s innings=%d player=%s: %s", d.Code, d.Innings, d.PlayerID, d.Detail)
}

// Extraction is the full output of one pass over a scorecard. Order lists
// player keys by first appearance.
type Extraction struct {
	MatchID     string
	Records     map[string]Record
	Order       []string
	Diagnostics []Diagnostic
}

// Ordered returns records in first-appearance order.
func (e Extraction) Ordered() []Record {
	out := make([]Record, 0, len(e.Order))
	for _, key := range e.Order {
		out = append(out, e.Records[key])
	}
	return out
}

type extractor struct {
	sc       scorecard.Scorecard
	resolver *Resolver
	out      Extraction
	parsed   [][]dismissal.Dismissal
}

// Extract turns a scorecard into one record per player. Batting and bowling
// lines of the same player are merged, then fielding and bowled/lbw credits
// are resolved from the dismissal text of every innings.
func Extract(sc scorecard.Scorecard) Extraction {
	e := &extractor{
		sc:       sc,
		resolver: NewResolver(sc),
		out: Extraction{
			MatchID: sc.MatchID,
			Records: make(map[string]Record),
		},
		parsed: make([][]dismissal.Dismissal, len(sc.Innings)),
	}

	for i := range sc.Innings {
		e.collectBatting(i)
		e.collectBowling(i)
	}
	for i := range sc.Innings {
		e.creditDismissals(i)
	}

	return e.out
}

func (e *extractor) ensure(key, name string) Record {
	rec, ok := e.out.Records[key]
	if !ok {
		rec = Record{PlayerID: key, Name: name}
		e.out.Order = append(e.out.Order, key)
	}
	if rec.Name == "" {
		rec.Name = name
	}
	return rec
}

func (e *extractor) diagnose(code DiagnosticCode, innings int, playerID, format string, args ...any) {
	e.out.Diagnostics = append(e.out.Diagnostics, Diagnostic{
		Code:     code,
		Innings:  innings + 1,
		PlayerID: playerID,
		Detail:   fmt.Sprintf(format, args...),
	})
}

func (e *extractor) collectBatting(i int) {
	inn := e.sc.Innings[i]
	e.parsed[i] = make([]dismissal.Dismissal, len(inn.Batting))

	for j, line := range inn.Batting {
		d := dismissal.Parse(line.Dismissal)
		e.parsed[i][j] = d

		key := line.Key()
		if key == "" {
			e.diagnose(DiagnosticAnonymousLine, i, "", "batting line %d has no player id or name", j+1)
			continue
		}

		rec := e.ensure(key, line.Name)
		if line.DidBat() {
			rec = rec.mergeBatting(BattingFacts{
				Runs:      line.Runs,
				Balls:     line.Balls,
				Fours:     line.Fours,
				Sixes:     line.Sixes,
				Dismissed: d.Dismissed(),
				Dismissal: d.Kind,
			})
			e.checkStrikeRate(i, key, line)
		}
		e.out.Records[key] = rec

		switch d.Kind {
		case dismissal.KindMalformed:
			e.diagnose(DiagnosticMalformedDismissal, i, key, "cannot read dismissal %q", line.Dismissal)
		case dismissal.KindUnknown:
			e.diagnose(DiagnosticUnknownDismissal, i, key, "unrecognised dismissal %q", line.Dismissal)
		}
	}
}

// checkStrikeRate flags a feed strike rate that disagrees with runs and balls.
func (e *extractor) checkStrikeRate(i int, key string, line scorecard.BattingLine) {
	feed, ok := line.FeedStrikeRate()
	if !ok || line.Balls <= 0 {
		return
	}
	derived := float64(line.Runs) * 100 / float64(line.Balls)
	if math.Abs(feed-derived) > strikeRateTolerance {
		e.diagnose(DiagnosticStrikeRateMismatch, i, key, "feed strike rate %.2f, runs and balls give %.2f", feed, derived)
	}
}

func (e *extractor) collectBowling(i int) {
	for j, line := range e.sc.Innings[i].Bowling {
		key := line.Key()
		if key == "" {
			e.diagnose(DiagnosticAnonymousLine, i, "", "bowling line %d has no player id or name", j+1)
			continue
		}

		facts := BowlingFacts{
			Maidens:      line.Maidens,
			RunsConceded: line.RunsConceded,
			Wickets:      line.Wickets,
		}
		overs, err := scorecard.ParseOvers(line.OversNotation)
		if err != nil {
			e.diagnose(DiagnosticMalformedOvers, i, key, "%v", err)
			if econ, ok := line.EffectiveEconomy(); ok {
				facts.FeedEconomy = econ
				facts.HasFeedEconomy = true
			}
		} else {
			facts.Balls = overs.Balls()
		}

		rec := e.ensure(key, line.Name)
		// A listed bowler who bowled no legal ball has no bowling facts.
		if err == nil && facts.Balls == 0 {
			e.out.Records[key] = rec
			continue
		}
		e.out.Records[key] = rec.mergeBowling(facts)
	}
}

func (e *extractor) creditDismissals(i int) {
	fielding := e.sc.FieldingTeamOf(i)
	fieldingSide := func(c Candidate) bool {
		return (c.Bowler && c.Innings == i) || (fielding != "" && c.Team == fielding)
	}
	inningsBowler := func(c Candidate) bool {
		return c.Bowler && c.Innings == i
	}

	for j, d := range e.parsed[i] {
		batter := e.sc.Innings[i].Batting[j].Key()

		switch d.Kind {
		case dismissal.KindCaught:
			e.credit(i, batter, d.Fielders[0], fieldingSide, func(f *FieldingFacts) { f.Catches++ })
		case dismissal.KindCaughtAndBowled:
			e.credit(i, batter, d.Fielders[0], inningsBowler, func(f *FieldingFacts) { f.Catches++ })
		case dismissal.KindStumped:
			e.credit(i, batter, d.Fielders[0], fieldingSide, func(f *FieldingFacts) { f.Stumpings++ })
		case dismissal.KindRunOut:
			if d.DirectRunOut() {
				e.credit(i, batter, d.Fielders[0], fieldingSide, func(f *FieldingFacts) { f.DirectRunOuts++ })
				continue
			}
			for _, name := range d.Fielders {
				e.credit(i, batter, name, fieldingSide, func(f *FieldingFacts) { f.IndirectRunOuts++ })
			}
		case dismissal.KindBowled, dismissal.KindLBW:
			e.creditBowler(i, batter, d.Bowler, inningsBowler)
		}
	}
}

func (e *extractor) credit(i int, batter, name string, prefer func(Candidate) bool, apply func(*FieldingFacts)) {
	res := e.resolver.Resolve(name, prefer)
	if !res.Resolved {
		e.diagnose(DiagnosticUnresolvedFielder, i, batter, "no player matches fielder %q", name)
		return
	}
	rec := e.out.Records[res.Key]
	apply(&rec.Fielding)
	e.out.Records[res.Key] = rec
}

// creditBowler only looks at bowlers of the same innings.
func (e *extractor) creditBowler(i int, batter, name string, among func(Candidate) bool) {
	res := e.resolver.ResolveAmong(name, among)
	if !res.Resolved {
		e.diagnose(DiagnosticUnresolvedBowler, i, batter, "no bowler of this innings matches %q", name)
		return
	}
	rec := e.out.Records[res.Key]
	rec.Bowling.LBWBowled++
	e.out.Records[res.Key] = rec
}
