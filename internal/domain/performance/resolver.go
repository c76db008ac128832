package performance

import (
	"strings"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/scorecard"
)

// minSubstringLen keeps very short tokens such as initials from matching
// half the scorecard.
const minSubstringLen = 3

// Candidate is one name a dismissal may refer to.
type Candidate struct {
	Key     string
	Name    string
	Alias   string
	Team    string
	Innings int
	Bowler  bool

	name  string
	alias string
}

type Resolution struct {
	Query    string
	Key      string
	Name     string
	Resolved bool
}

// Resolver maps free-text names to players using every batting and bowling
// line of the scorecard, kept in document order.
type Resolver struct {
	candidates []Candidate
}

func NewResolver(sc scorecard.Scorecard) *Resolver {
	r := &Resolver{}
	for i, inn := range sc.Innings {
		fielding := sc.FieldingTeamOf(i)
		for _, line := range inn.Batting {
			r.add(Candidate{Key: line.Key(), Name: line.Name, Alias: line.Alias, Team: inn.BattingTeam, Innings: i})
		}
		for _, line := range inn.Bowling {
			r.add(Candidate{Key: line.Key(), Name: line.Name, Alias: line.Alias, Team: fielding, Innings: i, Bowler: true})
		}
	}
	return r
}

func (r *Resolver) add(c Candidate) {
	if c.Key == "" {
		return
	}
	c.name = foldName(c.Name)
	c.alias = foldName(c.Alias)
	r.candidates = append(r.candidates, c)
}

// Resolve tries the preferred candidates first and then the whole scorecard.
// Within each pool the match tiers are exact name or alias, surname, then
// substring; ties go to the candidate that appears first.
func (r *Resolver) Resolve(query string, prefer func(Candidate) bool) Resolution {
	if prefer != nil {
		if res := r.ResolveAmong(query, prefer); res.Resolved {
			return res
		}
	}
	return r.ResolveAmong(query, nil)
}

// ResolveAmong only considers candidates accepted by filter.
func (r *Resolver) ResolveAmong(query string, filter func(Candidate) bool) Resolution {
	res := Resolution{Query: query}
	q := foldName(query)
	if q == "" {
		return res
	}

	for _, tier := range matchTiers {
		for _, c := range r.candidates {
			if filter != nil && !filter(c) {
				continue
			}
			if tier(q, c) {
				res.Key = c.Key
				res.Name = c.Name
				res.Resolved = true
				return res
			}
		}
	}
	return res
}

var matchTiers = []func(q string, c Candidate) bool{
	func(q string, c Candidate) bool {
		return q == c.name || (c.alias != "" && q == c.alias)
	},
	func(q string, c Candidate) bool {
		return q == lastToken(c.name) || (c.alias != "" && q == lastToken(c.alias))
	},
	func(q string, c Candidate) bool {
		if len(q) < minSubstringLen {
			return false
		}
		return strings.Contains(c.name, q) || (c.alias != "" && strings.Contains(c.alias, q))
	},
	func(q string, c Candidate) bool {
		return (len(c.name) >= minSubstringLen && strings.Contains(q, c.name)) ||
			(len(c.alias) >= minSubstringLen && strings.Contains(q, c.alias))
	},
}

func foldName(name string) string {
	name = strings.NewReplacer("†", "", "*", "", ".", " ").Replace(name)
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func lastToken(name string) string {
	if idx := strings.LastIndexByte(name, ' '); idx >= 0 {
		return name[idx+1:]
	}
	return name
}
