package contest

import (
	"cmp"
	"slices"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/fantasy"
)

// Rank orders results by total points descending and assigns standard
// competition ranks: equal totals share a rank and the next rank skips
// (1, 1, 3). Team id breaks ties in ordering only.
func Rank(results []fantasy.ScoreResult) []fantasy.ScoreResult {
	ranked := slices.Clone(results)
	slices.SortStableFunc(ranked, func(a, b fantasy.ScoreResult) int {
		if c := cmp.Compare(b.TotalPoints, a.TotalPoints); c != 0 {
			return c
		}
		return cmp.Compare(a.TeamID, b.TeamID)
	})

	for i := range ranked {
		if i > 0 && ranked[i].TotalPoints == ranked[i-1].TotalPoints {
			ranked[i].Rank = ranked[i-1].Rank
			continue
		}
		ranked[i].Rank = i + 1
	}
	return ranked
}

// GroupByContest splits results per contest, keeping contest ids in first
// appearance order.
func GroupByContest(results []fantasy.ScoreResult) ([]string, map[string][]fantasy.ScoreResult) {
	order := make([]string, 0)
	groups := make(map[string][]fantasy.ScoreResult)
	for _, r := range results {
		if _, ok := groups[r.ContestID]; !ok {
			order = append(order, r.ContestID)
		}
		groups[r.ContestID] = append(groups[r.ContestID], r)
	}
	return order, groups
}
