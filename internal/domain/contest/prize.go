package contest

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/fantasy"
)

// FullShare is 100% in basis points.
const FullShare = 10000

const (
	sharedBandFirst = 4
	sharedBandLast  = 10
	sharedBandShare = 1000
)

var (
	ErrInvalidPrizePool = errors.New("invalid prize pool")
	ErrNotRanked        = errors.New("results are not ranked")
)

// PrizeTable returns the share of the pool, in basis points, paid to each
// finishing position for a contest with count participants.
//
//	1 participant:  100%
//	2 participants: 70 / 30
//	3 or more:      50 / 25 / 15, then 10% split equally over positions 4..10
//
// Shares of the 4..10 band are fractional when the band does not divide
// evenly, so positions are returned as big rationals.
func PrizeTable(count int) []*big.Rat {
	switch {
	case count <= 0:
		return nil
	case count == 1:
		return []*big.Rat{big.NewRat(FullShare, 1)}
	case count == 2:
		return []*big.Rat{big.NewRat(7000, 1), big.NewRat(3000, 1)}
	}

	table := make([]*big.Rat, count)
	for i := range table {
		table[i] = new(big.Rat)
	}
	table[0].SetInt64(5000)
	table[1].SetInt64(2500)
	table[2].SetInt64(1500)

	last := min(count, sharedBandLast)
	if members := last - sharedBandFirst + 1; members > 0 {
		each := big.NewRat(sharedBandShare, int64(members))
		for pos := sharedBandFirst; pos <= last; pos++ {
			table[pos-1].Set(each)
		}
	}
	return table
}

// Distribute splits pool between ranked teams. Teams tied at a rank pool
// the shares of every position they occupy and split it equally. Amounts
// are floored to whole units; the remainder, and shares no team could
// claim, are reported as Unallocated.
func Distribute(ranked []fantasy.ScoreResult, pool PrizePool) (Distribution, error) {
	if pool.Amount < 0 {
		return Distribution{}, fmt.Errorf("%w: amount must be >= 0, got %d", ErrInvalidPrizePool, pool.Amount)
	}

	dist := Distribution{
		ContestID: pool.ContestID,
		MatchID:   pool.MatchID,
		Pool:      pool.Amount,
		Currency:  pool.Currency,
	}
	table := PrizeTable(len(ranked))
	amount := new(big.Rat).SetInt64(pool.Amount)

	var paid int64
	for start := 0; start < len(ranked); {
		if ranked[start].Rank != start+1 {
			return Distribution{}, fmt.Errorf("%w: team %s at position %d has rank %d", ErrNotRanked, ranked[start].TeamID, start+1, ranked[start].Rank)
		}

		end := start + 1
		for end < len(ranked) && ranked[end].Rank == ranked[start].Rank {
			end++
		}

		groupShare := new(big.Rat)
		for pos := start; pos < end; pos++ {
			groupShare.Add(groupShare, table[pos])
		}
		each := new(big.Rat).Quo(groupShare, big.NewRat(int64(end-start), 1))
		teamAmount := floorRat(new(big.Rat).Quo(new(big.Rat).Mul(amount, each), big.NewRat(FullShare, 1)))
		basisPoints, _ := each.Float64()

		for pos := start; pos < end; pos++ {
			if teamAmount == 0 && each.Sign() == 0 {
				continue
			}
			dist.Allocations = append(dist.Allocations, Allocation{
				TeamID:      ranked[pos].TeamID,
				OwnerID:     ranked[pos].OwnerID,
				Rank:        ranked[pos].Rank,
				BasisPoints: basisPoints,
				Amount:      teamAmount,
			})
			paid += teamAmount
		}
		start = end
	}

	dist.Unallocated = pool.Amount - paid
	return dist, nil
}

func floorRat(r *big.Rat) int64 {
	return new(big.Int).Quo(r.Num(), r.Denom()).Int64()
}
