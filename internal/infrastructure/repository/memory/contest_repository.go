package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/contest"
)

// ContestRepository stores prize pools and the latest distribution per
// contest.
type ContestRepository struct {
	mu            sync.RWMutex
	pools         map[string]contest.PrizePool
	distributions map[string]contest.Distribution
}

var (
	_ contest.PrizePoolRepository    = (*ContestRepository)(nil)
	_ contest.DistributionRepository = (*ContestRepository)(nil)
)

func NewContestRepository(pools []contest.PrizePool) *ContestRepository {
	r := &ContestRepository{
		pools:         make(map[string]contest.PrizePool, len(pools)),
		distributions: make(map[string]contest.Distribution),
	}
	for _, pool := range pools {
		r.pools[pool.ContestID] = pool
	}
	return r
}

func (r *ContestRepository) GetPrizePool(_ context.Context, contestID string) (contest.PrizePool, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pool, ok := r.pools[contestID]
	return pool, ok, nil
}

func (r *ContestRepository) UpsertPrizePool(_ context.Context, pool contest.PrizePool) error {
	r.mu.Lock()
	r.pools[pool.ContestID] = pool
	r.mu.Unlock()
	return nil
}

func (r *ContestRepository) UpsertDistribution(_ context.Context, dist contest.Distribution) error {
	dist.Allocations = append([]contest.Allocation(nil), dist.Allocations...)
	r.mu.Lock()
	r.distributions[dist.ContestID] = dist
	r.mu.Unlock()
	return nil
}

func (r *ContestRepository) GetDistribution(_ context.Context, contestID string) (contest.Distribution, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dist, ok := r.distributions[contestID]
	if !ok {
		return contest.Distribution{}, false, nil
	}
	dist.Allocations = append([]contest.Allocation(nil), dist.Allocations...)
	return dist, true, nil
}
