package contest

import (
	"context"
	"time"
)

// PrizePool is supplied by the payment layer in minor currency units.
type PrizePool struct {
	ContestID string
	MatchID   string
	Amount    int64
	Currency  string
}

type Allocation struct {
	TeamID      string  `json:"teamId"`
	OwnerID     string  `json:"ownerId"`
	Rank        int     `json:"rank"`
	BasisPoints float64 `json:"basisPoints"`
	Amount      int64   `json:"amount"`
}

// Distribution is the prize table handed to the payment layer. The engine
// never moves funds itself.
type Distribution struct {
	ContestID   string       `json:"contestId"`
	MatchID     string       `json:"matchId"`
	RunID       string       `json:"runId"`
	Pool        int64        `json:"pool"`
	Currency    string       `json:"currency"`
	Allocations []Allocation `json:"allocations"`
	Unallocated int64        `json:"unallocated"`
	CreatedAt   time.Time    `json:"createdAt"`
}

type PrizePoolRepository interface {
	GetPrizePool(ctx context.Context, contestID string) (PrizePool, bool, error)
	UpsertPrizePool(ctx context.Context, pool PrizePool) error
}

type DistributionRepository interface {
	UpsertDistribution(ctx context.Context, dist Distribution) error
	GetDistribution(ctx context.Context, contestID string) (Distribution, bool, error)
}
