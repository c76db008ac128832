package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/contest"
	qb "github.com/riskibarqy/cricket-fantasy/internal/platform/querybuilder"
)

type ContestRepository struct {
	db *sqlx.DB
}

var (
	_ contest.PrizePoolRepository    = (*ContestRepository)(nil)
	_ contest.DistributionRepository = (*ContestRepository)(nil)
)

func NewContestRepository(db *sqlx.DB) *ContestRepository {
	return &ContestRepository{db: db}
}

func (r *ContestRepository) GetPrizePool(ctx context.Context, contestID string) (contest.PrizePool, bool, error) {
	query, args, err := qb.Select(qb.Columns(prizePoolModel{})...).
		From("prize_pools").
		Where(qb.Eq("contest_id", contestID)).
		ToSQL()
	if err != nil {
		return contest.PrizePool{}, false, fmt.Errorf("build get prize pool query: %w", err)
	}

	var row prizePoolModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return contest.PrizePool{}, false, nil
		}
		return contest.PrizePool{}, false, fmt.Errorf("get prize pool: %w", err)
	}
	return contest.PrizePool{
		ContestID: row.ContestID,
		MatchID:   row.MatchID,
		Amount:    row.Amount,
		Currency:  row.Currency,
	}, true, nil
}

func (r *ContestRepository) UpsertPrizePool(ctx context.Context, pool contest.PrizePool) error {
	query, args, err := qb.UpsertModel("prize_pools", prizePoolModel{
		ContestID: pool.ContestID,
		MatchID:   pool.MatchID,
		Amount:    pool.Amount,
		Currency:  pool.Currency,
		UpdatedAt: time.Now().UTC(),
	}, []string{"contest_id"})
	if err != nil {
		return fmt.Errorf("build upsert prize pool query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert prize pool: %w", err)
	}
	return nil
}

func (r *ContestRepository) UpsertDistribution(ctx context.Context, dist contest.Distribution) error {
	allocations, err := marshalJSONB(dist.Allocations)
	if err != nil {
		return fmt.Errorf("encode allocations contest=%s: %w", dist.ContestID, err)
	}
	query, args, err := qb.UpsertModel("prize_distributions", distributionModel{
		ContestID:   dist.ContestID,
		MatchID:     dist.MatchID,
		RunID:       dist.RunID,
		Pool:        dist.Pool,
		Currency:    dist.Currency,
		Allocations: allocations,
		Unallocated: dist.Unallocated,
		CreatedAt:   dist.CreatedAt.UTC(),
	}, []string{"contest_id"})
	if err != nil {
		return fmt.Errorf("build upsert distribution query: %w", err)
	}
	if err := withStatementRetry(ctx, func(ctx context.Context) error {
		_, execErr := r.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return fmt.Errorf("upsert distribution: %w", err)
	}
	return nil
}

func (r *ContestRepository) GetDistribution(ctx context.Context, contestID string) (contest.Distribution, bool, error) {
	query, args, err := qb.Select(qb.Columns(distributionModel{})...).
		From("prize_distributions").
		Where(qb.Eq("contest_id", contestID)).
		ToSQL()
	if err != nil {
		return contest.Distribution{}, false, fmt.Errorf("build get distribution query: %w", err)
	}

	var row distributionModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return contest.Distribution{}, false, nil
		}
		return contest.Distribution{}, false, fmt.Errorf("get distribution: %w", err)
	}

	dist := contest.Distribution{
		ContestID:   row.ContestID,
		MatchID:     row.MatchID,
		RunID:       row.RunID,
		Pool:        row.Pool,
		Currency:    row.Currency,
		Unallocated: row.Unallocated,
		CreatedAt:   row.CreatedAt.UTC(),
	}
	if err := unmarshalJSONB(row.Allocations, &dist.Allocations); err != nil {
		return contest.Distribution{}, false, fmt.Errorf("decode allocations contest=%s: %w", row.ContestID, err)
	}
	return dist, true, nil
}
