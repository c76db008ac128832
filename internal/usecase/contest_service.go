package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/contest"
	"go.opentelemetry.io/otel/attribute"
)

type ContestService struct {
	prizePoolRepo contest.PrizePoolRepository
	distRepo      contest.DistributionRepository
}

func NewContestService(prizePoolRepo contest.PrizePoolRepository, distRepo contest.DistributionRepository) *ContestService {
	return &ContestService{
		prizePoolRepo: prizePoolRepo,
		distRepo:      distRepo,
	}
}

// SetPrizePool records the pool amount supplied by the payment layer.
func (s *ContestService) SetPrizePool(ctx context.Context, pool contest.PrizePool) (contest.PrizePool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestService.SetPrizePool", attribute.String("contest.id", pool.ContestID))
	defer span.End()

	pool.ContestID = strings.TrimSpace(pool.ContestID)
	pool.Currency = strings.ToUpper(strings.TrimSpace(pool.Currency))
	if pool.ContestID == "" {
		return contest.PrizePool{}, fmt.Errorf("%w: contest id is required", ErrInvalidInput)
	}
	if pool.Amount < 0 {
		return contest.PrizePool{}, fmt.Errorf("%w: prize pool amount must be >= 0", ErrInvalidInput)
	}

	if err := s.prizePoolRepo.UpsertPrizePool(ctx, pool); err != nil {
		return contest.PrizePool{}, fmt.Errorf("upsert prize pool: %w", err)
	}
	return pool, nil
}

func (s *ContestService) GetDistribution(ctx context.Context, contestID string) (contest.Distribution, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestService.GetDistribution", attribute.String("contest.id", contestID))
	defer span.End()

	contestID = strings.TrimSpace(contestID)
	if contestID == "" {
		return contest.Distribution{}, fmt.Errorf("%w: contest id is required", ErrInvalidInput)
	}

	dist, ok, err := s.distRepo.GetDistribution(ctx, contestID)
	if err != nil {
		return contest.Distribution{}, fmt.Errorf("get prize distribution: %w", err)
	}
	if !ok {
		return contest.Distribution{}, fmt.Errorf("%w: distribution contest=%s", ErrNotFound, contestID)
	}
	return dist, nil
}
