package cache

import (
	"context"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/scorecard"
	basecache "github.com/riskibarqy/cricket-fantasy/internal/platform/cache"
	"github.com/riskibarqy/cricket-fantasy/internal/usecase"
)

// ScorecardProvider caches completed scorecards. Live scorecards change
// ball by ball and always go to the feed.
type ScorecardProvider struct {
	next  usecase.ScorecardProvider
	cache *basecache.Store
}

var _ usecase.ScorecardProvider = (*ScorecardProvider)(nil)

func NewScorecardProvider(next usecase.ScorecardProvider, cache *basecache.Store) *ScorecardProvider {
	return &ScorecardProvider{next: next, cache: cache}
}

func (p *ScorecardProvider) FetchScorecard(ctx context.Context, matchID string) (scorecard.Scorecard, error) {
	v, err := p.cache.GetOrLoadIf(ctx, "scorecard:"+matchID,
		func(ctx context.Context) (any, error) {
			return p.next.FetchScorecard(ctx, matchID)
		},
		func(v any) bool {
			sc, ok := v.(scorecard.Scorecard)
			return ok && sc.Completed
		},
	)
	if err != nil {
		return scorecard.Scorecard{}, err
	}

	sc, _ := v.(scorecard.Scorecard)
	return sc, nil
}

// Invalidate drops a cached scorecard, e.g. after the feed issued a
// correction.
func (p *ScorecardProvider) Invalidate(ctx context.Context, matchID string) {
	p.cache.Delete(ctx, "scorecard:"+matchID)
}
