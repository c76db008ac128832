package cache

import (
	"context"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/fantasy"
	basecache "github.com/riskibarqy/cricket-fantasy/internal/platform/cache"
)

// TeamRepository caches team reads and drops the match's entries on write.
type TeamRepository struct {
	next  fantasy.Repository
	cache *basecache.Store
}

var _ fantasy.Repository = (*TeamRepository)(nil)

func NewTeamRepository(next fantasy.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) ListByMatch(ctx context.Context, matchID string) ([]fantasy.Team, error) {
	v, err := r.cache.GetOrLoad(ctx, "team:match:"+matchID, func(ctx context.Context) (any, error) {
		return r.next.ListByMatch(ctx, matchID)
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]fantasy.Team)
	return cloneTeams(items), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (fantasy.Team, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, "team:id:"+teamID, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return cachedTeam{value: item, exists: exists}, nil
	})
	if err != nil {
		return fantasy.Team{}, false, err
	}

	cached, _ := v.(cachedTeam)
	return cloneTeams([]fantasy.Team{cached.value})[0], cached.exists, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, team fantasy.Team) error {
	if err := r.next.Upsert(ctx, team); err != nil {
		return err
	}
	r.cache.Delete(ctx, "team:id:"+team.ID)
	r.cache.Delete(ctx, "team:match:"+team.MatchID)
	return nil
}

type cachedTeam struct {
	value  fantasy.Team
	exists bool
}

func cloneTeams(items []fantasy.Team) []fantasy.Team {
	out := make([]fantasy.Team, len(items))
	for i, item := range items {
		item.PlayerIDs = append([]string(nil), item.PlayerIDs...)
		out[i] = item
	}
	return out
}
