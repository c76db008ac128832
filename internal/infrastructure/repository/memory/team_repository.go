package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/fantasy"
)

type TeamRepository struct {
	mu    sync.RWMutex
	teams map[string]fantasy.Team
}

var _ fantasy.Repository = (*TeamRepository)(nil)

func NewTeamRepository(teams []fantasy.Team) *TeamRepository {
	r := &TeamRepository{teams: make(map[string]fantasy.Team, len(teams))}
	for _, item := range teams {
		if id := strings.TrimSpace(item.ID); id != "" {
			r.teams[id] = cloneTeam(item)
		}
	}
	return r
}

func (r *TeamRepository) ListByMatch(_ context.Context, matchID string) ([]fantasy.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fantasy.Team, 0)
	for _, item := range r.teams {
		if item.MatchID == matchID {
			out = append(out, cloneTeam(item))
		}
	}
	slices.SortFunc(out, func(a, b fantasy.Team) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (fantasy.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.teams[teamID]
	if !ok {
		return fantasy.Team{}, false, nil
	}
	return cloneTeam(item), true, nil
}

func (r *TeamRepository) Upsert(_ context.Context, team fantasy.Team) error {
	id := strings.TrimSpace(team.ID)
	if id == "" {
		return nil
	}

	r.mu.Lock()
	r.teams[id] = cloneTeam(team)
	r.mu.Unlock()
	return nil
}

func cloneTeam(t fantasy.Team) fantasy.Team {
	t.PlayerIDs = append([]string(nil), t.PlayerIDs...)
	return t
}
