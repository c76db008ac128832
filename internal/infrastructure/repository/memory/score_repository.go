package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/fantasy"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scoring"
)

type scoreKey struct {
	matchID string
	teamID  string
}

// ScoreRepository keeps one score per (match, team).
type ScoreRepository struct {
	mu     sync.RWMutex
	scores map[scoreKey]fantasy.Score
}

var _ fantasy.ScoreRepository = (*ScoreRepository)(nil)

func NewScoreRepository() *ScoreRepository {
	return &ScoreRepository{scores: make(map[scoreKey]fantasy.Score)}
}

func (r *ScoreRepository) UpsertScore(_ context.Context, score fantasy.Score) error {
	r.mu.Lock()
	r.scores[scoreKey{matchID: score.MatchID, teamID: score.TeamID}] = cloneScore(score)
	r.mu.Unlock()
	return nil
}

func (r *ScoreRepository) ListScoresByMatch(_ context.Context, matchID string) ([]fantasy.Score, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fantasy.Score, 0)
	for key, item := range r.scores {
		if key.matchID == matchID {
			out = append(out, cloneScore(item))
		}
	}
	slices.SortFunc(out, func(a, b fantasy.Score) int {
		return cmp.Or(
			cmp.Compare(a.ContestID, b.ContestID),
			cmp.Compare(a.Rank, b.Rank),
			cmp.Compare(a.TeamID, b.TeamID),
		)
	})
	return out, nil
}

func cloneScore(s fantasy.Score) fantasy.Score {
	s.Contributions = append([]fantasy.Contribution(nil), s.Contributions...)
	s.Warnings = append([]fantasy.Warning(nil), s.Warnings...)
	return s
}

// RunRepository is an append-only log of scoring runs.
type RunRepository struct {
	mu   sync.RWMutex
	runs []scoring.Run
}

var _ scoring.RunRepository = (*RunRepository)(nil)

func NewRunRepository() *RunRepository {
	return &RunRepository{}
}

func (r *RunRepository) InsertRun(_ context.Context, run scoring.Run) error {
	run.Diagnostics = append([]string(nil), run.Diagnostics...)
	r.mu.Lock()
	r.runs = append(r.runs, run)
	r.mu.Unlock()
	return nil
}

func (r *RunRepository) ListRunsByMatch(_ context.Context, matchID string) ([]scoring.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]scoring.Run, 0)
	for _, run := range r.runs {
		if run.MatchID == matchID {
			run.Diagnostics = append([]string(nil), run.Diagnostics...)
			out = append(out, run)
		}
	}
	return out, nil
}
