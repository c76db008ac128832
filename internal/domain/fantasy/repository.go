package fantasy

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	ListByMatch(ctx context.Context, matchID string) ([]Team, error)
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	Upsert(ctx context.Context, team Team) error
}

// ScoreRepository stores one score per team per match. UpsertScore must be
// idempotent so a rerun replaces rather than duplicates.
type ScoreRepository interface {
	UpsertScore(ctx context.Context, score Score) error
	ListScoresByMatch(ctx context.Context, matchID string) ([]Score, error)
}
