package scoring

import "context"

// RunRepository keeps the audit trail of scoring runs.
type RunRepository interface {
	InsertRun(ctx context.Context, run Run) error
	ListRunsByMatch(ctx context.Context, matchID string) ([]Run, error)
}
