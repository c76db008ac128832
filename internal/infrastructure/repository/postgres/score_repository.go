package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/fantasy"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scoring"
	qb "github.com/riskibarqy/cricket-fantasy/internal/platform/querybuilder"
)

// ScoreRepository stores team scores and the scoring run audit trail.
type ScoreRepository struct {
	db *sqlx.DB
}

var (
	_ fantasy.ScoreRepository = (*ScoreRepository)(nil)
	_ scoring.RunRepository   = (*ScoreRepository)(nil)
)

func NewScoreRepository(db *sqlx.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

var (
	scoreColumns = qb.Columns(teamScoreModel{})
	runColumns   = qb.Columns(scoringRunModel{})
)

func (r *ScoreRepository) UpsertScore(ctx context.Context, score fantasy.Score) error {
	model, err := scoreToModel(score)
	if err != nil {
		return err
	}
	query, args, err := qb.UpsertModel("team_scores", model, []string{"match_id", "team_id"})
	if err != nil {
		return fmt.Errorf("build upsert team score query: %w", err)
	}
	if err := withStatementRetry(ctx, func(ctx context.Context) error {
		_, execErr := r.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return fmt.Errorf("upsert team score team=%s: %w", score.TeamID, err)
	}
	return nil
}

func (r *ScoreRepository) ListScoresByMatch(ctx context.Context, matchID string) ([]fantasy.Score, error) {
	query, args, err := qb.Select(scoreColumns...).
		From("team_scores").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("contest_id", "rank", "team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list team scores query: %w", err)
	}

	var rows []teamScoreModel
	if err := withStatementRetry(ctx, func(ctx context.Context) error {
		rows = rows[:0]
		return r.db.SelectContext(ctx, &rows, query, args...)
	}); err != nil {
		return nil, fmt.Errorf("list team scores: %w", err)
	}

	out := make([]fantasy.Score, 0, len(rows))
	for _, row := range rows {
		score, err := scoreFromModel(row)
		if err != nil {
			return nil, err
		}
		out = append(out, score)
	}
	return out, nil
}

func (r *ScoreRepository) InsertRun(ctx context.Context, run scoring.Run) error {
	model := scoringRunModel{
		PublicID:    run.ID,
		MatchID:     run.MatchID,
		RuleSet:     run.RuleSet,
		Provisional: run.Provisional,
		TeamCount:   run.TeamCount,
		PlayerCount: run.PlayerCount,
		Diagnostics: pq.StringArray(append([]string{}, run.Diagnostics...)),
		StartedAt:   run.StartedAt.UTC(),
		FinishedAt:  run.FinishedAt.UTC(),
	}
	query, args, err := qb.UpsertModel("scoring_runs", model, []string{"public_id"})
	if err != nil {
		return fmt.Errorf("build insert scoring run query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert scoring run: %w", err)
	}
	return nil
}

func (r *ScoreRepository) ListRunsByMatch(ctx context.Context, matchID string) ([]scoring.Run, error) {
	query, args, err := qb.Select(runColumns...).
		From("scoring_runs").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("started_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list scoring runs query: %w", err)
	}

	var rows []scoringRunModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list scoring runs: %w", err)
	}

	out := make([]scoring.Run, 0, len(rows))
	for _, row := range rows {
		out = append(out, scoring.Run{
			ID:          row.PublicID,
			MatchID:     row.MatchID,
			RuleSet:     row.RuleSet,
			Provisional: row.Provisional,
			TeamCount:   row.TeamCount,
			PlayerCount: row.PlayerCount,
			Diagnostics: append([]string(nil), row.Diagnostics...),
			StartedAt:   row.StartedAt.UTC(),
			FinishedAt:  row.FinishedAt.UTC(),
		})
	}
	return out, nil
}

func scoreToModel(score fantasy.Score) (teamScoreModel, error) {
	contributions, err := marshalJSONB(score.Contributions)
	if err != nil {
		return teamScoreModel{}, fmt.Errorf("encode contributions team=%s: %w", score.TeamID, err)
	}
	warnings, err := marshalJSONB(score.Warnings)
	if err != nil {
		return teamScoreModel{}, fmt.Errorf("encode warnings team=%s: %w", score.TeamID, err)
	}
	return teamScoreModel{
		MatchID:       score.MatchID,
		TeamID:        score.TeamID,
		ContestID:     score.ContestID,
		OwnerID:       score.OwnerID,
		TotalPoints:   score.TotalPoints,
		Rank:          score.Rank,
		Contributions: contributions,
		Warnings:      warnings,
		RuleSet:       score.RuleSet,
		RunID:         score.RunID,
		Provisional:   score.Provisional,
		CalculatedAt:  score.CalculatedAt.UTC(),
	}, nil
}

func scoreFromModel(row teamScoreModel) (fantasy.Score, error) {
	score := fantasy.Score{
		ScoreResult: fantasy.ScoreResult{
			TeamID:      row.TeamID,
			ContestID:   row.ContestID,
			MatchID:     row.MatchID,
			OwnerID:     row.OwnerID,
			TotalPoints: row.TotalPoints,
			Rank:        row.Rank,
		},
		RuleSet:      row.RuleSet,
		RunID:        row.RunID,
		Provisional:  row.Provisional,
		CalculatedAt: row.CalculatedAt.UTC(),
	}
	if err := unmarshalJSONB(row.Contributions, &score.Contributions); err != nil {
		return fantasy.Score{}, fmt.Errorf("decode contributions team=%s: %w", row.TeamID, err)
	}
	if err := unmarshalJSONB(row.Warnings, &score.Warnings); err != nil {
		return fantasy.Score{}, fmt.Errorf("decode warnings team=%s: %w", row.TeamID, err)
	}
	return score, nil
}
