package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/fantasy"
	qb "github.com/riskibarqy/cricket-fantasy/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

var _ fantasy.Repository = (*TeamRepository)(nil)

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

var teamColumns = qb.Columns(teamTableModel{})

func (r *TeamRepository) ListByMatch(ctx context.Context, matchID string) ([]fantasy.Team, error) {
	query, args, err := qb.Select(teamColumns...).
		From("fantasy_teams").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams query: %w", err)
	}

	var rows []teamTableModel
	if err := withStatementRetry(ctx, func(ctx context.Context) error {
		rows = rows[:0]
		return r.db.SelectContext(ctx, &rows, query, args...)
	}); err != nil {
		return nil, fmt.Errorf("list teams by match: %w", err)
	}

	out := make([]fantasy.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (fantasy.Team, bool, error) {
	query, args, err := qb.Select(teamColumns...).
		From("fantasy_teams").
		Where(qb.Eq("public_id", teamID)).
		ToSQL()
	if err != nil {
		return fantasy.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row teamTableModel
	if err := withStatementRetry(ctx, func(ctx context.Context) error {
		return r.db.GetContext(ctx, &row, query, args...)
	}); err != nil {
		if isNotFound(err) {
			return fantasy.Team{}, false, nil
		}
		return fantasy.Team{}, false, fmt.Errorf("get team: %w", err)
	}
	return teamFromRow(row), true, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, team fantasy.Team) error {
	createdAt := team.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	updatedAt := team.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	model := teamInsertModel{
		PublicID:      team.ID,
		ContestID:     team.ContestID,
		MatchID:       team.MatchID,
		OwnerID:       team.OwnerID,
		Name:          team.Name,
		PlayerIDs:     pq.StringArray(team.PlayerIDs),
		CaptainID:     team.CaptainID,
		ViceCaptainID: team.ViceCaptainID,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}
	query, args, err := qb.UpsertModel("fantasy_teams", model, []string{"public_id"}, "created_at")
	if err != nil {
		return fmt.Errorf("build upsert team query: %w", err)
	}
	if err := withStatementRetry(ctx, func(ctx context.Context) error {
		_, execErr := r.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return fmt.Errorf("upsert team: %w", err)
	}
	return nil
}

func teamFromRow(row teamTableModel) fantasy.Team {
	return fantasy.Team{
		ID:            row.PublicID,
		ContestID:     row.ContestID,
		MatchID:       row.MatchID,
		OwnerID:       row.OwnerID,
		Name:          row.Name,
		PlayerIDs:     append([]string(nil), row.PlayerIDs...),
		CaptainID:     row.CaptainID,
		ViceCaptainID: row.ViceCaptainID,
		CreatedAt:     row.CreatedAt.UTC(),
		UpdatedAt:     row.UpdatedAt.UTC(),
	}
}
