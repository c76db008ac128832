package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/fantasy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBindParameterMismatch(t *testing.T) {
	t.Run("matches bind mismatch error", func(t *testing.T) {
		err := fakeErr("pq: bind message supplies 2 parameters, but prepared statement \"\" requires 1 (08P01)")
		if !isBindParameterMismatch(err) {
			t.Fatalf("expected true for bind mismatch error")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		err := fakeErr("pq: relation team_scores does not exist")
		if isBindParameterMismatch(err) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestIsUnnamedPreparedStatementMissing(t *testing.T) {
	t.Run("matches statement missing message", func(t *testing.T) {
		err := fakeErr("pq: unnamed prepared statement does not exist (26000)")
		if !isUnnamedPreparedStatementMissing(err) {
			t.Fatalf("expected true for statement missing error")
		}
	})

	t.Run("matches by 26000 code", func(t *testing.T) {
		err := fakeErr("pq: prepared statement missing (26000)")
		if !isUnnamedPreparedStatementMissing(err) {
			t.Fatalf("expected true for 26000 prepared statement error")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		if isUnnamedPreparedStatementMissing(fakeErr("pq: duplicate key value")) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestWithStatementRetry(t *testing.T) {
	ctx := context.Background()

	calls := 0
	err := withStatementRetry(ctx, func(context.Context) error {
		calls++
		if calls == 1 {
			return fakeErr("pq: unnamed prepared statement does not exist (26000)")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	calls = 0
	boom := errors.New("boom")
	err = withStatementRetry(ctx, func(context.Context) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(sql.ErrNoRows))
	assert.True(t, isNotFound(fmt.Errorf("get team: %w", sql.ErrNoRows)))
	assert.False(t, isNotFound(errors.New("other")))
}

func TestScoreModelMapping(t *testing.T) {
	calculatedAt := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	score := fantasy.Score{
		ScoreResult: fantasy.ScoreResult{
			TeamID:      "team-1",
			ContestID:   "contest-1",
			MatchID:     "m1",
			TotalPoints: 437.5,
			Rank:        1,
			Contributions: []fantasy.Contribution{
				{PlayerID: "a01", Role: fantasy.RoleCaptain, BasePoints: 125, Multiplier: 2, Points: 250, Found: true},
			},
		},
		RuleSet:      "t20-v1",
		RunID:        "run-1",
		CalculatedAt: calculatedAt,
	}

	model, err := scoreToModel(score)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(model.Warnings))

	back, err := scoreFromModel(model)
	require.NoError(t, err)
	assert.Equal(t, score.Contributions, back.Contributions)
	assert.Empty(t, back.Warnings)
	assert.Equal(t, 437.5, back.TotalPoints)
	assert.True(t, back.CalculatedAt.Equal(calculatedAt))
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
