package leaderboard

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/fantasy"
	"github.com/riskibarqy/cricket-fantasy/internal/usecase"
)

const (
	ProvisionalTTL = 2 * time.Hour
	FinalTTL       = 72 * time.Hour
)

// RedisWriter mirrors contest standings into sorted sets so read-heavy
// clients can page leaderboards without touching the database.
type RedisWriter struct {
	client   redis.Cmdable
	finalTTL time.Duration
}

var _ usecase.LeaderboardWriter = (*RedisWriter)(nil)

func NewRedisWriter(client redis.Cmdable, finalTTL time.Duration) *RedisWriter {
	if finalTTL <= 0 {
		finalTTL = FinalTTL
	}
	return &RedisWriter{client: client, finalTTL: finalTTL}
}

// Entry is one row read back from a leaderboard.
type Entry struct {
	TeamID string
	Points float64
}

func boardKey(matchID, contestID string) string {
	return fmt.Sprintf("leaderboard:%s:%s", matchID, contestID)
}

func metaKey(matchID, contestID string) string {
	return boardKey(matchID, contestID) + ":meta"
}

func (w *RedisWriter) ttl(provisional bool) time.Duration {
	if provisional {
		return ProvisionalTTL
	}
	return w.finalTTL
}

// WriteLeaderboard replaces the board for one contest in a single pipeline.
func (w *RedisWriter) WriteLeaderboard(ctx context.Context, matchID, contestID string, ranked []fantasy.ScoreResult, provisional bool) error {
	key := boardKey(matchID, contestID)
	members := make([]redis.Z, 0, len(ranked))
	for _, item := range ranked {
		members = append(members, redis.Z{Score: item.TotalPoints, Member: item.TeamID})
	}
	ttl := w.ttl(provisional)

	pipe := w.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(members) > 0 {
		pipe.ZAdd(ctx, key, members...)
	}
	pipe.Expire(ctx, key, ttl)
	pipe.HSet(ctx, metaKey(matchID, contestID),
		"provisional", strconv.FormatBool(provisional),
		"teams", strconv.Itoa(len(ranked)),
		"updated_at", time.Now().UTC().Format(time.RFC3339),
	)
	pipe.Expire(ctx, metaKey(matchID, contestID), ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write leaderboard %s: %w", key, err)
	}
	return nil
}

// Top reads the best n teams, highest points first. Ties come back in
// reverse lexical member order, as Redis returns them.
func (w *RedisWriter) Top(ctx context.Context, matchID, contestID string, n int64) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := w.client.ZRevRangeWithScores(ctx, boardKey(matchID, contestID), 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	out := make([]Entry, 0, len(rows))
	for _, row := range rows {
		member, _ := row.Member.(string)
		out = append(out, Entry{TeamID: member, Points: row.Score})
	}
	return out, nil
}

// Noop is used when Redis is disabled.
type Noop struct{}

func (Noop) WriteLeaderboard(context.Context, string, string, []fantasy.ScoreResult, bool) error {
	return nil
}

var _ usecase.LeaderboardWriter = Noop{}
