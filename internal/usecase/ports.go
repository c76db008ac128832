package usecase

import (
	"context"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/contest"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/fantasy"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scorecard"
)

// ScorecardProvider fetches the raw scorecard of a match from the feed.
type ScorecardProvider interface {
	FetchScorecard(ctx context.Context, matchID string) (scorecard.Scorecard, error)
}

// ScorecardDecoder reads a raw feed payload posted directly by an admin.
type ScorecardDecoder interface {
	DecodeScorecard(raw []byte) (scorecard.Scorecard, error)
}

type LeaderboardWriter interface {
	WriteLeaderboard(ctx context.Context, matchID, contestID string, ranked []fantasy.ScoreResult, provisional bool) error
}

// PayoutDispatcher hands a prize distribution to the payment layer.
type PayoutDispatcher interface {
	DispatchPayout(ctx context.Context, dist contest.Distribution) error
}
