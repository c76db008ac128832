package usecase

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/contest"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/fantasy"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scorecard"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/id"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
)

type stubScorecardProvider struct {
	scorecard scorecard.Scorecard
	err       error
}

func (s *stubScorecardProvider) FetchScorecard(_ context.Context, matchID string) (scorecard.Scorecard, error) {
	if s.err != nil {
		return scorecard.Scorecard{}, s.err
	}
	return s.scorecard, nil
}

type stubTeamRepo struct {
	teams []fantasy.Team
}

var _ fantasy.Repository = (*stubTeamRepo)(nil)

func (s *stubTeamRepo) ListByMatch(_ context.Context, matchID string) ([]fantasy.Team, error) {
	out := make([]fantasy.Team, 0, len(s.teams))
	for _, team := range s.teams {
		if team.MatchID == matchID {
			out = append(out, team)
		}
	}
	return out, nil
}

func (s *stubTeamRepo) GetByID(_ context.Context, teamID string) (fantasy.Team, bool, error) {
	for _, team := range s.teams {
		if team.ID == teamID {
			return team, true, nil
		}
	}
	return fantasy.Team{}, false, nil
}

func (s *stubTeamRepo) Upsert(_ context.Context, team fantasy.Team) error {
	s.teams = append(s.teams, team)
	return nil
}

type stubScoreRepo struct {
	mu     sync.Mutex
	scores map[string]fantasy.Score
	writes int
}

var _ fantasy.ScoreRepository = (*stubScoreRepo)(nil)

func (s *stubScoreRepo) UpsertScore(_ context.Context, score fantasy.Score) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scores == nil {
		s.scores = make(map[string]fantasy.Score)
	}
	s.scores[score.MatchID+"|"+score.TeamID] = score
	s.writes++
	return nil
}

func (s *stubScoreRepo) ListScoresByMatch(_ context.Context, matchID string) ([]fantasy.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]fantasy.Score, 0, len(s.scores))
	for _, score := range s.scores {
		if score.MatchID == matchID {
			out = append(out, score)
		}
	}
	return out, nil
}

type stubRunRepo struct {
	mu   sync.Mutex
	runs []scoring.Run
}

var _ scoring.RunRepository = (*stubRunRepo)(nil)

func (s *stubRunRepo) InsertRun(_ context.Context, run scoring.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
	return nil
}

func (s *stubRunRepo) ListRunsByMatch(_ context.Context, matchID string) ([]scoring.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]scoring.Run(nil), s.runs...), nil
}

type stubPrizeStore struct {
	mu    sync.Mutex
	pools map[string]contest.PrizePool
	dists map[string]contest.Distribution
}

func (s *stubPrizeStore) GetPrizePool(_ context.Context, contestID string) (contest.PrizePool, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pool, ok := s.pools[contestID]
	return pool, ok, nil
}

func (s *stubPrizeStore) UpsertPrizePool(_ context.Context, pool contest.PrizePool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pools == nil {
		s.pools = make(map[string]contest.PrizePool)
	}
	s.pools[pool.ContestID] = pool
	return nil
}

func (s *stubPrizeStore) UpsertDistribution(_ context.Context, dist contest.Distribution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dists == nil {
		s.dists = make(map[string]contest.Distribution)
	}
	s.dists[dist.ContestID] = dist
	return nil
}

func (s *stubPrizeStore) GetDistribution(_ context.Context, contestID string) (contest.Distribution, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dist, ok := s.dists[contestID]
	return dist, ok, nil
}

type stubPayouts struct {
	mu   sync.Mutex
	sent []contest.Distribution
	err  error
}

func (s *stubPayouts) DispatchPayout(_ context.Context, dist contest.Distribution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, dist)
	return nil
}

type stubLeaderboard struct {
	mu     sync.Mutex
	writes int
	err    error
}

func (s *stubLeaderboard) WriteLeaderboard(_ context.Context, _, _ string, _ []fantasy.ScoreResult, _ bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	return s.err
}

const testMatchID = "eng-ind-t20-3"

func testScorecard(completed bool) scorecard.Scorecard {
	batting := []scorecard.BattingLine{
		{PlayerID: "a01", Name: "Arun Kumar", Runs: 81, Balls: 39, Fours: 6, Sixes: 7, Dismissal: "c Stokes b Woakes"},
		{PlayerID: "a02", Name: "Ajay Rao", Runs: 0, Balls: 3, Dismissal: "lbw b Woakes"},
	}
	for i := 3; i <= 11; i++ {
		batting = append(batting, scorecard.BattingLine{
			PlayerID:  fmt.Sprintf("a%02d", i),
			Name:      fmt.Sprintf("Reserve %02d", i),
			Dismissal: "did not bat",
		})
	}

	return scorecard.Scorecard{
		MatchID:   testMatchID,
		Completed: completed,
		Innings: []scorecard.Innings{
			{
				Number:       1,
				BattingTeam:  "India",
				FieldingTeam: "England",
				Batting:      batting,
				Bowling: []scorecard.BowlingLine{
					{PlayerID: "b01", Name: "Ben Stokes", OversNotation: 4, RunsConceded: 30},
					{PlayerID: "b02", Name: "Chris Woakes", OversNotation: 4, RunsConceded: 13, Wickets: 3},
				},
			},
			{
				Number:       2,
				BattingTeam:  "England",
				FieldingTeam: "India",
				Batting: []scorecard.BattingLine{
					{PlayerID: "b01", Name: "Ben Stokes", Runs: 40, Balls: 30, Dismissal: "not out"},
				},
				Bowling: []scorecard.BowlingLine{
					{PlayerID: "a01", Name: "Arun Kumar", OversNotation: 2, RunsConceded: 20},
				},
			},
		},
	}
}

func testTeams() []fantasy.Team {
	return []fantasy.Team{
		{
			ID:            "team-1",
			ContestID:     "contest-1",
			MatchID:       testMatchID,
			OwnerID:       "user-1",
			PlayerIDs:     []string{"a01", "a02", "a03", "a04", "a05", "a06", "a07", "a08", "a09", "b01", "b02"},
			CaptainID:     "a01",
			ViceCaptainID: "b02",
		},
		{
			ID:            "team-2",
			ContestID:     "contest-1",
			MatchID:       testMatchID,
			OwnerID:       "user-2",
			PlayerIDs:     []string{"a02", "a03", "a04", "a05", "a06", "a07", "a08", "a09", "a10", "a11", "b01"},
			CaptainID:     "b01",
			ViceCaptainID: "a02",
		},
	}
}

type scoringFixture struct {
	service     *ScoringService
	scores      *stubScoreRepo
	runs        *stubRunRepo
	prizes      *stubPrizeStore
	payouts     *stubPayouts
	leaderboard *stubLeaderboard
}

func newScoringFixture(sc scorecard.Scorecard, teams []fantasy.Team) *scoringFixture {
	f := &scoringFixture{
		scores:      &stubScoreRepo{},
		runs:        &stubRunRepo{},
		prizes:      &stubPrizeStore{},
		payouts:     &stubPayouts{},
		leaderboard: &stubLeaderboard{},
	}
	f.service = NewScoringService(ScoringDependencies{
		Provider:      &stubScorecardProvider{scorecard: sc},
		TeamRepo:      &stubTeamRepo{teams: teams},
		ScoreRepo:     f.scores,
		RunRepo:       f.runs,
		PrizePoolRepo: f.prizes,
		DistRepo:      f.prizes,
		Leaderboard:   f.leaderboard,
		Payouts:       f.payouts,
		IDGenerator:   &id.Sequence{IDs: []string{"run-1", "run-2", "run-3"}},
		Logger:        logging.NewNop(),
	}, ScoringServiceConfig{Workers: 4})
	return f
}

func TestScoringService_Compute_TeamTotals(t *testing.T) {
	t.Parallel()

	f := newScoringFixture(testScorecard(true), testTeams())

	got, err := f.service.Compute(context.Background(), ComputeInput{
		Scorecard: testScorecard(true),
		Teams:     testTeams(),
	})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if got.Provisional {
		t.Fatalf("completed scorecard must not be provisional")
	}
	if got.RuleSet != "t20-v1" {
		t.Fatalf("unexpected rule set: got=%s want=t20-v1", got.RuleSet)
	}
	if len(got.Contests) != 1 || len(got.Contests[0].Teams) != 2 {
		t.Fatalf("unexpected contests: %+v", got.Contests)
	}

	first, second := got.Contests[0].Teams[0], got.Contests[0].Teams[1]
	// captain a01 125x2 + vice b02 93x1.5 + b01 50 + a02 duck -2
	if first.TeamID != "team-1" || first.TotalPoints != 437.5 || first.Rank != 1 {
		t.Fatalf("unexpected leader: %+v", first)
	}
	// captain b01 50x2 + vice a02 -2x1.5
	if second.TeamID != "team-2" || second.TotalPoints != 97 || second.Rank != 2 {
		t.Fatalf("unexpected runner-up: %+v", second)
	}
}

func TestScoringService_Finalize_RejectsIncompleteScorecard(t *testing.T) {
	t.Parallel()

	f := newScoringFixture(testScorecard(false), testTeams())

	_, err := f.service.Finalize(context.Background(), testMatchID)
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("expected precondition error, got %v", err)
	}
	if !errors.Is(err, scorecard.ErrIncomplete) {
		t.Fatalf("expected incomplete scorecard error, got %v", err)
	}
	if f.scores.writes != 0 || len(f.runs.runs) != 0 {
		t.Fatalf("nothing may be persisted for an incomplete scorecard")
	}

	preview, err := f.service.Preview(context.Background(), testMatchID, "")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !preview.Provisional {
		t.Fatalf("preview of an unfinished match must be provisional")
	}
	if f.scores.writes != 0 {
		t.Fatalf("preview must not persist scores")
	}
}

func TestScoringService_Finalize_PersistsAndDistributes(t *testing.T) {
	t.Parallel()

	f := newScoringFixture(testScorecard(true), testTeams())
	_ = f.prizes.UpsertPrizePool(context.Background(), contest.PrizePool{ContestID: "contest-1", Amount: 1000, Currency: "USD"})

	got, err := f.service.Finalize(context.Background(), testMatchID)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if got.RunID != "run-1" {
		t.Fatalf("unexpected run id: got=%s want=run-1", got.RunID)
	}
	if len(f.scores.scores) != 2 {
		t.Fatalf("unexpected stored score count: got=%d want=2", len(f.scores.scores))
	}
	stored := f.scores.scores[testMatchID+"|team-1"]
	if stored.TotalPoints != 437.5 || stored.Rank != 1 || stored.RunID != "run-1" || stored.Provisional {
		t.Fatalf("unexpected stored score: %+v", stored)
	}

	if len(got.Distributions) != 1 {
		t.Fatalf("unexpected distribution count: got=%d want=1", len(got.Distributions))
	}
	allocations := got.Distributions[0].Allocations
	if allocations[0].TeamID != "team-1" || allocations[0].Amount != 700 || allocations[1].Amount != 300 {
		t.Fatalf("unexpected allocations: %+v", allocations)
	}
	if len(f.payouts.sent) != 1 || f.payouts.sent[0].RunID != "run-1" {
		t.Fatalf("expected one payout dispatch for run-1, got %+v", f.payouts.sent)
	}
	if f.leaderboard.writes != 1 {
		t.Fatalf("unexpected leaderboard writes: got=%d want=1", f.leaderboard.writes)
	}
	if len(f.runs.runs) != 1 || f.runs.runs[0].TeamCount != 2 {
		t.Fatalf("unexpected scoring runs: %+v", f.runs.runs)
	}
}

func TestScoringService_Finalize_IsIdempotent(t *testing.T) {
	t.Parallel()

	f := newScoringFixture(testScorecard(true), testTeams())

	first, err := f.service.Finalize(context.Background(), testMatchID)
	if err != nil {
		t.Fatalf("first finalize: %v", err)
	}
	second, err := f.service.Finalize(context.Background(), testMatchID)
	if err != nil {
		t.Fatalf("second finalize: %v", err)
	}

	if len(f.scores.scores) != 2 {
		t.Fatalf("rerun duplicated scores: got=%d want=2", len(f.scores.scores))
	}
	if !reflect.DeepEqual(first.Contests, second.Contests) {
		t.Fatalf("rerun changed standings:\n%+v\n%+v", first.Contests, second.Contests)
	}
	if f.scores.scores[testMatchID+"|team-2"].RunID != "run-2" {
		t.Fatalf("rerun must overwrite the stored run id")
	}
}

func TestScoringService_Finalize_LeaderboardFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	f := newScoringFixture(testScorecard(true), testTeams())
	f.leaderboard.err = errors.New("redis down")

	if _, err := f.service.Finalize(context.Background(), testMatchID); err != nil {
		t.Fatalf("finalize must survive leaderboard errors: %v", err)
	}
}

func TestScoringService_Finalize_PayoutFailure(t *testing.T) {
	t.Parallel()

	f := newScoringFixture(testScorecard(true), testTeams())
	_ = f.prizes.UpsertPrizePool(context.Background(), contest.PrizePool{ContestID: "contest-1", Amount: 100})
	f.payouts.err = errors.New("qstash unavailable")

	_, err := f.service.Finalize(context.Background(), testMatchID)
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if len(f.runs.runs) != 0 {
		t.Fatalf("failed run must not be recorded as finished")
	}
}

func TestScoringService_Compute_InvalidTeamIsPrecondition(t *testing.T) {
	t.Parallel()

	teams := testTeams()
	teams[1].ViceCaptainID = teams[1].CaptainID
	f := newScoringFixture(testScorecard(true), teams)

	_, err := f.service.Compute(context.Background(), ComputeInput{Scorecard: testScorecard(true), Teams: teams})
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("expected precondition error, got %v", err)
	}
	if !errors.Is(err, fantasy.ErrCaptainIsViceCaptain) {
		t.Fatalf("expected captain/vice-captain error, got %v", err)
	}
}

func TestScoringService_Compute_InputErrors(t *testing.T) {
	t.Parallel()

	f := newScoringFixture(testScorecard(true), nil)

	tests := []struct {
		name  string
		input ComputeInput
	}{
		{name: "unknown rule set", input: ComputeInput{Scorecard: testScorecard(true), RuleSet: "t10-v9"}},
		{name: "invalid scorecard", input: ComputeInput{Scorecard: scorecard.Scorecard{MatchID: "m"}}},
		{name: "team for another match", input: ComputeInput{
			Scorecard: testScorecard(true),
			Teams:     []fantasy.Team{{ID: "t", MatchID: "other"}},
		}},
		{name: "duplicate team", input: ComputeInput{
			Scorecard: testScorecard(true),
			Teams:     []fantasy.Team{testTeams()[0], testTeams()[0]},
		}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if _, err := f.service.Compute(context.Background(), tc.input); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected invalid input error, got %v", err)
			}
		})
	}
}

func TestScoringService_Compute_IsDeterministic(t *testing.T) {
	t.Parallel()

	f := newScoringFixture(testScorecard(true), testTeams())
	input := ComputeInput{Scorecard: testScorecard(true), Teams: testTeams()}

	first, err := f.service.Compute(context.Background(), input)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := f.service.Compute(context.Background(), input)
		if err != nil {
			t.Fatalf("compute: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("compute is not deterministic on iteration %d", i)
		}
	}
}

func TestScoringService_LoadMatchErrors(t *testing.T) {
	t.Parallel()

	notFound := NewScoringService(ScoringDependencies{
		Provider: &stubScorecardProvider{err: fmt.Errorf("feed: %w", scorecard.ErrNotFound)},
		TeamRepo: &stubTeamRepo{},
		Logger:   logging.NewNop(),
	}, ScoringServiceConfig{})
	if _, err := notFound.Preview(context.Background(), testMatchID, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}

	down := NewScoringService(ScoringDependencies{
		Provider: &stubScorecardProvider{err: errors.New("timeout")},
		TeamRepo: &stubTeamRepo{},
		Logger:   logging.NewNop(),
	}, ScoringServiceConfig{})
	if _, err := down.Preview(context.Background(), testMatchID, ""); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected dependency error, got %v", err)
	}

	unconfigured := NewScoringService(ScoringDependencies{}, ScoringServiceConfig{})
	if _, err := unconfigured.Preview(context.Background(), testMatchID, ""); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected dependency error without provider, got %v", err)
	}
	if _, err := unconfigured.Finalize(context.Background(), " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank match id, got %v", err)
	}
}

func TestScoringService_ListScores(t *testing.T) {
	t.Parallel()

	f := newScoringFixture(testScorecard(true), testTeams())

	if _, err := f.service.ListScores(context.Background(), testMatchID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found before finalize, got %v", err)
	}
	if _, err := f.service.Finalize(context.Background(), testMatchID); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	got, err := f.service.ListScores(context.Background(), testMatchID)
	if err != nil {
		t.Fatalf("list scores: %v", err)
	}
	if len(got.Contests) != 1 || len(got.Contests[0].Scores) != 2 {
		t.Fatalf("unexpected stored standings: %+v", got)
	}
	if got.Contests[0].Scores[0].TeamID != "team-1" {
		t.Fatalf("expected best rank first, got %s", got.Contests[0].Scores[0].TeamID)
	}
}
