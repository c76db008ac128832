package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/domain/contest"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/fantasy"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/performance"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scorecard"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/id"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/resilience"
	concpool "github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

const defaultScoringWorkers = 8

type ScoringDependencies struct {
	Provider      ScorecardProvider
	Decoder       ScorecardDecoder
	TeamRepo      fantasy.Repository
	ScoreRepo     fantasy.ScoreRepository
	RunRepo       scoring.RunRepository
	PrizePoolRepo contest.PrizePoolRepository
	DistRepo      contest.DistributionRepository
	Leaderboard   LeaderboardWriter
	Payouts       PayoutDispatcher
	Rules         *scoring.Registry
	IDGenerator   id.Generator
	Logger        *logging.Logger
}

type ScoringServiceConfig struct {
	// RuleSet is the rule table version used when a caller does not name one.
	RuleSet string
	Workers int
}

type ScoringService struct {
	provider      ScorecardProvider
	decoder       ScorecardDecoder
	teamRepo      fantasy.Repository
	scoreRepo     fantasy.ScoreRepository
	runRepo       scoring.RunRepository
	prizePoolRepo contest.PrizePoolRepository
	distRepo      contest.DistributionRepository
	leaderboard   LeaderboardWriter
	payouts       PayoutDispatcher
	rules         *scoring.Registry
	idGen         id.Generator
	logger        *logging.Logger
	cfg           ScoringServiceConfig
	now           func() time.Time

	finalizeFlight resilience.SingleFlight
}

type ComputeInput struct {
	Scorecard        scorecard.Scorecard
	Teams            []fantasy.Team
	RuleSet          string
	AllowProvisional bool
}

type ContestStanding struct {
	ContestID string
	Teams     []fantasy.ScoreResult
}

// ContestResult is the outcome of one scoring pass. Provisional is true
// when the scorecard was not complete and callers must present the scores
// as such.
type ContestResult struct {
	MatchID     string
	RuleSet     string
	Provisional bool
	Contests    []ContestStanding
	Breakdowns  []scoring.Breakdown
	Diagnostics []performance.Diagnostic
}

type FinalizeResult struct {
	ContestResult
	RunID         string
	Distributions []contest.Distribution
}

type MatchScores struct {
	MatchID  string
	Contests []StoredStanding
}

type StoredStanding struct {
	ContestID string
	Scores    []fantasy.Score
}

func NewScoringService(deps ScoringDependencies, cfg ScoringServiceConfig) *ScoringService {
	if deps.Rules == nil {
		deps.Rules = scoring.DefaultRegistry()
	}
	if deps.IDGenerator == nil {
		deps.IDGenerator = id.NewUUIDGenerator()
	}
	if deps.Logger == nil {
		deps.Logger = logging.Default()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultScoringWorkers
	}

	return &ScoringService{
		provider:      deps.Provider,
		decoder:       deps.Decoder,
		teamRepo:      deps.TeamRepo,
		scoreRepo:     deps.ScoreRepo,
		runRepo:       deps.RunRepo,
		prizePoolRepo: deps.PrizePoolRepo,
		distRepo:      deps.DistRepo,
		leaderboard:   deps.Leaderboard,
		payouts:       deps.Payouts,
		rules:         deps.Rules,
		idGen:         deps.IDGenerator,
		logger:        deps.Logger,
		cfg:           cfg,
		now:           time.Now,
	}
}

func (s *ScoringService) Rules(version string) (scoring.Rules, error) {
	if version == "" {
		version = s.cfg.RuleSet
	}
	rules, err := s.rules.Lookup(version)
	if err != nil {
		return scoring.Rules{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return rules, nil
}

// DefaultRuleSet is the version used when a caller names none.
func (s *ScoringService) DefaultRuleSet() string {
	if s.cfg.RuleSet != "" {
		return s.cfg.RuleSet
	}
	return s.rules.Fallback()
}

func (s *ScoringService) RuleSets() []string {
	return s.rules.Versions()
}

// Compute runs extraction, per-player scoring, team aggregation and ranking
// over an in-memory scorecard. Nothing is persisted.
func (s *ScoringService) Compute(ctx context.Context, input ComputeInput) (ContestResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.Compute",
		matchAttr(input.Scorecard.MatchID),
		attribute.String("scoring.rule_set", input.RuleSet),
	)
	defer span.End()

	sc := input.Scorecard
	if err := sc.Validate(); err != nil {
		return ContestResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !sc.Completed && !input.AllowProvisional {
		return ContestResult{}, fmt.Errorf("%w: %w: match=%s", ErrPreconditionFailed, scorecard.ErrIncomplete, sc.MatchID)
	}

	rules, err := s.Rules(input.RuleSet)
	if err != nil {
		return ContestResult{}, err
	}

	teams, err := normalizeTeams(sc.MatchID, input.Teams)
	if err != nil {
		return ContestResult{}, err
	}

	extraction := performance.Extract(sc)
	s.logDiagnostics(ctx, extraction)

	breakdowns := scoreRecords(extraction.Ordered(), rules, s.cfg.Workers)
	byPlayer := make(map[string]scoring.Breakdown, len(breakdowns))
	for _, b := range breakdowns {
		byPlayer[b.PlayerID] = b
	}

	results, err := aggregateTeams(teams, byPlayer, rules, s.cfg.Workers)
	if err != nil {
		if errors.Is(err, errWorkerPool) {
			return ContestResult{}, err
		}
		return ContestResult{}, fmt.Errorf("%w: %w", ErrPreconditionFailed, err)
	}

	out := ContestResult{
		MatchID:     sc.MatchID,
		RuleSet:     rules.Version,
		Provisional: !sc.Completed,
		Breakdowns:  breakdowns,
		Diagnostics: extraction.Diagnostics,
	}
	order, groups := contest.GroupByContest(results)
	for _, contestID := range order {
		out.Contests = append(out.Contests, ContestStanding{
			ContestID: contestID,
			Teams:     contest.Rank(groups[contestID]),
		})
	}
	return out, nil
}

// Preview scores the current state of a match against stored teams. It
// accepts unfinished scorecards and never persists anything.
func (s *ScoringService) Preview(ctx context.Context, matchID, ruleSet string) (ContestResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.Preview", matchAttr(matchID))
	defer span.End()

	sc, teams, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return ContestResult{}, err
	}

	return s.Compute(ctx, ComputeInput{
		Scorecard:        sc,
		Teams:            teams,
		RuleSet:          ruleSet,
		AllowProvisional: true,
	})
}

// PreviewPayload scores a raw feed payload supplied by the caller.
func (s *ScoringService) PreviewPayload(ctx context.Context, raw []byte, teams []fantasy.Team, ruleSet string) (ContestResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.PreviewPayload", attribute.Int("payload.bytes", len(raw)))
	defer span.End()

	if s.decoder == nil {
		return ContestResult{}, fmt.Errorf("%w: scorecard decoder is not configured", ErrDependencyUnavailable)
	}
	sc, err := s.decoder.DecodeScorecard(raw)
	if err != nil {
		return ContestResult{}, fmt.Errorf("%w: decode scorecard: %v", ErrInvalidInput, err)
	}

	return s.Compute(ctx, ComputeInput{
		Scorecard:        sc,
		Teams:            teams,
		RuleSet:          ruleSet,
		AllowProvisional: true,
	})
}

// Finalize scores a completed match, stores one score per team, records the
// run and hands prize distributions to the payment layer. Concurrent calls
// for the same match share one run; reruns overwrite earlier scores.
func (s *ScoringService) Finalize(ctx context.Context, matchID string) (FinalizeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.Finalize", matchAttr(matchID))
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return FinalizeResult{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	v, err, shared := s.finalizeFlight.Do("scoring:finalize:"+matchID, func() (any, error) {
		return s.finalizeOnce(ctx, matchID)
	})
	if err != nil {
		return FinalizeResult{}, recordSpanError(span, err)
	}
	if shared {
		s.logger.DebugContext(ctx, "finalize joined in-flight run", "match_id", matchID)
	}
	return v.(FinalizeResult), nil
}

func (s *ScoringService) finalizeOnce(ctx context.Context, matchID string) (FinalizeResult, error) {
	if s.scoreRepo == nil || s.runRepo == nil {
		return FinalizeResult{}, fmt.Errorf("%w: score storage is not configured", ErrDependencyUnavailable)
	}

	startedAt := s.now().UTC()
	sc, teams, err := s.loadMatch(ctx, matchID)
	if err != nil {
		return FinalizeResult{}, err
	}

	computed, err := s.Compute(ctx, ComputeInput{Scorecard: sc, Teams: teams, RuleSet: s.cfg.RuleSet})
	if err != nil {
		return FinalizeResult{}, err
	}

	runID, err := s.idGen.NewID()
	if err != nil {
		return FinalizeResult{}, fmt.Errorf("generate scoring run id: %w", err)
	}

	result := FinalizeResult{
		ContestResult: computed,
		RunID:         runID,
	}
	calculatedAt := s.now().UTC()
	distributions := make([]*contest.Distribution, len(computed.Contests))

	p := concpool.New().WithContext(ctx).WithCancelOnError().WithMaxGoroutines(s.cfg.Workers)
	for i, standing := range computed.Contests {
		i, standing := i, standing
		p.Go(func(ctx context.Context) error {
			dist, err := s.persistContest(ctx, computed, standing, runID, calculatedAt)
			if err != nil {
				return fmt.Errorf("contest %s: %w", standing.ContestID, err)
			}
			distributions[i] = dist
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return FinalizeResult{}, err
	}

	for _, dist := range distributions {
		if dist != nil {
			result.Distributions = append(result.Distributions, *dist)
		}
	}

	diagnostics := make([]string, 0, len(computed.Diagnostics))
	for _, d := range computed.Diagnostics {
		diagnostics = append(diagnostics, d.String())
	}
	if err := s.runRepo.InsertRun(ctx, scoring.Run{
		ID:          runID,
		MatchID:     matchID,
		RuleSet:     computed.RuleSet,
		Provisional: computed.Provisional,
		TeamCount:   len(teams),
		PlayerCount: len(computed.Breakdowns),
		Diagnostics: diagnostics,
		StartedAt:   startedAt,
		FinishedAt:  s.now().UTC(),
	}); err != nil {
		return FinalizeResult{}, fmt.Errorf("insert scoring run: %w", err)
	}

	s.logger.InfoContext(ctx, "scoring run finalized",
		"match_id", matchID,
		"run_id", runID,
		"rule_set", computed.RuleSet,
		"contests", len(computed.Contests),
		"teams", len(teams),
		"diagnostics", len(diagnostics),
	)
	return result, nil
}

func (s *ScoringService) persistContest(
	ctx context.Context,
	computed ContestResult,
	standing ContestStanding,
	runID string,
	calculatedAt time.Time,
) (*contest.Distribution, error) {
	for _, item := range standing.Teams {
		if err := s.scoreRepo.UpsertScore(ctx, fantasy.Score{
			ScoreResult:  item,
			RuleSet:      computed.RuleSet,
			RunID:        runID,
			Provisional:  computed.Provisional,
			CalculatedAt: calculatedAt,
		}); err != nil {
			return nil, fmt.Errorf("upsert team score team=%s: %w", item.TeamID, err)
		}
	}

	if s.leaderboard != nil {
		if err := s.leaderboard.WriteLeaderboard(ctx, computed.MatchID, standing.ContestID, standing.Teams, computed.Provisional); err != nil {
			s.logger.WarnContext(ctx, "write leaderboard failed",
				"match_id", computed.MatchID,
				"contest_id", standing.ContestID,
				"error", err,
			)
		}
	}

	if s.prizePoolRepo == nil {
		return nil, nil
	}
	pool, ok, err := s.prizePoolRepo.GetPrizePool(ctx, standing.ContestID)
	if err != nil {
		return nil, fmt.Errorf("get prize pool: %w", err)
	}
	if !ok {
		return nil, nil
	}
	pool.MatchID = computed.MatchID

	dist, err := contest.Distribute(standing.Teams, pool)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	dist.RunID = runID
	dist.CreatedAt = calculatedAt

	if s.distRepo != nil {
		if err := s.distRepo.UpsertDistribution(ctx, dist); err != nil {
			return nil, fmt.Errorf("upsert prize distribution: %w", err)
		}
	}
	if s.payouts != nil {
		if err := s.payouts.DispatchPayout(ctx, dist); err != nil {
			return nil, fmt.Errorf("%w: dispatch payout: %v", ErrDependencyUnavailable, err)
		}
	}
	return &dist, nil
}

// ListScores returns stored scores grouped by contest, best rank first.
func (s *ScoringService) ListScores(ctx context.Context, matchID string) (MatchScores, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ListScores", matchAttr(matchID))
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return MatchScores{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if s.scoreRepo == nil {
		return MatchScores{}, fmt.Errorf("%w: score storage is not configured", ErrDependencyUnavailable)
	}

	items, err := s.scoreRepo.ListScoresByMatch(ctx, matchID)
	if err != nil {
		return MatchScores{}, fmt.Errorf("list scores by match: %w", err)
	}
	if len(items) == 0 {
		return MatchScores{}, fmt.Errorf("%w: no scores for match=%s", ErrNotFound, matchID)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].ContestID != items[j].ContestID {
			return items[i].ContestID < items[j].ContestID
		}
		if items[i].Rank != items[j].Rank {
			return items[i].Rank < items[j].Rank
		}
		return items[i].TeamID < items[j].TeamID
	})

	out := MatchScores{MatchID: matchID}
	for _, item := range items {
		if n := len(out.Contests); n == 0 || out.Contests[n-1].ContestID != item.ContestID {
			out.Contests = append(out.Contests, StoredStanding{ContestID: item.ContestID})
		}
		last := &out.Contests[len(out.Contests)-1]
		last.Scores = append(last.Scores, item)
	}
	return out, nil
}

func (s *ScoringService) loadMatch(ctx context.Context, matchID string) (scorecard.Scorecard, []fantasy.Team, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return scorecard.Scorecard{}, nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if s.provider == nil {
		return scorecard.Scorecard{}, nil, fmt.Errorf("%w: scorecard feed is not configured", ErrDependencyUnavailable)
	}
	if s.teamRepo == nil {
		return scorecard.Scorecard{}, nil, fmt.Errorf("%w: team storage is not configured", ErrDependencyUnavailable)
	}

	sc, err := s.provider.FetchScorecard(ctx, matchID)
	if err != nil {
		if errors.Is(err, scorecard.ErrNotFound) {
			return scorecard.Scorecard{}, nil, fmt.Errorf("%w: scorecard match=%s", ErrNotFound, matchID)
		}
		return scorecard.Scorecard{}, nil, fmt.Errorf("%w: fetch scorecard: %v", ErrDependencyUnavailable, err)
	}
	if sc.MatchID == "" {
		sc.MatchID = matchID
	}

	teams, err := s.teamRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return scorecard.Scorecard{}, nil, fmt.Errorf("list teams by match: %w", err)
	}
	return sc, teams, nil
}

func (s *ScoringService) logDiagnostics(ctx context.Context, extraction performance.Extraction) {
	for _, d := range extraction.Diagnostics {
		s.logger.WarnContext(ctx, "scorecard diagnostic",
			"match_id", extraction.MatchID,
			"code", string(d.Code),
			"innings", d.Innings,
			"player_id", d.PlayerID,
			"detail", d.Detail,
		)
	}
}

func normalizeTeams(matchID string, teams []fantasy.Team) ([]fantasy.Team, error) {
	out := make([]fantasy.Team, 0, len(teams))
	seen := make(map[string]struct{}, len(teams))
	for _, team := range teams {
		team.ID = strings.TrimSpace(team.ID)
		if team.ID == "" {
			return nil, fmt.Errorf("%w: team id is required", ErrInvalidInput)
		}
		if _, ok := seen[team.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate team id %s", ErrInvalidInput, team.ID)
		}
		seen[team.ID] = struct{}{}

		if team.MatchID == "" {
			team.MatchID = matchID
		}
		if team.MatchID != matchID {
			return nil, fmt.Errorf("%w: team %s belongs to match %s, not %s", ErrInvalidInput, team.ID, team.MatchID, matchID)
		}
		if team.ContestID == "" {
			team.ContestID = matchID
		}
		out = append(out, team)
	}
	return out, nil
}
