package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/cricket-fantasy/external/cricketdata"
	"github.com/riskibarqy/cricket-fantasy/external/jobqueue"
	"github.com/riskibarqy/cricket-fantasy/internal/config"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/contest"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/fantasy"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/cricket-fantasy/internal/infrastructure/leaderboard"
	cacherepo "github.com/riskibarqy/cricket-fantasy/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/cricket-fantasy/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/cricket-fantasy/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/cricket-fantasy/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/cricket-fantasy/internal/platform/cache"
	idgen "github.com/riskibarqy/cricket-fantasy/internal/platform/id"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/resilience"
	"github.com/riskibarqy/cricket-fantasy/internal/usecase"
)

type stores struct {
	teams     fantasy.Repository
	scores    fantasy.ScoreRepository
	runs      scoring.RunRepository
	pools     contest.PrizePoolRepository
	dists     contest.DistributionRepository
	closeFunc func() error
}

// NewHTTPServer wires repositories, external clients and services into the
// HTTP server. The returned cleanup releases the database and Redis
// connections and must run after the server has stopped.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	st, err := openStores(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	closers := []func() error{st.closeFunc}

	var cacheStore *basecache.Store
	teamRepo := st.teams
	if cfg.CacheEnabled {
		cacheStore = basecache.NewStore(cfg.CacheTTL)
		teamRepo = cacherepo.NewTeamRepository(teamRepo, cacheStore)
	}

	provider := newScorecardProvider(cfg, logger, cacheStore)

	var board usecase.LeaderboardWriter = leaderboard.Noop{}
	if cfg.RedisEnabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		closers = append(closers, client.Close)
		board = leaderboard.NewRedisWriter(client, cfg.RedisLeaderboardTTL)
		logger.Info("redis leaderboard enabled", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	}

	var payouts usecase.PayoutDispatcher = jobqueue.NoopDispatcher{Logger: logger}
	if cfg.QStashEnabled {
		payouts = jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			PayoutPath:       cfg.PayoutJobPath,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.QStashCircuitEnabled,
				FailureThreshold: cfg.QStashCircuitFailureCount,
				OpenTimeout:      cfg.QStashCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
			},
		}, logger)
	}

	rules, err := buildRuleRegistry(cfg.ScoringRuleset, cfg.ScoringTeamSize)
	if err != nil {
		return nil, nil, err
	}

	scoringSvc := usecase.NewScoringService(usecase.ScoringDependencies{
		Provider:      provider,
		Decoder:       cricketdata.Decoder{},
		TeamRepo:      teamRepo,
		ScoreRepo:     st.scores,
		RunRepo:       st.runs,
		PrizePoolRepo: st.pools,
		DistRepo:      st.dists,
		Leaderboard:   board,
		Payouts:       payouts,
		Rules:         rules,
		IDGenerator:   idgen.NewUUIDGenerator(),
		Logger:        logger.Named("scoring"),
	}, usecase.ScoringServiceConfig{
		RuleSet: cfg.ScoringRuleset,
		Workers: cfg.ScoringWorkers,
	})
	teamSvc := usecase.NewTeamService(teamRepo, idgen.NewUUIDGenerator(), cfg.ScoringTeamSize)
	contestSvc := usecase.NewContestService(st.pools, st.dists)

	handler := httpapi.NewHandler(scoringSvc, teamSvc, contestSvc, logger.Named("http"))
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.AdminToken)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
	}

	cleanup := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			if closers[i] == nil {
				continue
			}
			if err := closers[i](); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	return server, cleanup, nil
}

func newScorecardProvider(cfg config.Config, logger *logging.Logger, cacheStore *basecache.Store) usecase.ScorecardProvider {
	if !cfg.CricketFeedEnabled {
		logger.Info("cricket feed disabled", "reason", "CRICKET_FEED_ENABLED=false")
		return nil
	}

	var provider usecase.ScorecardProvider = cricketdata.NewClient(cricketdata.ClientConfig{
		BaseURL:    cfg.CricketFeedBaseURL,
		Token:      cfg.CricketFeedToken,
		Timeout:    cfg.CricketFeedTimeout,
		MaxRetries: cfg.CricketFeedMaxRetries,
		Logger:     logger.Named("cricketdata"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.CricketFeedCircuitEnabled,
			FailureThreshold: cfg.CricketFeedCircuitFailureCount,
			OpenTimeout:      cfg.CricketFeedCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.CricketFeedCircuitHalfOpenMax,
		},
	})
	if cacheStore != nil {
		provider = cacherepo.NewScorecardProvider(provider, cacheStore)
	}
	return provider
}

func openStores(cfg config.Config, logger *logging.Logger) (stores, error) {
	if cfg.StoreDriver != config.StorePostgres {
		logger.Info("using in-memory store")
		contests := memory.NewContestRepository(nil)
		return stores{
			teams:  memory.NewTeamRepository(nil),
			scores: memory.NewScoreRepository(),
			runs:   memory.NewRunRepository(),
			pools:  contests,
			dists:  contests,
		}, nil
	}

	db, target, err := openDB(cfg)
	if err != nil {
		return stores{}, err
	}
	logger.Info("using postgres store", "db_name", target.dbName)

	scores := postgres.NewScoreRepository(db)
	contests := postgres.NewContestRepository(db)
	return stores{
		teams:     postgres.NewTeamRepository(db),
		scores:    scores,
		runs:      scores,
		pools:     contests,
		dists:     contests,
		closeFunc: db.Close,
	}, nil
}

// buildRuleRegistry applies the configured team size to every built-in
// table and checks that the default rule set exists.
func buildRuleRegistry(defaultVersion string, teamSize int) (*scoring.Registry, error) {
	rules := scoring.DefaultRegistry()
	if _, err := rules.Lookup(defaultVersion); err != nil {
		return nil, fmt.Errorf("SCORING_RULESET: %w", err)
	}
	if teamSize <= 0 {
		return rules, nil
	}

	for _, version := range rules.Versions() {
		table, err := rules.Lookup(version)
		if err != nil {
			return nil, err
		}
		if table.TeamSize == teamSize {
			continue
		}
		table.TeamSize = teamSize
		if err := rules.Register(table); err != nil {
			return nil, fmt.Errorf("register rule set %s: %w", version, err)
		}
	}
	return rules, nil
}
