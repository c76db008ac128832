package usecase

import (
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/fantasy"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/performance"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scoring"
	"github.com/sourcegraph/conc/iter"
)

var errWorkerPool = errors.New("scoring worker pool")

// scoreRecords scores every record in parallel. The output keeps the input
// order so callers see the same breakdown list on every run.
func scoreRecords(records []performance.Record, rules scoring.Rules, workers int) []scoring.Breakdown {
	mapper := iter.Mapper[performance.Record, scoring.Breakdown]{
		MaxGoroutines: normalizeWorkerCount(workers, len(records)),
	}
	return mapper.Map(records, func(rec *performance.Record) scoring.Breakdown {
		return scoring.Score(*rec, rules)
	})
}

// aggregateTeams runs one aggregation per team on a bounded pool. Breakdowns
// are only read here; each worker writes its own result slot.
func aggregateTeams(
	teams []fantasy.Team,
	breakdowns map[string]scoring.Breakdown,
	rules scoring.Rules,
	workers int,
) ([]fantasy.ScoreResult, error) {
	if len(teams) == 0 {
		return nil, nil
	}

	pool, err := ants.NewPool(normalizeWorkerCount(workers, len(teams)))
	if err != nil {
		return nil, fmt.Errorf("%w: create: %v", errWorkerPool, err)
	}
	defer pool.Release()

	results := make([]fantasy.ScoreResult, len(teams))
	errs := make([]error, len(teams))

	var wg sync.WaitGroup
	for i := range teams {
		i := i
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			results[i], errs[i] = fantasy.Aggregate(teams[i], breakdowns, rules)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("%w: submit: %v", errWorkerPool, err)
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func normalizeWorkerCount(requested, tasks int) int {
	if requested <= 0 {
		requested = defaultScoringWorkers
	}
	if tasks > 0 && requested > tasks {
		requested = tasks
	}
	if requested < 1 {
		requested = 1
	}
	return requested
}
