package app

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/config"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:             config.EnvDev,
		HTTPAddr:           ":0",
		ReadTimeout:        time.Second,
		WriteTimeout:       time.Second,
		StoreDriver:        config.StoreMemory,
		CacheEnabled:       true,
		CacheTTL:           time.Minute,
		ScoringRuleset:     "t20-v1",
		ScoringTeamSize:    11,
		ScoringWorkers:     2,
		CORSAllowedOrigins: []string{"*"},
	}
}

func TestNewHTTPServer_MemoryStore(t *testing.T) {
	srv, cleanup, err := NewHTTPServer(memoryConfig(), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, cleanup()) })

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Feed is disabled, so match previews report the missing dependency.
	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/matches/m1/preview", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestNewHTTPServer_RejectsUnknownRuleSet(t *testing.T) {
	cfg := memoryConfig()
	cfg.ScoringRuleset = "test-v9"

	_, _, err := NewHTTPServer(cfg, logging.NewNop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, scoring.ErrUnknownRuleSet))
}

func TestNewHTTPServer_EmptyAddr(t *testing.T) {
	cfg := memoryConfig()
	cfg.HTTPAddr = ""

	_, _, err := NewHTTPServer(cfg, logging.NewNop())
	require.Error(t, err)
}

func TestBuildRuleRegistry_AppliesTeamSize(t *testing.T) {
	rules, err := buildRuleRegistry("odi-v1", 9)
	require.NoError(t, err)

	for _, version := range rules.Versions() {
		table, err := rules.Lookup(version)
		require.NoError(t, err)
		assert.Equal(t, 9, table.TeamSize, version)
	}
	assert.Equal(t, "t20-v1", rules.Fallback())
}
