package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, StoreMemory, cfg.StoreDriver)
	require.Equal(t, "t20-v1", cfg.ScoringRuleset)
	require.Equal(t, 11, cfg.ScoringTeamSize)
	require.Equal(t, 8, cfg.ScoringWorkers)
	require.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	require.True(t, cfg.DBDisablePreparedBinary)
	require.True(t, cfg.PprofEnabled)
	require.Equal(t, 72*time.Hour, cfg.RedisLeaderboardTTL)
	require.Equal(t, "/internal/jobs/payouts", cfg.PayoutJobPath)
}

func TestLoad_ProdDisablesPprofByDefault(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("PPROF_ENABLED", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.False(t, cfg.PprofEnabled)
}

func TestLoad_PostgresRequiresDBURL(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DB_URL", "")

	_, err := Load()
	require.ErrorContains(t, err, "DB_URL is required when STORE_DRIVER=postgres")
}

func TestLoad_InvalidStoreDriver(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORE_DRIVER", "mongo")

	_, err := Load()
	require.ErrorContains(t, err, "invalid STORE_DRIVER")
}

func TestLoad_FeedRequiresTokenWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CRICKET_FEED_ENABLED", "true")
	t.Setenv("CRICKET_FEED_TOKEN", "")

	_, err := Load()
	require.ErrorContains(t, err, "CRICKET_FEED_TOKEN is required")
}

func TestLoad_FeedCircuitParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CRICKET_FEED_ENABLED", "true")
	t.Setenv("CRICKET_FEED_TOKEN", "feed-token")
	t.Setenv("CRICKET_FEED_CIRCUIT_FAILURE_COUNT", "7")
	t.Setenv("CRICKET_FEED_CIRCUIT_OPEN_TIMEOUT", "45s")
	t.Setenv("CRICKET_FEED_CIRCUIT_HALF_OPEN_MAX_REQ", "3")

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.CricketFeedCircuitEnabled)
	require.Equal(t, 7, cfg.CricketFeedCircuitFailureCount)
	require.Equal(t, 45*time.Second, cfg.CricketFeedCircuitOpenTimeout)
	require.Equal(t, 3, cfg.CricketFeedCircuitHalfOpenMax)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{name: "team size", key: "SCORING_TEAM_SIZE", value: "0", want: "SCORING_TEAM_SIZE must be >= 1"},
		{name: "workers", key: "SCORING_WORKERS", value: "abc", want: "parse SCORING_WORKERS"},
		{name: "cache ttl", key: "CACHE_TTL", value: "-1s", want: "CACHE_TTL must be > 0"},
		{name: "read timeout", key: "HTTP_READ_TIMEOUT", value: "soon", want: "parse HTTP_READ_TIMEOUT"},
		{name: "qstash circuit", key: "QSTASH_CIRCUIT_FAILURE_COUNT", value: "0", want: "QSTASH_CIRCUIT_FAILURE_COUNT must be >= 1"},
		{name: "redis db", key: "REDIS_DB", value: "-2", want: "REDIS_DB must be >= 0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			require.ErrorContains(t, err, tc.want)
		})
	}
}

func TestLoad_QStashRequirements(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("QSTASH_ENABLED", "true")
	t.Setenv("QSTASH_TOKEN", "qs-token")
	t.Setenv("QSTASH_TARGET_BASE_URL", "https://scoring.example.com")
	t.Setenv("INTERNAL_JOB_TOKEN", "")

	_, err := Load()
	require.ErrorContains(t, err, "INTERNAL_JOB_TOKEN is required when QSTASH_ENABLED=true")

	t.Setenv("INTERNAL_JOB_TOKEN", "job-token")
	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.QStashEnabled)
	require.Equal(t, 3, cfg.QStashRetries)
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "foo=bar, uptrace-dsn='https://token@api.uptrace.dev?grpc=4317'")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" https://a.example.com, ,https://b.example.com ")
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, got)
}
