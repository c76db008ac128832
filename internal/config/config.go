package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                         string
	ServiceName                    string
	ServiceVersion                 string
	HTTPAddr                       string
	ReadTimeout                    time.Duration
	WriteTimeout                   time.Duration
	LogLevel                       logging.Level
	CORSAllowedOrigins             []string
	StoreDriver                    string
	DBURL                          string
	DBDisablePreparedBinary        bool
	CacheEnabled                   bool
	CacheTTL                       time.Duration
	AdminToken                     string
	ScoringRuleset                 string
	ScoringTeamSize                int
	ScoringWorkers                 int
	CricketFeedEnabled             bool
	CricketFeedBaseURL             string
	CricketFeedToken               string
	CricketFeedTimeout             time.Duration
	CricketFeedMaxRetries          int
	CricketFeedCircuitEnabled      bool
	CricketFeedCircuitFailureCount int
	CricketFeedCircuitOpenTimeout  time.Duration
	CricketFeedCircuitHalfOpenMax  int
	RedisEnabled                   bool
	RedisAddr                      string
	RedisPassword                  string
	RedisDB                        int
	RedisLeaderboardTTL            time.Duration
	InternalJobToken               string
	PayoutJobPath                  string
	QStashEnabled                  bool
	QStashBaseURL                  string
	QStashToken                    string
	QStashTargetBaseURL            string
	QStashRetries                  int
	QStashCircuitEnabled           bool
	QStashCircuitFailureCount      int
	QStashCircuitOpenTimeout       time.Duration
	QStashCircuitHalfOpenMaxReq    int
	UptraceEnabled                 bool
	UptraceDSN                     string
	PyroscopeEnabled               bool
	PyroscopeServerAddress         string
	PyroscopeAppName               string
	PyroscopeAuthToken             string
	PyroscopeBasicAuthUser         string
	PyroscopeBasicAuthPassword     string
	PyroscopeUploadRate            time.Duration
	PprofEnabled                   bool
	PprofAddr                      string
}

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "cricket-fantasy-scoring"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		LogLevel:                   logging.ParseLevel(getEnv("LOG_LEVEL", "info")),
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		DBURL:                      strings.TrimSpace(getEnv("DB_URL", "")),
		AdminToken:                 strings.TrimSpace(getEnv("ADMIN_TOKEN", "")),
		ScoringRuleset:             strings.TrimSpace(getEnv("SCORING_RULESET", "t20-v1")),
		CricketFeedBaseURL:         getEnv("CRICKET_FEED_BASE_URL", "https://api.cricapi.com/v1"),
		CricketFeedToken:           strings.TrimSpace(getEnv("CRICKET_FEED_TOKEN", "")),
		RedisAddr:                  getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:              getEnv("REDIS_PASSWORD", ""),
		InternalJobToken:           strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		PayoutJobPath:              getEnv("PAYOUT_JOB_PATH", "/internal/jobs/payouts"),
		QStashBaseURL:              getEnv("QSTASH_BASE_URL", "https://qstash.upstash.io"),
		QStashToken:                strings.TrimSpace(getEnv("QSTASH_TOKEN", "")),
		QStashTargetBaseURL:        strings.TrimSpace(getEnv("QSTASH_TARGET_BASE_URL", "")),
		PyroscopeServerAddress:     strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAppName:           getEnv("PYROSCOPE_APP_NAME", "cricket-fantasy-scoring"),
		PyroscopeAuthToken:         getEnv("PYROSCOPE_AUTH_TOKEN", ""),
		PyroscopeBasicAuthUser:     getEnv("PYROSCOPE_BASIC_AUTH_USER", ""),
		PyroscopeBasicAuthPassword: getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""),
		PprofAddr:                  getEnv("PPROF_ADDR", "127.0.0.1:6060"),
	}

	cfg.ReadTimeout, err = parsePositiveDuration("HTTP_READ_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	cfg.WriteTimeout, err = parsePositiveDuration("HTTP_WRITE_TIMEOUT", "30s")
	if err != nil {
		return Config{}, err
	}

	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", StoreMemory)))
	switch cfg.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if cfg.DBURL == "" {
			return Config{}, fmt.Errorf("DB_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return Config{}, fmt.Errorf("invalid STORE_DRIVER %q: valid values are %s, %s", cfg.StoreDriver, StoreMemory, StorePostgres)
	}

	cfg.DBDisablePreparedBinary, err = strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	cfg.CacheEnabled, err = strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cfg.CacheTTL, err = parsePositiveDuration("CACHE_TTL", "10m")
	if err != nil {
		return Config{}, err
	}

	if cfg.ScoringRuleset == "" {
		return Config{}, fmt.Errorf("SCORING_RULESET must not be empty")
	}
	cfg.ScoringTeamSize, err = getEnvAsInt("SCORING_TEAM_SIZE", 11)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCORING_TEAM_SIZE: %w", err)
	}
	if cfg.ScoringTeamSize < 1 {
		return Config{}, fmt.Errorf("SCORING_TEAM_SIZE must be >= 1")
	}
	cfg.ScoringWorkers, err = getEnvAsInt("SCORING_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCORING_WORKERS: %w", err)
	}
	if cfg.ScoringWorkers < 1 {
		return Config{}, fmt.Errorf("SCORING_WORKERS must be >= 1")
	}

	cfg.CricketFeedEnabled, err = strconv.ParseBool(getEnv("CRICKET_FEED_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICKET_FEED_ENABLED: %w", err)
	}
	if cfg.CricketFeedEnabled && cfg.CricketFeedToken == "" {
		return Config{}, fmt.Errorf("CRICKET_FEED_TOKEN is required when CRICKET_FEED_ENABLED=true")
	}
	cfg.CricketFeedTimeout, err = parsePositiveDuration("CRICKET_FEED_TIMEOUT", "8s")
	if err != nil {
		return Config{}, err
	}
	cfg.CricketFeedMaxRetries, err = getEnvAsInt("CRICKET_FEED_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICKET_FEED_MAX_RETRIES: %w", err)
	}
	if cfg.CricketFeedMaxRetries < 0 {
		return Config{}, fmt.Errorf("CRICKET_FEED_MAX_RETRIES must be >= 0")
	}
	cfg.CricketFeedCircuitEnabled, cfg.CricketFeedCircuitFailureCount, cfg.CricketFeedCircuitOpenTimeout, cfg.CricketFeedCircuitHalfOpenMax, err = parseCircuit("CRICKET_FEED")
	if err != nil {
		return Config{}, err
	}

	cfg.RedisEnabled, err = strconv.ParseBool(getEnv("REDIS_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse REDIS_ENABLED: %w", err)
	}
	if cfg.RedisEnabled && strings.TrimSpace(cfg.RedisAddr) == "" {
		return Config{}, fmt.Errorf("REDIS_ADDR is required when REDIS_ENABLED=true")
	}
	cfg.RedisDB, err = getEnvAsInt("REDIS_DB", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse REDIS_DB: %w", err)
	}
	if cfg.RedisDB < 0 {
		return Config{}, fmt.Errorf("REDIS_DB must be >= 0")
	}
	cfg.RedisLeaderboardTTL, err = parsePositiveDuration("REDIS_LEADERBOARD_TTL", "72h")
	if err != nil {
		return Config{}, err
	}

	cfg.QStashEnabled, err = strconv.ParseBool(getEnv("QSTASH_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse QSTASH_ENABLED: %w", err)
	}
	if cfg.QStashEnabled {
		if cfg.QStashToken == "" {
			return Config{}, fmt.Errorf("QSTASH_TOKEN is required when QSTASH_ENABLED=true")
		}
		if cfg.QStashTargetBaseURL == "" {
			return Config{}, fmt.Errorf("QSTASH_TARGET_BASE_URL is required when QSTASH_ENABLED=true")
		}
		if cfg.InternalJobToken == "" {
			return Config{}, fmt.Errorf("INTERNAL_JOB_TOKEN is required when QSTASH_ENABLED=true")
		}
	}
	cfg.QStashRetries, err = getEnvAsInt("QSTASH_RETRIES", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse QSTASH_RETRIES: %w", err)
	}
	if cfg.QStashRetries < 0 {
		return Config{}, fmt.Errorf("QSTASH_RETRIES must be >= 0")
	}
	cfg.QStashCircuitEnabled, cfg.QStashCircuitFailureCount, cfg.QStashCircuitOpenTimeout, cfg.QStashCircuitHalfOpenMaxReq, err = parseCircuit("QSTASH")
	if err != nil {
		return Config{}, err
	}

	cfg.UptraceEnabled, err = strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	cfg.PyroscopeEnabled, err = strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeUploadRate, err = parsePositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s")
	if err != nil {
		return Config{}, err
	}

	pprofDefault := "true"
	if appEnv == EnvProd {
		pprofDefault = "false"
	}
	cfg.PprofEnabled, err = strconv.ParseBool(getEnv("PPROF_ENABLED", pprofDefault))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}

	return cfg, nil
}

func parseCircuit(prefix string) (bool, int, time.Duration, int, error) {
	enabled, err := strconv.ParseBool(getEnv(prefix+"_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return false, 0, 0, 0, fmt.Errorf("parse %s_CIRCUIT_ENABLED: %w", prefix, err)
	}

	failureCount, err := getEnvAsInt(prefix+"_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return false, 0, 0, 0, fmt.Errorf("parse %s_CIRCUIT_FAILURE_COUNT: %w", prefix, err)
	}
	if failureCount < 1 {
		return false, 0, 0, 0, fmt.Errorf("%s_CIRCUIT_FAILURE_COUNT must be >= 1", prefix)
	}

	openTimeout, err := parsePositiveDuration(prefix+"_CIRCUIT_OPEN_TIMEOUT", "20s")
	if err != nil {
		return false, 0, 0, 0, err
	}

	halfOpenMaxReq, err := getEnvAsInt(prefix+"_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return false, 0, 0, 0, fmt.Errorf("parse %s_CIRCUIT_HALF_OPEN_MAX_REQ: %w", prefix, err)
	}
	if halfOpenMaxReq < 1 {
		return false, 0, 0, 0, fmt.Errorf("%s_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1", prefix)
	}

	return enabled, failureCount, openTimeout, halfOpenMaxReq, nil
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return d, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
