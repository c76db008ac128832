package jobqueue

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/contest"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/resilience"
	"github.com/riskibarqy/cricket-fantasy/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const defaultPayoutJobPath = "/internal/jobs/payouts"

var errQStashTransient = crerr.New("qstash transient failure")

type QStashPublisherConfig struct {
	BaseURL          string
	Token            string
	TargetBaseURL    string
	PayoutPath       string
	Retries          int
	InternalJobToken string
	Timeout          time.Duration
	CircuitBreaker   resilience.CircuitBreakerConfig
}

// QStashPublisher hands prize distributions to the payment layer as QStash
// jobs. It never moves money itself.
type QStashPublisher struct {
	client           *http.Client
	baseURL          string
	token            string
	targetBaseURL    string
	payoutPath       string
	retries          int
	internalJobToken string
	logger           *logging.Logger
	breaker          *resilience.CircuitBreaker
}

var _ usecase.PayoutDispatcher = (*QStashPublisher)(nil)

func NewQStashPublisher(cfg QStashPublisherConfig, logger *logging.Logger) *QStashPublisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	payoutPath := strings.TrimSpace(cfg.PayoutPath)
	if payoutPath == "" {
		payoutPath = defaultPayoutJobPath
	}
	logger = logger.Named("qstash")
	breaker := resilience.NewCircuitBreaker("qstash", cfg.CircuitBreaker)
	breaker.OnStateChange(func(name string, from, to resilience.CircuitState) {
		logger.Warn("circuit breaker state changed", "breaker", name, "from", from, "to", to)
	})

	return &QStashPublisher{
		client:           &http.Client{Timeout: timeout},
		baseURL:          strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:            strings.TrimSpace(cfg.Token),
		targetBaseURL:    strings.TrimRight(strings.TrimSpace(cfg.TargetBaseURL), "/"),
		payoutPath:       "/" + strings.TrimLeft(payoutPath, "/"),
		retries:          max(cfg.Retries, 0),
		internalJobToken: strings.TrimSpace(cfg.InternalJobToken),
		logger:           logger,
		breaker:          breaker,
	}
}

type payoutAllocation struct {
	TeamID      string  `json:"team_id"`
	OwnerID     string  `json:"owner_id"`
	Rank        int     `json:"rank"`
	BasisPoints float64 `json:"basis_points"`
	Amount      int64   `json:"amount"`
}

type payoutJob struct {
	ContestID   string             `json:"contest_id"`
	MatchID     string             `json:"match_id"`
	RunID       string             `json:"run_id"`
	Currency    string             `json:"currency"`
	Pool        int64              `json:"pool"`
	Unallocated int64              `json:"unallocated"`
	Allocations []payoutAllocation `json:"allocations"`
}

// PayoutDeduplicationID keys payout jobs per contest and match so a rerun
// inside the QStash dedup window cannot pay twice.
func PayoutDeduplicationID(dist contest.Distribution) string {
	return "payout-" + dist.MatchID + "-" + dist.ContestID
}

func (p *QStashPublisher) DispatchPayout(ctx context.Context, dist contest.Distribution) error {
	if strings.TrimSpace(dist.ContestID) == "" || strings.TrimSpace(dist.MatchID) == "" {
		return crerr.New("distribution needs contest and match ids")
	}

	job := payoutJob{
		ContestID:   dist.ContestID,
		MatchID:     dist.MatchID,
		RunID:       dist.RunID,
		Currency:    dist.Currency,
		Pool:        dist.Pool,
		Unallocated: dist.Unallocated,
		Allocations: make([]payoutAllocation, 0, len(dist.Allocations)),
	}
	for _, item := range dist.Allocations {
		job.Allocations = append(job.Allocations, payoutAllocation{
			TeamID:      item.TeamID,
			OwnerID:     item.OwnerID,
			Rank:        item.Rank,
			BasisPoints: item.BasisPoints,
			Amount:      item.Amount,
		})
	}

	return p.Enqueue(ctx, p.payoutPath, job, PayoutDeduplicationID(dist))
}

// Enqueue publishes payload to path on the target service through QStash.
func (p *QStashPublisher) Enqueue(ctx context.Context, path string, payload any, deduplicationID string) error {
	path = "/" + strings.TrimLeft(strings.TrimSpace(path), "/")
	if path == "/" {
		return crerr.New("job path is required")
	}
	baseURL, err := validateHTTPBaseURL(p.baseURL)
	if err != nil {
		return crerr.Wrap(err, "invalid QSTASH_BASE_URL")
	}
	targetBaseURL, err := validateHTTPBaseURL(p.targetBaseURL)
	if err != nil {
		return crerr.Wrap(err, "invalid QSTASH_TARGET_BASE_URL")
	}

	targetURL := targetBaseURL + path
	publishURL := baseURL + "/v2/publish/" + targetURL
	if payload == nil {
		payload = map[string]any{}
	}
	body, err := sonic.Marshal(payload)
	if err != nil {
		return crerr.Wrap(err, "marshal job payload")
	}

	headers := p.headers(deduplicationID)
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.String("qstash.target_url", targetURL),
			attribute.String("qstash.deduplication_id", deduplicationID),
			attribute.Int("qstash.body_bytes", len(body)),
		)
	}
	p.logger.DebugContext(ctx, "qstash publish request", "path", path, "curl_preview", curlPreview(publishURL, headers, truncateForLog(string(body), 2048)))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, publishURL, bytes.NewReader(body))
	if err != nil {
		return crerr.Wrap(err, "create qstash request")
	}
	for _, h := range headers {
		req.Header.Set(h.name, h.value)
	}

	if err := p.breaker.Allow(); err != nil {
		p.logger.WarnContext(ctx, "qstash circuit breaker rejected request", "state", p.breaker.State())
		return crerr.Wrap(err, "qstash is temporarily unavailable")
	}
	callErr := p.send(req, targetURL)
	p.recordCircuitResult(callErr)
	if callErr != nil {
		return callErr
	}

	p.logger.InfoContext(ctx, "qstash job published", "path", path, "deduplication_id", deduplicationID)
	return nil
}

func (p *QStashPublisher) send(req *http.Request, targetURL string) error {
	resp, err := p.client.Do(req)
	if err != nil {
		return crerr.Wrapf(errQStashTransient, "publish qstash job target_url=%s: %v", targetURL, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 == 2 {
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if isQStashRetryableStatus(resp.StatusCode) {
		return crerr.Wrapf(errQStashTransient, "publish qstash job status=%d target_url=%s body=%s", resp.StatusCode, targetURL, strings.TrimSpace(string(raw)))
	}
	return crerr.Newf("publish qstash job status=%d target_url=%s body=%s", resp.StatusCode, targetURL, strings.TrimSpace(string(raw)))
}

type header struct {
	name   string
	value  string
	secret bool
}

func (p *QStashPublisher) headers(deduplicationID string) []header {
	out := []header{
		{name: "Authorization", value: "Bearer " + p.token, secret: true},
		{name: "Content-Type", value: "application/json"},
		{name: "Upstash-Method", value: http.MethodPost},
	}
	if p.retries > 0 {
		out = append(out, header{name: "Upstash-Retries", value: strconv.Itoa(p.retries)})
	}
	if id := strings.TrimSpace(deduplicationID); id != "" {
		out = append(out, header{name: "Upstash-Deduplication-Id", value: id})
	}
	if p.internalJobToken != "" {
		out = append(out, header{name: "Upstash-Forward-X-Internal-Job-Token", value: p.internalJobToken, secret: true})
	}
	return out
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

// curlPreview renders a copy-pasteable request with secrets masked.
func curlPreview(publishURL string, headers []header, body string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("curl -X POST ")
	_, _ = buf.WriteString(shellQuote(publishURL))
	for _, h := range headers {
		value := h.value
		if h.secret {
			value = maskSecret(h.name, value)
		}
		_, _ = buf.WriteString(" -H ")
		_, _ = buf.WriteString(shellQuote(h.name + ": " + value))
	}
	_, _ = buf.WriteString(" -d ")
	_, _ = buf.WriteString(shellQuote(body))

	return buf.String()
}

func maskSecret(name, value string) string {
	if name == "Authorization" {
		return "Bearer ***"
	}
	if value == "" {
		return value
	}
	return "***"
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, limit int) string {
	if limit <= 0 || len(value) <= limit {
		return value
	}
	return value[:limit] + "...(truncated)"
}

func (p *QStashPublisher) recordCircuitResult(err error) {
	p.breaker.Record(err, func(err error) bool {
		return stderrors.Is(err, errQStashTransient)
	})
}

func isQStashRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}

// NoopDispatcher logs distributions instead of publishing them. It backs
// deployments without QStash.
type NoopDispatcher struct {
	Logger *logging.Logger
}

func (d NoopDispatcher) DispatchPayout(ctx context.Context, dist contest.Distribution) error {
	logger := d.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger.InfoContext(ctx, "payout dispatch skipped, qstash disabled",
		"contest_id", dist.ContestID,
		"match_id", dist.MatchID,
		"allocations", len(dist.Allocations),
		"unallocated", dist.Unallocated,
	)
	return nil
}

var _ usecase.PayoutDispatcher = NoopDispatcher{}
