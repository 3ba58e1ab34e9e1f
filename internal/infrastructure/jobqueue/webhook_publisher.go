package jobqueue

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/strideleague/strideleague/internal/platform/logging"
	"github.com/strideleague/strideleague/internal/platform/resilience"
	"github.com/strideleague/strideleague/internal/usecase"
)

type WebhookPublisherConfig struct {
	Endpoint string
	Token    string
	Timeout  time.Duration
}

// WebhookPublisher posts engine events to a host-owned HTTP endpoint. An
// optional circuit breaker sheds deliveries while the host is failing.
type WebhookPublisher struct {
	client   *http.Client
	endpoint string
	token    string
	breaker  *resilience.CircuitBreaker
	logger   *logging.Logger
}

func NewWebhookPublisher(cfg WebhookPublisherConfig, breaker *resilience.CircuitBreaker, logger *logging.Logger) (*WebhookPublisher, error) {
	endpoint, err := validateHTTPEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid WEBHOOK_ENDPOINT: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &WebhookPublisher{
		client:   &http.Client{Timeout: timeout},
		endpoint: endpoint,
		token:    strings.TrimSpace(cfg.Token),
		breaker:  breaker,
		logger:   logger,
	}, nil
}

func (p *WebhookPublisher) Publish(ctx context.Context, ev usecase.Event) error {
	if p.breaker != nil {
		if err := p.breaker.Allow(); err != nil {
			p.logger.WarnContext(ctx, "webhook delivery shed", "event_type", ev.Type, "league_id", ev.LeagueID)
			return err
		}
	}

	err := p.deliver(ctx, ev)
	if p.breaker != nil {
		if err != nil {
			p.breaker.RecordFailure()
		} else {
			p.breaker.RecordSuccess()
		}
	}
	return err
}

func (p *WebhookPublisher) deliver(ctx context.Context, ev usecase.Event) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(ev); err != nil {
		return fmt.Errorf("marshal webhook event: %w", err)
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("webhook.endpoint", p.endpoint),
			attribute.String("webhook.event_type", ev.Type),
			attribute.String("webhook.dedup_id", ev.DedupID()),
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(buf.B))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Dedup-Id", ev.DedupID())
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook event type=%s league=%s: %w", ev.Type, ev.LeagueID, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("post webhook event status=%d type=%s league=%s body=%s",
			resp.StatusCode, ev.Type, ev.LeagueID, strings.TrimSpace(string(raw)))
	}

	p.logger.InfoContext(ctx, "webhook event published",
		"event_type", ev.Type, "league_id", ev.LeagueID, "dedup_id", ev.DedupID())
	return nil
}

func validateHTTPEndpoint(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", fmt.Errorf("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", candidate, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", fmt.Errorf("%q has empty host", candidate)
	}
	return strings.TrimRight(candidate, "/"), nil
}
