package backends

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/time/rate"
)

const maxBodyBytes = 4 << 20

// Metrics records upstream request outcomes.
type Metrics interface {
	RecordUpstreamRequest(ctx context.Context, backend, endpoint, outcome string, duration time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) RecordUpstreamRequest(context.Context, string, string, string, time.Duration) {}

// ClientDeps are the collaborators shared by every backend client.
type ClientDeps struct {
	HTTPClient *http.Client
	Logger     *slog.Logger
	Tracer     trace.Tracer
	Metrics    Metrics
}

// client performs rate-limited JSON GETs against one upstream.
type client struct {
	name    string
	http    *http.Client
	limiter *rate.Limiter
	timeout time.Duration
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics Metrics
}

func newClient(name string, cfg Config, deps ClientDeps) *client {
	httpClient := deps.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := deps.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("backends")
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &client{
		name:    name,
		http:    httpClient,
		limiter: rate.NewLimiter(limit, burst),
		timeout: cfg.Timeout,
		logger:  logger.With(slog.String("backend", name)),
		tracer:  tracer,
		metrics: metrics,
	}
}

// getJSON decodes the body of a GET into out. Non-2xx statuses fail unless
// listed in accept, which lets backends that signal "not found" with an HTTP
// status still hand their body to the adapter.
func (c *client) getJSON(ctx context.Context, endpoint, rawURL string, out any, accept ...int) (err error) {
	ctx, span := c.tracer.Start(ctx, "backends."+c.name+"."+endpoint, trace.WithAttributes(
		attribute.String("backend", c.name),
		attribute.String("endpoint", endpoint),
	))
	defer span.End()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	outcome := "ok"
	defer func() {
		c.metrics.RecordUpstreamRequest(ctx, c.name, endpoint, outcome, time.Since(start))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		outcome = "rate_limited"
		return fmt.Errorf("%s %s: waiting for rate limiter: %w", c.name, endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		outcome = "bad_request"
		return fmt.Errorf("%s %s: building request: %w", c.name, endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "the-beautiful-bot")

	resp, err := c.http.Do(req)
	if err != nil {
		outcome = "transport_error"
		return fmt.Errorf("%s %s: %w", c.name, endpoint, err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "Upstream responded",
		slog.String("endpoint", endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode/100 != 2 && !slices.Contains(accept, resp.StatusCode) {
		outcome = "status_" + strconv.Itoa(resp.StatusCode)
		return fmt.Errorf("%w: %s %s returned %d", ErrUpstreamStatus, c.name, endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		outcome = "decode_error"
		return fmt.Errorf("%s %s: decoding response: %w", c.name, endpoint, err)
	}
	return nil
}
