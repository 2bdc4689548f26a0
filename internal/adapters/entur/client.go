// Package entur fetches live departure boards from the Entur journey planner.
package entur

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/trmnl-departures/internal/core/domain"
	"github.com/samirrijal/trmnl-departures/internal/pkg/telemetry"
)

// DefaultURL is the public journey planner v3 GraphQL endpoint.
const DefaultURL = "https://api.entur.io/journey-planner/v3/graphql"

// startTimeLayout is the millisecond UTC form the journey planner expects.
const startTimeLayout = "2006-01-02T15:04:05.000Z"

// Config configures a Client.
type Config struct {
	URL        string
	ClientName string
	Contact    string
	Timeout    time.Duration
}

// Client implements ports.DepartureSource against the journey planner.
type Client struct {
	http       *fasthttp.Client
	url        string
	clientName string
	contact    string
	timeout    time.Duration
	tracer     trace.Tracer
}

// NewClient validates the departures query and builds a client.
func NewClient(cfg Config) (*Client, error) {
	if err := parseQuery(departuresQuery, operationName); err != nil {
		return nil, err
	}
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		http: &fasthttp.Client{
			Name:                "trmnl-departures",
			ReadTimeout:         cfg.Timeout,
			WriteTimeout:        cfg.Timeout,
			MaxIdleConnDuration: 30 * time.Second,
		},
		url:        cfg.URL,
		clientName: cfg.ClientName,
		contact:    cfg.Contact,
		timeout:    cfg.Timeout,
		tracer:     telemetry.Tracer(),
	}, nil
}

// FetchDepartures returns the stop name and its departures in upstream order.
// Any transport, status, GraphQL or decode failure is an *domain.UpstreamError.
func (c *Client) FetchDepartures(ctx context.Context, q domain.DepartureQuery) (*domain.StopDepartures, error) {
	ctx, span := c.tracer.Start(ctx, telemetry.SpanFetchDepartures, trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String(telemetry.AttrStopID, q.StopID)))
	defer span.End()

	out, err := c.fetch(ctx, q)
	if err != nil {
		var up *domain.UpstreamError
		if errors.As(err, &up) && up.StatusCode != 0 {
			span.SetAttributes(attribute.Int(telemetry.AttrHTTPStatus, up.StatusCode))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch departures")
		return nil, err
	}
	span.SetAttributes(attribute.Int(telemetry.AttrNumDepartures, len(out.Departures)))
	return out, nil
}

func (c *Client) fetch(ctx context.Context, q domain.DepartureQuery) (*domain.StopDepartures, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.UpstreamError{Err: err}
	}

	now := q.Now
	if now.IsZero() {
		now = time.Now()
	}
	body, err := json.Marshal(graphQLRequest{
		Query:         departuresQuery,
		OperationName: operationName,
		Variables: map[string]any{
			"ids":                []string{q.StopID},
			"startTime":          now.Add(time.Duration(q.LeadMinutes) * time.Minute).UTC().Format(startTimeLayout),
			"timeRange":          q.WindowMinutes * 60,
			"numberOfDepartures": q.Limit,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode departures request: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set(fasthttp.HeaderAccept, "application/json, text/plain, */*")
	req.Header.Set("X-Correlation-Id", uuid.NewString())
	if c.clientName != "" {
		req.Header.Set("ET-Client-Name", c.clientName)
	}
	if c.contact != "" {
		req.Header.Set("X-Contact", c.contact)
	}
	injectTrace(ctx, &req.Header)
	req.SetBody(body)

	if err := c.http.DoTimeout(req, resp, c.requestTimeout(ctx)); err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) {
			err = fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
		}
		return nil, &domain.UpstreamError{Err: fmt.Errorf("POST %s: %w", c.url, err)}
	}

	status := resp.StatusCode()
	if status != fasthttp.StatusOK {
		return nil, &domain.UpstreamError{StatusCode: status, Err: fmt.Errorf("unexpected status from %s", c.url)}
	}

	var decoded boardResponse
	if err := json.Unmarshal(resp.Body(), &decoded); err != nil {
		return nil, &domain.UpstreamError{Err: fmt.Errorf("decode departures JSON: %w", err)}
	}
	if len(decoded.Errors) > 0 {
		msgs := make([]string, 0, len(decoded.Errors))
		for _, e := range decoded.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, &domain.UpstreamError{Err: fmt.Errorf("graphql: %s", strings.Join(msgs, "; "))}
	}
	if len(decoded.Data.Board) == 0 || decoded.Data.Board[0] == nil {
		return nil, &domain.UpstreamError{Err: fmt.Errorf("stop place %s not found", q.StopID)}
	}

	place := decoded.Data.Board[0]
	out := &domain.StopDepartures{
		StopName:   place.Name,
		Departures: make([]domain.RawDeparture, 0, len(place.EstimatedCalls)),
	}
	for _, call := range place.EstimatedCalls {
		out.Departures = append(out.Departures, call.toRaw())
	}
	return out, nil
}

// requestTimeout caps the client timeout by the context deadline, if sooner.
func (c *Client) requestTimeout(ctx context.Context) time.Duration {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		timeout = time.Millisecond
	}
	return timeout
}

func injectTrace(ctx context.Context, h *fasthttp.RequestHeader) {
	carrier := propagation.HeaderCarrier(http.Header{})
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for _, k := range carrier.Keys() {
		h.Set(k, carrier.Get(k))
	}
}
