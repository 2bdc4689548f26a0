package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/trmnl-departures/internal/core/board"
	"github.com/samirrijal/trmnl-departures/internal/core/domain"
	"github.com/samirrijal/trmnl-departures/internal/core/ports"
	"github.com/samirrijal/trmnl-departures/internal/pkg/logging"
	"github.com/samirrijal/trmnl-departures/internal/pkg/metrics"
	"github.com/samirrijal/trmnl-departures/internal/pkg/telemetry"
)

// BoardDefaults fill in request fields left at their zero value.
type BoardDefaults struct {
	StopID        string
	WindowMinutes int
	LeadMinutes   int
	FetchLimit    int
}

// BoardRequest is one departure board request.
type BoardRequest struct {
	StopID            string
	ExcludePlatforms  string
	ExcludeUnassigned bool
	WindowMinutes     int
	LeadMinutes       int
	FetchLimit        int
}

// BoardService fetches a stop's departures and turns them into a display document.
type BoardService struct {
	source    ports.DepartureSource
	publisher ports.EventPublisher
	defaults  BoardDefaults
	now       func() time.Time
	tracer    trace.Tracer
}

// NewBoardService creates a new BoardService. publisher may be nil.
func NewBoardService(source ports.DepartureSource, publisher ports.EventPublisher, defaults BoardDefaults) *BoardService {
	return &BoardService{
		source:    source,
		publisher: publisher,
		defaults:  defaults,
		now:       time.Now,
		tracer:    telemetry.Tracer(),
	}
}

// WithClock replaces the time source, for tests and replays.
func (s *BoardService) WithClock(now func() time.Time) *BoardService {
	s.now = now
	return s
}

// Defaults returns the configured fallbacks.
func (s *BoardService) Defaults() BoardDefaults { return s.defaults }

func (s *BoardService) resolve(req BoardRequest) BoardRequest {
	if req.StopID == "" {
		req.StopID = s.defaults.StopID
	}
	if req.WindowMinutes <= 0 {
		req.WindowMinutes = s.defaults.WindowMinutes
	}
	if req.LeadMinutes < 0 {
		req.LeadMinutes = 0
	}
	if req.FetchLimit <= 0 {
		req.FetchLimit = s.defaults.FetchLimit
	}
	return req
}

// Build performs one fetch-transform cycle. Upstream and malformed-record
// failures abort the whole board.
func (s *BoardService) Build(ctx context.Context, req BoardRequest) (*board.Result, error) {
	req = s.resolve(req)
	log := logging.FromContext(ctx)
	start := s.now()

	ctx, span := s.tracer.Start(ctx, telemetry.SpanBuildBoard, trace.WithAttributes(
		attribute.String(telemetry.AttrStopID, req.StopID),
		attribute.Int(telemetry.AttrWindowMinutes, req.WindowMinutes),
		attribute.Int(telemetry.AttrFetchLimit, req.FetchLimit),
	))
	defer span.End()

	fetchStart := time.Now()
	stop, err := s.source.FetchDepartures(ctx, domain.DepartureQuery{
		StopID:        req.StopID,
		WindowMinutes: req.WindowMinutes,
		LeadMinutes:   req.LeadMinutes,
		Limit:         req.FetchLimit,
		Now:           start,
	})
	metrics.UpstreamFetchDuration.Observe(time.Since(fetchStart).Seconds())
	if err != nil {
		metrics.UpstreamFetchErrors.WithLabelValues(fetchErrorReason(err)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch departures")
		return nil, fmt.Errorf("fetch departures for %s: %w", req.StopID, err)
	}

	exclude := board.ParseExclusions(req.ExcludePlatforms)
	exclude.Unassigned = req.ExcludeUnassigned

	res, err := board.Run(stop.Departures, exclude, board.Meta{
		StopName:         stop.StopName,
		ExcludePlatforms: req.ExcludePlatforms,
		WindowMinutes:    req.WindowMinutes,
		FetchLimit:       req.FetchLimit,
		Now:              start,
	})
	if err != nil {
		metrics.MalformedBoards.Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "build board")
		return nil, fmt.Errorf("build board for %s: %w", req.StopID, err)
	}

	doc := res.Document
	metrics.BoardsBuilt.Inc()
	metrics.DeparturesFetched.Observe(float64(doc.NumDepartures))
	metrics.DeparturesExcluded.Add(float64(doc.NumDepartures - doc.NumShown))
	span.SetAttributes(
		attribute.Int(telemetry.AttrNumDepartures, doc.NumDepartures),
		attribute.Int(telemetry.AttrNumShown, doc.NumShown),
		attribute.Int(telemetry.AttrNumGroups, len(res.Shown)),
	)

	log.Info("board built",
		"stop", req.StopID,
		"name", doc.Name,
		"departures", doc.NumDepartures,
		"shown", doc.NumShown,
		"groups", len(res.Groups),
		"groups_shown", len(res.Shown),
	)
	if log.Enabled(ctx, slog.LevelDebug) {
		logGroups(ctx, log, res.Shown)
	}

	s.publish(ctx, req, res, s.now().Sub(start))
	return res, nil
}

func (s *BoardService) publish(ctx context.Context, req BoardRequest, res *board.Result, took time.Duration) {
	if s.publisher == nil {
		return
	}
	event := &domain.BoardServed{
		StopID:        req.StopID,
		StopName:      res.Document.Name,
		NumDepartures: res.Document.NumDepartures,
		NumShown:      res.Document.NumShown,
		NumGroups:     len(res.Shown),
		Duration:      took.Seconds(),
		BuiltAt:       s.now().UTC(),
	}
	// Best-effort; the board is already built
	if err := s.publisher.PublishBoardServed(ctx, event); err != nil {
		metrics.EventPublishErrors.Inc()
		logging.FromContext(ctx).Warn("publish board event", "stop", req.StopID, "error", err)
	}
}

func logGroups(ctx context.Context, log *slog.Logger, groups []domain.Group) {
	for _, g := range groups {
		times := make([]string, 0, len(g.Items))
		for _, it := range g.Items {
			times = append(times, it.Schedule+" - "+it.Expected)
		}
		mode := ""
		if len(g.Items) > 0 {
			mode = g.Items[0].Type
		}
		log.DebugContext(ctx, "board group",
			"line", g.Key.Line.String(),
			"destination", g.Key.Destination,
			"platform", g.Key.PlatformString(),
			"type", mode,
			"times", strings.Join(times, ", "),
		)
	}
}

func fetchErrorReason(err error) string {
	var up *domain.UpstreamError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.As(err, &up) && up.StatusCode != 0:
		return "http_status"
	case errors.Is(err, domain.ErrUpstream):
		return "upstream"
	default:
		return "other"
	}
}
