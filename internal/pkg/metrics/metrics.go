package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trmnl",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "trmnl",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "trmnl",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Upstream journey planner
	UpstreamFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "trmnl",
		Subsystem: "upstream",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of departure board fetches from the journey planner",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	UpstreamFetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trmnl",
		Subsystem: "upstream",
		Name:      "fetch_errors_total",
		Help:      "Total failed departure board fetches",
	}, []string{"reason"})

	// Board pipeline
	BoardsBuilt = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trmnl",
		Subsystem: "board",
		Name:      "built_total",
		Help:      "Total departure boards assembled",
	})

	MalformedBoards = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trmnl",
		Subsystem: "board",
		Name:      "malformed_total",
		Help:      "Boards rejected because an upstream record was malformed",
	})

	DeparturesFetched = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "trmnl",
		Subsystem: "board",
		Name:      "departures_fetched",
		Help:      "Raw departures per board before filtering",
		Buckets:   prometheus.LinearBuckets(0, 25, 9),
	})

	DeparturesExcluded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trmnl",
		Subsystem: "board",
		Name:      "departures_excluded_total",
		Help:      "Departures hidden by platform exclusion",
	})

	AuthFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trmnl",
		Subsystem: "http",
		Name:      "auth_failures_total",
		Help:      "Requests rejected for a missing or wrong shared secret",
	})

	EventPublishErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "trmnl",
		Subsystem: "events",
		Name:      "publish_errors_total",
		Help:      "Board-served events that could not be published",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
