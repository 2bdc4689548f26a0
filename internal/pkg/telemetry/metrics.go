package telemetry

// Span and attribute names used for instrumentation.
const (
	TracerName = "github.com/samirrijal/trmnl-departures"

	SpanBuildBoard      = "board.build"
	SpanFetchDepartures = "entur.fetch_departures"

	AttrStopID        = "board.stop_id"
	AttrWindowMinutes = "board.window_minutes"
	AttrFetchLimit    = "board.fetch_limit"
	AttrNumDepartures = "board.num_departures"
	AttrNumShown      = "board.num_shown"
	AttrNumGroups     = "board.num_groups"
	AttrHTTPStatus    = "http.status_code"
)
