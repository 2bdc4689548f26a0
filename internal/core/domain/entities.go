package domain

import "time"

// Transport modes whitelisted on the upstream departure board.
const (
	ModeRail  = "rail"
	ModeBus   = "bus"
	ModeMetro = "metro"
	ModeTram  = "tram"
	ModeWater = "water"
	ModeCoach = "coach"
)

// BoardModes lists every transport mode requested from the journey planner.
var BoardModes = []string{ModeRail, ModeBus, ModeMetro, ModeTram, ModeWater, ModeCoach}

// RawDeparture is one departure record as received from the journey planner.
// Required fields are pointers so a missing value can be told apart from an
// empty one. Platform is nil when the quay has no public code.
type RawDeparture struct {
	Destination       *string `json:"destination"`
	Platform          *string `json:"platform"`
	AimedDeparture    *string `json:"aimed_departure"`
	ExpectedDeparture *string `json:"expected_departure"`
	LineCode          *string `json:"line_code"`
	TransportMode     *string `json:"transport_mode"`
}

// DepartureQuery describes a single upstream departure board request.
type DepartureQuery struct {
	StopID        string
	WindowMinutes int
	LeadMinutes   int
	Limit         int
	// Now anchors the board start time; zero means time.Now().
	Now time.Time
}

// StopDepartures is the upstream answer to a DepartureQuery.
type StopDepartures struct {
	StopName   string
	Departures []RawDeparture
}

// DisplayItem is the minimal per-departure record shown on the display.
type DisplayItem struct {
	Schedule string `json:"schedule"`
	Expected string `json:"expected"`
	Type     string `json:"type"`
}

// GroupKey identifies the departures sharing a line, destination and platform.
type GroupKey struct {
	Line        LineID
	Destination string
	Platform    *string
}

// GroupID is the comparable form of a GroupKey, usable as a map key.
type GroupID struct {
	line        LineID
	destination string
	hasPlatform bool
	platform    string
}

// ID returns the key's identity. Keys with equal IDs belong to one group.
func (k GroupKey) ID() GroupID {
	id := GroupID{line: k.Line, destination: k.Destination}
	if k.Platform != nil {
		id.hasPlatform = true
		id.platform = *k.Platform
	}
	return id
}

// Equal reports whether two keys match on all three fields. Two absent
// platforms are equal.
func (k GroupKey) Equal(o GroupKey) bool { return k.ID() == o.ID() }

// Label is the inner display key: "<destination> - <platform>", or just the
// destination when there is no platform.
func (k GroupKey) Label() string {
	if k.Platform == nil {
		return k.Destination
	}
	return k.Destination + " - " + *k.Platform
}

// PlatformString returns the platform code or "" when absent.
func (k GroupKey) PlatformString() string {
	if k.Platform == nil {
		return ""
	}
	return *k.Platform
}

// Group is a GroupKey together with its members in upstream arrival order.
type Group struct {
	Key   GroupKey
	Items []DisplayItem
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// BoardServed is emitted after a board document has been built.
type BoardServed struct {
	StopID        string    `json:"stop_id"`
	StopName      string    `json:"stop_name"`
	NumDepartures int       `json:"num_departures"`
	NumShown      int       `json:"num_shown"`
	NumGroups     int       `json:"num_groups"`
	Duration      float64   `json:"duration_seconds"`
	BuiltAt       time.Time `json:"built_at"`
}
