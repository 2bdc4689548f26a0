package board

import "github.com/samirrijal/trmnl-departures/internal/core/domain"

// Normalize reduces a raw departure to the times and mode shown on the display.
// It fails when a required field is missing or a time cannot be parsed.
func Normalize(d domain.RawDeparture) (domain.DisplayItem, error) {
	return normalizeAt(0, d)
}

func normalizeAt(i int, d domain.RawDeparture) (domain.DisplayItem, error) {
	if err := requireFields(i, d); err != nil {
		return domain.DisplayItem{}, err
	}
	schedule, err := FormatClock(*d.AimedDeparture)
	if err != nil {
		return domain.DisplayItem{}, &domain.MalformedDepartureError{Index: i, Field: "aimedDepartureTime", Err: err}
	}
	expected, err := FormatClock(*d.ExpectedDeparture)
	if err != nil {
		return domain.DisplayItem{}, &domain.MalformedDepartureError{Index: i, Field: "expectedDepartureTime", Err: err}
	}
	return domain.DisplayItem{
		Schedule: schedule,
		Expected: expected,
		Type:     *d.TransportMode,
	}, nil
}

func requireFields(i int, d domain.RawDeparture) error {
	switch {
	case d.Destination == nil:
		return &domain.MalformedDepartureError{Index: i, Field: "destinationDisplay.frontText"}
	case d.AimedDeparture == nil:
		return &domain.MalformedDepartureError{Index: i, Field: "aimedDepartureTime"}
	case d.ExpectedDeparture == nil:
		return &domain.MalformedDepartureError{Index: i, Field: "expectedDepartureTime"}
	case d.LineCode == nil:
		return &domain.MalformedDepartureError{Index: i, Field: "serviceJourney.line.publicCode"}
	case d.TransportMode == nil:
		return &domain.MalformedDepartureError{Index: i, Field: "serviceJourney.line.transportMode"}
	}
	return nil
}
