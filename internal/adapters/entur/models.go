package entur

import "github.com/samirrijal/trmnl-departures/internal/core/domain"

type graphQLRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type boardResponse struct {
	Data struct {
		Board []*stopPlace `json:"board"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type stopPlace struct {
	Name           string          `json:"name"`
	EstimatedCalls []estimatedCall `json:"estimatedCalls"`
}

type estimatedCall struct {
	DestinationDisplay *struct {
		FrontText *string `json:"frontText"`
	} `json:"destinationDisplay"`
	Quay *struct {
		PublicCode *string `json:"publicCode"`
	} `json:"quay"`
	ExpectedDepartureTime *string `json:"expectedDepartureTime"`
	AimedDepartureTime    *string `json:"aimedDepartureTime"`
	ServiceJourney        *struct {
		Line *struct {
			PublicCode    *string `json:"publicCode"`
			TransportMode *string `json:"transportMode"`
		} `json:"line"`
	} `json:"serviceJourney"`
}

// toRaw flattens an estimated call. Missing nested objects become nil fields
// and are rejected later by the board pipeline; a missing quay means no platform.
func (e estimatedCall) toRaw() domain.RawDeparture {
	d := domain.RawDeparture{
		AimedDeparture:    e.AimedDepartureTime,
		ExpectedDeparture: e.ExpectedDepartureTime,
	}
	if e.DestinationDisplay != nil {
		d.Destination = e.DestinationDisplay.FrontText
	}
	if e.Quay != nil {
		d.Platform = e.Quay.PublicCode
	}
	if e.ServiceJourney != nil && e.ServiceJourney.Line != nil {
		d.LineCode = e.ServiceJourney.Line.PublicCode
		d.TransportMode = e.ServiceJourney.Line.TransportMode
	}
	return d
}
