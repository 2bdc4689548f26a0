package entur

import (
	"fmt"
	"strings"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"

	"github.com/samirrijal/trmnl-departures/internal/core/domain"
)

// departuresQuery asks for one stop place and its upcoming estimated calls
// in every board mode.
var departuresQuery = fmt.Sprintf(departuresTemplate, strings.Join(domain.BoardModes, ", "))

const departuresTemplate = `
fragment estimatedCallsParts on EstimatedCall {
  destinationDisplay {
    frontText
  }
  quay {
    publicCode
  }
  expectedDepartureTime
  aimedDepartureTime
  serviceJourney {
    line {
      publicCode
      transportMode
    }
  }
}

query board($ids: [String]!, $startTime: DateTime!, $timeRange: Int!, $numberOfDepartures: Int!) {
  board: stopPlaces(ids: $ids) {
    name
    estimatedCalls(
      startTime: $startTime
      whiteListedModes: [%s]
      numberOfDepartures: $numberOfDepartures
      arrivalDeparture: departures
      includeCancelledTrips: true
      timeRange: $timeRange
    ) {
      ...estimatedCallsParts
    }
  }
}
`

const operationName = "board"

// parseQuery checks that doc is well-formed GraphQL and defines the named
// operation.
func parseQuery(doc, operation string) error {
	parsed, err := parser.Parse(parser.ParseParams{Source: doc})
	if err != nil {
		return fmt.Errorf("parse departures query: %w", err)
	}
	for _, def := range parsed.Definitions {
		if op, ok := def.(*ast.OperationDefinition); ok && op.Name != nil && op.Name.Value == operation {
			return nil
		}
	}
	return fmt.Errorf("departures query has no operation %q", operation)
}
