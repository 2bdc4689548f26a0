package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/trmnl-departures/internal/core/domain"
	"github.com/samirrijal/trmnl-departures/internal/core/usecases"
)

// buildSchema exposes the departure board as a GraphQL query. Lines and
// destinations are lists since GraphQL objects cannot carry dynamic keys.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	departureType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Departure",
		Fields: graphql.Fields{
			"schedule": &graphql.Field{Type: graphql.String},
			"expected": &graphql.Field{Type: graphql.String},
			"type":     &graphql.Field{Type: graphql.String},
		},
	})

	destinationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Destination",
		Fields: graphql.Fields{
			"label":      &graphql.Field{Type: graphql.String},
			"departures": &graphql.Field{Type: graphql.NewList(departureType)},
		},
	})

	lineType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Line",
		Fields: graphql.Fields{
			"line":         &graphql.Field{Type: graphql.String},
			"numeric":      &graphql.Field{Type: graphql.Boolean},
			"destinations": &graphql.Field{Type: graphql.NewList(destinationType)},
		},
	})

	boardType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Board",
		Fields: graphql.Fields{
			"name":             &graphql.Field{Type: graphql.String},
			"lastUpdated":      &graphql.Field{Type: graphql.String},
			"minutesToFetch":   &graphql.Field{Type: graphql.Int},
			"numDepartures":    &graphql.Field{Type: graphql.Int},
			"numShown":         &graphql.Field{Type: graphql.Int},
			"excludePlatforms": &graphql.Field{Type: graphql.String},
			"fetchLimit":       &graphql.Field{Type: graphql.Int},
			"lines":            &graphql.Field{Type: graphql.NewList(lineType)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"board": &graphql.Field{
				Type:        boardType,
				Description: "Grouped departure board for a stop place",
				Args: graphql.FieldConfigArgument{
					"stop":              &graphql.ArgumentConfig{Type: graphql.String},
					"excludePlatforms":  &graphql.ArgumentConfig{Type: graphql.String},
					"excludeUnassigned": &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
					"minutesToFetch":    &graphql.ArgumentConfig{Type: graphql.Int},
					"fetchLimit":        &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					req, err := boardRequestFromArgs(p.Args, deps.limits())
					if err != nil {
						return nil, err
					}
					req.LeadMinutes = deps.Board.Defaults().LeadMinutes

					res, err := deps.Board.Build(p.Context, req)
					if err != nil {
						return nil, err
					}
					return boardToMap(res.Document), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

func boardRequestFromArgs(args map[string]interface{}, limits BoardLimits) (usecases.BoardRequest, error) {
	var req usecases.BoardRequest
	req.StopID, _ = args["stop"].(string)
	req.ExcludePlatforms, _ = args["excludePlatforms"].(string)
	req.ExcludeUnassigned, _ = args["excludeUnassigned"].(bool)

	if n, ok := args["minutesToFetch"].(int); ok {
		if err := checkRange("minutesToFetch", n, limits.MaxWindow); err != nil {
			return req, err
		}
		req.WindowMinutes = n
	}
	if n, ok := args["fetchLimit"].(int); ok {
		if err := checkRange("fetchLimit", n, limits.MaxFetchLimit); err != nil {
			return req, err
		}
		req.FetchLimit = n
	}
	return req, nil
}

func boardToMap(doc *domain.Document) map[string]interface{} {
	lines := make([]map[string]interface{}, 0, doc.Departures.Len())
	for _, l := range doc.Departures.Lines() {
		dests := make([]map[string]interface{}, 0, len(l.Destinations))
		for _, d := range l.Destinations {
			items := make([]map[string]interface{}, 0, len(d.Items))
			for _, it := range d.Items {
				items = append(items, map[string]interface{}{
					"schedule": it.Schedule,
					"expected": it.Expected,
					"type":     it.Type,
				})
			}
			dests = append(dests, map[string]interface{}{
				"label":      d.Label,
				"departures": items,
			})
		}
		lines = append(lines, map[string]interface{}{
			"line":         l.Line.String(),
			"numeric":      l.Line.IsNumeric(),
			"destinations": dests,
		})
	}
	return map[string]interface{}{
		"name":             doc.Name,
		"lastUpdated":      doc.LastUpdated,
		"minutesToFetch":   doc.MinutesToFetch,
		"numDepartures":    doc.NumDepartures,
		"numShown":         doc.NumShown,
		"excludePlatforms": doc.ExcludePlatforms,
		"fetchLimit":       doc.FetchLimit,
		"lines":            lines,
	}
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		panic(fmt.Sprintf("graphql schema build: %v", err))
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Query == "" {
			return errBadRequest(c, "query is required")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.JSON(result)
	}
}
