package board

import (
	"time"

	"github.com/samirrijal/trmnl-departures/internal/core/domain"
)

// LastUpdatedLayout is the display format of Document.LastUpdated.
const LastUpdatedLayout = "15:04"

// Meta carries the request echo and upstream details attached to a Document.
type Meta struct {
	StopName         string
	ExcludePlatforms string
	WindowMinutes    int
	FetchLimit       int
	Now              time.Time
}

// Assemble folds sorted, filtered groups into the display document. total is
// the number of raw departures before grouping and filtering.
func Assemble(total int, groups []domain.Group, meta Meta) *domain.Document {
	doc := &domain.Document{
		LastUpdated:      meta.Now.UTC().Format(LastUpdatedLayout),
		MinutesToFetch:   meta.WindowMinutes,
		NumDepartures:    total,
		Name:             meta.StopName,
		ExcludePlatforms: meta.ExcludePlatforms,
		FetchLimit:       meta.FetchLimit,
	}
	for _, g := range groups {
		doc.Departures.Add(g.Key.Line, g.Key.Label(), g.Items)
		doc.NumShown += len(g.Items)
	}
	return doc
}
