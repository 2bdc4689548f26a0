// Package board turns a flat upstream departure list into the grouped,
// ordered and filtered document shown on the e-ink display. Nothing here
// performs I/O.
package board

import "github.com/samirrijal/trmnl-departures/internal/core/domain"

// Result keeps the intermediate stages of a pipeline run for logging and
// rendering. Groups is sorted but unfiltered; Shown is what the document holds.
type Result struct {
	Groups   []domain.Group
	Shown    []domain.Group
	Document *domain.Document
}

// Run groups, sorts, filters and assembles departures in one pass.
func Run(departures []domain.RawDeparture, exclude ExclusionSet, meta Meta) (*Result, error) {
	groups, err := Group(departures)
	if err != nil {
		return nil, err
	}
	Sort(groups)
	shown := exclude.Filter(groups)
	return &Result{
		Groups:   groups,
		Shown:    shown,
		Document: Assemble(len(departures), shown, meta),
	}, nil
}
