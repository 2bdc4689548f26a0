package board

import "github.com/samirrijal/trmnl-departures/internal/core/domain"

// KeyOf builds the grouping key of a departure. Callers must have validated
// the required fields.
func KeyOf(d domain.RawDeparture) domain.GroupKey {
	return domain.GroupKey{
		Line:        domain.ParseLineID(*d.LineCode),
		Destination: *d.Destination,
		Platform:    d.Platform,
	}
}

// Group partitions departures by (line, destination, platform). Groups come
// back in first-seen order and members keep their upstream order. Any
// malformed record fails the whole call.
func Group(departures []domain.RawDeparture) ([]domain.Group, error) {
	groups := make([]domain.Group, 0)
	seen := make(map[domain.GroupID]int)

	for i, d := range departures {
		item, err := normalizeAt(i, d)
		if err != nil {
			return nil, err
		}
		key := KeyOf(d)
		pos, ok := seen[key.ID()]
		if !ok {
			pos = len(groups)
			seen[key.ID()] = pos
			groups = append(groups, domain.Group{Key: key})
		}
		groups[pos].Items = append(groups[pos].Items, item)
	}
	return groups, nil
}
