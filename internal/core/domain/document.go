package domain

import (
	"bytes"
	"encoding/json"
)

// Document is the response served to the display client. Field names are
// consumed verbatim downstream and must not change.
type Document struct {
	Departures       LineBoard `json:"departures"`
	LastUpdated      string    `json:"last_updated"`
	MinutesToFetch   int       `json:"minutes_to_fetch"`
	NumDepartures    int       `json:"num_departures"`
	NumShown         int       `json:"num_departures-excludes"`
	Name             string    `json:"name"`
	ExcludePlatforms string    `json:"exclude_platforms"`
	FetchLimit       int       `json:"fetch_limit"`
}

// LineBoard maps line identifiers to their destination boards and keeps the
// order lines were added in.
type LineBoard struct {
	lines []LineEntry
	index map[LineID]int
}

// LineEntry is one line and its destinations, in display order.
type LineEntry struct {
	Line         LineID
	Destinations []DestinationEntry
	labels       map[string]int
}

// DestinationEntry is one "<destination> [- <platform>]" row of a line.
type DestinationEntry struct {
	Label string
	Items []DisplayItem
}

// Add appends items under line and label. A repeated label on the same line
// extends the existing entry in place.
func (b *LineBoard) Add(line LineID, label string, items []DisplayItem) {
	if b.index == nil {
		b.index = make(map[LineID]int)
	}
	i, ok := b.index[line]
	if !ok {
		i = len(b.lines)
		b.index[line] = i
		b.lines = append(b.lines, LineEntry{Line: line, labels: make(map[string]int)})
	}
	entry := &b.lines[i]
	if j, ok := entry.labels[label]; ok {
		entry.Destinations[j].Items = append(entry.Destinations[j].Items, items...)
		return
	}
	entry.labels[label] = len(entry.Destinations)
	entry.Destinations = append(entry.Destinations, DestinationEntry{
		Label: label,
		Items: append([]DisplayItem(nil), items...),
	})
}

// Lines returns the entries in display order.
func (b LineBoard) Lines() []LineEntry { return b.lines }

// Len returns the number of lines on the board.
func (b LineBoard) Len() int { return len(b.lines) }

// Line looks up the entry for a line.
func (b LineBoard) Line(id LineID) (LineEntry, bool) {
	i, ok := b.index[id]
	if !ok {
		return LineEntry{}, false
	}
	return b.lines[i], true
}

// Items returns the departures under label, if present.
func (e LineEntry) Items(label string) ([]DisplayItem, bool) {
	for _, d := range e.Destinations {
		if d.Label == label {
			return d.Items, true
		}
	}
	return nil, false
}

// MarshalJSON writes a JSON object whose key order follows insertion order.
func (b LineBoard) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, l := range b.lines {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, l.Line.String()); err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		for j, d := range l.Destinations {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, d.Label); err != nil {
				return nil, err
			}
			items := d.Items
			if items == nil {
				items = []DisplayItem{}
			}
			v, err := json.Marshal(items)
			if err != nil {
				return nil, err
			}
			buf.Write(v)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	return nil
}
