package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/trmnl-departures/internal/core/board"
	"github.com/samirrijal/trmnl-departures/internal/core/domain"
)

func raw(line, dest string, platform *string, aimed, expected string) domain.RawDeparture {
	return domain.RawDeparture{
		Destination:       domain.StringPtr(dest),
		Platform:          platform,
		AimedDeparture:    domain.StringPtr(aimed),
		ExpectedDeparture: domain.StringPtr(expected),
		LineCode:          domain.StringPtr(line),
		TransportMode:     domain.StringPtr("bus"),
	}
}

func TestRenderBoard(t *testing.T) {
	deps := []domain.RawDeparture{
		raw("31", "Tonsenhagen", domain.StringPtr("A"), "2025-03-19T22:40:00+01:00", "2025-03-19T22:42:00+01:00"),
		raw("FB1", "Oslo lufthavn", nil, "2025-03-19T22:45:00+01:00", "2025-03-19T22:45:00+01:00"),
	}
	res, err := board.Run(deps, board.NewExclusionSet("A"), board.Meta{
		StopName:         "Jernbanetorget",
		ExcludePlatforms: "A",
		WindowMinutes:    30,
		FetchLimit:       200,
		Now:              time.Date(2025, 3, 19, 21, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	renderBoard(&buf, res)
	out := buf.String()

	assert.Contains(t, out, "Jernbanetorget  (updated 21:30)")
	assert.Contains(t, out, "All departures (2)")
	assert.Contains(t, out, "Shown, excluding A (1)")
	assert.Contains(t, out, "22:40.00 - ")
	assert.Contains(t, out, "22:42.00")

	shown := out[strings.Index(out, "Shown, excluding"):]
	assert.NotContains(t, shown, "Tonsenhagen")
	assert.Contains(t, shown, "Oslo lufthavn")
	assert.Contains(t, shown, "[-]")
}

func TestRenderBoard_Empty(t *testing.T) {
	res, err := board.Run(nil, board.ExclusionSet{}, board.Meta{StopName: "Jernbanetorget"})
	require.NoError(t, err)

	var buf bytes.Buffer
	renderBoard(&buf, res)
	assert.Equal(t, 2, strings.Count(buf.String(), "no departures"))
}

func TestFormatEvent(t *testing.T) {
	out := formatEvent(&domain.BoardServed{
		StopID:        "NSR:StopPlace:58366",
		StopName:      "Jernbanetorget",
		NumDepartures: 12,
		NumShown:      9,
		NumGroups:     4,
		Duration:      0.25,
		BuiltAt:       time.Date(2025, 3, 19, 21, 30, 5, 0, time.UTC),
	})
	assert.Contains(t, out, "21:30:05")
	assert.Contains(t, out, "9/12 departures in 4 groups")
	assert.Contains(t, out, "250ms")
}
