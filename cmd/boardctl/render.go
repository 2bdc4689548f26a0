package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/samirrijal/trmnl-departures/internal/core/board"
	"github.com/samirrijal/trmnl-departures/internal/core/domain"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
	lineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	platStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	modeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	lateStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// renderBoard prints every group, then the groups left after exclusion.
func renderBoard(w io.Writer, res *board.Result) {
	doc := res.Document
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s  (updated %s)", doc.Name, doc.LastUpdated)))

	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("All departures (%d)", doc.NumDepartures)))
	renderGroups(w, res.Groups)

	fmt.Fprintln(w)
	label := "Shown"
	if doc.ExcludePlatforms != "" {
		label = fmt.Sprintf("Shown, excluding %s", doc.ExcludePlatforms)
	}
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s (%d)", label, doc.NumShown)))
	renderGroups(w, res.Shown)
}

func renderGroups(w io.Writer, groups []domain.Group) {
	if len(groups) == 0 {
		fmt.Fprintln(w, platStyle.Render("  no departures"))
		return
	}
	for _, g := range groups {
		mode := ""
		if len(g.Items) > 0 {
			mode = g.Items[0].Type
		}
		platform := g.Key.PlatformString()
		if platform == "" {
			platform = "-"
		}
		fmt.Fprintf(w, "%s %s %s %s\n",
			lineStyle.Render(g.Key.Line.String()),
			g.Key.Destination,
			platStyle.Render("["+platform+"]"),
			modeStyle.Render(mode),
		)
		for _, it := range g.Items {
			expected := it.Expected
			if it.Expected != it.Schedule {
				expected = lateStyle.Render(expected)
			}
			fmt.Fprintf(w, "    %s - %s\n", it.Schedule, expected)
		}
	}
}
