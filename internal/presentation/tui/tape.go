package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/twoway/pkg/domain"
	"github.com/charmbracelet/lipgloss"
)

// State colors: start yellow, accept green, reject red, current blue.
var (
	colorStart   = lipgloss.Color("#f9e2af")
	colorAccept  = lipgloss.Color("#a6e3a1")
	colorReject  = lipgloss.Color("#f38ba8")
	colorCurrent = lipgloss.Color("#89b4fa")
	colorMuted   = lipgloss.Color("#7f849c")

	cellStyle = lipgloss.NewStyle().Padding(0, 1)
	headStyle = cellStyle.Bold(true).Foreground(lipgloss.Color("#1e1e2e")).Background(colorCurrent)
)

// StateStyle colors a state name by its role in def.
func StateStyle(def domain.Definition, state string) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	switch state {
	case def.Accept:
		return style.Foreground(colorAccept)
	case def.Reject:
		return style.Foreground(colorReject)
	case def.Start:
		return style.Foreground(colorStart)
	}
	return style.Foreground(colorCurrent)
}

// RenderTape draws the marked tape with the cell under head highlighted.
// A head outside the tape is drawn as a marker past the edge.
func RenderTape(tape []domain.Symbol, head int) string {
	cells := make([]string, 0, len(tape)+1)
	if head < 0 {
		cells = append(cells, headStyle.Render("·"))
	}
	for i, s := range tape {
		if i == head {
			cells = append(cells, headStyle.Render(string(s)))
			continue
		}
		cells = append(cells, cellStyle.Render(string(s)))
	}
	if head >= len(tape) {
		cells = append(cells, headStyle.Render("·"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// RenderStep prints one observation the way the interactive runner shows it:
// the transition taken, the tape with the new head position, and the verdict.
func RenderStep(def domain.Definition, tape []domain.Symbol, obs domain.StepObservation) string {
	var sb strings.Builder

	muted := lipgloss.NewStyle().Foreground(colorMuted)
	fmt.Fprintf(&sb, "%s %s %s %s %s %s\n",
		muted.Render(fmt.Sprintf("#%d", obs.Step)),
		StateStyle(def, obs.PreviousState).Render(obs.PreviousState),
		muted.Render(fmt.Sprintf("reads %q", obs.SymbolRead)),
		muted.Render("->"),
		StateStyle(def, obs.State).Render(obs.State),
		muted.Render(string(obs.Direction)),
	)
	sb.WriteString(RenderTape(tape, obs.Head))
	sb.WriteString("\n")

	if obs.Halted {
		sb.WriteString(RenderVerdict(obs.Verdict))
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderVerdict prints "Accepted" in green or "Rejected" in red.
func RenderVerdict(v domain.Verdict) string {
	switch v {
	case domain.VerdictAccepted:
		return lipgloss.NewStyle().Bold(true).Foreground(colorAccept).Render("Accepted")
	case domain.VerdictRejected:
		return lipgloss.NewStyle().Bold(true).Foreground(colorReject).Render("Rejected")
	}
	return lipgloss.NewStyle().Foreground(colorMuted).Render(string(v))
}
