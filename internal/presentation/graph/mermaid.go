package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/twoway/pkg/domain"
)

// GraphOverlay contains dynamic trace data to visualize on the graph.
type GraphOverlay struct {
	VisitedStates []string
	CurrentState  string
}

// OverlayFromHistory builds an overlay from trace observations.
// The start state always counts as visited.
func OverlayFromHistory(start string, history []domain.StepObservation) *GraphOverlay {
	o := &GraphOverlay{VisitedStates: []string{start}, CurrentState: start}
	for _, obs := range history {
		o.VisitedStates = append(o.VisitedStates, obs.State)
		o.CurrentState = obs.State
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart for the machine.
// Shapes follow the state roles:
// - Start: ((Circle))
// - Accept: (((Double circle)))
// - Reject: [[Subroutine]]
// - Default: [Rectangle]
// Transitions between the same pair of states share one edge labelled
// "symbol direction", e.g. "0 →, 1 →".
func GenerateMermaid(def domain.Definition, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, state := range def.States {
		safeID := sanitizeMermaidID(state)

		opener, closer := "[", "]"
		switch state {
		case def.Start:
			opener, closer = "((", "))"
		case def.Accept:
			opener, closer = "(((", ")))"
		case def.Reject:
			opener, closer = "[[", "]]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, state, closer)
	}

	type edge struct{ from, to string }
	var order []edge
	labels := make(map[edge][]string)
	for _, t := range def.Transitions {
		to := t.To
		if to == domain.NoNextState {
			to = t.From
		}
		e := edge{t.From, to}
		if _, ok := labels[e]; !ok {
			order = append(order, e)
		}
		labels[e] = append(labels[e], fmt.Sprintf("%s %s", escapeLabel(string(t.Read)), arrow(t.Move)))
	}
	for _, e := range order {
		fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n",
			sanitizeMermaidID(e.from), strings.Join(labels[e], ", "), sanitizeMermaidID(e.to))
	}

	sb.WriteString("\n    %% Roles\n")
	// Force black text (color:#000) for contrast on the light fills.
	sb.WriteString("    classDef start fill:#fff59d,stroke:#f9a825,color:#000;\n")
	sb.WriteString("    classDef accept fill:#a5d6a7,stroke:#2e7d32,color:#000;\n")
	sb.WriteString("    classDef reject fill:#ef9a9a,stroke:#c62828,color:#000;\n")
	for _, role := range []struct{ class, state string }{
		{"start", def.Start},
		{"accept", def.Accept},
		{"reject", def.Reject},
	} {
		if role.state != "" {
			fmt.Fprintf(&sb, "    class %s %s;\n", sanitizeMermaidID(role.state), role.class)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited stroke:#01579b,stroke-width:2px,stroke-dasharray:4;\n")
		sb.WriteString("    classDef current fill:#90caf9,stroke:#0d47a1,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.VisitedStates {
			safeID := sanitizeMermaidID(id)
			if safeID == "" || seen[safeID] || id == overlay.CurrentState {
				continue
			}
			seen[safeID] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
		}
		if overlay.CurrentState != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentState))
		}
	}

	return sb.String()
}

func arrow(d domain.Direction) string {
	if d == domain.Left {
		return "←"
	}
	return "→"
}

// escapeLabel keeps symbols Mermaid would read as syntax inside quoted labels.
func escapeLabel(s string) string {
	return strings.NewReplacer("\"", "#quot;", "|", "#124;").Replace(s)
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
