package graph_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/twoway/internal/presentation/graph"
	"github.com/aretw0/twoway/internal/runtime"
	"github.com/aretw0/twoway/internal/testutils"
	"github.com/aretw0/twoway/pkg/domain"
	"github.com/aretw0/twoway/pkg/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		def      domain.Definition
		contains []string
		excludes []string
	}{
		{
			name: "Role Shapes",
			def:  testutils.ScenarioDefinition(),
			contains: []string{
				"graph LR",
				`q0(("q0"))`,
				`qA((("qA")))`,
				`qR[["qR"]]`,
				"class q0 start;",
				"class qA accept;",
				"class qR reject;",
			},
		},
		{
			name: "Grouped Edges",
			def:  testutils.ScenarioDefinition(),
			contains: []string{
				`q0 -- "- →" --> q0`,
				`q0 -- "0 →" --> qA`,
				`q0 -- "1 →, + ←" --> qR`,
				`qA -- "- →, 0 →, 1 →, + ←" --> qA`,
			},
		},
		{
			name: "No Next State Loops",
			def: domain.Definition{
				States: []string{"s", "a", "r"},
				Start:  "s", Accept: "a", Reject: "r",
				Transitions: []domain.Transition{{From: "a", Read: "+", To: domain.NoNextState, Move: domain.Left}},
			},
			contains: []string{`a -- "+ ←" --> a`},
			excludes: []string{"--> _"},
		},
		{
			name: "ID Sanitization",
			def: domain.Definition{
				States: []string{"scan-left", "q.1"},
				Transitions: []domain.Transition{
					{From: "scan-left", Read: "\"", To: "q.1", Move: domain.Right},
				},
			},
			contains: []string{
				`scan_left["scan-left"]`,
				`q_1["q.1"]`,
				`scan_left -- "#quot; →" --> q_1`,
			},
		},
		{
			name:     "No Overlay",
			def:      testutils.ScenarioDefinition(),
			excludes: []string{"Overlay Styles", "classDef current"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := graph.GenerateMermaid(tt.def, nil)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, out, unwanted)
			}
		})
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	def := testutils.ScenarioDefinition()
	m, err := machine.Validate(def)
	require.NoError(t, err)

	history, _, err := runtime.NewEngine(m).Trace(context.Background(), "0")
	require.NoError(t, err)

	overlay := graph.OverlayFromHistory(def.Start, history)
	assert.Equal(t, "qA", overlay.CurrentState)
	assert.Equal(t, []string{"q0", "q0", "qA", "qA"}, overlay.VisitedStates)

	out := graph.GenerateMermaid(def, overlay)
	assert.Contains(t, out, "%% Overlay Styles")
	assert.Equal(t, 1, strings.Count(out, "class q0 visited;"))
	assert.Contains(t, out, "class qA current;")
	assert.NotContains(t, out, "class qA visited;")
	assert.NotContains(t, out, "class qR visited;")
}
