package yaml_test

import (
	"testing"

	"github.com/aretw0/twoway/internal/testutils"
	"github.com/aretw0/twoway/pkg/adapters/yaml"
	"github.com/aretw0/twoway/pkg/domain"
	"github.com/aretw0/twoway/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Scenario(t *testing.T) {
	def, err := yaml.Parse([]byte(testutils.ScenarioYAML))
	require.NoError(t, err)
	assert.Equal(t, testutils.ScenarioDefinition(), def)
}

func TestParse_JSON(t *testing.T) {
	src := `{
  "states": ["s", "yes", "no"],
  "alphabet": ["a"],
  "start": "s", "accept": "yes", "reject": "no",
  "transitions": [
    ["s", "-", "s", "R"],
    {"from": "s", "read": "a", "to": "yes", "move": "Right"}
  ]
}`
	def, err := yaml.Parse([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, []domain.Transition{
		{From: "s", Read: "-", To: "s", Move: domain.Right},
		{From: "s", Read: "a", To: "yes", Move: domain.Right},
	}, def.Transitions)
}

func TestParse_LooseScalars(t *testing.T) {
	src := `
states: [q0, qA, qR]
alphabet: [0, 1]
start: q0
accept: qA
reject: qR
transitions:
  - [q0, 0, qA, r]
`
	def, err := yaml.Parse([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, []domain.Symbol{"0", "1"}, def.Alphabet)
	assert.Equal(t, domain.Transition{From: "q0", Read: "0", To: "qA", Move: domain.Right}, def.Transitions[0])
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"Not YAML", "states: [q0", "failed to parse yaml"},
		{"Unknown Key", "states: [q0]\nfinal: q0\n", "invalid definition document"},
		{"Short List", "transitions:\n  - [q0, a, q1]\n", "transition 1: expected [state, symbol, next, direction], got 3 items"},
		{"Scalar Transition", "transitions:\n  - q0 a q1 right\n", "transition 1: invalid transition type: string"},
		{"Bad Direction", "transitions:\n  - {from: q0, read: a, to: q1, move: up}\n", `invalid direction "up"`},
		{"Unknown Transition Key", "transitions:\n  - {from: q0, read: a, to: q1, move: left, cost: 1}\n", "transition 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := yaml.Parse([]byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	for name, def := range map[string]domain.Definition{
		"scenario":   testutils.ScenarioDefinition(),
		"even zeros": testutils.EvenZerosDefinition(),
	} {
		t.Run(name, func(t *testing.T) {
			data, err := yaml.Format(def)
			require.NoError(t, err)

			got, err := yaml.Parse(data)
			require.NoError(t, err)
			assert.Equal(t, def, got)
		})
	}
}

func TestLoader_Contract(t *testing.T) {
	path := testutils.WriteFile(t, "scenario.yaml", testutils.ScenarioYAML)
	tests.DefinitionLoaderContractTest(t, yaml.NewLoader(path), testutils.ScenarioDefinition())
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := yaml.NewLoader("nope.yaml").Load(t.Context())
	assert.ErrorContains(t, err, "failed to read definition")
}
