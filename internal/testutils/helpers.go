package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/twoway/pkg/domain"
	"github.com/aretw0/twoway/pkg/dsl"
	"github.com/stretchr/testify/require"
)

// ScenarioText is the reference machine in the line-based definition format.
// Over {0,1} it accepts exactly the words whose first symbol is 0.
const ScenarioText = `q0 qA qR
0 1
q0 qA qR
q0 - q0 right
q0 0 qA right
q0 1 qR right
q0 + qR left
qA - qA right
qA 0 qA right
qA 1 qA right
qA + qA left
qR - qR right
qR 0 qR right
qR 1 qR right
qR + qR left
`

// ScenarioYAML is ScenarioText in the YAML format, mixing list and map transitions.
const ScenarioYAML = `states: [q0, qA, qR]
alphabet: ["0", "1"]
start: q0
accept: qA
reject: qR
transitions:
  - [q0, "-", q0, right]
  - [q0, "0", qA, right]
  - [q0, "1", qR, right]
  - {from: q0, read: "+", to: qR, move: left}
  - [qA, "-", qA, right]
  - [qA, "0", qA, right]
  - [qA, "1", qA, right]
  - [qA, "+", qA, left]
  - [qR, "-", qR, right]
  - [qR, "0", qR, right]
  - [qR, "1", qR, right]
  - [qR, "+", qR, left]
`

// ScenarioDefinition returns the reference machine: q0 reads the first
// symbol and moves to qA on 0, qR on 1 or on the empty word.
func ScenarioDefinition() domain.Definition {
	b := dsl.New().
		Alphabet("0", "1").
		Start("q0").Accept("qA").Reject("qR")

	b.State("q0").
		On("-", "q0", domain.Right).
		On("0", "qA", domain.Right).
		On("1", "qR", domain.Right).
		On("+", "qR", domain.Left)
	b.State("qA").Absorb()
	b.State("qR").Absorb()

	return b.Definition()
}

// LoopingDefinition returns a valid machine whose accept state bounces
// between two interior cells forever on words starting with "01".
func LoopingDefinition() domain.Definition {
	b := dsl.New().
		Alphabet("0", "1").
		Start("q0").Accept("qA").Reject("qR")

	b.State("q0").
		On("-", "q0", domain.Right).
		On("0", "qA", domain.Right).
		On("1", "qR", domain.Right).
		On("+", "qR", domain.Left)
	b.State("qA").
		On("0", "qA", domain.Right).
		On("1", "qA", domain.Left).
		Absorb()
	b.State("qR").Absorb()

	return b.Definition()
}

// EvenZerosDefinition returns a machine accepting words over {0,1} with an
// even number of zeros. It sweeps right, then walks back to the left marker
// before halting, exercising both directions.
func EvenZerosDefinition() domain.Definition {
	b := dsl.New().
		Alphabet("0", "1").
		Start("even").Accept("yes").Reject("no")

	b.State("even").
		On("-", "even", domain.Right).
		On("0", "odd", domain.Right).
		On("1", "even", domain.Right).
		On("+", "backEven", domain.Left)
	b.State("odd").
		On("-", "odd", domain.Right).
		On("0", "even", domain.Right).
		On("1", "odd", domain.Right).
		On("+", "backOdd", domain.Left)
	b.State("backEven").
		On("-", "yes", domain.Right).
		On("0", "backEven", domain.Left).
		On("1", "backEven", domain.Left).
		On("+", "backEven", domain.Left)
	b.State("backOdd").
		On("-", "no", domain.Right).
		On("0", "backOdd", domain.Left).
		On("1", "backOdd", domain.Left).
		On("+", "backOdd", domain.Left)
	b.State("yes").
		On("-", "yes", domain.Right).
		On("0", "yes", domain.Left).
		On("1", "yes", domain.Left).
		On("+", "yes", domain.Left)
	b.State("no").
		On("-", "no", domain.Right).
		On("0", "no", domain.Left).
		On("1", "no", domain.Left).
		On("+", "no", domain.Left)

	return b.Definition()
}

// WriteFile writes content under a fresh temp dir and returns its path.
// It fails the test immediately on error.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "Failed to write fixture %s", name)
	return path
}
