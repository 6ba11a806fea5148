/*
Package twoway evaluates words with two-way deterministic finite automata (2DFA).

A 2DFA reads its input between two end markers, "-" on the left and "+" on
the right, and may move its head in either direction. It halts when it
consumes an end marker while in its accept or reject state.

# Usage

Load a machine from a definition file. Files ending in .yaml, .yml or .json
use the YAML format; anything else the line-based text format:

	q0 qA qR          # states
	0 1               # alphabet
	q0 qA qR          # start accept reject
	q0 - q0 right     # transitions: state symbol next direction
	...

Then evaluate words:

	eng, err := twoway.New("first-is-zero.txt")
	if err != nil {
		log.Fatal(err)
	}

	outcome, err := eng.Evaluate(ctx, "0110")
	if err != nil {
		log.Fatal(err) // step limit, symbol outside the alphabet, ...
	}
	fmt.Println(outcome.Verdict) // accepted

Every machine is validated before use: a definition that is not a complete,
deterministic 2DFA is reported as a *domain.ValidationError naming the rule
it broke. Execution errors are reported per word as *domain.ExecutionError
and never invalidate the engine.

# Stepping

Engine.NewTrace returns a Trace that applies one transition per Step call,
which is what the interactive Runner and the "twoway run" command build on.

# Observability

Register domain.LifecycleHooks with WithLifecycleHooks. The observability
package provides ready-made hooks for Prometheus metrics and slog.
*/
package twoway
