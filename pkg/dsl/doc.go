/*
Package dsl provides a Go DSL for programmatically constructing 2DFA definitions.

It lets developers define machines with a fluent builder instead of a text or
YAML file. This is particularly useful for unit testing, generated machines
and leveraging IDE autocompletion.

Example usage:

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

	loader := b.Build()
	// ... pass loader to twoway.New("", twoway.WithLoader(loader))
*/
package dsl
