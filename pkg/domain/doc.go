/*
Package domain contains the core domain models of the twoway engine.

It defines the vocabulary shared by the validator, the transition index and
the execution runtime: tape symbols and end markers, head directions, the raw
machine Definition, step observations, outcomes and the error taxonomy.
This package is kept pure and free of external dependencies like I/O or
persistence.

# Key Entities

  - Definition: the raw, unvalidated machine (Q, Sigma, Delta, start, accept, reject).
  - Transition: the 4-tuple (state, symbol, next state, direction).
  - StepObservation: what a single step of a trace looked like.
  - Outcome: the final verdict of a word evaluation.
*/
package domain
