package domain

// TraceStatus is the lifecycle of a single word evaluation.
type TraceStatus string

const (
	StatusReady   TraceStatus = "ready"
	StatusRunning TraceStatus = "running"
	StatusHalted  TraceStatus = "halted" // Accepted or Rejected
	StatusFailed  TraceStatus = "failed" // Execution error, terminal
)

// Verdict is the final answer for a word.
type Verdict string

const (
	VerdictNone     Verdict = ""
	VerdictAccepted Verdict = "accepted"
	VerdictRejected Verdict = "rejected"
	VerdictError    Verdict = "error"
)

// StepObservation describes one applied transition.
type StepObservation struct {
	// Step is 1-based.
	Step int `json:"step"`

	State         string `json:"state"`
	PreviousState string `json:"previous_state"`

	// Head is the position after the move.
	Head int `json:"head"`

	Direction  Direction `json:"direction"`
	SymbolRead Symbol    `json:"symbol_read"`
	Halted     bool      `json:"halted"`
	Verdict    Verdict   `json:"verdict,omitempty"`
}

// Outcome is the result of a batch evaluation.
type Outcome struct {
	Verdict Verdict `json:"verdict"`
	Steps   int     `json:"steps"`
}

// Accepted is a convenience for Verdict == VerdictAccepted.
func (o Outcome) Accepted() bool {
	return o.Verdict == VerdictAccepted
}

// ReportEntry is the evaluation of one word in a batch.
type ReportEntry struct {
	Word    string  `json:"word"`
	Outcome Outcome `json:"outcome"`
	Err     error   `json:"-"`

	// Error mirrors Err for serialization.
	Error string `json:"error,omitempty"`
}

// Report is a pass/fail summary over a list of words.
type Report struct {
	Entries  []ReportEntry `json:"entries"`
	Accepted int           `json:"accepted"`
	Rejected int           `json:"rejected"`
	Failed   int           `json:"failed"`
}

// Add appends an entry and updates the totals.
func (r *Report) Add(word string, outcome Outcome, err error) {
	entry := ReportEntry{Word: word, Outcome: outcome, Err: err}
	if err != nil {
		entry.Error = err.Error()
	}
	r.Entries = append(r.Entries, entry)

	switch outcome.Verdict {
	case VerdictAccepted:
		r.Accepted++
	case VerdictRejected:
		r.Rejected++
	default:
		r.Failed++
	}
}

// TraceSnapshot is a read-only view of a trace between steps.
type TraceSnapshot struct {
	ID            string      `json:"id"`
	Word          string      `json:"word"`
	Status        TraceStatus `json:"status"`
	State         string      `json:"state"`
	PreviousState string      `json:"previous_state,omitempty"`
	Head          int         `json:"head"`
	Tape          []Symbol    `json:"tape"`
	Outcome       Outcome     `json:"outcome"`
	Error         string      `json:"error,omitempty"`
}
