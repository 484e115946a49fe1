package domain

type OutcomeKind int

const (
	OutcomeOK OutcomeKind = iota
	// OutcomeWarning means the operation committed but the caller should see
	// a notice (e.g. a late-return penalty was charged).
	OutcomeWarning
	OutcomeNoStock
	// OutcomeRejected is a business-rule refusal; nothing was written.
	OutcomeRejected
	// OutcomeFailed is an infrastructure error; the transaction rolled back.
	OutcomeFailed
)

// Outcome is the tagged result of a store operation. All failures cross the
// service boundary as Outcome values, never as panics or raw errors.
type Outcome struct {
	Kind    OutcomeKind
	Message string
}

func OK() Outcome                 { return Outcome{Kind: OutcomeOK} }
func Warning(msg string) Outcome  { return Outcome{Kind: OutcomeWarning, Message: msg} }
func NoStock() Outcome            { return Outcome{Kind: OutcomeNoStock, Message: "Not enough stock"} }
func Rejected(msg string) Outcome { return Outcome{Kind: OutcomeRejected, Message: msg} }
func Failed() Outcome             { return Outcome{Kind: OutcomeFailed, Message: "something went wrong"} }

// Committed reports whether the operation's writes were committed.
func (o Outcome) Committed() bool { return o.Kind == OutcomeOK || o.Kind == OutcomeWarning }
