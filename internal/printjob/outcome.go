// Package printjob sequences single and batch print requests and aggregates
// their per-copy and per-lot results.
package printjob

import "fmt"

type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomePartial
	OutcomeFailure
)

// Outcome is the result of printing one lot on one printer. Success means
// every requested copy was accepted by the socket layer; the protocol offers
// no stronger confirmation than that.
type Outcome struct {
	Kind      OutcomeKind
	Succeeded int
	Requested int
	Reason    string
}

func Success(copies int) Outcome {
	return Outcome{Kind: OutcomeSuccess, Succeeded: copies, Requested: copies}
}

func Partial(succeeded, requested int, reason string) Outcome {
	return Outcome{Kind: OutcomePartial, Succeeded: succeeded, Requested: requested, Reason: reason}
}

func Failure(requested int, reason string) Outcome {
	return Outcome{Kind: OutcomeFailure, Requested: requested, Reason: reason}
}

// OK reports whether at least every copy printed.
func (o Outcome) OK() bool {
	return o.Kind == OutcomeSuccess
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeSuccess:
		return fmt.Sprintf("success (%d/%d copies)", o.Succeeded, o.Requested)
	case OutcomePartial:
		return fmt.Sprintf("partial (%d/%d copies): %s", o.Succeeded, o.Requested, o.Reason)
	default:
		return fmt.Sprintf("failure: %s", o.Reason)
	}
}

// BatchItem pairs one requested lot code with its outcome, in input order.
type BatchItem struct {
	LotCode string
	Outcome Outcome
}

// BatchOutcome aggregates a whole batch without losing per-lot detail.
type BatchOutcome struct {
	BatchID    string
	Items      []BatchItem
	Successful int
	Failed     int
}

// OverallSuccess is true only when no item failed or partially failed.
func (b BatchOutcome) OverallSuccess() bool {
	return b.Failed == 0
}
