// Package timerx implements Beam's cooperative Timer concept: LiveTimer, a
// wall-clock deadline timer, and TriggerTimer, a manually fired one. Both
// publish exactly one Result per start/expire cycle and let a routine
// suspend on Wait until that result is available.
package timerx

import "github.com/spiretrading/beam-sub006/queuex"

// Result enumerates the outcome of a single Timer start cycle.
type Result int

const (
	// Expired means the timer reached its deadline (or was triggered).
	Expired Result = iota
	// Canceled means Cancel was called before the timer expired.
	Canceled
	// Fail means the timer's underlying mechanism reported an error.
	Fail
)

func (r Result) String() string {
	switch r {
	case Expired:
		return "EXPIRED"
	case Canceled:
		return "CANCELED"
	case Fail:
		return "FAIL"
	default:
		return "UNKNOWN"
	}
}

// Timer is the shared concept implemented by LiveTimer and TriggerTimer.
type Timer interface {
	Start()
	Cancel()
	Wait()
	Publisher() *queuex.Publisher[Result]
}
