package orchestrator

import (
	"errors"
	"fmt"
)

// Phase is the lifecycle phase of a single transaction.
type Phase string

// Transaction phases.
const (
	PhaseBuilt     Phase = "Built"
	PhaseSubmitted Phase = "Submitted"
	PhaseConfirmed Phase = "Confirmed"
	PhaseReverted  Phase = "Reverted"
	PhaseDropped   Phase = "Dropped"
)

// ErrInvalidTransition is returned when a phase change is not allowed.
var ErrInvalidTransition = errors.New("invalid transaction phase transition")

var transitions = map[Phase][]Phase{
	PhaseBuilt:     {PhaseSubmitted},
	PhaseSubmitted: {PhaseConfirmed, PhaseReverted, PhaseDropped},
}

// CanTransition reports whether a transaction in p may move to next.
func (p Phase) CanTransition(next Phase) bool {
	for _, allowed := range transitions[p] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (p Phase) IsTerminal() bool {
	return len(transitions[p]) == 0
}

func (p Phase) String() string {
	return string(p)
}

// PhaseFunc is notified after every phase change.
type PhaseFunc func(operation string, phase Phase)

// lifecycle tracks the phase of one transaction.
type lifecycle struct {
	operation string
	phase     Phase
	notify    PhaseFunc
}

func newLifecycle(operation string, notify PhaseFunc) *lifecycle {
	l := &lifecycle{operation: operation, phase: PhaseBuilt, notify: notify}
	if notify != nil {
		notify(operation, PhaseBuilt)
	}
	return l
}

func (l *lifecycle) advance(next Phase) error {
	if !l.phase.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, l.phase, next)
	}
	l.phase = next
	if l.notify != nil {
		l.notify(l.operation, next)
	}
	return nil
}

// Phase returns the current phase.
func (l *lifecycle) Phase() Phase {
	return l.phase
}
