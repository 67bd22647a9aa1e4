package network

import (
	"errors"
	"time"

	"github.com/automoto/dojo-tanks/shared/gamemath"
)

// ValidationTimer throttles position validations to one per interval.
type ValidationTimer struct {
	last     time.Time
	interval time.Duration
}

// NewValidationTimer starts the interval at now, so the first validation is
// due one interval later.
func NewValidationTimer(interval time.Duration, now time.Time) ValidationTimer {
	return ValidationTimer{last: now, interval: interval}
}

func (t *ValidationTimer) Due(now time.Time) bool {
	return now.Sub(t.last) >= t.interval
}

func (t *ValidationTimer) Mark(now time.Time) {
	t.last = now
}

// ValidationResult is the outcome of one position validation.
type ValidationResult struct {
	Submitted gamemath.Pose
	Err       error

	// Filled in by the predictor before the policy runs.
	LastAccepted gamemath.Pose
	HaveAccepted bool
}

// Rejected reports whether the ledger declined the position, as opposed to the
// submission failing in transport.
func (r ValidationResult) Rejected() bool {
	return errors.Is(r.Err, ErrActionRejected)
}

// ReconcilePolicy decides what the local pose becomes once a validation result
// arrives.
type ReconcilePolicy interface {
	Reconcile(current gamemath.Pose, r ValidationResult) gamemath.Pose
}

// OptimisticPolicy keeps local prediction as ground truth whatever the ledger
// says.
type OptimisticPolicy struct{}

func (OptimisticPolicy) Reconcile(current gamemath.Pose, _ ValidationResult) gamemath.Pose {
	return current
}

// RollbackPolicy restores the last accepted position when the ledger rejects a
// validation. Heading stays local; the ledger does not reject rotations.
type RollbackPolicy struct{}

func (RollbackPolicy) Reconcile(current gamemath.Pose, r ValidationResult) gamemath.Pose {
	if !r.Rejected() || !r.HaveAccepted {
		return current
	}
	return gamemath.Pose{X: r.LastAccepted.X, Y: r.LastAccepted.Y, Heading: current.Heading}
}
