// Package wait polls a remote object until it reaches a target state, an
// invalid state, or the timeout expires.
package wait

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout is used when neither the Spec nor the Waiter set one.
const DefaultTimeout = 300 * time.Second

var (
	// ErrInvalidState is returned when the object enters an invalid state.
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidTransition is returned when the object passes through a
	// state outside the allowed transition states.
	ErrInvalidTransition = errors.New("invalid transition state")

	// ErrTimeout is returned when the target was not reached in time.
	ErrTimeout = errors.New("Wait timeout has expired!")
)

// StateError reports the state that ended a wait.
type StateError struct {
	Element string
	State   string
	Err     error
}

func (e *StateError) Error() string {
	if errors.Is(e.Err, ErrInvalidTransition) {
		return fmt.Sprintf("invalid %s transition state %s", e.Element, e.State)
	}
	return fmt.Sprintf("invalid %s state %s", e.Element, e.State)
}

func (e *StateError) Unwrap() error { return e.Err }

// Spec describes one wait. States are compared by equality.
type Spec[S comparable] struct {
	// Element names the object kind in messages, e.g. "VM" or "HOST".
	Element string

	// State returns the current state. It is called once per poll.
	State func(ctx context.Context) (S, error)

	// StateName renders a state for humans. If nil, fmt.Sprint is used.
	StateName func(S) string

	Target  []S
	Invalid []S

	// Transition, if not empty, lists the only states allowed while the
	// target has not been reached.
	Transition []S

	// Timeout overrides the Waiter default when positive.
	Timeout time.Duration
}

func (s Spec[S]) name(state S) string {
	if s.StateName == nil {
		return fmt.Sprint(state)
	}
	return s.StateName(state)
}

// Waiter runs polling loops with a fixed retry interval.
type Waiter struct {
	interval       time.Duration
	defaultTimeout time.Duration
	log            *zap.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Waiter. interval is the delay between polls, usually the
// server suggested retry interval. defaultTimeout applies to every Spec
// that does not set its own.
func New(interval, defaultTimeout time.Duration, log *zap.Logger) *Waiter {
	if log == nil {
		log = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Second
	}
	if defaultTimeout <= 0 {
		defaultTimeout = DefaultTimeout
	}
	return &Waiter{
		interval:       interval,
		defaultTimeout: defaultTimeout,
		log:            log,
		now:            time.Now,
		sleep:          sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Wait polls spec.State until a terminal outcome and returns the last
// observed state.
//
// Each poll is checked in order: invalid states fail with ErrInvalidState,
// states outside a non-empty transition set fail with ErrInvalidTransition,
// target states succeed. Anything else sleeps one interval and polls again.
// Elapsed time is checked before every poll; once it reaches the timeout
// the wait fails with ErrTimeout. Accessor errors end the wait unchanged.
func Wait[S comparable](ctx context.Context, w *Waiter, spec Spec[S]) (S, error) {
	var last S

	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = w.defaultTimeout
	}

	log := w.log.With(zap.String("element", spec.Element), zap.Duration("timeout", timeout))
	start := w.now()

	for w.now().Sub(start) < timeout {
		state, err := spec.State(ctx)
		if err != nil {
			return last, fmt.Errorf("failed to get %s state: %w", spec.Element, err)
		}
		last = state

		if slices.Contains(spec.Invalid, state) {
			return last, &StateError{Element: spec.Element, State: spec.name(state), Err: ErrInvalidState}
		}

		inTarget := slices.Contains(spec.Target, state)
		if len(spec.Transition) > 0 && !inTarget && !slices.Contains(spec.Transition, state) {
			return last, &StateError{Element: spec.Element, State: spec.name(state), Err: ErrInvalidTransition}
		}

		if inTarget {
			log.Debug("target state reached", zap.String("state", spec.name(state)))
			return last, nil
		}

		log.Debug("waiting for state", zap.String("state", spec.name(state)))
		if err := w.sleep(ctx, w.interval); err != nil {
			return last, err
		}
	}

	return last, ErrTimeout
}
