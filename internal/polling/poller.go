// Package polling drives an asynchronous upstream job to a terminal state by
// querying its status at a fixed interval under a bounded attempt budget.
// The status check and the sleep are both injectable so tests run without
// real timers or network calls.
package polling

import (
	"context"
	"time"
)

// Status is the externally reported state of an indexing job.
type Status string

const (
	// StatusPending means the job has not reached a terminal state yet.
	StatusPending Status = "pending"
	// StatusReady means the job completed and its result can be consumed.
	StatusReady Status = "ready"
	// StatusFailed means the upstream job itself errored. Terminal and
	// non-retryable: it is not a transient network condition.
	StatusFailed Status = "failed"
)

// Outcome is the poller's resolution for one job.
type Outcome string

const (
	// OutcomeReady resolves as soon as a poll reports ready.
	OutcomeReady Outcome = "ready"
	// OutcomeFailed resolves as soon as a poll reports failed.
	OutcomeFailed Outcome = "failed"
	// OutcomeTimedOut resolves when the attempt budget is exhausted while
	// the job is still pending. This is a poller-owned state, not a job state.
	OutcomeTimedOut Outcome = "timed-out"
)

// StatusFunc queries the job's current status once.
type StatusFunc func(ctx context.Context) (Status, error)

// Sleeper waits between attempts. The default implementation honors context
// cancellation; tests substitute a recording fake.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// ClockSleeper sleeps on a real timer.
type ClockSleeper struct{}

// Sleep waits for d or until ctx is canceled.
func (ClockSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Poller polls a job status at a fixed interval. No backoff, no jitter: the
// caller bounds total wall-clock time as Interval * MaxAttempts.
type Poller struct {
	Interval    time.Duration
	MaxAttempts int
	Sleeper     Sleeper
}

// New returns a Poller on a real clock.
func New(interval time.Duration, maxAttempts int) *Poller {
	return &Poller{Interval: interval, MaxAttempts: maxAttempts, Sleeper: ClockSleeper{}}
}

// Poll queries status up to MaxAttempts times. Terminal statuses return
// immediately without a trailing sleep. A status-check error propagates as a
// *TransportError, distinct from a reported failed status.
func (p *Poller) Poll(ctx context.Context, status StatusFunc) (Outcome, error) {
	sleeper := p.Sleeper
	if sleeper == nil {
		sleeper = ClockSleeper{}
	}

	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		s, err := status(ctx)
		if err != nil {
			return "", &TransportError{Attempt: attempt + 1, Cause: err}
		}

		switch s {
		case StatusReady:
			return OutcomeReady, nil
		case StatusFailed:
			return OutcomeFailed, nil
		}

		// Still pending; do not sleep after the final attempt.
		if attempt == p.MaxAttempts-1 {
			break
		}
		if err := sleeper.Sleep(ctx, p.Interval); err != nil {
			return "", &TransportError{Attempt: attempt + 1, Cause: err}
		}
	}

	return OutcomeTimedOut, nil
}
