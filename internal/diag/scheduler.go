package diag

import (
	"context"
	"sync"
)

// ComputeFunc is one scheduler-managed attempt at producing a Result.
// It must return promptly once ctx is done.
type ComputeFunc func(ctx context.Context) (Result, error)

// highTicket tracks one in-flight HIGH attempt. done closes when the
// attempt, successful or not, has finished — that's all a draining
// NORMAL attempt needs to know.
type highTicket struct {
	done chan struct{}
}

// normalTicket tracks one in-flight NORMAL attempt's cancel source.
// Only the scheduler's own preempt routine ever calls cancel on
// someone else's ticket (spec invariant 5).
type normalTicket struct {
	cancel context.CancelFunc
}

// Scheduler implements C3 (spec §4.3): a two-class preemptive
// scheduler over compute attempts. HIGH arrivals fire every in-flight
// NORMAL attempt's cancel source; NORMAL admission drains until no
// HIGH ticket remains registered. All state lives behind one mutex
// that is never held across a suspending operation.
type Scheduler struct {
	mu            sync.Mutex
	highTasks     map[*highTicket]struct{}
	normalCancels map[*normalTicket]struct{}

	Trace TraceSink // optional; nil disables trace emission
}

// NewScheduler returns an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{
		highTasks:     make(map[*highTicket]struct{}),
		normalCancels: make(map[*normalTicket]struct{}),
	}
}

// Run executes compute under the admission protocol and retry rule
// from spec §4.3. requestID is only used for trace correlation (spec-
// full C7) and has no effect on scheduling behavior.
func (s *Scheduler) Run(ctx context.Context, requestID string, priority Priority, compute ComputeFunc) (Result, error) {
	for {
		if err := ctx.Err(); err != nil {
			s.trace(requestID, "cancelled_before_admission", priority, nil)
			return Result{}, NewCancelledError(err)
		}

		if priority == PriorityHigh {
			s.fireNormalCancels()
		} else if err := s.drainHighTasks(ctx); err != nil {
			s.trace(requestID, "cancelled_during_drain", priority, nil)
			return Result{}, err
		}

		s.trace(requestID, "admitted", priority, nil)
		res, err := s.attempt(ctx, priority, compute)
		if err == nil {
			s.trace(requestID, "completed", priority, nil)
			return res, nil
		}

		if isPreempted(err) {
			if priority != PriorityNormal {
				// Spec §4.3: the scheduler must never cancel a HIGH
				// ticket; a HIGH attempt observing a preempt outcome
				// is a programmer bug, not a runtime condition.
				panic("diag: HIGH attempt observed a preempt cancellation")
			}
			s.trace(requestID, "retrying_after_preempt", priority, nil)
			continue
		}

		s.trace(requestID, "failed", priority, err)
		return Result{}, err
	}
}

// fireNormalCancels snapshots the current NORMAL cancel sources under
// the lock, then fires each outside the lock. A source that has
// already been disposed by its own attempt completing is silently
// absorbed — context.CancelFunc is idempotent.
func (s *Scheduler) fireNormalCancels() {
	s.mu.Lock()
	tickets := make([]*normalTicket, 0, len(s.normalCancels))
	for t := range s.normalCancels {
		tickets = append(tickets, t)
	}
	s.mu.Unlock()

	for _, t := range tickets {
		t.cancel()
	}
}

// drainHighTasks blocks until no HIGH ticket is registered, re-
// snapshotting after every wave so HIGH arrivals during the drain are
// waited on too. Returns the caller's cancellation if ctx is done
// while waiting; HIGH tickets are never themselves cancelled, so there
// is nothing to "absorb" beyond the done signal.
func (s *Scheduler) drainHighTasks(ctx context.Context) error {
	for {
		s.mu.Lock()
		tickets := make([]*highTicket, 0, len(s.highTasks))
		for t := range s.highTasks {
			tickets = append(tickets, t)
		}
		s.mu.Unlock()

		if len(tickets) == 0 {
			return nil
		}

		for _, t := range tickets {
			select {
			case <-ctx.Done():
				return NewCancelledError(ctx.Err())
			case <-t.done:
			}
		}
	}
}

// attempt runs one admitted compute attempt end to end: it creates the
// linked token, registers the attempt in the appropriate set, awaits
// completion, then deregisters and disposes, exactly once.
func (s *Scheduler) attempt(ctx context.Context, priority Priority, compute ComputeFunc) (Result, error) {
	linked, cancel := context.WithCancel(ctx)

	type outcome struct {
		res Result
		err error
	}
	resultCh := make(chan outcome, 1)

	var ht *highTicket
	var nt *normalTicket
	if priority == PriorityHigh {
		ht = &highTicket{done: make(chan struct{})}
		s.mu.Lock()
		if _, dup := s.highTasks[ht]; dup {
			panic("diag: duplicate HIGH ticket registration")
		}
		s.highTasks[ht] = struct{}{}
		s.mu.Unlock()
	} else {
		nt = &normalTicket{cancel: cancel}
		s.mu.Lock()
		if _, dup := s.normalCancels[nt]; dup {
			panic("diag: duplicate NORMAL ticket registration")
		}
		s.normalCancels[nt] = struct{}{}
		s.mu.Unlock()
	}

	go func() {
		res, err := compute(linked)
		resultCh <- outcome{res: res, err: err}
	}()

	out := <-resultCh
	// Captured before cancel() below, which would otherwise make
	// linked.Err() non-nil for every attempt regardless of outcome.
	wasCancelled := linked.Err() != nil

	if ht != nil {
		s.mu.Lock()
		delete(s.highTasks, ht)
		s.mu.Unlock()
		close(ht.done)
	} else {
		s.mu.Lock()
		delete(s.normalCancels, nt)
		s.mu.Unlock()
	}
	cancel()

	if out.err != nil && wasCancelled {
		if ctx.Err() != nil {
			return Result{}, NewCancelledError(ctx.Err())
		}
		// linked was cancelled but the caller's own token was not:
		// this can only be our own preempt source firing.
		return Result{}, newPreemptedError(linked.Err())
	}
	return out.res, out.err
}

func (s *Scheduler) trace(requestID, event string, priority Priority, err error) {
	if s.Trace == nil {
		return
	}
	s.Trace.Emit(TraceEvent{
		RequestID: requestID,
		Event:     event,
		Priority:  priority.String(),
		Err:       errString(err),
	})
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
