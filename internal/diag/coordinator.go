package diag

import "context"

// Coordinator is the top-level entry point (spec §4.1/§4.2): it wires
// the context cache, the preemptive scheduler and the compute pipeline
// together behind the single GetDiagnostics operation.
type Coordinator struct {
	cache     *ContextCache
	scheduler *Scheduler
	pipeline  *Pipeline
}

// NewCoordinator wires C1-C6 (plus C10 via cache) into one entry point.
// trace may be nil to disable C7 entirely.
func NewCoordinator(host HostAdapter, perf PerfTracker, buildMemoSize int, trace TraceSink) *Coordinator {
	cache := NewContextCache(host, buildMemoSize)
	scheduler := NewScheduler()
	scheduler.Trace = trace
	return &Coordinator{
		cache:     cache,
		scheduler: scheduler,
		pipeline:  NewPipeline(cache, host, perf),
	}
}

// GetDiagnostics is the coordinator's single operation (spec §4.1): it
// validates the request, reconciles it against the single-slot cache's
// resident project handle, then runs it through the scheduler.
func (c *Coordinator) GetDiagnostics(ctx context.Context, req *Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	c.reconcile(req)

	compute := func(ctx context.Context) (Result, error) {
		return c.pipeline.Compute(ctx, req)
	}
	return c.scheduler.Run(ctx, req.RequestID, req.Priority, compute)
}

// reconcile implements spec §4.2's snapshot reconciliation: if the
// cache already holds a project handle for this request's (snapshot,
// project id) that is a different identity than the one the caller
// handed in, the request is rewritten onto the cached handle so the
// downstream exact-identity match in ContextCache.GetOrBuild can still
// hit. A document id that doesn't resolve against the cached handle is
// passed through as absent, silently, rather than erroring — the
// caller's document may simply not exist from this handle's point of
// view yet.
func (c *Coordinator) reconcile(req *Request) {
	if req.Project == nil {
		return
	}
	cached, ok := c.cache.PeekForReconciliation(req.Snapshot, req.Project.ID())
	if !ok || cached == req.Project {
		return
	}

	req.Project = cached
	if req.Document == "" {
		return
	}
	if _, found := cached.GetTextDocument(req.Document); !found {
		req.Document = ""
		req.Span = nil
		req.Kind = ""
	}
}
