package diag

import "context"

// Pipeline implements C4 (spec §4.4): one attempt's worth of work,
// from acquiring a context through shaping the boundary Result. It
// holds no request-scoped state between calls to Compute.
type Pipeline struct {
	cache *ContextCache
	host  HostAdapter
	perf  PerfTracker
}

// NewPipeline wires C4 to its collaborators. perf may be nil.
func NewPipeline(cache *ContextCache, host HostAdapter, perf PerfTracker) *Pipeline {
	return &Pipeline{cache: cache, host: host, perf: perf}
}

// Compute runs the full sequence from spec §4.4 for one request
// attempt. It is meant to be handed to Scheduler.Run as a ComputeFunc;
// every suspension point inside honors ctx promptly.
func (p *Pipeline) Compute(ctx context.Context, req *Request) (Result, error) {
	// Step 1: acquire context.
	entry, err := p.cache.GetOrBuild(ctx, req.Snapshot, req.Project, req.DocumentPresent())
	if err != nil {
		return Result{}, err
	}

	// Step 2: resolve analyzers; unknown ids are silently dropped.
	resolved := make([]Analyzer, 0, len(req.AnalyzerIDs))
	for _, id := range req.AnalyzerIDs {
		if a, ok := entry.IDMap.Lookup(id); ok {
			resolved = append(resolved, a)
		}
	}
	if len(resolved) == 0 {
		return EmptyResult(), nil
	}

	analysisCtx := entry.Context

	// Step 3: specialize for whole-project requests that asked for a
	// strict subset of the cached context's analyzers. Never written
	// back to the cache — it's a transient, request-scoped view that
	// shares the cached context's compilation.
	if !req.DocumentPresent() && len(resolved) < len(analysisCtx.Analyzers()) {
		opts := DefaultAnalyzerOptions(nil)
		specialized, err := p.host.WithAnalyzers(ctx, analysisCtx.Compilation(), resolved, opts)
		if err != nil {
			if IsCancelled(err) {
				return Result{}, err
			}
			return Result{}, NewHostFailureError(err)
		}
		analysisCtx = specialized
	}

	// Step 4: host-only analyzers are left out of the shaped result so
	// they are not double-reported; they still stay in the analyzer set
	// handed to the host below.
	skipped := make(map[AnalyzerID]struct{})
	for _, a := range req.Project.HostOnlyAnalyzers() {
		if id, ok := entry.IDMap.ReverseLookup(a); ok {
			skipped[id] = struct{}{}
		}
	}

	// Step 5: run analysis.
	var scope *DocumentScope
	if req.DocumentPresent() {
		scope = &DocumentScope{
			DocumentID:     req.Document,
			Span:           req.Span,
			AnalyzerSubset: resolved,
			Kind:           req.Kind,
		}
	}

	analysisResult, extraSuppression, err := p.host.GetAnalysisResult(ctx, analysisCtx, scope, req.Project)
	if err != nil {
		if IsCancelled(err) {
			return Result{}, err
		}
		return Result{}, NewHostFailureError(err)
	}

	// Step 7: shape results first, since step 6's telemetry snapshot
	// consumes the same shaped telemetry the boundary Result carries.
	perAnalyzer := Dehydrate(analysisResult, entry.IDMap, req.ReportSuppressed, skipped)
	telemetry := ShapeTelemetry(analysisResult, entry.IDMap, resolved, req.WantTelemetry)

	// Step 6: optional telemetry snapshot.
	if req.WantPerformance && p.perf != nil && p.perf.ActiveSession() {
		unitCount := 1
		if scope == nil {
			unitCount += req.Project.DocumentCount()
		}
		forSpan := req.Span != nil
		p.perf.Record(unitCount, telemetry, forSpan)
	}

	var extra []Diagnostic
	if req.ReportSuppressed {
		extra = extraSuppression
	}

	return Result{
		PerAnalyzer:     perAnalyzer,
		Telemetry:       telemetry,
		ExtraSuppressed: extra,
	}, nil
}
