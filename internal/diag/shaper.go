package diag

// Dehydrate implements C5's first sub-operation (spec §4.5): convert
// an AnalysisResult's per-analyzer diagnostics into the boundary
// AnalyzerResult list, reverse-looking-up each analyzer's id in idMap.
// A miss on that reverse lookup is a ContractViolation and panics —
// every analyzer the host hands back must have come from the same
// AnalyzerIdMap used to build the context that ran it.
//
// The host's fixed options always run with report_suppressed=true
// (spec §4.6); reportSuppressed controls whether this pass strips
// suppressed diagnostics back out for callers that didn't ask to see
// them. skippedHostOnly names analyzers the project reported as
// host-only (spec §4.4 step 4) — the host already accounts for them
// outside our analyzer subset, so they're dropped here rather than
// double-reported.
func Dehydrate(analysis AnalysisResult, idMap *AnalyzerIDMap, reportSuppressed bool, skippedHostOnly map[AnalyzerID]struct{}) []AnalyzerResult {
	var out []AnalyzerResult
	analysis.Diagnostics(func(analyzer Analyzer, partitioned PartitionedDiagnostics) {
		id, ok := idMap.ReverseLookup(analyzer)
		if !ok {
			panic(NewContractViolationError("analyzer " + analyzer.Name() + " has no AnalyzerIDMap reverse lookup"))
		}
		if _, skip := skippedHostOnly[id]; skip {
			return
		}
		out = append(out, AnalyzerResult{
			AnalyzerID: id,
			Diagnostics: DiagnosticMap{
				SyntaxLocal:   filterDiagnosticBuckets(partitioned.SyntaxLocal, reportSuppressed),
				SemanticLocal: filterDiagnosticBuckets(partitioned.SemanticLocal, reportSuppressed),
				NonLocal:      filterDiagnosticBuckets(partitioned.NonLocal, reportSuppressed),
				Other:         filterDiagnostics(partitioned.Other, reportSuppressed),
			},
		})
	})
	return out
}

func filterDiagnostics(in []Diagnostic, reportSuppressed bool) []Diagnostic {
	if reportSuppressed || len(in) == 0 {
		return in
	}
	out := make([]Diagnostic, 0, len(in))
	for _, d := range in {
		if !d.Suppressed {
			out = append(out, d)
		}
	}
	return out
}

func filterDiagnosticBuckets(in map[string][]Diagnostic, reportSuppressed bool) map[string][]Diagnostic {
	if reportSuppressed || len(in) == 0 {
		return in
	}
	out := make(map[string][]Diagnostic, len(in))
	for doc, diags := range in {
		out[doc] = filterDiagnostics(diags, reportSuppressed)
	}
	return out
}

// ShapeTelemetry implements C5's second sub-operation (spec §4.5). An
// empty slice is returned when want_telemetry is false. Otherwise, if
// executed names strictly fewer analyzers than the host's telemetry
// covers — the specialization case, where a document-scoped request
// reused a cached context built for a larger analyzer set — telemetry
// is filtered down to just the executed analyzers; otherwise it is
// passed through untouched. Host iteration order is preserved either
// way.
func ShapeTelemetry(analysis AnalysisResult, idMap *AnalyzerIDMap, executed []Analyzer, wantTelemetry bool) []AnalyzerTelemetry {
	if !wantTelemetry {
		return nil
	}

	var all []AnalyzerTelemetry
	analysis.Telemetry(func(analyzer Analyzer, info TelemetryInfo) {
		id, ok := idMap.ReverseLookup(analyzer)
		if !ok {
			panic(NewContractViolationError("analyzer " + analyzer.Name() + " has no AnalyzerIDMap reverse lookup"))
		}
		all = append(all, AnalyzerTelemetry{AnalyzerID: id, Telemetry: info})
	})

	if len(executed) >= len(all) {
		return all
	}

	executedIDs := make(map[AnalyzerID]struct{}, len(executed))
	for _, a := range executed {
		if id, ok := idMap.ReverseLookup(a); ok {
			executedIDs[id] = struct{}{}
		}
	}

	filtered := make([]AnalyzerTelemetry, 0, len(executed))
	for _, t := range all {
		if _, ok := executedIDs[t.AnalyzerID]; ok {
			filtered = append(filtered, t)
		}
	}
	return filtered
}
