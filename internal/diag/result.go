package diag

// Severity mirrors the small set of diagnostic severities a boundary
// caller needs to render; the host's internal severity model is out of
// scope (spec §1 Non-goals).
type Severity string

const (
	SeverityHidden  Severity = "hidden"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic is the wire-crossing shape of one finding. Suppressed is
// true when a source-level suppression (e.g. a pragma) applies; the
// host always computes with report_suppressed=true (spec §4.6), so
// filtering these out per-request happens in the shaper (spec §4.5).
type Diagnostic struct {
	DocumentID string
	Span       *TextSpan
	Severity   Severity
	Code       string
	Message    string
	Suppressed bool
}

// DiagnosticMap partitions one analyzer's diagnostics the way spec §3
// requires: syntax-local / semantic-local / nonlocal keyed by document,
// plus an unkeyed Other bucket.
type DiagnosticMap struct {
	SyntaxLocal   map[string][]Diagnostic
	SemanticLocal map[string][]Diagnostic
	NonLocal      map[string][]Diagnostic
	Other         []Diagnostic
}

// AnalyzerResult pairs one analyzer's id with its shaped diagnostics.
type AnalyzerResult struct {
	AnalyzerID AnalyzerID
	Diagnostics DiagnosticMap
}

// AnalyzerTelemetry pairs one analyzer's id with its telemetry.
type AnalyzerTelemetry struct {
	AnalyzerID AnalyzerID
	Telemetry  TelemetryInfo
}

// Result is the boundary GetDiagnostics response (spec §3/§6).
//
// ExtraSuppressed carries the host's extra_suppression_diagnostics
// (spec §4.4 step 5) — diagnostics about suppression itself rather
// than about any single analyzer, so they don't fit the per-analyzer
// map. They're only populated when the request asked to see suppressed
// diagnostics in the first place.
type Result struct {
	PerAnalyzer     []AnalyzerResult
	Telemetry       []AnalyzerTelemetry
	ExtraSuppressed []Diagnostic
}

// EmptyResult is returned for the EmptyResolve case (spec §7): it is
// not an error, just a Result with no content.
func EmptyResult() Result {
	return Result{}
}
