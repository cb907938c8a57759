package transport

import "diagcoord/internal/diag"

// RequestWire is the JSON wire shape of a GetDiagnostics call (spec
// §6), carried either as a unary POST body or as a WebSocket envelope
// payload.
type RequestWire struct {
	SnapshotID       string            `json:"snapshot_id"`
	ProjectID        string            `json:"project_id"`
	DocumentID       string            `json:"document_id,omitempty"`
	Span             *diag.TextSpan    `json:"span,omitempty"`
	AnalysisKind     string            `json:"analysis_kind,omitempty"`
	AnalyzerIDs      []string          `json:"analyzer_ids"`
	IDEOptions       map[string]string `json:"ide_options,omitempty"`
	HighPriority     bool              `json:"high_priority"`
	ReportSuppressed bool              `json:"report_suppressed"`
	WantPerformance  bool              `json:"want_performance"`
	WantTelemetry    bool              `json:"want_telemetry"`
}

// DiagnosticWire is the wire shape of one diagnostic.
type DiagnosticWire struct {
	DocumentID string         `json:"document_id,omitempty"`
	Span       *diag.TextSpan `json:"span,omitempty"`
	Severity   string         `json:"severity"`
	Code       string         `json:"code"`
	Message    string         `json:"message"`
}

// DiagnosticMapWire is the wire shape of one analyzer's partitioned
// diagnostics (spec §3/§6).
type DiagnosticMapWire struct {
	SyntaxLocal   map[string][]DiagnosticWire `json:"syntax_local,omitempty"`
	SemanticLocal map[string][]DiagnosticWire `json:"semantic_local,omitempty"`
	NonLocal      map[string][]DiagnosticWire `json:"nonlocal,omitempty"`
	Other         []DiagnosticWire            `json:"other,omitempty"`
}

// AnalyzerResultWire pairs an analyzer id with its shaped diagnostics.
type AnalyzerResultWire struct {
	AnalyzerID string            `json:"analyzer_id"`
	Diagnostics DiagnosticMapWire `json:"diagnostics"`
}

// AnalyzerTelemetryWire pairs an analyzer id with its telemetry.
type AnalyzerTelemetryWire struct {
	AnalyzerID            string  `json:"analyzer_id"`
	ExecutionMilliseconds float64 `json:"execution_milliseconds"`
	DiagnosticCount       int     `json:"diagnostic_count"`
}

// ResultWire is the JSON wire shape of a GetDiagnostics response.
type ResultWire struct {
	PerAnalyzer     []AnalyzerResultWire    `json:"per_analyzer"`
	Telemetry       []AnalyzerTelemetryWire `json:"telemetry,omitempty"`
	ExtraSuppressed []DiagnosticWire        `json:"extra_suppressed,omitempty"`
}

// ErrorWire is returned in place of a ResultWire when a request fails.
type ErrorWire struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
