package transport

import (
	"errors"
	"fmt"
	"strings"

	"diagcoord/internal/diag"
)

// ProjectRegistry resolves a wire project_id into the live
// diag.ProjectHandle the coordinator should operate on. Owned by
// whatever wires up the host adapter (C9); the transport layer only
// consumes it.
type ProjectRegistry interface {
	Lookup(projectID string) (diag.ProjectHandle, bool)
}

// ToRequest maps a RequestWire onto a diag.Request, resolving its
// project through registry. It performs the document_id/analysis_kind
// pairing check at the boundary (spec §6) so a malformed request never
// reaches the coordinator at all.
func ToRequest(w RequestWire, registry ProjectRegistry, requestID string) (*diag.Request, error) {
	hasDoc := strings.TrimSpace(w.DocumentID) != ""
	hasKind := strings.TrimSpace(w.AnalysisKind) != ""
	if hasDoc != hasKind {
		return nil, fmt.Errorf("document_id and analysis_kind must be set together or both absent")
	}

	project, ok := registry.Lookup(w.ProjectID)
	if !ok {
		return nil, fmt.Errorf("unknown project_id %q", w.ProjectID)
	}

	ids := make([]diag.AnalyzerID, 0, len(w.AnalyzerIDs))
	for _, id := range w.AnalyzerIDs {
		ids = append(ids, diag.AnalyzerID(id))
	}

	priority := diag.PriorityNormal
	if w.HighPriority {
		priority = diag.PriorityHigh
	}

	return &diag.Request{
		Snapshot:         diag.SnapshotID(w.SnapshotID),
		Project:          project,
		Document:         w.DocumentID,
		Span:             w.Span,
		Kind:             diag.AnalysisKind(w.AnalysisKind),
		AnalyzerIDs:      ids,
		Priority:         priority,
		ReportSuppressed: w.ReportSuppressed,
		WantPerformance:  w.WantPerformance,
		WantTelemetry:    w.WantTelemetry,
		RequestID:        requestID,
	}, nil
}

// FromResult maps a diag.Result onto its wire shape.
func FromResult(r diag.Result) ResultWire {
	out := ResultWire{
		PerAnalyzer: make([]AnalyzerResultWire, 0, len(r.PerAnalyzer)),
	}
	for _, ar := range r.PerAnalyzer {
		out.PerAnalyzer = append(out.PerAnalyzer, AnalyzerResultWire{
			AnalyzerID:  string(ar.AnalyzerID),
			Diagnostics: diagnosticMapToWire(ar.Diagnostics),
		})
	}
	for _, t := range r.Telemetry {
		out.Telemetry = append(out.Telemetry, AnalyzerTelemetryWire{
			AnalyzerID:            string(t.AnalyzerID),
			ExecutionMilliseconds: t.Telemetry.ExecutionMilliseconds,
			DiagnosticCount:       t.Telemetry.DiagnosticCount,
		})
	}
	for _, d := range r.ExtraSuppressed {
		out.ExtraSuppressed = append(out.ExtraSuppressed, diagnosticToWire(d))
	}
	return out
}

func diagnosticMapToWire(m diag.DiagnosticMap) DiagnosticMapWire {
	return DiagnosticMapWire{
		SyntaxLocal:   diagnosticBucketsToWire(m.SyntaxLocal),
		SemanticLocal: diagnosticBucketsToWire(m.SemanticLocal),
		NonLocal:      diagnosticBucketsToWire(m.NonLocal),
		Other:         diagnosticsToWire(m.Other),
	}
}

func diagnosticBucketsToWire(m map[string][]diag.Diagnostic) map[string][]DiagnosticWire {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string][]DiagnosticWire, len(m))
	for doc, diags := range m {
		out[doc] = diagnosticsToWire(diags)
	}
	return out
}

func diagnosticsToWire(in []diag.Diagnostic) []DiagnosticWire {
	if len(in) == 0 {
		return nil
	}
	out := make([]DiagnosticWire, len(in))
	for i, d := range in {
		out[i] = diagnosticToWire(d)
	}
	return out
}

func diagnosticToWire(d diag.Diagnostic) DiagnosticWire {
	return DiagnosticWire{
		DocumentID: d.DocumentID,
		Span:       d.Span,
		Severity:   string(d.Severity),
		Code:       d.Code,
		Message:    d.Message,
	}
}

// ErrorToWire classifies an error returned from GetDiagnostics into a
// stable wire code, mirroring the teacher's connect-style error codes
// without pulling in a connect dependency for a JSON transport.
func ErrorToWire(err error) ErrorWire {
	var cv *diag.ContractViolationError
	switch {
	case diag.IsCancelled(err):
		return ErrorWire{Code: "cancelled", Message: err.Error()}
	case diag.IsHostFailure(err), errors.As(err, &cv):
		return ErrorWire{Code: "internal", Message: err.Error()}
	default:
		return ErrorWire{Code: "invalid_argument", Message: err.Error()}
	}
}
