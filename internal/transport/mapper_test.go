package transport

import (
	"testing"

	"github.com/stretchr/testify/require"

	"diagcoord/internal/diag"
)

type staticRegistry map[string]diag.ProjectHandle

func (r staticRegistry) Lookup(id string) (diag.ProjectHandle, bool) {
	h, ok := r[id]
	return h, ok
}

func TestToRequestResolvesProjectAndPriority(t *testing.T) {
	ref := diag.NewFakeAnalyzerReference("ref", diag.NewFakeAnalyzer("a1"))
	project := diag.NewFakeProjectHandle("p1", "go", []diag.AnalyzerReference{ref})
	registry := staticRegistry{"p1": project}

	req, err := ToRequest(RequestWire{
		ProjectID:    "p1",
		DocumentID:   "main.go",
		AnalysisKind: "syntax",
		HighPriority: true,
	}, registry, "req-1")
	require.NoError(t, err)
	require.Equal(t, diag.ProjectHandle(project), req.Project)
	require.Equal(t, diag.PriorityHigh, req.Priority)
	require.Equal(t, "req-1", req.RequestID)
}

func TestToRequestRejectsMismatchedDocumentAndKind(t *testing.T) {
	registry := staticRegistry{}
	_, err := ToRequest(RequestWire{ProjectID: "p1", DocumentID: "main.go"}, registry, "req-1")
	require.Error(t, err)
}

func TestToRequestRejectsUnknownProject(t *testing.T) {
	registry := staticRegistry{}
	_, err := ToRequest(RequestWire{ProjectID: "does-not-exist"}, registry, "req-1")
	require.Error(t, err)
}

func TestFromResultRoundTripsShape(t *testing.T) {
	result := diag.Result{
		PerAnalyzer: []diag.AnalyzerResult{{
			AnalyzerID: "a0",
			Diagnostics: diag.DiagnosticMap{
				Other: []diag.Diagnostic{{Severity: diag.SeverityWarning, Message: "hi"}},
			},
		}},
		Telemetry: []diag.AnalyzerTelemetry{{
			AnalyzerID: "a0",
			Telemetry:  diag.TelemetryInfo{ExecutionMilliseconds: 3, DiagnosticCount: 1},
		}},
	}

	wire := FromResult(result)
	require.Len(t, wire.PerAnalyzer, 1)
	require.Equal(t, "a0", wire.PerAnalyzer[0].AnalyzerID)
	require.Equal(t, "hi", wire.PerAnalyzer[0].Diagnostics.Other[0].Message)
	require.Len(t, wire.Telemetry, 1)
	require.Equal(t, 1, wire.Telemetry[0].DiagnosticCount)
}

func TestErrorToWireClassifiesCancelled(t *testing.T) {
	ew := ErrorToWire(diag.NewCancelledError(nil))
	require.Equal(t, "cancelled", ew.Code)
}
