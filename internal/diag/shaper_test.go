package diag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeAnalysisResultForShaper struct {
	entries   []Analyzer
	diags     map[string]PartitionedDiagnostics
	telemetry map[string]TelemetryInfo
}

func (r fakeAnalysisResultForShaper) Diagnostics(visit func(Analyzer, PartitionedDiagnostics)) {
	for _, a := range r.entries {
		visit(a, r.diags[a.Name()])
	}
}

func (r fakeAnalysisResultForShaper) Telemetry(visit func(Analyzer, TelemetryInfo)) {
	for _, a := range r.entries {
		visit(a, r.telemetry[a.Name()])
	}
}

func TestDehydrateSkipsHostOnlyAnalyzers(t *testing.T) {
	idMap := NewAnalyzerIDMap()
	a1 := NewFakeAnalyzer("a1")
	a2 := NewFakeAnalyzer("a2")
	id1 := idMap.add(a1)
	id2 := idMap.add(a2)

	result := fakeAnalysisResultForShaper{
		entries: []Analyzer{a1, a2},
		diags: map[string]PartitionedDiagnostics{
			"a1": {Other: []Diagnostic{{Message: "from a1"}}},
			"a2": {Other: []Diagnostic{{Message: "from a2"}}},
		},
	}

	out := Dehydrate(result, idMap, true, map[AnalyzerID]struct{}{id2: {}})
	require.Len(t, out, 1)
	require.Equal(t, id1, out[0].AnalyzerID)
}

func TestDehydrateFiltersSuppressedWhenNotRequested(t *testing.T) {
	idMap := NewAnalyzerIDMap()
	a1 := NewFakeAnalyzer("a1")
	idMap.add(a1)

	result := fakeAnalysisResultForShaper{
		entries: []Analyzer{a1},
		diags: map[string]PartitionedDiagnostics{
			"a1": {Other: []Diagnostic{
				{Message: "visible"},
				{Message: "hidden", Suppressed: true},
			}},
		},
	}

	out := Dehydrate(result, idMap, false, nil)
	require.Len(t, out, 1)
	require.Len(t, out[0].Diagnostics.Other, 1)
	require.Equal(t, "visible", out[0].Diagnostics.Other[0].Message)
}

func TestDehydratePanicsOnReverseLookupMiss(t *testing.T) {
	idMap := NewAnalyzerIDMap()
	stranger := NewFakeAnalyzer("stranger")
	result := fakeAnalysisResultForShaper{
		entries: []Analyzer{stranger},
		diags:   map[string]PartitionedDiagnostics{"stranger": {}},
	}

	require.Panics(t, func() {
		Dehydrate(result, idMap, true, nil)
	})
}

func TestShapeTelemetryEmptyWhenNotWanted(t *testing.T) {
	idMap := NewAnalyzerIDMap()
	out := ShapeTelemetry(fakeAnalysisResultForShaper{}, idMap, nil, false)
	require.Nil(t, out)
}

func TestShapeTelemetryFiltersToExecutedSubset(t *testing.T) {
	idMap := NewAnalyzerIDMap()
	a1 := NewFakeAnalyzer("a1")
	a2 := NewFakeAnalyzer("a2")
	idMap.add(a1)
	idMap.add(a2)

	result := fakeAnalysisResultForShaper{
		entries: []Analyzer{a1, a2},
		telemetry: map[string]TelemetryInfo{
			"a1": {ExecutionMilliseconds: 1, DiagnosticCount: 1},
			"a2": {ExecutionMilliseconds: 2, DiagnosticCount: 2},
		},
	}

	out := ShapeTelemetry(result, idMap, []Analyzer{a1}, true)
	require.Len(t, out, 1)
	require.Equal(t, 1, out[0].Telemetry.DiagnosticCount)
}

func TestShapeTelemetryPassesThroughWhenExecutedCoversAll(t *testing.T) {
	idMap := NewAnalyzerIDMap()
	a1 := NewFakeAnalyzer("a1")
	idMap.add(a1)

	result := fakeAnalysisResultForShaper{
		entries:   []Analyzer{a1},
		telemetry: map[string]TelemetryInfo{"a1": {ExecutionMilliseconds: 1}},
	}

	out := ShapeTelemetry(result, idMap, []Analyzer{a1}, true)
	require.Len(t, out, 1)
}
