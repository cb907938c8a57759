package diag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPipelineComputeWholeProject(t *testing.T) {
	host := &FakeHostAdapter{}
	ref := NewFakeAnalyzerReference("ref", NewFakeAnalyzer("a1"), NewFakeAnalyzer("a2"))
	project := NewFakeProjectHandle("p1", "go", []AnalyzerReference{ref})
	cache := NewContextCache(host, 0)
	p := NewPipeline(cache, host, nil)

	entry, err := cache.GetOrBuild(context.Background(), SnapshotID("s1"), project, false)
	require.NoError(t, err)

	req := &Request{
		Snapshot:    SnapshotID("s1"),
		Project:     project,
		AnalyzerIDs: entry.IDMap.IDs(),
	}
	res, err := p.Compute(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.PerAnalyzer, 2)
}

func TestPipelineComputeEmptyResolveShortCircuits(t *testing.T) {
	host := &FakeHostAdapter{}
	ref := NewFakeAnalyzerReference("ref", NewFakeAnalyzer("a1"))
	project := NewFakeProjectHandle("p1", "go", []AnalyzerReference{ref})
	cache := NewContextCache(host, 0)
	p := NewPipeline(cache, host, nil)

	req := &Request{
		Snapshot:    SnapshotID("s1"),
		Project:     project,
		AnalyzerIDs: []AnalyzerID{"does-not-exist"},
	}
	res, err := p.Compute(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, EmptyResult(), res)
}

func TestPipelineComputeDocumentScopedSubsetLeavesCacheUntouched(t *testing.T) {
	host := &FakeHostAdapter{}
	ref := NewFakeAnalyzerReference("ref", NewFakeAnalyzer("a1"), NewFakeAnalyzer("a2"))
	project := NewFakeProjectHandle("p1", "go", []AnalyzerReference{ref}).WithDocument("main.go", "package main")
	cache := NewContextCache(host, 0)
	p := NewPipeline(cache, host, nil)

	entry, err := cache.GetOrBuild(context.Background(), SnapshotID("s1"), project, true)
	require.NoError(t, err)
	onlyFirst := entry.IDMap.IDs()[:1]

	req := &Request{
		Snapshot:    SnapshotID("s1"),
		Project:     project,
		Document:    "main.go",
		Kind:        AnalysisKindSemantic,
		AnalyzerIDs: onlyFirst,
	}
	res, err := p.Compute(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.PerAnalyzer, 1)

	// The cached entry itself must still carry every analyzer; the
	// analyzer subset travels in the request's DocumentScope only and is
	// never written back.
	again, err := cache.GetOrBuild(context.Background(), SnapshotID("s1"), project, true)
	require.NoError(t, err)
	require.Same(t, entry, again)
	require.Len(t, again.Context.Analyzers(), 2)
}
