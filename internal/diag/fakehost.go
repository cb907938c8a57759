package diag

import (
	"context"
	"fmt"
)

// This file provides a deterministic, in-memory HostAdapter and its
// supporting ProjectHandle/AnalyzerReference/Analyzer implementations.
// Grounded on the teacher's FakeClient (internal/llm/fakeLLM.go): a
// same-shaped stand-in for an expensive external dependency that
// returns deterministic, minimal output instead of talking to a real
// analyzer host. Used by this package's own tests and by cmd/
// coordinatord's -dev mode; never by anything serving real traffic.

// FakeAnalyzer is a named no-op analyzer; two FakeAnalyzers are equal
// (and therefore interchangeable for AnalyzerIDMap.ReverseLookup) iff
// they share a Name.
type FakeAnalyzer struct {
	name string
}

func NewFakeAnalyzer(name string) FakeAnalyzer { return FakeAnalyzer{name: name} }
func (a FakeAnalyzer) Name() string            { return a.name }

// FakeAnalyzerReference contributes a fixed analyzer set for every
// language, ignoring the language argument — good enough for a
// deterministic stand-in.
type FakeAnalyzerReference struct {
	id        AnalyzerReferenceID
	analyzers []Analyzer
}

func NewFakeAnalyzerReference(id string, analyzers ...FakeAnalyzer) *FakeAnalyzerReference {
	as := make([]Analyzer, len(analyzers))
	for i, a := range analyzers {
		as[i] = a
	}
	return &FakeAnalyzerReference{id: AnalyzerReferenceID(id), analyzers: as}
}

func (r *FakeAnalyzerReference) ID() AnalyzerReferenceID { return r.id }
func (r *FakeAnalyzerReference) AnalyzersFor(language string) ([]Analyzer, error) {
	return r.analyzers, nil
}

// fakeCompilation is an opaque marker for a FakeProjectHandle's
// compilation: its project id plus the handle's revision. No
// FakeProjectHandle method changes the revision (WithDocument does not
// either), so every build of one handle yields an equal value.
type fakeCompilation struct {
	projectID ProjectID
	revision  int
}

// FakeProjectHandle is an in-memory ProjectHandle backed by a fixed
// document set and analyzer reference list.
type FakeProjectHandle struct {
	id         ProjectID
	language   string
	refs       []AnalyzerReference
	hostOnly   []Analyzer
	documents  map[string]string
	revision   int
}

func NewFakeProjectHandle(id ProjectID, language string, refs []AnalyzerReference) *FakeProjectHandle {
	return &FakeProjectHandle{
		id:        id,
		language:  language,
		refs:      refs,
		documents: make(map[string]string),
	}
}

func (p *FakeProjectHandle) WithDocument(id, text string) *FakeProjectHandle {
	p.documents[id] = text
	return p
}

func (p *FakeProjectHandle) WithHostOnlyAnalyzers(analyzers ...Analyzer) *FakeProjectHandle {
	p.hostOnly = analyzers
	return p
}

func (p *FakeProjectHandle) ID() ProjectID                          { return p.id }
func (p *FakeProjectHandle) Language() string                       { return p.language }
func (p *FakeProjectHandle) AnalyzerReferences() []AnalyzerReference { return p.refs }
func (p *FakeProjectHandle) HostOnlyAnalyzers() []Analyzer           { return p.hostOnly }
func (p *FakeProjectHandle) DocumentCount() int                     { return len(p.documents) }

func (p *FakeProjectHandle) GetTextDocument(id string) (string, bool) {
	text, ok := p.documents[id]
	return text, ok
}

func (p *FakeProjectHandle) GetCompilation(ctx context.Context) (Compilation, error) {
	return fakeCompilation{projectID: p.id, revision: p.revision}, nil
}

type fakeAnalysisContext struct {
	analyzers   []Analyzer
	compilation Compilation
}

func (c fakeAnalysisContext) Analyzers() []Analyzer    { return c.analyzers }
func (c fakeAnalysisContext) Compilation() Compilation { return c.compilation }

type fakeAnalysisResult struct {
	order     []Analyzer
	diags     map[string]PartitionedDiagnostics
	telemetry map[string]TelemetryInfo
}

func (r fakeAnalysisResult) Diagnostics(visit func(Analyzer, PartitionedDiagnostics)) {
	for _, a := range r.order {
		visit(a, r.diags[a.Name()])
	}
}

func (r fakeAnalysisResult) Telemetry(visit func(Analyzer, TelemetryInfo)) {
	for _, a := range r.order {
		visit(a, r.telemetry[a.Name()])
	}
}

// FakeHostAdapter implements HostAdapter deterministically: every
// analyzer reports one diagnostic per requested document (or one
// whole-project diagnostic when no document scope is given) and fixed
// telemetry. It never talks to anything outside the process.
type FakeHostAdapter struct {
	// FailBuild, if set, makes GetCompilation return an error for any
	// project whose ID equals this value — used to exercise the
	// cache's HostFailure-clears-the-slot path in tests.
	FailBuild ProjectID
}

func (h *FakeHostAdapter) GetCompilation(ctx context.Context, project ProjectHandle) (Compilation, error) {
	if h.FailBuild != "" && project.ID() == h.FailBuild {
		return nil, fmt.Errorf("fake host: induced build failure for project %q", project.ID())
	}
	return project.GetCompilation(ctx)
}

func (h *FakeHostAdapter) WithConcurrentBuild(ctx context.Context, compilation Compilation) (Compilation, error) {
	return compilation, nil
}

func (h *FakeHostAdapter) WithAnalyzers(ctx context.Context, compilation Compilation, analyzers []Analyzer, opts AnalyzerOptions) (AnalysisContext, error) {
	return fakeAnalysisContext{analyzers: analyzers, compilation: compilation}, nil
}

func (h *FakeHostAdapter) GetAnalysisResult(ctx context.Context, analysisCtx AnalysisContext, scope *DocumentScope, project ProjectHandle) (AnalysisResult, []Diagnostic, error) {
	analyzers := analysisCtx.Analyzers()
	if scope != nil && scope.AnalyzerSubset != nil {
		analyzers = scope.AnalyzerSubset
	}

	result := fakeAnalysisResult{
		order:     analyzers,
		diags:     make(map[string]PartitionedDiagnostics, len(analyzers)),
		telemetry: make(map[string]TelemetryInfo, len(analyzers)),
	}

	for _, a := range analyzers {
		d := Diagnostic{
			Severity: SeverityWarning,
			Code:     "FAKE001",
			Message:  fmt.Sprintf("%s: deterministic fake diagnostic", a.Name()),
		}
		bucket := PartitionedDiagnostics{}
		if scope != nil {
			d.DocumentID = scope.DocumentID
			d.Span = scope.Span
			switch scope.Kind {
			case AnalysisKindSyntax:
				bucket.SyntaxLocal = map[string][]Diagnostic{scope.DocumentID: {d}}
			case AnalysisKindNonLocal:
				bucket.NonLocal = map[string][]Diagnostic{scope.DocumentID: {d}}
			default:
				bucket.SemanticLocal = map[string][]Diagnostic{scope.DocumentID: {d}}
			}
		} else {
			bucket.Other = []Diagnostic{d}
		}
		result.diags[a.Name()] = bucket
		result.telemetry[a.Name()] = TelemetryInfo{ExecutionMilliseconds: 1, DiagnosticCount: 1}
	}

	var extra []Diagnostic
	_ = project
	return result, extra, nil
}
