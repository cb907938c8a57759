package diag

import "context"

// Analyzer is an opaque rule engine producing diagnostics against a
// compilation. The coordinator never inspects an analyzer's internals;
// it only needs to pass them around by identity (hence implementations
// must be comparable: AnalyzerIDMap.ReverseLookup matches them with ==).
type Analyzer interface {
	// Name is used only for logging and trace entries.
	Name() string
}

// AnalyzerReference has an opaque id used for deduplication and knows
// how to produce the ordered analyzers it contributes for a language.
type AnalyzerReference interface {
	ID() AnalyzerReferenceID
	AnalyzersFor(language string) ([]Analyzer, error)
}

// AnalysisKind distinguishes the three document-scoped analysis modes.
type AnalysisKind string

const (
	AnalysisKindSyntax   AnalysisKind = "syntax"
	AnalysisKindSemantic AnalysisKind = "semantic"
	AnalysisKindNonLocal AnalysisKind = "nonlocal"
)

// TextSpan is a half-open [Start, End) offset range within a document.
type TextSpan struct {
	Start int
	End   int
}

// DocumentScope narrows analysis to one document, optionally a span and
// analyzer subset. A nil *DocumentScope means whole-project analysis.
type DocumentScope struct {
	DocumentID     string
	Span           *TextSpan
	AnalyzerSubset []Analyzer
	Kind           AnalysisKind
}

// Compilation is an opaque, host-owned representation of a project's
// sources ready for semantic queries.
type Compilation interface{}

// AnalysisContext binds a Compilation to a fixed, ordered set of
// analyzers with fixed options. Immutable once created.
type AnalysisContext interface {
	Analyzers() []Analyzer
	Compilation() Compilation
}

// AnalyzerOptions is the fixed configuration bag the coordinator always
// asks the host for. See spec §4.6: a single cached context must
// satisfy every caller regardless of their individual request flags;
// per-request filtering (e.g. report_suppressed) happens in the shaper.
type AnalyzerOptions struct {
	Concurrent        bool
	LogExecutionTime  bool
	ReportSuppressed  bool
	// IDEOptions is an opaque option bag for the host. The coordinator
	// builds every context with a nil IDEOptions; the boundary request's
	// ide_options are accepted on the wire but not passed through here.
	IDEOptions map[string]string
}

// DefaultAnalyzerOptions returns the fixed options the coordinator
// always builds contexts with.
func DefaultAnalyzerOptions(ideOptions map[string]string) AnalyzerOptions {
	return AnalyzerOptions{
		Concurrent:       true,
		LogExecutionTime: true,
		ReportSuppressed: true,
		IDEOptions:       ideOptions,
	}
}

// PartitionedDiagnostics is the per-analyzer, per-document partitioning
// the host returns: each document bucket holds syntax-local,
// semantic-local and nonlocal diagnostics; Other holds diagnostics that
// are not attributable to any single document.
type PartitionedDiagnostics struct {
	SyntaxLocal   map[string][]Diagnostic
	SemanticLocal map[string][]Diagnostic
	NonLocal      map[string][]Diagnostic
	Other         []Diagnostic
}

// AnalysisResult is what the Host Adapter returns from one analysis
// run: per-analyzer diagnostics and per-analyzer telemetry, both in the
// host's own iteration order (preserved by the shaper).
type AnalysisResult interface {
	// Diagnostics visits every (analyzer, partitioned diagnostics) pair.
	Diagnostics(func(Analyzer, PartitionedDiagnostics))
	// Telemetry visits every (analyzer, TelemetryInfo) pair.
	Telemetry(func(Analyzer, TelemetryInfo))
}

// TelemetryInfo is opaque perf/usage data about one analyzer's run.
type TelemetryInfo struct {
	ExecutionMilliseconds float64
	DiagnosticCount       int
}

// ProjectHandle is a value carrying a project's identity, language,
// analyzer references and a way to fetch its Compilation. Two handles
// may share a ProjectID but differ in identity (e.g. across snapshot
// respawns); the coordinator's cache treats them as interchangeable
// only once SnapshotID also matches (see Coordinator.reconcile).
type ProjectHandle interface {
	ID() ProjectID
	Language() string
	AnalyzerReferences() []AnalyzerReference
	GetCompilation(ctx context.Context) (Compilation, error)
	// HostOnlyAnalyzers returns the subset of this project's analyzers
	// that the host already runs internally; the coordinator drops them
	// from its shaped result rather than report them a second time.
	HostOnlyAnalyzers() []Analyzer
	// DocumentCount is used to size a telemetry unit count for
	// whole-project requests (spec §4.4 step 6).
	DocumentCount() int
	// GetTextDocument re-looks-up a document by id against this
	// specific project handle, used during snapshot reconciliation.
	// Returns "", false if the document does not exist in this handle.
	GetTextDocument(id string) (string, bool)
}

// HostAdapter is the abstract interface to the analyzer host: the
// compilation/analysis engine that is out of scope for this spec. All
// methods may suspend and must respect ctx cancellation promptly.
type HostAdapter interface {
	GetCompilation(ctx context.Context, project ProjectHandle) (Compilation, error)
	WithConcurrentBuild(ctx context.Context, compilation Compilation) (Compilation, error)
	WithAnalyzers(ctx context.Context, compilation Compilation, analyzers []Analyzer, opts AnalyzerOptions) (AnalysisContext, error)
	// GetAnalysisResult runs analysis and returns the raw result plus
	// any extra suppression diagnostics the host computed separately
	// (see spec §4.4 step 5 and §4.5 Dehydrate).
	GetAnalysisResult(ctx context.Context, analysisCtx AnalysisContext, scope *DocumentScope, project ProjectHandle) (AnalysisResult, []Diagnostic, error)
}
