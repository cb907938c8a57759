package diag

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// buildMemo is C10 (spec-full §4.10): a bounded memo of
// referenceSignature -> (analyzers, AnalyzerIDMap) that lets many
// projects sharing the same analyzer references skip re-running
// AnalyzersFor on every cache miss. It is purely a speed-up over C1
// and must never be treated as, or substitute for, the C2 single-slot
// context cache: a hit here still goes through the full C2/C4 path.
type buildMemo struct {
	cache *lru.Cache[string, buildMemoEntry]
}

type buildMemoEntry struct {
	analyzers []Analyzer
	idMap     *AnalyzerIDMap
}

// newBuildMemo constructs a memo bounded to size entries. size <= 0
// disables memoization (every call is a cache miss).
func newBuildMemo(size int) *buildMemo {
	if size <= 0 {
		return &buildMemo{}
	}
	c, err := lru.New[string, buildMemoEntry](size)
	if err != nil {
		// Only returns an error for a non-positive size, already
		// guarded above.
		return &buildMemo{}
	}
	return &buildMemo{cache: c}
}

// buildAnalyzerSet is C1 fronted by the memo: same inputs, same
// observable output as BuildAnalyzerSet, just cheaper on repeat calls
// for the same reference set.
func (m *buildMemo) buildAnalyzerSet(solutionRefs, projectRefs []AnalyzerReference, language string) ([]Analyzer, *AnalyzerIDMap, error) {
	if m == nil || m.cache == nil {
		return BuildAnalyzerSet(solutionRefs, projectRefs, language)
	}
	key := referenceSignature(solutionRefs, projectRefs, language)
	if entry, ok := m.cache.Get(key); ok {
		return entry.analyzers, entry.idMap, nil
	}
	analyzers, idMap, err := BuildAnalyzerSet(solutionRefs, projectRefs, language)
	if err != nil {
		return nil, nil, err
	}
	m.cache.Add(key, buildMemoEntry{analyzers: analyzers, idMap: idMap})
	return analyzers, idMap, nil
}
