package diag

import "strings"

// BuildAnalyzerSet implements C1: it walks solution-level then
// project-level analyzer references in order, deduplicating by
// reference id, and returns the resulting ordered analyzer list plus
// the AnalyzerIDMap assigning ids to it (spec §4.1).
//
// Dedup happens before analyzer extraction: a reference id seen twice
// contributes its analyzers only once, even if two distinct reference
// objects share that id.
func BuildAnalyzerSet(solutionRefs, projectRefs []AnalyzerReference, language string) ([]Analyzer, *AnalyzerIDMap, error) {
	seen := make(map[AnalyzerReferenceID]struct{}, len(solutionRefs)+len(projectRefs))
	idMap := NewAnalyzerIDMap()
	var analyzers []Analyzer

	visit := func(refs []AnalyzerReference) error {
		for _, ref := range refs {
			id := ref.ID()
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			contributed, err := ref.AnalyzersFor(language)
			if err != nil {
				return err
			}
			for _, a := range contributed {
				analyzers = append(analyzers, a)
				idMap.add(a)
			}
		}
		return nil
	}

	if err := visit(solutionRefs); err != nil {
		return nil, nil, err
	}
	if err := visit(projectRefs); err != nil {
		return nil, nil, err
	}
	return analyzers, idMap, nil
}

// referenceSignature computes a stable string key for a sequence of
// analyzer reference ids plus the language they're being resolved
// against, used by the build-memoization cache (C10, spec-full §4.10).
// It is not a cryptographic digest — just a deterministic, injective-
// enough key for an in-process LRU.
func referenceSignature(solutionRefs, projectRefs []AnalyzerReference, language string) string {
	var b strings.Builder
	b.WriteString(language)
	for _, r := range solutionRefs {
		b.WriteByte('|')
		b.WriteString(string(r.ID()))
	}
	b.WriteString("||")
	for _, r := range projectRefs {
		b.WriteByte('|')
		b.WriteString(string(r.ID()))
	}
	return b.String()
}
