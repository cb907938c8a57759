package diag

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// SnapshotID opaquely identifies a full workspace state. The only
// operation the coordinator requires is equality.
type SnapshotID string

// NewSnapshotID derives a content-addressed id from arbitrary snapshot
// bytes (e.g. a serialized workspace version vector). Callers that
// already have a stable id may construct a SnapshotID directly.
func NewSnapshotID(content []byte) SnapshotID {
	sum := sha256.Sum256(content)
	return SnapshotID(hex.EncodeToString(sum[:]))
}

func (id SnapshotID) IsZero() bool { return id == "" }

// ProjectID opaquely identifies a project within a workspace.
type ProjectID string

func (id ProjectID) IsZero() bool { return id == "" }

// AnalyzerReferenceID identifies an AnalyzerReference for deduplication
// purposes. Two references with the same id are treated as the same
// reference regardless of object identity.
type AnalyzerReferenceID string

// AnalyzerID is a short, process-local key for an analyzer. It is
// stable only within the lifetime of the AnalyzerIDMap that produced
// it (see spec §9 Open Questions: no cross-restart stability is
// promised).
type AnalyzerID string

// analyzerIDAt formats the n-th assigned analyzer id. Kept deterministic
// and independent of any hashing so two builds over the same ordered
// input produce byte-identical ids.
func analyzerIDAt(n int) AnalyzerID {
	return AnalyzerID("a" + strconv.Itoa(n))
}

// AnalyzerIDMap is a bijection between AnalyzerID and Analyzer. Keys
// are unique by construction; the reverse lookup is always defined for
// any analyzer that was added through add.
type AnalyzerIDMap struct {
	byID map[AnalyzerID]Analyzer
	ids  []AnalyzerID // insertion order
}

// NewAnalyzerIDMap returns an empty, ready-to-populate map.
func NewAnalyzerIDMap() *AnalyzerIDMap {
	return &AnalyzerIDMap{
		byID: make(map[AnalyzerID]Analyzer),
	}
}

// add assigns the next AnalyzerID to analyzer and records it.
func (m *AnalyzerIDMap) add(analyzer Analyzer) AnalyzerID {
	id := analyzerIDAt(len(m.ids))
	m.byID[id] = analyzer
	m.ids = append(m.ids, id)
	return id
}

// Lookup resolves an AnalyzerID to its Analyzer.
func (m *AnalyzerIDMap) Lookup(id AnalyzerID) (Analyzer, bool) {
	a, ok := m.byID[id]
	return a, ok
}

// ReverseLookup finds the AnalyzerID for a given Analyzer. A miss here
// during result shaping is a ContractViolation (spec §7): every
// analyzer_id observed on the boundary must have been produced from
// the same map used to decode it.
func (m *AnalyzerIDMap) ReverseLookup(analyzer Analyzer) (AnalyzerID, bool) {
	for _, id := range m.ids {
		if m.byID[id] == analyzer {
			return id, true
		}
	}
	return "", false
}

// IDs returns the assigned ids in insertion order.
func (m *AnalyzerIDMap) IDs() []AnalyzerID {
	out := make([]AnalyzerID, len(m.ids))
	copy(out, m.ids)
	return out
}

func (m *AnalyzerIDMap) Len() int { return len(m.ids) }
