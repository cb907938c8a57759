package diag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnapshotIDIsContentAddressed(t *testing.T) {
	a := NewSnapshotID([]byte("hello"))
	b := NewSnapshotID([]byte("hello"))
	c := NewSnapshotID([]byte("world"))

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.False(t, a.IsZero())
}

func TestAnalyzerIDMapRoundTrip(t *testing.T) {
	m := NewAnalyzerIDMap()
	a1 := NewFakeAnalyzer("a1")
	a2 := NewFakeAnalyzer("a2")

	id1 := m.add(a1)
	id2 := m.add(a2)
	require.NotEqual(t, id1, id2)

	got1, ok := m.Lookup(id1)
	require.True(t, ok)
	require.Equal(t, a1, got1)

	rid2, ok := m.ReverseLookup(a2)
	require.True(t, ok)
	require.Equal(t, id2, rid2)

	_, ok = m.Lookup(AnalyzerID("does-not-exist"))
	require.False(t, ok)

	require.Equal(t, 2, m.Len())
	require.ElementsMatch(t, []AnalyzerID{id1, id2}, m.IDs())
}

func TestAnalyzerIDMapReverseLookupMiss(t *testing.T) {
	m := NewAnalyzerIDMap()
	m.add(NewFakeAnalyzer("known"))

	_, ok := m.ReverseLookup(NewFakeAnalyzer("unknown"))
	require.False(t, ok)
}
