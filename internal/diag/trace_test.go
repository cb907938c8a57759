package diag

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRingTraceRetainsMostRecent(t *testing.T) {
	rt := NewRingTrace(3)
	defer rt.Close()

	for i := 0; i < 5; i++ {
		rt.Emit(TraceEvent{Event: "evt"})
	}

	require.Eventually(t, func() bool {
		return len(rt.Recent(0)) == 3
	}, time.Second, time.Millisecond)
}

func TestRingTraceRecentRespectsLimit(t *testing.T) {
	rt := NewRingTrace(10)
	defer rt.Close()

	rt.Emit(TraceEvent{Event: "a"})
	rt.Emit(TraceEvent{Event: "b"})
	rt.Emit(TraceEvent{Event: "c"})

	require.Eventually(t, func() bool {
		return len(rt.Recent(2)) == 2
	}, time.Second, time.Millisecond)

	recent := rt.Recent(2)
	require.Equal(t, "b", recent[0].Event)
	require.Equal(t, "c", recent[1].Event)
}

func TestRingTraceNeverBlocksEmit(t *testing.T) {
	rt := NewRingTrace(1)
	defer rt.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			rt.Emit(TraceEvent{Event: "burst"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Emit blocked under burst load")
	}
}
