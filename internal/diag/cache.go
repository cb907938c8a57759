package diag

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// CacheEntry is C2's single process-wide memo entry (spec §3). At most
// one exists at a time.
type CacheEntry struct {
	Snapshot SnapshotID
	Project  ProjectHandle
	Context  AnalysisContext
	IDMap    *AnalyzerIDMap
}

// ContextCache implements C2 (spec §4.2): a single-slot memo of
// (snapshot, project) -> AnalysisContext, with snapshot-identity
// reconciliation and a deliberate cap of one live entry. A map keyed
// by project was rejected upstream for memory reasons; this type must
// never grow a second slot, LRU or otherwise (the build-memoization
// cache, C10, is a different thing entirely and lives in buildcache.go).
type ContextCache struct {
	host HostAdapter
	memo *buildMemo

	mu    sync.Mutex
	entry *CacheEntry

	// coalesces concurrent builds racing on the same (snapshot,
	// project id) so only one of them actually calls the host adapter
	// (spec-full §5: "Concurrent cache builds").
	sf singleflight.Group
}

// NewContextCache constructs an empty cache backed by host. memoSize
// bounds the C10 analyzer-set build memo (0 disables it).
func NewContextCache(host HostAdapter, memoSize int) *ContextCache {
	return &ContextCache{
		host: host,
		memo: newBuildMemo(memoSize),
	}
}

// PeekForReconciliation returns the cached project handle for
// (snapshot, projectID) if one is resident, without building anything.
// Used by the coordinator before scheduling to rewrite a request onto
// the cached handle (spec §4.2 "Snapshot reconciliation").
func (c *ContextCache) PeekForReconciliation(snapshot SnapshotID, projectID ProjectID) (ProjectHandle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entry == nil {
		return nil, false
	}
	if c.entry.Snapshot != snapshot || c.entry.Project.ID() != projectID {
		return nil, false
	}
	return c.entry.Project, true
}

// GetOrBuild implements C2's contract (spec §4.2). Whole-project
// requests (documentPresent == false) bypass the cache entirely: they
// neither read nor write the slot. Document-scoped requests hit the
// slot on an exact (snapshot, project-identity) match, otherwise build
// a fresh entry and replace the slot unconditionally under the lock.
func (c *ContextCache) GetOrBuild(ctx context.Context, snapshot SnapshotID, project ProjectHandle, documentPresent bool) (*CacheEntry, error) {
	if !documentPresent {
		return c.build(ctx, snapshot, project)
	}

	c.mu.Lock()
	if c.entry != nil && c.entry.Snapshot == snapshot && c.entry.Project == project {
		entry := c.entry
		c.mu.Unlock()
		return entry, nil
	}
	c.mu.Unlock()

	key := fmt.Sprintf("%s\x00%s", snapshot, project.ID())
	v, err, _ := c.sf.Do(key, func() (any, error) {
		// Re-check under the singleflight key: another goroutine may
		// have already published a matching entry while we waited to
		// be scheduled.
		c.mu.Lock()
		if c.entry != nil && c.entry.Snapshot == snapshot && c.entry.Project == project {
			entry := c.entry
			c.mu.Unlock()
			return entry, nil
		}
		c.mu.Unlock()

		entry, err := c.build(ctx, snapshot, project)
		if err != nil {
			if IsHostFailure(err) {
				// A failed build never gets published, and any stale
				// entry that might no longer reflect host state is
				// dropped rather than risk serving it again (spec §8
				// scenario 6: "cache slot cleared iff failure occurred
				// during build").
				c.mu.Lock()
				c.entry = nil
				c.mu.Unlock()
			}
			return nil, err
		}

		c.mu.Lock()
		c.entry = entry
		c.mu.Unlock()
		return entry, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*CacheEntry), nil
}

// build runs C1+C6 to produce a fresh CacheEntry for (snapshot,
// project), independent of the slot. Never mutates c.entry itself;
// callers decide whether to publish the result.
func (c *ContextCache) build(ctx context.Context, snapshot SnapshotID, project ProjectHandle) (*CacheEntry, error) {
	analyzers, idMap, err := c.memo.buildAnalyzerSet(nil, project.AnalyzerReferences(), project.Language())
	if err != nil {
		return nil, NewHostFailureError(err)
	}

	compilation, err := c.host.GetCompilation(ctx, project)
	if err != nil {
		if IsCancelled(err) {
			return nil, err
		}
		return nil, NewHostFailureError(err)
	}
	compilation, err = c.host.WithConcurrentBuild(ctx, compilation)
	if err != nil {
		if IsCancelled(err) {
			return nil, err
		}
		return nil, NewHostFailureError(err)
	}

	opts := DefaultAnalyzerOptions(nil)
	analysisCtx, err := c.host.WithAnalyzers(ctx, compilation, analyzers, opts)
	if err != nil {
		if IsCancelled(err) {
			return nil, err
		}
		return nil, NewHostFailureError(err)
	}

	return &CacheEntry{
		Snapshot: snapshot,
		Project:  project,
		Context:  analysisCtx,
		IDMap:    idMap,
	}, nil
}
