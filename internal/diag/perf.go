package diag

// PerfTracker is the opaque performance-tracking collaborator
// referenced in spec §4.4 step 6. It is only consulted when a caller
// asked for performance data and a tracking session is actually
// active; otherwise the coordinator does no extra work.
type PerfTracker interface {
	ActiveSession() bool
	Record(unitCount int, telemetry []AnalyzerTelemetry, forSpan bool)
}
