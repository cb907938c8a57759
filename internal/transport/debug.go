package transport

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"diagcoord/internal/diag"
)

// DebugHandler exposes C7's trace ring for operators, mirroring the
// teacher's debug/run-logs endpoint.
type DebugHandler struct {
	trace *diag.RingTrace
}

func NewDebugHandler(trace *diag.RingTrace) *DebugHandler {
	return &DebugHandler{trace: trace}
}

func (h *DebugHandler) HandleTrace(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.trace == nil {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"events": []any{}})
		return
	}

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	events := h.trace.Recent(limit)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"events": events})
}
