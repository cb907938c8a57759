package transport

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"diagcoord/internal/diag"
)

// UnaryHandler serves GetDiagnostics as a plain JSON POST endpoint,
// the simpler sibling of the WebSocket transport for callers that just
// want one request/response round trip.
type UnaryHandler struct {
	coordinator *diag.Coordinator
	registry    ProjectRegistry
}

func NewUnaryHandler(coordinator *diag.Coordinator, registry ProjectRegistry) *UnaryHandler {
	return &UnaryHandler{coordinator: coordinator, registry: registry}
}

func (h *UnaryHandler) HandleGetDiagnostics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var in RequestWire
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSONError(w, http.StatusBadRequest, ErrorWire{Code: "invalid_argument", Message: "invalid json body"})
		return
	}

	requestID := uuid.NewString()
	req, err := ToRequest(in, h.registry, requestID)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, ErrorWire{Code: "invalid_argument", Message: err.Error()})
		return
	}

	result, err := func() (result diag.Result, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("diagcoord: recovered contract violation for request %s: %v", requestID, rec)
				err = recoveredAsError(rec)
			}
		}()
		return h.coordinator.GetDiagnostics(r.Context(), req)
	}()
	if err != nil {
		ew := ErrorToWire(err)
		writeJSONError(w, statusForCode(ew.Code), ew)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(FromResult(result))
}

func statusForCode(code string) int {
	switch code {
	case "invalid_argument":
		return http.StatusBadRequest
	case "cancelled":
		return 499
	default:
		return http.StatusInternalServerError
	}
}

func writeJSONError(w http.ResponseWriter, status int, ew ErrorWire) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ew)
}

func recoveredAsError(rec any) error {
	if err, ok := rec.(error); ok {
		return err
	}
	return diag.NewContractViolationError("recovered panic with non-error value")
}
