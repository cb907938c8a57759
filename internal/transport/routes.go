package transport

import "net/http"

// NewMux wires the unary, WebSocket and debug handlers into one
// http.Handler, mirroring the teacher's server.NewMux.
func NewMux(unary *UnaryHandler, ws *WSHandler, debug *DebugHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/diagnostics", unary.HandleGetDiagnostics)
	mux.HandleFunc("/v1/diagnostics/ws", ws.HandleGetDiagnosticsWS)
	mux.HandleFunc("/debug/trace", debug.HandleTrace)

	return mux
}
