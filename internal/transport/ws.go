package transport

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"diagcoord/internal/diag"
)

// Grounded on the teacher's HandleInteractionWS: one gorilla/websocket
// connection, a dedicated writer goroutine fed by a buffered channel,
// and ping/pong keepalive. Unlike the teacher's long-lived interaction
// subscription, each inbound envelope here maps onto exactly one
// GetDiagnostics call and gets exactly one outbound envelope back —
// there is no server-push subscription stream.

const (
	wsWriteWait = 10 * time.Second
	wsPongWait  = 60 * time.Second
	wsPingEvery = (wsPongWait * 9) / 10
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type wsInbound struct {
	Type      string      `json:"type"`
	RequestID string      `json:"request_id,omitempty"`
	Request   RequestWire `json:"request,omitempty"`
}

type wsOutbound struct {
	Type      string      `json:"type"`
	RequestID string      `json:"request_id,omitempty"`
	Result    *ResultWire `json:"result,omitempty"`
	Error     *ErrorWire  `json:"error,omitempty"`
}

// WSHandler serves GetDiagnostics over a WebSocket JSON envelope
// connection, with every inbound request dispatched to the coordinator
// concurrently so a HIGH-priority request on the same connection is
// never stuck behind an earlier NORMAL one.
type WSHandler struct {
	coordinator *diag.Coordinator
	registry    ProjectRegistry
}

func NewWSHandler(coordinator *diag.Coordinator, registry ProjectRegistry) *WSHandler {
	return &WSHandler{coordinator: coordinator, registry: registry}
}

func (h *WSHandler) HandleGetDiagnosticsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(wsPongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	writeCh := make(chan wsOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(wsPingEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	for {
		var in wsInbound
		if err := conn.ReadJSON(&in); err != nil {
			cancel()
			<-writerDone
			return
		}

		msgType := strings.ToLower(strings.TrimSpace(in.Type))
		switch msgType {
		case "ping":
			pushWS(writeCh, wsOutbound{Type: "pong"})
		case "get_diagnostics":
			requestID := strings.TrimSpace(in.RequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			go h.handleOne(ctx, writeCh, requestID, in.Request)
		default:
			pushWS(writeCh, wsOutbound{
				Type:  "error",
				Error: &ErrorWire{Code: "invalid_argument", Message: "unsupported type: " + msgType},
			})
		}
	}
}

func (h *WSHandler) handleOne(ctx context.Context, writeCh chan wsOutbound, requestID string, in RequestWire) {
	req, err := ToRequest(in, h.registry, requestID)
	if err != nil {
		ew := ErrorWire{Code: "invalid_argument", Message: err.Error()}
		pushWS(writeCh, wsOutbound{Type: "error", RequestID: requestID, Error: &ew})
		return
	}

	result, err := func() (result diag.Result, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("diagcoord: recovered contract violation for request %s: %v", requestID, rec)
				err = recoveredAsError(rec)
			}
		}()
		return h.coordinator.GetDiagnostics(ctx, req)
	}()
	if err != nil {
		ew := ErrorToWire(err)
		pushWS(writeCh, wsOutbound{Type: "error", RequestID: requestID, Error: &ew})
		return
	}

	wire := FromResult(result)
	pushWS(writeCh, wsOutbound{Type: "result", RequestID: requestID, Result: &wire})
}

func pushWS(writeCh chan wsOutbound, out wsOutbound) {
	select {
	case writeCh <- out:
	default:
		// Drop the oldest queued message to make room rather than block
		// the reader goroutine — matches the teacher's pushInteractionWS.
		select {
		case <-writeCh:
		default:
		}
		select {
		case writeCh <- out:
		default:
		}
	}
}
