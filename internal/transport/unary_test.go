package transport

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"diagcoord/internal/diag"
)

func TestUnaryHandlerHandlesWholeProjectRequest(t *testing.T) {
	ref := diag.NewFakeAnalyzerReference("ref", diag.NewFakeAnalyzer("a1"))
	project := diag.NewFakeProjectHandle("p1", "go", []diag.AnalyzerReference{ref})
	registry := staticRegistry{"p1": project}
	coordinator := diag.NewCoordinator(&diag.FakeHostAdapter{}, nil, 0, nil)

	handler := NewUnaryHandler(coordinator, registry)

	body, err := json.Marshal(RequestWire{
		ProjectID:   "p1",
		AnalyzerIDs: []string{"a0"},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/diagnostics", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.HandleGetDiagnostics(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var out ResultWire
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.PerAnalyzer, 1)
}

func TestUnaryHandlerRejectsBadMethod(t *testing.T) {
	handler := NewUnaryHandler(nil, staticRegistry{})
	req := httptest.NewRequest(http.MethodGet, "/v1/diagnostics", nil)
	rec := httptest.NewRecorder()
	handler.HandleGetDiagnostics(rec, req)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestUnaryHandlerRejectsUnknownProject(t *testing.T) {
	coordinator := diag.NewCoordinator(&diag.FakeHostAdapter{}, nil, 0, nil)
	handler := NewUnaryHandler(coordinator, staticRegistry{})

	body, _ := json.Marshal(RequestWire{ProjectID: "missing"})
	req := httptest.NewRequest(http.MethodPost, "/v1/diagnostics", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.HandleGetDiagnostics(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
