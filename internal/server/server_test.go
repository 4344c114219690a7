package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/gqlpick/internal/clock"
	"github.com/danieljhkim/gqlpick/internal/engine"
	"github.com/danieljhkim/gqlpick/internal/probe"
	"github.com/danieljhkim/gqlpick/internal/state"
)

type stubProber map[string]error

func (p stubProber) Probe(_ context.Context, endpoint string) error {
	return p[endpoint]
}

func newTestRouter(t *testing.T) (http.Handler, *state.MemoryKV) {
	t.Helper()
	kv := state.NewMemoryKV()
	prober := stubProber{"https://down.example": &probe.StatusError{StatusCode: 500}}
	eng := engine.New(kv, prober, clock.NewFakeClock(time.Unix(0, 0)), nil, nil)
	return NewRouter(eng, nil), kv
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	var resp struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NoError(t, json.Unmarshal(resp.Data, v))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealth(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/v1/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var health HealthResponse
	decodeData(t, rec, &health)
	assert.True(t, health.Healthy)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestResolve(t *testing.T) {
	h, kv := newTestRouter(t)
	require.NoError(t, kv.Set(state.LastEndpointKey, "https://z"))

	page := "http://host/?endpoint=" + "https%3A%2F%2Fy"
	rec := do(t, h, http.MethodGet, "/api/v1/resolve?url="+url.QueryEscape(page), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var result engine.ResolveResult
	decodeData(t, rec, &result)
	assert.Equal(t, "https://y", result.Endpoint)
	assert.Equal(t, "query", result.Source)

	rec = do(t, h, http.MethodGet, "/api/v1/resolve", "")
	decodeData(t, rec, &result)
	assert.Equal(t, "https://z", result.Endpoint)
	assert.Equal(t, "last-used", result.Source)
}

func TestCheck(t *testing.T) {
	h, _ := newTestRouter(t)

	tests := []struct {
		endpoint string
		want     string
	}{
		{endpoint: "https://up.example", want: "valid"},
		{endpoint: "https://down.example", want: "invalid"},
		{endpoint: "https://", want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/v1/check", `{"endpoint":"`+tt.endpoint+`"}`)
			require.Equal(t, http.StatusOK, rec.Code)

			var result engine.CheckResult
			decodeData(t, rec, &result)
			assert.Equal(t, tt.want, result.Validation)
		})
	}
}

func TestCheck_BadRequests(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/v1/check", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrCodeInvalidRequest, decodeError(t, rec).Code)

	rec = do(t, h, http.MethodPost, "/api/v1/check", `{"endpoint":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/check", strings.NewReader("endpoint=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLast(t *testing.T) {
	h, kv := newTestRouter(t)

	rec := do(t, h, http.MethodPut, "/api/v1/last", `{"endpoint":"https://down.example"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, ErrCodeNotReachable, decodeError(t, rec).Code)
	_, ok, _ := kv.Get(state.LastEndpointKey)
	assert.False(t, ok, "unreachable endpoint must not be stored")

	rec = do(t, h, http.MethodPut, "/api/v1/last", `{"endpoint":"localhost"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/v1/last", `{"endpoint":"https://up.example"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/last", "")
	var last engine.LastUsedResult
	decodeData(t, rec, &last)
	assert.Equal(t, engine.LastUsedResult{Endpoint: "https://up.example", Set: true}, last)

	rec = do(t, h, http.MethodDelete, "/api/v1/last", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	_, ok, _ = kv.Get(state.LastEndpointKey)
	assert.False(t, ok)
}

func TestWorkspaces(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/v1/workspaces", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list engine.ListSavedResult
	decodeData(t, rec, &list)
	assert.NotNil(t, list.Workspaces)
	assert.Empty(t, list.Workspaces)

	rec = do(t, h, http.MethodPut, "/api/v1/workspaces",
		`{"workspaces":{"":{"docs":[]},"https://a":{"docs":[1,2,3]}}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/v1/workspaces?merge=true",
		`{"workspaces":{"https://b":{"docs":[]}}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var imported engine.ImportWorkspacesResult
	decodeData(t, rec, &imported)
	assert.Equal(t, 3, imported.Total)

	rec = do(t, h, http.MethodGet, "/api/v1/workspaces", "")
	decodeData(t, rec, &list)
	require.Len(t, list.Workspaces, 2)
	assert.Equal(t, state.SavedEndpoint{Endpoint: "https://a", Valid: true, DocumentCount: 3}, list.Workspaces[0])

	rec = do(t, h, http.MethodDelete, "/api/v1/workspaces?endpoint=https://a", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/v1/workspaces?endpoint=https://a", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/v1/workspaces?merge=maybe", `{"workspaces":{}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/v1/workspaces", `[]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddWorkspace(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/v1/workspaces", `{"endpoint":"https://up.example"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var added engine.AddWorkspaceResult
	decodeData(t, rec, &added)
	assert.Equal(t, engine.AddWorkspaceResult{Endpoint: "https://up.example", Created: true}, added)

	rec = do(t, h, http.MethodPost, "/api/v1/workspaces", `{"endpoint":"https://up.example"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/workspaces", `{"endpoint":"https://down.example"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, ErrCodeNotReachable, decodeError(t, rec).Code)

	rec = do(t, h, http.MethodGet, "/api/v1/workspaces", "")
	var list engine.ListSavedResult
	decodeData(t, rec, &list)
	assert.Equal(t, []state.SavedEndpoint{{Endpoint: "https://up.example", Valid: true}}, list.Workspaces)
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodOptions, "/api/v1/check", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PUT")
}

func TestRequestID(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/v1/health", "")
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestRecovery(t *testing.T) {
	handler := Recovery(hclog.NewNullLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, ErrCodeInternalError, decodeError(t, rec).Code)
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	eng := engine.New(state.NewMemoryKV(), stubProber{}, &clock.RealClock{}, nil, nil)
	srv := New("127.0.0.1:0", eng, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
