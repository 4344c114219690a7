package integration

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/danieljhkim/gqlpick/internal/clock"
	"github.com/danieljhkim/gqlpick/internal/config"
	"github.com/danieljhkim/gqlpick/internal/engine"
	"github.com/danieljhkim/gqlpick/internal/fsops"
	"github.com/danieljhkim/gqlpick/internal/probe"
	"github.com/danieljhkim/gqlpick/internal/state"
)

const storagePath = "/data/storage.json"

// graphQLServer answers introspection probes. Paths listed in down answer
// 500; every request is recorded.
type graphQLServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []string
	down     map[string]bool
}

func newGraphQLServer(t *testing.T, down ...string) *graphQLServer {
	t.Helper()
	g := &graphQLServer{down: make(map[string]bool)}
	for _, path := range down {
		g.down[path] = true
	}

	g.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		g.requests = append(g.requests, r.URL.Path)
		isDown := g.down[r.URL.Path]
		g.mu.Unlock()

		if isDown {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, `{"data":{"__schema":{"queryType":{"kind":"OBJECT"}}}}`)
	}))
	t.Cleanup(g.Close)
	return g
}

func (g *graphQLServer) Requests() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.requests...)
}

// testEnv is an engine backed by an in-memory filesystem and a fake clock.
type testEnv struct {
	engine *engine.Engine
	fs     *fsops.AferoFS
	kv     *state.FileKV
	clock  *clock.FakeClock
}

func setupTestEngine(t *testing.T, srv *graphQLServer) *testEnv {
	t.Helper()
	fs := fsops.NewMemFS()
	kv := state.NewFileKV(fs, storagePath, nil)
	clk := clock.NewFakeClock(time.Unix(0, 0))
	prober := probe.NewHTTPProber(srv.Client(), probe.WithTimeout(5*time.Second))

	return &testEnv{
		engine: engine.New(kv, prober, clk, config.DefaultSettings(), nil),
		fs:     fs,
		kv:     kv,
		clock:  clk,
	}
}

// reopen builds a fresh engine over the same storage file, as a new
// process would.
func (e *testEnv) reopen(t *testing.T, srv *graphQLServer) *testEnv {
	t.Helper()
	kv := state.NewFileKV(e.fs, storagePath, nil)
	clk := clock.NewFakeClock(time.Unix(0, 0))
	prober := probe.NewHTTPProber(srv.Client())

	return &testEnv{
		engine: engine.New(kv, prober, clk, config.DefaultSettings(), nil),
		fs:     e.fs,
		kv:     kv,
		clock:  clk,
	}
}
