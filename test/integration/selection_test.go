package integration

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/danieljhkim/gqlpick/internal/config"
	"github.com/danieljhkim/gqlpick/internal/engine"
	"github.com/danieljhkim/gqlpick/internal/selection"
)

func TestSelection_FullCycle(t *testing.T) {
	srv := newGraphQLServer(t, "/down")
	env := setupTestEngine(t, srv)
	ctx := context.Background()

	// Nothing resolves on first run
	resolved, err := env.engine.Resolve(ctx, &engine.ResolveRequest{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolved.Endpoint != "" {
		t.Fatalf("Resolve() on first run = %q, want empty", resolved.Endpoint)
	}

	var got []string
	ctrl := env.engine.NewSelection(ctx, &engine.SelectionRequest{
		OnResolved: func(endpoint string) { got = append(got, endpoint) },
	})
	defer ctrl.Close()

	if saved := ctrl.Open(); len(saved) != 0 {
		t.Errorf("Open() saved = %v, want none", saved)
	}

	// Typing a URL character by character probes only the final text
	for _, draft := range []string{"h", "ht", "http:/", srv.URL, srv.URL + "/do", srv.URL + "/down"} {
		ctrl.Edit(draft)
	}
	env.clock.Advance(config.DefaultDebounce)

	if reqs := srv.Requests(); len(reqs) != 1 || reqs[0] != "/down" {
		t.Fatalf("server requests = %v, want one probe of /down", reqs)
	}
	if state := ctrl.Snapshot().State; state != selection.StateInvalid {
		t.Fatalf("state = %v, want invalid", state)
	}
	if ctrl.Confirm() {
		t.Fatal("Confirm() succeeded for an unreachable endpoint")
	}

	// Fix the path and confirm
	endpoint := srv.URL + "/graphql"
	ctrl.Edit(endpoint)
	if state := ctrl.Snapshot().State; state != selection.StateEditing {
		t.Fatalf("state right after edit = %v, want editing", state)
	}
	env.clock.Advance(config.DefaultDebounce)

	if !ctrl.Confirm() {
		t.Fatalf("Confirm() failed in state %v", ctrl.Snapshot().State)
	}
	if len(got) != 1 || got[0] != endpoint {
		t.Errorf("resolved = %v, want [%s]", got, endpoint)
	}

	// A new process resolves to the confirmed endpoint
	next := env.reopen(t, srv)
	resolved, err = next.engine.Resolve(ctx, &engine.ResolveRequest{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolved.Endpoint != endpoint || resolved.Source != "last-used" {
		t.Errorf("Resolve() after confirm = %+v", resolved)
	}

	// The storage file holds the raw endpoint under the well-known key
	data, err := env.fs.ReadFile(storagePath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var slots map[string]string
	if err := json.Unmarshal(data, &slots); err != nil {
		t.Fatalf("storage is not a JSON object: %v", err)
	}
	if slots["last-endpoint"] != endpoint {
		t.Errorf("last-endpoint = %q, want %q", slots["last-endpoint"], endpoint)
	}
}

func TestSelection_SavedWorkspaceSkipsProbe(t *testing.T) {
	srv := newGraphQLServer(t)
	env := setupTestEngine(t, srv)
	ctx := context.Background()

	if _, err := env.engine.ImportWorkspaces(ctx, &engine.ImportWorkspacesRequest{
		Data: []byte(`{"workspaces": {
			"": {"docs": [{"query": "{ a }"}]},
			"https://saved.example/graphql": {"docs": [{}, {}, {}], "tabs": 2}
		}}`),
	}); err != nil {
		t.Fatalf("ImportWorkspaces() error = %v", err)
	}

	var got string
	ctrl := env.engine.NewSelection(ctx, &engine.SelectionRequest{
		OnResolved: func(endpoint string) { got = endpoint },
	})
	defer ctrl.Close()

	saved := ctrl.Open()
	if len(saved) != 1 || saved[0].Endpoint != "https://saved.example/graphql" || saved[0].DocumentCount != 3 {
		t.Fatalf("Open() saved = %+v", saved)
	}

	if !ctrl.Select(saved[0].Endpoint) {
		t.Fatal("Select() = false for a saved endpoint")
	}
	if got != "https://saved.example/graphql" {
		t.Errorf("resolved = %q", got)
	}
	if reqs := srv.Requests(); len(reqs) != 0 {
		t.Errorf("saved endpoint was probed: %v", reqs)
	}

	last, err := env.engine.LastUsed(ctx)
	if err != nil {
		t.Fatalf("LastUsed() error = %v", err)
	}
	if last.Endpoint != "https://saved.example/graphql" {
		t.Errorf("LastUsed() = %+v", last)
	}
}

func TestSelection_CorruptStorageDegrades(t *testing.T) {
	srv := newGraphQLServer(t)
	env := setupTestEngine(t, srv)
	ctx := context.Background()

	if err := env.fs.AtomicWrite(storagePath, []byte("{garbage"), 0644); err != nil {
		t.Fatal(err)
	}

	ctrl := env.engine.NewSelection(ctx, &engine.SelectionRequest{})
	defer ctrl.Close()

	if saved := ctrl.Open(); len(saved) != 0 {
		t.Errorf("Open() saved = %v, want none", saved)
	}

	resolved, err := env.engine.Resolve(ctx, &engine.ResolveRequest{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolved.Endpoint != "" {
		t.Errorf("Resolve() = %q, want empty", resolved.Endpoint)
	}

	// Confirming still works and replaces the corrupt file
	ctrl.Edit(srv.URL + "/graphql")
	env.clock.Advance(config.DefaultDebounce)
	if !ctrl.Confirm() {
		t.Fatal("Confirm() failed")
	}

	last, err := env.engine.LastUsed(ctx)
	if err != nil {
		t.Fatalf("LastUsed() error = %v", err)
	}
	if last.Endpoint != srv.URL+"/graphql" {
		t.Errorf("LastUsed() = %+v", last)
	}
}
