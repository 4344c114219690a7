package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Documents is the opaque document collection of a workspace. Only its
// size is observed; contents are kept verbatim. Both array and object
// encodings are accepted.
type Documents struct {
	raw   json.RawMessage
	count int
}

// NewDocuments builds a collection from individual encoded documents.
func NewDocuments(docs ...json.RawMessage) Documents {
	if docs == nil {
		docs = []json.RawMessage{}
	}
	raw, _ := json.Marshal(docs)
	return Documents{raw: raw, count: len(docs)}
}

// Len returns the number of documents.
func (d Documents) Len() int {
	return d.count
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Documents) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*d = Documents{}
		return nil
	}

	switch {
	case len(trimmed) > 0 && trimmed[0] == '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		d.count = len(items)
	case len(trimmed) > 0 && trimmed[0] == '{':
		var items map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		d.count = len(items)
	default:
		return fmt.Errorf("docs must be an array or object, got %s", trimmed)
	}

	d.raw = append(json.RawMessage(nil), trimmed...)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Documents) MarshalJSON() ([]byte, error) {
	if len(d.raw) == 0 {
		return []byte("[]"), nil
	}
	return d.raw, nil
}

// WorkspaceRecord is one saved workspace. Fields other than docs belong
// to the document editor and are preserved untouched.
type WorkspaceRecord struct {
	Docs  Documents
	Extra map[string]json.RawMessage
}

// DocumentCount returns the number of documents in the workspace.
func (r WorkspaceRecord) DocumentCount() int {
	return r.Docs.Len()
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *WorkspaceRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*r = WorkspaceRecord{}
	if docs, ok := fields["docs"]; ok {
		if err := json.Unmarshal(docs, &r.Docs); err != nil {
			return fmt.Errorf("docs: %w", err)
		}
		delete(fields, "docs")
	}
	if len(fields) > 0 {
		r.Extra = fields
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (r WorkspaceRecord) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(r.Extra)+1)
	for k, v := range r.Extra {
		fields[k] = v
	}
	docs, err := r.Docs.MarshalJSON()
	if err != nil {
		return nil, err
	}
	fields["docs"] = docs
	return json.Marshal(fields)
}

// Registry maps endpoint URL to its saved workspace.
type Registry map[string]WorkspaceRecord

// Endpoints returns the non-empty keys in sorted order.
func (r Registry) Endpoints() []string {
	endpoints := make([]string, 0, len(r))
	for endpoint := range r {
		if endpoint == "" {
			continue
		}
		endpoints = append(endpoints, endpoint)
	}
	sort.Strings(endpoints)
	return endpoints
}

// RegistryStore reads and writes the Registry snapshot under WorkspacesKey.
type RegistryStore struct {
	mu sync.Mutex
	kv KV
}

// NewRegistryStore creates a RegistryStore on top of kv.
func NewRegistryStore(kv KV) *RegistryStore {
	return &RegistryStore{kv: kv}
}

// Load returns the persisted registry. An absent snapshot is an empty
// registry; an unparseable one wraps ErrCorruptRegistry.
func (s *RegistryStore) Load() (Registry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	registry, _, err := s.load()
	return registry, err
}

// Inject replaces the whole persisted registry with registry.
func (s *RegistryStore) Inject(registry Registry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(registry, nil)
}

// Put stores record under endpoint, keeping every other workspace.
func (s *RegistryStore) Put(endpoint string, record WorkspaceRecord) error {
	if endpoint == "" {
		return ErrEmptyEndpoint
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	registry, extra, err := s.load()
	if err != nil {
		return err
	}

	registry[endpoint] = record
	return s.save(registry, extra)
}

// Remove deletes the workspace for endpoint.
func (s *RegistryStore) Remove(endpoint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	registry, extra, err := s.load()
	if err != nil {
		return err
	}

	if _, ok := registry[endpoint]; !ok {
		return fmt.Errorf("%w: %s", ErrWorkspaceNotFound, endpoint)
	}

	delete(registry, endpoint)
	return s.save(registry, extra)
}

// load returns the registry plus any sibling top-level snapshot fields.
func (s *RegistryStore) load() (Registry, map[string]json.RawMessage, error) {
	raw, ok, err := s.kv.Get(WorkspacesKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read workspace registry: %w", err)
	}
	if !ok || raw == "" {
		return Registry{}, nil, nil
	}

	var snapshot map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCorruptRegistry, err)
	}

	registry := Registry{}
	if workspaces, ok := snapshot["workspaces"]; ok {
		if err := json.Unmarshal(workspaces, &registry); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrCorruptRegistry, err)
		}
		if registry == nil {
			registry = Registry{}
		}
		delete(snapshot, "workspaces")
	}

	return registry, snapshot, nil
}

func (s *RegistryStore) save(registry Registry, extra map[string]json.RawMessage) error {
	if registry == nil {
		registry = Registry{}
	}

	workspaces, err := json.Marshal(registry)
	if err != nil {
		return fmt.Errorf("failed to marshal workspace registry: %w", err)
	}

	snapshot := make(map[string]json.RawMessage, len(extra)+1)
	for k, v := range extra {
		snapshot[k] = v
	}
	snapshot["workspaces"] = workspaces

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal workspace registry: %w", err)
	}

	if err := s.kv.Set(WorkspacesKey, string(data)); err != nil {
		return fmt.Errorf("failed to write workspace registry: %w", err)
	}

	return nil
}
