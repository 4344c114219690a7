// Package state manages the persisted workspace store.
//
// Everything gqlpick remembers lives in a small key-value slot store (KV),
// the Go analogue of browser local storage. Two well-known keys are used:
//
//   - LastEndpointKey: the raw endpoint string confirmed most recently
//   - WorkspacesKey: the serialized WorkspaceRegistry snapshot
//
// Key concepts:
//   - KV: get/set/delete capability, file-backed (FileKV) or in memory (MemoryKV)
//   - Registry: mapping of endpoint URL to WorkspaceRecord
//   - RegistryStore: reads and writes the Registry snapshot through a KV
//   - Lister: projects the Registry into the saved-endpoints display list
package state
