// Package state holds the client-side settings containers of chatstate.
//
// # Containers
//
// Session is transient UI state: the current action tag and its payload,
// the active variant label, the server-provided session map and a loader
// flag. It is never persisted. Setting an action schedules it to clear
// itself after a short delay.
//
// ModelConfig is the chat model configuration, ServerConfig the backend
// credentials, and RecentItems the most-recently-used persona list. These
// three are mirrored into a kv.Store under fixed keys; every setter writes
// through before returning, so memory and storage never disagree once a
// call has returned.
//
// # Updates
//
// Setters take a patch whose nil fields are left alone. The merge itself is
// a pure function (MergeSession, MergeModelConfig, MergeServerConfig,
// InsertPersona) so update rules can be tested without storage.
//
// # Ownership
//
// There are no package-level instances. Open builds one State owning all
// four containers; callers pass it (or individual containers) to whatever
// needs them.
package state
