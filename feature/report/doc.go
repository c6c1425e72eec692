// Package report keeps the local report cache in step with the remote store
// and exposes it to clients.
//
// # Components
//
//   - Repository: remote-first writes mirrored into the cache, and reads
//     that replace the cached snapshot with what the remote returned.
//   - ViewModel: runs intents on the worker pool and publishes UiState.
//   - Scheduler: periodic background refresh.
//   - Handler: the HTTP surface.
//
// The local cache lives in the local subpackage and the entity in models.
package report
