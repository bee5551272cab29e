// Package builder orchestrates one plugin project at a time: scaffolding,
// the build shell session, configure/compile commands, reloading the built
// library into the host loader, and installing it. Files by concern:
//
//   - builder.go: Builder type, constructor, project selection (Create/Open/Clear).
//   - config.go: Options and defaults.
//   - host.go: the injected Host context and its in-process implementation.
//   - commands.go: cmake/ninja command lines and the actions that send them.
//   - artifacts.go: Reload and Install.
//   - callbacks.go: host watcher/parameter callbacks.
//   - sessions.go: session start/restart/close and output draining.
//   - status.go: Status reporting.
//   - events.go, eventpub_memory.go: lifecycle events.
//
// Callers should use public methods only; the HTTP and CLI layers are thin
// adapters over them.
package builder
