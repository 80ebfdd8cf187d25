// Package constants defines shared constant values used throughout aineko.
// Centralizing these magic strings improves maintainability and consistency.
package constants

import "time"

// Environment variables injected into seance tmux sessions. Hook handlers
// inside the session read these to locate their listener socket.
const (
	// EnvSocketPath names the unix socket the seance's listener is bound to.
	EnvSocketPath = "AINEKO_SOCKET_PATH"

	// EnvSeanceID carries the seance id into the session environment.
	EnvSeanceID = "AINEKO_SEANCE_ID"
)

// Timing constants for the listener and notification display.
const (
	// DefaultLivenessInterval is how long the listener waits for a
	// connection before polling the session registry for liveness.
	DefaultLivenessInterval = 60 * time.Second

	// DefaultDisplayMs is the default duration for tmux display-message.
	DefaultDisplayMs = 5000

	// DefaultWatchInterval is the fallback refresh tick for the watch view
	// when no filesystem event arrives.
	DefaultWatchInterval = 2 * time.Second
)

// IDLength is the length of generated seance ids. The session-name parser
// accepts ids of any length; only the generator is fixed-width.
const IDLength = 6

// Hook event names recognized in incoming events. Unknown names still
// round-trip through the reducer; these are the ones with semantics.
const (
	HookNotification     = "Notification"
	HookSessionStart     = "SessionStart"
	HookSessionEnd       = "SessionEnd"
	HookStop             = "Stop"
	HookSubagentStop     = "SubagentStop"
	HookPreToolUse       = "PreToolUse"
	HookUserPromptSubmit = "UserPromptSubmit"
)

// Notification types carried by Notification events.
const (
	// NotifyPermissionPrompt means the agent is blocked on a permission
	// decision.
	NotifyPermissionPrompt = "permission_prompt"

	// NotifyIdlePrompt means the agent is idle and waiting for input.
	NotifyIdlePrompt = "idle_prompt"
)

// HookEvents returns the event names setup subscribes the handle command to.
func HookEvents() []string {
	return []string{
		HookNotification,
		HookSessionStart,
		HookSessionEnd,
		HookStop,
		HookSubagentStop,
		HookPreToolUse,
		HookUserPromptSubmit,
	}
}

// HandleCommand is the hook descriptor command installed into the Claude
// settings document by setup and matched during idempotent re-merges.
const HandleCommand = "aineko handle"

// File and directory names under the aineko data root.
const (
	// DirSeances holds one JSON state file per seance id.
	DirSeances = "seances"

	// DirSockets is the per-user socket directory name under the system
	// temp dir.
	DirSockets = "aineko"

	// FileConfigTOML is the config file name under the user config dir.
	FileConfigTOML = "config.toml"
)

// File permissions for created state and socket directories.
const (
	// DirPerm is the mode for created state and socket directories.
	DirPerm = 0o755

	// FilePerm is the mode for persisted state files.
	FilePerm = 0o644
)
