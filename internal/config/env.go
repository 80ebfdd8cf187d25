package config

import (
	"fmt"
	"os"

	"github.com/vaxhacker/aineko/internal/constants"
)

// SeanceEnv returns the environment variables injected into a seance's tmux
// session. This is the single source of truth for seance environment
// configuration: hook handlers running inside the session read these to
// locate their listener.
func SeanceEnv(id, socketPath string) map[string]string {
	return map[string]string{
		constants.EnvSeanceID:   id,
		constants.EnvSocketPath: socketPath,
	}
}

// ListenerSocketFromEnv returns the socket path for the current hook
// invocation. Hook handlers run inside a seance session, where the session
// environment carries the path; outside one the variable is absent and the
// invocation cannot proceed.
func ListenerSocketFromEnv() (string, error) {
	path := os.Getenv(constants.EnvSocketPath)
	if path == "" {
		return "", fmt.Errorf("%s is not set (not inside a seance session?)", constants.EnvSocketPath)
	}
	return path, nil
}
