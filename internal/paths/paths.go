package paths

import (
	"os"
	"path/filepath"
)

// GetDuckerHome returns DUCKER_HOME or ~/.ducker default
func GetDuckerHome() string {
	duckerHome := os.Getenv("DUCKER_HOME")
	if duckerHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".ducker"
		}
		return filepath.Join(homeDir, ".ducker")
	}
	return ExpandPath(duckerHome)
}

// GetDBPath returns $DUCKER_HOME/history.db
func GetDBPath() string {
	return filepath.Join(GetDuckerHome(), "history.db")
}

// GetLockPath returns the lock record path in the runtime directory,
// falling back to /tmp when XDG_RUNTIME_DIR is unset
func GetLockPath() string {
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		runtimeDir = "/tmp"
	}
	return filepath.Join(runtimeDir, "ducker.lock")
}

// ConfigCandidates returns the default config file locations in order of
// preference: working directory, user config dir, dotfile in home
func ConfigCandidates() []string {
	candidates := []string{"ducker.yml"}

	if configDir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(configDir, "ducker.yml"))
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(homeDir, ".ducker.yml"))
	}

	return candidates
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			if len(path) == 1 {
				return homeDir
			}
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}
