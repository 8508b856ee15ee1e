// Package paths defines every user-level location the hooks touch on disk.
// Project-local config paths (.aletheia/config.toml, aletheia.toml) live in internal/config.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	// HomeEnv overrides the state directory.
	HomeEnv = "ALETHEIA_HOME"

	// LogFileEnv overrides the log file location.
	LogFileEnv = "ALETHEIA_LOG_FILE"

	dirMode = 0o700
)

func userHome() (string, error) {
	return os.UserHomeDir()
}

// AppDir returns $ALETHEIA_HOME or ~/.claude/aletheia, the directory shared
// with the daemon.
func AppDir() string {
	if v := os.Getenv(HomeEnv); v != "" {
		return v
	}

	home, err := userHome()
	if err != nil {
		return filepath.Join("~", ".claude", "aletheia")
	}

	return filepath.Join(home, ".claude", "aletheia")
}

// PortFile returns AppDir()/daemon.port.
func PortFile() string {
	return filepath.Join(AppDir(), "daemon.port")
}

// GlobalConfigFile returns AppDir()/config.toml.
func GlobalConfigFile() string {
	return filepath.Join(AppDir(), "config.toml")
}

// LogFile returns $ALETHEIA_LOG_FILE or AppDir()/hooks.log.
func LogFile() string {
	if v := os.Getenv(LogFileEnv); v != "" {
		return v
	}

	return filepath.Join(AppDir(), "hooks.log")
}

// JournalFile returns AppDir()/events.jsonl.
func JournalFile() string {
	return filepath.Join(AppDir(), "events.jsonl")
}

// ExpandPath resolves ~ prefix to the user's home directory.
// Returns the path unchanged if it doesn't start with ~.
// Returns error for invalid tilde usage like "~foo".
func ExpandPath(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	home, err := userHome()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}

	switch {
	case path == "~":
		return home, nil
	case strings.HasPrefix(path, "~/"):
		return filepath.Join(home, path[2:]), nil
	default:
		return "", errors.Newf("paths starting with ~ must be either ~ or ~/subdir, got %q", path)
	}
}

// ExpandPathSilent resolves ~ prefix, returning the original path on error.
func ExpandPathSilent(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}

	return expanded
}

// EnsureDir creates a directory with 0700 permissions if it doesn't exist.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, dirMode); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", path)
	}

	return nil
}

// Resolver resolves user-level paths against a fixed home directory.
// The config loader uses it so tests never read the real home.
type Resolver struct {
	homeDir string
}

// ResolverFor returns a Resolver rooted at homeDir.
func ResolverFor(homeDir string) Resolver {
	return Resolver{homeDir: homeDir}
}

// AppDir returns homeDir/.claude/aletheia.
func (r Resolver) AppDir() string {
	return filepath.Join(r.homeDir, ".claude", "aletheia")
}

// GlobalConfigFile returns AppDir()/config.toml.
func (r Resolver) GlobalConfigFile() string {
	return filepath.Join(r.AppDir(), "config.toml")
}
