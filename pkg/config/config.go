// Package config provides configuration schema types for aletheia-hooks.
package config

// CurrentConfigVersion is the latest config schema version.
const CurrentConfigVersion = 1

// Config represents the root configuration.
type Config struct {
	// Version is the config schema version. Defaults to 1 when omitted.
	Version int `json:"version,omitempty" koanf:"version" toml:"version,omitempty"`

	// Daemon configures how the policy daemon is discovered and consulted.
	Daemon *DaemonConfig `json:"daemon,omitempty" koanf:"daemon" toml:"daemon,omitempty"`

	// Policy configures the local fallback classifier.
	Policy *PolicyConfig `json:"policy,omitempty" koanf:"policy" toml:"policy,omitempty"`

	// Log configures the hook log file.
	Log *LogConfig `json:"log,omitempty" koanf:"log" toml:"log,omitempty"`

	// Journal configures the JSONL event journal.
	Journal *JournalConfig `json:"journal,omitempty" koanf:"journal" toml:"journal,omitempty"`

	// SessionStart configures the SessionStart fallback message.
	SessionStart *SessionStartConfig `json:"session_start,omitempty" koanf:"session_start" toml:"session_start,omitempty"`
}

// GetDaemon returns the daemon config, creating it if it doesn't exist.
func (c *Config) GetDaemon() *DaemonConfig {
	if c.Daemon == nil {
		c.Daemon = &DaemonConfig{}
	}

	return c.Daemon
}

// GetPolicy returns the policy config, creating it if it doesn't exist.
func (c *Config) GetPolicy() *PolicyConfig {
	if c.Policy == nil {
		c.Policy = &PolicyConfig{}
	}

	return c.Policy
}

// GetLog returns the log config, creating it if it doesn't exist.
func (c *Config) GetLog() *LogConfig {
	if c.Log == nil {
		c.Log = &LogConfig{}
	}

	return c.Log
}

// GetJournal returns the journal config, creating it if it doesn't exist.
func (c *Config) GetJournal() *JournalConfig {
	if c.Journal == nil {
		c.Journal = &JournalConfig{}
	}

	return c.Journal
}

// GetSessionStart returns the session start config, creating it if it doesn't exist.
func (c *Config) GetSessionStart() *SessionStartConfig {
	if c.SessionStart == nil {
		c.SessionStart = &SessionStartConfig{}
	}

	return c.SessionStart
}
