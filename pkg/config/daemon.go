package config

import "time"

// Default values for daemon configuration.
const (
	// DefaultDaemonHost is the loopback address the daemon listens on.
	DefaultDaemonHost = "127.0.0.1"

	// DefaultDaemonTimeout bounds every daemon round trip.
	DefaultDaemonTimeout = 350 * time.Millisecond

	// DefaultNotifyGrace bounds how long a fire-and-forget send may delay exit.
	DefaultNotifyGrace = 50 * time.Millisecond
)

// DaemonConfig contains configuration for daemon consultation.
type DaemonConfig struct {
	// Enabled controls whether the daemon is consulted at all.
	// Default: true
	Enabled *bool `json:"enabled,omitempty" koanf:"enabled" toml:"enabled"`

	// PortFile is the file holding the daemon's decimal port.
	// Default: "~/.claude/aletheia/daemon.port"
	PortFile string `json:"port_file,omitempty" koanf:"port_file" toml:"port_file"`

	// Host is the daemon address.
	// Default: "127.0.0.1"
	Host string `json:"host,omitempty" koanf:"host" toml:"host"`

	// Timeout bounds each consultation.
	// Default: "350ms"
	Timeout Duration `json:"timeout,omitempty" koanf:"timeout" toml:"timeout"`

	// NotifyGrace bounds the SessionEnd notification.
	// Default: "50ms"
	NotifyGrace Duration `json:"notify_grace,omitempty" koanf:"notify_grace" toml:"notify_grace"`
}

// IsEnabled returns true if daemon consultation is enabled.
// Returns true if Enabled is nil (default behavior).
func (d *DaemonConfig) IsEnabled() bool {
	if d == nil || d.Enabled == nil {
		return true
	}

	return *d.Enabled
}

// GetPortFile returns the port file path, or "" to use the default location.
func (d *DaemonConfig) GetPortFile() string {
	if d == nil {
		return ""
	}

	return d.PortFile
}

// GetHost returns the daemon host.
func (d *DaemonConfig) GetHost() string {
	if d == nil || d.Host == "" {
		return DefaultDaemonHost
	}

	return d.Host
}

// GetTimeout returns the consultation timeout.
func (d *DaemonConfig) GetTimeout() time.Duration {
	if d == nil || d.Timeout == 0 {
		return DefaultDaemonTimeout
	}

	return time.Duration(d.Timeout)
}

// GetNotifyGrace returns the notification grace period.
func (d *DaemonConfig) GetNotifyGrace() time.Duration {
	if d == nil || d.NotifyGrace == 0 {
		return DefaultNotifyGrace
	}

	return time.Duration(d.NotifyGrace)
}
