package config

import (
	"github.com/metaygn/aletheia-hooks/pkg/config"
)

// DefaultConfig returns a Config with all default values populated.
func DefaultConfig() *config.Config {
	enabled := true
	detect := true
	sensitive := true
	journal := true

	return &config.Config{
		Version: config.CurrentConfigVersion,
		Daemon: &config.DaemonConfig{
			Enabled:     &enabled,
			Host:        config.DefaultDaemonHost,
			Timeout:     config.Duration(config.DefaultDaemonTimeout),
			NotifyGrace: config.Duration(config.DefaultNotifyGrace),
		},
		Policy: &config.PolicyConfig{
			MCPPrefix: config.DefaultMCPPrefix,
			SensitivePaths: &config.SensitivePathsConfig{
				Enabled: &sensitive,
			},
		},
		Journal:      &config.JournalConfig{Enabled: &journal},
		SessionStart: &config.SessionStartConfig{DetectStack: &detect},
	}
}

// defaultsToMap converts DefaultConfig to a map for koanf loading.
func defaultsToMap() map[string]any {
	return map[string]any{
		"version": config.CurrentConfigVersion,
		"daemon": map[string]any{
			"enabled":      true,
			"host":         config.DefaultDaemonHost,
			"timeout":      config.DefaultDaemonTimeout.String(),
			"notify_grace": config.DefaultNotifyGrace.String(),
		},
		"policy": map[string]any{
			"mcp_prefix": config.DefaultMCPPrefix,
			"sensitive_paths": map[string]any{
				"enabled": true,
			},
		},
		"journal": map[string]any{
			"enabled": true,
		},
		"session_start": map[string]any{
			"detect_stack": true,
		},
	}
}
