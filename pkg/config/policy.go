package config

// DefaultMCPPrefix marks tools served by external integrations.
const DefaultMCPPrefix = "mcp__"

// PolicyConfig contains configuration for the local fallback classifier.
// Extra patterns are appended after the built-in tables; built-ins cannot be removed.
type PolicyConfig struct {
	// MCPPrefix is the tool-name prefix that always requires confirmation.
	// Default: "mcp__"
	MCPPrefix string `json:"mcp_prefix,omitempty" koanf:"mcp_prefix" toml:"mcp_prefix"`

	// ExtraDestructive lists additional deny regexes (case-insensitive).
	ExtraDestructive []string `json:"extra_destructive,omitempty" koanf:"extra_destructive" toml:"extra_destructive,omitempty"`

	// ExtraHighRisk lists additional ask regexes (case-insensitive).
	ExtraHighRisk []string `json:"extra_high_risk,omitempty" koanf:"extra_high_risk" toml:"extra_high_risk,omitempty"`

	// ExtraVerificationKeywords lists additional verification command substrings.
	ExtraVerificationKeywords []string `json:"extra_verification_keywords,omitempty" koanf:"extra_verification_keywords" toml:"extra_verification_keywords,omitempty"`

	// SensitivePaths configures the secret path gate.
	SensitivePaths *SensitivePathsConfig `json:"sensitive_paths,omitempty" koanf:"sensitive_paths" toml:"sensitive_paths,omitempty"`
}

// SensitivePathsConfig configures the secret path gate.
type SensitivePathsConfig struct {
	// Enabled controls whether sensitive paths require confirmation.
	// Default: true
	Enabled *bool `json:"enabled,omitempty" koanf:"enabled" toml:"enabled"`

	// Patterns are doublestar globs. Empty selects the built-in list.
	Patterns []string `json:"patterns,omitempty" koanf:"patterns" toml:"patterns,omitempty"`
}

// GetMCPPrefix returns the external-integration tool prefix.
func (p *PolicyConfig) GetMCPPrefix() string {
	if p == nil || p.MCPPrefix == "" {
		return DefaultMCPPrefix
	}

	return p.MCPPrefix
}

// GetSensitivePaths returns the sensitive path config, creating it if it doesn't exist.
func (p *PolicyConfig) GetSensitivePaths() *SensitivePathsConfig {
	if p.SensitivePaths == nil {
		p.SensitivePaths = &SensitivePathsConfig{}
	}

	return p.SensitivePaths
}

// IsEnabled returns true if the sensitive path gate is enabled.
// Returns true if Enabled is nil (default behavior).
func (s *SensitivePathsConfig) IsEnabled() bool {
	if s == nil || s.Enabled == nil {
		return true
	}

	return *s.Enabled
}
