package config

// LogConfig configures the hook log file.
type LogConfig struct {
	// File is the log file path. Empty selects ~/.claude/aletheia/hooks.log.
	File string `json:"file,omitempty" koanf:"file" toml:"file"`
}

// GetFile returns the configured log path, or "" for the default.
func (l *LogConfig) GetFile() string {
	if l == nil {
		return ""
	}

	return l.File
}

// JournalConfig configures the JSONL event journal.
type JournalConfig struct {
	// Enabled controls whether hook events are journaled.
	// Default: true
	Enabled *bool `json:"enabled,omitempty" koanf:"enabled" toml:"enabled"`

	// File is the journal path. Empty selects ~/.claude/aletheia/events.jsonl.
	File string `json:"file,omitempty" koanf:"file" toml:"file"`

	// MaxSizeMB is the size at which the journal is rotated.
	// Default: 5
	MaxSizeMB int `json:"max_size_mb,omitempty" koanf:"max_size_mb" toml:"max_size_mb,omitempty"`

	// MaxBackups is how many rotated journals are kept.
	// Default: 3
	MaxBackups int `json:"max_backups,omitempty" koanf:"max_backups" toml:"max_backups,omitempty"`
}

const (
	// DefaultJournalMaxSizeMB is the default rotation threshold.
	DefaultJournalMaxSizeMB = 5

	// DefaultJournalMaxBackups is the default number of rotated files kept.
	DefaultJournalMaxBackups = 3
)

// GetMaxSizeMB returns the rotation threshold in megabytes.
func (j *JournalConfig) GetMaxSizeMB() int {
	if j == nil || j.MaxSizeMB <= 0 {
		return DefaultJournalMaxSizeMB
	}

	return j.MaxSizeMB
}

// GetMaxBackups returns the number of rotated files kept.
func (j *JournalConfig) GetMaxBackups() int {
	if j == nil || j.MaxBackups <= 0 {
		return DefaultJournalMaxBackups
	}

	return j.MaxBackups
}

// IsEnabled returns true if journaling is enabled.
func (j *JournalConfig) IsEnabled() bool {
	if j == nil || j.Enabled == nil {
		return true
	}

	return *j.Enabled
}

// GetFile returns the configured journal path, or "" for the default.
func (j *JournalConfig) GetFile() string {
	if j == nil {
		return ""
	}

	return j.File
}

// SessionStartConfig configures the SessionStart fallback.
type SessionStartConfig struct {
	// DetectStack appends detected repo stacks to the fallback message.
	// Default: true
	DetectStack *bool `json:"detect_stack,omitempty" koanf:"detect_stack" toml:"detect_stack"`
}

// IsDetectStackEnabled returns true if stack detection is enabled.
func (s *SessionStartConfig) IsDetectStackEnabled() bool {
	if s == nil || s.DetectStack == nil {
		return true
	}

	return *s.DetectStack
}
