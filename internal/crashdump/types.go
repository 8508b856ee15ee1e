// Package crashdump records diagnostic dumps for panics recovered on the hook path.
package crashdump

import "time"

// CrashInfo is one dump file.
type CrashInfo struct {
	ID         string       `json:"id"`
	Timestamp  time.Time    `json:"timestamp"`
	PanicValue string       `json:"panic_value"`
	StackTrace string       `json:"stack_trace"`
	Runtime    RuntimeInfo  `json:"runtime"`
	Context    *ContextInfo `json:"context,omitempty"`
	Version    string       `json:"version,omitempty"`
}

// RuntimeInfo describes the process that panicked.
type RuntimeInfo struct {
	GOOS         string `json:"goos"`
	GOARCH       string `json:"goarch"`
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
}

// ContextInfo describes the event being handled.
type ContextInfo struct {
	Event     string `json:"event"`
	SessionID string `json:"session_id,omitempty"`
	ToolName  string `json:"tool_name,omitempty"`
	Command   string `json:"command,omitempty"`
	WorkDir   string `json:"working_dir,omitempty"`
}

// DumpSummary is the listing form of a dump.
type DumpSummary struct {
	ID         string
	Timestamp  time.Time
	PanicValue string
	FilePath   string
	Size       int64
}
