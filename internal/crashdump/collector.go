package crashdump

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/metaygn/aletheia-hooks/internal/hookresponse"
	"github.com/metaygn/aletheia-hooks/pkg/hook"
)

const (
	shortIDLength = 8
	panicNilStr   = "panic(nil)"

	// maxCommandLength keeps secrets pasted into long commands out of dumps.
	maxCommandLength = 200
)

// formatPanicValue converts a recovered panic value to a string representation.
func formatPanicValue(v any) string {
	if v == nil {
		return panicNilStr
	}

	// Go 1.21+ converts panic(nil) to *runtime.PanicNilError
	type panicNilError interface {
		error
		RuntimeError()
	}

	if _, ok := v.(panicNilError); ok {
		return panicNilStr
	}

	if err, ok := v.(error); ok {
		return err.Error()
	}

	return fmt.Sprintf("%v", v)
}

// Collector builds CrashInfo values.
type Collector struct {
	version string
	now     func() time.Time
}

// NewCollector creates a collector stamping dumps with version.
func NewCollector(version string) *Collector {
	return &Collector{version: version, now: time.Now}
}

// Collect gathers crash information. Call it from the deferred recover so
// the captured stack includes the panicking frames.
func (c *Collector) Collect(recovered any, event hook.Event, in *hook.Input) *CrashInfo {
	now := c.now()
	panicValue := formatPanicValue(recovered)

	info := &CrashInfo{
		ID:         generateCrashID(now, panicValue),
		Timestamp:  now,
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Runtime: RuntimeInfo{
			GOOS:         runtime.GOOS,
			GOARCH:       runtime.GOARCH,
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
		},
		Context: &ContextInfo{Event: string(event)},
		Version: c.version,
	}

	if in != nil {
		info.Context.SessionID = hook.Value(in.SessionID)
		info.Context.ToolName = in.Tool()
		info.Context.WorkDir = hook.Value(in.CWD)

		if cmd, ok := in.Command(); ok {
			info.Context.Command = hookresponse.Excerpt(cmd, maxCommandLength)
		}
	}

	if info.Context.WorkDir == "" {
		if wd, err := os.Getwd(); err == nil {
			info.Context.WorkDir = wd
		}
	}

	return info
}

// generateCrashID returns crash-{timestamp}-{shortHash}.
func generateCrashID(timestamp time.Time, panicValue string) string {
	data := fmt.Sprintf("%d-%s", timestamp.UnixNano(), panicValue)
	hash := sha256.Sum256([]byte(data))
	shortHash := hex.EncodeToString(hash[:])[:shortIDLength]

	return fmt.Sprintf("crash-%s-%s", timestamp.Format("20060102T150405"), shortHash)
}
