// Package state provides checkers for the state directory shared with the daemon.
package state

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/metaygn/aletheia-hooks/internal/crashdump"
	"github.com/metaygn/aletheia-hooks/internal/doctor"
	"github.com/metaygn/aletheia-hooks/internal/paths"
)

const (
	dirName     = "State directory writable"
	logName     = "Log file writable"
	journalName = "Event journal"
	crashName   = "Crash dumps"
)

// DirChecker checks that the state directory can be created and written.
type DirChecker struct {
	dir string
}

// NewDirChecker creates a checker for dir.
func NewDirChecker(dir string) *DirChecker {
	return &DirChecker{dir: dir}
}

func (*DirChecker) Name() string {
	return dirName
}

func (*DirChecker) Category() doctor.Category {
	return doctor.CategoryState
}

func (c *DirChecker) Check(_ context.Context) doctor.CheckResult {
	if err := paths.EnsureDir(c.dir); err != nil {
		return doctor.FailError(dirName, "Cannot create state directory").
			WithDetails(fmt.Sprintf("Error: %v", err))
	}

	probe, err := os.CreateTemp(c.dir, ".doctor-*")
	if err != nil {
		return doctor.FailError(dirName, "State directory is not writable").
			WithDetails("Directory: "+c.dir, fmt.Sprintf("Error: %v", err))
	}

	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)

	return doctor.Pass(dirName, c.dir)
}

// LogChecker checks that the log file can be opened for appending.
type LogChecker struct {
	path string
}

// NewLogChecker creates a checker for the log file at path.
func NewLogChecker(path string) *LogChecker {
	return &LogChecker{path: path}
}

func (*LogChecker) Name() string {
	return logName
}

func (*LogChecker) Category() doctor.Category {
	return doctor.CategoryState
}

func (c *LogChecker) Check(_ context.Context) doctor.CheckResult {
	if err := paths.EnsureDir(filepath.Dir(c.path)); err != nil {
		return doctor.FailWarning(logName, "Cannot create log directory").
			WithDetails(fmt.Sprintf("Error: %v", err), "Hooks run without logging")
	}

	f, err := os.OpenFile(c.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return doctor.FailWarning(logName, "Cannot open log file").
			WithDetails(fmt.Sprintf("Error: %v", err), "Hooks run without logging")
	}

	info, statErr := f.Stat()
	_ = f.Close()

	if statErr != nil {
		return doctor.Pass(logName, c.path)
	}

	return doctor.Pass(logName, fmt.Sprintf("%s (%s)", c.path, humanize.IBytes(uint64(info.Size()))))
}

// JournalChecker reports the journal size against its rotation threshold.
type JournalChecker struct {
	path    string
	maxSize int64
	enabled bool
}

// NewJournalChecker creates a checker for the journal at path.
func NewJournalChecker(path string, maxSizeMB int, enabled bool) *JournalChecker {
	return &JournalChecker{path: path, maxSize: int64(maxSizeMB) << 20, enabled: enabled}
}

func (*JournalChecker) Name() string {
	return journalName
}

func (*JournalChecker) Category() doctor.Category {
	return doctor.CategoryState
}

func (c *JournalChecker) Check(_ context.Context) doctor.CheckResult {
	if !c.enabled {
		return doctor.Skip(journalName, "Disabled in config")
	}

	info, err := os.Stat(c.path)
	if err != nil {
		return doctor.Pass(journalName, "No events recorded yet").WithDetails("File: " + c.path)
	}

	return doctor.Pass(journalName, fmt.Sprintf(
		"%s of %s before rotation",
		humanize.IBytes(uint64(info.Size())),
		humanize.IBytes(uint64(c.maxSize)),
	)).WithDetails(
		"File: "+c.path,
		"Last event "+humanize.Time(info.ModTime()),
	)
}

// CrashChecker warns when panics were recovered on the hook path.
type CrashChecker struct {
	store *crashdump.Store
	now   func() time.Time
}

// NewCrashChecker creates a checker over store.
func NewCrashChecker(store *crashdump.Store) *CrashChecker {
	return &CrashChecker{store: store, now: time.Now}
}

func (*CrashChecker) Name() string {
	return crashName
}

func (*CrashChecker) Category() doctor.Category {
	return doctor.CategoryState
}

func (c *CrashChecker) Check(_ context.Context) doctor.CheckResult {
	dumps, err := c.store.List()
	if err != nil {
		return doctor.FailWarning(crashName, "Cannot list crash dumps").
			WithDetails(fmt.Sprintf("Error: %v", err))
	}

	if len(dumps) == 0 {
		return doctor.Pass(crashName, "None")
	}

	latest := dumps[0]

	return doctor.FailWarning(crashName, fmt.Sprintf("%d recorded", len(dumps))).
		WithDetails(
			fmt.Sprintf("Latest: %s, %s", latest.ID, humanize.RelTime(latest.Timestamp, c.now(), "ago", "from now")),
			"Panic: "+latest.PanicValue,
			"Directory: "+c.store.Dir(),
		)
}
