// Package journal appends one JSON line per handled hook event.
package journal

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/metaygn/aletheia-hooks/internal/paths"
	"github.com/metaygn/aletheia-hooks/pkg/config"
	"github.com/metaygn/aletheia-hooks/pkg/hook"
	"github.com/metaygn/aletheia-hooks/pkg/logger"
)

const (
	filePermissions = 0o600
	dirPermissions  = 0o700
	bytesPerMB      = 1024 * 1024

	// backupLayout is the timestamp embedded in rotated file names.
	backupLayout = "20060102-150405"
)

// Source records which component produced the emitted output.
type Source string

const (
	SourceDaemon   Source = "daemon"
	SourceFallback Source = "fallback"
	SourceNone     Source = "none"
)

// Entry is one journal line.
type Entry struct {
	Timestamp time.Time               `json:"timestamp"`
	Event     hook.Event              `json:"event"`
	SessionID string                  `json:"session_id,omitempty"`
	Tool      string                  `json:"tool,omitempty"`
	Decision  hook.PermissionDecision `json:"decision,omitempty"`
	Reason    string                  `json:"reason,omitempty"`
	Source    Source                  `json:"source"`
	DaemonErr string                  `json:"daemon_error,omitempty"`
	ElapsedMS int64                   `json:"elapsed_ms"`
}

// Recorder is what the dispatcher writes to.
type Recorder interface {
	Record(entry *Entry) error
}

// Journal is a JSONL Recorder with size-based rotation.
type Journal struct {
	mu         sync.Mutex
	path       string
	maxSize    int64
	maxBackups int
	log        logger.Logger
	now        func() time.Time
}

// Option configures a Journal.
type Option func(*Journal)

// WithFile overrides the journal path.
func WithFile(path string) Option {
	return func(j *Journal) {
		if path != "" {
			j.path = path
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(j *Journal) {
		if log != nil {
			j.log = log
		}
	}
}

// WithTimeFunc sets a custom clock for testing.
func WithTimeFunc(fn func() time.Time) Option {
	return func(j *Journal) {
		if fn != nil {
			j.now = fn
		}
	}
}

// New creates a Journal from the [journal] section.
func New(cfg *config.JournalConfig, opts ...Option) *Journal {
	j := &Journal{
		path:       paths.ExpandPathSilent(cfg.GetFile()),
		maxSize:    int64(cfg.GetMaxSizeMB()) * bytesPerMB,
		maxBackups: cfg.GetMaxBackups(),
		log:        logger.NewNoOpLogger(),
		now:        time.Now,
	}

	if j.path == "" {
		j.path = paths.JournalFile()
	}

	for _, opt := range opts {
		opt(j)
	}

	return j
}

// Path returns the journal file path.
func (j *Journal) Path() string {
	return j.path
}

// Record appends entry, stamping it when Timestamp is zero.
func (j *Journal) Record(entry *Entry) error {
	if entry == nil {
		return nil
	}

	if entry.Timestamp.IsZero() {
		entry.Timestamp = j.now()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrap(err, "marshaling journal entry")
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.rotateIfNeededLocked(); err != nil {
		// a failed rotation must not lose the entry
		j.log.Error("failed to rotate journal", "error", err.Error())
	}

	return j.appendLocked(data)
}

func (j *Journal) appendLocked(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(j.path), dirPermissions); err != nil {
		return errors.Wrap(err, "creating journal directory")
	}

	//nolint:gosec // G304: path is from config
	file, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePermissions)
	if err != nil {
		return errors.Wrap(err, "opening journal")
	}

	_, writeErr := file.Write(append(data, '\n'))

	return errors.CombineErrors(
		errors.Wrap(writeErr, "writing journal entry"),
		errors.Wrap(file.Close(), "closing journal"),
	)
}

// Read returns all entries, oldest first. A missing file yields no entries.
// Malformed lines are skipped.
func (j *Journal) Read() ([]*Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	file, err := os.Open(j.path) //nolint:gosec // G304: path is from config
	if err != nil {
		if os.IsNotExist(err) {
			return []*Entry{}, nil
		}

		return nil, errors.Wrap(err, "opening journal")
	}
	defer file.Close()

	var entries []*Entry

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), bytesPerMB)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			j.log.Debug("skipping malformed journal line", "error", err.Error())

			continue
		}

		entries = append(entries, &entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scanning journal")
	}

	return entries, nil
}

// Tail returns the last n entries.
func (j *Journal) Tail(n int) ([]*Entry, error) {
	entries, err := j.Read()
	if err != nil {
		return nil, err
	}

	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}

	return entries, nil
}

func (j *Journal) rotateIfNeededLocked() error {
	info, err := os.Stat(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return errors.Wrap(err, "checking journal size")
	}

	if info.Size() < j.maxSize {
		return nil
	}

	ext := filepath.Ext(j.path)
	backup := strings.TrimSuffix(j.path, ext) + "." + j.now().Format(backupLayout) + ext

	if err := os.Rename(j.path, backup); err != nil {
		return errors.Wrap(err, "rotating journal")
	}

	j.log.Debug("rotated journal", "to", backup)

	return j.pruneBackupsLocked()
}

func (j *Journal) pruneBackupsLocked() error {
	ext := filepath.Ext(j.path)
	pattern := strings.TrimSuffix(j.path, ext) + ".*" + ext

	backups, err := filepath.Glob(pattern)
	if err != nil {
		return errors.Wrap(err, "listing journal backups")
	}

	// timestamps sort lexically; newest first
	slices.Sort(backups)
	slices.Reverse(backups)

	for i := j.maxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i]); err != nil {
			j.log.Error("failed to remove old journal", "path", backups[i], "error", err.Error())
		}
	}

	return nil
}

// Nop is a Recorder that discards entries.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(*Entry) error { return nil }
