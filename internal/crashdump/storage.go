package crashdump

import (
	"cmp"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/metaygn/aletheia-hooks/internal/paths"
)

const (
	// FilePerm is the file permission for crash dump files.
	FilePerm fs.FileMode = 0o600

	// DirPerm is the directory permission for crash dump directories.
	DirPerm fs.FileMode = 0o700

	// FileExtension is the extension for crash dump files.
	FileExtension = ".json"

	tempSuffix  = ".tmp"
	maxPanicLen = 80

	// DefaultMaxDumps is how many dumps Write keeps.
	DefaultMaxDumps = 10
)

var (
	// ErrWriteFailed is returned when writing a crash dump fails.
	ErrWriteFailed = errors.New("failed to write crash dump")

	// ErrDumpNotFound is returned when a crash dump is not found.
	ErrDumpNotFound = errors.New("crash dump not found")
)

// Store reads and writes dumps in one directory.
type Store struct {
	dir      string
	maxDumps int
}

// NewStore returns a Store rooted at dir. An empty dir selects AppDir/crashes.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = filepath.Join(paths.AppDir(), "crashes")
	}

	return &Store{dir: paths.ExpandPathSilent(dir), maxDumps: DefaultMaxDumps}
}

// Dir returns the dump directory.
func (s *Store) Dir() string {
	return s.dir
}

// Write stores info atomically, prunes old dumps and returns the file path.
func (s *Store) Write(info *CrashInfo) (string, error) {
	if info == nil {
		return "", errors.Wrap(ErrWriteFailed, "crash info is nil")
	}

	if err := os.MkdirAll(s.dir, DirPerm); err != nil {
		return "", errors.CombineErrors(ErrWriteFailed, err)
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return "", errors.CombineErrors(ErrWriteFailed, err)
	}

	path := filepath.Join(s.dir, info.ID+FileExtension)
	tmp := path + tempSuffix

	if err := os.WriteFile(tmp, data, FilePerm); err != nil {
		return "", errors.CombineErrors(ErrWriteFailed, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)

		return "", errors.CombineErrors(ErrWriteFailed, err)
	}

	_, _ = s.Prune(s.maxDumps)

	return path, nil
}

// List returns dump summaries, newest first. A missing directory yields none.
func (s *Store) List() ([]DumpSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []DumpSummary{}, nil
		}

		return nil, errors.Wrap(err, "failed to read dump directory")
	}

	summaries := make([]DumpSummary, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), FileExtension) {
			continue
		}

		summary, err := s.loadSummary(entry.Name())
		if err != nil {
			// corrupted dumps are skipped
			continue
		}

		summaries = append(summaries, summary)
	}

	slices.SortFunc(summaries, func(a, b DumpSummary) int {
		return cmp.Compare(b.Timestamp.UnixNano(), a.Timestamp.UnixNano())
	})

	return summaries, nil
}

// Get loads a dump by ID.
func (s *Store) Get(id string) (*CrashInfo, error) {
	return loadFile(filepath.Join(s.dir, id+FileExtension))
}

// Prune keeps the newest maxDumps dumps and returns how many were removed.
func (s *Store) Prune(maxDumps int) (int, error) {
	summaries, err := s.List()
	if err != nil {
		return 0, err
	}

	removed := 0

	for i := maxDumps; i < len(summaries); i++ {
		if err := os.Remove(summaries[i].FilePath); err != nil {
			continue
		}

		removed++
	}

	return removed, nil
}

func (s *Store) loadSummary(name string) (DumpSummary, error) {
	path := filepath.Join(s.dir, name)

	info, err := loadFile(path)
	if err != nil {
		return DumpSummary{}, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return DumpSummary{}, errors.Wrap(err, "failed to stat file")
	}

	panicValue := info.PanicValue
	if len(panicValue) > maxPanicLen {
		panicValue = panicValue[:maxPanicLen] + "..."
	}

	return DumpSummary{
		ID:         info.ID,
		Timestamp:  info.Timestamp,
		PanicValue: panicValue,
		FilePath:   path,
		Size:       stat.Size(),
	}, nil
}

func loadFile(path string) (*CrashInfo, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is built from the dump dir
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrDumpNotFound, "file: %s", path)
		}

		return nil, errors.Wrap(err, "failed to read dump file")
	}

	var info CrashInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal dump file")
	}

	return &info, nil
}
