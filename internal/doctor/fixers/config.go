// Package fixers repairs issues found by doctor checks.
package fixers

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/metaygn/aletheia-hooks/internal/config"
	configcheck "github.com/metaygn/aletheia-hooks/internal/doctor/checkers/config"
)

// ConfigFixer creates a missing global configuration with default values.
type ConfigFixer struct {
	writer *config.Writer
}

// NewConfigFixer creates a new ConfigFixer.
func NewConfigFixer(writer *config.Writer) *ConfigFixer {
	return &ConfigFixer{writer: writer}
}

func (*ConfigFixer) ID() string {
	return configcheck.FixCreateGlobal
}

func (*ConfigFixer) Description() string {
	return "Create the global configuration file with default values"
}

// Fix writes the defaults unless a file appeared in the meantime.
func (f *ConfigFixer) Fix(_ context.Context) error {
	err := f.writer.WriteFile(f.writer.GlobalConfigPath(), config.DefaultConfig(), false)
	if err != nil && !errors.Is(err, config.ErrConfigExists) {
		return errors.Wrap(err, "failed to write global config")
	}

	return nil
}

// PermissionsFixer removes group and world write access from config files.
type PermissionsFixer struct {
	paths []string
}

// NewPermissionsFixer creates a fixer for the given config paths. Missing
// files are ignored.
func NewPermissionsFixer(paths ...string) *PermissionsFixer {
	return &PermissionsFixer{paths: paths}
}

func (*PermissionsFixer) ID() string {
	return configcheck.FixPermissions
}

func (*PermissionsFixer) Description() string {
	return "Restrict configuration files to mode 0600"
}

func (f *PermissionsFixer) Fix(_ context.Context) error {
	for _, path := range f.paths {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}

		if info.Mode().Perm()&0o022 == 0 {
			continue
		}

		if err := os.Chmod(path, config.ConfigFileMode); err != nil {
			return errors.Wrapf(err, "failed to chmod %s", path)
		}
	}

	return nil
}
