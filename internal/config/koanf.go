// Package config provides internal configuration loading and processing.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/knadh/koanf/maps"
	tomlparser "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/metaygn/aletheia-hooks/internal/paths"
	"github.com/metaygn/aletheia-hooks/pkg/config"
)

var (
	// ErrInvalidTOML is returned when the TOML file cannot be parsed.
	ErrInvalidTOML = errors.New("invalid TOML")

	// ErrInvalidPermissions is returned when config file has insecure permissions.
	ErrInvalidPermissions = errors.New("config file has insecure permissions")
)

const (
	// EnvPrefix is the prefix of configuration environment variables.
	EnvPrefix = "ALETHEIA_"

	// envNestingSeparator separates section and key in variable names,
	// so ALETHEIA_DAEMON__PORT_FILE maps to daemon.port_file.
	envNestingSeparator = "__"

	// ProjectConfigDir is the directory name for project configuration.
	ProjectConfigDir = ".aletheia"

	// ProjectConfigFile is the primary project configuration file name.
	ProjectConfigFile = "config.toml"

	// ProjectConfigFileAlt is the alternative project configuration file name.
	ProjectConfigFileAlt = "aletheia.toml"
)

// listKeys are config paths whose env values are comma separated lists.
var listKeys = map[string]bool{
	"policy.extra_destructive":           true,
	"policy.extra_high_risk":             true,
	"policy.extra_verification_keywords": true,
	"policy.sensitive_paths.patterns":    true,
}

// KoanfLoader handles configuration loading from multiple sources using koanf.
// Precedence order (highest to lowest):
// 1. CLI Flags
// 2. Environment Variables (ALETHEIA_*)
// 3. Project Config (.aletheia/config.toml or aletheia.toml)
// 4. Global Config (~/.claude/aletheia/config.toml)
// 5. Defaults
type KoanfLoader struct {
	k          *koanf.Koanf
	globalPath string
	workDir    string
}

// NewKoanfLoader creates a new KoanfLoader with default directories.
func NewKoanfLoader() (*KoanfLoader, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get working directory")
	}

	return &KoanfLoader{
		k:          koanf.New("."),
		globalPath: paths.GlobalConfigFile(),
		workDir:    workDir,
	}, nil
}

// NewKoanfLoaderWithDirs creates a new KoanfLoader with custom directories (for testing).
func NewKoanfLoaderWithDirs(homeDir, workDir string) *KoanfLoader {
	return &KoanfLoader{
		k:          koanf.New("."),
		globalPath: paths.ResolverFor(homeDir).GlobalConfigFile(),
		workDir:    workDir,
	}
}

// NewKoanfLoaderFrom returns a loader for the same locations as l with its
// own koanf state.
func NewKoanfLoaderFrom(l *KoanfLoader) *KoanfLoader {
	return &KoanfLoader{
		k:          koanf.New("."),
		globalPath: l.globalPath,
		workDir:    l.workDir,
	}
}

// Load loads configuration from all sources with precedence and validates it.
func (l *KoanfLoader) Load(flags map[string]any) (*config.Config, error) {
	cfg, err := l.LoadWithoutValidation(flags)
	if err != nil {
		return nil, err
	}

	if err := NewValidator().Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return cfg, nil
}

// LoadWithoutValidation loads configuration without running validation.
// Defaults → Global TOML → Project TOML → Env Vars → CLI Flags
func (l *KoanfLoader) LoadWithoutValidation(flags map[string]any) (*config.Config, error) {
	l.k = koanf.New(".")

	if err := l.k.Load(confmap.Provider(defaultsToMap(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}

	if err := l.loadTOMLFile(l.globalPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(err, "failed to load global config")
	}

	if projectPath := l.findProjectConfig(); projectPath != "" {
		if err := l.loadTOMLFile(projectPath); err != nil {
			return nil, errors.Wrap(err, "failed to load project config")
		}
	}

	envOpt := env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envTransform,
	}

	if err := l.k.Load(env.Provider(".", envOpt), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load env vars")
	}

	if len(flags) > 0 {
		if err := l.k.Load(confmap.Provider(flagsToConfig(flags), "."), nil); err != nil {
			return nil, errors.Wrap(err, "failed to load flags")
		}
	}

	return l.decode()
}

// LoadFile loads defaults plus the single file at path and validates the
// result. It reports problems with one layer in isolation.
func (l *KoanfLoader) LoadFile(path string) (*config.Config, error) {
	l.k = koanf.New(".")

	if err := l.k.Load(confmap.Provider(defaultsToMap(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}

	if err := l.loadTOMLFile(path); err != nil {
		return nil, err
	}

	cfg, err := l.decode()
	if err != nil {
		return nil, err
	}

	if err := NewValidator().Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return cfg, nil
}

func (l *KoanfLoader) decode() (*config.Config, error) {
	var cfg config.Config

	dc := CustomDecoderConfig()
	dc.Result = &cfg

	if err := l.k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag:           "koanf",
		DecoderConfig: dc,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	return &cfg, nil
}

// loadTOMLFile loads a TOML configuration file with security checks.
func (l *KoanfLoader) loadTOMLFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.Mode().Perm()&0o002 != 0 {
		return errors.Wrapf(
			ErrInvalidPermissions,
			"%s is world-writable (mode: %s)",
			path,
			info.Mode().Perm(),
		)
	}

	if err := l.k.Load(file.Provider(path), tomlparser.Parser()); err != nil {
		return errors.Wrapf(ErrInvalidTOML, "%s: %v", path, err)
	}

	return nil
}

// envTransform maps ALETHEIA_DAEMON__TIMEOUT to daemon.timeout. Single
// underscores stay inside key names.
func envTransform(key, value string) (string, any) {
	key = strings.TrimPrefix(key, EnvPrefix)
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, envNestingSeparator, ".")

	if listKeys[key] {
		parts := strings.Split(value, ",")
		items := make([]string, 0, len(parts))

		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				items = append(items, p)
			}
		}

		return key, items
	}

	return key, value
}

// GlobalConfigPath returns the path to the global configuration file.
func (l *KoanfLoader) GlobalConfigPath() string {
	return l.globalPath
}

// ProjectConfigPaths returns the paths to check for project configuration.
func (l *KoanfLoader) ProjectConfigPaths() []string {
	return []string{
		filepath.Join(l.workDir, ProjectConfigDir, ProjectConfigFile),
		filepath.Join(l.workDir, ProjectConfigFileAlt),
	}
}

func (l *KoanfLoader) findProjectConfig() string {
	for _, path := range l.ProjectConfigPaths() {
		if fileExists(path) {
			return path
		}
	}

	return ""
}

// HasGlobalConfig checks if a global configuration file exists.
func (l *KoanfLoader) HasGlobalConfig() bool {
	return fileExists(l.globalPath)
}

// FindProjectConfigPath returns the path to the project config file if one exists.
func (l *KoanfLoader) FindProjectConfigPath() string {
	return l.findProjectConfig()
}

// flagToKey maps CLI flag names to config paths.
var flagToKey = map[string]string{
	"timeout":    "daemon.timeout",
	"port-file":  "daemon.port_file",
	"no-daemon":  "daemon.enabled",
	"log-file":   "log.file",
	"no-journal": "journal.enabled",
}

// flagsToConfig converts CLI flags to a nested configuration map. Empty
// strings and false switches are skipped so they never mask lower layers.
func flagsToConfig(flags map[string]any) map[string]any {
	flat := make(map[string]any)

	for name, value := range flags {
		key, ok := flagToKey[name]
		if !ok {
			continue
		}

		switch v := value.(type) {
		case string:
			if v != "" {
				flat[key] = v
			}

		case bool:
			// every boolean flag is a negative switch
			if v {
				flat[key] = false
			}
		}
	}

	return maps.Unflatten(flat, ".")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}
