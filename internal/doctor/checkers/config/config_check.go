// Package config provides checkers for configuration file validation.
package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/metaygn/aletheia-hooks/internal/config"
	"github.com/metaygn/aletheia-hooks/internal/doctor"
)

const (
	globalName    = "Global config valid"
	projectName   = "Project config valid"
	effectiveName = "Effective config valid"

	// FixCreateGlobal is the FixID for a missing global config.
	FixCreateGlobal = "create_global_config"
	// FixPermissions is the FixID for a world-writable config file.
	FixPermissions = "fix_config_permissions"
)

// GlobalChecker checks the validity of the global configuration
type GlobalChecker struct {
	loader *config.KoanfLoader
}

// NewGlobalChecker creates a new global config checker
func NewGlobalChecker(loader *config.KoanfLoader) *GlobalChecker {
	return &GlobalChecker{loader: loader}
}

func (*GlobalChecker) Name() string {
	return globalName
}

func (*GlobalChecker) Category() doctor.Category {
	return doctor.CategoryConfig
}

// Check loads the global file on its own.
func (c *GlobalChecker) Check(_ context.Context) doctor.CheckResult {
	path := c.loader.GlobalConfigPath()

	if !c.loader.HasGlobalConfig() {
		return doctor.FailWarning(globalName, "Config file not found (optional)").
			WithDetails(
				"Expected at: "+path,
				"Create with: aletheia-hooks init --global",
			).
			WithFixID(FixCreateGlobal)
	}

	return checkFile(c.loader, globalName, path)
}

// ProjectChecker checks the validity of the project configuration
type ProjectChecker struct {
	loader *config.KoanfLoader
}

// NewProjectChecker creates a new project config checker
func NewProjectChecker(loader *config.KoanfLoader) *ProjectChecker {
	return &ProjectChecker{loader: loader}
}

func (*ProjectChecker) Name() string {
	return projectName
}

func (*ProjectChecker) Category() doctor.Category {
	return doctor.CategoryConfig
}

// Check loads the project file on its own, if there is one.
func (c *ProjectChecker) Check(_ context.Context) doctor.CheckResult {
	path := c.loader.FindProjectConfigPath()
	if path == "" {
		return doctor.Skip(projectName, "No project config").
			WithDetails("Checked paths: " + strings.Join(c.loader.ProjectConfigPaths(), ", "))
	}

	return checkFile(c.loader, projectName, path)
}

// EffectiveChecker loads every layer, environment variables included.
type EffectiveChecker struct {
	loader *config.KoanfLoader
}

// NewEffectiveChecker creates a checker for the merged configuration.
func NewEffectiveChecker(loader *config.KoanfLoader) *EffectiveChecker {
	return &EffectiveChecker{loader: loader}
}

func (*EffectiveChecker) Name() string {
	return effectiveName
}

func (*EffectiveChecker) Category() doctor.Category {
	return doctor.CategoryConfig
}

func (c *EffectiveChecker) Check(_ context.Context) doctor.CheckResult {
	cfg, err := config.NewKoanfLoaderFrom(c.loader).Load(nil)
	if err != nil {
		return doctor.FailError(effectiveName, "Merged configuration is invalid").
			WithDetails(
				fmt.Sprintf("Error: %v", err),
				"Check "+config.EnvPrefix+"* environment variables",
			)
	}

	state := "disabled"
	if cfg.GetDaemon().IsEnabled() {
		state = "enabled, timeout " + cfg.GetDaemon().GetTimeout().String()
	}

	return doctor.Pass(effectiveName, "Valid (daemon "+state+")")
}

// checkFile loads path through a copy of loader, so checkers can run in parallel.
func checkFile(loader *config.KoanfLoader, name, path string) doctor.CheckResult {
	_, err := config.NewKoanfLoaderFrom(loader).LoadFile(path)

	switch {
	case err == nil:
		return doctor.Pass(name, "Valid")

	case errors.Is(err, os.ErrNotExist):
		return doctor.Skip(name, "Config file disappeared during check")

	case errors.Is(err, config.ErrInvalidPermissions):
		return doctor.FailError(name, "Insecure file permissions").
			WithDetails(
				"File: "+path,
				"Config file should not be world-writable",
				"Fix with: chmod 600 "+path,
			).
			WithFixID(FixPermissions)

	case errors.Is(err, config.ErrInvalidTOML):
		return doctor.FailError(name, "Invalid TOML syntax").
			WithDetails(
				"File: "+path,
				fmt.Sprintf("Error: %v", err),
			)

	default:
		return doctor.FailError(name, "Configuration validation failed").
			WithDetails(
				"File: "+path,
				fmt.Sprintf("Error: %v", err),
			)
	}
}
