// Package daemon provides checkers for daemon discovery and health.
package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"

	"github.com/metaygn/aletheia-hooks/internal/daemon"
	"github.com/metaygn/aletheia-hooks/internal/doctor"
)

const (
	portFileName = "Port file readable"
	healthName   = "Daemon healthy"

	// SupportedVersions is the semver constraint for daemon versions this
	// client speaks to.
	SupportedVersions = ">= 0.1.0, < 1.0.0"

	// slowHealth marks a health probe that would eat most of a hook's budget.
	slowHealth = 200 * time.Millisecond
)

var offlineDetails = []string{
	"Hooks fall back to the local policy while the daemon is offline",
}

// PortFileChecker checks that the port file exists and holds a valid port.
type PortFileChecker struct {
	path string
	now  func() time.Time
}

// NewPortFileChecker creates a checker for the port file at path.
func NewPortFileChecker(path string) *PortFileChecker {
	return &PortFileChecker{path: path, now: time.Now}
}

func (*PortFileChecker) Name() string {
	return portFileName
}

func (*PortFileChecker) Category() doctor.Category {
	return doctor.CategoryDaemon
}

func (c *PortFileChecker) Check(_ context.Context) doctor.CheckResult {
	info, err := os.Stat(c.path)
	if err != nil {
		return doctor.FailWarning(portFileName, "Port file not found (daemon offline)").
			WithDetails("Expected at: " + c.path).
			WithDetails(offlineDetails...)
	}

	port, err := daemon.ReadPort(c.path)
	if err != nil {
		return doctor.FailError(portFileName, "Port file is malformed").
			WithDetails(
				"File: "+c.path,
				fmt.Sprintf("Error: %v", err),
			)
	}

	return doctor.Pass(portFileName, fmt.Sprintf("Port %d", port)).
		WithDetails(
			"File: "+c.path,
			"Written "+humanize.RelTime(info.ModTime(), c.now(), "ago", "from now"),
		)
}

// HealthProber probes the daemon health endpoint.
type HealthProber interface {
	Health(ctx context.Context) (json.RawMessage, error)
}

// HealthChecker probes the daemon and checks its reported version.
type HealthChecker struct {
	prober     HealthProber
	constraint *semver.Constraints
}

// NewHealthChecker creates a checker that probes through prober.
func NewHealthChecker(prober HealthProber) *HealthChecker {
	constraint, _ := semver.NewConstraint(SupportedVersions)

	return &HealthChecker{prober: prober, constraint: constraint}
}

func (*HealthChecker) Name() string {
	return healthName
}

func (*HealthChecker) Category() doctor.Category {
	return doctor.CategoryDaemon
}

type healthPayload struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (c *HealthChecker) Check(ctx context.Context) doctor.CheckResult {
	if c.prober == nil {
		return doctor.Skip(healthName, "Daemon disabled in config")
	}

	start := time.Now()
	raw, err := c.prober.Health(ctx)
	latency := time.Since(start)

	if err != nil {
		if errors.Is(err, daemon.ErrNoEndpoint) {
			return doctor.Skip(healthName, "No daemon endpoint").WithDetails(offlineDetails...)
		}

		return doctor.FailWarning(healthName, "Daemon did not answer").
			WithDetails(fmt.Sprintf("Error: %v", err)).
			WithDetails(offlineDetails...)
	}

	took := durafmt.Parse(latency).LimitFirstN(2).String()

	var payload healthPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return doctor.FailWarning(healthName, "Health payload is not a JSON object").
			WithDetails("Payload: " + string(raw))
	}

	if payload.Version != "" {
		result := c.checkVersion(payload.Version)
		if result != nil {
			return result.WithDetails("Latency: " + took)
		}
	}

	msg := "Online"
	if payload.Version != "" {
		msg += ", version " + payload.Version
	}

	if latency > slowHealth {
		return doctor.FailWarning(healthName, msg+", slow to answer").
			WithDetails("Latency: "+took, "Hook calls time out after the configured daemon.timeout")
	}

	return doctor.Pass(healthName, msg).WithDetails("Latency: " + took)
}

func (c *HealthChecker) checkVersion(raw string) *doctor.CheckResult {
	version, err := semver.NewVersion(raw)
	if err != nil {
		result := doctor.FailWarning(healthName, fmt.Sprintf("Unparsable daemon version %q", raw))

		return &result
	}

	if c.constraint != nil && !c.constraint.Check(version) {
		result := doctor.FailError(healthName, "Unsupported daemon version "+version.String()).
			WithDetails("Supported: " + SupportedVersions)

		return &result
	}

	return nil
}
