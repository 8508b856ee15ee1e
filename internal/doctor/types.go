// Package doctor provides health checks for the hook installation and the daemon.
package doctor

import "context"

// Severity represents the severity level of a check result
type Severity string

const (
	// SeverityError indicates a problem that breaks the hooks
	SeverityError Severity = "error"
	// SeverityWarning indicates a degraded but working setup
	SeverityWarning Severity = "warning"
	// SeverityInfo indicates informational output
	SeverityInfo Severity = "info"
)

// Status represents the status of a health check
type Status string

const (
	StatusPass    Status = "pass"
	StatusFail    Status = "fail"
	StatusSkipped Status = "skipped"
)

// Category groups related checks.
type Category string

const (
	// CategoryConfig checks configuration files
	CategoryConfig Category = "config"
	// CategoryDaemon checks daemon discovery and health
	CategoryDaemon Category = "daemon"
	// CategoryState checks the state directory: logs, journal, crash dumps
	CategoryState Category = "state"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryConfig, CategoryDaemon, CategoryState}

// CheckResult represents the result of a health check
type CheckResult struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Severity Severity `json:"severity"`
	Status   Status   `json:"status"`
	Message  string   `json:"message"`
	Details  []string `json:"details,omitempty"`

	// FixID links to a Fixer that can repair this result.
	FixID string `json:"fix_id,omitempty"`
}

// HealthChecker performs a health check and returns a result
type HealthChecker interface {
	Name() string
	Category() Category
	Check(ctx context.Context) CheckResult
}

// Fixer repairs issues found by health checks.
type Fixer interface {
	// ID matches CheckResult.FixID.
	ID() string
	Description() string
	Fix(ctx context.Context) error
}

// Reporter formats and outputs check results
type Reporter interface {
	Report(results []CheckResult, verbose bool) error
}

// NewCheckResult creates a new CheckResult with the given parameters
func NewCheckResult(name string, severity Severity, status Status, message string) CheckResult {
	return CheckResult{
		Name:     name,
		Severity: severity,
		Status:   status,
		Message:  message,
		Details:  []string{},
	}
}

// WithDetails adds details to a CheckResult
func (r CheckResult) WithDetails(details ...string) CheckResult {
	r.Details = append(r.Details, details...)
	return r
}

// WithFixID sets the fix ID for a CheckResult
func (r CheckResult) WithFixID(fixID string) CheckResult {
	r.FixID = fixID
	return r
}

// Pass creates a passing check result
func Pass(name, message string) CheckResult {
	return NewCheckResult(name, SeverityInfo, StatusPass, message)
}

// FailError creates a failing check result with error severity
func FailError(name, message string) CheckResult {
	return NewCheckResult(name, SeverityError, StatusFail, message)
}

// FailWarning creates a failing check result with warning severity
func FailWarning(name, message string) CheckResult {
	return NewCheckResult(name, SeverityWarning, StatusFail, message)
}

// Skip creates a skipped check result
func Skip(name, message string) CheckResult {
	return NewCheckResult(name, SeverityInfo, StatusSkipped, message)
}

// IsError returns true if the result is an error
func (r CheckResult) IsError() bool {
	return r.Status == StatusFail && r.Severity == SeverityError
}

// IsWarning returns true if the result is a warning
func (r CheckResult) IsWarning() bool {
	return r.Status == StatusFail && r.Severity == SeverityWarning
}

func (r CheckResult) IsPassed() bool {
	return r.Status == StatusPass
}

func (r CheckResult) IsSkipped() bool {
	return r.Status == StatusSkipped
}

// HasFix returns true if the result has a fix available
func (r CheckResult) HasFix() bool {
	return r.FixID != ""
}
