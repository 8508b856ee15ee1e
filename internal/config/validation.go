package config

import (
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"

	"github.com/metaygn/aletheia-hooks/internal/policy"
	"github.com/metaygn/aletheia-hooks/pkg/config"
)

var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidTimeout is returned when a timeout is outside its allowed range.
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrEmptyValue is returned when a required value is empty.
	ErrEmptyValue = errors.New("empty value not allowed")
)

// MaxDaemonTimeout caps the daemon deadline. Hooks sit on the agent's hot
// path, so a larger value would stall every tool call.
const MaxDaemonTimeout = 5 * time.Second

// Validator validates configuration semantics.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the entire configuration.
// Returns an error describing all validation failures.
func (v *Validator) Validate(cfg *config.Config) error {
	if cfg == nil {
		return errors.WithMessage(ErrInvalidConfig, "config is nil")
	}

	var validationErrors []error

	if err := v.validateDaemon(cfg.Daemon); err != nil {
		validationErrors = append(validationErrors, err)
	}

	if err := v.validatePolicy(cfg.Policy); err != nil {
		validationErrors = append(validationErrors, err)
	}

	if len(validationErrors) > 0 {
		return errors.WithSecondaryError(
			errors.Wrapf(
				ErrInvalidConfig,
				"validation failed with %d error(s)",
				len(validationErrors),
			),
			combineErrors(validationErrors),
		)
	}

	return nil
}

func (*Validator) validateDaemon(d *config.DaemonConfig) error {
	if d == nil {
		return nil
	}

	var errs []error

	if timeout := d.GetTimeout(); timeout > MaxDaemonTimeout {
		errs = append(errs, errors.Wrapf(
			ErrInvalidTimeout, "daemon.timeout %s exceeds %s", timeout, MaxDaemonTimeout,
		))
	}

	if grace := d.GetNotifyGrace(); grace > d.GetTimeout() {
		errs = append(errs, errors.Wrapf(
			ErrInvalidTimeout, "daemon.notify_grace %s exceeds daemon.timeout %s", grace, d.GetTimeout(),
		))
	}

	return combineErrors(errs)
}

func (*Validator) validatePolicy(p *config.PolicyConfig) error {
	if p == nil {
		return nil
	}

	var errs []error

	if _, err := policy.CompilePatterns(p.ExtraDestructive); err != nil {
		errs = append(errs, errors.Wrap(err, "policy.extra_destructive"))
	}

	if _, err := policy.CompilePatterns(p.ExtraHighRisk); err != nil {
		errs = append(errs, errors.Wrap(err, "policy.extra_high_risk"))
	}

	for _, kw := range p.ExtraVerificationKeywords {
		if kw == "" {
			errs = append(errs, errors.Wrap(ErrEmptyValue, "policy.extra_verification_keywords"))

			break
		}
	}

	if p.SensitivePaths != nil {
		for _, glob := range p.SensitivePaths.Patterns {
			if !doublestar.ValidatePattern(glob) {
				errs = append(errs, errors.Wrapf(
					policy.ErrInvalidPattern, "policy.sensitive_paths.patterns: %q", glob,
				))
			}
		}
	}

	return combineErrors(errs)
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return errors.Join(errs...)
}
