package policy

import (
	"github.com/cockroachdb/errors"

	"github.com/metaygn/aletheia-hooks/pkg/config"
)

// NewFromConfig builds an Engine from the [policy] section. A nil section
// yields the built-in tables with the sensitive path gate on.
func NewFromConfig(cfg *config.PolicyConfig) (*Engine, error) {
	if cfg == nil {
		cfg = &config.PolicyConfig{}
	}

	destructive, err := CompilePatterns(cfg.ExtraDestructive)
	if err != nil {
		return nil, errors.Wrap(err, "policy.extra_destructive")
	}

	highRisk, err := CompilePatterns(cfg.ExtraHighRisk)
	if err != nil {
		return nil, errors.Wrap(err, "policy.extra_high_risk")
	}

	opts := []Option{
		WithMCPPrefix(cfg.GetMCPPrefix()),
		WithExtraDestructive(destructive...),
		WithExtraHighRisk(highRisk...),
		WithVerificationKeywords(cfg.ExtraVerificationKeywords...),
	}

	sensitive := cfg.GetSensitivePaths()
	if sensitive.IsEnabled() {
		gate, err := NewSensitiveGate(sensitive.Patterns)
		if err != nil {
			return nil, errors.Wrap(err, "policy.sensitive_paths")
		}

		opts = append(opts, WithSensitiveGate(gate))
	}

	return New(opts...), nil
}
