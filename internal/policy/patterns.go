package policy

import (
	"regexp"

	"github.com/cockroachdb/errors"
)

// ErrInvalidPattern is returned when a configured pattern does not compile.
var ErrInvalidPattern = errors.New("invalid pattern")

// Pattern is a case-insensitive regular expression matched against the
// serialized tool input. Source is reported in decision reasons.
type Pattern struct {
	Source string
	re     *regexp.Regexp
}

// CompilePattern compiles src as a case-insensitive pattern.
func CompilePattern(src string) (Pattern, error) {
	re, err := regexp.Compile("(?i)" + src)
	if err != nil {
		return Pattern{}, errors.Wrapf(ErrInvalidPattern, "%q: %v", src, err)
	}

	return Pattern{Source: src, re: re}, nil
}

// CompilePatterns compiles every source, failing on the first bad one.
func CompilePatterns(sources []string) ([]Pattern, error) {
	patterns := make([]Pattern, 0, len(sources))

	for _, src := range sources {
		p, err := CompilePattern(src)
		if err != nil {
			return nil, err
		}

		patterns = append(patterns, p)
	}

	return patterns, nil
}

func mustCompile(sources ...string) []Pattern {
	patterns, err := CompilePatterns(sources)
	if err != nil {
		panic(err)
	}

	return patterns
}

// Match reports whether s matches the pattern.
func (p Pattern) Match(s string) bool {
	return p.re != nil && p.re.MatchString(s)
}

// DestructivePatterns are irreversible, system-damaging operations. Checked in order.
var DestructivePatterns = mustCompile(
	`\brm\s+-rf\s+/(?:\W|$)`,
	`\bsudo\s+rm\s+-rf\b`,
	`\bmkfs\b`,
	`\bdd\s+if=`,
	`\bshutdown\b`,
	`\breboot\b`,
	`:\(\)\s*\{\s*:\s*\|\s*:\s*&\s*\}\s*;`,
	`\bchmod\s+(?:-R\s+)?777\s+/(?:\s|$)`,
	`>\s*/dev/sd[a-z]\b`,
)

// HighRiskPatterns are remote-mutating or privilege-sensitive operations. Checked in order.
var HighRiskPatterns = mustCompile(
	`\bgit\s+push\b`,
	`\bgit\s+reset\s+--hard\b`,
	`\bterraform\s+apply\b`,
	`\bterraform\s+destroy\b`,
	`\bkubectl\s+apply\b`,
	`\bkubectl\s+delete\b`,
	`\bcurl\b.*\|\s*(?:ba)?sh\b`,
	`\bsudo\b`,
	`\bwget\b.*\|\s*(?:ba)?sh\b`,
	`\bgit\s+clean\s+-fd`,
	`\bhelm\s+(?:upgrade|install|uninstall)\b`,
	`\b(?:npm|pnpm|cargo)\s+publish\b`,
)

// HighRiskMarkers select the HIGH prompt tier. Checked before LowRiskMarkers.
var HighRiskMarkers = []string{
	"auth", "oauth", "token", "secret", "deploy", "payment", "billing",
	"migration", "database", "prod", "production", "security", "permission",
	"mcp", "marketplace", "plugin", "publish", "delete", "encrypt", "decrypt",
	"certificate", "ssl", "tls", "firewall", "infra", "terraform", "k8s",
	"kubernetes", "docker", "ci/cd", "pipeline", "release", "rollback",
}

// LowRiskMarkers select the LOW prompt tier.
var LowRiskMarkers = []string{
	"typo", "rename", "comment", "docs", "readme", "format", "lint",
	"small fix", "whitespace", "style", "log", "todo", "cleanup",
}

// VerificationKeywords mark a command as producing verification evidence.
var VerificationKeywords = []string{
	"test", "pytest", "cargo test", "cargo check", "cargo clippy",
	"lint", "ruff", "pyright", "mypy", "flake8", "eslint", "biome",
	"pnpm test", "npm test", "pnpm lint", "npm run lint",
	"tsc", "go test", "go vet", "dotnet test", "mvn test",
	"gradle test", "mix test", "bundle exec rspec",
	"make test", "make check", "cmake --build",
}

// DefaultSensitivePatterns are doublestar globs for secret-bearing paths.
// Paths are matched lower-cased, relative, with any leading "/", "./" or "~/" removed.
var DefaultSensitivePatterns = []string{
	"**/.env",
	"**/.env.*",
	"**/secrets/**",
	"**/secret/**",
	"**/*.pem",
	"**/*.key",
	"**/id_rsa*",
	"**/id_ed25519*",
	"**/credentials.json",
	"**/service*account*.json",
	"**/.npmrc",
	"**/.pypirc",
	"**/.docker/config.json",
	"**/kubeconfig*",
	"**/.aws/credentials",
}
