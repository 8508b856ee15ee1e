package policy_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/metaygn/aletheia-hooks/internal/policy"
	"github.com/metaygn/aletheia-hooks/pkg/hook"
)

var _ = Describe("SensitiveGate", func() {
	var gate *policy.SensitiveGate

	BeforeEach(func() {
		var err error
		gate, err = policy.NewSensitiveGate(nil)
		Expect(err).NotTo(HaveOccurred())
	})

	It("uses the default globs", func() {
		Expect(gate.Patterns()).To(Equal(policy.DefaultSensitivePatterns))
	})

	DescribeTable("Match",
		func(input *hook.ToolInput, want string) {
			path, ok := gate.Match(input)
			if want == "" {
				Expect(ok).To(BeFalse())

				return
			}

			Expect(ok).To(BeTrue())
			Expect(path).To(Equal(want))
		},
		Entry("dotenv", toolInput("file_path", ".env"), ".env"),
		Entry("nested dotenv variant", toolInput("file_path", "/srv/app/.env.production"), "/srv/app/.env.production"),
		Entry("aws credentials via cat", bash("cat ~/.aws/credentials"), "~/.aws/credentials"),
		Entry("redirect target", bash("echo KEY=1 > config/.env"), "config/.env"),
		Entry("private key", toolInput("path", "certs/Server.PEM"), "certs/Server.PEM"),
		Entry("ssh key", bash("cp ~/.ssh/id_rsa /tmp"), "~/.ssh/id_rsa"),
		Entry("source file", toolInput("file_path", "main.go"), ""),
		Entry("harmless command", bash("go build ./..."), ""),
		Entry("unparsable shell falls back to words", bash("cat .env && (("), ".env"),
		Entry("nil input", nil, ""),
	)

	It("rejects an invalid glob", func() {
		_, err := policy.NewSensitiveGate([]string{"[abc"})
		Expect(err).To(MatchError(policy.ErrInvalidPattern))
	})

	It("accepts custom globs", func() {
		g, err := policy.NewSensitiveGate([]string{"**/vault/**"})
		Expect(err).NotTo(HaveOccurred())
		Expect(g.MatchPath("infra/vault/root.hcl")).To(BeTrue())
		Expect(g.MatchPath(".env")).To(BeFalse())
	})

	It("is consulted by the engine after the regex rules", func() {
		e := policy.New(policy.WithSensitiveGate(gate))

		verdict := e.ClassifyToolUse("Read", toolInput("file_path", ".env"))
		Expect(verdict.Reason).To(Equal("Sensitive path detected: .env"))

		verdict = e.ClassifyToolUse("Bash", bash("sudo cat .env"))
		Expect(verdict.Category).To(Equal(policy.CategoryHighRisk))
	})
})
