package policy_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/metaygn/aletheia-hooks/internal/policy"
	"github.com/metaygn/aletheia-hooks/pkg/hook"
)

var _ = Describe("ClassifyPrompt", func() {
	DescribeTable("tiers",
		func(prompt string, tier policy.RiskTier, mode string) {
			class := policy.ClassifyPrompt(prompt)
			Expect(class.Tier).To(Equal(tier))
			Expect(class.Mode).To(Equal(mode))
		},
		Entry("high marker", "Rotate the OAuth token in production", policy.TierHigh, "verify-first"),
		Entry("high beats low", "fix a typo in the deploy script", policy.TierHigh, "verify-first"),
		Entry("low marker", "Fix the typo in README", policy.TierLow, "inspect-patch-verify"),
		Entry("mcp marker", "wire the new MCP server", policy.TierHigh, "verify-first"),
		Entry("plugin marker", "bump the plugin in the marketplace", policy.TierHigh, "verify-first"),
		Entry("log marker", "add a log line here", policy.TierLow, "inspect-patch-verify"),
		Entry("no marker", "add a helper to parse dates", policy.TierMedium, "map-plan-patch-verify"),
		Entry("empty", "", policy.TierMedium, "map-plan-patch-verify"),
	)

	It("renders a preflight note", func() {
		ctx := policy.ClassifyPrompt("delete the database").Context()
		Expect(ctx).To(HavePrefix("Preflight: risk=high, budget=deliberate, mode=verify-first."))
		Expect(ctx).To(ContainSubstring("HIGH RISK"))
	})
})

var _ = Describe("advisories", func() {
	var engine *policy.Engine

	BeforeEach(func() {
		engine = policy.New()
	})

	It("always answers a prompt with context", func() {
		out := engine.EvaluatePrompt(&hook.Input{HookEventName: hook.EventUserPromptSubmit})
		Expect(out).NotTo(BeNil())
		Expect(out.Decision()).To(BeEmpty())
		Expect(out.Context()).To(ContainSubstring("risk=medium"))
	})

	DescribeTable("EvaluatePostToolUse",
		func(input *hook.ToolInput, noted bool) {
			out := engine.EvaluatePostToolUse(&hook.Input{
				HookEventName: hook.EventPostToolUse,
				ToolName:      hook.Ptr("Bash"),
				ToolInput:     input,
			})

			if !noted {
				Expect(out).To(BeNil())

				return
			}

			Expect(out.Context()).To(Equal(policy.VerificationNote))
			Expect(out.HookSpecificOutput.HookEventName).To(Equal(hook.EventPostToolUse))
		},
		Entry("go test", bash("go test ./..."), true),
		Entry("upper case", bash("PYTEST -q"), true),
		Entry("plain command", bash("ls"), false),
		Entry("no command", toolInput("file_path", "main.go"), false),
		Entry("non-string command", toolInput("command", 42), false),
	)

	It("always reminds on stop", func() {
		Expect(engine.EvaluateStop(nil).Context()).To(Equal(policy.StopReminder))
	})

	It("always outlines compaction", func() {
		out := engine.EvaluatePreCompact()
		Expect(out.HookSpecificOutput.HookEventName).To(Equal(hook.EventPreCompact))
		Expect(out.Context()).To(HavePrefix("Compact into: 1) Current goal"))
	})

	Describe("failures", func() {
		It("falls back to the generic hint without input", func() {
			Expect(engine.EvaluateFailure(nil).Context()).To(Equal(policy.GenericFailureHint))
		})

		It("defaults the tool name and error", func() {
			msg := engine.FailureDiagnostic(&hook.Input{HookEventName: hook.EventPostToolUseFailure})
			Expect(msg).To(HavePrefix(`Tool "unknown" failed (no error details). Diagnose:`))
		})

		It("truncates the error to 120 characters", func() {
			msg := engine.FailureDiagnostic(&hook.Input{
				HookEventName: hook.EventPostToolUseFailure,
				ToolName:      hook.Ptr("Read"),
				Error:         hook.Ptr(strings.Repeat("x", 300)),
			})

			Expect(msg).To(ContainSubstring("(" + strings.Repeat("x", 120) + ")"))
			Expect(msg).NotTo(ContainSubstring(strings.Repeat("x", 121)))
		})

		DescribeTable("family hints",
			func(tool, hint string) {
				msg := engine.FailureDiagnostic(&hook.Input{
					HookEventName: hook.EventPostToolUseFailure,
					ToolName:      hook.Ptr(tool),
					Error:         hook.Ptr("exit status 1"),
				})
				Expect(msg).To(ContainSubstring(hint))
			},
			Entry("bash", "Bash", "wrong directory"),
			Entry("edit", "Edit", "old_string matches exactly"),
			Entry("mcp", "mcp__db__query", "MCP server is running"),
		)
	})
})
