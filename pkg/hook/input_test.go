package hook_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/metaygn/aletheia-hooks/pkg/hook"
)

var _ = Describe("DecodeInput", func() {
	It("decodes a PreToolUse event", func() {
		in, err := hook.DecodeInput([]byte(`{
			"hook_event_name": "PreToolUse",
			"session_id": "s-1",
			"tool_name": "Bash",
			"tool_input": {"command": "ls -la", "timeout": 30}
		}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(in.HookEventName).To(Equal(hook.EventPreToolUse))
		Expect(in.Tool()).To(Equal("Bash"))

		cmd, ok := in.Command()
		Expect(ok).To(BeTrue())
		Expect(cmd).To(Equal("ls -la"))
		Expect(in.Prompt).To(BeNil())
	})

	It("keeps an empty string distinct from an absent field", func() {
		in, err := hook.DecodeInput([]byte(`{"hook_event_name":"UserPromptSubmit","prompt":""}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(in.Prompt).NotTo(BeNil())
		Expect(*in.Prompt).To(BeEmpty())
		Expect(in.SessionID).To(BeNil())
	})

	It("ignores unknown fields", func() {
		_, err := hook.DecodeInput([]byte(`{"hook_event_name":"Stop","permission_mode":"plan"}`))
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects empty input", func() {
		_, err := hook.DecodeInput([]byte("  \n"))
		Expect(err).To(MatchError(hook.ErrEmptyInput))
	})

	It("rejects malformed JSON", func() {
		_, err := hook.DecodeInput([]byte(`{"hook_event_name":`))
		Expect(err).To(HaveOccurred())
	})

	It("flags syntax errors as invalid JSON", func() {
		_, err := hook.DecodeInput([]byte(`{not json}`))
		Expect(err).To(MatchError(hook.ErrInvalidJSON))
	})

	DescribeTable("rejects schema violations",
		func(payload string) {
			_, err := hook.DecodeInput([]byte(payload))
			Expect(err).To(MatchError(hook.ErrInvalidInput))
		},
		Entry("missing event name", `{"session_id":"x"}`),
		Entry("unknown event name", `{"hook_event_name":"Notification"}`),
		Entry("non-string tool_name", `{"hook_event_name":"PreToolUse","tool_name":7}`),
		Entry("array tool_input", `{"hook_event_name":"PreToolUse","tool_input":["rm"]}`),
		Entry("non-object document", `["PreToolUse"]`),
	)

	It("accepts structured tool responses as compact text", func() {
		in, err := hook.DecodeInput([]byte(`{
			"hook_event_name": "PostToolUse",
			"tool_response": {"stdout": "ok", "exit_code": 0}
		}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(*in.ToolResponse)).To(Equal(`{"stdout":"ok","exit_code":0}`))
	})

	It("keeps string tool responses verbatim", func() {
		in, err := hook.DecodeInput([]byte(`{"hook_event_name":"PostToolUse","tool_response":"PASS\n"}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(*in.ToolResponse)).To(Equal("PASS\n"))
	})
})

var _ = Describe("Output", func() {
	It("omits empty fields when encoded", func() {
		out := &hook.Output{HookSpecificOutput: &hook.SpecificOutput{
			HookEventName:     hook.EventStop,
			AdditionalContext: "note",
		}}

		data, err := json.Marshal(out)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(`{"hookSpecificOutput":{"hookEventName":"Stop","additionalContext":"note"}}`))
	})

	It("requires hookSpecificOutput", func() {
		Expect((&hook.Output{SystemMessage: "hi"}).Validate()).To(MatchError(hook.ErrMalformedOutput))
	})

	It("rejects unrecognized decisions", func() {
		out := &hook.Output{HookSpecificOutput: &hook.SpecificOutput{PermissionDecision: "block"}}
		Expect(out.Validate()).To(MatchError(hook.ErrMalformedOutput))
	})

	It("accepts context-only output", func() {
		out := &hook.Output{HookSpecificOutput: &hook.SpecificOutput{AdditionalContext: "x"}}
		Expect(out.Validate()).To(Succeed())
		Expect(out.Decision()).To(BeEmpty())
	})
})
