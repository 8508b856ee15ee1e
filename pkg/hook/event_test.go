package hook_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/metaygn/aletheia-hooks/pkg/hook"
)

var _ = Describe("Event", func() {
	DescribeTable("ParseEvent",
		func(name string, expected hook.Event) {
			event, err := hook.ParseEvent(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(event).To(Equal(expected))
		},
		Entry("canonical", "PreToolUse", hook.EventPreToolUse),
		Entry("kebab", "pre-tool-use", hook.EventPreToolUse),
		Entry("failure kebab", "post-tool-use-failure", hook.EventPostToolUseFailure),
		Entry("surrounding spaces", " Stop ", hook.EventStop),
	)

	It("rejects unknown names", func() {
		_, err := hook.ParseEvent("PreToolUsed")
		Expect(err).To(MatchError(hook.ErrUnknownEvent))
	})

	It("is case sensitive on canonical names", func() {
		_, err := hook.ParseEvent("pretooluse")
		Expect(err).To(HaveOccurred())
	})

	It("knows exactly eight events", func() {
		Expect(hook.Events).To(HaveLen(8))

		for _, e := range hook.Events {
			Expect(e.Valid()).To(BeTrue())
		}

		Expect(hook.Event("Notification").Valid()).To(BeFalse())
	})
})

var _ = Describe("PermissionDecision", func() {
	It("validates only the three verdicts", func() {
		Expect(hook.DecisionAsk.Valid()).To(BeTrue())
		Expect(hook.PermissionDecision("block").Valid()).To(BeFalse())
	})
})
