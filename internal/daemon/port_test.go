package daemon_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/metaygn/aletheia-hooks/internal/daemon"
	"github.com/metaygn/aletheia-hooks/pkg/hook"
)

var _ = DescribeTable("ParsePort",
	func(text string, want int) {
		port, err := daemon.ParsePort(text)
		if want == 0 {
			Expect(err).To(MatchError(daemon.ErrNoEndpoint))

			return
		}

		Expect(err).NotTo(HaveOccurred())
		Expect(port).To(Equal(want))
	},
	Entry("plain", "8765", 8765),
	Entry("trailing newline", "8765\n", 8765),
	Entry("padded", "  443 ", 443),
	Entry("empty", "", 0),
	Entry("zero", "0", 0),
	Entry("too large", "65536", 0),
	Entry("signed", "+80", 0),
	Entry("negative", "-1", 0),
	Entry("garbage", "port=80", 0),
)

var _ = Describe("RouteFor", func() {
	It("maps daemon-backed events", func() {
		route, ok := daemon.RouteFor(hook.EventPostToolUseFailure)
		Expect(ok).To(BeTrue())
		Expect(route).To(Equal(daemon.RoutePostToolUseFailure))
	})

	It("has no route for PreCompact or SessionStart", func() {
		_, ok := daemon.RouteFor(hook.EventPreCompact)
		Expect(ok).To(BeFalse())

		_, ok = daemon.RouteFor(hook.EventSessionStart)
		Expect(ok).To(BeFalse())
	})
})
