package config_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/metaygn/aletheia-hooks/pkg/config"
)

var _ = Describe("DaemonConfig", func() {
	It("falls back to defaults when nil", func() {
		var d *config.DaemonConfig

		Expect(d.IsEnabled()).To(BeTrue())
		Expect(d.GetHost()).To(Equal("127.0.0.1"))
		Expect(d.GetTimeout()).To(Equal(350 * time.Millisecond))
		Expect(d.GetNotifyGrace()).To(Equal(50 * time.Millisecond))
		Expect(d.GetPortFile()).To(BeEmpty())
	})

	It("returns configured values", func() {
		disabled := false
		d := &config.DaemonConfig{
			Enabled:  &disabled,
			Host:     "localhost",
			Timeout:  config.Duration(200 * time.Millisecond),
			PortFile: "/run/daemon.port",
		}

		Expect(d.IsEnabled()).To(BeFalse())
		Expect(d.GetHost()).To(Equal("localhost"))
		Expect(d.GetTimeout()).To(Equal(200 * time.Millisecond))
		Expect(d.GetPortFile()).To(Equal("/run/daemon.port"))
	})
})

var _ = Describe("PolicyConfig", func() {
	It("defaults the MCP prefix", func() {
		var p *config.PolicyConfig
		Expect(p.GetMCPPrefix()).To(Equal("mcp__"))
	})

	It("enables the sensitive path gate by default", func() {
		p := &config.PolicyConfig{}
		Expect(p.GetSensitivePaths().IsEnabled()).To(BeTrue())
		Expect(p.SensitivePaths).NotTo(BeNil())
	})
})

var _ = Describe("Config getters", func() {
	It("create missing sections", func() {
		cfg := &config.Config{}
		cfg.GetJournal().File = "/tmp/j.jsonl"

		Expect(cfg.Journal.GetFile()).To(Equal("/tmp/j.jsonl"))
		Expect(cfg.GetJournal().IsEnabled()).To(BeTrue())
		Expect(cfg.GetSessionStart().IsDetectStackEnabled()).To(BeTrue())
		Expect(cfg.GetLog().GetFile()).To(BeEmpty())
	})
})

var _ = Describe("Duration", func() {
	DescribeTable("UnmarshalText",
		func(text string, expected time.Duration, ok bool) {
			var d config.Duration

			err := d.UnmarshalText([]byte(text))
			if !ok {
				Expect(err).To(HaveOccurred())

				return
			}

			Expect(err).NotTo(HaveOccurred())
			Expect(d.ToDuration()).To(Equal(expected))
		},
		Entry("milliseconds", "350ms", 350*time.Millisecond, true),
		Entry("seconds", "1s", time.Second, true),
		Entry("negative", "-1s", time.Duration(0), false),
		Entry("garbage", "soon", time.Duration(0), false),
	)

	It("marshals back to a Go duration string", func() {
		text, err := config.Duration(50 * time.Millisecond).MarshalText()
		Expect(err).NotTo(HaveOccurred())
		Expect(string(text)).To(Equal("50ms"))
	})

	It("rejects negative durations with a sentinel", func() {
		var d config.Duration
		Expect(d.UnmarshalText([]byte("-5ms"))).To(MatchError(config.ErrNegativeDuration))
	})
})
