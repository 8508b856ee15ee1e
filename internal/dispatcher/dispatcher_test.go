package dispatcher_test

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/metaygn/aletheia-hooks/internal/crashdump"
	"github.com/metaygn/aletheia-hooks/internal/daemon"
	"github.com/metaygn/aletheia-hooks/internal/dispatcher"
	"github.com/metaygn/aletheia-hooks/internal/input"
	"github.com/metaygn/aletheia-hooks/internal/journal"
	"github.com/metaygn/aletheia-hooks/internal/policy"
	"github.com/metaygn/aletheia-hooks/pkg/hook"
)

type recorder struct {
	entries []*journal.Entry
}

func (r *recorder) Record(e *journal.Entry) error {
	r.entries = append(r.entries, e)

	return nil
}

type panickingSource struct{}

func (panickingSource) Raw() ([]byte, error)        { panic("raw exploded") }
func (panickingSource) Input() (*hook.Input, error) { panic("input exploded") }

type crashSink struct {
	dumps []*crashdump.CrashInfo
}

func (c *crashSink) Write(info *crashdump.CrashInfo) (string, error) {
	c.dumps = append(c.dumps, info)

	return "/tmp/" + info.ID + ".json", nil
}

// openStdin is a source whose writer is never closed, like a host that
// leaves stdin open.
func openStdin() input.Source {
	pr, pw := io.Pipe()
	DeferCleanup(func() { _ = pw.Close() })

	return input.FromReader(pr)
}

func src(doc string) input.Source {
	return input.FromBytes([]byte(doc))
}

var daemonDeny = &hook.Output{
	HookSpecificOutput: &hook.SpecificOutput{
		HookEventName:            hook.EventPreToolUse,
		PermissionDecision:       hook.DecisionDeny,
		PermissionDecisionReason: "daemon says no",
	},
}

var _ = Describe("Dispatcher", func() {
	var (
		ctrl   *gomock.Controller
		mock   *daemon.MockConsulter
		rec    *recorder
		engine *policy.Engine
		ctx    context.Context
	)

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		mock = daemon.NewMockConsulter(ctrl)
		rec = &recorder{}
		engine = policy.New()
		ctx = context.Background()
	})

	newDispatcher := func(opts ...dispatcher.Option) *dispatcher.Dispatcher {
		base := []dispatcher.Option{
			dispatcher.WithDaemon(mock),
			dispatcher.WithJournal(rec),
			dispatcher.WithStackDetection(false),
		}

		return dispatcher.New(engine, append(base, opts...)...)
	}

	Describe("PreToolUse", func() {
		const doc = `{"hook_event_name":"PreToolUse","session_id":"s1","tool_name":"Bash","tool_input":{"command":"sudo rm -rf /"}}`

		It("emits the daemon decision verbatim", func() {
			mock.EXPECT().
				Consult(gomock.Any(), daemon.RoutePreToolUse, []byte(doc)).
				Return(daemonDeny, nil)

			out := newDispatcher().Dispatch(ctx, hook.EventPreToolUse, src(doc))
			Expect(out).To(BeIdenticalTo(daemonDeny))

			Expect(rec.entries).To(HaveLen(1))
			Expect(rec.entries[0].Source).To(Equal(journal.SourceDaemon))
			Expect(rec.entries[0].SessionID).To(Equal("s1"))
			Expect(rec.entries[0].Tool).To(Equal("Bash"))
		})

		DescribeTable("falls back to the local policy on any daemon error",
			func(daemonErr error) {
				mock.EXPECT().Consult(gomock.Any(), daemon.RoutePreToolUse, gomock.Any()).Return(nil, daemonErr)

				out := newDispatcher().Dispatch(ctx, hook.EventPreToolUse, src(doc))
				Expect(out.Decision()).To(Equal(hook.DecisionDeny))
				Expect(out.HookSpecificOutput.PermissionDecisionReason).To(HavePrefix("Blocked destructive pattern: "))

				Expect(rec.entries[0].Source).To(Equal(journal.SourceFallback))
				Expect(rec.entries[0].DaemonErr).NotTo(BeEmpty())
			},
			Entry("no endpoint", daemon.ErrNoEndpoint),
			Entry("unreachable", daemon.ErrUnreachable),
			Entry("timeout", daemon.ErrTimeout),
			Entry("bad status", daemon.ErrBadStatus),
			Entry("malformed", errors.Wrap(daemon.ErrMalformed, "missing hookSpecificOutput")),
		)

		It("is silent when nobody has an opinion", func() {
			mock.EXPECT().Consult(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, daemon.ErrNoEndpoint)

			out := newDispatcher().Dispatch(ctx, hook.EventPreToolUse,
				src(`{"hook_event_name":"PreToolUse","tool_name":"Bash","tool_input":{"command":"ls -la"}}`))
			Expect(out).To(BeNil())
			Expect(rec.entries[0].Source).To(Equal(journal.SourceNone))
		})

		It("is silent on invalid input without consulting the daemon", func() {
			out := newDispatcher().Dispatch(ctx, hook.EventPreToolUse, src(`{not json`))
			Expect(out).To(BeNil())
		})

		It("uses only the local policy when the daemon is disabled", func() {
			d := dispatcher.New(engine, dispatcher.WithJournal(rec))

			out := d.Dispatch(ctx, hook.EventPreToolUse, src(doc))
			Expect(out.Decision()).To(Equal(hook.DecisionDeny))
		})
	})

	Describe("PostToolUseFailure", func() {
		It("emits the generic hint for unreadable input", func() {
			out := newDispatcher().Dispatch(ctx, hook.EventPostToolUseFailure, src(`garbage`))
			Expect(out).NotTo(BeNil())
			Expect(out.Context()).To(Equal(policy.GenericFailureHint))
		})

		It("emits the generic hint for empty input", func() {
			out := newDispatcher().Dispatch(ctx, hook.EventPostToolUseFailure, src(``))
			Expect(out.Context()).To(Equal(policy.GenericFailureHint))
		})

		It("diagnoses the failure when the daemon is unreachable", func() {
			mock.EXPECT().
				Consult(gomock.Any(), daemon.RoutePostToolUseFailure, gomock.Any()).
				Return(nil, daemon.ErrUnreachable)

			doc := `{"hook_event_name":"PostToolUseFailure","tool_name":"Bash","error":"` + strings.Repeat("e", 200) + `"}`
			out := newDispatcher().Dispatch(ctx, hook.EventPostToolUseFailure, src(doc))

			Expect(out.Context()).To(HavePrefix(`Tool "Bash" failed (` + strings.Repeat("e", 120) + `)`))
		})
	})

	Describe("advisory events", func() {
		It("classifies prompts locally", func() {
			mock.EXPECT().Consult(gomock.Any(), daemon.RouteUserPromptSubmit, gomock.Any()).Return(nil, daemon.ErrTimeout)

			out := newDispatcher().Dispatch(ctx, hook.EventUserPromptSubmit,
				src(`{"hook_event_name":"UserPromptSubmit","prompt":"deploy to production"}`))
			Expect(out.Context()).To(ContainSubstring("risk=high"))
		})

		It("notes verification commands after tool use", func() {
			mock.EXPECT().Consult(gomock.Any(), daemon.RoutePostToolUse, gomock.Any()).Return(nil, daemon.ErrTimeout)

			out := newDispatcher().Dispatch(ctx, hook.EventPostToolUse,
				src(`{"hook_event_name":"PostToolUse","tool_name":"Bash","tool_input":{"command":"go test ./..."},"tool_response":{"exit":0}}`))
			Expect(out.Context()).To(Equal(policy.VerificationNote))
		})

		It("reminds on stop", func() {
			mock.EXPECT().Consult(gomock.Any(), daemon.RouteStop, gomock.Any()).Return(nil, daemon.ErrNoEndpoint)

			out := newDispatcher().Dispatch(ctx, hook.EventStop, src(`{"hook_event_name":"Stop"}`))
			Expect(out.Context()).To(Equal(policy.StopReminder))
		})

		It("never consults the daemon before compaction", func() {
			out := newDispatcher().Dispatch(ctx, hook.EventPreCompact, src(``))
			Expect(out.Context()).To(Equal(policy.CompactOutline))
		})
	})

	Describe("SessionStart", func() {
		It("embeds the health payload", func() {
			mock.EXPECT().Health(gomock.Any()).Return(json.RawMessage(`{"status":"ok"}`), nil)

			out := newDispatcher().Dispatch(ctx, hook.EventSessionStart, src(``))
			Expect(out.Context()).To(Equal(`Aletheia daemon online: {"status":"ok"}`))
		})

		It("falls back to the profile message", func() {
			mock.EXPECT().Health(gomock.Any()).Return(nil, daemon.ErrNoEndpoint)

			out := newDispatcher().Dispatch(ctx, hook.EventSessionStart, src(``))
			Expect(out.Context()).To(Equal(dispatcher.ProfileActive))
		})

		It("adds repo signals from the input cwd", func() {
			dir := GinkgoT().TempDir()
			Expect(os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module x\n"), 0o600)).To(Succeed())

			mock.EXPECT().Health(gomock.Any()).Return(nil, daemon.ErrUnreachable)

			doc, err := json.Marshal(map[string]string{"hook_event_name": "SessionStart", "cwd": dir})
			Expect(err).NotTo(HaveOccurred())

			out := newDispatcher(dispatcher.WithStackDetection(true)).
				Dispatch(ctx, hook.EventSessionStart, input.FromBytes(doc))
			Expect(out.Context()).To(Equal("Aletheia profile active. Repo signals: go."))
		})
	})

	Describe("stdin left open", func() {
		It("emits the compaction outline without reading", func() {
			stdin := openStdin()
			done := make(chan *hook.Output, 1)

			go func() {
				defer GinkgoRecover()
				done <- newDispatcher().Dispatch(ctx, hook.EventPreCompact, stdin)
			}()

			var out *hook.Output
			Eventually(done).WithTimeout(time.Second).Should(Receive(&out))
			Expect(out.Context()).To(Equal(policy.CompactOutline))
		})

		It("answers SessionStart from the process cwd after the wait", func() {
			dir := GinkgoT().TempDir()
			Expect(os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module x\n"), 0o600)).To(Succeed())

			mock.EXPECT().Health(gomock.Any()).Return(nil, daemon.ErrNoEndpoint)

			d := newDispatcher(
				dispatcher.WithStackDetection(true),
				dispatcher.WithInputWait(20*time.Millisecond),
				dispatcher.WithWorkDirFunc(func() (string, error) { return dir, nil }),
			)

			stdin := openStdin()
			done := make(chan *hook.Output, 1)

			go func() {
				defer GinkgoRecover()
				done <- d.Dispatch(ctx, hook.EventSessionStart, stdin)
			}()

			var out *hook.Output
			Eventually(done).WithTimeout(time.Second).Should(Receive(&out))
			Expect(out.Context()).To(Equal("Aletheia profile active. Repo signals: go."))
			Expect(rec.entries).To(HaveLen(1))
			Expect(rec.entries[0].Source).To(Equal(journal.SourceFallback))
		})
	})

	Describe("SessionEnd", func() {
		It("notifies and emits nothing", func() {
			doc := `{"hook_event_name":"SessionEnd","reason":"exit"}`
			mock.EXPECT().Notify(daemon.RouteSessionEnd, []byte(doc))

			Expect(newDispatcher().Dispatch(ctx, hook.EventSessionEnd, src(doc))).To(BeNil())
		})

		It("skips the notification for invalid input", func() {
			Expect(newDispatcher().Dispatch(ctx, hook.EventSessionEnd, src(`[]`))).To(BeNil())
		})
	})

	Describe("guarded scope", func() {
		It("converts a panic into no output and a crash dump", func() {
			sink := &crashSink{}
			d := newDispatcher(dispatcher.WithCrashDumps(sink, "test"))

			var out *hook.Output
			Expect(func() {
				out = d.Dispatch(ctx, hook.EventPreToolUse, panickingSource{})
			}).NotTo(Panic())

			Expect(out).To(BeNil())
			Expect(sink.dumps).To(HaveLen(1))
			Expect(sink.dumps[0].PanicValue).To(Equal("input exploded"))
			Expect(sink.dumps[0].Context.Event).To(Equal("PreToolUse"))
		})
	})
})
