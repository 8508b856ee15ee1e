// Package dispatcher composes the daemon and the local policy for each hook event.
package dispatcher

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/metaygn/aletheia-hooks/internal/crashdump"
	"github.com/metaygn/aletheia-hooks/internal/daemon"
	"github.com/metaygn/aletheia-hooks/internal/hookresponse"
	"github.com/metaygn/aletheia-hooks/internal/input"
	"github.com/metaygn/aletheia-hooks/internal/journal"
	"github.com/metaygn/aletheia-hooks/internal/policy"
	"github.com/metaygn/aletheia-hooks/internal/stack"
	"github.com/metaygn/aletheia-hooks/pkg/hook"
	"github.com/metaygn/aletheia-hooks/pkg/logger"
)

const (
	// ProfileActive is the SessionStart message when the daemon is offline.
	ProfileActive = "Aletheia profile active."

	// DaemonOnlinePrefix precedes the health payload on SessionStart.
	DaemonOnlinePrefix = "Aletheia daemon online: "

	// DefaultInputWait bounds the SessionStart stdin read. Hosts may leave
	// stdin open for events that carry no required input.
	DefaultInputWait = 250 * time.Millisecond
)

// CrashWriter persists crash dumps.
type CrashWriter interface {
	Write(info *crashdump.CrashInfo) (string, error)
}

// Dispatcher handles one hook event per call.
type Dispatcher struct {
	engine      *policy.Engine
	daemon      daemon.Consulter
	journal     journal.Recorder
	crashes     CrashWriter
	collector   *crashdump.Collector
	logger      logger.Logger
	detectStack bool
	inputWait   time.Duration
	getwd       func() (string, error)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithDaemon sets the daemon client. Without it every event uses the local policy.
func WithDaemon(c daemon.Consulter) Option {
	return func(d *Dispatcher) {
		d.daemon = c
	}
}

// WithJournal sets the event journal.
func WithJournal(r journal.Recorder) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.journal = r
		}
	}
}

// WithCrashDumps records a dump for every recovered panic.
func WithCrashDumps(w CrashWriter, version string) Option {
	return func(d *Dispatcher) {
		d.crashes = w
		d.collector = crashdump.NewCollector(version)
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(d *Dispatcher) {
		if log != nil {
			d.logger = log
		}
	}
}

// WithStackDetection toggles repo signals in the SessionStart fallback.
func WithStackDetection(enabled bool) Option {
	return func(d *Dispatcher) {
		d.detectStack = enabled
	}
}

// WithWorkDirFunc overrides how the process working directory is found.
func WithWorkDirFunc(fn func() (string, error)) Option {
	return func(d *Dispatcher) {
		if fn != nil {
			d.getwd = fn
		}
	}
}

// WithInputWait overrides DefaultInputWait.
func WithInputWait(wait time.Duration) Option {
	return func(d *Dispatcher) {
		if wait > 0 {
			d.inputWait = wait
		}
	}
}

// New creates a Dispatcher around engine.
func New(engine *policy.Engine, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		engine:      engine,
		journal:     journal.Nop{},
		logger:      logger.NewNoOpLogger(),
		detectStack: true,
		inputWait:   DefaultInputWait,
		getwd:       os.Getwd,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// result is what a handler produced and where it came from.
type result struct {
	out       *hook.Output
	source    journal.Source
	daemonErr error
}

// Dispatch handles event and returns the output to emit, or nil for none.
// It never panics: a recovered panic is logged, dumped and yields nil.
func (d *Dispatcher) Dispatch(ctx context.Context, event hook.Event, src input.Source) (out *hook.Output) {
	start := time.Now()

	var in *hook.Input

	defer func() {
		if r := recover(); r != nil {
			out = nil
			d.recordPanic(r, event, in)
		}
	}()

	in, inErr := d.readInput(event, src)

	switch {
	case inErr != nil:
		d.logger.Info("input not usable", "event", event, "error", inErr.Error())
	case in != nil && in.HookEventName != event:
		d.logger.Info("event name mismatch, using flag", "flag", event, "input", in.HookEventName)
	}

	res := d.handle(ctx, event, src, in, inErr)

	d.record(event, in, res, time.Since(start))

	return res.out
}

// readInput reads the event document. PreCompact reads nothing and
// SessionStart gives up after inputWait; both answer without input.
func (d *Dispatcher) readInput(event hook.Event, src input.Source) (*hook.Input, error) {
	switch event {
	case hook.EventPreCompact:
		return nil, nil //nolint:nilnil // no input is expected
	case hook.EventSessionStart:
		return input.Await(src, d.inputWait)
	default:
		return src.Input()
	}
}

func (d *Dispatcher) handle(
	ctx context.Context,
	event hook.Event,
	src input.Source,
	in *hook.Input,
	inErr error,
) result {
	switch event {
	case hook.EventSessionStart:
		return d.sessionStart(ctx, in)

	case hook.EventPreCompact:
		return fallback(d.engine.EvaluatePreCompact())

	case hook.EventPostToolUseFailure:
		if inErr != nil {
			return fallback(d.engine.EvaluateFailure(nil))
		}

		return d.consultOr(ctx, event, src, func() *hook.Output { return d.engine.EvaluateFailure(in) })

	case hook.EventSessionEnd:
		if inErr == nil {
			d.notify(event, src)
		}

		return result{source: journal.SourceNone}
	}

	if inErr != nil {
		return result{source: journal.SourceNone}
	}

	switch event {
	case hook.EventPreToolUse:
		return d.consultOr(ctx, event, src, func() *hook.Output { return d.engine.EvaluateToolUse(in) })
	case hook.EventPostToolUse:
		return d.consultOr(ctx, event, src, func() *hook.Output { return d.engine.EvaluatePostToolUse(in) })
	case hook.EventUserPromptSubmit:
		return d.consultOr(ctx, event, src, func() *hook.Output { return d.engine.EvaluatePrompt(in) })
	case hook.EventStop:
		return d.consultOr(ctx, event, src, func() *hook.Output { return d.engine.EvaluateStop(in) })
	default:
		return result{source: journal.SourceNone}
	}
}

// consultOr emits the daemon's answer verbatim when it has one, otherwise
// the local fallback.
func (d *Dispatcher) consultOr(
	ctx context.Context,
	event hook.Event,
	src input.Source,
	local func() *hook.Output,
) result {
	var daemonErr error

	if route, ok := daemon.RouteFor(event); ok && d.daemon != nil {
		payload, err := src.Raw()
		if err == nil {
			out, err := d.daemon.Consult(ctx, route, payload)
			if err == nil {
				return result{out: out, source: journal.SourceDaemon}
			}

			daemonErr = err
			d.logger.Debug("daemon has no opinion", "event", event, "error", err.Error())
		}
	}

	res := fallback(local())
	res.daemonErr = daemonErr

	return res
}

func (d *Dispatcher) sessionStart(ctx context.Context, in *hook.Input) result {
	var daemonErr error

	if d.daemon != nil {
		health, err := d.daemon.Health(ctx)
		if err == nil {
			return result{
				out:    hookresponse.Context(hook.EventSessionStart, DaemonOnlinePrefix+string(health)),
				source: journal.SourceDaemon,
			}
		}

		daemonErr = err
	}

	msg := ProfileActive

	if d.detectStack {
		if stacks := stack.Detect(d.workDir(in)); len(stacks) > 0 {
			msg = hookresponse.JoinSentences(msg, "Repo signals: "+strings.Join(stacks, ", ")+".")
		}
	}

	return result{
		out:       hookresponse.Context(hook.EventSessionStart, msg),
		source:    journal.SourceFallback,
		daemonErr: daemonErr,
	}
}

func (d *Dispatcher) notify(event hook.Event, src input.Source) {
	route, ok := daemon.RouteFor(event)
	if !ok || d.daemon == nil {
		return
	}

	payload, err := src.Raw()
	if err != nil {
		return
	}

	d.daemon.Notify(route, payload)
}

func (d *Dispatcher) workDir(in *hook.Input) string {
	if in != nil && in.CWD != nil && *in.CWD != "" {
		return *in.CWD
	}

	wd, err := d.getwd()
	if err != nil {
		return ""
	}

	return wd
}

func fallback(out *hook.Output) result {
	if out == nil {
		return result{source: journal.SourceNone}
	}

	return result{out: out, source: journal.SourceFallback}
}
