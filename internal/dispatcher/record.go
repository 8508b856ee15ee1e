package dispatcher

import (
	"time"

	"github.com/metaygn/aletheia-hooks/internal/journal"
	"github.com/metaygn/aletheia-hooks/pkg/hook"
)

func (d *Dispatcher) record(event hook.Event, in *hook.Input, res result, elapsed time.Duration) {
	entry := &journal.Entry{
		Event:     event,
		Decision:  res.out.Decision(),
		Source:    res.source,
		ElapsedMS: elapsed.Milliseconds(),
	}

	if res.out != nil && res.out.HookSpecificOutput != nil {
		entry.Reason = res.out.HookSpecificOutput.PermissionDecisionReason
	}

	if res.daemonErr != nil {
		entry.DaemonErr = res.daemonErr.Error()
	}

	if in != nil {
		entry.SessionID = hook.Value(in.SessionID)
		entry.Tool = in.Tool()
	}

	d.logger.Info("event handled",
		"event", event,
		"source", res.source,
		"decision", entry.Decision,
		"elapsed", elapsed,
	)

	if err := d.journal.Record(entry); err != nil {
		d.logger.Error("failed to journal event", "error", err.Error())
	}
}

func (d *Dispatcher) recordPanic(recovered any, event hook.Event, in *hook.Input) {
	d.logger.Error("recovered panic", "event", event, "panic", recovered)

	if d.crashes == nil || d.collector == nil {
		return
	}

	// panics from the crash writer are swallowed
	defer func() { _ = recover() }()

	path, err := d.crashes.Write(d.collector.Collect(recovered, event, in))
	if err != nil {
		d.logger.Error("failed to write crash dump", "error", err.Error())

		return
	}

	d.logger.Info("crash dump written", "path", path)
}
