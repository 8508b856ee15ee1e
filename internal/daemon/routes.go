package daemon

import "github.com/metaygn/aletheia-hooks/pkg/hook"

// Route is a daemon HTTP path.
type Route string

const (
	RoutePreToolUse         Route = "/hooks/pre-tool-use"
	RoutePostToolUse        Route = "/hooks/post-tool-use"
	RoutePostToolUseFailure Route = "/hooks/post-tool-use-failure"
	RouteUserPromptSubmit   Route = "/hooks/user-prompt-submit"
	RouteStop               Route = "/hooks/stop"
	RouteSessionEnd         Route = "/hooks/session-end"
	RouteHealth             Route = "/health"
)

var eventRoutes = map[hook.Event]Route{
	hook.EventPreToolUse:         RoutePreToolUse,
	hook.EventPostToolUse:        RoutePostToolUse,
	hook.EventPostToolUseFailure: RoutePostToolUseFailure,
	hook.EventUserPromptSubmit:   RouteUserPromptSubmit,
	hook.EventStop:               RouteStop,
	hook.EventSessionEnd:         RouteSessionEnd,
}

// RouteFor returns the route for event. SessionStart and PreCompact have none.
func RouteFor(event hook.Event) (Route, bool) {
	r, ok := eventRoutes[event]

	return r, ok
}
