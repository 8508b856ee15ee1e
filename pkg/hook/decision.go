package hook

// PermissionDecision is the verdict returned for a tool invocation.
type PermissionDecision string

const (
	// DecisionAllow lets the tool run without confirmation.
	DecisionAllow PermissionDecision = "allow"

	// DecisionAsk requires the user to confirm the tool call.
	DecisionAsk PermissionDecision = "ask"

	// DecisionDeny blocks the tool call.
	DecisionDeny PermissionDecision = "deny"
)

// Valid reports whether d is one of allow, ask or deny.
func (d PermissionDecision) Valid() bool {
	switch d {
	case DecisionAllow, DecisionAsk, DecisionDeny:
		return true
	default:
		return false
	}
}
