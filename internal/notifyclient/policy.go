package notifyclient

type Operation string

const (
	OpFetch       Operation = "fetch"
	OpCreate      Operation = "create"
	OpMarkRead    Operation = "markRead"
	OpMarkAllRead Operation = "markAllRead"
	OpDelete      Operation = "delete"
)

type Policy int

const (
	// FailSoft absorbs the error and hands back a safe default.
	FailSoft Policy = iota
	// FailLoud returns the error to the immediate caller.
	FailLoud
)

func (p Policy) String() string {
	if p == FailSoft {
		return "fail-soft"
	}
	return "fail-loud"
}

// Policies is the on-error behaviour of every client operation. Reads
// never break a dashboard widget; writes drive optimistic state and must
// report failure.
var Policies = map[Operation]Policy{
	OpFetch:       FailSoft,
	OpCreate:      FailLoud,
	OpMarkRead:    FailLoud,
	OpMarkAllRead: FailLoud,
	OpDelete:      FailLoud,
}

// PolicyFor defaults unknown operations to FailLoud.
func PolicyFor(op Operation) Policy {
	if p, ok := Policies[op]; ok {
		return p
	}
	return FailLoud
}
