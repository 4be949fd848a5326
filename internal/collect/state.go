package collect

// State is the furthest point a run reached. States only move forward; the
// container step is skipped when it does not apply.
type State int

const (
	StateInit State = iota
	StateConnected
	StateConfigCollected
	StateLoggingPolicyResolved
	StateContainerPathResolved
	StateLicenseCollected
	StateDone
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateConnected:
		return "connected"
	case StateConfigCollected:
		return "config_collected"
	case StateLoggingPolicyResolved:
		return "logging_policy_resolved"
	case StateContainerPathResolved:
		return "container_path_resolved"
	case StateLicenseCollected:
		return "license_collected"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}
