package scheduler

import "time"

// Priority is the urgency class of a task. It only determines the task's
// expiration window; ordering is always by expiration time.
type Priority int

const (
	NoPriority Priority = iota
	ImmediatePriority
	UserBlockingPriority
	NormalPriority
	LowPriority
	IdlePriority
)

// idle tasks use the largest 31-bit millisecond count, which never expires in practice
const maxSigned31BitInt = 1073741823

const (
	immediatePriorityTimeout    = -1 * time.Millisecond
	userBlockingPriorityTimeout = 250 * time.Millisecond
	normalPriorityTimeout       = 5000 * time.Millisecond
	lowPriorityTimeout          = 10000 * time.Millisecond
	idlePriorityTimeout         = maxSigned31BitInt * time.Millisecond
)

// Timeout returns how long a task of this priority may wait before it is
// considered expired.
func (p Priority) Timeout() time.Duration {
	switch p {
	case ImmediatePriority:
		return immediatePriorityTimeout
	case UserBlockingPriority:
		return userBlockingPriorityTimeout
	case IdlePriority:
		return idlePriorityTimeout
	case LowPriority:
		return lowPriorityTimeout
	default:
		return normalPriorityTimeout
	}
}

func (p Priority) String() string {
	switch p {
	case NoPriority:
		return "none"
	case ImmediatePriority:
		return "immediate"
	case UserBlockingPriority:
		return "user-blocking"
	case NormalPriority:
		return "normal"
	case LowPriority:
		return "low"
	case IdlePriority:
		return "idle"
	}
	return "unknown"
}
