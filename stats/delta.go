package stats

// MessageOrigin identifies who produced a chat message.
type MessageOrigin string

const (
	// OriginNone marks an event that is not a message (e.g. chat lifecycle).
	OriginNone MessageOrigin = ""
	// OriginBot is an assistant-generated reply.
	OriginBot MessageOrigin = "bot"
	// OriginOperator is a human operator answering on the business side.
	OriginOperator MessageOrigin = "operator"
	// OriginUser is the end user typing into the widget.
	OriginUser MessageOrigin = "user"
)

// EventDelta is a sparse set of increments produced by one chat event.
// Absent fields (zero values, nil pointers) contribute nothing; the request
// counter always increments by one per recorded event. Pointer fields make
// "not supplied" explicit instead of relying on zero values, since a genuine
// zero response time is meaningful.
type EventDelta struct {
	Tokens        int64
	Origin        MessageOrigin
	ResponseTime  *int64 // milliseconds
	ChatStarted   bool
	ChatCompleted bool
	ChatDuration  *int64 // seconds, set when a chat completes
}

// Int64 returns a pointer to v, for building deltas with optional fields.
func Int64(v int64) *int64 {
	return &v
}

// messageCounts expands the origin into the per-originator increments.
func (d EventDelta) messageCounts() (sent, bot, operator, user int64) {
	switch d.Origin {
	case OriginBot:
		return 1, 1, 0, 0
	case OriginOperator:
		return 1, 0, 1, 0
	case OriginUser:
		return 1, 0, 0, 1
	default:
		return 0, 0, 0, 0
	}
}

func (d EventDelta) chatStartedCount() int64 {
	if d.ChatStarted {
		return 1
	}
	return 0
}

func (d EventDelta) responseTime() (total, count int64) {
	if d.ResponseTime == nil {
		return 0, 0
	}
	return *d.ResponseTime, 1
}

func (d EventDelta) chatCompletion() (completed, duration int64) {
	if d.ChatCompleted {
		completed = 1
	}
	if d.ChatDuration != nil {
		duration = *d.ChatDuration
	}
	return completed, duration
}
