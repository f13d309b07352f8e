package model

// Role identifies the speaker of a transcript turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleUnknown   Role = "unknown"
)

// Turn is a single utterance in a conversation transcript.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"content"`
}

// ConversationSession represents one completed avatar call. The ID is
// assigned by Tavus and is the only identity this system ever sees; the
// session itself is never persisted locally.
type ConversationSession struct {
	ID           string
	Transcript   string // canonical "<role>: <text>" lines
	RecordingURL string
}
