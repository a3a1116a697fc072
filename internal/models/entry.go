package models

import "time"

type Role int

const (
	RoleUser Role = iota
	RoleAssistant
	RoleSystemError
)

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAssistant:
		return "assistant"
	case RoleSystemError:
		return "system-error"
	default:
		return "unknown"
	}
}

// Entry is one line of the transcript. Entries are immutable once appended.
type Entry struct {
	Role      Role
	Content   string    // Raw content, may contain markdown
	Timestamp time.Time // Captured when the entry was created
}

// ConversationState names the two states of the conversation state machine.
type ConversationState int

const (
	Idle ConversationState = iota
	AwaitingResponse
)

func (s ConversationState) String() string {
	if s == AwaitingResponse {
		return "awaiting-response"
	}
	return "idle"
}

// Snapshot is an immutable copy of the conversation state handed to the UI
type Snapshot struct {
	Transcript    []Entry
	DraftInput    string
	DraftRevision uint64 // Bumped only when the store rewrites DraftInput
	Pending       bool
}

func (s Snapshot) State() ConversationState {
	if s.Pending {
		return AwaitingResponse
	}
	return Idle
}

// Last returns the newest entry, if any.
func (s Snapshot) Last() (Entry, bool) {
	if len(s.Transcript) == 0 {
		return Entry{}, false
	}
	return s.Transcript[len(s.Transcript)-1], true
}
