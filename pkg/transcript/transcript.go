package transcript

import (
	"slices"
	"strings"
)

// DefaultLimit is the number of messages kept after trimming.
const DefaultLimit = 10

// Role identifies who authored a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single role-tagged entry of a conversation.
type Message struct {
	Role    Role
	Content string
}

// Persona builds the system message used to seed a transcript.
func Persona(text string) Message {
	return Message{Role: RoleSystem, Content: strings.TrimSpace(text)}
}

// System builds a system message.
func System(text string) Message {
	return Message{Role: RoleSystem, Content: text}
}

// User builds a user message.
func User(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// Assistant builds an assistant message.
func Assistant(text string) Message {
	return Message{Role: RoleAssistant, Content: text}
}

// Transcript is the ordered, size-capped history of one conversation.
// It is not safe for concurrent use; the owning session serialises access.
type Transcript struct {
	persona  Message
	limit    int
	pin      bool
	messages []Message
}

// New creates a transcript seeded with persona. A limit <= 0 uses DefaultLimit.
// When pin is set, Trim always keeps the persona as the first message.
func New(persona Message, limit int, pin bool) *Transcript {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if pin && limit < 2 {
		limit = 2
	}
	t := &Transcript{persona: persona, limit: limit, pin: pin}
	t.Reset()
	return t
}

// Append adds msg at the end of the transcript.
func (t *Transcript) Append(msg Message) {
	t.messages = append(t.messages, msg)
}

// Messages returns a copy of the current messages in order.
func (t *Transcript) Messages() []Message {
	return slices.Clone(t.messages)
}

// Len returns the number of messages currently held.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// Limit returns the configured cap.
func (t *Transcript) Limit() int {
	return t.limit
}

// Persona returns the message used to seed the transcript.
func (t *Transcript) Persona() Message {
	return t.persona
}

// Last returns the most recent message, if any.
func (t *Transcript) Last() (Message, bool) {
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1], true
}

// Trim drops the oldest messages once the transcript exceeds its limit.
// Without pinning the persona is evicted like any other message.
func (t *Transcript) Trim() {
	if len(t.messages) <= t.limit {
		return
	}
	if !t.pin {
		t.messages = slices.Clone(t.messages[len(t.messages)-t.limit:])
		return
	}
	rest := t.messages
	if len(rest) > 0 && rest[0] == t.persona {
		rest = rest[1:]
	}
	keep := t.limit - 1
	if len(rest) > keep {
		rest = rest[len(rest)-keep:]
	}
	trimmed := make([]Message, 0, t.limit)
	trimmed = append(trimmed, t.persona)
	t.messages = append(trimmed, rest...)
}

// Reset replaces the history with a fresh single-persona transcript.
func (t *Transcript) Reset() {
	t.messages = []Message{t.persona}
}
