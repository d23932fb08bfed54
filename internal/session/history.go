package session

// Role of a conversation message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one entry in a conversation
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// History is the ordered record of a conversation. It only grows.
type History struct {
	messages []Message
}

// Append adds a message to the end
func (h *History) Append(m Message) {
	h.messages = append(h.messages, m)
}

// Messages returns a copy of the history in order
func (h *History) Messages() []Message {
	return append([]Message(nil), h.messages...)
}

// Len returns the number of messages
func (h *History) Len() int {
	return len(h.messages)
}

// Last returns the most recent message
func (h *History) Last() (Message, bool) {
	if len(h.messages) == 0 {
		return Message{}, false
	}
	return h.messages[len(h.messages)-1], true
}
