package pending

import "time"

// Message is one published unit awaiting delivery to at least one user.
// The owed set is private so that it can only shrink after construction.
type Message struct {
	publishTime time.Time
	content     string
	owed        map[string]struct{}
}

// NewMessage creates a message owed to the given users. The owed set is
// copied into a fresh container so the caller's map is never aliased or
// shared between messages.
func NewMessage(publishTime time.Time, content string, owedUsers map[string]struct{}) *Message {
	owed := make(map[string]struct{}, len(owedUsers))
	for user := range owedUsers {
		owed[user] = struct{}{}
	}
	return &Message{
		publishTime: publishTime,
		content:     content,
		owed:        owed,
	}
}

// PublishTime returns when the message was published.
func (m *Message) PublishTime() time.Time { return m.publishTime }

// Content returns the opaque payload.
func (m *Message) Content() string { return m.content }

// IsOwedTo reports whether the user has not yet received this message.
func (m *Message) IsOwedTo(user string) bool {
	_, ok := m.owed[user]
	return ok
}

// OwedCount returns the number of users still owed this message.
func (m *Message) OwedCount() int { return len(m.owed) }

// removeOwed drops the user from the owed set. No-op if absent.
func (m *Message) removeOwed(user string) {
	delete(m.owed, user)
}
