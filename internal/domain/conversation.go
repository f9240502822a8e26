package domain

// Message is a single chat entry. Everything but Feedback is fixed once created.
type Message struct {
	ID          MessageID
	Content     string
	Author      AuthorKind
	CreatedAt   Timestamp
	Attachments []string // displayable resource references, relayed as-is
	Feedback    Feedback
}

// Conversation is a named, ordered sequence of messages.
type Conversation struct {
	ID       ConversationID
	Name     string
	Messages []*Message
}

// Session is the whole in-memory chat state: every conversation plus which one is visible.
type Session struct {
	ActiveConversationID ConversationID
	Conversations        []*Conversation
	ActiveView           View
	Loading              bool
}

// Clone returns a deep copy so readers never share slices with the store.
func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}
	cp := *m
	if m.Attachments != nil {
		cp.Attachments = make([]string, len(m.Attachments))
		copy(cp.Attachments, m.Attachments)
	}
	return &cp
}

func (c *Conversation) Clone() *Conversation {
	if c == nil {
		return nil
	}
	cp := &Conversation{
		ID:       c.ID,
		Name:     c.Name,
		Messages: make([]*Message, 0, len(c.Messages)),
	}
	for _, m := range c.Messages {
		cp.Messages = append(cp.Messages, m.Clone())
	}
	return cp
}

// NewDefaultConversation builds the empty conversation used at startup and
// after the last one is deleted.
func NewDefaultConversation() *Conversation {
	return &Conversation{
		ID:       DefaultConversationID,
		Name:     DefaultConversationName,
		Messages: []*Message{},
	}
}
