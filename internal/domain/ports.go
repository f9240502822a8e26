package domain

import "context"

// CompletionClient defines how the core application talks to a remote text-completion service.
type CompletionClient interface {
	Complete(ctx context.Context, utterance string, convCtx ConversationContext) (string, error)
}

// ConversationContext gives the completion service minimal context about the conversation.
type ConversationContext struct {
	ConversationID ConversationID
	History        []*Message // last N messages, oldest first
}

// SessionStore is the single source of truth for conversation state.
type SessionStore interface {
	AppendMessage(content string, author AuthorKind, attachments []string) *Message
	AppendMessageTo(id ConversationID, content string, author AuthorKind, attachments []string) (*Message, error)
	SetLoading(flag bool)
	BeginLoading() bool
	Loading() bool
	CreateConversation() *Conversation
	DeleteConversation(id ConversationID)
	ReorderConversations(fromIndex, toIndex int) error
	SwitchActiveConversation(id ConversationID) error
	SetMessageFeedback(id MessageID, feedback Feedback) error
	SetActiveView(view View) error
	ActiveView() View
	ActiveConversation() *Conversation
	Snapshot() *Session
}

// NoteStore keeps the user's notes in insertion order.
type NoteStore interface {
	AddNote(content string) *Note
	DeleteNote(id NoteID)
	ListNotes() []*Note
}
