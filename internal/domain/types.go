package domain

import (
	"strings"
	"time"
)

type ConversationID string
type MessageID string
type NoteID string

// DefaultConversationID and DefaultConversationName identify the conversation
// that exists when nothing else does.
const (
	DefaultConversationID   ConversationID = "default"
	DefaultConversationName                = "New Chat"
)

type AuthorKind string

const (
	AuthorUser      AuthorKind = "user"
	AuthorAssistant AuthorKind = "assistant"
)

// Feedback is the per-message signal left on assistant replies.
type Feedback string

const (
	FeedbackNone     Feedback = "none"
	FeedbackPositive Feedback = "positive"
	FeedbackNegative Feedback = "negative"
)

// ParseFeedback accepts the canonical values plus the thumbs spelling ("up", "down").
func ParseFeedback(s string) (Feedback, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive", "up":
		return FeedbackPositive, nil
	case "negative", "down":
		return FeedbackNegative, nil
	case "none", "":
		return FeedbackNone, nil
	default:
		return "", ErrInvalidFeedback
	}
}

type Timestamp = time.Time
