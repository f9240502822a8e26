package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/fluid101/internal/domain"
)

// SessionStore is the in-memory conversation state. It is NOT persistent:
// everything is lost when the process exits.
type SessionStore struct {
	mu      sync.RWMutex
	session domain.Session
	now     func() time.Time
	newID   func() string
}

// NewSessionStore starts with the default empty conversation, active, on the chat view.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		session: domain.Session{
			ActiveConversationID: domain.DefaultConversationID,
			Conversations:        []*domain.Conversation{domain.NewDefaultConversation()},
			ActiveView:           domain.ViewChat,
		},
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// WithClock replaces the time source; used by tests.
func (s *SessionStore) WithClock(now func() time.Time) *SessionStore {
	s.now = now
	return s
}

func (s *SessionStore) AppendMessage(content string, author domain.AuthorKind, attachments []string) *domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	// the active conversation always exists
	conv := s.find(s.session.ActiveConversationID)
	return s.appendTo(conv, content, author, attachments)
}

func (s *SessionStore) AppendMessageTo(
	id domain.ConversationID,
	content string,
	author domain.AuthorKind,
	attachments []string,
) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.find(id)
	if conv == nil {
		return nil, domain.ErrConversationNotFound
	}
	return s.appendTo(conv, content, author, attachments), nil
}

func (s *SessionStore) appendTo(
	conv *domain.Conversation,
	content string,
	author domain.AuthorKind,
	attachments []string,
) *domain.Message {
	refs := make([]string, len(attachments))
	copy(refs, attachments)

	msg := &domain.Message{
		ID:          domain.MessageID(s.newID()),
		Content:     content,
		Author:      author,
		CreatedAt:   s.now(),
		Attachments: refs,
		Feedback:    domain.FeedbackNone,
	}
	conv.Messages = append(conv.Messages, msg)
	return msg.Clone()
}

func (s *SessionStore) SetLoading(flag bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Loading = flag
}

// BeginLoading raises the loading flag only if it is not already raised.
func (s *SessionStore) BeginLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.Loading {
		return false
	}
	s.session.Loading = true
	return true
}

func (s *SessionStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Loading
}

func (s *SessionStore) CreateConversation() *domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := &domain.Conversation{
		ID:       domain.ConversationID(s.newID()),
		Name:     fmt.Sprintf("%s %d", domain.DefaultConversationName, len(s.session.Conversations)+1),
		Messages: []*domain.Message{},
	}
	s.session.Conversations = append(s.session.Conversations, conv)
	s.session.ActiveConversationID = conv.ID
	return conv.Clone()
}

func (s *SessionStore) DeleteConversation(id domain.ConversationID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return
	}

	convs := s.session.Conversations
	s.session.Conversations = append(convs[:idx:idx], convs[idx+1:]...)

	if len(s.session.Conversations) == 0 {
		s.session.Conversations = []*domain.Conversation{domain.NewDefaultConversation()}
		s.session.ActiveConversationID = domain.DefaultConversationID
		return
	}
	if id == s.session.ActiveConversationID {
		s.session.ActiveConversationID = s.session.Conversations[0].ID
	}
}

// ReorderConversations moves the conversation at fromIndex to toIndex.
// Indices outside [0, len) are rejected and the order is left as is.
func (s *SessionStore) ReorderConversations(fromIndex, toIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.session.Conversations)
	if fromIndex < 0 || fromIndex >= n || toIndex < 0 || toIndex >= n {
		return domain.ErrIndexOutOfRange
	}
	if fromIndex == toIndex {
		return nil
	}

	convs := s.session.Conversations
	moved := convs[fromIndex]
	rest := append(convs[:fromIndex:fromIndex], convs[fromIndex+1:]...)

	out := make([]*domain.Conversation, 0, n)
	out = append(out, rest[:toIndex]...)
	out = append(out, moved)
	out = append(out, rest[toIndex:]...)
	s.session.Conversations = out
	return nil
}

func (s *SessionStore) SwitchActiveConversation(id domain.ConversationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.find(id) == nil {
		return domain.ErrConversationNotFound
	}
	s.session.ActiveConversationID = id
	return nil
}

// SetMessageFeedback sets feedback on the first message with the given id,
// scanning every conversation. The last write wins.
func (s *SessionStore) SetMessageFeedback(id domain.MessageID, feedback domain.Feedback) error {
	switch feedback {
	case domain.FeedbackNone, domain.FeedbackPositive, domain.FeedbackNegative:
	default:
		return domain.ErrInvalidFeedback
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, conv := range s.session.Conversations {
		for _, msg := range conv.Messages {
			if msg.ID != id {
				continue
			}
			if msg.Author != domain.AuthorAssistant {
				return domain.ErrFeedbackNotAllowed
			}
			msg.Feedback = feedback
			return nil
		}
	}
	return domain.ErrMessageNotFound
}

func (s *SessionStore) SetActiveView(view domain.View) error {
	if !view.Valid() {
		return domain.ErrUnknownView
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.ActiveView = view
	return nil
}

func (s *SessionStore) ActiveView() domain.View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.ActiveView
}

// ActiveConversation returns a copy of the conversation currently displayed.
func (s *SessionStore) ActiveConversation() *domain.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.find(s.session.ActiveConversationID).Clone()
}

// Snapshot returns a deep copy of the whole session.
func (s *SessionStore) Snapshot() *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := &domain.Session{
		ActiveConversationID: s.session.ActiveConversationID,
		Conversations:        make([]*domain.Conversation, 0, len(s.session.Conversations)),
		ActiveView:           s.session.ActiveView,
		Loading:              s.session.Loading,
	}
	for _, c := range s.session.Conversations {
		out.Conversations = append(out.Conversations, c.Clone())
	}
	return out
}

// --- internal helpers (callers hold the lock) --- //

func (s *SessionStore) indexOf(id domain.ConversationID) int {
	for i, c := range s.session.Conversations {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *SessionStore) find(id domain.ConversationID) *domain.Conversation {
	if i := s.indexOf(id); i >= 0 {
		return s.session.Conversations[i]
	}
	return nil
}
