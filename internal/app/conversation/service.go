package conversation

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/PabloGalante/fluid101/internal/domain"
	"github.com/PabloGalante/fluid101/internal/observability"
)

// FallbackReply is what the assistant says when the completion service fails.
const FallbackReply = "I'm having trouble connecting. Please try again later."

const maxAppendAttempts = 3

// Completer is satisfied by completion.Gateway.
type Completer interface {
	Complete(ctx context.Context, utterance string, convCtx domain.ConversationContext) (string, error)
}

type Service struct {
	store        domain.SessionStore
	completer    Completer
	historyLimit int
	metrics      *observability.Metrics
}

func NewService(
	store domain.SessionStore,
	completer Completer,
	historyLimit int,
	metrics *observability.Metrics,
) *Service {
	return &Service{
		store:        store,
		completer:    completer,
		historyLimit: historyLimit,
		metrics:      metrics,
	}
}

type SendMessageInput struct {
	Text        string
	Attachments []string
}

type SendMessageOutput struct {
	ConversationID   domain.ConversationID
	UserMessage      *domain.Message
	AssistantMessage *domain.Message // nil if the conversation was deleted while waiting
	Degraded         bool            // true when AssistantMessage is the fallback apology
}

// SendMessage records the user's message in the active conversation, asks the
// completion service for a reply and records that too. A completion failure is
// not an error for the caller: the reply becomes FallbackReply.
func (s *Service) SendMessage(ctx context.Context, in SendMessageInput) (*SendMessageOutput, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, domain.ErrEmptyMessage
	}

	log := observability.LoggerFromContext(ctx)

	if !s.store.BeginLoading() {
		log.Warn("send rejected, reply pending")
		s.metrics.CompletionOutcome(observability.OutcomeRejected)
		return nil, domain.ErrReplyPending
	}
	defer s.store.SetLoading(false)

	// The reply belongs to the conversation that asked, even if the user
	// switches away before it arrives.
	active, userMsg, err := s.appendUserMessage(ctx, in)
	if err != nil {
		return nil, err
	}
	convID := active.ID
	log = log.With("conversation_id", convID)
	log.Info("user message appended", "message_id", userMsg.ID, "attachments", len(in.Attachments))

	convCtx := domain.ConversationContext{
		ConversationID: convID,
		History:        s.history(active),
	}

	reply, err := s.completer.Complete(ctx, in.Text, convCtx)
	degraded := false
	if err != nil {
		if !errors.Is(err, domain.ErrCompletionUnavailable) {
			log.Error("unexpected completion error", "error", err)
		}
		reply = FallbackReply
		degraded = true
		s.metrics.CompletionOutcome(observability.OutcomeFallback)
	} else {
		s.metrics.CompletionOutcome(observability.OutcomeOK)
	}

	out := &SendMessageOutput{
		ConversationID: convID,
		UserMessage:    userMsg,
		Degraded:       degraded,
	}

	assistantMsg, err := s.store.AppendMessageTo(convID, reply, domain.AuthorAssistant, nil)
	if err != nil {
		log.Warn("conversation gone before reply arrived, dropping reply", "error", err)
		return out, nil
	}
	out.AssistantMessage = assistantMsg

	log.Info("send message completed", "degraded", degraded)
	return out, nil
}

// appendUserMessage appends to the active conversation. If that conversation
// is deleted between the lookup and the append, the message goes to the one
// that became active instead.
func (s *Service) appendUserMessage(ctx context.Context, in SendMessageInput) (*domain.Conversation, *domain.Message, error) {
	for attempt := 1; ; attempt++ {
		active := s.store.ActiveConversation()
		msg, err := s.store.AppendMessageTo(active.ID, in.Text, domain.AuthorUser, in.Attachments)
		if err == nil {
			return active, msg, nil
		}
		if !errors.Is(err, domain.ErrConversationNotFound) || attempt >= maxAppendAttempts {
			return nil, nil, err
		}
		observability.LoggerFromContext(ctx).Warn("active conversation deleted before append, retrying",
			"conversation_id", active.ID,
			"attempt", attempt,
		)
	}
}

// history returns the messages the completion service sees as context, which
// excludes the utterance being answered.
func (s *Service) history(conv *domain.Conversation) []*domain.Message {
	msgs := conv.Messages
	if s.historyLimit > 0 && len(msgs) > s.historyLimit {
		msgs = msgs[len(msgs)-s.historyLimit:]
	}
	return msgs
}

func (s *Service) CreateConversation(ctx context.Context) *domain.Conversation {
	conv := s.store.CreateConversation()
	observability.LoggerFromContext(ctx).Info("conversation created", "conversation_id", conv.ID, "name", conv.Name)
	return conv
}

func (s *Service) DeleteConversation(ctx context.Context, id domain.ConversationID) *domain.Session {
	s.store.DeleteConversation(id)
	snap := s.store.Snapshot()
	observability.LoggerFromContext(ctx).Info("conversation deleted",
		"conversation_id", id,
		"active_conversation_id", snap.ActiveConversationID,
	)
	return snap
}

func (s *Service) SwitchConversation(ctx context.Context, id domain.ConversationID) (*domain.Conversation, error) {
	log := observability.LoggerFromContext(ctx).With("conversation_id", id)
	if err := s.store.SwitchActiveConversation(id); err != nil {
		log.Warn("switch conversation failed", "error", err)
		return nil, err
	}
	log.Info("active conversation switched")
	return s.store.ActiveConversation(), nil
}

func (s *Service) ReorderConversations(ctx context.Context, from, to int) (*domain.Session, error) {
	log := observability.LoggerFromContext(ctx).With("from", from, "to", to)
	if err := s.store.ReorderConversations(from, to); err != nil {
		log.Warn("reorder failed", "error", err)
		return nil, err
	}
	log.Info("conversations reordered")
	return s.store.Snapshot(), nil
}

func (s *Service) SetFeedback(ctx context.Context, id domain.MessageID, raw string) error {
	log := observability.LoggerFromContext(ctx).With("message_id", id)

	feedback, err := domain.ParseFeedback(raw)
	if err != nil {
		return err
	}
	if err := s.store.SetMessageFeedback(id, feedback); err != nil {
		log.Warn("set feedback failed", "error", err)
		return err
	}
	log.Info("feedback recorded", "feedback", feedback)
	return nil
}

func (s *Service) ActiveConversation() *domain.Conversation {
	return s.store.ActiveConversation()
}

func (s *Service) Session() *domain.Session {
	return s.store.Snapshot()
}

// SetActiveView selects the panel shown by the front-end.
func (s *Service) SetActiveView(ctx context.Context, raw string) (domain.View, error) {
	view, err := domain.ParseView(raw)
	if err != nil {
		return 0, err
	}
	if err := s.store.SetActiveView(view); err != nil {
		return 0, err
	}
	observability.LoggerFromContext(ctx).Info("active view changed", "view", view.String())
	return view, nil
}
