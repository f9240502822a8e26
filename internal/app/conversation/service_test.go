package conversation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/fluid101/internal/adapters/llm"
	"github.com/PabloGalante/fluid101/internal/adapters/storage/memory"
	"github.com/PabloGalante/fluid101/internal/app/completion"
	"github.com/PabloGalante/fluid101/internal/app/conversation"
	"github.com/PabloGalante/fluid101/internal/domain"
	"github.com/PabloGalante/fluid101/internal/observability"
)

func newService(client domain.CompletionClient) (*conversation.Service, *memory.SessionStore) {
	store := memory.NewSessionStore()
	gw := completion.NewGateway(client, 0)
	return conversation.NewService(store, gw, 20, observability.NewMetrics()), store
}

// recordingClient captures what the completion service was asked.
type recordingClient struct {
	utterance string
	convCtx   domain.ConversationContext
	onCall    func()
}

func (r *recordingClient) Complete(_ context.Context, utterance string, convCtx domain.ConversationContext) (string, error) {
	r.utterance = utterance
	r.convCtx = convCtx
	if r.onCall != nil {
		r.onCall()
	}
	return "reply to " + utterance, nil
}

func TestSendMessageAppendsUserAndAssistant(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(llm.NewMockLLM())

	out, err := svc.SendMessage(ctx, conversation.SendMessageInput{
		Text:        "What is the Reynolds number?",
		Attachments: []string{"https://example.com/plot.png"},
	})
	require.NoError(t, err)
	require.NotNil(t, out.AssistantMessage)
	assert.False(t, out.Degraded)

	conv := store.ActiveConversation()
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, domain.AuthorUser, conv.Messages[0].Author)
	assert.Equal(t, []string{"https://example.com/plot.png"}, conv.Messages[0].Attachments)
	assert.Equal(t, domain.AuthorAssistant, conv.Messages[1].Author)
	assert.NotEmpty(t, conv.Messages[1].Content)
	assert.False(t, store.Loading())
}

func TestSendMessageFallsBackOnGatewayFailure(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(llm.NewFailingLLM(nil))

	conv := svc.CreateConversation(ctx)

	out, err := svc.SendMessage(ctx, conversation.SendMessageInput{Text: "hello"})
	require.NoError(t, err)
	assert.True(t, out.Degraded)

	active := store.ActiveConversation()
	assert.Equal(t, conv.ID, active.ID)
	require.Len(t, active.Messages, 2)
	assert.Equal(t, "hello", active.Messages[0].Content)
	assert.Equal(t, domain.AuthorUser, active.Messages[0].Author)
	assert.Equal(t, conversation.FallbackReply, active.Messages[1].Content)
	assert.Equal(t, domain.AuthorAssistant, active.Messages[1].Author)
	assert.False(t, store.Loading())
}

func TestSendMessageRejectsEmptyText(t *testing.T) {
	svc, store := newService(llm.NewMockLLM())

	_, err := svc.SendMessage(context.Background(), conversation.SendMessageInput{Text: "   "})
	assert.ErrorIs(t, err, domain.ErrEmptyMessage)
	assert.Empty(t, store.ActiveConversation().Messages)
}

func TestSendMessageRejectedWhileReplyPending(t *testing.T) {
	svc, store := newService(llm.NewMockLLM())
	store.SetLoading(true)

	_, err := svc.SendMessage(context.Background(), conversation.SendMessageInput{Text: "hi"})
	assert.ErrorIs(t, err, domain.ErrReplyPending)
	assert.Empty(t, store.ActiveConversation().Messages)
	assert.True(t, store.Loading())
}

func TestSendMessageSendsPriorHistory(t *testing.T) {
	ctx := context.Background()
	client := &recordingClient{}
	svc, _ := newService(client)

	_, err := svc.SendMessage(ctx, conversation.SendMessageInput{Text: "first"})
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, conversation.SendMessageInput{Text: "second"})
	require.NoError(t, err)

	assert.Equal(t, "second", client.utterance)
	require.Len(t, client.convCtx.History, 2)
	assert.Equal(t, "first", client.convCtx.History[0].Content)
	assert.Equal(t, "reply to first", client.convCtx.History[1].Content)
}

func TestReplyLandsInConversationThatAsked(t *testing.T) {
	ctx := context.Background()
	client := &recordingClient{}
	svc, store := newService(client)

	asking := store.ActiveConversation().ID
	other := svc.CreateConversation(ctx)
	_, err := svc.SwitchConversation(ctx, asking)
	require.NoError(t, err)

	// The user switches away while the reply is in flight.
	client.onCall = func() { _ = store.SwitchActiveConversation(other.ID) }

	_, err = svc.SendMessage(ctx, conversation.SendMessageInput{Text: "ping"})
	require.NoError(t, err)

	snap := store.Snapshot()
	for _, c := range snap.Conversations {
		switch c.ID {
		case asking:
			assert.Len(t, c.Messages, 2)
		case other.ID:
			assert.Empty(t, c.Messages)
		}
	}
}

func TestReplyDroppedWhenConversationDeleted(t *testing.T) {
	ctx := context.Background()
	client := &recordingClient{}
	svc, store := newService(client)

	asking := svc.CreateConversation(ctx)
	client.onCall = func() { store.DeleteConversation(asking.ID) }

	out, err := svc.SendMessage(ctx, conversation.SendMessageInput{Text: "ping"})
	require.NoError(t, err)
	assert.Nil(t, out.AssistantMessage)
	assert.False(t, store.Loading())
}

// vanishingStore deletes the active conversation right after the first lookup,
// as a concurrent delete request would.
type vanishingStore struct {
	*memory.SessionStore
	deleted bool
}

func (s *vanishingStore) ActiveConversation() *domain.Conversation {
	conv := s.SessionStore.ActiveConversation()
	if !s.deleted {
		s.deleted = true
		s.SessionStore.DeleteConversation(conv.ID)
	}
	return conv
}

func TestSendMessageFollowsActiveConversationAfterDelete(t *testing.T) {
	ctx := context.Background()
	store := &vanishingStore{SessionStore: memory.NewSessionStore()}
	svc := conversation.NewService(store, completion.NewGateway(llm.NewMockLLM(), 0), 20, observability.NewMetrics())

	doomed := svc.CreateConversation(ctx)

	out, err := svc.SendMessage(ctx, conversation.SendMessageInput{Text: "still there?"})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConversationID, out.ConversationID)
	require.NotNil(t, out.AssistantMessage)

	snap := store.Snapshot()
	require.Len(t, snap.Conversations, 1)
	assert.NotEqual(t, doomed.ID, snap.Conversations[0].ID)
	assert.Len(t, snap.Conversations[0].Messages, 2)
	assert.False(t, store.Loading())
}

func TestSetFeedback(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(llm.NewMockLLM())

	out, err := svc.SendMessage(ctx, conversation.SendMessageInput{Text: "hi"})
	require.NoError(t, err)

	require.NoError(t, svc.SetFeedback(ctx, out.AssistantMessage.ID, "up"))
	assert.Equal(t, domain.FeedbackPositive, store.ActiveConversation().Messages[1].Feedback)

	assert.ErrorIs(t, svc.SetFeedback(ctx, out.AssistantMessage.ID, "meh"), domain.ErrInvalidFeedback)
	assert.ErrorIs(t, svc.SetFeedback(ctx, out.UserMessage.ID, "down"), domain.ErrFeedbackNotAllowed)
	assert.ErrorIs(t, svc.SetFeedback(ctx, "nope", "down"), domain.ErrMessageNotFound)
}

func TestConversationManagement(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(llm.NewMockLLM())

	a := svc.CreateConversation(ctx)
	b := svc.CreateConversation(ctx)

	snap, err := svc.ReorderConversations(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, b.ID, snap.Conversations[0].ID)

	_, err = svc.ReorderConversations(ctx, 0, 5)
	assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)

	_, err = svc.SwitchConversation(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)

	snap = svc.DeleteConversation(ctx, b.ID)
	assert.Equal(t, snap.Conversations[0].ID, snap.ActiveConversationID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestSetActiveView(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(llm.NewMockLLM())

	view, err := svc.SetActiveView(ctx, "Analyzer")
	require.NoError(t, err)
	assert.Equal(t, domain.ViewAnalyzer, view)
	assert.Equal(t, domain.ViewAnalyzer, store.ActiveView())

	_, err = svc.SetActiveView(ctx, "settings")
	assert.ErrorIs(t, err, domain.ErrUnknownView)
	assert.Equal(t, domain.ViewAnalyzer, store.ActiveView())
}
