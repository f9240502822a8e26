package memory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/fluid101/internal/adapters/storage/memory"
	"github.com/PabloGalante/fluid101/internal/domain"
)

func conversationIDs(s *domain.Session) []domain.ConversationID {
	ids := make([]domain.ConversationID, 0, len(s.Conversations))
	for _, c := range s.Conversations {
		ids = append(ids, c.ID)
	}
	return ids
}

func requireActiveExists(t *testing.T, store *memory.SessionStore) {
	t.Helper()
	snap := store.Snapshot()
	require.NotEmpty(t, snap.Conversations)
	assert.Contains(t, conversationIDs(snap), snap.ActiveConversationID)
}

func TestNewSessionStoreStartsWithDefaultConversation(t *testing.T) {
	store := memory.NewSessionStore()
	snap := store.Snapshot()

	require.Len(t, snap.Conversations, 1)
	assert.Equal(t, domain.DefaultConversationID, snap.ActiveConversationID)
	assert.Equal(t, domain.DefaultConversationName, snap.Conversations[0].Name)
	assert.Empty(t, snap.Conversations[0].Messages)
	assert.Equal(t, domain.ViewChat, snap.ActiveView)
	assert.False(t, snap.Loading)
}

func TestAppendMessageGoesToActiveConversation(t *testing.T) {
	fixed := time.Date(2024, 11, 19, 10, 0, 0, 0, time.UTC)
	store := memory.NewSessionStore().WithClock(func() time.Time { return fixed })

	first := store.AppendMessage("hello", domain.AuthorUser, nil)
	conv := store.CreateConversation()
	second := store.AppendMessage("see this", domain.AuthorUser, []string{"https://example.com/p.png"})

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, fixed, first.CreatedAt)
	assert.Equal(t, domain.FeedbackNone, first.Feedback)
	assert.Equal(t, []string{}, first.Attachments)

	active := store.ActiveConversation()
	assert.Equal(t, conv.ID, active.ID)
	require.Len(t, active.Messages, 1)
	assert.Equal(t, []string{"https://example.com/p.png"}, active.Messages[0].Attachments)

	require.NoError(t, store.SwitchActiveConversation(domain.DefaultConversationID))
	active = store.ActiveConversation()
	require.Len(t, active.Messages, 1)
	assert.Equal(t, "hello", active.Messages[0].Content)
}

func TestAppendMessageToUnknownConversation(t *testing.T) {
	store := memory.NewSessionStore()

	_, err := store.AppendMessageTo("missing", "reply", domain.AuthorAssistant, nil)
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)
}

func TestAppendIsAppendOnly(t *testing.T) {
	store := memory.NewSessionStore()

	prev := 0
	for i := 0; i < 5; i++ {
		store.AppendMessage("m", domain.AuthorUser, nil)
		n := len(store.ActiveConversation().Messages)
		assert.Greater(t, n, prev)
		prev = n
	}

	// mutating a returned copy must not reach the store
	active := store.ActiveConversation()
	active.Messages = active.Messages[:0]
	assert.Len(t, store.ActiveConversation().Messages, 5)
}

func TestCreateConversationNamesAndActivates(t *testing.T) {
	store := memory.NewSessionStore()

	c2 := store.CreateConversation()
	c3 := store.CreateConversation()

	assert.Equal(t, "New Chat 2", c2.Name)
	assert.Equal(t, "New Chat 3", c3.Name)
	assert.Empty(t, c3.Messages)
	assert.Equal(t, c3.ID, store.Snapshot().ActiveConversationID)
}

func TestDeleteActiveActivatesFirstRemaining(t *testing.T) {
	store := memory.NewSessionStore()
	b := store.CreateConversation()
	c := store.CreateConversation()

	store.DeleteConversation(c.ID)

	snap := store.Snapshot()
	assert.Equal(t, []domain.ConversationID{domain.DefaultConversationID, b.ID}, conversationIDs(snap))
	assert.Equal(t, domain.DefaultConversationID, snap.ActiveConversationID)
}

func TestDeleteInactiveKeepsActive(t *testing.T) {
	store := memory.NewSessionStore()
	b := store.CreateConversation()

	store.DeleteConversation(domain.DefaultConversationID)

	snap := store.Snapshot()
	assert.Equal(t, []domain.ConversationID{b.ID}, conversationIDs(snap))
	assert.Equal(t, b.ID, snap.ActiveConversationID)
}

func TestDeleteOnlyConversationRecreatesDefault(t *testing.T) {
	store := memory.NewSessionStore()
	store.AppendMessage("hello", domain.AuthorUser, nil)

	store.DeleteConversation(domain.DefaultConversationID)

	snap := store.Snapshot()
	require.Len(t, snap.Conversations, 1)
	assert.Equal(t, domain.DefaultConversationName, snap.Conversations[0].Name)
	assert.Empty(t, snap.Conversations[0].Messages)
	assert.Equal(t, snap.Conversations[0].ID, snap.ActiveConversationID)
}

func TestDeleteUnknownIsNoop(t *testing.T) {
	store := memory.NewSessionStore()
	store.CreateConversation()
	before := store.Snapshot()

	store.DeleteConversation("does-not-exist")

	assert.Equal(t, before, store.Snapshot())
}

func TestCreateDeleteSequencesKeepInvariant(t *testing.T) {
	store := memory.NewSessionStore()
	var created []domain.ConversationID

	for round := 0; round < 4; round++ {
		for i := 0; i < 3; i++ {
			created = append(created, store.CreateConversation().ID)
			requireActiveExists(t, store)
		}
		for len(created) > 0 {
			store.DeleteConversation(created[0])
			created = created[1:]
			requireActiveExists(t, store)
		}
		store.DeleteConversation(store.Snapshot().ActiveConversationID)
		requireActiveExists(t, store)
	}
}

func TestReorderConversations(t *testing.T) {
	store := memory.NewSessionStore()
	a := domain.DefaultConversationID
	b := store.CreateConversation().ID
	c := store.CreateConversation().ID

	require.NoError(t, store.ReorderConversations(0, 2))
	assert.Equal(t, []domain.ConversationID{b, c, a}, conversationIDs(store.Snapshot()))

	require.NoError(t, store.ReorderConversations(2, 0))
	assert.Equal(t, []domain.ConversationID{a, b, c}, conversationIDs(store.Snapshot()))

	require.NoError(t, store.ReorderConversations(1, 1))
	assert.Equal(t, []domain.ConversationID{a, b, c}, conversationIDs(store.Snapshot()))

	// the active conversation does not change on reorder
	assert.Equal(t, c, store.Snapshot().ActiveConversationID)
}

func TestReorderRejectsOutOfRange(t *testing.T) {
	store := memory.NewSessionStore()
	store.CreateConversation()
	before := conversationIDs(store.Snapshot())

	for _, tc := range [][2]int{{-1, 0}, {0, 2}, {2, 0}, {0, -1}} {
		err := store.ReorderConversations(tc[0], tc[1])
		assert.ErrorIs(t, err, domain.ErrIndexOutOfRange, "from=%d to=%d", tc[0], tc[1])
	}
	assert.Equal(t, before, conversationIDs(store.Snapshot()))
}

func TestSwitchActiveConversationUnknownIsNoop(t *testing.T) {
	store := memory.NewSessionStore()
	b := store.CreateConversation()

	err := store.SwitchActiveConversation("nope")
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)
	assert.Equal(t, b.ID, store.Snapshot().ActiveConversationID)

	require.NoError(t, store.SwitchActiveConversation(domain.DefaultConversationID))
	assert.Equal(t, domain.DefaultConversationID, store.Snapshot().ActiveConversationID)
}

func TestSetMessageFeedbackLastWriteWins(t *testing.T) {
	store := memory.NewSessionStore()
	store.AppendMessage("question", domain.AuthorUser, nil)
	reply := store.AppendMessage("answer", domain.AuthorAssistant, nil)

	// feedback is found even when the message is not in the active conversation
	store.CreateConversation()

	require.NoError(t, store.SetMessageFeedback(reply.ID, domain.FeedbackPositive))
	require.NoError(t, store.SetMessageFeedback(reply.ID, domain.FeedbackNegative))

	snap := store.Snapshot()
	msgs := snap.Conversations[0].Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.FeedbackNegative, msgs[1].Feedback)
	assert.Equal(t, domain.FeedbackNone, msgs[0].Feedback)
}

func TestSetMessageFeedbackErrors(t *testing.T) {
	store := memory.NewSessionStore()
	question := store.AppendMessage("question", domain.AuthorUser, nil)
	reply := store.AppendMessage("answer", domain.AuthorAssistant, nil)

	assert.ErrorIs(t, store.SetMessageFeedback("missing", domain.FeedbackPositive), domain.ErrMessageNotFound)
	assert.ErrorIs(t, store.SetMessageFeedback(question.ID, domain.FeedbackPositive), domain.ErrFeedbackNotAllowed)
	assert.ErrorIs(t, store.SetMessageFeedback(reply.ID, domain.Feedback("meh")), domain.ErrInvalidFeedback)
}

func TestLoadingFlag(t *testing.T) {
	store := memory.NewSessionStore()

	assert.True(t, store.BeginLoading())
	assert.True(t, store.Loading())
	assert.False(t, store.BeginLoading())

	store.SetLoading(false)
	assert.False(t, store.Loading())
}

func TestSetActiveView(t *testing.T) {
	store := memory.NewSessionStore()

	require.NoError(t, store.SetActiveView(domain.ViewAnalyzer))
	assert.Equal(t, domain.ViewAnalyzer, store.ActiveView())

	assert.ErrorIs(t, store.SetActiveView(domain.View(42)), domain.ErrUnknownView)
	assert.Equal(t, domain.ViewAnalyzer, store.ActiveView())
}
