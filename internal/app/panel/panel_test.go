package panel_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/fluid101/internal/adapters/storage/memory"
	"github.com/PabloGalante/fluid101/internal/app/analysis"
	"github.com/PabloGalante/fluid101/internal/app/panel"
	"github.com/PabloGalante/fluid101/internal/app/resources"
	"github.com/PabloGalante/fluid101/internal/domain"
)

const widgetURL = "https://widget.example.com/voice"

func newRenderer(t *testing.T) (*panel.Renderer, *memory.SessionStore, *memory.NoteStore) {
	t.Helper()
	catalog, err := resources.Load()
	require.NoError(t, err)

	sessions := memory.NewSessionStore()
	notes := memory.NewNoteStore()
	r := panel.NewRenderer(sessions, notes, catalog, analysis.NewService(0, nil), panel.Config{
		VoiceWidgetURL: widgetURL,
	})
	return r, sessions, notes
}

func TestRenderEmptyChatShowsWelcome(t *testing.T) {
	r, _, _ := newRenderer(t)

	p, err := r.Render(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.ViewChat, p.View)
	require.NotNil(t, p.Chat)
	assert.Nil(t, p.Resources)
	assert.Nil(t, p.Analyzer)
	assert.Nil(t, p.Voice)

	assert.Equal(t, domain.DefaultConversationName, p.Chat.ConversationName)
	require.NotNil(t, p.Chat.Welcome)
	assert.Equal(t, panel.WelcomeTitle, p.Chat.Welcome.Title)
	assert.Empty(t, p.Chat.Messages)
}

func TestRenderChatMessages(t *testing.T) {
	r, sessions, _ := newRenderer(t)
	sessions.AppendMessage("**bold** question", domain.AuthorUser, nil)
	sessions.AppendMessage("Use **k-omega SST**", domain.AuthorAssistant, nil)
	sessions.SetLoading(true)

	chat := r.Chat(context.Background())
	require.Len(t, chat.Messages, 2)
	assert.Nil(t, chat.Welcome)
	assert.True(t, chat.Loading)

	assert.Empty(t, chat.Messages[0].ContentHTML)
	assert.Equal(t, "**bold** question", chat.Messages[0].Content)
	assert.Contains(t, chat.Messages[1].ContentHTML, "<strong>k-omega SST</strong>")
}

func TestRenderDispatchesEveryView(t *testing.T) {
	r, sessions, notes := newRenderer(t)
	ctx := context.Background()

	require.NoError(t, sessions.SetActiveView(domain.ViewResources))
	p, err := r.Render(ctx)
	require.NoError(t, err)
	require.NotNil(t, p.Resources)
	assert.Len(t, p.Resources.Categories, 4)

	require.NoError(t, sessions.SetActiveView(domain.ViewAnalyzer))
	p, err = r.Render(ctx)
	require.NoError(t, err)
	require.NotNil(t, p.Analyzer)
	assert.Equal(t, panel.AnalyzerTitle, p.Analyzer.Title)
	assert.Equal(t, int64(analysis.DefaultMaxImageBytes), p.Analyzer.MaxBytes)
	assert.Nil(t, p.Analyzer.Result)

	require.NoError(t, sessions.SetActiveView(domain.ViewVoice))
	p, err = r.Render(ctx)
	require.NoError(t, err)
	require.NotNil(t, p.Voice)
	assert.Equal(t, widgetURL, p.Voice.Widget.URL)
	assert.Equal(t, "microphone", p.Voice.Widget.Allow)
	assert.Equal(t, panel.NoNotesText, p.Voice.EmptyText)

	notes.AddNote("inlet velocity 3 m/s")
	voice := r.Voice()
	require.Len(t, voice.Notes, 1)
	assert.Empty(t, voice.EmptyText)
}

func TestPanelJSONUsesViewName(t *testing.T) {
	r, sessions, _ := newRenderer(t)
	require.NoError(t, sessions.SetActiveView(domain.ViewVoice))

	p, err := r.Render(context.Background())
	require.NoError(t, err)

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "voice", decoded["view"])
	assert.Contains(t, decoded, "voice")
	assert.NotContains(t, decoded, "chat")
}

func TestRenderMarkdownEscapesRawHTML(t *testing.T) {
	html, err := panel.RenderMarkdown("<script>alert(1)</script>\n\n- a\n- b")
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "<li>a</li>")
}

func TestRenderMessageOnlyRendersAssistantContent(t *testing.T) {
	ctx := context.Background()

	assistant := panel.RenderMessage(ctx, &domain.Message{ID: "m1", Author: domain.AuthorAssistant, Content: "**CFL** < 1"})
	assert.Contains(t, assistant.ContentHTML, "<strong>CFL</strong>")
	assert.Equal(t, "**CFL** < 1", assistant.Content)

	user := panel.RenderMessage(ctx, &domain.Message{ID: "m2", Author: domain.AuthorUser, Content: "**CFL**"})
	assert.Empty(t, user.ContentHTML)
}
