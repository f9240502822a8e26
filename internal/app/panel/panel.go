package panel

import (
	"context"
	"time"

	"github.com/PabloGalante/fluid101/internal/app/analysis"
	"github.com/PabloGalante/fluid101/internal/app/resources"
	"github.com/PabloGalante/fluid101/internal/domain"
	"github.com/PabloGalante/fluid101/internal/observability"
)

const (
	WelcomeTitle    = "Welcome to Fluid 101"
	WelcomeSubtitle = "Your advanced companion for computational fluid dynamics analysis and simulation."
	ChatPlaceholder = "Ask about CFD analysis..."

	AnalyzerTitle    = "Pressure Map Analyzer"
	AnalyzerSubtitle = "Upload your CFD pressure map images for instant analysis"

	VoiceTitle       = "Voice Assistant"
	NotesPlaceholder = "Take notes during the conversation..."
	NoNotesText      = "No saved notes yet"
)

// Panel is the payload of the view currently selected. Exactly one of the
// view fields is set.
type Panel struct {
	View      domain.View               `json:"view"`
	Chat      *ChatPanel                `json:"chat,omitempty"`
	Resources *domain.ResourceDirectory `json:"resources,omitempty"`
	Analyzer  *AnalyzerPanel            `json:"analyzer,omitempty"`
	Voice     *VoicePanel               `json:"voice,omitempty"`
}

type MessageView struct {
	ID          domain.MessageID  `json:"id"`
	Author      domain.AuthorKind `json:"author"`
	Content     string            `json:"content"`
	ContentHTML string            `json:"content_html,omitempty"`
	Attachments []string          `json:"attachments"`
	Feedback    domain.Feedback   `json:"feedback"`
	CreatedAt   time.Time         `json:"created_at"`
}

func NewMessageView(m *domain.Message) MessageView {
	return MessageView{
		ID:          m.ID,
		Author:      m.Author,
		Content:     m.Content,
		Attachments: m.Attachments,
		Feedback:    m.Feedback,
		CreatedAt:   m.CreatedAt,
	}
}

type Welcome struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

type ChatPanel struct {
	ConversationID   domain.ConversationID `json:"conversation_id"`
	ConversationName string                `json:"conversation_name"`
	Messages         []MessageView         `json:"messages"`
	Loading          bool                  `json:"loading"`
	Welcome          *Welcome              `json:"welcome,omitempty"`
	Placeholder      string                `json:"placeholder"`
}

type AnalyzerPanel struct {
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle"`
	AcceptedTypes []string `json:"accepted_types"`
	MaxBytes      int64    `json:"max_bytes"`
	analysis.State
}

// Widget is the third-party voice widget. Its protocol is opaque to us.
type Widget struct {
	ElementID string `json:"element_id"`
	URL       string `json:"url"`
	Allow     string `json:"allow"`
}

type VoicePanel struct {
	Title            string         `json:"title"`
	Widget           Widget         `json:"widget"`
	Notes            []*domain.Note `json:"notes"`
	NotesPlaceholder string         `json:"notes_placeholder"`
	EmptyText        string         `json:"empty_text,omitempty"`
}

type Config struct {
	VoiceWidgetURL string
	MaxImageBytes  int64
}

// Renderer builds panels from the stores and services. It never mutates them.
type Renderer struct {
	sessions domain.SessionStore
	notes    domain.NoteStore
	catalog  *resources.Catalog
	analyzer *analysis.Service
	cfg      Config
}

func NewRenderer(
	sessions domain.SessionStore,
	notes domain.NoteStore,
	catalog *resources.Catalog,
	analyzer *analysis.Service,
	cfg Config,
) *Renderer {
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = analysis.DefaultMaxImageBytes
	}
	return &Renderer{
		sessions: sessions,
		notes:    notes,
		catalog:  catalog,
		analyzer: analyzer,
		cfg:      cfg,
	}
}

// Render returns the panel of the active view.
func (r *Renderer) Render(ctx context.Context) (*Panel, error) {
	view := r.sessions.ActiveView()
	p := &Panel{View: view}

	switch view {
	case domain.ViewChat:
		p.Chat = r.Chat(ctx)
	case domain.ViewResources:
		dir := r.Resources()
		p.Resources = &dir
	case domain.ViewAnalyzer:
		p.Analyzer = r.Analyzer()
	case domain.ViewVoice:
		p.Voice = r.Voice()
	default:
		return nil, domain.ErrUnknownView
	}
	return p, nil
}

func (r *Renderer) Chat(ctx context.Context) *ChatPanel {
	conv := r.sessions.ActiveConversation()

	out := &ChatPanel{
		ConversationID:   conv.ID,
		ConversationName: conv.Name,
		Messages:         make([]MessageView, 0, len(conv.Messages)),
		Loading:          r.sessions.Loading(),
		Placeholder:      ChatPlaceholder,
	}
	for _, m := range conv.Messages {
		out.Messages = append(out.Messages, RenderMessage(ctx, m))
	}
	if len(conv.Messages) == 0 {
		out.Welcome = &Welcome{Title: WelcomeTitle, Subtitle: WelcomeSubtitle}
	}
	return out
}

// RenderMessage maps a message for display. Assistant content is also
// rendered from markdown into ContentHTML.
func RenderMessage(ctx context.Context, m *domain.Message) MessageView {
	mv := NewMessageView(m)
	if m.Author != domain.AuthorAssistant {
		return mv
	}

	html, err := RenderMarkdown(m.Content)
	if err != nil {
		// the client falls back to the plain content
		observability.LoggerFromContext(ctx).Warn("markdown render failed", "message_id", m.ID, "error", err)
		return mv
	}
	mv.ContentHTML = html
	return mv
}

func (r *Renderer) Resources() domain.ResourceDirectory {
	return r.catalog.Directory()
}

func (r *Renderer) Analyzer() *AnalyzerPanel {
	return &AnalyzerPanel{
		Title:         AnalyzerTitle,
		Subtitle:      AnalyzerSubtitle,
		AcceptedTypes: []string{"image/png", "image/jpeg"},
		MaxBytes:      r.cfg.MaxImageBytes,
		State:         r.analyzer.State(),
	}
}

func (r *Renderer) Voice() *VoicePanel {
	notes := r.notes.ListNotes()

	out := &VoicePanel{
		Title: VoiceTitle,
		Widget: Widget{
			ElementID: "audio_iframe",
			URL:       r.cfg.VoiceWidgetURL,
			Allow:     "microphone",
		},
		Notes:            notes,
		NotesPlaceholder: NotesPlaceholder,
	}
	if len(notes) == 0 {
		out.EmptyText = NoNotesText
	}
	return out
}
