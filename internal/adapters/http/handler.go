package httpadapter

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/PabloGalante/fluid101/internal/app/analysis"
	"github.com/PabloGalante/fluid101/internal/app/conversation"
	"github.com/PabloGalante/fluid101/internal/app/notes"
	"github.com/PabloGalante/fluid101/internal/app/panel"
	"github.com/PabloGalante/fluid101/internal/domain"
	"github.com/PabloGalante/fluid101/internal/observability"
)

// Deps are the services the HTTP adapter dispatches to.
type Deps struct {
	Conversations *conversation.Service
	Notes         *notes.Service
	Analyzer      *analysis.Service
	Panels        *panel.Renderer
	Metrics       *observability.Metrics

	MaxImageBytes  int64
	RateLimitRPS   float64
	RateLimitBurst int
}

type Server struct {
	conv     *conversation.Service
	notes    *notes.Service
	analyzer *analysis.Service
	panels   *panel.Renderer
	metrics  *observability.Metrics
	maxImage int64
}

func NewServer(d Deps) http.Handler {
	if d.Metrics == nil {
		d.Metrics = observability.NewMetrics()
	}
	if d.MaxImageBytes <= 0 {
		d.MaxImageBytes = analysis.DefaultMaxImageBytes
	}

	s := &Server{
		conv:     d.Conversations,
		notes:    d.Notes,
		analyzer: d.Analyzer,
		panels:   d.Panels,
		metrics:  d.Metrics,
		maxImage: d.MaxImageBytes,
	}

	r := mux.NewRouter()
	r.Use(withMetrics(d.Metrics))

	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.Handle("/metrics", d.Metrics.Handler()).Methods(http.MethodGet)

	// Routes are registered on the root router: a method mismatch on a
	// subrouter route falls through to NotFound instead of 405.
	r.HandleFunc("/api/session", s.handleGetSession).Methods(http.MethodGet)
	r.HandleFunc("/api/panel", s.handleGetPanel).Methods(http.MethodGet)
	r.HandleFunc("/api/view", s.handleSetView).Methods(http.MethodPut)

	r.HandleFunc("/api/conversations", s.handleCreateConversation).Methods(http.MethodPost)
	r.HandleFunc("/api/conversations/active", s.handleActiveConversation).Methods(http.MethodGet)
	r.HandleFunc("/api/conversations/reorder", s.handleReorderConversations).Methods(http.MethodPost)
	r.HandleFunc("/api/conversations/{id}", s.handleDeleteConversation).Methods(http.MethodDelete)
	r.HandleFunc("/api/conversations/{id}/activate", s.handleActivateConversation).Methods(http.MethodPost)

	r.HandleFunc("/api/messages", s.handleSendMessage).Methods(http.MethodPost)
	r.HandleFunc("/api/messages/{id}/feedback", s.handleSetFeedback).Methods(http.MethodPut)

	r.HandleFunc("/api/resources", s.handleResources).Methods(http.MethodGet)

	r.HandleFunc("/api/notes", s.handleListNotes).Methods(http.MethodGet)
	r.HandleFunc("/api/notes", s.handleAddNote).Methods(http.MethodPost)
	r.HandleFunc("/api/notes/{id}", s.handleDeleteNote).Methods(http.MethodDelete)

	r.HandleFunc("/api/analyzer", s.handleAnalyzerState).Methods(http.MethodGet)
	r.HandleFunc("/api/analyzer", s.handleAnalyze).Methods(http.MethodPost)
	r.HandleFunc("/api/analyzer/report", s.handleDownloadReport).Methods(http.MethodGet)

	r.HandleFunc("/api/voice", s.handleVoice).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		methodNotAllowed(w)
	})

	return chainMiddlewares(r,
		withRateLimit(d.RateLimitRPS, d.RateLimitBurst),
		withLogging,
		withCORS,
		withRequestID,
	)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type messageResponse = panel.MessageView

type conversationResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Messages []messageResponse `json:"messages"`
}

type sessionResponse struct {
	ActiveConversationID string                 `json:"active_conversation_id"`
	ActiveView           domain.View            `json:"active_view"`
	Loading              bool                   `json:"loading"`
	Conversations        []conversationResponse `json:"conversations"`
}

type setViewRequest struct {
	View string `json:"view"`
}

type reorderRequest struct {
	From *int `json:"from"`
	To   *int `json:"to"`
}

type sendMessageRequest struct {
	Text        string   `json:"text"`
	Attachments []string `json:"attachments,omitempty"`
}

type sendMessageResponse struct {
	ConversationID   string           `json:"conversation_id"`
	UserMessage      messageResponse  `json:"user_message"`
	AssistantMessage *messageResponse `json:"assistant_message"`
	Degraded         bool             `json:"degraded"`
}

type feedbackRequest struct {
	Feedback string `json:"feedback"`
}

type addNoteRequest struct {
	Content string `json:"content"`
}

type notesResponse struct {
	Notes []*domain.Note `json:"notes"`
}

// ─────────────────────────────────────────────
// Session and panels
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toSessionResponse(r.Context(), s.conv.Session()))
}

func (s *Server) handleGetPanel(w http.ResponseWriter, r *http.Request) {
	p, err := s.panels.Render(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleSetView(w http.ResponseWriter, r *http.Request) {
	var req setViewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if _, err := s.conv.SetActiveView(r.Context(), req.View); err != nil {
		s.fail(w, r, err)
		return
	}
	s.handleGetPanel(w, r)
}

// ─────────────────────────────────────────────
// Conversations
// ─────────────────────────────────────────────

func (s *Server) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	conv := s.conv.CreateConversation(r.Context())
	writeJSON(w, http.StatusCreated, toConversationResponse(r.Context(), conv))
}

func (s *Server) handleActiveConversation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toConversationResponse(r.Context(), s.conv.ActiveConversation()))
}

func (s *Server) handleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	id := domain.ConversationID(mux.Vars(r)["id"])
	writeJSON(w, http.StatusOK, toSessionResponse(r.Context(), s.conv.DeleteConversation(r.Context(), id)))
}

func (s *Server) handleActivateConversation(w http.ResponseWriter, r *http.Request) {
	id := domain.ConversationID(mux.Vars(r)["id"])

	conv, err := s.conv.SwitchConversation(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toConversationResponse(r.Context(), conv))
}

func (s *Server) handleReorderConversations(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.From == nil || req.To == nil {
		badRequest(w, "from and to are required")
		return
	}

	snap, err := s.conv.ReorderConversations(r.Context(), *req.From, *req.To)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(r.Context(), snap))
}

// ─────────────────────────────────────────────
// Messages
// ─────────────────────────────────────────────

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	out, err := s.conv.SendMessage(r.Context(), conversation.SendMessageInput{
		Text:        req.Text,
		Attachments: req.Attachments,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := sendMessageResponse{
		ConversationID: string(out.ConversationID),
		UserMessage:    toMessageResponse(r.Context(), out.UserMessage),
		Degraded:       out.Degraded,
	}
	if out.AssistantMessage != nil {
		m := toMessageResponse(r.Context(), out.AssistantMessage)
		resp.AssistantMessage = &m
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id := domain.MessageID(mux.Vars(r)["id"])
	if err := s.conv.SetFeedback(r.Context(), id, req.Feedback); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─────────────────────────────────────────────
// Resources, notes, voice
// ─────────────────────────────────────────────

func (s *Server) handleResources(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.panels.Resources())
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, notesResponse{Notes: s.notes.List(r.Context())})
}

func (s *Server) handleAddNote(w http.ResponseWriter, r *http.Request) {
	var req addNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := s.notes.Add(r.Context(), req.Content)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	s.notes.Delete(r.Context(), domain.NoteID(mux.Vars(r)["id"]))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleVoice(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.panels.Voice())
}

// ─────────────────────────────────────────────
// Conversation Helpers
// ─────────────────────────────────────────────

func toMessageResponse(ctx context.Context, m *domain.Message) messageResponse {
	return panel.RenderMessage(ctx, m)
}

func toConversationResponse(ctx context.Context, c *domain.Conversation) conversationResponse {
	out := conversationResponse{
		ID:       string(c.ID),
		Name:     c.Name,
		Messages: make([]messageResponse, 0, len(c.Messages)),
	}
	for _, m := range c.Messages {
		out.Messages = append(out.Messages, toMessageResponse(ctx, m))
	}
	return out
}

func toSessionResponse(ctx context.Context, sess *domain.Session) sessionResponse {
	out := sessionResponse{
		ActiveConversationID: string(sess.ActiveConversationID),
		ActiveView:           sess.ActiveView,
		Loading:              sess.Loading,
		Conversations:        make([]conversationResponse, 0, len(sess.Conversations)),
	}
	for _, c := range sess.Conversations {
		out.Conversations = append(out.Conversations, toConversationResponse(ctx, c))
	}
	return out
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, "invalid JSON body")
		return false
	}
	return true
}
