package domain

// Note is a free-text entry taken next to the voice assistant.
// It has no relation to any conversation.
type Note struct {
	ID        NoteID    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt Timestamp `json:"created_at"`
}
