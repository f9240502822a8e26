package notes

import (
	"context"
	"strings"

	"github.com/PabloGalante/fluid101/internal/domain"
	"github.com/PabloGalante/fluid101/internal/observability"
)

// Service holds the logic around the user's notes
type Service struct {
	store domain.NoteStore
}

// NewService creates a notes service from a NoteStore
func NewService(store domain.NoteStore) *Service {
	return &Service{
		store: store,
	}
}

// Add saves a note. Whitespace-only content is rejected; otherwise the content
// is stored as typed.
func (s *Service) Add(ctx context.Context, content string) (*domain.Note, error) {
	if strings.TrimSpace(content) == "" {
		return nil, domain.ErrEmptyNote
	}

	note := s.store.AddNote(content)
	observability.LoggerFromContext(ctx).Info("note added", "note_id", note.ID, "length", len(content))
	return note, nil
}

// Delete removes a note. Unknown ids are not an error.
func (s *Service) Delete(ctx context.Context, id domain.NoteID) {
	s.store.DeleteNote(id)
	observability.LoggerFromContext(ctx).Info("note deleted", "note_id", id)
}

func (s *Service) List(_ context.Context) []*domain.Note {
	return s.store.ListNotes()
}
