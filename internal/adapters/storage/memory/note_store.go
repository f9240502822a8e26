package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/fluid101/internal/domain"
)

// NoteStore is a simple in-memory implementation of domain.NoteStore.
// It is NOT persistent.
type NoteStore struct {
	mu    sync.RWMutex
	notes []*domain.Note
	now   func() time.Time
}

// NewNoteStore creates an empty NoteStore.
func NewNoteStore() *NoteStore {
	return &NoteStore{
		notes: []*domain.Note{},
		now:   time.Now,
	}
}

// AddNote appends a note with a fresh id and the current time.
func (s *NoteStore) AddNote(content string) *domain.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	note := &domain.Note{
		ID:        domain.NoteID(uuid.NewString()),
		Content:   content,
		CreatedAt: s.now(),
	}
	s.notes = append(s.notes, note)

	cp := *note
	return &cp
}

// DeleteNote removes the note with that id. Unknown ids are ignored.
func (s *NoteStore) DeleteNote(id domain.NoteID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notes {
		if n.ID == id {
			s.notes = append(s.notes[:i:i], s.notes[i+1:]...)
			return
		}
	}
}

// ListNotes returns every note in insertion order.
func (s *NoteStore) ListNotes() []*domain.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Note, 0, len(s.notes))
	for _, n := range s.notes {
		cp := *n
		out = append(out, &cp)
	}
	return out
}
