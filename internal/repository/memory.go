package repository

import (
	"sync"

	"texttide/internal/models"
)

// MemorySnippetRepository keeps the snapshot in memory. It backs the test
// suites and the 'memory' store backend, and copies on both Load and Save so
// callers can never mutate the stored snapshot through aliased slices.
type MemorySnippetRepository struct {
	mu       sync.RWMutex
	snippets []models.Snippet
}

// NewMemorySnippetRepository returns an empty in-memory store.
func NewMemorySnippetRepository() *MemorySnippetRepository {
	return &MemorySnippetRepository{snippets: []models.Snippet{}}
}

// Load returns a copy of the current snapshot.
func (r *MemorySnippetRepository) Load() ([]models.Snippet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copySnippets(r.snippets), nil
}

// Save replaces the snapshot with a copy of the given collection.
func (r *MemorySnippetRepository) Save(snippets []models.Snippet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snippets = copySnippets(snippets)
	return nil
}

func copySnippets(src []models.Snippet) []models.Snippet {
	out := make([]models.Snippet, len(src))
	copy(out, src)
	for i := range out {
		likes := make([]string, len(out[i].Likes))
		copy(likes, out[i].Likes)
		out[i].Likes = likes
	}
	return out
}
