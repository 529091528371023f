package repository

import "texttide/internal/models"

// SnippetRepository est une interface qui définit les méthodes d'accès aux données.
// The store works in whole snapshots: every operation loads the full ordered
// collection, mutates it in memory and writes it back.
type SnippetRepository interface {
	// Load returns the full ordered snapshot. A missing backing location is
	// an empty store, not an error.
	Load() ([]models.Snippet, error)

	// Save replaces the snapshot with the given collection, creating the
	// backing location if absent. A failed save must leave the previous
	// snapshot intact.
	Save(snippets []models.Snippet) error
}
