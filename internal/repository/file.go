package repository

import (
	"encoding/json"
	"os"
	"path/filepath"

	apperrors "texttide/internal/errors"
	"texttide/internal/models"
)

// FileSnippetRepository est l'implémentation de SnippetRepository qui garde
// toute la collection dans un seul fichier JSON.
type FileSnippetRepository struct {
	path string
}

// NewFileSnippetRepository crée et retourne une nouvelle instance de FileSnippetRepository.
func NewFileSnippetRepository(path string) *FileSnippetRepository {
	return &FileSnippetRepository{path: path}
}

// Load reads the snapshot from disk. A missing or empty file yields an empty
// collection.
func (r *FileSnippetRepository) Load() ([]models.Snippet, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Snippet{}, nil
		}
		return nil, apperrors.ErrStoreFailed{Op: "load", Err: err}
	}
	if len(data) == 0 {
		return []models.Snippet{}, nil
	}

	var snippets []models.Snippet
	if err := json.Unmarshal(data, &snippets); err != nil {
		return nil, apperrors.ErrStoreFailed{Op: "load", Err: err}
	}
	for i := range snippets {
		snippets[i].Normalize()
	}
	return snippets, nil
}

// Save writes the full snapshot. The data goes to a temp file in the same
// directory first and is renamed over the target, so a failure mid-write
// cannot corrupt the previous snapshot.
func (r *FileSnippetRepository) Save(snippets []models.Snippet) error {
	data, err := json.MarshalIndent(snippets, "", "  ")
	if err != nil {
		return apperrors.ErrStoreFailed{Op: "save", Err: err}
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.ErrStoreFailed{Op: "save", Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".snippets-*.json")
	if err != nil {
		return apperrors.ErrStoreFailed{Op: "save", Err: err}
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return apperrors.ErrStoreFailed{Op: "save", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return apperrors.ErrStoreFailed{Op: "save", Err: err}
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		os.Remove(tmp.Name())
		return apperrors.ErrStoreFailed{Op: "save", Err: err}
	}
	return nil
}
