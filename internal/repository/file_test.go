package repository

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"texttide/internal/models"
)

func TestFileSnippetRepository_LoadMissingFile(t *testing.T) {
	repo := NewFileSnippetRepository(filepath.Join(t.TempDir(), "missing", "snippets.json"))

	snippets, err := repo.Load()

	require.NoError(t, err)
	assert.Empty(t, snippets)
}

func TestFileSnippetRepository_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "snippets.json")
	repo := NewFileSnippetRepository(path)

	updated := time.Date(2026, 7, 2, 9, 0, 0, 0, time.UTC)
	saved := []models.Snippet{
		{
			ID:         "abc123",
			Text:       "second paste",
			CreatedAt:  time.Date(2026, 7, 2, 8, 0, 0, 0, time.UTC),
			UpdatedAt:  &updated,
			Likes:      []string{"visitor-a", "visitor-b"},
			LikesCount: 2,
			CreatorID:  "visitor-a",
			Editable:   true,
		},
		{
			ID:        "XyZ789",
			Text:      "first paste",
			CreatedAt: time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC),
			Likes:     []string{},
			CreatorID: "visitor-b",
		},
	}

	// Save must create the containing directory on first write
	require.NoError(t, repo.Save(saved))

	loaded, err := repo.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// Order preserved
	assert.Equal(t, "abc123", loaded[0].ID)
	assert.Equal(t, "XyZ789", loaded[1].ID)
	assert.Equal(t, saved[0].Likes, loaded[0].Likes)
	assert.Equal(t, 2, loaded[0].LikesCount)
	assert.True(t, saved[0].UpdatedAt.Equal(*loaded[0].UpdatedAt))
	assert.Nil(t, loaded[1].UpdatedAt)
	assert.True(t, loaded[0].Editable)
	assert.False(t, loaded[1].Editable)
}

func TestFileSnippetRepository_LoadNormalizesDerivedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snippets.json")

	// A hand-edited store: likes missing entirely and a stale cached count
	raw := `[{"id":"abc123","text":"hi","createdAt":"2026-07-01T08:00:00Z","likesCount":7,"creatorId":"v","editable":false}]`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	loaded, err := NewFileSnippetRepository(path).Load()

	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.NotNil(t, loaded[0].Likes)
	assert.Empty(t, loaded[0].Likes)
	assert.Equal(t, 0, loaded[0].LikesCount)
}

func TestFileSnippetRepository_LoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snippets.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	snippets, err := NewFileSnippetRepository(path).Load()

	require.NoError(t, err)
	assert.Empty(t, snippets)
}

func TestFileSnippetRepository_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileSnippetRepository(filepath.Join(dir, "snippets.json"))

	require.NoError(t, repo.Save([]models.Snippet{{ID: "abc123", Text: "hi", Likes: []string{}}}))
	require.NoError(t, repo.Save([]models.Snippet{}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "snippets.json", entries[0].Name())
}
