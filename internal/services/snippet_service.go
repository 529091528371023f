// Package services contains the business logic layer for the TextTide application
package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	apperrors "texttide/internal/errors"
	"texttide/internal/models"
	"texttide/internal/repository"
	"texttide/internal/retention"
)

// charset defines the character set used for generating snippet ids.
// Uses alphanumeric characters (both cases) for a total of 62 possible characters.
// This gives us 62^6 = ~56 billion possible combinations for 6-character ids.
const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// idLength is the length of generated snippet ids.
const idLength = 6

// SnippetService provides business logic methods for the shared text store.
// It acts as an intermediary between the HTTP handlers and the data repository.
//
// Every operation runs the same cycle: load the snapshot, drop expired
// snippets, compute, and persist when something changed. A single mutex
// serializes the cycles, so concurrent requests within one process cannot
// lose updates against each other.
type SnippetService struct {
	repo   repository.SnippetRepository // Repository interface for snapshot load/save
	window time.Duration                // Retention window; snippets older than this expire
	log    zerolog.Logger

	mu sync.Mutex // Serializes load-modify-save cycles (single-writer point)
}

// NewSnippetService creates and returns a new instance of SnippetService.
func NewSnippetService(repo repository.SnippetRepository, window time.Duration, log zerolog.Logger) *SnippetService {
	if window <= 0 {
		window = retention.DefaultWindow
	}
	return &SnippetService{
		repo:   repo,
		window: window,
		log:    log,
	}
}

// List returns all live snippets annotated for the requesting visitor,
// most recent first.
func (s *SnippetService) List(visitorID string) ([]models.SnippetView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	live, err := s.loadLive()
	if err != nil {
		return nil, err
	}

	views := make([]models.SnippetView, 0, len(live))
	for i := range live {
		views = append(views, live[i].ViewFor(visitorID))
	}
	return views, nil
}

// Get returns the live snippet with the given id annotated for the visitor,
// or ErrSnippetNotFound.
func (s *SnippetService) Get(id, visitorID string) (models.SnippetView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	live, err := s.loadLive()
	if err != nil {
		return models.SnippetView{}, err
	}

	idx := indexOf(live, id)
	if idx < 0 {
		return models.SnippetView{}, apperrors.ErrSnippetNotFound
	}
	return live[idx].ViewFor(visitorID), nil
}

// Create stores a new snippet with a freshly generated unique id and returns
// it annotated for its creator. The text is trimmed before validation and
// storage; a blank text fails with ErrEmptyText and persists nothing.
func (s *SnippetService) Create(text string, editable bool, visitorID string) (models.SnippetView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.SnippetView{}, apperrors.ErrEmptyText
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	live, err := s.loadLive()
	if err != nil {
		return models.SnippetView{}, err
	}

	id, err := s.generateUniqueID(live)
	if err != nil {
		return models.SnippetView{}, err
	}

	snippet := models.Snippet{
		ID:        id,
		Text:      text,
		CreatedAt: time.Now(),
		Likes:     []string{},
		CreatorID: visitorID,
		Editable:  editable,
	}

	// Prepend: the collection is ordered most-recent-first.
	live = append([]models.Snippet{snippet}, live...)
	if err := s.repo.Save(live); err != nil {
		return models.SnippetView{}, err
	}
	return snippet.ViewFor(visitorID), nil
}

// Update replaces the text of an existing snippet. Only the creator may edit
// it unless the snippet is marked editable.
func (s *SnippetService) Update(id, text, visitorID string) (models.SnippetView, error) {
	text = strings.TrimSpace(text)

	s.mu.Lock()
	defer s.mu.Unlock()

	live, err := s.loadLive()
	if err != nil {
		return models.SnippetView{}, err
	}

	idx := indexOf(live, id)
	if idx < 0 {
		return models.SnippetView{}, apperrors.ErrSnippetNotFound
	}
	if text == "" {
		return models.SnippetView{}, apperrors.ErrEmptyText
	}
	if !live[idx].CanEdit(visitorID) {
		return models.SnippetView{}, apperrors.ErrNotAuthorized
	}

	now := time.Now()
	live[idx].Text = text
	live[idx].UpdatedAt = &now

	if err := s.repo.Save(live); err != nil {
		return models.SnippetView{}, err
	}
	return live[idx].ViewFor(visitorID), nil
}

// ToggleLike flips the visitor's like on the snippet: present becomes absent
// and vice versa. Any visitor may like any live snippet. Returns the new
// hasLiked state and the resulting like count.
func (s *SnippetService) ToggleLike(id, visitorID string) (bool, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	live, err := s.loadLive()
	if err != nil {
		return false, 0, err
	}

	idx := indexOf(live, id)
	if idx < 0 {
		return false, 0, apperrors.ErrSnippetNotFound
	}

	snippet := &live[idx]
	if snippet.HasLiked(visitorID) {
		likes := make([]string, 0, len(snippet.Likes)-1)
		for _, v := range snippet.Likes {
			if v != visitorID {
				likes = append(likes, v)
			}
		}
		snippet.Likes = likes
	} else {
		snippet.Likes = append(snippet.Likes, visitorID)
	}
	snippet.LikesCount = len(snippet.Likes)

	if err := s.repo.Save(live); err != nil {
		return false, 0, err
	}
	return snippet.HasLiked(visitorID), snippet.LikesCount, nil
}

// Delete removes the snippet with the given id if present and persists the
// remaining collection. Deleting an unknown id is not an error.
func (s *SnippetService) Delete(id, visitorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	live, err := s.loadLive()
	if err != nil {
		return err
	}

	remaining := make([]models.Snippet, 0, len(live))
	for _, snippet := range live {
		if snippet.ID != id {
			remaining = append(remaining, snippet)
		}
	}
	return s.repo.Save(remaining)
}

// TopLiked returns the n most liked live snippets. Ties keep their listing
// order, so among equally liked snippets the most recent comes first.
func (s *SnippetService) TopLiked(n int) ([]models.Snippet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	live, err := s.loadLive()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(live, func(i, j int) bool {
		return live[i].LikesCount > live[j].LikesCount
	})
	if n > 0 && n < len(live) {
		live = live[:n]
	}
	return live, nil
}

// loadLive loads the snapshot and applies the retention filter. Expiry is
// committed right away: when the filter dropped something, the pruned
// snapshot is persisted before the caller goes on, so an expired snippet is
// gone from disk after a single read. Callers must hold s.mu.
func (s *SnippetService) loadLive() ([]models.Snippet, error) {
	snippets, err := s.repo.Load()
	if err != nil {
		return nil, err
	}

	live, expired := retention.Filter(snippets, time.Now(), s.window)
	if expired > 0 {
		s.log.Info().Int("expired", expired).Msg("Pruning expired snippets")
		if err := s.repo.Save(live); err != nil {
			return nil, err
		}
	}
	return live, nil
}

// generateUniqueID draws 6-character ids until one is free in the current
// live set. Collisions are vanishingly rare but the retry is mandatory, so
// the loop has no attempt cap.
func (s *SnippetService) generateUniqueID(live []models.Snippet) (string, error) {
	taken := make(map[string]struct{}, len(live))
	for i := range live {
		taken[live[i].ID] = struct{}{}
	}

	for {
		id, err := generateID(idLength)
		if err != nil {
			return "", err
		}
		if _, exists := taken[id]; !exists {
			return id, nil
		}
		s.log.Warn().Str("id", id).Msg("Snippet id already exists, retrying generation")
	}
}

// generateID generates a cryptographically secure random id of the given length.
func generateID(length int) (string, error) {
	id := make([]byte, length)
	for i := range id {
		// Use crypto/rand for cryptographically secure random numbers
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		id[i] = charset[num.Int64()]
	}
	return string(id), nil
}

// indexOf returns the position of the snippet with the given id, or -1.
func indexOf(snippets []models.Snippet, id string) int {
	for i := range snippets {
		if snippets[i].ID == id {
			return i
		}
	}
	return -1
}
