// Package retention implements the expiry filter applied to every snapshot
// read. It is a pure function: the caller decides whether the filtered
// result gets persisted.
package retention

import (
	"time"

	"texttide/internal/models"
)

// DefaultWindow is the lifetime of a snippet after creation.
const DefaultWindow = 30 * 24 * time.Hour

// Filter returns the snippets still inside the retention window at the given
// instant, preserving order, along with the number of expired snippets it
// dropped. A snippet is live while now - CreatedAt < window.
func Filter(snippets []models.Snippet, now time.Time, window time.Duration) ([]models.Snippet, int) {
	live := make([]models.Snippet, 0, len(snippets))
	for _, s := range snippets {
		if now.Sub(s.CreatedAt) < window {
			live = append(live, s)
		}
	}
	return live, len(snippets) - len(live)
}
