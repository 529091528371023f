// Package sweeper prunes expired snippets in the background. The read path
// already drops and persists expiry on every request, so the sweeper only
// keeps the backing store small on instances that are rarely read.
package sweeper

import (
	"time"

	"github.com/rs/zerolog"

	"texttide/internal/repository"
	"texttide/internal/retention"
)

// Sweeper periodically loads the snapshot, applies the retention filter and
// persists the result when anything expired.
type Sweeper struct {
	repo     repository.SnippetRepository
	window   time.Duration // Retention window shared with the service
	interval time.Duration // How often to sweep
	log      zerolog.Logger
}

// NewSweeper creates and returns a new instance of Sweeper.
func NewSweeper(repo repository.SnippetRepository, window, interval time.Duration, log zerolog.Logger) *Sweeper {
	return &Sweeper{
		repo:     repo,
		window:   window,
		interval: interval,
		log:      log,
	}
}

// Start launches the periodic sweep loop. This is a blocking function that
// runs until the program stops; callers launch it in a goroutine.
func (s *Sweeper) Start() {
	s.log.Info().Dur("interval", s.interval).Msg("Starting retention sweeper")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Sweep once on startup before waiting for the first tick
	s.Sweep()

	for range ticker.C {
		s.Sweep()
	}
}

// Sweep performs one pass: anything past the retention window is dropped and
// the pruned snapshot persisted. A failed save leaves the old snapshot in
// place; the next pass or the next read will retry.
func (s *Sweeper) Sweep() {
	snippets, err := s.repo.Load()
	if err != nil {
		s.log.Error().Err(err).Msg("Sweep: failed to load snapshot")
		return
	}

	live, expired := retention.Filter(snippets, time.Now(), s.window)
	if expired == 0 {
		return
	}

	if err := s.repo.Save(live); err != nil {
		s.log.Error().Err(err).Msg("Sweep: failed to save pruned snapshot")
		return
	}
	s.log.Info().Int("expired", expired).Int("live", len(live)).Msg("Sweep: pruned expired snippets")
}
