package cli

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"texttide/internal/config"
	"texttide/internal/repository"
)

// openRepository ouvre le store de snippets configuré pour les commandes CLI.
// CLI commands operate on the same backing store as the server.
func openRepository(cfg *config.Config) (repository.SnippetRepository, error) {
	switch cfg.Store.Backend {
	case "file", "":
		return repository.NewFileSnippetRepository(cfg.Store.Path), nil
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(cfg.Database.Name), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return repository.NewSqliteSnippetRepository(db), nil
	default:
		return nil, fmt.Errorf("store backend %q is not usable from the CLI", cfg.Store.Backend)
	}
}
