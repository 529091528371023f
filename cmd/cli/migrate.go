package cli

import (
	"fmt"
	"log"

	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"texttide/cmd"
	"texttide/internal/config"
	"texttide/internal/repository"
)

var fromFileFlag bool

// MigrateCmd represents the 'migrate' command
// This command handles database schema creation for the sqlite backend
var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Executes database migrations to create or update tables.",
	Long: `This command connects to the configured database (SQLite) and creates
the 'snippets' table. With --from-file, the current JSON file store is
imported into the database afterwards, so an instance can switch from the
file backend to the sqlite backend without losing data.`,
	Run: func(cobraCmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		db, err := gorm.Open(sqlite.Open(cfg.Database.Name), &gorm.Config{})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			log.Fatalf("FATAL: Failed to get underlying SQL database: %v", err)
		}
		defer sqlDB.Close()

		if err := repository.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		fmt.Println("Database migrations executed successfully.")

		if !fromFileFlag {
			return
		}

		// Import the file snapshot into the freshly migrated database
		fileRepo := repository.NewFileSnippetRepository(cfg.Store.Path)
		snippets, err := fileRepo.Load()
		if err != nil {
			log.Fatalf("Failed to load file store %s: %v", cfg.Store.Path, err)
		}
		if err := repository.NewSqliteSnippetRepository(db).Save(snippets); err != nil {
			log.Fatalf("Failed to import snippets into database: %v", err)
		}
		fmt.Printf("Imported %d snippet(s) from %s.\n", len(snippets), cfg.Store.Path)
	},
}

func init() {
	MigrateCmd.Flags().BoolVar(&fromFileFlag, "from-file", false, "Import the JSON file store after migrating")
	cmd.RootCmd.AddCommand(MigrateCmd)
}
