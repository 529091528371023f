package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"texttide/cmd"
	"texttide/internal/api"
	"texttide/internal/config"
	"texttide/internal/logger"
	"texttide/internal/models"
	"texttide/internal/repository"
	"texttide/internal/services"
	"texttide/internal/sweeper"
	"texttide/internal/workers"
)

// RunServerCmd représente la commande 'run-server' de Cobra.
// C'est le point d'entrée pour lancer le serveur de l'application.
var RunServerCmd = &cobra.Command{
	Use:   "run-server",
	Short: "Lance le serveur API de partage de textes et les processus de fond.",
	Long: `Cette commande initialise le store de snippets, configure les APIs,
démarre les workers de notification et le sweeper de rétention,
puis lance le serveur HTTP.`,
	Run: func(cobraCmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}

		log := logger.New()

		// Initialize the snapshot repository for the configured backend
		repo, err := buildRepository(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize snippet store")
		}
		log.Info().Str("backend", cfg.Store.Backend).Msg("Snippet store initialized")

		// Initialize the business service
		window := time.Duration(cfg.Retention.Days) * 24 * time.Hour
		snippetService := services.NewSnippetService(repo, window, log)
		log.Info().Int("retention_days", cfg.Retention.Days).Msg("Snippet service initialized")

		// Contact notification pipeline: buffered channel plus a worker pool,
		// only when an outbound endpoint is configured.
		if cfg.Notify.Endpoint != "" {
			contactEvents := make(chan models.ContactEvent, cfg.Notify.BufferSize)
			api.ContactEventsChannel = contactEvents
			workers.StartNotifyWorkers(cfg.Notify.WorkerCount, contactEvents, cfg.Notify.Endpoint, log)
			log.Info().
				Int("buffer", cfg.Notify.BufferSize).
				Int("workers", cfg.Notify.WorkerCount).
				Msg("Contact notification pipeline started")
		}

		// Background retention sweep; reads already prune, this keeps rarely
		// read stores small.
		if cfg.Sweeper.IntervalMinutes > 0 {
			sweepInterval := time.Duration(cfg.Sweeper.IntervalMinutes) * time.Minute
			retentionSweeper := sweeper.NewSweeper(repo, window, sweepInterval, log)
			go retentionSweeper.Start()
			log.Info().Dur("interval", sweepInterval).Msg("Retention sweeper started")
		}

		// Configure the Gin router and the API handlers
		gin.SetMode(gin.ReleaseMode)
		router := gin.New()
		router.Use(api.RequestLogger(log), gin.Recovery())
		api.SetupRoutes(router, snippetService, log)
		log.Info().Msg("Routes API configurées.")

		serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
		srv := &http.Server{
			Addr:    serverAddr,
			Handler: router,
		}

		// Start the HTTP server in a goroutine so we can wait for signals
		go func() {
			log.Info().Str("addr", serverAddr).Msg("Démarrage du serveur")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatal().Err(err).Msg("Échec du démarrage du serveur")
			}
		}()

		// Graceful shutdown on SIGINT/SIGTERM
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("Signal d'arrêt reçu. Arrêt du serveur...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Arrêt forcé du serveur")
		}
		if api.ContactEventsChannel != nil {
			close(api.ContactEventsChannel)
		}
		log.Info().Msg("Serveur arrêté proprement.")
	},
}

// buildRepository selects the snapshot backend from the configuration.
func buildRepository(cfg *config.Config) (repository.SnippetRepository, error) {
	switch cfg.Store.Backend {
	case "file", "":
		return repository.NewFileSnippetRepository(cfg.Store.Path), nil
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(cfg.Database.Name), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := repository.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return repository.NewSqliteSnippetRepository(db), nil
	case "memory":
		return repository.NewMemorySnippetRepository(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func init() {
	cmd.RootCmd.AddCommand(RunServerCmd)
}
